package models

import (
	"time"
)

// VendorPrice is one sportsbook's prices for both sides of a prop line.
// A nil price means the vendor does not offer that side.
type VendorPrice struct {
	Vendor     string `json:"vendor" validate:"required"`
	OverPrice  *int   `json:"over_price"`
	UnderPrice *int   `json:"under_price"`
}

// BestQuote holds the most favorable price per side across vendors. A side
// with no vendor offering it stays nil end to end; downstream probability and
// value computations skip it.
type BestQuote struct {
	OverPrice   *int    `json:"over_price"`
	OverVendor  *string `json:"over_vendor"`
	UnderPrice  *int    `json:"under_price"`
	UnderVendor *string `json:"under_vendor"`
}

// OddsQuote is an immutable market snapshot for one (game, player, prop) as
// of scrape time.
type OddsQuote struct {
	GameID    string        `json:"game_id" validate:"required"`
	PlayerID  string        `json:"player_id" validate:"required"`
	PropType  PropType      `json:"prop_type" validate:"required"`
	Line      float64       `json:"line" validate:"required"`
	Vendors   []VendorPrice `json:"vendors"`
	Best      BestQuote     `json:"best"`
	ScrapedAt time.Time     `json:"scraped_at"`
}
