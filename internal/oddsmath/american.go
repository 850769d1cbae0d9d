// Package oddsmath converts sportsbook prices between American odds and
// implied probabilities and selects the best available quote per market side.
package oddsmath

import (
	"math"

	"github.com/yourusername/prop-scout/internal/models"
)

// AmericanToImpliedProbability converts an American-odds price to the
// probability the market encodes, ignoring bookmaker margin.
// +150 → 100/250 = 0.40; -110 → 110/210 ≈ 0.5238.
// A price of 0 is undefined in the American convention.
func AmericanToImpliedProbability(price int) (float64, error) {
	if price == 0 {
		return 0, models.ErrInvalidOdds
	}

	if price > 0 {
		return 100.0 / (float64(price) + 100.0), nil
	}

	abs := math.Abs(float64(price))
	return abs / (abs + 100.0), nil
}

// AmericanToDecimal converts American odds to decimal odds.
// +150 → 2.50; -150 → 1.67.
func AmericanToDecimal(price int) (float64, error) {
	if price == 0 {
		return 0, models.ErrInvalidOdds
	}

	if price > 0 {
		return (float64(price) / 100.0) + 1.0, nil
	}

	return (100.0 / math.Abs(float64(price))) + 1.0, nil
}

// ProfitPerUnit returns the profit on a winning one-unit stake at the given
// American price. +150 → 1.5; -110 → 100/110.
func ProfitPerUnit(price int) (float64, error) {
	dec, err := AmericanToDecimal(price)
	if err != nil {
		return 0, err
	}
	return dec - 1.0, nil
}
