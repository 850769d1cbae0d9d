package models

import (
	"time"
)

// PropType identifies a proposition bet category
type PropType string

// Supported prop types
const (
	PropPoints   PropType = "points"
	PropAssists  PropType = "assists"
	PropRebounds PropType = "rebounds"
	PropSteals   PropType = "steals"
	PropBlocks   PropType = "blocks"
	PropThrees   PropType = "threes"
	PropPRA      PropType = "pra"
)

// AllPropTypes lists every supported prop type in a stable order
func AllPropTypes() []PropType {
	return []PropType{PropPoints, PropAssists, PropRebounds, PropSteals, PropBlocks, PropThrees, PropPRA}
}

// IsValid reports whether the prop type is one of the supported categories
func (p PropType) IsValid() bool {
	switch p {
	case PropPoints, PropAssists, PropRebounds, PropSteals, PropBlocks, PropThrees, PropPRA:
		return true
	}
	return false
}

// StatLine holds the fixed set of numeric categories recorded per game
type StatLine struct {
	Points              float64 `db:"points" json:"points"`
	Assists             float64 `db:"assists" json:"assists"`
	Rebounds            float64 `db:"rebounds" json:"rebounds"`
	Steals              float64 `db:"steals" json:"steals"`
	Blocks              float64 `db:"blocks" json:"blocks"`
	Turnovers           float64 `db:"turnovers" json:"turnovers"`
	ThreesMade          float64 `db:"threes_made" json:"threes_made"`
	ThreesAttempted     float64 `db:"threes_attempted" json:"threes_attempted"`
	FieldGoalsMade      float64 `db:"field_goals_made" json:"field_goals_made"`
	FieldGoalsAttempted float64 `db:"field_goals_attempted" json:"field_goals_attempted"`
	FreeThrowsMade      float64 `db:"free_throws_made" json:"free_throws_made"`
	FreeThrowsAttempted float64 `db:"free_throws_attempted" json:"free_throws_attempted"`
	Minutes             float64 `db:"minutes" json:"minutes"`
}

// ValueFor returns the stat line value for a prop type. Composite props
// (points+rebounds+assists) are derived from their components.
func (l *StatLine) ValueFor(prop PropType) float64 {
	switch prop {
	case PropPoints:
		return l.Points
	case PropAssists:
		return l.Assists
	case PropRebounds:
		return l.Rebounds
	case PropSteals:
		return l.Steals
	case PropBlocks:
		return l.Blocks
	case PropThrees:
		return l.ThreesMade
	case PropPRA:
		return l.Points + l.Rebounds + l.Assists
	}
	return 0
}

// Add accumulates another stat line into the receiver
func (l *StatLine) Add(other StatLine) {
	l.Points += other.Points
	l.Assists += other.Assists
	l.Rebounds += other.Rebounds
	l.Steals += other.Steals
	l.Blocks += other.Blocks
	l.Turnovers += other.Turnovers
	l.ThreesMade += other.ThreesMade
	l.ThreesAttempted += other.ThreesAttempted
	l.FieldGoalsMade += other.FieldGoalsMade
	l.FieldGoalsAttempted += other.FieldGoalsAttempted
	l.FreeThrowsMade += other.FreeThrowsMade
	l.FreeThrowsAttempted += other.FreeThrowsAttempted
	l.Minutes += other.Minutes
}

// Scale divides every category by n, returning the per-game average line
func (l StatLine) Scale(n int) StatLine {
	if n <= 0 {
		return StatLine{}
	}
	d := float64(n)
	return StatLine{
		Points:              l.Points / d,
		Assists:             l.Assists / d,
		Rebounds:            l.Rebounds / d,
		Steals:              l.Steals / d,
		Blocks:              l.Blocks / d,
		Turnovers:           l.Turnovers / d,
		ThreesMade:          l.ThreesMade / d,
		ThreesAttempted:     l.ThreesAttempted / d,
		FieldGoalsMade:      l.FieldGoalsMade / d,
		FieldGoalsAttempted: l.FieldGoalsAttempted / d,
		FreeThrowsMade:      l.FreeThrowsMade / d,
		FreeThrowsAttempted: l.FreeThrowsAttempted / d,
		Minutes:             l.Minutes / d,
	}
}

// StatRecord represents one player's statistics for a single game.
// Records are immutable once written; they arrive pre-deduplicated from the
// stats provider.
type StatRecord struct {
	PlayerID string    `db:"player_id" json:"player_id" validate:"required"`
	GameID   string    `db:"game_id" json:"game_id" validate:"required"`
	GameDate time.Time `db:"game_date" json:"game_date" validate:"required"`
	Season   int       `db:"season" json:"season" validate:"required,gt=0"`
	Stats    StatLine  `json:"stats"`
}
