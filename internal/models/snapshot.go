package models

import (
	"time"
)

// Rolling window sizes used for recency-weighted averages
const (
	Window7  = 7
	Window14 = 14
	Window30 = 30
)

// WindowAverages holds per-category averages over the most recent N games.
// GamesCounted may be less than the window size for players with short
// histories; a count of zero means the averages are absent, not zero.
type WindowAverages struct {
	Averages     StatLine `json:"averages"`
	GamesCounted int      `json:"games_counted"`
}

// Average returns the window average for a prop type and whether it exists
func (w *WindowAverages) Average(prop PropType) (float64, bool) {
	if w.GamesCounted == 0 {
		return 0, false
	}
	return w.Averages.ValueFor(prop), true
}

// PlayerStatsSnapshot is the derived "current knowledge" of a player's form
// for one season. It is overwritten in place whenever new stat records arrive;
// historical reproducibility is carried by the frozen inputs stored on each
// prediction, never by versioning this projection.
type PlayerStatsSnapshot struct {
	PlayerID string `db:"player_id" json:"player_id" validate:"required"`
	Season   int    `db:"season" json:"season" validate:"required,gt=0"`

	LastGameID   string    `db:"last_game_id" json:"last_game_id"`
	LastGameDate time.Time `db:"last_game_date" json:"last_game_date"`
	LastGame     StatLine  `json:"last_game"`

	Window7  WindowAverages `json:"window_7"`
	Window14 WindowAverages `json:"window_14"`
	Window30 WindowAverages `json:"window_30"`

	SeasonTotals   StatLine `json:"season_totals"`
	SeasonAverages StatLine `json:"season_averages"`
	SeasonGames    int      `db:"season_games" json:"season_games"`

	UpdatedAt time.Time `db:"updated_at" json:"updated_at"`
}

// HasData reports whether the snapshot contains any scored games
func (s *PlayerStatsSnapshot) HasData() bool {
	return s.SeasonGames > 0
}

// WindowAverage returns the rolling average for the given window size and
// prop type. The boolean is false when no games fall inside the window.
func (s *PlayerStatsSnapshot) WindowAverage(window int, prop PropType) (float64, bool) {
	switch window {
	case Window7:
		return s.Window7.Average(prop)
	case Window14:
		return s.Window14.Average(prop)
	case Window30:
		return s.Window30.Average(prop)
	}
	return 0, false
}

// SeasonAverage returns the season per-game average for a prop type
func (s *PlayerStatsSnapshot) SeasonAverage(prop PropType) (float64, bool) {
	if s.SeasonGames == 0 {
		return 0, false
	}
	return s.SeasonAverages.ValueFor(prop), true
}

// WidestWindowGames returns the games counted in the widest populated window,
// the sample size behind the confidence heuristic.
func (s *PlayerStatsSnapshot) WidestWindowGames() int {
	// Window counts are monotone in window size, so the 30-game window always
	// carries the largest sample.
	return s.Window30.GamesCounted
}
