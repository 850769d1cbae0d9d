// Package provider defines the external data collaborators that feed the
// prediction engine. The engine itself performs no network I/O; these clients
// own their timeout and retry policy and hand the engine structured records.
package provider

import (
	"context"
	"time"

	"github.com/yourusername/prop-scout/internal/models"
)

// StatsProvider supplies player game logs and per-game final statistics.
// Records arrive deduplicated.
type StatsProvider interface {
	// PlayerGameLog returns all stat records for a player in a season,
	// in no guaranteed order.
	PlayerGameLog(ctx context.Context, playerID string, season int) ([]models.StatRecord, error)

	// FinalStats returns the final per-player stat lines for a game. The
	// boolean is false while the game's outcome is not yet available.
	FinalStats(ctx context.Context, gameID string) (map[string]models.StatLine, bool, error)
}

// OddsProvider supplies prop market quotes, refreshed on each scan cycle
type OddsProvider interface {
	// PropQuotes returns every available (game, player, prop) quote for the
	// slate on the given date, with vendor prices attached.
	PropQuotes(ctx context.Context, date time.Time) ([]models.OddsQuote, error)
}
