package repository

import (
	"context"
	"errors"

	"github.com/jackc/pgx/v5"

	"github.com/yourusername/prop-scout/internal/database"
	"github.com/yourusername/prop-scout/internal/models"
)

// PostgresSnapshotRepository implements SnapshotRepository for PostgreSQL
type PostgresSnapshotRepository struct {
	db *database.DB
}

// NewPostgresSnapshotRepository creates a new snapshot repository
func NewPostgresSnapshotRepository(db *database.DB) SnapshotRepository {
	return &PostgresSnapshotRepository{db: db}
}

// Upsert overwrites the per-(player, season) projection in place. Snapshots
// carry current knowledge only; history lives in the frozen inputs on each
// prediction.
func (r *PostgresSnapshotRepository) Upsert(ctx context.Context, s *models.PlayerStatsSnapshot) error {
	query := `
		INSERT INTO player_stats_snapshots (
			player_id, season, last_game_id, last_game_date, last_game,
			window_7, window_14, window_30,
			season_totals, season_averages, season_games, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, now())
		ON CONFLICT (player_id, season) DO UPDATE SET
			last_game_id    = EXCLUDED.last_game_id,
			last_game_date  = EXCLUDED.last_game_date,
			last_game       = EXCLUDED.last_game,
			window_7        = EXCLUDED.window_7,
			window_14       = EXCLUDED.window_14,
			window_30       = EXCLUDED.window_30,
			season_totals   = EXCLUDED.season_totals,
			season_averages = EXCLUDED.season_averages,
			season_games    = EXCLUDED.season_games,
			updated_at      = now()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		s.PlayerID, s.Season, s.LastGameID, s.LastGameDate, s.LastGame,
		s.Window7, s.Window14, s.Window30,
		s.SeasonTotals, s.SeasonAverages, s.SeasonGames,
	)
	if err != nil {
		return models.NewPersistenceError("snapshot upsert", err)
	}

	return nil
}

// GetByPlayer retrieves the current snapshot for a player and season
func (r *PostgresSnapshotRepository) GetByPlayer(ctx context.Context, playerID string, season int) (*models.PlayerStatsSnapshot, error) {
	query := `
		SELECT player_id, season, last_game_id, last_game_date, last_game,
		       window_7, window_14, window_30,
		       season_totals, season_averages, season_games, updated_at
		FROM player_stats_snapshots
		WHERE player_id = $1 AND season = $2
	`

	s := &models.PlayerStatsSnapshot{}
	err := r.db.GetPool().QueryRow(ctx, query, playerID, season).Scan(
		&s.PlayerID, &s.Season, &s.LastGameID, &s.LastGameDate, &s.LastGame,
		&s.Window7, &s.Window14, &s.Window30,
		&s.SeasonTotals, &s.SeasonAverages, &s.SeasonGames, &s.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, models.NewPersistenceError("snapshot get", err)
	}

	return s, nil
}
