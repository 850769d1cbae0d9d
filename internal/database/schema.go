package database

import (
	"context"
	"fmt"

	"github.com/yourusername/prop-scout/internal/config"
)

// schemaStatements defines the persisted state of the engine. The unique
// indexes are load-bearing: prediction and metric uniqueness is enforced
// here, at the storage layer, not by application logic.
var schemaStatements = []string{
	`CREATE TABLE IF NOT EXISTS player_stats_snapshots (
		player_id       TEXT        NOT NULL,
		season          INT         NOT NULL,
		last_game_id    TEXT        NOT NULL DEFAULT '',
		last_game_date  TIMESTAMPTZ,
		last_game       JSONB,
		window_7        JSONB,
		window_14       JSONB,
		window_30       JSONB,
		season_totals   JSONB,
		season_averages JSONB,
		season_games    INT         NOT NULL DEFAULT 0,
		updated_at      TIMESTAMPTZ NOT NULL DEFAULT now(),
		PRIMARY KEY (player_id, season)
	)`,
	`CREATE TABLE IF NOT EXISTS predictions (
		id                  UUID PRIMARY KEY,
		game_id             TEXT             NOT NULL,
		player_id           TEXT             NOT NULL,
		prop_type           TEXT             NOT NULL,
		prediction_date     DATE             NOT NULL,
		line                DOUBLE PRECISION NOT NULL,
		best_over_price     INT,
		over_vendor         TEXT,
		best_under_price    INT,
		under_vendor        TEXT,
		implied_prob_over   DOUBLE PRECISION,
		implied_prob_under  DOUBLE PRECISION,
		predicted_prob_over DOUBLE PRECISION NOT NULL,
		value_over          DOUBLE PRECISION,
		value_under         DOUBLE PRECISION,
		confidence          DOUBLE PRECISION NOT NULL,
		model_version       TEXT             NOT NULL,
		inputs              JSONB,
		actual_value        DOUBLE PRECISION,
		actual_result       TEXT,
		reconciled_at       TIMESTAMPTZ,
		created_at          TIMESTAMPTZ      NOT NULL DEFAULT now(),
		updated_at          TIMESTAMPTZ      NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS predictions_scoring_key
		ON predictions (game_id, player_id, prop_type, prediction_date)`,
	`CREATE INDEX IF NOT EXISTS predictions_game_idx ON predictions (game_id)`,
	`CREATE INDEX IF NOT EXISTS predictions_unreconciled_idx
		ON predictions (game_id) WHERE actual_result IS NULL`,
	`CREATE TABLE IF NOT EXISTS model_performance_metrics (
		id                      UUID PRIMARY KEY,
		model_version           TEXT        NOT NULL,
		prop_type               TEXT        NOT NULL,
		period_start            TIMESTAMPTZ NOT NULL,
		period_end              TIMESTAMPTZ NOT NULL,
		total_predictions       INT         NOT NULL DEFAULT 0,
		resolved_predictions    INT         NOT NULL DEFAULT 0,
		correct_predictions     INT         NOT NULL DEFAULT 0,
		value_bets              INT         NOT NULL DEFAULT 0,
		value_bets_correct      INT         NOT NULL DEFAULT 0,
		pushes                  INT         NOT NULL DEFAULT 0,
		accuracy                DOUBLE PRECISION,
		value_bet_accuracy      DOUBLE PRECISION,
		avg_predicted_prob_over DOUBLE PRECISION,
		actual_over_rate        DOUBLE PRECISION,
		units_wagered           NUMERIC     NOT NULL DEFAULT 0,
		units_returned          NUMERIC     NOT NULL DEFAULT 0,
		computed_at             TIMESTAMPTZ NOT NULL DEFAULT now()
	)`,
	`CREATE UNIQUE INDEX IF NOT EXISTS metrics_period_key
		ON model_performance_metrics (model_version, prop_type, period_start, period_end)`,
}

// EnsureSchema applies the schema idempotently
func (db *DB) EnsureSchema(ctx context.Context) error {
	for _, stmt := range schemaStatements {
		if _, err := db.pool.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("failed to apply schema statement: %w", err)
		}
	}
	return nil
}

// Initialize creates a database connection pool and applies the schema
func Initialize(ctx context.Context, cfg *config.Config) (*DB, error) {
	db, err := NewDB(ctx, &cfg.Database)
	if err != nil {
		return nil, err
	}

	if err := db.EnsureSchema(ctx); err != nil {
		db.Close()
		return nil, err
	}

	return db, nil
}
