package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/yourusername/prop-scout/internal/database"
	"github.com/yourusername/prop-scout/internal/models"
)

const predictionColumns = `id, game_id, player_id, prop_type, prediction_date, line,
	best_over_price, over_vendor, best_under_price, under_vendor,
	implied_prob_over, implied_prob_under, predicted_prob_over,
	value_over, value_under, confidence, model_version, inputs,
	actual_value, actual_result, reconciled_at, created_at, updated_at`

// PostgresPredictionRepository implements PredictionRepository for PostgreSQL
type PostgresPredictionRepository struct {
	db *database.DB
}

// NewPostgresPredictionRepository creates a new prediction repository
func NewPostgresPredictionRepository(db *database.DB) PredictionRepository {
	return &PostgresPredictionRepository{db: db}
}

// Upsert inserts or overwrites the scoring-derived fields of a prediction,
// keyed by (game_id, player_id, prop_type, prediction_date). The conflict
// branch deliberately omits actual_value, actual_result and reconciled_at:
// those columns belong to the reconciler and must survive a re-score. The
// statement is safe to retry; duplicate calls with identical input converge
// on a single row.
func (r *PostgresPredictionRepository) Upsert(ctx context.Context, p *models.Prediction) (uuid.UUID, error) {
	query := `
		INSERT INTO predictions (
			id, game_id, player_id, prop_type, prediction_date, line,
			best_over_price, over_vendor, best_under_price, under_vendor,
			implied_prob_over, implied_prob_under, predicted_prob_over,
			value_over, value_under, confidence, model_version, inputs,
			created_at, updated_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
		        $11, $12, $13, $14, $15, $16, $17, $18, now(), now())
		ON CONFLICT (game_id, player_id, prop_type, prediction_date) DO UPDATE SET
			line                = EXCLUDED.line,
			best_over_price     = EXCLUDED.best_over_price,
			over_vendor         = EXCLUDED.over_vendor,
			best_under_price    = EXCLUDED.best_under_price,
			under_vendor        = EXCLUDED.under_vendor,
			implied_prob_over   = EXCLUDED.implied_prob_over,
			implied_prob_under  = EXCLUDED.implied_prob_under,
			predicted_prob_over = EXCLUDED.predicted_prob_over,
			value_over          = EXCLUDED.value_over,
			value_under         = EXCLUDED.value_under,
			confidence          = EXCLUDED.confidence,
			model_version       = EXCLUDED.model_version,
			inputs              = EXCLUDED.inputs,
			updated_at          = now()
		RETURNING id
	`

	var id uuid.UUID
	err := r.db.GetPool().QueryRow(ctx, query,
		p.ID, p.GameID, p.PlayerID, p.PropType, p.PredictionDate, p.Line,
		p.BestOverPrice, p.OverVendor, p.BestUnderPrice, p.UnderVendor,
		p.ImpliedProbOver, p.ImpliedProbUnder, p.PredictedProbOver,
		p.ValueOver, p.ValueUnder, p.Confidence, p.ModelVersion, p.Inputs,
	).Scan(&id)
	if err != nil {
		return uuid.Nil, models.NewPersistenceError("prediction upsert", err)
	}

	return id, nil
}

// GetByID retrieves a single prediction
func (r *PostgresPredictionRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error) {
	query := fmt.Sprintf(`SELECT %s FROM predictions WHERE id = $1`, predictionColumns)

	p, err := scanPrediction(r.db.GetPool().QueryRow(ctx, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, models.ErrNotFound
	}
	if err != nil {
		return nil, models.NewPersistenceError("prediction get", err)
	}

	return p, nil
}

// GetByGameID retrieves every prediction for a game, reconciled or not
func (r *PostgresPredictionRepository) GetByGameID(ctx context.Context, gameID string) ([]*models.Prediction, error) {
	query := fmt.Sprintf(`SELECT %s FROM predictions WHERE game_id = $1 ORDER BY player_id, prop_type, prediction_date`, predictionColumns)

	rows, err := r.db.GetPool().Query(ctx, query, gameID)
	if err != nil {
		return nil, models.NewPersistenceError("prediction get by game", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// Query retrieves predictions matching the filter, sorted by descending
// best-side value, then confidence, with the row id as a deterministic
// tie-break.
func (r *PostgresPredictionRepository) Query(ctx context.Context, filter PredictionFilter) ([]*models.Prediction, error) {
	var conditions []string
	var args []interface{}

	addCondition := func(clause string, value interface{}) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(clause, len(args)))
	}

	if filter.GameID != nil {
		addCondition("game_id = $%d", *filter.GameID)
	}
	if filter.PlayerID != nil {
		addCondition("player_id = $%d", *filter.PlayerID)
	}
	if filter.PropType != nil {
		addCondition("prop_type = $%d", *filter.PropType)
	}
	if filter.DateFrom != nil {
		addCondition("prediction_date >= $%d", *filter.DateFrom)
	}
	if filter.DateTo != nil {
		addCondition("prediction_date <= $%d", *filter.DateTo)
	}
	if filter.MinValue != nil {
		addCondition("GREATEST(COALESCE(value_over, '-Infinity'), COALESCE(value_under, '-Infinity')) >= $%d", *filter.MinValue)
	}
	if filter.MinConfidence != nil {
		addCondition("confidence >= $%d", *filter.MinConfidence)
	}

	query := fmt.Sprintf(`SELECT %s FROM predictions`, predictionColumns)
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += ` ORDER BY GREATEST(COALESCE(value_over, '-Infinity'), COALESCE(value_under, '-Infinity')) DESC, confidence DESC, id`
	if filter.Limit > 0 {
		args = append(args, filter.Limit)
		query += fmt.Sprintf(" LIMIT $%d", len(args))
	}

	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, models.NewPersistenceError("prediction query", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

// UpdateOutcome writes the reconciler-owned fields. Scoring fields are
// untouched, so reconciliation and re-scoring can interleave safely.
func (r *PostgresPredictionRepository) UpdateOutcome(ctx context.Context, id uuid.UUID, actualValue float64, result models.Outcome, reconciledAt time.Time) error {
	query := `
		UPDATE predictions
		SET actual_value = $2, actual_result = $3, reconciled_at = $4
		WHERE id = $1
	`

	tag, err := r.db.GetPool().Exec(ctx, query, id, actualValue, result, reconciledAt)
	if err != nil {
		return models.NewPersistenceError("prediction outcome update", err)
	}
	if tag.RowsAffected() == 0 {
		return models.ErrNotFound
	}

	return nil
}

// GameIDsPendingReconciliation lists games that still have predictions
// without a recorded outcome
func (r *PostgresPredictionRepository) GameIDsPendingReconciliation(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT game_id FROM predictions WHERE actual_result IS NULL ORDER BY game_id`

	rows, err := r.db.GetPool().Query(ctx, query)
	if err != nil {
		return nil, models.NewPersistenceError("pending reconciliation query", err)
	}
	defer rows.Close()

	var gameIDs []string
	for rows.Next() {
		var gameID string
		if err := rows.Scan(&gameID); err != nil {
			return nil, models.NewPersistenceError("pending reconciliation scan", err)
		}
		gameIDs = append(gameIDs, gameID)
	}

	return gameIDs, rows.Err()
}

// ListForEvaluation retrieves all predictions for a model version and prop
// type whose prediction date falls inside the evaluation period
func (r *PostgresPredictionRepository) ListForEvaluation(ctx context.Context, modelVersion string, propType models.PropType, periodStart, periodEnd time.Time) ([]*models.Prediction, error) {
	query := fmt.Sprintf(`
		SELECT %s FROM predictions
		WHERE model_version = $1 AND prop_type = $2
		  AND prediction_date >= $3 AND prediction_date <= $4
		ORDER BY prediction_date, id
	`, predictionColumns)

	rows, err := r.db.GetPool().Query(ctx, query, modelVersion, propType, periodStart, periodEnd)
	if err != nil {
		return nil, models.NewPersistenceError("prediction evaluation query", err)
	}
	defer rows.Close()

	return collectPredictions(rows)
}

func scanPrediction(row pgx.Row) (*models.Prediction, error) {
	p := &models.Prediction{}
	err := row.Scan(
		&p.ID, &p.GameID, &p.PlayerID, &p.PropType, &p.PredictionDate, &p.Line,
		&p.BestOverPrice, &p.OverVendor, &p.BestUnderPrice, &p.UnderVendor,
		&p.ImpliedProbOver, &p.ImpliedProbUnder, &p.PredictedProbOver,
		&p.ValueOver, &p.ValueUnder, &p.Confidence, &p.ModelVersion, &p.Inputs,
		&p.ActualValue, &p.ActualResult, &p.ReconciledAt, &p.CreatedAt, &p.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return p, nil
}

func collectPredictions(rows pgx.Rows) ([]*models.Prediction, error) {
	var predictions []*models.Prediction
	for rows.Next() {
		p, err := scanPrediction(rows)
		if err != nil {
			return nil, models.NewPersistenceError("prediction scan", err)
		}
		predictions = append(predictions, p)
	}
	return predictions, rows.Err()
}
