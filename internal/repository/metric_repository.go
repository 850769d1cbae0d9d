package repository

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/yourusername/prop-scout/internal/database"
	"github.com/yourusername/prop-scout/internal/models"
)

// PostgresMetricRepository implements MetricRepository for PostgreSQL
type PostgresMetricRepository struct {
	db *database.DB
}

// NewPostgresMetricRepository creates a new metric repository
func NewPostgresMetricRepository(db *database.DB) MetricRepository {
	return &PostgresMetricRepository{db: db}
}

// Upsert replaces the metric row for (model_version, prop_type, period)
// wholesale. Counts are never accumulated across runs; every evaluation
// rewrites the full aggregation.
func (r *PostgresMetricRepository) Upsert(ctx context.Context, m *models.ModelPerformanceMetric) error {
	query := `
		INSERT INTO model_performance_metrics (
			id, model_version, prop_type, period_start, period_end,
			total_predictions, resolved_predictions, correct_predictions,
			value_bets, value_bets_correct, pushes,
			accuracy, value_bet_accuracy, avg_predicted_prob_over, actual_over_rate,
			units_wagered, units_returned, computed_at
		)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, now())
		ON CONFLICT (model_version, prop_type, period_start, period_end) DO UPDATE SET
			total_predictions       = EXCLUDED.total_predictions,
			resolved_predictions    = EXCLUDED.resolved_predictions,
			correct_predictions     = EXCLUDED.correct_predictions,
			value_bets              = EXCLUDED.value_bets,
			value_bets_correct      = EXCLUDED.value_bets_correct,
			pushes                  = EXCLUDED.pushes,
			accuracy                = EXCLUDED.accuracy,
			value_bet_accuracy      = EXCLUDED.value_bet_accuracy,
			avg_predicted_prob_over = EXCLUDED.avg_predicted_prob_over,
			actual_over_rate        = EXCLUDED.actual_over_rate,
			units_wagered           = EXCLUDED.units_wagered,
			units_returned          = EXCLUDED.units_returned,
			computed_at             = now()
	`

	_, err := r.db.GetPool().Exec(ctx, query,
		m.ID, m.ModelVersion, m.PropType, m.PeriodStart, m.PeriodEnd,
		m.TotalPredictions, m.ResolvedPredictions, m.CorrectPredictions,
		m.ValueBets, m.ValueBetsCorrect, m.Pushes,
		m.Accuracy, m.ValueBetAccuracy, m.AvgPredictedProbOver, m.ActualOverRate,
		m.UnitsWagered, m.UnitsReturned,
	)
	if err != nil {
		return models.NewPersistenceError("metric upsert", err)
	}

	return nil
}

// Query retrieves metrics filtered by model version and optionally prop type
// and period bounds
func (r *PostgresMetricRepository) Query(ctx context.Context, modelVersion string, propType *models.PropType, from, to *time.Time) ([]*models.ModelPerformanceMetric, error) {
	conditions := []string{"model_version = $1"}
	args := []interface{}{modelVersion}

	if propType != nil {
		args = append(args, *propType)
		conditions = append(conditions, fmt.Sprintf("prop_type = $%d", len(args)))
	}
	if from != nil {
		args = append(args, *from)
		conditions = append(conditions, fmt.Sprintf("period_start >= $%d", len(args)))
	}
	if to != nil {
		args = append(args, *to)
		conditions = append(conditions, fmt.Sprintf("period_end <= $%d", len(args)))
	}

	query := fmt.Sprintf(`
		SELECT id, model_version, prop_type, period_start, period_end,
		       total_predictions, resolved_predictions, correct_predictions,
		       value_bets, value_bets_correct, pushes,
		       accuracy, value_bet_accuracy, avg_predicted_prob_over, actual_over_rate,
		       units_wagered, units_returned, computed_at
		FROM model_performance_metrics
		WHERE %s
		ORDER BY period_start DESC, prop_type
	`, strings.Join(conditions, " AND "))

	rows, err := r.db.GetPool().Query(ctx, query, args...)
	if err != nil {
		return nil, models.NewPersistenceError("metric query", err)
	}
	defer rows.Close()

	var metrics []*models.ModelPerformanceMetric
	for rows.Next() {
		m := &models.ModelPerformanceMetric{}
		err := rows.Scan(
			&m.ID, &m.ModelVersion, &m.PropType, &m.PeriodStart, &m.PeriodEnd,
			&m.TotalPredictions, &m.ResolvedPredictions, &m.CorrectPredictions,
			&m.ValueBets, &m.ValueBetsCorrect, &m.Pushes,
			&m.Accuracy, &m.ValueBetAccuracy, &m.AvgPredictedProbOver, &m.ActualOverRate,
			&m.UnitsWagered, &m.UnitsReturned, &m.ComputedAt,
		)
		if err != nil {
			return nil, models.NewPersistenceError("metric scan", err)
		}
		metrics = append(metrics, m)
	}

	return metrics, rows.Err()
}
