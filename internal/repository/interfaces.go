package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/yourusername/prop-scout/internal/models"
)

// PredictionFilter narrows prediction queries on the read-only surface.
// Nil fields are ignored.
type PredictionFilter struct {
	GameID        *string
	PlayerID      *string
	PropType      *models.PropType
	DateFrom      *time.Time
	DateTo        *time.Time
	MinValue      *float64
	MinConfidence *float64
	Limit         int
}

// SnapshotRepository persists the per-(player, season) stats projection.
// The aggregator is its sole writer; rows are overwritten in place.
type SnapshotRepository interface {
	Upsert(ctx context.Context, snapshot *models.PlayerStatsSnapshot) error
	GetByPlayer(ctx context.Context, playerID string, season int) (*models.PlayerStatsSnapshot, error)
}

// PredictionRepository persists prediction snapshots. Upsert owns the
// scoring-derived fields, UpdateOutcome owns the outcome fields; the two
// writers never touch each other's columns.
type PredictionRepository interface {
	Upsert(ctx context.Context, prediction *models.Prediction) (uuid.UUID, error)
	GetByID(ctx context.Context, id uuid.UUID) (*models.Prediction, error)
	GetByGameID(ctx context.Context, gameID string) ([]*models.Prediction, error)
	Query(ctx context.Context, filter PredictionFilter) ([]*models.Prediction, error)
	UpdateOutcome(ctx context.Context, id uuid.UUID, actualValue float64, result models.Outcome, reconciledAt time.Time) error
	GameIDsPendingReconciliation(ctx context.Context) ([]string, error)
	ListForEvaluation(ctx context.Context, modelVersion string, propType models.PropType, periodStart, periodEnd time.Time) ([]*models.Prediction, error)
}

// MetricRepository persists model performance metrics, replacing rows
// wholesale per (model version, prop type, period).
type MetricRepository interface {
	Upsert(ctx context.Context, metric *models.ModelPerformanceMetric) error
	Query(ctx context.Context, modelVersion string, propType *models.PropType, from, to *time.Time) ([]*models.ModelPerformanceMetric, error)
}
