package service

import (
	"context"
	"time"

	"github.com/yourusername/prop-scout/internal/models"
	"github.com/yourusername/prop-scout/internal/repository"
)

// QueryService is the read-only surface exposed to collaborators. It never
// fabricates placeholder predictions: a missing row means no prediction
// exists for that key.
type QueryService struct {
	predictionRepo repository.PredictionRepository
	metricRepo     repository.MetricRepository
}

// NewQueryService creates a query service
func NewQueryService(predictionRepo repository.PredictionRepository, metricRepo repository.MetricRepository) *QueryService {
	return &QueryService{
		predictionRepo: predictionRepo,
		metricRepo:     metricRepo,
	}
}

// GetPredictionsForGame fetches predictions for a game, optionally narrowed
// by prop type and minimum value/confidence
func (s *QueryService) GetPredictionsForGame(ctx context.Context, gameID string, propType *models.PropType, minValue, minConfidence *float64) ([]*models.Prediction, error) {
	return s.predictionRepo.Query(ctx, repository.PredictionFilter{
		GameID:        &gameID,
		PropType:      propType,
		MinValue:      minValue,
		MinConfidence: minConfidence,
	})
}

// GetValueBets fetches current predictions above the given value and
// confidence thresholds, best edges first
func (s *QueryService) GetValueBets(ctx context.Context, date time.Time, minValue, minConfidence float64, limit int) ([]*models.Prediction, error) {
	day := date.UTC().Truncate(24 * time.Hour)
	return s.predictionRepo.Query(ctx, repository.PredictionFilter{
		DateFrom:      &day,
		DateTo:        &day,
		MinValue:      &minValue,
		MinConfidence: &minConfidence,
		Limit:         limit,
	})
}

// GetMetrics fetches performance metrics filtered by model version and
// optionally prop type and period bounds
func (s *QueryService) GetMetrics(ctx context.Context, modelVersion string, propType *models.PropType, from, to *time.Time) ([]*models.ModelPerformanceMetric, error) {
	return s.metricRepo.Query(ctx, modelVersion, propType, from, to)
}
