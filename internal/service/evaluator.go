package service

import (
	"context"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-scout/internal/metrics"
	"github.com/yourusername/prop-scout/internal/models"
	"github.com/yourusername/prop-scout/internal/oddsmath"
	"github.com/yourusername/prop-scout/internal/repository"
)

// EvaluationService recomputes model performance metrics from reconciled
// prediction history. Each run replaces the metric row for its period
// wholesale; counts never accumulate across runs.
type EvaluationService struct {
	predictionRepo    repository.PredictionRepository
	metricRepo        repository.MetricRepository
	valueBetThreshold float64
	logger            *logrus.Logger
}

// NewEvaluationService creates an evaluation service
func NewEvaluationService(
	predictionRepo repository.PredictionRepository,
	metricRepo repository.MetricRepository,
	valueBetThreshold float64,
	logger *logrus.Logger,
) *EvaluationService {
	if valueBetThreshold <= 0 {
		valueBetThreshold = 0.05
	}
	return &EvaluationService{
		predictionRepo:    predictionRepo,
		metricRepo:        metricRepo,
		valueBetThreshold: valueBetThreshold,
		logger:            logger,
	}
}

// Evaluate aggregates one (model version, prop type, period) and persists the
// resulting metric. An empty period is a valid result: the metric carries
// zero counts and nil ratios rather than failing.
func (s *EvaluationService) Evaluate(ctx context.Context, modelVersion string, propType models.PropType, periodStart, periodEnd time.Time) (*models.ModelPerformanceMetric, error) {
	predictions, err := s.predictionRepo.ListForEvaluation(ctx, modelVersion, propType, periodStart, periodEnd)
	if err != nil {
		return nil, err
	}

	metric := s.aggregate(modelVersion, propType, periodStart, periodEnd, predictions)

	if err := s.metricRepo.Upsert(ctx, metric); err != nil {
		return nil, err
	}

	if metric.Accuracy != nil {
		metrics.ModelAccuracy.WithLabelValues(modelVersion, string(propType)).Set(*metric.Accuracy)
	}
	// Gauge, not counter: re-evaluating the same trailing window must not
	// re-count the same historical predictions.
	metrics.ValueBetsIdentified.WithLabelValues(modelVersion, string(propType)).Set(float64(metric.ValueBets))

	s.logger.WithFields(logrus.Fields{
		"model_version": modelVersion,
		"prop_type":     propType,
		"total":         metric.TotalPredictions,
		"resolved":      metric.ResolvedPredictions,
		"value_bets":    metric.ValueBets,
	}).Info("Evaluation complete")

	return metric, nil
}

// EvaluateAll evaluates every prop type for the model version over the period
func (s *EvaluationService) EvaluateAll(ctx context.Context, modelVersion string, periodStart, periodEnd time.Time) error {
	for _, propType := range models.AllPropTypes() {
		if _, err := s.Evaluate(ctx, modelVersion, propType, periodStart, periodEnd); err != nil {
			s.logger.WithError(err).WithField("prop_type", propType).Error("Failed to evaluate prop type")
		}
	}
	return nil
}

// aggregate folds predictions into a metric. Pushes are excluded from both
// sides of the accuracy ratio: they are neither correct nor incorrect.
func (s *EvaluationService) aggregate(modelVersion string, propType models.PropType, periodStart, periodEnd time.Time, predictions []*models.Prediction) *models.ModelPerformanceMetric {
	metric := &models.ModelPerformanceMetric{
		ID:            uuid.New(),
		ModelVersion:  modelVersion,
		PropType:      propType,
		PeriodStart:   periodStart,
		PeriodEnd:     periodEnd,
		UnitsWagered:  decimal.Zero,
		UnitsReturned: decimal.Zero,
		ComputedAt:    time.Now().UTC(),
	}

	var probOverSum float64
	var overHits, decided int

	for _, p := range predictions {
		metric.TotalPredictions++
		probOverSum += p.PredictedProbOver

		isValueBet := p.IsValueBet(s.valueBetThreshold)
		if isValueBet {
			metric.ValueBets++
		}

		if !p.IsReconciled() {
			continue
		}
		metric.ResolvedPredictions++

		result := *p.ActualResult
		if result == models.OutcomePush {
			metric.Pushes++
			continue
		}
		decided++

		if result == models.OutcomeOver {
			overHits++
		}

		correct := (result == models.OutcomeOver && p.PredictedProbOver > 0.5) ||
			(result == models.OutcomeUnder && p.PredictedProbUnder() > 0.5)
		if correct {
			metric.CorrectPredictions++
		}

		if isValueBet {
			s.settleValueBet(metric, p, result)
		}
	}

	if metric.TotalPredictions > 0 {
		avg := probOverSum / float64(metric.TotalPredictions)
		metric.AvgPredictedProbOver = &avg
	}
	if decided > 0 {
		accuracy := float64(metric.CorrectPredictions) / float64(decided)
		metric.Accuracy = &accuracy
		overRate := float64(overHits) / float64(decided)
		metric.ActualOverRate = &overRate
	}
	if settled := metric.ValueBetsCorrect + s.valueBetMisses(metric); settled > 0 {
		vbAccuracy := float64(metric.ValueBetsCorrect) / float64(settled)
		metric.ValueBetAccuracy = &vbAccuracy
	}

	return metric
}

// settleValueBet simulates a flat one-unit stake on the value side
func (s *EvaluationService) settleValueBet(metric *models.ModelPerformanceMetric, p *models.Prediction, result models.Outcome) {
	side, _, ok := p.ValueSide()
	if !ok {
		return
	}

	var price *int
	if side == models.SideOver {
		price = p.BestOverPrice
	} else {
		price = p.BestUnderPrice
	}
	if price == nil {
		return
	}

	metric.UnitsWagered = metric.UnitsWagered.Add(decimal.NewFromInt(1))

	won := (side == models.SideOver && result == models.OutcomeOver) ||
		(side == models.SideUnder && result == models.OutcomeUnder)
	if won {
		metric.ValueBetsCorrect++
		profit, err := oddsmath.ProfitPerUnit(*price)
		if err != nil {
			return
		}
		metric.UnitsReturned = metric.UnitsReturned.Add(decimal.NewFromInt(1).Add(decimal.NewFromFloat(profit)))
	}
	// A losing stake returns nothing; a push would have been excluded above.
}

// valueBetMisses derives the settled-and-lost count from the wagered units
func (s *EvaluationService) valueBetMisses(metric *models.ModelPerformanceMetric) int {
	return int(metric.UnitsWagered.IntPart()) - metric.ValueBetsCorrect
}
