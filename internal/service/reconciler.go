package service

import (
	"context"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-scout/internal/metrics"
	"github.com/yourusername/prop-scout/internal/models"
	"github.com/yourusername/prop-scout/internal/provider"
	"github.com/yourusername/prop-scout/internal/repository"
)

// ReconcileService writes game outcomes back onto stored predictions. It owns
// the outcome fields exclusively; scoring fields are never touched here.
type ReconcileService struct {
	statsProvider  provider.StatsProvider
	predictionRepo repository.PredictionRepository
	logger         *logrus.Logger
}

// NewReconcileService creates a reconcile service
func NewReconcileService(
	statsProvider provider.StatsProvider,
	predictionRepo repository.PredictionRepository,
	logger *logrus.Logger,
) *ReconcileService {
	return &ReconcileService{
		statsProvider:  statsProvider,
		predictionRepo: predictionRepo,
		logger:         logger,
	}
}

// ClassifyOutcome compares an actual statistic against the line. A value
// landing exactly on the line settles as a push.
func ClassifyOutcome(actual, line float64) models.Outcome {
	switch {
	case actual > line:
		return models.OutcomeOver
	case actual < line:
		return models.OutcomeUnder
	default:
		return models.OutcomePush
	}
}

// ReconcileGame updates every prediction for a game once final stats are
// available, returning the number updated. Players missing from the final
// stats (did not play) are skipped, not failed: permanently unreconciled is a
// valid terminal state. Re-running re-applies the same classification, so the
// operation is idempotent in effect.
func (s *ReconcileService) ReconcileGame(ctx context.Context, gameID string) (int, error) {
	start := time.Now()
	log := s.logger.WithField("game_id", gameID)

	finalStats, available, err := s.statsProvider.FinalStats(ctx, gameID)
	if err != nil {
		return 0, err
	}
	if !available {
		log.Debug("Game outcome not yet available")
		return 0, nil
	}

	predictions, err := s.predictionRepo.GetByGameID(ctx, gameID)
	if err != nil {
		return 0, err
	}

	reconciledAt := time.Now().UTC()
	updated := 0

	for _, p := range predictions {
		line, ok := finalStats[p.PlayerID]
		if !ok {
			log.WithField("player_id", p.PlayerID).Debug("No final stats for player, leaving unreconciled")
			continue
		}

		actual := line.ValueFor(p.PropType)
		result := ClassifyOutcome(actual, p.Line)

		if err := s.predictionRepo.UpdateOutcome(ctx, p.ID, actual, result, reconciledAt); err != nil {
			log.WithError(err).WithFields(logrus.Fields{
				"player_id": p.PlayerID,
				"prop_type": p.PropType,
			}).Error("Failed to write outcome")
			continue
		}

		updated++
		metrics.PredictionsReconciledTotal.Inc()
		if result == models.OutcomePush {
			metrics.PushOutcomesTotal.Inc()
		}
	}

	metrics.ReconcileDuration.Observe(time.Since(start).Seconds())

	log.WithFields(logrus.Fields{
		"predictions": len(predictions),
		"updated":     updated,
	}).Info("Game reconciled")

	return updated, nil
}

// ReconcilePending reconciles every game that still has unresolved
// predictions. Per-game failures are logged and do not stop the sweep.
func (s *ReconcileService) ReconcilePending(ctx context.Context) (int, error) {
	gameIDs, err := s.predictionRepo.GameIDsPendingReconciliation(ctx)
	if err != nil {
		return 0, err
	}

	metrics.GamesPendingReconciliation.Set(float64(len(gameIDs)))

	total := 0
	for _, gameID := range gameIDs {
		updated, err := s.ReconcileGame(ctx, gameID)
		if err != nil {
			s.logger.WithError(err).WithField("game_id", gameID).Error("Failed to reconcile game")
			continue
		}
		total += updated
	}

	return total, nil
}
