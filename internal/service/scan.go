// Package service orchestrates the prediction pipeline: aggregate, score,
// persist, reconcile and evaluate.
package service

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-scout/internal/metrics"
	"github.com/yourusername/prop-scout/internal/models"
	"github.com/yourusername/prop-scout/internal/provider"
	"github.com/yourusername/prop-scout/internal/repository"
	"github.com/yourusername/prop-scout/internal/scorer"
	"github.com/yourusername/prop-scout/internal/stats"
)

// ScanService runs one scoring cycle over the day's prop markets. Players are
// independent units of work: each worker aggregates one player's history,
// scores every quoted prop, and upserts the results. A failure on one player
// never aborts the batch.
type ScanService struct {
	statsProvider  provider.StatsProvider
	oddsProvider   provider.OddsProvider
	snapshotRepo   repository.SnapshotRepository
	predictionRepo repository.PredictionRepository
	scorer         *scorer.Scorer
	season         int
	workers        int
	logger         *logrus.Logger
	scanMetrics    *ScanMetrics
}

// NewScanService creates a scan service
func NewScanService(
	statsProvider provider.StatsProvider,
	oddsProvider provider.OddsProvider,
	snapshotRepo repository.SnapshotRepository,
	predictionRepo repository.PredictionRepository,
	sc *scorer.Scorer,
	season int,
	workers int,
	logger *logrus.Logger,
) *ScanService {
	if workers <= 0 {
		workers = 4
	}

	return &ScanService{
		statsProvider:  statsProvider,
		oddsProvider:   oddsProvider,
		snapshotRepo:   snapshotRepo,
		predictionRepo: predictionRepo,
		scorer:         sc,
		season:         season,
		workers:        workers,
		logger:         logger,
		scanMetrics:    NewScanMetrics(),
	}
}

// playerWork groups one player's quotes for a single worker
type playerWork struct {
	playerID string
	quotes   []models.OddsQuote
}

// Run executes a full scan cycle for the given slate date
func (s *ScanService) Run(ctx context.Context, date time.Time) (*ScanMetrics, error) {
	s.scanMetrics.Reset()
	startTime := time.Now()

	s.logger.WithField("date", date.Format("2006-01-02")).Info("Starting scan cycle")

	quotes, err := s.oddsProvider.PropQuotes(ctx, date)
	if err != nil {
		s.scanMetrics.RecordError()
		return s.scanMetrics, err
	}
	s.scanMetrics.TotalQuotes = len(quotes)

	byPlayer := make(map[string][]models.OddsQuote)
	var order []string
	for _, q := range quotes {
		if _, seen := byPlayer[q.PlayerID]; !seen {
			order = append(order, q.PlayerID)
		}
		byPlayer[q.PlayerID] = append(byPlayer[q.PlayerID], q)
	}

	work := make(chan playerWork)
	var wg sync.WaitGroup

	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for w := range work {
				s.processPlayer(ctx, date, w)
			}
		}()
	}

	for _, playerID := range order {
		select {
		case work <- playerWork{playerID: playerID, quotes: byPlayer[playerID]}:
		case <-ctx.Done():
			close(work)
			wg.Wait()
			return s.scanMetrics, ctx.Err()
		}
	}
	close(work)
	wg.Wait()

	s.scanMetrics.Duration = time.Since(startTime)
	metrics.ScanDuration.Observe(s.scanMetrics.Duration.Seconds())
	metrics.LastScanTimestamp.SetToCurrentTime()

	s.logger.WithFields(logrus.Fields{
		"players":           s.scanMetrics.PlayersProcessed,
		"predictions":       s.scanMetrics.PredictionsScored,
		"insufficient_data": s.scanMetrics.InsufficientData,
		"errors":            s.scanMetrics.Errors,
		"duration":          s.scanMetrics.Duration,
	}).Info("Scan cycle complete")

	return s.scanMetrics, nil
}

// processPlayer aggregates one player's history and scores each quoted prop.
// Aggregation completes before any of the player's props are scored.
func (s *ScanService) processPlayer(ctx context.Context, date time.Time, w playerWork) {
	log := s.logger.WithField("player_id", w.playerID)

	records, err := s.statsProvider.PlayerGameLog(ctx, w.playerID, s.season)
	if err != nil {
		s.scanMetrics.RecordError()
		metrics.ScoringErrorsTotal.Inc()
		log.WithError(err).Error("Failed to fetch game log")
		return
	}

	snapshot := stats.ComputeSnapshot(w.playerID, s.season, records)

	if err := s.snapshotRepo.Upsert(ctx, snapshot); err != nil {
		s.scanMetrics.RecordError()
		metrics.ScoringErrorsTotal.Inc()
		log.WithError(err).Error("Failed to persist snapshot")
		// Scoring can still proceed from the in-memory snapshot.
	}

	for i := range w.quotes {
		quote := w.quotes[i]
		prediction, err := s.scorer.Score(snapshot, &quote, date)
		if err != nil {
			if errors.Is(err, models.ErrInsufficientData) {
				s.scanMetrics.RecordInsufficientData()
				metrics.InsufficientDataSkipsTotal.Inc()
				log.WithField("prop_type", quote.PropType).Debug("Skipping player with insufficient data")
				continue
			}
			s.scanMetrics.RecordError()
			metrics.ScoringErrorsTotal.Inc()
			log.WithError(err).WithField("prop_type", quote.PropType).Error("Failed to score prop")
			continue
		}

		if _, err := s.predictionRepo.Upsert(ctx, prediction); err != nil {
			s.scanMetrics.RecordError()
			metrics.ScoringErrorsTotal.Inc()
			log.WithError(err).WithField("prop_type", quote.PropType).Error("Failed to upsert prediction")
			continue
		}

		s.scanMetrics.RecordPrediction()
		metrics.PredictionsScoredTotal.Inc()
	}

	s.scanMetrics.RecordPlayer()
}
