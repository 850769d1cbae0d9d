package service

import (
	"context"
	"fmt"
	"io"
	"sort"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"

	"github.com/yourusername/prop-scout/internal/models"
	"github.com/yourusername/prop-scout/internal/repository"
)

func testLogger() *logrus.Logger {
	log := logrus.New()
	log.SetOutput(io.Discard)
	return log
}

type fakeStatsProvider struct {
	mu          sync.Mutex
	gameLogs    map[string][]models.StatRecord
	gameLogErrs map[string]error
	finalStats  map[string]map[string]models.StatLine
	finalErrs   map[string]error
}

func newFakeStatsProvider() *fakeStatsProvider {
	return &fakeStatsProvider{
		gameLogs:    make(map[string][]models.StatRecord),
		gameLogErrs: make(map[string]error),
		finalStats:  make(map[string]map[string]models.StatLine),
		finalErrs:   make(map[string]error),
	}
}

func (f *fakeStatsProvider) PlayerGameLog(_ context.Context, playerID string, _ int) ([]models.StatRecord, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.gameLogErrs[playerID]; ok {
		return nil, err
	}
	return f.gameLogs[playerID], nil
}

func (f *fakeStatsProvider) FinalStats(_ context.Context, gameID string) (map[string]models.StatLine, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if err, ok := f.finalErrs[gameID]; ok {
		return nil, false, err
	}
	stats, ok := f.finalStats[gameID]
	return stats, ok, nil
}

type fakeOddsProvider struct {
	quotes []models.OddsQuote
	err    error
}

func (f *fakeOddsProvider) PropQuotes(_ context.Context, _ time.Time) ([]models.OddsQuote, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.quotes, nil
}

type fakeSnapshotRepo struct {
	mu        sync.Mutex
	snapshots map[string]*models.PlayerStatsSnapshot
	upsertErr error
	upserts   int
}

func newFakeSnapshotRepo() *fakeSnapshotRepo {
	return &fakeSnapshotRepo{snapshots: make(map[string]*models.PlayerStatsSnapshot)}
}

func snapshotKey(playerID string, season int) string {
	return fmt.Sprintf("%s/%d", playerID, season)
}

func (f *fakeSnapshotRepo) Upsert(_ context.Context, snapshot *models.PlayerStatsSnapshot) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	if f.upsertErr != nil {
		return f.upsertErr
	}
	f.snapshots[snapshotKey(snapshot.PlayerID, snapshot.Season)] = snapshot
	return nil
}

func (f *fakeSnapshotRepo) GetByPlayer(_ context.Context, playerID string, season int) (*models.PlayerStatsSnapshot, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	snapshot, ok := f.snapshots[snapshotKey(playerID, season)]
	if !ok {
		return nil, models.ErrNotFound
	}
	return snapshot, nil
}

// fakePredictionRepo mirrors the scoring-key upsert semantics of the real
// repository: one row per (game, player, prop, date), outcome fields owned by
// UpdateOutcome alone.
type fakePredictionRepo struct {
	mu         sync.Mutex
	byKey      map[string]*models.Prediction
	upsertErr  error
	outcomeErr error
}

func newFakePredictionRepo() *fakePredictionRepo {
	return &fakePredictionRepo{byKey: make(map[string]*models.Prediction)}
}

func scoringKey(p *models.Prediction) string {
	return fmt.Sprintf("%s/%s/%s/%s", p.GameID, p.PlayerID, p.PropType, p.PredictionDate.Format("2006-01-02"))
}

func (f *fakePredictionRepo) Upsert(_ context.Context, p *models.Prediction) (uuid.UUID, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.upsertErr != nil {
		return uuid.Nil, f.upsertErr
	}

	key := scoringKey(p)
	if existing, ok := f.byKey[key]; ok {
		clone := *p
		clone.ID = existing.ID
		clone.ActualValue = existing.ActualValue
		clone.ActualResult = existing.ActualResult
		clone.ReconciledAt = existing.ReconciledAt
		f.byKey[key] = &clone
		return existing.ID, nil
	}

	clone := *p
	if clone.ID == uuid.Nil {
		clone.ID = uuid.New()
	}
	f.byKey[key] = &clone
	return clone.ID, nil
}

func (f *fakePredictionRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, p := range f.byKey {
		if p.ID == id {
			return p, nil
		}
	}
	return nil, models.ErrNotFound
}

func (f *fakePredictionRepo) GetByGameID(_ context.Context, gameID string) ([]*models.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Prediction
	for _, p := range f.byKey {
		if p.GameID == gameID {
			out = append(out, p)
		}
	}
	sort.Slice(out, func(i, j int) bool { return scoringKey(out[i]) < scoringKey(out[j]) })
	return out, nil
}

func (f *fakePredictionRepo) Query(_ context.Context, filter repository.PredictionFilter) ([]*models.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Prediction
	for _, p := range f.byKey {
		if filter.GameID != nil && p.GameID != *filter.GameID {
			continue
		}
		if filter.PlayerID != nil && p.PlayerID != *filter.PlayerID {
			continue
		}
		if filter.PropType != nil && p.PropType != *filter.PropType {
			continue
		}
		if filter.DateFrom != nil && p.PredictionDate.Before(*filter.DateFrom) {
			continue
		}
		if filter.DateTo != nil && p.PredictionDate.After(*filter.DateTo) {
			continue
		}
		if filter.MinValue != nil {
			best, ok := p.BestSideValue()
			if !ok || best < *filter.MinValue {
				continue
			}
		}
		if filter.MinConfidence != nil && p.Confidence < *filter.MinConfidence {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return scoringKey(out[i]) < scoringKey(out[j]) })
	if filter.Limit > 0 && len(out) > filter.Limit {
		out = out[:filter.Limit]
	}
	return out, nil
}

func (f *fakePredictionRepo) UpdateOutcome(_ context.Context, id uuid.UUID, actualValue float64, result models.Outcome, reconciledAt time.Time) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.outcomeErr != nil {
		return f.outcomeErr
	}
	for _, p := range f.byKey {
		if p.ID == id {
			p.ActualValue = &actualValue
			p.ActualResult = &result
			p.ReconciledAt = &reconciledAt
			return nil
		}
	}
	return models.ErrNotFound
}

func (f *fakePredictionRepo) GameIDsPendingReconciliation(_ context.Context) ([]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	seen := make(map[string]bool)
	var out []string
	for _, p := range f.byKey {
		if p.ActualResult == nil && !seen[p.GameID] {
			seen[p.GameID] = true
			out = append(out, p.GameID)
		}
	}
	sort.Strings(out)
	return out, nil
}

func (f *fakePredictionRepo) ListForEvaluation(_ context.Context, modelVersion string, propType models.PropType, periodStart, periodEnd time.Time) ([]*models.Prediction, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Prediction
	for _, p := range f.byKey {
		if p.ModelVersion != modelVersion || p.PropType != propType {
			continue
		}
		if p.PredictionDate.Before(periodStart) || p.PredictionDate.After(periodEnd) {
			continue
		}
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return scoringKey(out[i]) < scoringKey(out[j]) })
	return out, nil
}

func (f *fakePredictionRepo) all() []*models.Prediction {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.Prediction
	for _, p := range f.byKey {
		out = append(out, p)
	}
	sort.Slice(out, func(i, j int) bool { return scoringKey(out[i]) < scoringKey(out[j]) })
	return out
}

type fakeMetricRepo struct {
	mu      sync.Mutex
	byKey   map[string]*models.ModelPerformanceMetric
	upserts int
}

func newFakeMetricRepo() *fakeMetricRepo {
	return &fakeMetricRepo{byKey: make(map[string]*models.ModelPerformanceMetric)}
}

func metricKey(m *models.ModelPerformanceMetric) string {
	return fmt.Sprintf("%s/%s/%s/%s", m.ModelVersion, m.PropType, m.PeriodStart.Format("2006-01-02"), m.PeriodEnd.Format("2006-01-02"))
}

func (f *fakeMetricRepo) Upsert(_ context.Context, metric *models.ModelPerformanceMetric) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.upserts++
	f.byKey[metricKey(metric)] = metric
	return nil
}

func (f *fakeMetricRepo) Query(_ context.Context, modelVersion string, propType *models.PropType, from, to *time.Time) ([]*models.ModelPerformanceMetric, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	var out []*models.ModelPerformanceMetric
	for _, m := range f.byKey {
		if m.ModelVersion != modelVersion {
			continue
		}
		if propType != nil && m.PropType != *propType {
			continue
		}
		if from != nil && m.PeriodStart.Before(*from) {
			continue
		}
		if to != nil && m.PeriodEnd.After(*to) {
			continue
		}
		out = append(out, m)
	}
	sort.Slice(out, func(i, j int) bool { return metricKey(out[i]) < metricKey(out[j]) })
	return out, nil
}
