package repository

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-scout/internal/database"
	"github.com/yourusername/prop-scout/internal/models"
)

// These tests run against a real PostgreSQL instance and are skipped unless
// PROP_SCOUT_TEST_DB_HOST is set.

func truncateAll(t *testing.T, db *database.DB) {
	t.Helper()
	ctx := context.Background()
	for _, table := range []string{"predictions", "player_stats_snapshots", "model_performance_metrics"} {
		_, err := db.GetPool().Exec(ctx, "TRUNCATE TABLE "+table)
		require.NoError(t, err)
	}
}

func samplePrediction(gameID, playerID string) *models.Prediction {
	probOver := 0.58
	impliedOver := 110.0 / 210.0
	valueOver := probOver - impliedOver
	overPrice := -110
	vendor := "alpha"

	return &models.Prediction{
		ID:                uuid.New(),
		GameID:            gameID,
		PlayerID:          playerID,
		PropType:          models.PropPoints,
		PredictionDate:    time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC),
		Line:              24.5,
		BestOverPrice:     &overPrice,
		OverVendor:        &vendor,
		ImpliedProbOver:   &impliedOver,
		PredictedProbOver: probOver,
		ValueOver:         &valueOver,
		Confidence:        0.75,
		ModelVersion:      "v1.0.0",
		Inputs:            []byte(`{"point_estimate": 25.1}`),
	}
}

func TestPredictionRepository(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)
	ctx := context.Background()

	t.Run("UpsertAndGet", func(t *testing.T) {
		truncateAll(t, db)

		p := samplePrediction("g1", "p1")
		id, err := repos.Prediction.Upsert(ctx, p)
		require.NoError(t, err)
		assert.NotEqual(t, uuid.Nil, id)

		fetched, err := repos.Prediction.GetByID(ctx, id)
		require.NoError(t, err)
		assert.Equal(t, p.GameID, fetched.GameID)
		assert.Equal(t, p.PropType, fetched.PropType)
		assert.InDelta(t, p.PredictedProbOver, fetched.PredictedProbOver, 1e-9)
		require.NotNil(t, fetched.ValueOver)
		assert.InDelta(t, *p.ValueOver, *fetched.ValueOver, 1e-9)
	})

	t.Run("UpsertIsIdempotentOnScoringKey", func(t *testing.T) {
		truncateAll(t, db)

		first := samplePrediction("g1", "p1")
		firstID, err := repos.Prediction.Upsert(ctx, first)
		require.NoError(t, err)

		rescored := samplePrediction("g1", "p1")
		rescored.PredictedProbOver = 0.62
		secondID, err := repos.Prediction.Upsert(ctx, rescored)
		require.NoError(t, err)

		assert.Equal(t, firstID, secondID)

		rows, err := repos.Prediction.GetByGameID(ctx, "g1")
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.InDelta(t, 0.62, rows[0].PredictedProbOver, 1e-9)
	})

	t.Run("RescorePreservesOutcomeFields", func(t *testing.T) {
		truncateAll(t, db)

		p := samplePrediction("g1", "p1")
		id, err := repos.Prediction.Upsert(ctx, p)
		require.NoError(t, err)

		reconciledAt := time.Now().UTC()
		require.NoError(t, repos.Prediction.UpdateOutcome(ctx, id, 30.0, models.OutcomeOver, reconciledAt))

		rescored := samplePrediction("g1", "p1")
		rescored.PredictedProbOver = 0.55
		_, err = repos.Prediction.Upsert(ctx, rescored)
		require.NoError(t, err)

		fetched, err := repos.Prediction.GetByID(ctx, id)
		require.NoError(t, err)
		assert.InDelta(t, 0.55, fetched.PredictedProbOver, 1e-9)
		require.NotNil(t, fetched.ActualResult)
		assert.Equal(t, models.OutcomeOver, *fetched.ActualResult)
		require.NotNil(t, fetched.ActualValue)
		assert.InDelta(t, 30.0, *fetched.ActualValue, 1e-9)
	})

	t.Run("UpdateOutcomeUnknownID", func(t *testing.T) {
		truncateAll(t, db)

		err := repos.Prediction.UpdateOutcome(ctx, uuid.New(), 10.0, models.OutcomeUnder, time.Now().UTC())
		assert.ErrorIs(t, err, models.ErrNotFound)
	})

	t.Run("PendingReconciliation", func(t *testing.T) {
		truncateAll(t, db)

		_, err := repos.Prediction.Upsert(ctx, samplePrediction("g1", "p1"))
		require.NoError(t, err)
		settledID, err := repos.Prediction.Upsert(ctx, samplePrediction("g2", "p2"))
		require.NoError(t, err)
		require.NoError(t, repos.Prediction.UpdateOutcome(ctx, settledID, 20.0, models.OutcomeUnder, time.Now().UTC()))

		pending, err := repos.Prediction.GameIDsPendingReconciliation(ctx)
		require.NoError(t, err)
		assert.Equal(t, []string{"g1"}, pending)
	})

	t.Run("QueryFilters", func(t *testing.T) {
		truncateAll(t, db)

		lowValue := samplePrediction("g1", "p1")
		small := 0.01
		lowValue.ValueOver = &small
		_, err := repos.Prediction.Upsert(ctx, lowValue)
		require.NoError(t, err)

		_, err = repos.Prediction.Upsert(ctx, samplePrediction("g1", "p2"))
		require.NoError(t, err)

		minValue := 0.03
		rows, err := repos.Prediction.Query(ctx, PredictionFilter{GameID: stringPtr("g1"), MinValue: &minValue})
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "p2", rows[0].PlayerID)
	})

	t.Run("ListForEvaluationBoundsAndVersion", func(t *testing.T) {
		truncateAll(t, db)

		inRange := samplePrediction("g1", "p1")
		_, err := repos.Prediction.Upsert(ctx, inRange)
		require.NoError(t, err)

		otherVersion := samplePrediction("g1", "p2")
		otherVersion.ModelVersion = "v2.0.0"
		_, err = repos.Prediction.Upsert(ctx, otherVersion)
		require.NoError(t, err)

		rows, err := repos.Prediction.ListForEvaluation(ctx, "v1.0.0", models.PropPoints,
			time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC), time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC))
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "p1", rows[0].PlayerID)
	})
}

func TestSnapshotRepository(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)
	ctx := context.Background()
	truncateAll(t, db)

	snapshot := &models.PlayerStatsSnapshot{
		PlayerID:     "p1",
		Season:       2026,
		LastGameID:   "g9",
		LastGameDate: time.Date(2026, 3, 13, 0, 0, 0, 0, time.UTC),
		LastGame:     models.StatLine{Points: 31},
		Window7:      models.WindowAverages{Averages: models.StatLine{Points: 27.5}, GamesCounted: 7},
		Window14:     models.WindowAverages{Averages: models.StatLine{Points: 26.0}, GamesCounted: 14},
		Window30:     models.WindowAverages{Averages: models.StatLine{Points: 25.2}, GamesCounted: 28},
		SeasonGames:  55,
		UpdatedAt:    time.Now().UTC(),
	}

	require.NoError(t, repos.Snapshot.Upsert(ctx, snapshot))

	fetched, err := repos.Snapshot.GetByPlayer(ctx, "p1", 2026)
	require.NoError(t, err)
	assert.Equal(t, "g9", fetched.LastGameID)
	assert.Equal(t, 7, fetched.Window7.GamesCounted)
	assert.InDelta(t, 27.5, fetched.Window7.Averages.Points, 1e-9)

	// Overwrite in place: a second upsert replaces the projection.
	snapshot.SeasonGames = 56
	require.NoError(t, repos.Snapshot.Upsert(ctx, snapshot))
	fetched, err = repos.Snapshot.GetByPlayer(ctx, "p1", 2026)
	require.NoError(t, err)
	assert.Equal(t, 56, fetched.SeasonGames)

	_, err = repos.Snapshot.GetByPlayer(ctx, "nobody", 2026)
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestMetricRepository(t *testing.T) {
	db := database.SetupTestDB(t)
	defer database.TeardownTestDB(t, db)

	repos, err := NewRepositories(db)
	require.NoError(t, err)
	ctx := context.Background()
	truncateAll(t, db)

	accuracy := 0.61
	metric := &models.ModelPerformanceMetric{
		ID:                  uuid.New(),
		ModelVersion:        "v1.0.0",
		PropType:            models.PropPoints,
		PeriodStart:         time.Date(2026, 3, 1, 0, 0, 0, 0, time.UTC),
		PeriodEnd:           time.Date(2026, 3, 31, 0, 0, 0, 0, time.UTC),
		TotalPredictions:    100,
		ResolvedPredictions: 80,
		CorrectPredictions:  48,
		Pushes:              2,
		Accuracy:            &accuracy,
		UnitsWagered:        decimal.NewFromInt(12),
		UnitsReturned:       decimal.NewFromFloat(13.4),
		ComputedAt:          time.Now().UTC(),
	}

	require.NoError(t, repos.Metric.Upsert(ctx, metric))

	// Same period key replaces the row wholesale.
	metric.TotalPredictions = 101
	require.NoError(t, repos.Metric.Upsert(ctx, metric))

	stored, err := repos.Metric.Query(ctx, "v1.0.0", nil, nil, nil)
	require.NoError(t, err)
	require.Len(t, stored, 1)
	assert.Equal(t, 101, stored[0].TotalPredictions)
	require.NotNil(t, stored[0].Accuracy)
	assert.InDelta(t, 0.61, *stored[0].Accuracy, 1e-9)
	assert.True(t, stored[0].UnitsWagered.Equal(decimal.NewFromInt(12)))

	roi, ok := stored[0].ROI()
	require.True(t, ok)
	assert.True(t, roi.Round(6).Equal(decimal.NewFromFloat(0.116667)), "roi %s", roi)
}

func stringPtr(s string) *string { return &s }
