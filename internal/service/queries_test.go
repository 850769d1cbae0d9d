package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-scout/internal/models"
)

func seedQueryPrediction(t *testing.T, repo *fakePredictionRepo, playerID string, date time.Time, valueOver, confidence float64) {
	t.Helper()
	_, err := repo.Upsert(context.Background(), &models.Prediction{
		ID:                uuid.New(),
		GameID:            "g1",
		PlayerID:          playerID,
		PropType:          models.PropPoints,
		PredictionDate:    date,
		Line:              20.5,
		PredictedProbOver: 0.6,
		ValueOver:         &valueOver,
		Confidence:        confidence,
		ModelVersion:      "v1",
	})
	require.NoError(t, err)
}

func TestGetValueBets(t *testing.T) {
	repo := newFakePredictionRepo()
	svc := NewQueryService(repo, newFakeMetricRepo())

	today := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	yesterday := today.AddDate(0, 0, -1)

	seedQueryPrediction(t, repo, "edge", today, 0.08, 0.9)
	seedQueryPrediction(t, repo, "thin", today, 0.01, 0.9)
	seedQueryPrediction(t, repo, "shaky", today, 0.08, 0.2)
	seedQueryPrediction(t, repo, "stale", yesterday, 0.08, 0.9)

	// The lookup time carries a clock component; the day boundary must not.
	bets, err := svc.GetValueBets(context.Background(), today.Add(15*time.Hour), 0.05, 0.5, 10)
	require.NoError(t, err)
	require.Len(t, bets, 1)
	assert.Equal(t, "edge", bets[0].PlayerID)
}

func TestGetPredictionsForGame(t *testing.T) {
	repo := newFakePredictionRepo()
	svc := NewQueryService(repo, newFakeMetricRepo())

	today := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	seedQueryPrediction(t, repo, "p1", today, 0.08, 0.9)
	seedQueryPrediction(t, repo, "p2", today, 0.02, 0.9)

	all, err := svc.GetPredictionsForGame(context.Background(), "g1", nil, nil, nil)
	require.NoError(t, err)
	assert.Len(t, all, 2)

	minValue := 0.05
	strong, err := svc.GetPredictionsForGame(context.Background(), "g1", nil, &minValue, nil)
	require.NoError(t, err)
	require.Len(t, strong, 1)
	assert.Equal(t, "p1", strong[0].PlayerID)

	none, err := svc.GetPredictionsForGame(context.Background(), "g2", nil, nil, nil)
	require.NoError(t, err)
	assert.Empty(t, none)
}
