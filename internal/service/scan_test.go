package service

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yourusername/prop-scout/internal/models"
	"github.com/yourusername/prop-scout/internal/scorer"
)

func intPtr(v int) *int { return &v }

func strPtr(v string) *string { return &v }

func gameLog(playerID string, n int, basePoints float64) []models.StatRecord {
	start := time.Date(2026, 1, 1, 0, 0, 0, 0, time.UTC)
	records := make([]models.StatRecord, 0, n)
	for i := 0; i < n; i++ {
		records = append(records, models.StatRecord{
			PlayerID: playerID,
			GameID:   fmt.Sprintf("past-%03d", i),
			GameDate: start.AddDate(0, 0, i),
			Season:   2026,
			Stats:    models.StatLine{Points: basePoints, Rebounds: 5, Assists: 4},
		})
	}
	return records
}

func quoteFor(gameID, playerID string, prop models.PropType, line float64) models.OddsQuote {
	return models.OddsQuote{
		GameID:   gameID,
		PlayerID: playerID,
		PropType: prop,
		Line:     line,
		Vendors: []models.VendorPrice{
			{Vendor: "alpha", OverPrice: intPtr(-110), UnderPrice: intPtr(-110)},
		},
		Best: models.BestQuote{
			OverPrice:   intPtr(-110),
			OverVendor:  strPtr("alpha"),
			UnderPrice:  intPtr(-110),
			UnderVendor: strPtr("alpha"),
		},
		ScrapedAt: time.Now().UTC(),
	}
}

func newScanFixture() (*fakeStatsProvider, *fakeOddsProvider, *fakeSnapshotRepo, *fakePredictionRepo, *scorer.Scorer) {
	statsProv := newFakeStatsProvider()
	oddsProv := &fakeOddsProvider{}
	snapshotRepo := newFakeSnapshotRepo()
	predictionRepo := newFakePredictionRepo()
	sc := scorer.NewScorer(scorer.DefaultWeights(), 25.0, nil, "v1")
	return statsProv, oddsProv, snapshotRepo, predictionRepo, sc
}

func TestScanRun(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	t.Run("ScoresEveryQuotedProp", func(t *testing.T) {
		statsProv, oddsProv, snapshotRepo, predictionRepo, sc := newScanFixture()
		statsProv.gameLogs["p1"] = gameLog("p1", 10, 25)
		statsProv.gameLogs["p2"] = gameLog("p2", 15, 18)
		oddsProv.quotes = []models.OddsQuote{
			quoteFor("g1", "p1", models.PropPoints, 24.5),
			quoteFor("g1", "p1", models.PropRebounds, 5.5),
			quoteFor("g1", "p2", models.PropPoints, 17.5),
		}

		svc := NewScanService(statsProv, oddsProv, snapshotRepo, predictionRepo, sc, 2026, 2, testLogger())
		scanMetrics, err := svc.Run(context.Background(), date)
		require.NoError(t, err)

		players, predictions, insufficient, failures := scanMetrics.Snapshot()
		assert.Equal(t, 2, players)
		assert.Equal(t, 3, predictions)
		assert.Equal(t, 0, insufficient)
		assert.Equal(t, 0, failures)
		assert.Len(t, predictionRepo.all(), 3)

		snapshot, err := snapshotRepo.GetByPlayer(context.Background(), "p1", 2026)
		require.NoError(t, err)
		assert.Equal(t, 10, snapshot.SeasonGames)
	})

	t.Run("InsufficientHistorySkipsQuietly", func(t *testing.T) {
		statsProv, oddsProv, snapshotRepo, predictionRepo, sc := newScanFixture()
		statsProv.gameLogs["rookie"] = nil
		statsProv.gameLogs["veteran"] = gameLog("veteran", 20, 22)
		oddsProv.quotes = []models.OddsQuote{
			quoteFor("g1", "rookie", models.PropPoints, 10.5),
			quoteFor("g1", "veteran", models.PropPoints, 21.5),
		}

		svc := NewScanService(statsProv, oddsProv, snapshotRepo, predictionRepo, sc, 2026, 1, testLogger())
		scanMetrics, err := svc.Run(context.Background(), date)
		require.NoError(t, err)

		players, predictions, insufficient, failures := scanMetrics.Snapshot()
		assert.Equal(t, 2, players)
		assert.Equal(t, 1, predictions)
		assert.Equal(t, 1, insufficient)
		assert.Equal(t, 0, failures)
	})

	t.Run("PlayerFailureDoesNotAbortBatch", func(t *testing.T) {
		statsProv, oddsProv, snapshotRepo, predictionRepo, sc := newScanFixture()
		statsProv.gameLogErrs["broken"] = errors.New("provider timeout")
		statsProv.gameLogs["healthy"] = gameLog("healthy", 12, 20)
		oddsProv.quotes = []models.OddsQuote{
			quoteFor("g1", "broken", models.PropPoints, 20.5),
			quoteFor("g1", "healthy", models.PropPoints, 19.5),
		}

		svc := NewScanService(statsProv, oddsProv, snapshotRepo, predictionRepo, sc, 2026, 1, testLogger())
		scanMetrics, err := svc.Run(context.Background(), date)
		require.NoError(t, err)

		_, predictions, _, failures := scanMetrics.Snapshot()
		assert.Equal(t, 1, predictions)
		assert.Equal(t, 1, failures)
		assert.Len(t, predictionRepo.all(), 1)
		assert.Equal(t, "healthy", predictionRepo.all()[0].PlayerID)
	})

	t.Run("SnapshotPersistFailureStillScores", func(t *testing.T) {
		statsProv, oddsProv, snapshotRepo, predictionRepo, sc := newScanFixture()
		statsProv.gameLogs["p1"] = gameLog("p1", 10, 25)
		snapshotRepo.upsertErr = errors.New("database unavailable")
		oddsProv.quotes = []models.OddsQuote{quoteFor("g1", "p1", models.PropPoints, 24.5)}

		svc := NewScanService(statsProv, oddsProv, snapshotRepo, predictionRepo, sc, 2026, 1, testLogger())
		scanMetrics, err := svc.Run(context.Background(), date)
		require.NoError(t, err)

		_, predictions, _, failures := scanMetrics.Snapshot()
		assert.Equal(t, 1, predictions)
		assert.Equal(t, 1, failures)
	})

	t.Run("SameDayRescoreOverwrites", func(t *testing.T) {
		statsProv, oddsProv, snapshotRepo, predictionRepo, sc := newScanFixture()
		statsProv.gameLogs["p1"] = gameLog("p1", 10, 25)
		oddsProv.quotes = []models.OddsQuote{quoteFor("g1", "p1", models.PropPoints, 24.5)}

		svc := NewScanService(statsProv, oddsProv, snapshotRepo, predictionRepo, sc, 2026, 1, testLogger())
		_, err := svc.Run(context.Background(), date)
		require.NoError(t, err)
		firstID := predictionRepo.all()[0].ID

		_, err = svc.Run(context.Background(), date)
		require.NoError(t, err)

		stored := predictionRepo.all()
		require.Len(t, stored, 1)
		assert.Equal(t, firstID, stored[0].ID)
	})

	t.Run("OddsProviderFailureAbortsCycle", func(t *testing.T) {
		statsProv, oddsProv, snapshotRepo, predictionRepo, sc := newScanFixture()
		oddsProv.err = errors.New("quota exceeded")

		svc := NewScanService(statsProv, oddsProv, snapshotRepo, predictionRepo, sc, 2026, 1, testLogger())
		_, err := svc.Run(context.Background(), date)
		assert.Error(t, err)
		assert.Empty(t, predictionRepo.all())
	})

	t.Run("CancelledContextStopsDispatch", func(t *testing.T) {
		statsProv, oddsProv, snapshotRepo, predictionRepo, sc := newScanFixture()
		for i := 0; i < 50; i++ {
			playerID := fmt.Sprintf("p%02d", i)
			statsProv.gameLogs[playerID] = gameLog(playerID, 10, 20)
			oddsProv.quotes = append(oddsProv.quotes, quoteFor("g1", playerID, models.PropPoints, 19.5))
		}

		ctx, cancel := context.WithCancel(context.Background())
		cancel()

		svc := NewScanService(statsProv, oddsProv, snapshotRepo, predictionRepo, sc, 2026, 1, testLogger())
		_, err := svc.Run(ctx, date)
		assert.ErrorIs(t, err, context.Canceled)
	})
}
