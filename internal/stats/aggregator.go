// Package stats aggregates per-game stat records into rolling-window and
// season averages for scoring.
package stats

import (
	"sort"
	"time"

	"github.com/yourusername/prop-scout/internal/models"
)

// ComputeSnapshot partitions a player's stat records by recency and produces
// the derived snapshot: last-game values, 7/14/30-game rolling averages with
// actual games-counted, and season totals/averages.
//
// Ordering is deterministic: records sort by game date with game ID as the
// secondary key, so double-headers and data glitches cannot reorder the
// windows between runs. An empty input yields a snapshot with zero games
// everywhere; callers must treat that as "cannot score", never as zeros.
func ComputeSnapshot(playerID string, season int, records []models.StatRecord) *models.PlayerStatsSnapshot {
	snapshot := &models.PlayerStatsSnapshot{
		PlayerID:  playerID,
		Season:    season,
		UpdatedAt: time.Now().UTC(),
	}

	if len(records) == 0 {
		return snapshot
	}

	sorted := make([]models.StatRecord, len(records))
	copy(sorted, records)
	sort.SliceStable(sorted, func(i, j int) bool {
		if !sorted[i].GameDate.Equal(sorted[j].GameDate) {
			return sorted[i].GameDate.Before(sorted[j].GameDate)
		}
		return sorted[i].GameID < sorted[j].GameID
	})

	last := sorted[len(sorted)-1]
	snapshot.LastGameID = last.GameID
	snapshot.LastGameDate = last.GameDate
	snapshot.LastGame = last.Stats

	snapshot.Window7 = windowAverages(sorted, models.Window7)
	snapshot.Window14 = windowAverages(sorted, models.Window14)
	snapshot.Window30 = windowAverages(sorted, models.Window30)

	var totals models.StatLine
	for i := range sorted {
		totals.Add(sorted[i].Stats)
	}
	snapshot.SeasonTotals = totals
	snapshot.SeasonGames = len(sorted)
	snapshot.SeasonAverages = totals.Scale(len(sorted))

	return snapshot
}

// windowAverages computes the arithmetic mean over the most recent n games,
// using fewer when the history is shorter than the window.
func windowAverages(sorted []models.StatRecord, n int) models.WindowAverages {
	count := n
	if count > len(sorted) {
		count = len(sorted)
	}
	if count == 0 {
		return models.WindowAverages{}
	}

	var sum models.StatLine
	for _, rec := range sorted[len(sorted)-count:] {
		sum.Add(rec.Stats)
	}

	return models.WindowAverages{
		Averages:     sum.Scale(count),
		GamesCounted: count,
	}
}
