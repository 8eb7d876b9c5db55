package aggregate

import (
	"math"
	"sort"

	"nflstats/analyzer/internal/models"
)

// Rank derives the per-position summaries from the store and orders them
// descending by overall average difference. Only the already-computed
// difference rows feed the means, never the raw window averages. Undefined
// (NaN) differences are excluded from the means rather than poisoning them.
// Ties keep the store's position insertion order. The output is recomputed
// fresh on every call.
func Rank(store *Store) []models.RankingEntry {
	entries := make([]models.RankingEntry, 0, len(store.Positions()))
	for _, pos := range store.Positions() {
		players := store.Repo(pos).Players()
		if len(players) == 0 {
			continue
		}

		sums := make(map[string]float64)
		counts := make(map[string]int)
		var statOrder []string
		var flatSum float64
		var flatCount int
		for _, res := range players {
			for _, stat := range res.Stats {
				d, ok := res.Difference[stat]
				if !ok || math.IsNaN(d) {
					continue
				}
				if counts[stat] == 0 {
					statOrder = append(statOrder, stat)
				}
				sums[stat] += d
				counts[stat]++
				flatSum += d
				flatCount++
			}
		}

		perStat := make(map[string]float64, len(statOrder))
		for _, stat := range statOrder {
			perStat[stat] = sums[stat] / float64(counts[stat])
		}

		overall := math.NaN()
		if flatCount > 0 {
			// Every stat of every player weighs equally in the overall mean.
			overall = flatSum / float64(flatCount)
		}

		entries = append(entries, models.RankingEntry{
			Position:                 pos,
			PlayerCount:              len(players),
			Stats:                    statOrder,
			PerStatAverageDifference: perStat,
			OverallAverageDifference: overall,
		})
	}

	sort.SliceStable(entries, func(i, j int) bool {
		a, b := entries[i].OverallAverageDifference, entries[j].OverallAverageDifference
		if math.IsNaN(b) {
			return !math.IsNaN(a)
		}
		if math.IsNaN(a) {
			return false
		}
		return a > b
	})
	return entries
}
