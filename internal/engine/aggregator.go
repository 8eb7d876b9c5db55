package engine

import (
	"math"

	"nflstats/analyzer/internal/models"
	"nflstats/analyzer/internal/position"
	"nflstats/analyzer/internal/window"
)

// Aggregate computes a player's per-stat window averages and between-window
// difference. The stat set is the position's profile intersected with the
// columns present in the source table. Missing values are excluded from the
// means. In percentage mode a zero early average makes the difference
// undefined; it is carried as NaN, never zeroed.
func Aggregate(playerID, pos string, merged []models.MergedRecord, columns []string,
	win window.Windows, mode models.DiffMode) (*models.PlayerResult, *models.PlayerFailure) {

	present := make(map[string]bool, len(columns))
	for _, c := range columns {
		present[c] = true
	}
	var stats []string
	for _, s := range position.Profile(pos) {
		if present[s] {
			stats = append(stats, s)
		}
	}
	if len(stats) == 0 {
		return nil, models.NewFailuref(playerID, models.ReasonNoApplicableStats,
			"position %s", pos)
	}

	early := windowAverages(merged, win.Early, stats)
	late := windowAverages(merged, win.Late, stats)

	diff := make(map[string]float64, len(stats))
	for _, s := range stats {
		switch mode {
		case models.DiffPercentage:
			if early[s] == 0 {
				diff[s] = math.NaN()
			} else {
				diff[s] = (late[s] - early[s]) / early[s] * 100
			}
		default:
			diff[s] = late[s] - early[s]
		}
	}

	return &models.PlayerResult{
		PlayerID:      playerID,
		Position:      pos,
		Stats:         stats,
		EarlyAverages: early,
		LateAverages:  late,
		Difference:    diff,
		DiffMode:      mode,
		EarlyYears:    win.Early.Years,
		LateYears:     win.Late.Years,
	}, nil
}

// windowAverages computes the per-stat arithmetic mean over the merged
// records falling inside the window. A stat missing from every record in the
// window yields NaN.
func windowAverages(merged []models.MergedRecord, win window.Window, stats []string) map[string]float64 {
	sums := make(map[string]float64, len(stats))
	counts := make(map[string]int, len(stats))
	for _, rec := range merged {
		if !win.Contains(rec.Season) {
			continue
		}
		for _, s := range stats {
			if v, ok := rec.Stats[s]; ok {
				sums[s] += v
				counts[s]++
			}
		}
	}

	out := make(map[string]float64, len(stats))
	for _, s := range stats {
		if counts[s] == 0 {
			out[s] = math.NaN()
			continue
		}
		out[s] = sums[s] / float64(counts[s])
	}
	return out
}
