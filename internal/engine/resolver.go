// Package engine holds the per-player stat transformation: position conflict
// resolution, windowed averaging and the batch pipeline tying them together.
package engine

import (
	"sort"

	"nflstats/analyzer/internal/models"
	"nflstats/analyzer/internal/position"
)

// ResolvePosition decides the single canonical position for a player whose
// merged records may carry inconsistent labels.
//
// One distinct canonical position wins outright. Several are reconcilable
// only when they share an identical stat profile once intersected with the
// columns actually present; the label of the latest season then decides. A
// genuine role change (differing profiles) is refused rather than silently
// averaged across.
func ResolvePosition(playerID string, merged []models.MergedRecord, columns []string) (string, *models.PlayerFailure) {
	if len(merged) == 0 {
		return "", models.NewFailure(playerID, models.ReasonNoPositionData)
	}

	seen := make(map[string]bool)
	var distinct []string
	for _, rec := range merged {
		pos := position.Normalize(rec.RawPosition)
		if !seen[pos] {
			seen[pos] = true
			distinct = append(distinct, pos)
		}
	}

	if len(distinct) == 1 {
		return distinct[0], nil
	}

	first := profileKey(distinct[0], columns)
	for _, pos := range distinct[1:] {
		if profileKey(pos, columns) != first {
			return "", models.NewFailuref(playerID, models.ReasonAmbiguousPositionChange,
				"positions %v", distinct)
		}
	}

	// Identical stat sets: one role, inconsistent labels. The merged records
	// are season-ordered, so the last one is the most recent season.
	latest := merged[len(merged)-1]
	return position.Normalize(latest.RawPosition), nil
}

// profileKey renders a position's stat profile, restricted to the columns
// present in the data, as a canonical comparable string.
func profileKey(pos string, columns []string) string {
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
	sort.Strings(stats)
	key := ""
	for _, s := range stats {
		key += s + "\x00"
	}
	return key
}
