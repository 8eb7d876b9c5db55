// Package export renders batch results: per-player CSV files, per-position
// aggregate workbooks and the cross-position ranking file.
package export

import (
	"encoding/csv"
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"nflstats/analyzer/internal/models"
)

// Undefined is written wherever a value has no defined numeric result, such
// as a percentage change over a zero early-window average.
const Undefined = "undefined"

// RankingFileName is the cross-position ranking file written to the output
// directory root.
const RankingFileName = "Ranked Averages.csv"

func formatValue(v float64) string {
	if math.IsNaN(v) {
		return Undefined
	}
	return strconv.FormatFloat(v, 'f', 2, 64)
}

func groupLabel(years [3]int) string {
	return fmt.Sprintf("%d-%d Avg", years[0], years[2])
}

func diffLabel(mode models.DiffMode) string {
	if mode == models.DiffPercentage {
		return "% Difference"
	}
	return "Difference"
}

func fileSafe(name string) string {
	return strings.ReplaceAll(strings.TrimSpace(name), " ", "_")
}

// WritePlayerCSV writes one player's three-row result under
// baseDir/<position>/<Player>_<position>.csv and returns the written path.
func WritePlayerCSV(baseDir string, res *models.PlayerResult) (string, error) {
	dir := filepath.Join(baseDir, res.Position)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create position directory: %w", err)
	}

	path := filepath.Join(dir, fmt.Sprintf("%s_%s.csv", fileSafe(res.PlayerID), res.Position))
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	w := csv.NewWriter(f)
	rows := [][]string{
		append([]string{"Player", "Season Group"}, res.Stats...),
		resultRow(res.PlayerID, groupLabel(res.EarlyYears), res.Stats, res.EarlyAverages),
		resultRow(res.PlayerID, groupLabel(res.LateYears), res.Stats, res.LateAverages),
		resultRow(res.PlayerID, diffLabel(res.DiffMode), res.Stats, res.Difference),
	}
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}

func resultRow(player, label string, stats []string, values map[string]float64) []string {
	row := []string{player, label}
	for _, stat := range stats {
		v, ok := values[stat]
		if !ok {
			row = append(row, Undefined)
			continue
		}
		row = append(row, formatValue(v))
	}
	return row
}

// WriteRankingCSV writes the cross-position ranking in rank order. The stat
// columns are the union of every entry's stats, in the order the positions
// first contributed them.
func WriteRankingCSV(dir string, entries []models.RankingEntry) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var statOrder []string
	seen := make(map[string]bool)
	for _, e := range entries {
		for _, stat := range e.Stats {
			if !seen[stat] {
				seen[stat] = true
				statOrder = append(statOrder, stat)
			}
		}
	}

	path := filepath.Join(dir, RankingFileName)
	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create %s: %w", path, err)
	}
	defer f.Close()

	header := []string{"Position", "NumPlayers"}
	for _, stat := range statOrder {
		header = append(header, "AvgDiff_"+stat)
	}
	header = append(header, "OverallAvgDiff")

	w := csv.NewWriter(f)
	rows := [][]string{header}
	for _, e := range entries {
		row := []string{e.Position, strconv.Itoa(e.PlayerCount)}
		for _, stat := range statOrder {
			v, ok := e.PerStatAverageDifference[stat]
			if !ok {
				// Stat tracked by another position only.
				row = append(row, "")
				continue
			}
			row = append(row, formatValue(v))
		}
		row = append(row, formatValue(e.OverallAverageDifference))
		rows = append(rows, row)
	}
	if err := w.WriteAll(rows); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
