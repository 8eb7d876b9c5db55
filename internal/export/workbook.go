package export

import (
	"fmt"
	"math"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"nflstats/analyzer/internal/models"

	"github.com/xuri/excelize/v2"
)

// Player blocks alternate between two fills so the three rows belonging to
// one player read as a unit.
var blockFills = [2]string{"CCFFCC", "FFFFBD"}

// AggregateFileName returns the workbook file name for a position.
func AggregateFileName(position string) string {
	return position + "_aggregate.xlsx"
}

// PositionFromAggregatePath recovers the position from an aggregate workbook
// path. The second value is false for paths that are not aggregate workbooks.
func PositionFromAggregatePath(path string) (string, bool) {
	base := filepath.Base(path)
	pos := strings.TrimSuffix(base, "_aggregate.xlsx")
	if pos == base || pos == "" {
		return "", false
	}
	return pos, true
}

// WriteAggregateWorkbook writes one position's results as a fresh workbook
// under dir: a header row, then three rows per player (early averages, late
// averages, difference) with alternating block fills. The stat columns are
// the union across the position's players in first-seen order. Returns the
// written path.
func WriteAggregateWorkbook(dir, position string, players []*models.PlayerResult) (string, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", fmt.Errorf("failed to create output directory: %w", err)
	}

	var statOrder []string
	seen := make(map[string]bool)
	for _, res := range players {
		for _, stat := range res.Stats {
			if !seen[stat] {
				seen[stat] = true
				statOrder = append(statOrder, stat)
			}
		}
	}

	f := excelize.NewFile()
	defer f.Close()
	sheet := f.GetSheetName(0)

	header := append([]string{"Player", "Season Group"}, statOrder...)
	if err := setRow(f, sheet, 1, header); err != nil {
		return "", err
	}

	styles := [2]int{}
	for i, color := range blockFills {
		style, err := f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Color: []string{color}, Pattern: 1},
		})
		if err != nil {
			return "", fmt.Errorf("failed to create fill style: %w", err)
		}
		styles[i] = style
	}

	row := 2
	for i, res := range players {
		block := [][]string{
			blockRow(res.PlayerID, groupLabel(res.EarlyYears), statOrder, res.EarlyAverages),
			blockRow(res.PlayerID, groupLabel(res.LateYears), statOrder, res.LateAverages),
			blockRow(res.PlayerID, diffLabel(res.DiffMode), statOrder, res.Difference),
		}
		for _, cells := range block {
			if err := setRow(f, sheet, row, cells); err != nil {
				return "", err
			}
			if err := styleRow(f, sheet, row, len(header), styles[i%2]); err != nil {
				return "", err
			}
			row++
		}
	}

	path := filepath.Join(dir, AggregateFileName(position))
	if err := f.SaveAs(path); err != nil {
		return "", fmt.Errorf("failed to save %s: %w", path, err)
	}
	return path, nil
}

func blockRow(player, label string, statOrder []string, values map[string]float64) []string {
	row := []string{player, label}
	for _, stat := range statOrder {
		v, ok := values[stat]
		if !ok {
			// Stat tracked by another player of this position only.
			row = append(row, "")
			continue
		}
		row = append(row, formatValue(v))
	}
	return row
}

func setRow(f *excelize.File, sheet string, row int, cells []string) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", row, err)
	}
	if err := f.SetSheetRow(sheet, start, &cells); err != nil {
		return fmt.Errorf("failed to write row %d: %w", row, err)
	}
	return nil
}

func styleRow(f *excelize.File, sheet string, row, width, style int) error {
	start, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", row, err)
	}
	end, err := excelize.CoordinatesToCellName(width, row)
	if err != nil {
		return fmt.Errorf("failed to address row %d: %w", row, err)
	}
	if err := f.SetCellStyle(sheet, start, end, style); err != nil {
		return fmt.Errorf("failed to style row %d: %w", row, err)
	}
	return nil
}

// ReadAggregateWorkbook parses a previously written aggregate workbook back
// into player results. Values written as "undefined" come back as NaN; blank
// cells mean the stat did not apply to that player.
func ReadAggregateWorkbook(path string) ([]*models.PlayerResult, error) {
	position, ok := PositionFromAggregatePath(path)
	if !ok {
		return nil, fmt.Errorf("%s is not an aggregate workbook", filepath.Base(path))
	}

	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer f.Close()

	rows, err := f.GetRows(f.GetSheetName(0))
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", path, err)
	}
	if len(rows) == 0 {
		return nil, nil
	}

	header := rows[0]
	if len(header) < 2 || header[0] != "Player" {
		return nil, fmt.Errorf("%s has an unexpected header", filepath.Base(path))
	}
	statOrder := header[2:]

	var players []*models.PlayerResult
	for i := 1; i+3 <= len(rows); i += 3 {
		early, late, diff := rows[i], rows[i+1], rows[i+2]

		res := &models.PlayerResult{
			PlayerID:      cellAt(early, 0),
			Position:      position,
			EarlyAverages: parseBlockRow(early, statOrder),
			LateAverages:  parseBlockRow(late, statOrder),
			Difference:    parseBlockRow(diff, statOrder),
			DiffMode:      models.DiffAbsolute,
		}
		if cellAt(diff, 1) == diffLabel(models.DiffPercentage) {
			res.DiffMode = models.DiffPercentage
		}
		for _, stat := range statOrder {
			if _, ok := res.Difference[stat]; ok {
				res.Stats = append(res.Stats, stat)
			}
		}
		players = append(players, res)
	}
	return players, nil
}

func parseBlockRow(row []string, statOrder []string) map[string]float64 {
	values := make(map[string]float64, len(statOrder))
	for i, stat := range statOrder {
		raw := strings.TrimSpace(cellAt(row, i+2))
		if raw == "" {
			continue
		}
		if raw == Undefined {
			values[stat] = math.NaN()
			continue
		}
		if v, err := strconv.ParseFloat(raw, 64); err == nil {
			values[stat] = v
		}
	}
	return values
}

func cellAt(row []string, idx int) string {
	if idx >= len(row) {
		return ""
	}
	return row[idx]
}
