// Package ingest reads per-player season workbooks from the input directory.
package ingest

import (
	"fmt"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"nflstats/analyzer/internal/metrics"
	"nflstats/analyzer/internal/models"
	"nflstats/analyzer/internal/window"

	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"
)

// Exported workbooks put a grouping banner in row 1; the real column names
// live in row 2.
const headerRowIndex = 1

// ScanDir lists the player workbooks (*.xlsx) in dir, sorted by file name so
// batch runs are reproducible.
func ScanDir(dir string) ([]string, error) {
	paths, err := filepath.Glob(filepath.Join(dir, "*.xlsx"))
	if err != nil {
		return nil, fmt.Errorf("failed to scan input directory %s: %w", dir, err)
	}
	sort.Strings(paths)
	return paths, nil
}

// PlayerIDFromPath derives the player identity from a workbook file name: the
// base name without extension, underscores restored to spaces.
func PlayerIDFromPath(path string) string {
	base := filepath.Base(path)
	base = strings.TrimSuffix(base, filepath.Ext(base))
	return strings.TrimSpace(strings.ReplaceAll(base, "_", " "))
}

// ReadPlayerFile parses one player workbook into season records. The first
// sheet is the player's career table; every header column is preserved as a
// raw stat string so downstream profile intersection decides what applies.
// Rows whose season cell is not a year are skipped with a warning.
func ReadPlayerFile(path string) (models.PlayerRecords, *models.PlayerFailure) {
	playerID := PlayerIDFromPath(path)
	table := models.PlayerRecords{PlayerID: playerID}

	f, err := excelize.OpenFile(path)
	if err != nil {
		metrics.RecordFileRead("error")
		return table, models.NewFailuref(playerID, models.ReasonUnreadableFile,
			"open %s: %v", filepath.Base(path), err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil {
			log.Warn().Err(cerr).Str("file", path).Msg("Failed to close workbook")
		}
	}()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		metrics.RecordFileRead("error")
		return table, models.NewFailuref(playerID, models.ReasonUnreadableFile,
			"read sheet %q: %v", sheet, err)
	}
	if len(rows) <= headerRowIndex {
		metrics.RecordFileRead("error")
		return table, models.NewFailure(playerID, models.ReasonWrongFormat)
	}

	header := rows[headerRowIndex]
	colIndex := make(map[string]int, len(header))
	for i, name := range header {
		name = strings.TrimSpace(name)
		if name == "" {
			continue
		}
		if _, seen := colIndex[name]; seen {
			continue
		}
		colIndex[name] = i
		table.Columns = append(table.Columns, name)
	}

	for _, required := range []string{"Season", "G", "Pos"} {
		if _, ok := colIndex[required]; !ok {
			metrics.RecordFileRead("error")
			return table, models.NewFailuref(playerID, models.ReasonMissingRequiredColumn,
				"%s", required)
		}
	}

	for rowNum, row := range rows[headerRowIndex+1:] {
		season, ok := parseSeason(cell(row, colIndex["Season"]))
		if !ok {
			// Career tables end with summary rows ("Career", "3 yrs") that
			// carry no season year.
			log.Debug().
				Str("player", playerID).
				Int("row", rowNum+headerRowIndex+2).
				Msg("Skipping row without a season year")
			continue
		}

		games, _ := window.ParseStat(cell(row, colIndex["G"]))

		stats := make(map[string]string, len(colIndex))
		for name, idx := range colIndex {
			switch name {
			case "Season", "G", "Pos":
				continue
			}
			if v := strings.TrimSpace(cell(row, idx)); v != "" {
				stats[name] = v
			}
		}

		table.Records = append(table.Records, models.SeasonRecord{
			Season:      season,
			GamesPlayed: games,
			RawPosition: cell(row, colIndex["Pos"]),
			Stats:       stats,
		})
	}

	metrics.RecordFileRead("success")
	return table, nil
}

// cell returns row[idx] or "" when the sheet library trimmed the trailing
// empty cells off this row.
func cell(row []string, idx int) string {
	if idx < 0 || idx >= len(row) {
		return ""
	}
	return row[idx]
}

func parseSeason(raw string) (int, bool) {
	raw = strings.TrimSpace(raw)
	// Some sources mark the active season ("2024*") or a changed team ("2022+").
	raw = strings.TrimRight(raw, "*+")
	v, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return 0, false
	}
	year := int(v)
	if float64(year) != v || year < 1900 || year > 2100 {
		return 0, false
	}
	return year, true
}
