// Package window merges duplicate season rows and selects the two
// comparison windows of a player's career.
package window

import (
	"sort"
	"strconv"
	"strings"

	"nflstats/analyzer/internal/models"
)

// ParseStat parses a raw cell value as a number. A trailing "%" is stripped
// before parsing so percent-valued stats behave like every other stat; this
// is the single numeric parser for the whole pipeline.
func ParseStat(raw string) (float64, bool) {
	v := strings.TrimSpace(raw)
	v = strings.TrimSuffix(v, "%")
	v = strings.TrimSpace(v)
	if v == "" {
		return 0, false
	}
	f, err := strconv.ParseFloat(v, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Merge combines duplicate same-season rows into one record per season:
// numeric fields take the arithmetic mean across duplicates, the raw position
// takes the first occurrence's value. The result is sorted by season.
func Merge(records []models.SeasonRecord) []models.MergedRecord {
	type accumulator struct {
		games    float64
		rows     int
		rawPos   string
		statSum  map[string]float64
		statRows map[string]int
	}

	bySeason := make(map[int]*accumulator)
	var seasons []int
	for _, rec := range records {
		acc, ok := bySeason[rec.Season]
		if !ok {
			acc = &accumulator{
				rawPos:   rec.RawPosition,
				statSum:  make(map[string]float64),
				statRows: make(map[string]int),
			}
			bySeason[rec.Season] = acc
			seasons = append(seasons, rec.Season)
		}
		acc.games += rec.GamesPlayed
		acc.rows++
		for name, raw := range rec.Stats {
			if v, ok := ParseStat(raw); ok {
				acc.statSum[name] += v
				acc.statRows[name]++
			}
		}
	}

	sort.Ints(seasons)
	merged := make([]models.MergedRecord, 0, len(seasons))
	for _, season := range seasons {
		acc := bySeason[season]
		stats := make(map[string]float64, len(acc.statSum))
		for name, sum := range acc.statSum {
			stats[name] = sum / float64(acc.statRows[name])
		}
		merged = append(merged, models.MergedRecord{
			Season:      season,
			GamesPlayed: acc.games / float64(acc.rows),
			RawPosition: acc.rawPos,
			Stats:       stats,
		})
	}
	return merged
}

// Window is one of the two 3-year comparison periods.
type Window struct {
	Years [3]int
	Label string
}

// Contains reports whether the window covers the given season.
func (w Window) Contains(season int) bool {
	return season == w.Years[0] || season == w.Years[1] || season == w.Years[2]
}

// Windows holds a player's resolved early and late comparison windows. They
// never overlap: the late years are always the configured anchors, the early
// years are the nominal preceding years unless substitution applied.
type Windows struct {
	Early Window
	Late  Window
}

// Policy configures window selection. LateStart anchors the late window
// (LateStart..LateStart+2); the early window is nominally the three years
// before it. MinGames is the strict games-played floor for every window year.
type Policy struct {
	LateStart int
	MinGames  float64
}

// DefaultPolicy matches the 2019-2021 vs 2022-2024 split of the source data.
func DefaultPolicy() Policy {
	return Policy{LateStart: 2022, MinGames: 6}
}

// Select resolves the comparison windows from a player's merged records.
//
// The late window requires all three anchor years. The early window uses the
// three preceding years; when the first is missing, the latest season
// strictly before it substitutes, but only if the other two nominal years are
// both present. Players whose career simply started late are tolerated,
// players without enough data to anchor a comparison are not. Finally every
// resolved window year must show more than MinGames games played.
func (p Policy) Select(playerID string, merged []models.MergedRecord) (Windows, *models.PlayerFailure) {
	bySeason := make(map[int]models.MergedRecord, len(merged))
	for _, rec := range merged {
		bySeason[rec.Season] = rec
	}
	present := func(year int) bool {
		_, ok := bySeason[year]
		return ok
	}

	late := Window{Years: [3]int{p.LateStart, p.LateStart + 1, p.LateStart + 2}, Label: "late"}
	for _, year := range late.Years {
		if !present(year) {
			return Windows{}, models.NewFailuref(playerID, models.ReasonInsufficientLateWindowData,
				"season %d missing", year)
		}
	}

	nominalFirst := p.LateStart - 3
	early := Window{Years: [3]int{nominalFirst, nominalFirst + 1, nominalFirst + 2}, Label: "early"}
	if !present(nominalFirst) {
		substitute := 0
		for _, rec := range merged {
			if rec.Season < nominalFirst && rec.Season > substitute {
				substitute = rec.Season
			}
		}
		if substitute == 0 || !present(nominalFirst+1) || !present(nominalFirst+2) {
			return Windows{}, models.NewFailuref(playerID, models.ReasonInsufficientEarlyWindowData,
				"season %d missing and no substitute available", nominalFirst)
		}
		early.Years[0] = substitute
	}

	for _, year := range append(early.Years[:], late.Years[:]...) {
		if bySeason[year].GamesPlayed <= p.MinGames {
			return Windows{}, models.NewFailuref(playerID, models.ReasonInsufficientGamesPlayed,
				"season %d", year)
		}
	}

	return Windows{Early: early, Late: late}, nil
}
