package engine

import (
	"math"
	"testing"

	"nflstats/analyzer/internal/models"
	"nflstats/analyzer/internal/window"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func lbRecords(combByYear map[int]string) []models.SeasonRecord {
	var recs []models.SeasonRecord
	for year, comb := range combByYear {
		recs = append(recs, models.SeasonRecord{
			Season:      year,
			GamesPlayed: 12,
			RawPosition: "LB",
			Stats:       map[string]string{"Comb": comb, "Solo": "10"},
		})
	}
	return recs
}

func testWindows() window.Windows {
	return window.Windows{
		Early: window.Window{Years: [3]int{2019, 2020, 2021}, Label: "early"},
		Late:  window.Window{Years: [3]int{2022, 2023, 2024}, Label: "late"},
	}
}

func TestAggregate_AbsoluteMode(t *testing.T) {
	merged := window.Merge(lbRecords(map[int]string{
		2019: "30", 2020: "40", 2021: "50",
		2022: "60", 2023: "70", 2024: "80",
	}))
	columns := []string{"Season", "G", "Pos", "Comb", "Solo"}

	res, fail := Aggregate("Test Player", "LB", merged, columns, testWindows(), models.DiffAbsolute)
	require.Nil(t, fail)

	assert.Equal(t, []string{"Comb", "Solo"}, res.Stats)
	assert.InDelta(t, 40.0, res.EarlyAverages["Comb"], 1e-9)
	assert.InDelta(t, 70.0, res.LateAverages["Comb"], 1e-9)
	assert.InDelta(t, res.LateAverages["Comb"]-res.EarlyAverages["Comb"], res.Difference["Comb"], 1e-9)
	assert.InDelta(t, 0.0, res.Difference["Solo"], 1e-9)
}

func TestAggregate_PercentageMode(t *testing.T) {
	merged := window.Merge(lbRecords(map[int]string{
		2019: "30", 2020: "40", 2021: "50",
		2022: "60", 2023: "70", 2024: "80",
	}))
	columns := []string{"Season", "G", "Pos", "Comb", "Solo"}

	res, fail := Aggregate("Test Player", "LB", merged, columns, testWindows(), models.DiffPercentage)
	require.Nil(t, fail)

	want := (70.0 - 40.0) / 40.0 * 100
	assert.InDelta(t, want, res.Difference["Comb"], 1e-9)
}

func TestAggregate_PercentageUndefinedOnZeroEarly(t *testing.T) {
	var recs []models.SeasonRecord
	for _, year := range []int{2019, 2020, 2021} {
		recs = append(recs, models.SeasonRecord{
			Season: year, GamesPlayed: 12, RawPosition: "LB",
			Stats: map[string]string{"Comb": "0"},
		})
	}
	for _, year := range []int{2022, 2023, 2024} {
		recs = append(recs, models.SeasonRecord{
			Season: year, GamesPlayed: 12, RawPosition: "LB",
			Stats: map[string]string{"Comb": "10"},
		})
	}

	res, fail := Aggregate("Test Player", "LB", window.Merge(recs),
		[]string{"Season", "G", "Pos", "Comb"}, testWindows(), models.DiffPercentage)
	require.Nil(t, fail)

	// Division by zero is an explicit undefined value, not a silent zero.
	assert.True(t, math.IsNaN(res.Difference["Comb"]))
}

func TestAggregate_PercentValuesParsed(t *testing.T) {
	var recs []models.SeasonRecord
	rates := map[int]string{2019: "60%", 2020: "62%", 2021: "64%", 2022: "66%", 2023: "68%", 2024: "70%"}
	for year, rate := range rates {
		recs = append(recs, models.SeasonRecord{
			Season: year, GamesPlayed: 12, RawPosition: "K",
			Stats: map[string]string{"FG%": rate, "Lng": "50"},
		})
	}

	res, fail := Aggregate("Test Player", "K", window.Merge(recs),
		[]string{"Season", "G", "Pos", "FG%", "Lng"}, testWindows(), models.DiffAbsolute)
	require.Nil(t, fail)
	assert.InDelta(t, 62.0, res.EarlyAverages["FG%"], 1e-9)
	assert.InDelta(t, 68.0, res.LateAverages["FG%"], 1e-9)
	assert.InDelta(t, 6.0, res.Difference["FG%"], 1e-9)
}

func TestAggregate_MissingValuesExcludedFromMean(t *testing.T) {
	recs := lbRecords(map[int]string{
		2019: "30", 2020: "", 2021: "50",
		2022: "60", 2023: "70", 2024: "80",
	})

	res, fail := Aggregate("Test Player", "LB", window.Merge(recs),
		[]string{"Season", "G", "Pos", "Comb", "Solo"}, testWindows(), models.DiffAbsolute)
	require.Nil(t, fail)
	// 2020 has no parseable Comb, so the early mean is over two seasons.
	assert.InDelta(t, 40.0, res.EarlyAverages["Comb"], 1e-9)
}

func TestAggregate_NoApplicableStats(t *testing.T) {
	merged := window.Merge(lbRecords(map[int]string{2019: "30"}))

	// Columns lack every LB profile stat.
	_, fail := Aggregate("Test Player", "LB", merged,
		[]string{"Season", "G", "Pos"}, testWindows(), models.DiffAbsolute)
	require.NotNil(t, fail)
	assert.Equal(t, models.ReasonNoApplicableStats, fail.Reason)
}

func TestAggregate_UnconfiguredPosition(t *testing.T) {
	merged := window.Merge(lbRecords(map[int]string{2019: "30"}))

	_, fail := Aggregate("Test Player", "RET", merged,
		[]string{"Season", "G", "Pos", "Comb"}, testWindows(), models.DiffAbsolute)
	require.NotNil(t, fail)
	assert.Equal(t, models.ReasonNoApplicableStats, fail.Reason)
}

func TestAggregate_Deterministic(t *testing.T) {
	merged := window.Merge(lbRecords(map[int]string{
		2019: "31.5", 2020: "42", 2021: "50",
		2022: "61", 2023: "77", 2024: "80",
	}))
	columns := []string{"Season", "G", "Pos", "Comb", "Solo"}

	a, fail := Aggregate("Test Player", "LB", merged, columns, testWindows(), models.DiffPercentage)
	require.Nil(t, fail)
	b, fail := Aggregate("Test Player", "LB", merged, columns, testWindows(), models.DiffPercentage)
	require.Nil(t, fail)
	assert.Equal(t, a.EarlyAverages, b.EarlyAverages)
	assert.Equal(t, a.LateAverages, b.LateAverages)
	assert.Equal(t, a.Difference, b.Difference)
}
