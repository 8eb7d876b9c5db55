package export

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"nflstats/analyzer/internal/models"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func lbResult(player string, comb, solo float64) *models.PlayerResult {
	return &models.PlayerResult{
		PlayerID: player,
		Position: "LB",
		Stats:    []string{"Comb", "Solo"},
		EarlyAverages: map[string]float64{
			"Comb": comb, "Solo": solo,
		},
		LateAverages: map[string]float64{
			"Comb": comb + 10, "Solo": solo + 5,
		},
		Difference: map[string]float64{
			"Comb": 10, "Solo": 5,
		},
		DiffMode:   models.DiffAbsolute,
		EarlyYears: [3]int{2019, 2020, 2021},
		LateYears:  [3]int{2022, 2023, 2024},
	}
}

func readCSV(t *testing.T, path string) [][]string {
	t.Helper()
	f, err := os.Open(path)
	require.NoError(t, err)
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	require.NoError(t, err)
	return rows
}

func TestWritePlayerCSV(t *testing.T) {
	dir := t.TempDir()
	path, err := WritePlayerCSV(dir, lbResult("Test Player", 40, 20))
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "LB", "Test_Player_LB.csv"), path)

	rows := readCSV(t, path)
	require.Len(t, rows, 4)
	assert.Equal(t, []string{"Player", "Season Group", "Comb", "Solo"}, rows[0])
	assert.Equal(t, []string{"Test Player", "2019-2021 Avg", "40.00", "20.00"}, rows[1])
	assert.Equal(t, []string{"Test Player", "2022-2024 Avg", "50.00", "25.00"}, rows[2])
	assert.Equal(t, []string{"Test Player", "Difference", "10.00", "5.00"}, rows[3])
}

func TestWritePlayerCSV_UndefinedPercentage(t *testing.T) {
	res := lbResult("Test Player", 0, 20)
	res.DiffMode = models.DiffPercentage
	res.Difference["Comb"] = math.NaN()

	path, err := WritePlayerCSV(t.TempDir(), res)
	require.NoError(t, err)

	rows := readCSV(t, path)
	assert.Equal(t, []string{"Test Player", "% Difference", "undefined", "25.00"}, rows[3])
}

func TestWriteRankingCSV(t *testing.T) {
	entries := []models.RankingEntry{
		{
			Position:    "LB",
			PlayerCount: 2,
			Stats:       []string{"Comb", "Solo"},
			PerStatAverageDifference: map[string]float64{
				"Comb": 15, "Solo": 7.5,
			},
			OverallAverageDifference: 11.25,
		},
		{
			Position:    "QB",
			PlayerCount: 1,
			Stats:       []string{"Yds"},
			PerStatAverageDifference: map[string]float64{
				"Yds": 5,
			},
			OverallAverageDifference: 5,
		},
	}

	dir := t.TempDir()
	path, err := WriteRankingCSV(dir, entries)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "Ranked Averages.csv"), path)

	rows := readCSV(t, path)
	require.Len(t, rows, 3)
	assert.Equal(t, []string{"Position", "NumPlayers", "AvgDiff_Comb", "AvgDiff_Solo", "AvgDiff_Yds", "OverallAvgDiff"}, rows[0])
	assert.Equal(t, []string{"LB", "2", "15.00", "7.50", "", "11.25"}, rows[1])
	assert.Equal(t, []string{"QB", "1", "", "", "5.00", "5.00"}, rows[2])
}

func TestAggregateWorkbookRoundTrip(t *testing.T) {
	players := []*models.PlayerResult{
		lbResult("Player A", 40, 20),
		lbResult("Player B", 60, 30),
	}
	players[1].DiffMode = models.DiffPercentage
	players[1].Difference = map[string]float64{"Comb": math.NaN(), "Solo": 16.67}

	dir := t.TempDir()
	path, err := WriteAggregateWorkbook(dir, "LB", players)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, "LB_aggregate.xlsx"), path)

	got, err := ReadAggregateWorkbook(path)
	require.NoError(t, err)
	require.Len(t, got, 2)

	assert.Equal(t, "Player A", got[0].PlayerID)
	assert.Equal(t, "LB", got[0].Position)
	assert.Equal(t, models.DiffAbsolute, got[0].DiffMode)
	assert.InDelta(t, 40.0, got[0].EarlyAverages["Comb"], 1e-9)
	assert.InDelta(t, 10.0, got[0].Difference["Comb"], 1e-9)

	assert.Equal(t, models.DiffPercentage, got[1].DiffMode)
	assert.True(t, math.IsNaN(got[1].Difference["Comb"]))
	assert.InDelta(t, 16.67, got[1].Difference["Solo"], 1e-9)
	assert.Equal(t, []string{"Comb", "Solo"}, got[1].Stats)
}

func TestWriteAggregateWorkbook_AlternatingBlockFills(t *testing.T) {
	players := []*models.PlayerResult{
		lbResult("Player A", 40, 20),
		lbResult("Player B", 60, 30),
	}

	path, err := WriteAggregateWorkbook(t.TempDir(), "LB", players)
	require.NoError(t, err)

	f, err := excelize.OpenFile(path)
	require.NoError(t, err)
	defer f.Close()
	sheet := f.GetSheetName(0)

	blockA, err := f.GetCellStyle(sheet, "A2")
	require.NoError(t, err)
	blockAEnd, err := f.GetCellStyle(sheet, "A4")
	require.NoError(t, err)
	blockB, err := f.GetCellStyle(sheet, "A5")
	require.NoError(t, err)

	// Rows 2-4 share one fill, rows 5-7 the alternate one.
	assert.Equal(t, blockA, blockAEnd)
	assert.NotEqual(t, blockA, blockB)
}

func TestPositionFromAggregatePath(t *testing.T) {
	pos, ok := PositionFromAggregatePath("/out/LB_aggregate.xlsx")
	require.True(t, ok)
	assert.Equal(t, "LB", pos)

	_, ok = PositionFromAggregatePath("/out/Ranked Averages.csv")
	assert.False(t, ok)
}
