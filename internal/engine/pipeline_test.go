package engine

import (
	"context"
	"fmt"
	"testing"

	"nflstats/analyzer/internal/aggregate"
	"nflstats/analyzer/internal/models"
	"nflstats/analyzer/internal/window"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func playerTable(name, pos string, years []int, games float64) models.PlayerRecords {
	var recs []models.SeasonRecord
	for _, y := range years {
		recs = append(recs, models.SeasonRecord{
			Season:      y,
			GamesPlayed: games,
			RawPosition: pos,
			Stats:       map[string]string{"Comb": fmt.Sprintf("%d", 10+y-2019), "Solo": "5"},
		})
	}
	return models.PlayerRecords{
		PlayerID: name,
		Columns:  []string{"Season", "G", "Pos", "Comb", "Solo"},
		Records:  recs,
	}
}

func fullCareer() []int {
	return []int{2019, 2020, 2021, 2022, 2023, 2024}
}

func TestPipeline_Run(t *testing.T) {
	store := aggregate.NewStore(aggregate.AutoSkip())
	p := NewPipeline(window.DefaultPolicy(), models.DiffAbsolute, store, 4)

	players := []models.PlayerRecords{
		playerTable("Good Linebacker", "LB", fullCareer(), 12),
		playerTable("Short Career", "LB", []int{2022, 2023, 2024}, 12),
		playerTable("Benched Player", "LB", fullCareer(), 3),
		playerTable("Good Safety", "FS", fullCareer(), 12),
	}

	summary := p.Run(context.Background(), players)

	assert.Equal(t, 4, summary.Processed)
	assert.Equal(t, 2, summary.Accepted)
	assert.Equal(t, 0, summary.DuplicatesSkipped)
	require.Len(t, summary.Failures, 2)

	reasons := map[string]models.FailureReason{}
	for _, f := range summary.Failures {
		reasons[f.PlayerID] = f.Reason
	}
	assert.Equal(t, models.ReasonInsufficientEarlyWindowData, reasons["Short Career"])
	assert.Equal(t, models.ReasonInsufficientGamesPlayed, reasons["Benched Player"])

	assert.Equal(t, 1, store.Repo("LB").Len())
	assert.Equal(t, 1, store.Repo("S").Len())
}

func TestPipeline_FailuresDoNotAbortBatch(t *testing.T) {
	store := aggregate.NewStore(aggregate.AutoSkip())
	p := NewPipeline(window.DefaultPolicy(), models.DiffPercentage, store, 1)

	players := []models.PlayerRecords{
		{PlayerID: "Empty Table"},
		playerTable("Survivor", "CB", fullCareer(), 10),
	}

	summary := p.Run(context.Background(), players)
	assert.Equal(t, 1, summary.Accepted)
	require.Len(t, summary.Failures, 1)
	assert.Equal(t, "Empty Table", summary.Failures[0].PlayerID)
	assert.Equal(t, models.ReasonNoPositionData, summary.Failures[0].Reason)
}

func TestPipeline_DuplicateSkippedNotAFailure(t *testing.T) {
	store := aggregate.NewStore(aggregate.AutoSkip())
	p := NewPipeline(window.DefaultPolicy(), models.DiffAbsolute, store, 2)

	players := []models.PlayerRecords{
		playerTable("Twin Player", "LB", fullCareer(), 12),
		playerTable("Twin Player", "LB", fullCareer(), 12),
	}

	summary := p.Run(context.Background(), players)
	assert.Equal(t, 1, summary.Accepted)
	assert.Equal(t, 1, summary.DuplicatesSkipped)
	assert.Empty(t, summary.Failures, "duplicate skips are excluded from the failure summary")
	assert.Equal(t, 1, store.Repo("LB").Len())
}

func TestPipeline_ConcurrentPlayersSamePosition(t *testing.T) {
	store := aggregate.NewStore(aggregate.AutoSkip())
	p := NewPipeline(window.DefaultPolicy(), models.DiffAbsolute, store, 8)

	var players []models.PlayerRecords
	for i := 0; i < 50; i++ {
		players = append(players, playerTable(fmt.Sprintf("Player %02d", i), "LB", fullCareer(), 12))
	}

	summary := p.Run(context.Background(), players)
	assert.Equal(t, 50, summary.Accepted)
	assert.Equal(t, 50, store.Repo("LB").Len())
}

func TestPipeline_CancelledContext(t *testing.T) {
	store := aggregate.NewStore(aggregate.AutoSkip())
	p := NewPipeline(window.DefaultPolicy(), models.DiffAbsolute, store, 1)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	var players []models.PlayerRecords
	for i := 0; i < 10; i++ {
		players = append(players, playerTable(fmt.Sprintf("Player %02d", i), "LB", fullCareer(), 12))
	}

	summary := p.Run(ctx, players)
	assert.LessOrEqual(t, summary.Processed, len(players))
}
