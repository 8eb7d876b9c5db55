// Command rankreport rebuilds the cross-position ranking from aggregate
// workbooks written by an earlier analyzer run, without re-reading the raw
// player files. Useful after hand-inspecting or pruning the aggregates.
package main

import (
	"context"
	"fmt"
	"math"
	"path/filepath"
	"sort"
	"strconv"

	"nflstats/analyzer/internal/aggregate"
	"nflstats/analyzer/internal/config"
	"nflstats/analyzer/internal/export"
	"nflstats/analyzer/internal/repository"

	"github.com/rs/zerolog/log"
)

func main() {
	ctx := context.Background()
	cfg := config.MustLoad()

	// 1. Find the aggregate workbooks from the last run
	paths, err := filepath.Glob(filepath.Join(cfg.OutputDir, "*_aggregate.xlsx"))
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to scan output directory")
	}
	sort.Strings(paths)
	if len(paths) == 0 {
		log.Info().Str("output", cfg.OutputDir).Msg("No aggregate workbooks found. Exiting.")
		return
	}
	log.Info().Int("count", len(paths)).Msg("Aggregate workbooks found")

	// 2. Load every workbook back into a store
	store := aggregate.NewStore(aggregate.AutoSkip())
	loaded := 0
	for _, path := range paths {
		players, err := export.ReadAggregateWorkbook(path)
		if err != nil {
			log.Error().Err(err).Str("file", path).Msg("Failed to read aggregate workbook. Skipping.")
			continue
		}
		for _, res := range players {
			if store.Repo(res.Position).Append(res) == aggregate.Accepted {
				loaded++
			}
		}
	}
	if loaded == 0 {
		log.Info().Msg("No player results loaded. Exiting.")
		return
	}
	log.Info().Int("count", loaded).Msg("Player results loaded")

	// 3. Recompute and print the ranking
	entries := aggregate.Rank(store)

	fmt.Printf("%-4s %-10s %-8s %s\n", "Rank", "Position", "Players", "Overall Avg Diff")
	for i, e := range entries {
		overall := "undefined"
		if !math.IsNaN(e.OverallAverageDifference) {
			overall = strconv.FormatFloat(e.OverallAverageDifference, 'f', 2, 64)
		}
		fmt.Printf("%-4d %-10s %-8d %s\n", i+1, e.Position, e.PlayerCount, overall)
	}

	// 4. Rewrite the ranking file
	path, err := export.WriteRankingCSV(cfg.OutputDir, entries)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to write ranking file")
	}
	log.Info().Str("file", path).Msg("Ranking written")

	// 5. Store a snapshot when a database is configured
	if !cfg.DatabaseEnabled {
		return
	}

	db, err := repository.NewDatabase(ctx, repository.Config{
		Host:     cfg.DatabaseHost,
		Port:     strconv.Itoa(cfg.DatabasePort),
		User:     cfg.DatabaseUser,
		Password: cfg.DatabasePassword,
		Database: cfg.DatabaseName,
		SSLMode:  cfg.DatabaseSSLMode,
	})
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to connect to database")
	}
	defer db.Close()

	if err := db.EnsureSchema(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to ensure database schema")
	}

	computedAt, err := db.Rankings.SaveSnapshot(ctx, entries)
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to save ranking snapshot")
	}
	log.Info().Time("computed_at", computedAt).Msg("Ranking snapshot saved to database")
}
