package main

import (
	"context"
	"fmt"
	"time"

	"nflstats/analyzer/internal/aggregate"
	"nflstats/analyzer/internal/cache"
	"nflstats/analyzer/internal/config"
	"nflstats/analyzer/internal/engine"
	"nflstats/analyzer/internal/export"
	"nflstats/analyzer/internal/ingest"
	"nflstats/analyzer/internal/metrics"
	"nflstats/analyzer/internal/models"
	"nflstats/analyzer/internal/repository"
	"nflstats/analyzer/internal/window"

	"github.com/rs/zerolog/log"
)

// runBatch performs one full analysis pass: scan the input directory, read
// every player workbook, run the pipeline, write the exports and persist the
// outcome. Per-player problems never fail the batch; they are collected and
// enumerated at the end of the run.
func runBatch(ctx context.Context, cfg *config.Config, resolver aggregate.DuplicateResolver,
	db *repository.Database, redisCache *cache.RedisCache) error {
	start := time.Now()
	log.Info().Str("input", cfg.InputDir).Msg("Starting batch run...")

	paths, err := ingest.ScanDir(cfg.InputDir)
	if err != nil {
		return fmt.Errorf("failed to scan input directory: %w", err)
	}
	metrics.FilesDiscovered.Set(float64(len(paths)))
	if len(paths) == 0 {
		log.Warn().Str("input", cfg.InputDir).Msg("No player workbooks found")
		return nil
	}
	log.Info().Int("count", len(paths)).Msg("Player workbooks found")

	var players []models.PlayerRecords
	var readFailures []*models.PlayerFailure
	for _, path := range paths {
		table, fail := ingest.ReadPlayerFile(path)
		if fail != nil {
			readFailures = append(readFailures, fail)
			continue
		}
		players = append(players, table)
	}

	store := aggregate.NewStore(resolver)
	policy := window.Policy{
		LateStart: cfg.LateWindowStart,
		MinGames:  cfg.MinGamesPlayed,
	}
	pipeline := engine.NewPipeline(policy, models.DiffMode(cfg.DiffMode), store, cfg.WorkerCount)

	summary := pipeline.Run(ctx, players)
	for _, fail := range readFailures {
		summary.Processed++
		summary.AddFailure(fail)
		metrics.RecordPlayerSkipped(string(fail.Reason))
	}

	// Write the per-position workbooks and per-player CSVs
	for _, pos := range store.Positions() {
		results := store.Repo(pos).Players()
		if len(results) == 0 {
			continue
		}

		if _, err := export.WriteAggregateWorkbook(cfg.OutputDir, pos, results); err != nil {
			log.Error().Err(err).Str("position", pos).Msg("Failed to write aggregate workbook")
		}
		for _, res := range results {
			if _, err := export.WritePlayerCSV(cfg.OutputDir, res); err != nil {
				log.Error().Err(err).Str("player", res.PlayerID).Msg("Failed to write player CSV")
			}
		}
	}

	// Rank positions and write the ranking file
	entries := aggregate.Rank(store)
	if len(entries) > 0 {
		metrics.RecordRanking(len(entries))
		path, err := export.WriteRankingCSV(cfg.OutputDir, entries)
		if err != nil {
			log.Error().Err(err).Msg("Failed to write ranking file")
		} else {
			log.Info().Str("file", path).Int("positions", len(entries)).Msg("Ranking written")
		}
	}

	// Persist to database
	if db != nil {
		persistResults(ctx, db, store)
		if len(entries) > 0 {
			if _, err := db.Rankings.SaveSnapshot(ctx, entries); err != nil {
				log.Error().Err(err).Msg("Failed to save ranking snapshot")
			}
		}
	}

	// Refresh the ranking cache
	if redisCache != nil && len(entries) > 0 {
		ttl := time.Duration(cfg.CacheTTLRanking) * time.Second
		if err := redisCache.SetRanking(ctx, entries, ttl); err != nil {
			log.Warn().Err(err).Msg("Failed to cache ranking")
		}
	}

	logSummary(summary, time.Since(start))
	return nil
}

// persistResults upserts every stored player result
func persistResults(ctx context.Context, db *repository.Database, store *aggregate.Store) {
	saved := 0
	for _, pos := range store.Positions() {
		for _, res := range store.Repo(pos).Players() {
			if err := db.Results.Upsert(ctx, res); err != nil {
				metrics.RecordResultPersisted("error")
				log.Error().Err(err).Str("player", res.PlayerID).Msg("Failed to persist player result")
				continue
			}
			metrics.RecordResultPersisted("success")
			saved++
		}
	}
	log.Info().Int("count", saved).Msg("Player results saved to database")
}

// logSummary enumerates every player left out of the run and closes with the
// batch totals, so a batch is auditable from its log alone
func logSummary(summary *models.BatchSummary, took time.Duration) {
	for _, f := range summary.Failures {
		log.Warn().
			Str("player", f.PlayerID).
			Str("reason", string(f.Reason)).
			Str("detail", f.Detail).
			Msg("Player not included in results")
	}

	log.Info().
		Int("processed", summary.Processed).
		Int("accepted", summary.Accepted).
		Int("duplicates_skipped", summary.DuplicatesSkipped).
		Int("failed", len(summary.Failures)).
		Dur("duration", took).
		Msg("Batch run complete")
}
