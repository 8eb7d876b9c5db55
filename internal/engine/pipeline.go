package engine

import (
	"context"
	"sync"
	"time"

	"nflstats/analyzer/internal/aggregate"
	"nflstats/analyzer/internal/metrics"
	"nflstats/analyzer/internal/models"
	"nflstats/analyzer/internal/window"

	"github.com/rs/zerolog/log"
)

// Pipeline runs the per-player stat transformation over a batch and appends
// the survivors to the per-position repositories. The per-player stages are
// pure, so players fan out across workers; only the repository appends are
// serialized (per position, inside the repository).
type Pipeline struct {
	policy  window.Policy
	mode    models.DiffMode
	store   *aggregate.Store
	workers int
}

// NewPipeline creates a pipeline writing into the given store.
func NewPipeline(policy window.Policy, mode models.DiffMode, store *aggregate.Store, workers int) *Pipeline {
	if workers < 1 {
		workers = 1
	}
	return &Pipeline{policy: policy, mode: mode, store: store, workers: workers}
}

// Run processes every player and returns the batch summary. A failure is
// always local to one player: it is recorded with identity and reason and the
// batch continues. Cancelling the context stops scheduling new players;
// in-flight players finish (they are side-effect-free until the final append).
func (p *Pipeline) Run(ctx context.Context, players []models.PlayerRecords) *models.BatchSummary {
	start := time.Now()
	summary := &models.BatchSummary{}

	var mu sync.Mutex
	var wg sync.WaitGroup
	sem := make(chan struct{}, p.workers)

	for i := range players {
		select {
		case <-ctx.Done():
			log.Warn().Msg("Batch cancelled, skipping remaining players")
			wg.Wait()
			return summary
		case sem <- struct{}{}:
		}

		wg.Add(1)
		go func(pr *models.PlayerRecords) {
			defer wg.Done()
			defer func() { <-sem }()

			result, fail := p.processPlayer(pr)

			mu.Lock()
			defer mu.Unlock()
			summary.Processed++
			if fail != nil {
				summary.AddFailure(fail)
				metrics.RecordPlayerSkipped(string(fail.Reason))
				log.Warn().
					Str("player", fail.PlayerID).
					Str("reason", string(fail.Reason)).
					Str("detail", fail.Detail).
					Msg("Player skipped")
				return
			}

			switch p.store.Repo(result.Position).Append(result) {
			case aggregate.Accepted:
				summary.Accepted++
				metrics.RecordResultAppended(result.Position)
				log.Info().
					Str("player", result.PlayerID).
					Str("position", result.Position).
					Strs("stats", result.Stats).
					Msg("Player result stored")
			case aggregate.DuplicateSkipped:
				// Normal outcome, excluded from the failure summary.
				summary.DuplicatesSkipped++
				metrics.RecordDuplicateSkipped()
			case aggregate.Rejected:
				summary.AddFailure(models.NewFailuref(result.PlayerID,
					models.ReasonNoPositionData, "repository rejected position %s", result.Position))
			}
		}(&players[i])
	}

	wg.Wait()

	metrics.RecordBatch(summary.Accepted, len(summary.Failures), time.Since(start).Seconds())
	log.Info().
		Int("processed", summary.Processed).
		Int("accepted", summary.Accepted).
		Int("duplicates_skipped", summary.DuplicatesSkipped).
		Int("failed", len(summary.Failures)).
		Dur("duration", time.Since(start)).
		Msg("Batch complete")

	return summary
}

// processPlayer runs the pure per-player stages: merge, window selection,
// position resolution, aggregation.
func (p *Pipeline) processPlayer(pr *models.PlayerRecords) (*models.PlayerResult, *models.PlayerFailure) {
	merged := window.Merge(pr.Records)
	if len(merged) == 0 {
		return nil, models.NewFailure(pr.PlayerID, models.ReasonNoPositionData)
	}

	win, fail := p.policy.Select(pr.PlayerID, merged)
	if fail != nil {
		return nil, fail
	}

	pos, fail := ResolvePosition(pr.PlayerID, merged, pr.Columns)
	if fail != nil {
		return nil, fail
	}

	return Aggregate(pr.PlayerID, pos, merged, pr.Columns, win, p.mode)
}
