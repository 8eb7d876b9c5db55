package repository

import (
	"context"
	"fmt"
	"sort"
	"time"

	"nflstats/analyzer/internal/models"

	"github.com/jackc/pgx/v5"
	"github.com/rs/zerolog/log"
)

// RankingRepository handles position ranking snapshot database operations.
// Each batch run stores the full ranking under one computed_at timestamp, so
// the history of rankings stays queryable.
type RankingRepository struct {
	db *Database
}

// SaveSnapshot stores one full ranking, in rank order, under a shared
// timestamp and returns that timestamp
func (r *RankingRepository) SaveSnapshot(ctx context.Context, entries []models.RankingEntry) (time.Time, error) {
	computedAt := time.Now().UTC().Truncate(time.Microsecond)

	query := `
		INSERT INTO position_rankings (
			computed_at, rank, position, player_count, per_stat_avg_diff, overall_avg_diff
		) VALUES ($1, $2, $3, $4, $5, $6)
	`

	tx, err := r.db.Pool.Begin(ctx)
	if err != nil {
		return time.Time{}, fmt.Errorf("failed to begin ranking snapshot: %w", err)
	}
	defer tx.Rollback(ctx)

	for i, entry := range entries {
		_, err := tx.Exec(
			ctx, query,
			computedAt, i+1, entry.Position, entry.PlayerCount,
			entry.PerStatAverageDifference, entry.OverallAverageDifference,
		)
		if err != nil {
			return time.Time{}, fmt.Errorf("failed to insert ranking row: %w", err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return time.Time{}, fmt.Errorf("failed to commit ranking snapshot: %w", err)
	}

	log.Info().
		Time("computed_at", computedAt).
		Int("positions", len(entries)).
		Msg("Ranking snapshot saved")

	return computedAt, nil
}

// LatestSnapshot retrieves the most recent ranking in rank order
func (r *RankingRepository) LatestSnapshot(ctx context.Context) ([]models.RankingEntry, error) {
	query := `
		SELECT rank, position, player_count, per_stat_avg_diff, overall_avg_diff
		FROM position_rankings
		WHERE computed_at = (SELECT MAX(computed_at) FROM position_rankings)
		ORDER BY rank
	`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get latest ranking: %w", err)
	}
	defer rows.Close()

	var entries []models.RankingEntry
	for rows.Next() {
		var (
			rank  int
			entry models.RankingEntry
		)
		err := rows.Scan(&rank, &entry.Position, &entry.PlayerCount,
			&entry.PerStatAverageDifference, &entry.OverallAverageDifference)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		for stat := range entry.PerStatAverageDifference {
			entry.Stats = append(entry.Stats, stat)
		}
		sort.Strings(entry.Stats)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ranking rows: %w", err)
	}

	return entries, nil
}

// SnapshotAt retrieves the ranking stored under an exact timestamp
func (r *RankingRepository) SnapshotAt(ctx context.Context, computedAt time.Time) ([]models.RankingEntry, error) {
	query := `
		SELECT rank, position, player_count, per_stat_avg_diff, overall_avg_diff
		FROM position_rankings
		WHERE computed_at = $1
		ORDER BY rank
	`

	rows, err := r.db.Pool.Query(ctx, query, computedAt)
	if err != nil {
		return nil, fmt.Errorf("failed to get ranking snapshot: %w", err)
	}
	defer rows.Close()

	var entries []models.RankingEntry
	for rows.Next() {
		var (
			rank  int
			entry models.RankingEntry
		)
		err := rows.Scan(&rank, &entry.Position, &entry.PlayerCount,
			&entry.PerStatAverageDifference, &entry.OverallAverageDifference)
		if err != nil {
			return nil, fmt.Errorf("failed to scan ranking row: %w", err)
		}
		for stat := range entry.PerStatAverageDifference {
			entry.Stats = append(entry.Stats, stat)
		}
		sort.Strings(entry.Stats)
		entries = append(entries, entry)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating ranking rows: %w", err)
	}

	if len(entries) == 0 {
		return nil, pgx.ErrNoRows
	}

	return entries, nil
}
