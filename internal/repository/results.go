package repository

import (
	"context"
	"fmt"

	"nflstats/analyzer/internal/models"

	"github.com/rs/zerolog/log"
)

// ResultRepository handles player result database operations. A player result
// is stored as one row per stat; undefined values persist as NaN, which the
// double precision column carries natively.
type ResultRepository struct {
	db *Database
}

// Upsert inserts or updates one player's result rows
func (r *ResultRepository) Upsert(ctx context.Context, res *models.PlayerResult) error {
	query := `
		INSERT INTO player_results (
			player_id, position, stat,
			early_avg, late_avg, diff, diff_mode,
			early_years, late_years
		) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		ON CONFLICT (player_id, position, stat) DO UPDATE SET
			early_avg = EXCLUDED.early_avg,
			late_avg = EXCLUDED.late_avg,
			diff = EXCLUDED.diff,
			diff_mode = EXCLUDED.diff_mode,
			early_years = EXCLUDED.early_years,
			late_years = EXCLUDED.late_years,
			updated_at = NOW()
	`

	for _, stat := range res.Stats {
		_, err := r.db.Pool.Exec(
			ctx, query,
			res.PlayerID, res.Position, stat,
			res.EarlyAverages[stat], res.LateAverages[stat], res.Difference[stat],
			string(res.DiffMode),
			yearsToSlice(res.EarlyYears), yearsToSlice(res.LateYears),
		)
		if err != nil {
			return fmt.Errorf("failed to upsert player result: %w", err)
		}
	}

	log.Debug().
		Str("player", res.PlayerID).
		Str("position", res.Position).
		Int("stats", len(res.Stats)).
		Msg("Player result persisted")

	return nil
}

// GetByPosition retrieves all player results for a position, reassembled from
// their per-stat rows in first-insert order
func (r *ResultRepository) GetByPosition(ctx context.Context, position string) ([]*models.PlayerResult, error) {
	query := `
		SELECT player_id, stat, early_avg, late_avg, diff, diff_mode, early_years, late_years
		FROM player_results
		WHERE position = $1
		ORDER BY id
	`

	rows, err := r.db.Pool.Query(ctx, query, position)
	if err != nil {
		return nil, fmt.Errorf("failed to get results for position %s: %w", position, err)
	}
	defer rows.Close()

	var results []*models.PlayerResult
	byPlayer := make(map[string]*models.PlayerResult)
	for rows.Next() {
		var (
			playerID, stat, diffMode string
			earlyAvg, lateAvg, diff  float64
			earlyYears, lateYears    []int32
		)
		err := rows.Scan(&playerID, &stat, &earlyAvg, &lateAvg, &diff, &diffMode, &earlyYears, &lateYears)
		if err != nil {
			return nil, fmt.Errorf("failed to scan player result: %w", err)
		}

		res, ok := byPlayer[playerID]
		if !ok {
			res = &models.PlayerResult{
				PlayerID:      playerID,
				Position:      position,
				EarlyAverages: make(map[string]float64),
				LateAverages:  make(map[string]float64),
				Difference:    make(map[string]float64),
				DiffMode:      models.DiffMode(diffMode),
				EarlyYears:    yearsFromSlice(earlyYears),
				LateYears:     yearsFromSlice(lateYears),
			}
			byPlayer[playerID] = res
			results = append(results, res)
		}
		res.Stats = append(res.Stats, stat)
		res.EarlyAverages[stat] = earlyAvg
		res.LateAverages[stat] = lateAvg
		res.Difference[stat] = diff
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating player results: %w", err)
	}

	return results, nil
}

// Positions retrieves the distinct positions with stored results
func (r *ResultRepository) Positions(ctx context.Context) ([]string, error) {
	query := `SELECT DISTINCT position FROM player_results ORDER BY position`

	rows, err := r.db.Pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to get positions: %w", err)
	}
	defer rows.Close()

	var positions []string
	for rows.Next() {
		var pos string
		if err := rows.Scan(&pos); err != nil {
			return nil, fmt.Errorf("failed to scan position: %w", err)
		}
		positions = append(positions, pos)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating positions: %w", err)
	}

	return positions, nil
}

// Delete removes all rows of one player's result
func (r *ResultRepository) Delete(ctx context.Context, playerID, position string) error {
	query := `DELETE FROM player_results WHERE player_id = $1 AND position = $2`

	result, err := r.db.Pool.Exec(ctx, query, playerID, position)
	if err != nil {
		return fmt.Errorf("failed to delete player result: %w", err)
	}

	if result.RowsAffected() == 0 {
		return fmt.Errorf("result not found: player=%s, position=%s", playerID, position)
	}

	log.Debug().
		Str("player", playerID).
		Str("position", position).
		Msg("Player result deleted")

	return nil
}

func yearsToSlice(years [3]int) []int32 {
	return []int32{int32(years[0]), int32(years[1]), int32(years[2])}
}

func yearsFromSlice(years []int32) [3]int {
	var out [3]int
	for i := 0; i < len(years) && i < 3; i++ {
		out[i] = int(years[i])
	}
	return out
}
