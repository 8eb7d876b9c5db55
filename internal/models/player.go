package models

// DiffMode selects how the between-window change is computed.
type DiffMode string

const (
	// DiffAbsolute reports late minus early.
	DiffAbsolute DiffMode = "absolute"
	// DiffPercentage reports (late - early) / early * 100.
	DiffPercentage DiffMode = "percentage"
)

// SeasonRecord is one raw row from a player's season table. Cell values are
// kept as text; numeric parsing happens at use so percent-valued stats are
// handled uniformly. Multiple records may share the same season.
type SeasonRecord struct {
	Season      int
	GamesPlayed float64
	RawPosition string
	Stats       map[string]string
}

// MergedRecord is one record per season after duplicate rows are combined.
// Numeric fields are the arithmetic mean across duplicates; the raw position
// is the first occurrence's value. A stat absent from the map is missing.
type MergedRecord struct {
	Season      int
	GamesPlayed float64
	RawPosition string
	Stats       map[string]float64
}

// PlayerRecords groups one player's season rows with the column names that
// were present in the source table, in table order.
type PlayerRecords struct {
	PlayerID string
	Columns  []string
	Records  []SeasonRecord
}

// HasColumn reports whether the source table carried the named column.
func (p *PlayerRecords) HasColumn(name string) bool {
	for _, c := range p.Columns {
		if c == name {
			return true
		}
	}
	return false
}

// PlayerResult is the three-row outcome for one player: early-window
// averages, late-window averages and the between-window difference, all keyed
// by stat name. Immutable after creation. A NaN difference marks an undefined
// percentage change (early average of zero).
type PlayerResult struct {
	PlayerID      string
	Position      string
	Stats         []string
	EarlyAverages map[string]float64
	LateAverages  map[string]float64
	Difference    map[string]float64
	DiffMode      DiffMode
	EarlyYears    [3]int
	LateYears     [3]int
}

// RankingEntry is the derived per-position summary used for cross-position
// ranking. It is recomputed on demand and never persisted on its own.
type RankingEntry struct {
	Position                 string             `json:"position"`
	PlayerCount              int                `json:"player_count"`
	Stats                    []string           `json:"stats"`
	PerStatAverageDifference map[string]float64 `json:"per_stat_average_difference"`
	OverallAverageDifference float64            `json:"overall_average_difference"`
}
