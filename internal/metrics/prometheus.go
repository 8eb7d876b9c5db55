package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Prometheus metrics for the stat analysis pipeline

var (
	// Ingestion metrics
	FilesDiscovered = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nflstats_files_discovered",
			Help: "Number of season-table files found in the last scan",
		},
	)

	FilesReadTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nflstats_files_read_total",
			Help: "Total number of season-table files read",
		},
		[]string{"status"},
	)

	// Pipeline metrics
	PlayersProcessedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nflstats_players_processed_total",
			Help: "Total number of players run through the pipeline",
		},
	)

	PlayersSkippedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nflstats_players_skipped_total",
			Help: "Total number of players skipped, by reason",
		},
		[]string{"reason"},
	)

	DuplicatesSkippedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nflstats_duplicates_skipped_total",
			Help: "Total number of duplicate player identities skipped",
		},
	)

	ResultsAppendedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nflstats_results_appended_total",
			Help: "Total number of player results appended, by position",
		},
		[]string{"position"},
	)

	BatchDuration = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "nflstats_batch_duration_seconds",
			Help:    "Duration of batch runs in seconds",
			Buckets: []float64{.1, .5, 1, 5, 10, 30, 60, 120, 300},
		},
	)

	BatchRunsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nflstats_batch_runs_total",
			Help: "Total number of batch runs",
		},
		[]string{"status"},
	)

	// Ranking metrics
	RankingsComputedTotal = promauto.NewCounter(
		prometheus.CounterOpts{
			Name: "nflstats_rankings_computed_total",
			Help: "Total number of cross-position rankings computed",
		},
	)

	PositionsRanked = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nflstats_positions_ranked",
			Help: "Number of positions in the latest ranking",
		},
	)

	// Persistence metrics
	ResultsPersistedTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "nflstats_results_persisted_total",
			Help: "Total number of player results written to the database",
		},
		[]string{"status"},
	)

	// System metrics
	SystemUptime = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nflstats_system_uptime_seconds",
			Help: "System uptime in seconds",
		},
	)

	LastSuccessfulBatch = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "nflstats_last_successful_batch_timestamp",
			Help: "Timestamp of the last successful batch run",
		},
	)
)

// RecordFileRead records a season-table file read attempt.
func RecordFileRead(status string) {
	FilesReadTotal.WithLabelValues(status).Inc()
}

// RecordPlayerSkipped records a skipped player by reason.
func RecordPlayerSkipped(reason string) {
	PlayersProcessedTotal.Inc()
	PlayersSkippedTotal.WithLabelValues(reason).Inc()
}

// RecordResultAppended records an accepted player result.
func RecordResultAppended(position string) {
	PlayersProcessedTotal.Inc()
	ResultsAppendedTotal.WithLabelValues(position).Inc()
}

// RecordDuplicateSkipped records a duplicate identity skip.
func RecordDuplicateSkipped() {
	PlayersProcessedTotal.Inc()
	DuplicatesSkippedTotal.Inc()
}

// RecordBatch records a completed batch run.
func RecordBatch(accepted, failed int, duration float64) {
	BatchDuration.Observe(duration)
	status := "success"
	if accepted == 0 && failed > 0 {
		status = "empty"
	}
	BatchRunsTotal.WithLabelValues(status).Inc()
	LastSuccessfulBatch.SetToCurrentTime()
}

// RecordRanking records a computed ranking.
func RecordRanking(positions int) {
	RankingsComputedTotal.Inc()
	PositionsRanked.Set(float64(positions))
}

// RecordResultPersisted records a database write attempt for a result.
func RecordResultPersisted(status string) {
	ResultsPersistedTotal.WithLabelValues(status).Inc()
}
