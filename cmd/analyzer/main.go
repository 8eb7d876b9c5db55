package main

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"sync"
	"syscall"
	"time"

	"nflstats/analyzer/internal/aggregate"
	"nflstats/analyzer/internal/cache"
	"nflstats/analyzer/internal/config"
	"nflstats/analyzer/internal/metrics"
	"nflstats/analyzer/internal/models"
	"nflstats/analyzer/internal/repository"
	"nflstats/analyzer/internal/scheduler"

	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"
)

func main() {
	// Setup logger
	setupLogger()

	log.Info().Msg("Starting NFL Player Stat Analyzer")

	// Load configuration
	cfg := config.MustLoad()
	log.Info().
		Str("env", cfg.AppEnv).
		Str("log_level", cfg.LogLevel).
		Str("input", cfg.InputDir).
		Str("output", cfg.OutputDir).
		Str("diff_mode", cfg.DiffMode).
		Msg("Configuration loaded")

	// Create context that listens for cancellation
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// Setup graceful shutdown
	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	go func() {
		<-sigChan
		log.Info().Msg("Received shutdown signal, gracefully shutting down...")
		cancel()
	}()

	// Duplicate identities need a policy before the batch starts
	var resolver aggregate.DuplicateResolver
	if cfg.DuplicatePolicy == "prompt" {
		resolver = newPromptResolver(os.Stdin)
		log.Info().Msg("Duplicate policy: prompt on repeated player names")
	} else {
		resolver = aggregate.AutoSkip()
		log.Info().Msg("Duplicate policy: skip repeated player names")
	}

	// Initialize database connection (optional)
	var db *repository.Database
	if cfg.DatabaseEnabled {
		var err error
		db, err = repository.NewDatabase(ctx, repository.Config{
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
		log.Info().Msg("Database connection established")
	}

	// Initialize Redis client (optional)
	var redisCache *cache.RedisCache
	if cfg.RedisEnabled {
		rc, err := cache.NewRedisCache(cache.Config{
			Host:     cfg.RedisHost,
			Port:     strconv.Itoa(cfg.RedisPort),
			Password: cfg.RedisPassword,
			DB:       cfg.RedisDB,
		})
		if err != nil {
			log.Warn().Err(err).Msg("Failed to connect to Redis - continuing without cache")
		} else {
			redisCache = rc
			defer redisCache.Close()
			log.Info().Msg("Redis cache connected")
		}
	}

	// Start metrics HTTP server
	if cfg.EnableMetrics {
		go startMetricsServer(strconv.Itoa(cfg.MetricsPort))
	}

	// Update system uptime metric
	startTime := time.Now()
	go func() {
		ticker := time.NewTicker(10 * time.Second)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				metrics.SystemUptime.Set(time.Since(startTime).Seconds())
			case <-ctx.Done():
				return
			}
		}
	}()

	// Run the initial batch
	if err := runBatch(ctx, cfg, resolver, db, redisCache); err != nil {
		log.Error().Err(err).Msg("Batch run failed")
	}

	if !cfg.EnableScheduler {
		log.Info().Msg("Analyzer run complete")
		return
	}

	// Keep running and rescan the input directory on schedule
	sched := scheduler.NewScheduler(cfg, func(ctx context.Context) error {
		return runBatch(ctx, cfg, resolver, db, redisCache)
	})
	if err := sched.Start(ctx); err != nil {
		log.Fatal().Err(err).Msg("Failed to start scheduler")
	}

	<-ctx.Done()

	log.Info().Msg("Shutting down scheduler...")
	sched.Stop()

	log.Info().Msg("Analyzer shutdown complete")
}

// setupLogger configures the zerolog logger
func setupLogger() {
	// Pretty console logging in development
	if os.Getenv("APP_ENV") == "development" {
		log.Logger = log.Output(zerolog.ConsoleWriter{
			Out:        os.Stdout,
			TimeFormat: time.RFC3339,
		})
	}

	// Set log level
	level := zerolog.InfoLevel
	if lvl := os.Getenv("LOG_LEVEL"); lvl != "" {
		parsedLevel, err := zerolog.ParseLevel(lvl)
		if err == nil {
			level = parsedLevel
		}
	}
	zerolog.SetGlobalLevel(level)

	log.Info().
		Str("level", level.String()).
		Msg("Logger initialized")
}

// promptResolver asks on the terminal whether a repeated player name is the
// already stored player or a different individual sharing it. Prompts are
// serialized so concurrent workers never interleave on stdin.
type promptResolver struct {
	mu     sync.Mutex
	reader *bufio.Reader
}

func newPromptResolver(r io.Reader) *promptResolver {
	return &promptResolver{reader: bufio.NewReader(r)}
}

func (p *promptResolver) Resolve(playerID string, existing *models.PlayerResult) aggregate.Decision {
	p.mu.Lock()
	defer p.mu.Unlock()

	fmt.Printf("Player %q (%s) is already stored. Same player? [Y/n]: ", playerID, existing.Position)
	line, err := p.reader.ReadString('\n')
	if err != nil {
		// No answer available (EOF, piped input): treat as the same player.
		return aggregate.Same
	}

	switch strings.ToLower(strings.TrimSpace(line)) {
	case "n", "no":
		return aggregate.New
	default:
		return aggregate.Same
	}
}

// startMetricsServer starts the Prometheus metrics HTTP server
func startMetricsServer(port string) {
	http.Handle("/metrics", promhttp.Handler())

	// Health check endpoint
	http.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		w.Write([]byte(`{"status":"healthy"}`))
	})

	addr := fmt.Sprintf(":%s", port)
	log.Info().Str("port", port).Msg("Starting metrics server")

	if err := http.ListenAndServe(addr, nil); err != nil {
		log.Error().Err(err).Msg("Metrics server failed")
	}
}
