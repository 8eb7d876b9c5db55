package config

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/kelseyhightower/envconfig"
)

// Config holds all application configuration
type Config struct {
	// Input / output
	InputDir  string `envconfig:"INPUT_DIR" default:"./data"`
	OutputDir string `envconfig:"OUTPUT_DIR" default:"./out"`

	// Analysis
	LateWindowStart int     `envconfig:"LATE_WINDOW_START" default:"2022"`
	MinGamesPlayed  float64 `envconfig:"MIN_GAMES_PLAYED" default:"6"`
	DiffMode        string  `envconfig:"DIFF_MODE" default:"percentage"`
	DuplicatePolicy string  `envconfig:"DUPLICATE_POLICY" default:"autoskip"`
	WorkerCount     int     `envconfig:"WORKER_COUNT" default:"8"`

	// Database
	DatabaseEnabled  bool   `envconfig:"DATABASE_ENABLED" default:"false"`
	DatabaseHost     string `envconfig:"DATABASE_HOST" default:"localhost"`
	DatabasePort     int    `envconfig:"DATABASE_PORT" default:"5432"`
	DatabaseName     string `envconfig:"DATABASE_NAME" default:"nflstats"`
	DatabaseUser     string `envconfig:"DATABASE_USER" default:"nflstats_user"`
	DatabasePassword string `envconfig:"DATABASE_PASSWORD" default:""`
	DatabaseSSLMode  string `envconfig:"DATABASE_SSL_MODE" default:"disable"`

	// Redis
	RedisEnabled  bool   `envconfig:"REDIS_ENABLED" default:"false"`
	RedisHost     string `envconfig:"REDIS_HOST" default:"localhost"`
	RedisPort     int    `envconfig:"REDIS_PORT" default:"6379"`
	RedisPassword string `envconfig:"REDIS_PASSWORD" default:""`
	RedisDB       int    `envconfig:"REDIS_DB" default:"0"`

	// Caching TTL (in seconds)
	CacheTTLRanking int `envconfig:"CACHE_TTL_RANKING" default:"600"` // 10 minutes

	// Application
	AppEnv   string `envconfig:"APP_ENV" default:"development"`
	LogLevel string `envconfig:"LOG_LEVEL" default:"info"`

	// Scheduler
	EnableScheduler bool   `envconfig:"ENABLE_SCHEDULER" default:"false"`
	RescanCron      string `envconfig:"RESCAN_CRON" default:"0 2 * * *"`
	RescanInterval  int    `envconfig:"RESCAN_INTERVAL" default:"0"` // seconds, 0 disables

	// Monitoring
	EnableMetrics bool `envconfig:"ENABLE_METRICS" default:"true"`
	MetricsPort   int  `envconfig:"METRICS_PORT" default:"9090"`
}

// Load loads configuration from environment variables
// It first attempts to load from .env file if in development mode
func Load() (*Config, error) {
	// Try to load .env file (ignore error if doesn't exist)
	_ = godotenv.Load()

	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to process environment config: %w", err)
	}

	// Validate
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// Validate validates the configuration
func (c *Config) Validate() error {
	if c.InputDir == "" {
		return fmt.Errorf("INPUT_DIR is required")
	}

	if c.DiffMode != "absolute" && c.DiffMode != "percentage" {
		return fmt.Errorf("DIFF_MODE must be 'absolute' or 'percentage', got %q", c.DiffMode)
	}

	if c.DuplicatePolicy != "autoskip" && c.DuplicatePolicy != "prompt" {
		return fmt.Errorf("DUPLICATE_POLICY must be 'autoskip' or 'prompt', got %q", c.DuplicatePolicy)
	}

	if c.LateWindowStart < 1990 {
		return fmt.Errorf("LATE_WINDOW_START %d is not a plausible season", c.LateWindowStart)
	}

	if c.DatabaseEnabled && c.DatabasePassword == "" {
		return fmt.Errorf("DATABASE_PASSWORD is required when DATABASE_ENABLED is set")
	}

	return nil
}

// DatabaseDSN returns the PostgreSQL connection string
func (c *Config) DatabaseDSN() string {
	return fmt.Sprintf(
		"host=%s port=%d user=%s password=%s dbname=%s sslmode=%s",
		c.DatabaseHost,
		c.DatabasePort,
		c.DatabaseUser,
		c.DatabasePassword,
		c.DatabaseName,
		c.DatabaseSSLMode,
	)
}

// RedisAddr returns the Redis address
func (c *Config) RedisAddr() string {
	return fmt.Sprintf("%s:%d", c.RedisHost, c.RedisPort)
}

// IsDevelopment returns true if running in development mode
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// IsProduction returns true if running in production mode
func (c *Config) IsProduction() bool {
	return c.AppEnv == "production"
}

// MustLoad loads configuration or panics on error
// Use this in main() where we want to fail fast
func MustLoad() *Config {
	cfg, err := Load()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Failed to load configuration: %v\n", err)
		os.Exit(1)
	}
	return cfg
}
