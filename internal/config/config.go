package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/spf13/viper"
)

// Config is read by viper from the environment, after an optional .env
// file has been loaded into it.
type Config struct {
	Environment string `mapstructure:"ENVIRONMENT"`
	LogLevel    string `mapstructure:"LOG_LEVEL"`
	HTTPAddr    string `mapstructure:"HTTP_ADDR"`

	DBDriver     string `mapstructure:"DB_DRIVER"`
	DBPath       string `mapstructure:"DB_PATH"`
	DatabaseURL  string `mapstructure:"DATABASE_URL"`
	MigrationURL string `mapstructure:"MIGRATION_URL"`
	SeedPath     string `mapstructure:"SEED_PATH"`

	RedisAddress  string        `mapstructure:"REDIS_ADDRESS"`
	RedisPassword string        `mapstructure:"REDIS_PASSWORD"`
	SweepCacheTTL time.Duration `mapstructure:"SWEEP_CACHE_TTL"`

	TickInterval  time.Duration `mapstructure:"TICK_INTERVAL"`
	StepMinutes   float64       `mapstructure:"STEP_MINUTES"`
	AgentCount    int           `mapstructure:"AGENT_COUNT"`
	AgentSpeedKmh float64       `mapstructure:"AGENT_SPEED_KMH"`
	StartHour     int           `mapstructure:"START_HOUR"`
	Seed          int64         `mapstructure:"SEED"`

	AdvisoryURL      string        `mapstructure:"ADVISORY_URL"`
	AdvisoryAPIKey   string        `mapstructure:"ADVISORY_API_KEY"`
	AdvisoryModel    string        `mapstructure:"ADVISORY_MODEL"`
	AdvisoryCooldown time.Duration `mapstructure:"ADVISORY_COOLDOWN"`
	AdvisoryTimeout  time.Duration `mapstructure:"ADVISORY_TIMEOUT"`

	AutosaveSchedule string `mapstructure:"AUTOSAVE_SCHEDULE"`
}

var defaults = map[string]any{
	"ENVIRONMENT":       "development",
	"LOG_LEVEL":         "info",
	"HTTP_ADDR":         ":8080",
	"DB_DRIVER":         "sqlite",
	"DB_PATH":           "data/app.db",
	"DATABASE_URL":      "",
	"MIGRATION_URL":     "file://db/migration",
	"SEED_PATH":         "data/seeds/profiles.json",
	"REDIS_ADDRESS":     "",
	"REDIS_PASSWORD":    "",
	"SWEEP_CACHE_TTL":   24 * time.Hour,
	"TICK_INTERVAL":     time.Second,
	"STEP_MINUTES":      5.0,
	"AGENT_COUNT":       10,
	"AGENT_SPEED_KMH":   25.0,
	"START_HOUR":        9,
	"SEED":              1,
	"ADVISORY_URL":      "",
	"ADVISORY_API_KEY":  "",
	"ADVISORY_MODEL":    "",
	"ADVISORY_COOLDOWN": time.Minute,
	"ADVISORY_TIMEOUT":  60 * time.Second,
	"AUTOSAVE_SCHEDULE": "",
}

// Load reads envFile if it exists and then the process environment.
func Load(envFile string) (Config, error) {
	if envFile != "" {
		if err := godotenv.Load(envFile); err != nil {
			if !errors.Is(err, fs.ErrNotExist) {
				return Config{}, fmt.Errorf("load config: read %s: %w", envFile, err)
			}
			log.Info().Str("file", envFile).Msg("no .env file found (using environment variables)")
		}
	}

	v := viper.New()
	for key, value := range defaults {
		v.SetDefault(key, value)
	}
	v.AutomaticEnv()

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}

	cfg.RedisPassword = trimOptionalQuotes(cfg.RedisPassword)
	cfg.AdvisoryAPIKey = trimOptionalQuotes(cfg.AdvisoryAPIKey)
	cfg.DBDriver = strings.ToLower(strings.TrimSpace(cfg.DBDriver))

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("load config: %w", err)
	}
	return cfg, nil
}

func (c Config) Validate() error {
	switch c.DBDriver {
	case "sqlite":
		if c.DBPath == "" {
			return errors.New("DB_PATH is required for sqlite")
		}
	case "postgres":
		if c.DatabaseURL == "" {
			return errors.New("DATABASE_URL is required for postgres")
		}
	default:
		return fmt.Errorf("DB_DRIVER must be sqlite or postgres, got %q", c.DBDriver)
	}
	if c.TickInterval <= 0 {
		return fmt.Errorf("TICK_INTERVAL must be positive, got %s", c.TickInterval)
	}
	return nil
}

// Get returns the environment value of key, or fallback when unset.
func Get(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func trimOptionalQuotes(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "\"")
	s = strings.TrimSuffix(s, "\"")
	s = strings.TrimPrefix(s, "'")
	s = strings.TrimSuffix(s, "'")
	return s
}
