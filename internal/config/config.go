package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

var ErrMissingEnvironmentVariables = errors.New("missing required environment variables")

// Config holds application configuration loaded from files and environment variables.
type Config struct {
	Env              string   `mapstructure:"env"` // current application environment (local, dev, prod etc)
	TelegramAPIToken string   `mapstructure:"-"`   // Telegram API token loaded from environment
	DB               DB       `mapstructure:"database"`
	Progress         Progress `mapstructure:"progress"`
	Reminder         Reminder `mapstructure:"reminder"`
}

// DB contains database-related configuration parameters.
type DB struct {
	URL             string        `mapstructure:"-"`                 // connection string loaded from environment
	MaxConnections  int           `mapstructure:"max_connections"`   // maximum number of open connections in the pool
	MaxConnLifetime time.Duration `mapstructure:"max_conn_lifetime"` // maximum lifetime of a single connection
}

// Progress configures the scoring engine.
type Progress struct {
	// LearnedPolicy decides which statuses count as "learned" in the
	// user's lifetime total: "learned_and_mastered" or "learned_only".
	LearnedPolicy string `mapstructure:"learned_policy"`
}

// Reminder configures the daily streak-reminder job.
type Reminder struct {
	Enabled bool   `mapstructure:"enabled"`
	At      string `mapstructure:"at"` // "HH:MM", UTC
}

// Load reads configuration from config files and environment variables.
func Load() (*Config, error) {
	// Local development convenience; absence of .env is not an error.
	_ = godotenv.Load()

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath("./config")

	v.SetDefault("env", "local")
	v.SetDefault("database.max_connections", 20)
	v.SetDefault("database.max_conn_lifetime", "30s")
	v.SetDefault("progress.learned_policy", "learned_and_mastered")
	v.SetDefault("reminder.enabled", true)
	v.SetDefault("reminder.at", "18:00")

	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	_ = v.BindEnv("telegram_api_token", "TELEGRAM_API_TOKEN")
	_ = v.BindEnv("database_url", "DATABASE_URL")
	_ = v.BindEnv("env", "APP_ENV")

	if err := v.ReadInConfig(); err != nil {
		var fileLookupErr viper.ConfigFileNotFoundError
		if !errors.As(err, &fileLookupErr) {
			return nil, fmt.Errorf("error loading config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("error unmarshalling config: %w", err)
	}

	cfg.TelegramAPIToken = v.GetString("telegram_api_token")
	if cfg.TelegramAPIToken == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	cfg.DB.URL = v.GetString("database_url")
	if cfg.DB.URL == "" {
		return nil, ErrMissingEnvironmentVariables
	}

	return &cfg, nil
}
