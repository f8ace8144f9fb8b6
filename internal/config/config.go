// Package config provides centralized configuration loaded from an optional
// YAML file and environment variables. Shared by both cmd/api and cmd/recap.
package config

import (
	"fmt"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"
)

// --------------------------------------------------------------------------
// Enumerations
// --------------------------------------------------------------------------

// Store drivers.
const (
	StoreCSV      = "csv"
	StoreSQLite   = "sqlite"
	StorePostgres = "postgres"
)

// Publishers.
const (
	PublisherLog      = "log"
	PublisherReddit   = "reddit"
	PublisherTelegram = "telegram"
)

// Delivery modes. AtLeastOnce only marks an event seen after a successful
// publish; AtMostOnce marks it seen even when the publish failed.
const (
	AtLeastOnce = "at-least-once"
	AtMostOnce  = "at-most-once"
)

// DefaultFooter is appended to every recap body.
const DefaultFooter = "*I'm a bot! Check me out on " +
	"[GitHub](https://github.com/bradysalz/DCI-Scores-Bot-v2)!" +
	" Please PM me with any additional feedback.*\n\n*Hope you enjoy!*"

// --------------------------------------------------------------------------
// Config struct: defaults, then YAML file, then environment variables
// --------------------------------------------------------------------------

type Config struct {
	// Recap target
	TargetParticipant string `koanf:"target_participant"`
	Year              int    `koanf:"year"`
	Footer            string `koanf:"footer"`

	// Upstream (competitionsuite)
	UpstreamBaseURL           string `koanf:"upstream_base_url"`
	UpstreamRequestsPerMinute int    `koanf:"upstream_requests_per_minute"`
	UserAgent                 string `koanf:"user_agent"`

	// Seen store
	StoreDriver    string        `koanf:"store_driver"`
	StorePath      string        `koanf:"store_path"`
	DatabaseURL    string        `koanf:"database_url"`
	DBPoolMinConns int           `koanf:"db_pool_min_conns"`
	DBPoolMaxConns int           `koanf:"db_pool_max_conns"`
	DBPoolMaxLife  time.Duration `koanf:"db_pool_max_life"`

	// Publishing
	PublishEnabled     bool   `koanf:"publish_enabled"`
	Publisher          string `koanf:"publisher"`
	DeliveryMode       string `koanf:"delivery_mode"`
	PublishEmptyRecaps bool   `koanf:"publish_empty_recaps"`

	Reddit   RedditConfig   `koanf:"reddit"`
	Telegram TelegramConfig `koanf:"telegram"`

	// Scheduling
	PollInterval time.Duration `koanf:"poll_interval"`

	// Admin API server
	APIHost     string `koanf:"api_host"`
	APIPort     int    `koanf:"api_port"`
	Environment string `koanf:"environment"` // development, staging, production

	CORSAllowOrigins []string `koanf:"cors_allow_origins"`

	RateLimitEnabled  bool          `koanf:"rate_limit_enabled"`
	RateLimitRequests int           `koanf:"rate_limit_requests"`
	RateLimitWindow   time.Duration `koanf:"rate_limit_window"`

	CacheEnabled bool `koanf:"cache_enabled"`

	LogLevel string `koanf:"log_level"`
}

// RedditConfig holds script-app credentials for the reddit publisher.
type RedditConfig struct {
	ClientID     string `koanf:"client_id"`
	ClientSecret string `koanf:"client_secret"`
	Username     string `koanf:"username"`
	Password     string `koanf:"password"`
	Subreddit    string `koanf:"subreddit"`
}

// TelegramConfig holds bot credentials for the telegram publisher.
type TelegramConfig struct {
	BotToken string `koanf:"bot_token"`
	ChatID   string `koanf:"chat_id"`
}

// Default returns the configuration used when nothing is overridden.
func Default() *Config {
	return &Config{
		TargetParticipant: "Bluecoats",
		Year:              time.Now().Year(),
		Footer:            DefaultFooter,

		UpstreamBaseURL:           "https://api.competitionsuite.com/2018-03",
		UpstreamRequestsPerMinute: 60,
		UserAgent:                 "go:dci-recap:2.0",

		StoreDriver:    StoreCSV,
		StorePath:      "shows.csv",
		DBPoolMinConns: 1,
		DBPoolMaxConns: 4,
		DBPoolMaxLife:  30 * time.Minute,

		PublishEnabled: true,
		Publisher:      PublisherLog,
		DeliveryMode:   AtLeastOnce,

		Reddit: RedditConfig{Subreddit: "drumcorps"},

		PollInterval: 15 * time.Minute,

		APIHost:     "0.0.0.0",
		APIPort:     8000,
		Environment: "development",

		CORSAllowOrigins: []string{"http://localhost:3000"},

		RateLimitEnabled:  true,
		RateLimitRequests: 60,
		RateLimitWindow:   60 * time.Second,

		CacheEnabled: true,

		LogLevel: "info",
	}
}

// Load reads configuration with sensible defaults. When RECAP_CONFIG names a
// YAML file it is layered over the defaults; environment variables win over
// both.
func Load() (*Config, error) {
	cfg := Default()

	if path := os.Getenv("RECAP_CONFIG"); path != "" {
		if err := loadFile(path, cfg); err != nil {
			return nil, err
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	c.TargetParticipant = envOr("TARGET_PARTICIPANT", c.TargetParticipant)
	c.Year = envInt("COMPETITION_YEAR", c.Year)
	c.Footer = envOr("FOOTER", c.Footer)

	c.UpstreamBaseURL = envOr("UPSTREAM_BASE_URL", c.UpstreamBaseURL)
	c.UpstreamRequestsPerMinute = envInt("UPSTREAM_REQUESTS_PER_MINUTE", c.UpstreamRequestsPerMinute)
	c.UserAgent = envOr("USER_AGENT", c.UserAgent)

	c.StoreDriver = strings.ToLower(envOr("STORE_DRIVER", c.StoreDriver))
	c.StorePath = envOr("STORE_PATH", c.StorePath)
	c.DatabaseURL = envOr("DATABASE_URL", c.DatabaseURL)
	c.DBPoolMinConns = envInt("DB_POOL_MIN_CONNS", c.DBPoolMinConns)
	c.DBPoolMaxConns = envInt("DB_POOL_MAX_CONNS", c.DBPoolMaxConns)
	c.DBPoolMaxLife = envDuration("DB_POOL_MAX_LIFE", c.DBPoolMaxLife)

	c.PublishEnabled = envBool("PUBLISH_ENABLED", c.PublishEnabled)
	c.Publisher = strings.ToLower(envOr("PUBLISHER", c.Publisher))
	c.DeliveryMode = strings.ToLower(envOr("DELIVERY_MODE", c.DeliveryMode))
	c.PublishEmptyRecaps = envBool("PUBLISH_EMPTY_RECAPS", c.PublishEmptyRecaps)

	c.Reddit.ClientID = envOr("REDDIT_CLIENT_ID", c.Reddit.ClientID)
	c.Reddit.ClientSecret = envOr("REDDIT_CLIENT_SECRET", c.Reddit.ClientSecret)
	c.Reddit.Username = envOr("REDDIT_USERNAME", c.Reddit.Username)
	c.Reddit.Password = envOr("REDDIT_PASSWORD", c.Reddit.Password)
	c.Reddit.Subreddit = envOr("REDDIT_SUBREDDIT", c.Reddit.Subreddit)

	c.Telegram.BotToken = envOr("TELEGRAM_BOT_TOKEN", c.Telegram.BotToken)
	c.Telegram.ChatID = envOr("TELEGRAM_CHAT_ID", c.Telegram.ChatID)

	c.PollInterval = envDuration("POLL_INTERVAL", c.PollInterval)

	c.APIHost = envOr("API_HOST", c.APIHost)
	c.APIPort = envInt("API_PORT", envInt("PORT", c.APIPort))
	c.Environment = envOr("ENVIRONMENT", c.Environment)

	c.CORSAllowOrigins = envList("CORS_ALLOW_ORIGINS", c.CORSAllowOrigins)

	c.RateLimitEnabled = envBool("RATE_LIMIT_ENABLED", c.RateLimitEnabled)
	c.RateLimitRequests = envInt("RATE_LIMIT_REQUESTS", c.RateLimitRequests)
	c.RateLimitWindow = envDuration("RATE_LIMIT_WINDOW", c.RateLimitWindow)

	c.CacheEnabled = envBool("CACHE_ENABLED", c.CacheEnabled)

	c.LogLevel = envOr("LOG_LEVEL", c.LogLevel)
}

// Validate checks enumerations and the credentials the selected backends need.
func (c *Config) Validate() error {
	if strings.TrimSpace(c.TargetParticipant) == "" {
		return invalid("TARGET_PARTICIPANT must not be empty")
	}
	if c.Year <= 0 {
		return invalid("COMPETITION_YEAR must be positive, got %d", c.Year)
	}
	if c.UpstreamBaseURL == "" {
		return invalid("UPSTREAM_BASE_URL must not be empty")
	}
	if c.UpstreamRequestsPerMinute <= 0 {
		return invalid("UPSTREAM_REQUESTS_PER_MINUTE must be positive")
	}

	switch c.StoreDriver {
	case StoreCSV, StoreSQLite:
		if c.StorePath == "" {
			return invalid("STORE_PATH is required for the %s store", c.StoreDriver)
		}
	case StorePostgres:
		if c.DatabaseURL == "" {
			return invalid("DATABASE_URL is required for the postgres store")
		}
	default:
		return invalid("unknown STORE_DRIVER %q", c.StoreDriver)
	}

	switch c.DeliveryMode {
	case AtLeastOnce, AtMostOnce:
	default:
		return invalid("unknown DELIVERY_MODE %q (want %s or %s)", c.DeliveryMode, AtLeastOnce, AtMostOnce)
	}

	switch c.Publisher {
	case PublisherLog:
	case PublisherReddit:
		r := c.Reddit
		if c.PublishEnabled && (r.ClientID == "" || r.ClientSecret == "" || r.Username == "" || r.Password == "" || r.Subreddit == "") {
			return invalid("REDDIT_CLIENT_ID, REDDIT_CLIENT_SECRET, REDDIT_USERNAME, REDDIT_PASSWORD and REDDIT_SUBREDDIT are required for the reddit publisher")
		}
	case PublisherTelegram:
		if c.PublishEnabled && (c.Telegram.BotToken == "" || c.Telegram.ChatID == "") {
			return invalid("TELEGRAM_BOT_TOKEN and TELEGRAM_CHAT_ID are required for the telegram publisher")
		}
	default:
		return invalid("unknown PUBLISHER %q", c.Publisher)
	}

	if c.PollInterval <= 0 {
		return invalid("POLL_INTERVAL must be positive")
	}
	if _, err := c.SlogLevel(); err != nil {
		return invalid("LOG_LEVEL: %v", err)
	}
	return nil
}

// SlogLevel parses LogLevel (debug, info, warn, error).
func (c *Config) SlogLevel() (slog.Level, error) {
	var lvl slog.Level
	err := lvl.UnmarshalText([]byte(c.LogLevel))
	return lvl, err
}

// IsProduction returns true if running in production environment.
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// --------------------------------------------------------------------------
// Env helpers
// --------------------------------------------------------------------------

func envOr(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envInt(key string, fallback int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return fallback
}

func envBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		b, err := strconv.ParseBool(v)
		if err == nil {
			return b
		}
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func envList(key string, fallback []string) []string {
	if v := os.Getenv(key); v != "" {
		parts := strings.Split(v, ",")
		result := make([]string, 0, len(parts))
		for _, p := range parts {
			if trimmed := strings.TrimSpace(p); trimmed != "" {
				result = append(result, trimmed)
			}
		}
		if len(result) > 0 {
			return result
		}
	}
	return fallback
}

func invalid(format string, args ...any) error {
	return fmt.Errorf("%w: %s", ErrInvalidConfig, fmt.Sprintf(format, args...))
}
