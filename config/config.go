package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration.
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	Chatbot    ChatbotConfig    `yaml:"chatbot"`
	Watcher    WatcherConfig    `yaml:"watcher"`
	Push       PushConfig       `yaml:"push"`
	WorkerPool WorkerPoolConfig `yaml:"worker_pool"`
	Telegram   TelegramConfig   `yaml:"telegram"`
	Log        LogConfig        `yaml:"log"`
}

// WorkerPoolConfig holds the configuration for the notification worker pool.
type WorkerPoolConfig struct {
	Size int `yaml:"size"`
}

// PushConfig holds the VAPID keys for web push notifications.
// Push delivery is disabled when either key is empty.
type PushConfig struct {
	PublicKey  string `yaml:"vapid_public_key"`
	PrivateKey string `yaml:"vapid_private_key"`
	Subject    string `yaml:"subject"`
	TTL        int    `yaml:"ttl"`
}

// Enabled reports whether both VAPID keys are configured.
func (p PushConfig) Enabled() bool {
	return p.PublicKey != "" && p.PrivateKey != ""
}

// ServerConfig holds the server-related configuration.
type ServerConfig struct {
	Port            int     `yaml:"port"`
	RequestIPHeader string  `yaml:"request_ip_header"`
	RateLimitPerSec float64 `yaml:"rate_limit_per_sec"`
	RateLimitBurst  int     `yaml:"rate_limit_burst"`
	CacheTTLSeconds int     `yaml:"cache_ttl_seconds"`
}

// DatabaseConfig holds the database connection configuration.
type DatabaseConfig struct {
	Driver                 string `yaml:"driver"` // "postgres" or "sqlite"
	DSN                    string `yaml:"dsn"`
	MaxOpenConns           int    `yaml:"max_open_conns"`
	MaxIdleConns           int    `yaml:"max_idle_conns"`
	ConnMaxLifetimeMinutes int    `yaml:"conn_max_lifetime_minutes"`
	ApplyConstraints       bool   `yaml:"apply_constraints"`
	SeedOnStart            bool   `yaml:"seed_on_start"`
}

// ChatbotConfig tunes the dispatcher, the alert scanner and the chart generator.
type ChatbotConfig struct {
	Timezone                string         `yaml:"timezone"`
	Location                *time.Location `yaml:"-"`
	AlertThresholdMinutes   int            `yaml:"alert_threshold_minutes"`
	ChartDays               int            `yaml:"chart_days"`
	ChartWidth              int            `yaml:"chart_width"`
	ChartHeight             int            `yaml:"chart_height"`
	ChartCacheTTLSeconds    int            `yaml:"chart_cache_ttl_seconds"`
	ChartCacheTTL           time.Duration  `yaml:"-"`
	RecentDowntimeRowsLimit int            `yaml:"recent_downtime_rows"`
}

// WatcherConfig controls the background alert watcher.
type WatcherConfig struct {
	Enabled  bool   `yaml:"enabled"`
	Schedule string `yaml:"schedule"` // cron spec, e.g. "@every 5m"
}

// TelegramConfig enables the Telegram front-end when a token is present.
type TelegramConfig struct {
	Token          string `yaml:"token"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LogConfig selects the zap preset and level.
type LogConfig struct {
	Level       string `yaml:"level"`
	Development bool   `yaml:"development"`
}

// Load reads the configuration from the given path.
func Load(path string) (*Config, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	var cfg Config
	decoder := yaml.NewDecoder(f)
	if err := decoder.Decode(&cfg); err != nil {
		return nil, err
	}

	if err := cfg.applyDefaults(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Default returns a configuration suitable for local runs against SQLite.
func Default() *Config {
	cfg := &Config{
		Database: DatabaseConfig{
			Driver: "sqlite",
			DSN:    "file:factory.db?cache=shared",
		},
	}
	// Defaults cannot fail with an empty timezone.
	_ = cfg.applyDefaults()
	return cfg
}

func (cfg *Config) applyDefaults() error {
	if cfg.Server.Port <= 0 {
		cfg.Server.Port = 5000
	}
	if cfg.Server.RateLimitPerSec <= 0 {
		cfg.Server.RateLimitPerSec = 10
	}
	if cfg.Server.RateLimitBurst <= 0 {
		cfg.Server.RateLimitBurst = 5
	}
	if cfg.Server.CacheTTLSeconds <= 0 {
		cfg.Server.CacheTTLSeconds = 30
	}

	if cfg.Database.Driver == "" {
		cfg.Database.Driver = "postgres"
	}
	if cfg.Database.Driver != "postgres" && cfg.Database.Driver != "sqlite" {
		return fmt.Errorf("unsupported database driver %q", cfg.Database.Driver)
	}

	if cfg.Chatbot.Timezone == "" {
		cfg.Chatbot.Timezone = "Local"
	}
	loc, err := time.LoadLocation(cfg.Chatbot.Timezone)
	if err != nil {
		return fmt.Errorf("failed to load timezone %q: %w", cfg.Chatbot.Timezone, err)
	}
	cfg.Chatbot.Location = loc

	if cfg.Chatbot.AlertThresholdMinutes <= 0 {
		cfg.Chatbot.AlertThresholdMinutes = 30
	}
	if cfg.Chatbot.ChartDays <= 0 {
		cfg.Chatbot.ChartDays = 7
	}
	if cfg.Chatbot.ChartWidth <= 0 {
		cfg.Chatbot.ChartWidth = 1000
	}
	if cfg.Chatbot.ChartHeight <= 0 {
		cfg.Chatbot.ChartHeight = 600
	}
	if cfg.Chatbot.ChartCacheTTLSeconds <= 0 {
		cfg.Chatbot.ChartCacheTTLSeconds = 300
	}
	cfg.Chatbot.ChartCacheTTL = time.Duration(cfg.Chatbot.ChartCacheTTLSeconds) * time.Second
	if cfg.Chatbot.RecentDowntimeRowsLimit <= 0 {
		cfg.Chatbot.RecentDowntimeRowsLimit = 5
	}

	if cfg.Watcher.Schedule == "" {
		cfg.Watcher.Schedule = "@every 5m"
	}

	if cfg.Push.TTL <= 0 {
		cfg.Push.TTL = 3600
	}

	if cfg.WorkerPool.Size <= 0 {
		cfg.WorkerPool.Size = 1
	}

	if cfg.Telegram.TimeoutSeconds <= 0 {
		cfg.Telegram.TimeoutSeconds = 60
	}

	if cfg.Log.Level == "" {
		cfg.Log.Level = "info"
	}
	return nil
}
