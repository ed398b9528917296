package config

import (
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/caarlos0/env/v11"
	"github.com/joho/godotenv"
)

const (
	StorageDriverPostgres = "postgres"
	StorageDriverMemory   = "memory"
)

type Config struct {
	// Storage
	StorageDriver string        `env:"STORAGE_DRIVER" envDefault:"postgres"`
	DatabaseURL   string        `env:"DATABASE_URL"`
	StoreTimeout  time.Duration `env:"STORE_TIMEOUT" envDefault:"3s"`

	// Dialogue runtime
	RuntimeURL     string        `env:"RUNTIME_URL" envDefault:"http://localhost:5005"`
	RuntimeToken   string        `env:"RUNTIME_TOKEN"`
	RuntimeTimeout time.Duration `env:"RUNTIME_TIMEOUT" envDefault:"30s"`

	// Servers
	GatewayPort int `env:"GATEWAY_PORT" envDefault:"5000"`
	ActionsPort int `env:"ACTIONS_PORT" envDefault:"5055"`

	// Documents
	UploadDir      string `env:"UPLOAD_DIR" envDefault:"./data/documents"`
	MaxUploadBytes int64  `env:"MAX_UPLOAD_BYTES" envDefault:"16777216"`

	// Emotion lexicon matching: substring or token
	EmotionMatchMode string `env:"EMOTION_MATCH_MODE" envDefault:"substring"`

	LogLevel string `env:"LOG_LEVEL" envDefault:"info"`

	// Telegram channel
	BotToken          string `env:"BOT_TOKEN"`
	BotRateLimit      int    `env:"BOT_RATE_LIMIT" envDefault:"20"`
	LogTelegramChatID int64  `env:"LOG_TELEGRAM_CHAT_ID"`
	LogTopicError     int    `env:"LOG_TOPIC_ERROR"`
	LogTopicDocuments int    `env:"LOG_TOPIC_DOCUMENTS"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) Validate() error {
	c.StorageDriver = strings.ToLower(strings.TrimSpace(c.StorageDriver))
	switch c.StorageDriver {
	case StorageDriverPostgres, StorageDriverMemory:
	default:
		return fmt.Errorf("unsupported STORAGE_DRIVER %q", c.StorageDriver)
	}

	if c.StoreTimeout <= 0 {
		return fmt.Errorf("invalid STORE_TIMEOUT %s", c.StoreTimeout)
	}
	if c.MaxUploadBytes <= 0 {
		return fmt.Errorf("invalid MAX_UPLOAD_BYTES %d", c.MaxUploadBytes)
	}
	return nil
}

// RequireDatabase is checked by the processes that open storage. The bot relay
// never touches the database and does not call it.
func (c *Config) RequireDatabase() error {
	if c.StorageDriver == StorageDriverPostgres && c.DatabaseURL == "" {
		return errors.New("DATABASE_URL is required when STORAGE_DRIVER=postgres")
	}
	return nil
}

// SlogLevel maps LOG_LEVEL to a slog level, defaulting to info.
func (c *Config) SlogLevel() slog.Level {
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		return slog.LevelDebug
	case "warn", "warning":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func (c *Config) GatewayAddr() string {
	return fmt.Sprintf(":%d", c.GatewayPort)
}

func (c *Config) ActionsAddr() string {
	return fmt.Sprintf(":%d", c.ActionsPort)
}
