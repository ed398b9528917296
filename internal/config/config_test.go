package config

import (
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaultsWithMemoryDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "memory")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
	assert.Equal(t, 3*time.Second, cfg.StoreTimeout)
	assert.Equal(t, "http://localhost:5005", cfg.RuntimeURL)
	assert.Equal(t, int64(16*1024*1024), cfg.MaxUploadBytes)
	assert.Equal(t, ":5000", cfg.GatewayAddr())
	assert.Equal(t, ":5055", cfg.ActionsAddr())
}

func TestRequireDatabase(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "postgres")
	t.Setenv("DATABASE_URL", "")

	// The bot relay loads the same config without a database.
	cfg, err := Load()
	require.NoError(t, err)
	assert.Error(t, cfg.RequireDatabase())

	cfg.DatabaseURL = "postgres://localhost:5432/eduassist"
	assert.NoError(t, cfg.RequireDatabase())

	cfg.DatabaseURL = ""
	cfg.StorageDriver = StorageDriverMemory
	assert.NoError(t, cfg.RequireDatabase())
}

func TestLoadRejectsUnknownDriver(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "mysql")

	_, err := Load()
	assert.Error(t, err)
}

func TestLoadParsesDurations(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", "Memory")
	t.Setenv("STORE_TIMEOUT", "1500ms")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 1500*time.Millisecond, cfg.StoreTimeout)
	assert.Equal(t, StorageDriverMemory, cfg.StorageDriver)
}

func TestSlogLevel(t *testing.T) {
	cases := map[string]slog.Level{
		"debug":   slog.LevelDebug,
		"WARN":    slog.LevelWarn,
		"error":   slog.LevelError,
		"":        slog.LevelInfo,
		"verbose": slog.LevelInfo,
	}
	for raw, want := range cases {
		cfg := &Config{LogLevel: raw}
		assert.Equal(t, want, cfg.SlogLevel(), raw)
	}
}
