package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/visits")
	t.Setenv("HTTP_ADDR", "")
	t.Setenv("ENV", "")
	t.Setenv("MIGRATIONS_PATH", "")
	t.Setenv("GENERATION_HORIZON_DAYS", "")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.HTTPAddr)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "migrations", cfg.MigrationsPath)
	assert.Equal(t, 30, cfg.HorizonDays)
}

func TestLoadRequiresDSN(t *testing.T) {
	t.Setenv("DB_DSN", "")

	_, err := Load()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "DB_DSN")
}

func TestLoadHorizonDays(t *testing.T) {
	t.Setenv("DB_DSN", "postgres://localhost:5432/visits")

	t.Setenv("GENERATION_HORIZON_DAYS", "60")
	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 60, cfg.HorizonDays)

	t.Setenv("GENERATION_HORIZON_DAYS", "-5")
	_, err = Load()
	assert.Error(t, err)

	t.Setenv("GENERATION_HORIZON_DAYS", "soon")
	_, err = Load()
	assert.Error(t, err)
}
