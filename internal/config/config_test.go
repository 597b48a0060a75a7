package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "edulingo-backend", cfg.AppName)
	assert.Equal(t, "0.0.0.0:8080", cfg.Address())
	assert.Equal(t, "./data/factlog.db", cfg.FactLog.Path)
	assert.Equal(t, "discovery", cfg.Projector.Consumer)
	assert.Equal(t, 5*time.Second, cfg.Projector.Interval)
	assert.False(t, cfg.Bootstrap.MintEnabled)
	assert.NotEmpty(t, cfg.Registry.Collector)
	assert.NotEmpty(t, cfg.Database.URL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("SERVER_PORT", "9090")
	t.Setenv("FACTLOG_PATH", "/var/lib/edulingo/facts.db")
	t.Setenv("PROJECTOR_INTERVAL_SECONDS", "30")
	t.Setenv("BOOTSTRAP_MINT_ENABLED", "true")
	t.Setenv("DATABASE_URL", "postgres://user:pass@db:5432/edulingo?sslmode=require")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.HTTP.Port)
	assert.Equal(t, "/var/lib/edulingo/facts.db", cfg.FactLog.Path)
	assert.Equal(t, 30*time.Second, cfg.Projector.Interval)
	assert.True(t, cfg.Bootstrap.MintEnabled)
	assert.Equal(t, "postgres://user:pass@db:5432/edulingo?sslmode=require", cfg.Database.URL)
}

func TestDurationAcceptsGoSyntax(t *testing.T) {
	t.Setenv("PROJECTOR_INTERVAL_SECONDS", "1m30s")

	cfg, err := Load()
	require.NoError(t, err)
	assert.Equal(t, 90*time.Second, cfg.Projector.Interval)
}
