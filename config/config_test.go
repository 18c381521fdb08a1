package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, []string{"pedl", "cofcof"}, cfg.App.Sequences)
	assert.Equal(t, "localhost:6379", cfg.Redis.Addr)
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("PORT", "9090")
	t.Setenv("APP_SEQUENCES", "pedl, cofcof ,studio")
	t.Setenv("WRITE_RPS", "2.5")
	t.Setenv("WRITE_BURST", "not-a-number")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.Equal(t, []string{"pedl", "cofcof", "studio"}, cfg.App.Sequences)
	assert.Equal(t, 2.5, cfg.App.WriteRPS)
	// Unparseable values fall back to the default.
	assert.Equal(t, 10, cfg.App.WriteBurst)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		return &Config{
			Server: ServerConfig{Port: "8080"},
			App:    AppConfig{Sequences: []string{"pedl", "cofcof"}},
		}
	}

	t.Run("valid", func(t *testing.T) {
		require.NoError(t, base().Validate())
	})

	t.Run("empty port", func(t *testing.T) {
		cfg := base()
		cfg.Server.Port = ""
		require.Error(t, cfg.Validate())
	})

	t.Run("no sequences", func(t *testing.T) {
		cfg := base()
		cfg.App.Sequences = nil
		require.Error(t, cfg.Validate())
	})

	t.Run("duplicate sequence", func(t *testing.T) {
		cfg := base()
		cfg.App.Sequences = []string{"pedl", "pedl"}
		require.Error(t, cfg.Validate())
	})

	t.Run("empty sequence name", func(t *testing.T) {
		cfg := base()
		cfg.App.Sequences = []string{"pedl", ""}
		require.Error(t, cfg.Validate())
	})
}
