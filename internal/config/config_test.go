package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, defaultPort, cfg.Port)
	assert.True(t, cfg.IsDev())
	assert.Equal(t, 3500, cfg.Summarizer.ChunkChars)
	assert.Equal(t, 12, cfg.Summarizer.MaxChunks)
	assert.Equal(t, 7*24*time.Hour, cfg.Summarizer.CacheTTL)
}

func TestLoadParsesYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte(`
port: 8080
env: production
jwt_secret: sekrit
allowed_origins:
  - example.com
ai:
  providers:
    - id: claude
      type: anthropic
      api_key: key
      default_model: claude-haiku-4-5-20251001
      enabled: true
  summary_model:
    provider_id: claude
summarizer:
  chunk_chars: 2000
  max_chunks: 6
  cache_ttl_hours: 48
`), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, 8080, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "sekrit", cfg.JWTSecret)
	assert.Equal(t, []string{"example.com"}, cfg.AllowedOrigins)

	require.Len(t, cfg.AI.Providers, 1)
	assert.Equal(t, "claude", cfg.AI.Providers[0].ID)
	assert.True(t, cfg.AI.Providers[0].Enabled)
	require.NotNil(t, cfg.AI.SummaryModel)
	assert.Equal(t, "claude", cfg.AI.SummaryModel.ProviderID)

	assert.Equal(t, 2000, cfg.Summarizer.ChunkChars)
	assert.Equal(t, 6, cfg.Summarizer.MaxChunks)
	assert.Equal(t, 48*time.Hour, cfg.Summarizer.CacheTTL)
}

func TestLoadEnvOverrides(t *testing.T) {
	t.Setenv("PORT", "9001")
	t.Setenv("APP_ENV", "production")
	t.Setenv("JWT_SECRET", "from-env")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yml"))
	require.NoError(t, err)

	assert.Equal(t, 9001, cfg.Port)
	assert.False(t, cfg.IsDev())
	assert.Equal(t, "from-env", cfg.JWTSecret)
}

func TestLoadRejectsBadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("port: [not a number"), 0o600))

	_, err := Load(path)
	assert.Error(t, err)
}
