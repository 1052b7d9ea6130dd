package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, ":8080", cfg.Server.Address)
	assert.Equal(t, 16, cfg.Server.MaxUploadMB)
	assert.Equal(t, "info", cfg.Logger.Level)
	assert.Equal(t, "rule", cfg.Parser.Method)
	assert.Equal(t, 0.7, cfg.Parser.HeaderThreshold)
	assert.Equal(t, 0.70, cfg.Parser.ConfidenceThreshold)
	assert.Equal(t, 0.01, cfg.Parser.TieEpsilon)
	assert.Equal(t, 40, cfg.Parser.MinChunkChars)
	assert.Equal(t, 600, cfg.Parser.MaxChunkChars)
	assert.Equal(t, "text-embedding-3-small", cfg.Embedding.Model)
	assert.Equal(t, time.Hour, cfg.Redis.CacheTTL)
	assert.False(t, cfg.Redis.Enabled)
	assert.False(t, cfg.MySQL.Enabled)
	assert.False(t, cfg.MinIO.Enabled)
	assert.False(t, cfg.Tracing.Enabled)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
server:
  address: ":9090"
parser:
  method: both
  confidence_threshold: 0.8
redis:
  enabled: true
  cache_ttl: 30m
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, ":9090", cfg.Server.Address)
	assert.Equal(t, "both", cfg.Parser.Method)
	assert.Equal(t, 0.8, cfg.Parser.ConfidenceThreshold)
	assert.True(t, cfg.Redis.Enabled)
	assert.Equal(t, 30*time.Minute, cfg.Redis.CacheTTL)
	// Untouched keys keep their defaults.
	assert.Equal(t, 0.7, cfg.Parser.HeaderThreshold)
}

func TestLoadExplicitMissingFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("RESUME_PARSER_PARSER_METHOD", "semantic")
	t.Setenv("RESUME_PARSER_EMBEDDING_API_KEY", "sk-test")

	cfg, err := Load("")
	require.NoError(t, err)
	assert.Equal(t, "semantic", cfg.Parser.Method)
	assert.Equal(t, "sk-test", cfg.Embedding.APIKey)
}

func TestValidate(t *testing.T) {
	base := func() *Config {
		cfg, err := Load("")
		require.NoError(t, err)
		return cfg
	}

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{
			name:    "bad method",
			mutate:  func(c *Config) { c.Parser.Method = "magic" },
			wantErr: "parser.method",
		},
		{
			name:    "header threshold above one",
			mutate:  func(c *Config) { c.Parser.HeaderThreshold = 1.5 },
			wantErr: "header_threshold",
		},
		{
			name:    "confidence threshold zero",
			mutate:  func(c *Config) { c.Parser.ConfidenceThreshold = 0 },
			wantErr: "confidence_threshold",
		},
		{
			name:    "negative epsilon",
			mutate:  func(c *Config) { c.Parser.TieEpsilon = -0.1 },
			wantErr: "tie_epsilon",
		},
		{
			name: "chunk bounds inverted",
			mutate: func(c *Config) {
				c.Parser.MinChunkChars = 600
				c.Parser.MaxChunkChars = 40
			},
			wantErr: "max_chunk_chars",
		},
		{
			name:    "mysql enabled without dsn",
			mutate:  func(c *Config) { c.MySQL.Enabled = true },
			wantErr: "mysql.dsn",
		},
		{
			name:    "minio enabled without endpoint",
			mutate:  func(c *Config) { c.MinIO.Enabled = true },
			wantErr: "minio.endpoint",
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := base()
			tt.mutate(cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
