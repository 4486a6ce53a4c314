package config

import (
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestInit(t *testing.T) {
	t.Run("ShouldApplyDefaults", func(t *testing.T) {
		cfg := Config{}
		require.NoError(t, Init(&cfg))

		assert.Equal(t, "./data", cfg.DataDir)
		assert.Equal(t, 700, cfg.ChunkSize)
		assert.Equal(t, 150, cfg.ChunkOverlap)
		assert.Equal(t, "multilingual", cfg.Separators)
		assert.Equal(t, 4, cfg.MaxConcurrency)
		assert.False(t, cfg.ForceReprocess)
		assert.Equal(t, filepath.Join("data", "manifest.json"), cfg.MetadataFile)
	})

	t.Run("ShouldReadEnvironment", func(t *testing.T) {
		t.Setenv("DATA_DIR", "/tmp/chunks")
		t.Setenv("CHUNK_SIZE", "300")
		t.Setenv("CHUNK_OVERLAP", "30")
		t.Setenv("SEPARATORS", "bengali")
		t.Setenv("MAX_CONCURRENCY", "0")
		t.Setenv("FORCE_REPROCESS", "true")

		cfg := Config{}
		require.NoError(t, Init(&cfg))

		assert.Equal(t, "/tmp/chunks", cfg.DataDir)
		assert.Equal(t, 300, cfg.ChunkSize)
		assert.Equal(t, 30, cfg.ChunkOverlap)
		assert.Equal(t, "bengali", cfg.Separators)
		assert.Equal(t, 1, cfg.MaxConcurrency)
		assert.True(t, cfg.ForceReprocess)
		assert.Equal(t, "/tmp/chunks/manifest.json", cfg.MetadataFile)
	})

	t.Run("ShouldFailOnMalformedNumber", func(t *testing.T) {
		t.Setenv("CHUNK_SIZE", "big")
		cfg := Config{}
		require.Error(t, Init(&cfg))
	})
}
