package models

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultReduceConfig(t *testing.T) {
	cfg := DefaultReduceConfig()

	assert.Equal(t, "data/tb_vocabulary.json", cfg.VocabularyPath)
	assert.Equal(t, "data/tb_voc_examples.json", cfg.ExamplesPath)
	assert.Equal(t, "data/tb_vocabulary_simple.json", cfg.VocabularyOut)
	assert.Equal(t, "data/tb_voc_examples_simple.json", cfg.ExamplesOut)
	assert.Equal(t, 1000, cfg.Limit)
	assert.NoError(t, cfg.Validate())
}

func TestLoadConfig_PartialOverride(t *testing.T) {
	path := writeConfig(t, "limit: 250\nmanifest: out/summary.yaml\n")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 250, cfg.Limit)
	assert.Equal(t, "out/summary.yaml", cfg.ManifestPath)
	assert.Equal(t, DefaultVocabularyPath, cfg.VocabularyPath, "unset keys keep defaults")
	assert.Empty(t, cfg.HistoryDB)
}

func TestLoadConfig_EmptyFile(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, ""))
	require.NoError(t, err)
	assert.Equal(t, DefaultReduceConfig(), cfg)
}

func TestLoadConfig_UnknownKey(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "limmit: 10\n"))
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrInvalidConfig)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "missing.yaml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestValidate_OptionalPaths(t *testing.T) {
	cfg := DefaultReduceConfig()
	cfg.ManifestPath = "out/summary.yaml"
	cfg.HistoryDB = "out/history.db"
	assert.NoError(t, cfg.Validate())
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*ReduceConfig)
	}{
		{"empty vocabulary", func(c *ReduceConfig) { c.VocabularyPath = "" }},
		{"empty examples out", func(c *ReduceConfig) { c.ExamplesOut = "" }},
		{"zero limit", func(c *ReduceConfig) { c.Limit = 0 }},
		{"negative limit", func(c *ReduceConfig) { c.Limit = -5 }},
		{"outputs collide", func(c *ReduceConfig) { c.ExamplesOut = "./" + c.VocabularyOut }},
		{"output overwrites input", func(c *ReduceConfig) { c.VocabularyOut = c.ExamplesPath }},
		{"manifest overwrites output", func(c *ReduceConfig) { c.ManifestPath = c.VocabularyOut }},
		{"manifest overwrites input", func(c *ReduceConfig) { c.ManifestPath = "data/../" + c.ExamplesPath }},
		{"history overwrites manifest", func(c *ReduceConfig) {
			c.ManifestPath = "out/summary.json"
			c.HistoryDB = "out/summary.json"
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultReduceConfig()
			tt.mutate(&cfg)
			assert.ErrorIs(t, cfg.Validate(), ErrInvalidConfig)
		})
	}
}
