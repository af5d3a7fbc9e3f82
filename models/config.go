// Package models defines the records and configuration shared across packages.
package models

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

const (
	DefaultVocabularyPath = "data/tb_vocabulary.json"
	DefaultExamplesPath   = "data/tb_voc_examples.json"
	DefaultVocabularyOut  = "data/tb_vocabulary_simple.json"
	DefaultExamplesOut    = "data/tb_voc_examples_simple.json"
	DefaultLimit          = 1000
)

// ErrInvalidConfig is returned for configuration that cannot drive a run.
var ErrInvalidConfig = errors.New("invalid config")

// ReduceConfig holds runtime configuration for a reduction.
// Values come from an optional YAML file, then CLI flags.
type ReduceConfig struct {
	VocabularyPath string `yaml:"vocabulary"`
	ExamplesPath   string `yaml:"examples"`
	VocabularyOut  string `yaml:"vocabulary_out"`
	ExamplesOut    string `yaml:"examples_out"`
	Limit          int    `yaml:"limit"`

	// Optional extras; empty disables them.
	ManifestPath string `yaml:"manifest"`
	HistoryDB    string `yaml:"history_db"`
}

// DefaultReduceConfig returns the fixed paths the client build expects.
func DefaultReduceConfig() ReduceConfig {
	return ReduceConfig{
		VocabularyPath: DefaultVocabularyPath,
		ExamplesPath:   DefaultExamplesPath,
		VocabularyOut:  DefaultVocabularyOut,
		ExamplesOut:    DefaultExamplesOut,
		Limit:          DefaultLimit,
	}
}

// LoadConfig reads a YAML config file on top of the defaults.
// Keys left out of the file keep their default value.
func LoadConfig(path string) (ReduceConfig, error) {
	cfg := DefaultReduceConfig()

	f, err := os.Open(path)
	if err != nil {
		return cfg, fmt.Errorf("failed to open config: %w", err)
	}
	defer f.Close()

	dec := yaml.NewDecoder(f)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return cfg, fmt.Errorf("%w: %s: %v", ErrInvalidConfig, path, err)
	}

	return cfg, nil
}

// Validate checks that the config describes a runnable reduction.
func (c ReduceConfig) Validate() error {
	paths := map[string]string{
		"vocabulary":     c.VocabularyPath,
		"examples":       c.ExamplesPath,
		"vocabulary_out": c.VocabularyOut,
		"examples_out":   c.ExamplesOut,
	}
	for _, name := range []string{"vocabulary", "examples", "vocabulary_out", "examples_out"} {
		if paths[name] == "" {
			return fmt.Errorf("%w: %s path is empty", ErrInvalidConfig, name)
		}
	}

	if c.Limit < 1 {
		return fmt.Errorf("%w: limit must be at least 1, got %d", ErrInvalidConfig, c.Limit)
	}

	// Every file a run writes must be distinct from the inputs and from
	// every other file it writes.
	claimed := map[string]string{
		filepath.Clean(c.VocabularyPath): "vocabulary",
		filepath.Clean(c.ExamplesPath):   "examples",
	}
	writes := []struct{ name, path string }{
		{"vocabulary_out", c.VocabularyOut},
		{"examples_out", c.ExamplesOut},
		{"manifest", c.ManifestPath},
		{"history_db", c.HistoryDB},
	}
	for _, w := range writes {
		if w.path == "" {
			continue
		}
		p := filepath.Clean(w.path)
		if other, ok := claimed[p]; ok {
			return fmt.Errorf("%w: %s and %s both point at %s", ErrInvalidConfig, w.name, other, p)
		}
		claimed[p] = w.name
	}

	return nil
}
