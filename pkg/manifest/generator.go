package manifest

import (
	"encoding/json"
	"fmt"
	"math"
	"path/filepath"
	"strings"
	"time"

	"github.com/dtnitsch/vocab-reducer/pkg/dataset"
	"github.com/dtnitsch/vocab-reducer/pkg/storage"
	"gopkg.in/yaml.v3"
)

// Output is a written file as the reduce command saw it.
type Output struct {
	Kind      string
	Path      string
	Records   int
	SizeBytes int64
	SHA256    string
}

// Build assembles the manifest for one run.
func Build(generatedAt time.Time, limit int, inputs Inputs, stats dataset.Stats, outputs []Output) ReductionManifest {
	m := ReductionManifest{
		GeneratedAt: generatedAt.UTC().Format(time.RFC3339),
		Limit:       limit,
		Inputs:      inputs,
		Counts: Counts{
			Vocabulary:       stats.VocabularyCount,
			Examples:         stats.ExampleCount,
			WithExamples:     stats.WithExamples,
			Kept:             stats.Kept,
			SelectedExamples: stats.SelectedExamples,
		},
	}

	var total int64
	for _, o := range outputs {
		m.Outputs = append(m.Outputs, OutputSummary{
			Kind:      o.Kind,
			Path:      o.Path,
			Records:   o.Records,
			SizeBytes: o.SizeBytes,
			SizeMB:    toMB(o.SizeBytes),
			SHA256:    o.SHA256,
		})
		total += o.SizeBytes
	}
	m.TotalMB = toMB(total)

	return m
}

// Write saves the manifest as YAML for .yaml/.yml paths and indented JSON otherwise.
func Write(m ReductionManifest, path string, s *storage.Storage) error {
	var (
		data []byte
		err  error
	)
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		data, err = yaml.Marshal(m)
	default:
		data, err = json.MarshalIndent(m, "", "  ")
	}
	if err != nil {
		return fmt.Errorf("error marshalling manifest: %w", err)
	}

	if err := s.SaveFilesAtomic(storage.File{Path: path, Content: data}); err != nil {
		return fmt.Errorf("error saving manifest: %w", err)
	}
	return nil
}

// toMB rounds to the two decimals the console prints.
func toMB(size int64) float64 {
	return math.Round(float64(size)/1024/1024*100) / 100
}
