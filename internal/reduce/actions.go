package reduce

import (
	"fmt"
	"io"
	"log/slog"
	"time"

	"github.com/dtnitsch/vocab-reducer/internal/common"
	"github.com/dtnitsch/vocab-reducer/models"
	"github.com/dtnitsch/vocab-reducer/pkg/dataset"
	"github.com/dtnitsch/vocab-reducer/pkg/db"
	"github.com/dtnitsch/vocab-reducer/pkg/manifest"
	"github.com/dtnitsch/vocab-reducer/pkg/storage"
	"github.com/urfave/cli/v2"
)

// Report is what a finished run produced.
type Report struct {
	Stats   dataset.Stats
	Outputs []manifest.Output
	RunID   int64 // 0 when no history database is configured
}

// ReduceAction handles the reduce command.
func ReduceAction(c *cli.Context) error {
	logger := common.NewLogger(c.App.ErrWriter, c.Bool("quiet"), c.Bool("verbose"))

	cfg, err := ResolveConfig(c)
	if err != nil {
		logger.Error("invalid configuration", "error", err)
		return err
	}

	_, err = Run(cfg, logger, c.App.Writer)
	return err
}

// ResolveConfig layers explicitly set flags over the config file (or defaults).
func ResolveConfig(c *cli.Context) (models.ReduceConfig, error) {
	cfg := models.DefaultReduceConfig()
	if path := c.String("config"); path != "" {
		var err error
		if cfg, err = models.LoadConfig(path); err != nil {
			return cfg, err
		}
	}

	overrides := []struct {
		flag string
		dst  *string
	}{
		{"vocabulary", &cfg.VocabularyPath},
		{"examples", &cfg.ExamplesPath},
		{"vocabulary-out", &cfg.VocabularyOut},
		{"examples-out", &cfg.ExamplesOut},
		{"manifest", &cfg.ManifestPath},
		{"history-db", &cfg.HistoryDB},
	}
	for _, o := range overrides {
		if c.IsSet(o.flag) {
			*o.dst = c.String(o.flag)
		}
	}
	if c.IsSet("limit") {
		cfg.Limit = c.Int("limit")
	}

	return cfg, cfg.Validate()
}

// Run loads both inputs, reduces them and writes the two outputs.
// Progress lines for the operator go to out; diagnostics go to logger.
func Run(cfg models.ReduceConfig, logger *slog.Logger, out io.Writer) (*Report, error) {
	startTime := time.Now()
	s := &storage.Storage{}

	fmt.Fprintln(out, "Reading data files...")
	vocab, err := dataset.ReadVocabularyFile(s, cfg.VocabularyPath)
	if err != nil {
		logger.Error("failed to load vocabulary", "path", cfg.VocabularyPath, "error", err)
		return nil, err
	}
	logger.Debug("vocabulary loaded", "path", cfg.VocabularyPath, "records", len(vocab))

	examples, err := dataset.ReadExamplesFile(s, cfg.ExamplesPath)
	if err != nil {
		logger.Error("failed to load examples", "path", cfg.ExamplesPath, "error", err)
		return nil, err
	}
	logger.Debug("examples loaded", "path", cfg.ExamplesPath, "records", len(examples))

	fmt.Fprintf(out, "Vocabulary entries: %d\n", len(vocab))
	fmt.Fprintf(out, "Example entries: %d\n", len(examples))

	res := dataset.Reduce(vocab, examples, cfg.Limit)
	fmt.Fprintf(out, "Entries with examples: %d\n", res.Stats.WithExamples)
	fmt.Fprintf(out, "Top-frequency entries kept: %d\n", res.Stats.Kept)
	fmt.Fprintf(out, "Examples selected: %d\n", res.Stats.SelectedExamples)

	vocabData, err := dataset.EncodeVocabulary(res.Vocabulary)
	if err != nil {
		return nil, fmt.Errorf("failed to encode vocabulary: %w", err)
	}
	examplesData, err := dataset.EncodeExamples(res.Examples)
	if err != nil {
		return nil, fmt.Errorf("failed to encode examples: %w", err)
	}

	fmt.Fprintln(out, "Saving reduced data...")
	err = s.SaveFilesAtomic(
		storage.File{Path: cfg.VocabularyOut, Content: vocabData},
		storage.File{Path: cfg.ExamplesOut, Content: examplesData},
	)
	if err != nil {
		logger.Error("failed to write outputs",
			"vocabulary_out", cfg.VocabularyOut,
			"examples_out", cfg.ExamplesOut,
			"error", err,
		)
		return nil, fmt.Errorf("%w: %v", dataset.ErrOutputWrite, err)
	}

	report := &Report{
		Stats: res.Stats,
		Outputs: []manifest.Output{
			{Kind: "vocabulary", Path: cfg.VocabularyOut, Records: res.Stats.Kept, SHA256: common.ContentHash(vocabData)},
			{Kind: "examples", Path: cfg.ExamplesOut, Records: res.Stats.SelectedExamples, SHA256: common.ContentHash(examplesData)},
		},
	}

	fmt.Fprintln(out, "\nDone!")
	labels := []string{"Reduced vocabulary file", "Reduced examples file"}
	var totalMB float64
	for i := range report.Outputs {
		stats, err := s.GetFileStats(report.Outputs[i].Path)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", dataset.ErrOutputWrite, err)
		}
		report.Outputs[i].SizeBytes = stats.SizeBytes
		totalMB += stats.SizeMB()
		fmt.Fprintf(out, "%s: %.2f MB\n", labels[i], stats.SizeMB())
	}
	fmt.Fprintf(out, "Total: %.2f MB\n", totalMB)

	fmt.Fprintln(out, "\nPoint the client at the reduced files:")
	fmt.Fprintf(out, "  %s\n", cfg.VocabularyOut)
	fmt.Fprintf(out, "  %s\n", cfg.ExamplesOut)

	duration := time.Since(startTime)
	logger.Info("reduction complete",
		"records", res.Stats.Kept,
		"examples", res.Stats.SelectedExamples,
		"limit", cfg.Limit,
		"duration", duration.String(),
	)

	if cfg.ManifestPath != "" {
		m := manifest.Build(startTime, cfg.Limit,
			manifest.Inputs{Vocabulary: cfg.VocabularyPath, Examples: cfg.ExamplesPath},
			res.Stats, report.Outputs)
		if err := manifest.Write(m, cfg.ManifestPath, s); err != nil {
			logger.Error("failed to write manifest", "path", cfg.ManifestPath, "error", err)
			return report, fmt.Errorf("outputs written, but %w", err)
		}
		fmt.Fprintf(out, "Summary manifest saved to: %s\n", cfg.ManifestPath)
	}

	if cfg.HistoryDB != "" {
		runID, err := recordRun(cfg, report, startTime, duration)
		if err != nil {
			logger.Error("failed to record run", "path", cfg.HistoryDB, "error", err)
			return report, fmt.Errorf("outputs written, but %w", err)
		}
		report.RunID = runID
		fmt.Fprintf(out, "Run recorded with ID: %d\n", runID)
	}

	return report, nil
}

func recordRun(cfg models.ReduceConfig, report *Report, startTime time.Time, duration time.Duration) (int64, error) {
	database, err := db.Open(cfg.HistoryDB)
	if err != nil {
		return 0, fmt.Errorf("failed to open history database: %w", err)
	}
	defer database.Close()

	run := db.Run{
		CreatedAt:            startTime,
		Duration:             duration,
		Limit:                cfg.Limit,
		VocabularyPath:       cfg.VocabularyPath,
		ExamplesPath:         cfg.ExamplesPath,
		VocabularyCount:      report.Stats.VocabularyCount,
		ExampleCount:         report.Stats.ExampleCount,
		WithExamplesCount:    report.Stats.WithExamples,
		KeptCount:            report.Stats.Kept,
		SelectedExampleCount: report.Stats.SelectedExamples,
	}
	for _, o := range report.Outputs {
		run.Outputs = append(run.Outputs, db.RunOutput{
			Kind:      o.Kind,
			Path:      o.Path,
			Records:   o.Records,
			SizeBytes: o.SizeBytes,
			SHA256:    o.SHA256,
		})
	}

	return database.InsertRun(run)
}
