package db

import (
	"errors"
	"fmt"
	"strings"

	dbpkg "github.com/dtnitsch/vocab-reducer/pkg/db"
	"github.com/dtnitsch/vocab-reducer/pkg/storage"
	"github.com/urfave/cli/v2"
)

// errNoHistory means the history database has not been created yet.
var errNoHistory = errors.New("no run history")

// openHistory opens an existing history database. It never creates one.
func openHistory(c *cli.Context) (*dbpkg.DB, error) {
	path, err := ResolveHistoryPath(c)
	if err != nil {
		return nil, err
	}
	if !(&storage.Storage{}).HasFile(path) {
		return nil, fmt.Errorf("%w at %s. Run 'vocab-reducer reduce --history-db %s' first", errNoHistory, path, path)
	}
	database, err := dbpkg.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}
	return database, nil
}

// RunsAction lists recorded reduction runs.
func RunsAction(c *cli.Context) error {
	database, err := openHistory(c)
	if errors.Is(err, errNoHistory) {
		fmt.Fprintln(c.App.Writer, "No runs found")
		return nil
	}
	if err != nil {
		return err
	}
	defer database.Close()

	out := c.App.Writer
	runs, err := database.ListRuns(c.Int("limit"))
	if err != nil {
		return fmt.Errorf("failed to list runs: %w", err)
	}

	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs found")
		return nil
	}

	fmt.Fprintf(out, "%-6s %-20s %-8s %-8s %-8s %-10s %-30s\n",
		"ID", "Created", "Vocab", "Kept", "Examples", "Duration", "Vocabulary Source")
	fmt.Fprintln(out, strings.Repeat("-", 100))

	for _, r := range runs {
		fmt.Fprintf(out, "%-6d %-20s %-8d %-8d %-8d %-10s %-30s\n",
			r.RunID,
			r.CreatedAt.Local().Format("2006-01-02 15:04:05"),
			r.VocabularyCount,
			r.KeptCount,
			r.SelectedExampleCount,
			r.Duration.String(),
			r.VocabularyPath,
		)
	}

	fmt.Fprintf(out, "\nTotal: %d runs\n", len(runs))
	fmt.Fprintf(out, "\nTip: Use 'vocab-reducer run <id>' to see details\n")

	return nil
}

// RunAction shows details for a specific run
func RunAction(c *cli.Context) error {
	database, err := openHistory(c)
	if err != nil {
		return err
	}
	defer database.Close()

	runID, err := GetRunIDOrLatest(c, database)
	if err != nil {
		return err
	}

	run, err := database.GetRunByID(runID)
	if err != nil {
		return fmt.Errorf("failed to get run: %w", err)
	}

	out := c.App.Writer
	fmt.Fprintf(out, "Run %d\n", run.RunID)
	fmt.Fprintf(out, "Created:  %s\n", run.CreatedAt.Local().Format("2006-01-02 15:04:05"))
	fmt.Fprintf(out, "Duration: %s\n", run.Duration)
	fmt.Fprintf(out, "Limit:    %d\n", run.Limit)
	fmt.Fprintf(out, "\nInputs:\n")
	fmt.Fprintf(out, "  vocabulary: %s (%d entries)\n", run.VocabularyPath, run.VocabularyCount)
	fmt.Fprintf(out, "  examples:   %s (%d entries)\n", run.ExamplesPath, run.ExampleCount)
	fmt.Fprintf(out, "\nStages:\n")
	fmt.Fprintf(out, "  with examples: %d\n", run.WithExamplesCount)
	fmt.Fprintf(out, "  kept:          %d\n", run.KeptCount)
	fmt.Fprintf(out, "  examples:      %d\n", run.SelectedExampleCount)

	fmt.Fprintf(out, "\nOutputs:\n")
	for _, o := range run.Outputs {
		repeats, err := database.CountRunsWithOutputHash(o.SHA256)
		if err != nil {
			return err
		}
		fmt.Fprintf(out, "  %-10s %s  %d records  %d bytes  sha256:%s", o.Kind, o.Path, o.Records, o.SizeBytes, o.SHA256)
		if repeats > 1 {
			fmt.Fprintf(out, "  (identical in %d runs)", repeats)
		}
		fmt.Fprintln(out)
	}

	return nil
}
