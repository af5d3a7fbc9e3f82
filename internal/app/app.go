package app

import (
	"github.com/dtnitsch/vocab-reducer/internal/db"
	"github.com/dtnitsch/vocab-reducer/internal/reduce"
	"github.com/dtnitsch/vocab-reducer/models"
	"github.com/urfave/cli/v2"
)

// Version is set at build time with -ldflags.
var Version = "dev"

// historyFlag is built per command; urfave flags carry parse state.
func historyFlag() cli.Flag {
	return &cli.StringFlag{
		Name:  "history-db",
		Usage: "SQLite database that records each run",
	}
}

// New builds the vocab-reducer command tree.
func New() *cli.App {
	return &cli.App{
		Name:           "vocab-reducer",
		Usage:          "Trim a vocabulary dataset and its example sentences for the client build",
		Version:        Version,
		DefaultCommand: "reduce",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "config",
				Aliases: []string{"c"},
				Usage:   "YAML config file",
			},
			&cli.BoolFlag{
				Name:    "quiet",
				Aliases: []string{"q"},
				Usage:   "Only log errors",
			},
			&cli.BoolFlag{
				Name:  "verbose",
				Usage: "Enable debug logging",
			},
		},
		Commands: []*cli.Command{
			{
				Name:   "reduce",
				Usage:  "Join, rank and truncate the datasets, then write the reduced files",
				Action: reduce.ReduceAction,
				Flags: []cli.Flag{
					&cli.StringFlag{
						Name:  "vocabulary",
						Usage: "Vocabulary input (.json, .json.gz or .json.zst)",
						Value: models.DefaultVocabularyPath,
					},
					&cli.StringFlag{
						Name:  "examples",
						Usage: "Examples input (.json, .json.gz or .json.zst)",
						Value: models.DefaultExamplesPath,
					},
					&cli.StringFlag{
						Name:  "vocabulary-out",
						Usage: "Reduced vocabulary output",
						Value: models.DefaultVocabularyOut,
					},
					&cli.StringFlag{
						Name:  "examples-out",
						Usage: "Reduced examples output",
						Value: models.DefaultExamplesOut,
					},
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Number of top-frequency entries to keep",
						Value: models.DefaultLimit,
					},
					&cli.StringFlag{
						Name:  "manifest",
						Usage: "Write a run summary (.json, .yaml)",
					},
					historyFlag(),
				},
			},
			{
				Name:   "runs",
				Usage:  "List recorded runs",
				Action: db.RunsAction,
				Flags: []cli.Flag{
					&cli.IntFlag{
						Name:  "limit",
						Usage: "Maximum number of runs to show",
						Value: 20,
					},
					historyFlag(),
				},
			},
			{
				Name:      "run",
				Usage:     "Show one recorded run (latest when no ID is given)",
				ArgsUsage: "[ID]",
				Action:    db.RunAction,
				Flags:     []cli.Flag{historyFlag()},
			},
		},
	}
}
