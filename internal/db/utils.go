package db

import (
	"fmt"

	"github.com/dtnitsch/vocab-reducer/models"
	dbpkg "github.com/dtnitsch/vocab-reducer/pkg/db"
	"github.com/urfave/cli/v2"
)

// ResolveHistoryPath picks the history database: --history-db, then the
// config file, then the default name in the working directory.
func ResolveHistoryPath(c *cli.Context) (string, error) {
	if c.IsSet("history-db") {
		return c.String("history-db"), nil
	}
	if path := c.String("config"); path != "" {
		cfg, err := models.LoadConfig(path)
		if err != nil {
			return "", err
		}
		if cfg.HistoryDB != "" {
			return cfg.HistoryDB, nil
		}
	}
	return dbpkg.DefaultDBName, nil
}

// GetRunIDOrLatest returns the run ID from args, or the latest run if not provided
func GetRunIDOrLatest(c *cli.Context, database *dbpkg.DB) (int64, error) {
	if c.NArg() == 0 {
		runID, err := database.LatestRunID()
		if err != nil {
			return 0, fmt.Errorf("no runs found. Run 'vocab-reducer reduce --history-db %s' first: %w", database.Path(), err)
		}
		return runID, nil
	}

	var runID int64
	_, err := fmt.Sscanf(c.Args().First(), "%d", &runID)
	if err != nil {
		return 0, fmt.Errorf("invalid run ID: %s", c.Args().First())
	}
	return runID, nil
}
