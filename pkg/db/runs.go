package db

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// ErrRunNotFound is returned when a run id has no row.
var ErrRunNotFound = errors.New("run not found")

type Run struct {
	RunID     int64
	CreatedAt time.Time
	Duration  time.Duration
	Limit     int

	VocabularyPath string
	ExamplesPath   string

	VocabularyCount      int
	ExampleCount         int
	WithExamplesCount    int
	KeptCount            int
	SelectedExampleCount int

	Outputs []RunOutput
}

type RunOutput struct {
	Kind      string
	Path      string
	Records   int
	SizeBytes int64
	SHA256    string
}

// InsertRun records a run and its outputs in one transaction and returns the run_id.
func (db *DB) InsertRun(run Run) (int64, error) {
	if run.CreatedAt.IsZero() {
		run.CreatedAt = time.Now()
	}

	tx, err := db.Begin()
	if err != nil {
		return 0, fmt.Errorf("failed to begin transaction: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	result, err := tx.Exec(`
		INSERT INTO runs (created_at, duration_ms, row_limit, vocabulary_path, examples_path,
		                  vocabulary_count, example_count, with_examples_count, kept_count,
		                  selected_example_count)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, run.CreatedAt.UTC(), run.Duration.Milliseconds(), run.Limit, run.VocabularyPath, run.ExamplesPath,
		run.VocabularyCount, run.ExampleCount, run.WithExamplesCount, run.KeptCount,
		run.SelectedExampleCount)
	if err != nil {
		return 0, fmt.Errorf("failed to insert run: %w", err)
	}

	runID, err := result.LastInsertId()
	if err != nil {
		return 0, fmt.Errorf("failed to get run ID: %w", err)
	}

	for _, o := range run.Outputs {
		_, err := tx.Exec(`
			INSERT INTO run_outputs (run_id, kind, path, records, size_bytes, sha256)
			VALUES (?, ?, ?, ?, ?, ?)
		`, runID, o.Kind, o.Path, o.Records, o.SizeBytes, o.SHA256)
		if err != nil {
			return 0, fmt.Errorf("failed to insert run output %s: %w", o.Kind, err)
		}
	}

	if err := tx.Commit(); err != nil {
		return 0, fmt.Errorf("failed to commit run: %w", err)
	}

	return runID, nil
}

const runColumns = `
	run_id, created_at, duration_ms, row_limit, vocabulary_path, examples_path,
	vocabulary_count, example_count, with_examples_count, kept_count, selected_example_count
`

type rowScanner interface {
	Scan(dest ...any) error
}

func scanRun(row rowScanner) (Run, error) {
	var r Run
	var durationMS int64
	err := row.Scan(&r.RunID, &r.CreatedAt, &durationMS, &r.Limit, &r.VocabularyPath, &r.ExamplesPath,
		&r.VocabularyCount, &r.ExampleCount, &r.WithExamplesCount, &r.KeptCount, &r.SelectedExampleCount)
	r.Duration = time.Duration(durationMS) * time.Millisecond
	return r, err
}

// ListRuns returns the most recent runs first, without their outputs.
func (db *DB) ListRuns(limit int) ([]Run, error) {
	query := `SELECT ` + runColumns + ` FROM runs ORDER BY created_at DESC, run_id DESC`
	if limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", limit)
	}

	rows, err := db.Query(query)
	if err != nil {
		return nil, fmt.Errorf("failed to list runs: %w", err)
	}
	defer rows.Close()

	var runs []Run
	for rows.Next() {
		r, err := scanRun(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan run: %w", err)
		}
		runs = append(runs, r)
	}

	return runs, rows.Err()
}

// GetRunByID returns a run with its outputs.
func (db *DB) GetRunByID(runID int64) (*Run, error) {
	r, err := scanRun(db.QueryRow(`SELECT `+runColumns+` FROM runs WHERE run_id = ?`, runID))
	if errors.Is(err, sql.ErrNoRows) {
		return nil, fmt.Errorf("%w: %d", ErrRunNotFound, runID)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get run: %w", err)
	}

	rows, err := db.Query(`
		SELECT kind, path, records, size_bytes, sha256
		FROM run_outputs
		WHERE run_id = ?
		ORDER BY output_id
	`, runID)
	if err != nil {
		return nil, fmt.Errorf("failed to get run outputs: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var o RunOutput
		if err := rows.Scan(&o.Kind, &o.Path, &o.Records, &o.SizeBytes, &o.SHA256); err != nil {
			return nil, fmt.Errorf("failed to scan run output: %w", err)
		}
		r.Outputs = append(r.Outputs, o)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to read run outputs: %w", err)
	}

	return &r, nil
}

// LatestRunID returns the id of the most recent run.
func (db *DB) LatestRunID() (int64, error) {
	var runID int64
	err := db.QueryRow(`SELECT run_id FROM runs ORDER BY created_at DESC, run_id DESC LIMIT 1`).Scan(&runID)
	if errors.Is(err, sql.ErrNoRows) {
		return 0, ErrRunNotFound
	}
	if err != nil {
		return 0, fmt.Errorf("failed to get latest run: %w", err)
	}
	return runID, nil
}

// CountRunsWithOutputHash reports how many runs wrote a file with this hash.
// Identical inputs give identical hashes, so a count above one confirms a repeatable build.
func (db *DB) CountRunsWithOutputHash(sha string) (int, error) {
	var n int
	err := db.QueryRow(`SELECT COUNT(DISTINCT run_id) FROM run_outputs WHERE sha256 = ?`, sha).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count runs by hash: %w", err)
	}
	return n, nil
}
