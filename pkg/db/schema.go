package db

const schema = `
PRAGMA journal_mode = WAL;
PRAGMA synchronous = NORMAL;
PRAGMA foreign_keys = ON;

-- Runs table: one row per successful reduction
CREATE TABLE IF NOT EXISTS runs (
    run_id INTEGER PRIMARY KEY AUTOINCREMENT,
    created_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP,
    duration_ms INTEGER NOT NULL DEFAULT 0,
    row_limit INTEGER NOT NULL,

    vocabulary_path TEXT NOT NULL,
    examples_path TEXT NOT NULL,

    -- Stage counts, same as the console report
    vocabulary_count INTEGER NOT NULL,
    example_count INTEGER NOT NULL,
    with_examples_count INTEGER NOT NULL,
    kept_count INTEGER NOT NULL,
    selected_example_count INTEGER NOT NULL
);

CREATE INDEX IF NOT EXISTS idx_runs_created ON runs(created_at);

-- Run outputs: the files a run wrote
CREATE TABLE IF NOT EXISTS run_outputs (
    output_id INTEGER PRIMARY KEY AUTOINCREMENT,
    run_id INTEGER NOT NULL,
    kind TEXT NOT NULL,            -- vocabulary, examples
    path TEXT NOT NULL,
    records INTEGER NOT NULL,
    size_bytes INTEGER NOT NULL,
    sha256 TEXT NOT NULL,
    FOREIGN KEY (run_id) REFERENCES runs(run_id) ON DELETE CASCADE,
    UNIQUE(run_id, kind)
);

CREATE INDEX IF NOT EXISTS idx_run_outputs_run ON run_outputs(run_id);
CREATE INDEX IF NOT EXISTS idx_run_outputs_sha ON run_outputs(sha256);
`
