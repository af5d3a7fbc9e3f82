package db

import (
	"errors"
	"path/filepath"
	"testing"
	"time"
)

func setupTestDB(t *testing.T) *DB {
	t.Helper()

	// Use in-memory database for tests; a single connection keeps one shared database.
	database := &DB{path: ":memory:"}
	var err error
	database.DB, err = openDB(":memory:")
	if err != nil {
		t.Fatalf("failed to create test database: %v", err)
	}
	database.SetMaxOpenConns(1)

	if err := database.InitSchema(); err != nil {
		t.Fatalf("failed to initialize schema: %v", err)
	}

	return database
}

func sampleRun(createdAt time.Time, vocabHash string) Run {
	return Run{
		CreatedAt:            createdAt,
		Duration:             1500 * time.Millisecond,
		Limit:                1000,
		VocabularyPath:       "data/tb_vocabulary.json",
		ExamplesPath:         "data/tb_voc_examples.json",
		VocabularyCount:      3,
		ExampleCount:         3,
		WithExamplesCount:    2,
		KeptCount:            2,
		SelectedExampleCount: 3,
		Outputs: []RunOutput{
			{Kind: "vocabulary", Path: "data/tb_vocabulary_simple.json", Records: 2, SizeBytes: 120, SHA256: vocabHash},
			{Kind: "examples", Path: "data/tb_voc_examples_simple.json", Records: 3, SizeBytes: 200, SHA256: "ex"},
		},
	}
}

func TestInsertRun_GetRunByID(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	created := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	runID, err := db.InsertRun(sampleRun(created, "v1"))
	if err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if runID == 0 {
		t.Fatal("InsertRun() returned 0 run ID")
	}

	run, err := db.GetRunByID(runID)
	if err != nil {
		t.Fatalf("GetRunByID() error = %v", err)
	}

	if run.RunID != runID {
		t.Errorf("run.RunID = %d, want %d", run.RunID, runID)
	}
	if !run.CreatedAt.Equal(created) {
		t.Errorf("run.CreatedAt = %v, want %v", run.CreatedAt, created)
	}
	if run.Duration != 1500*time.Millisecond {
		t.Errorf("run.Duration = %v, want 1.5s", run.Duration)
	}
	if run.Limit != 1000 {
		t.Errorf("run.Limit = %d, want 1000", run.Limit)
	}
	if run.KeptCount != 2 || run.SelectedExampleCount != 3 {
		t.Errorf("run counts = kept %d, examples %d, want 2 and 3", run.KeptCount, run.SelectedExampleCount)
	}

	if len(run.Outputs) != 2 {
		t.Fatalf("len(run.Outputs) = %d, want 2", len(run.Outputs))
	}
	if run.Outputs[0].Kind != "vocabulary" || run.Outputs[0].SHA256 != "v1" {
		t.Errorf("run.Outputs[0] = %+v, want vocabulary output with hash v1", run.Outputs[0])
	}
	if run.Outputs[1].SizeBytes != 200 {
		t.Errorf("run.Outputs[1].SizeBytes = %d, want 200", run.Outputs[1].SizeBytes)
	}
}

func TestGetRunByID_NotFound(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	if _, err := db.GetRunByID(42); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("GetRunByID() error = %v, want ErrRunNotFound", err)
	}

	if _, err := db.LatestRunID(); !errors.Is(err, ErrRunNotFound) {
		t.Errorf("LatestRunID() error = %v, want ErrRunNotFound", err)
	}
}

func TestListRuns_NewestFirst(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	base := time.Date(2026, 10, 14, 9, 0, 0, 0, time.UTC)
	var ids []int64
	for i := 0; i < 3; i++ {
		id, err := db.InsertRun(sampleRun(base.Add(time.Duration(i)*time.Minute), "v"))
		if err != nil {
			t.Fatalf("InsertRun() error = %v", err)
		}
		ids = append(ids, id)
	}

	runs, err := db.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 3 {
		t.Fatalf("ListRuns() returned %d runs, want 3", len(runs))
	}
	if runs[0].RunID != ids[2] || runs[2].RunID != ids[0] {
		t.Errorf("ListRuns() order = %d..%d, want %d..%d", runs[0].RunID, runs[2].RunID, ids[2], ids[0])
	}
	if len(runs[0].Outputs) != 0 {
		t.Error("ListRuns() should not load outputs")
	}

	limited, err := db.ListRuns(2)
	if err != nil {
		t.Fatalf("ListRuns(2) error = %v", err)
	}
	if len(limited) != 2 {
		t.Errorf("ListRuns(2) returned %d runs, want 2", len(limited))
	}

	latest, err := db.LatestRunID()
	if err != nil {
		t.Fatalf("LatestRunID() error = %v", err)
	}
	if latest != ids[2] {
		t.Errorf("LatestRunID() = %d, want %d", latest, ids[2])
	}
}

func TestCountRunsWithOutputHash(t *testing.T) {
	db := setupTestDB(t)
	defer db.Close()

	now := time.Now()
	for _, h := range []string{"same", "same", "other"} {
		if _, err := db.InsertRun(sampleRun(now, h)); err != nil {
			t.Fatalf("InsertRun() error = %v", err)
		}
	}

	n, err := db.CountRunsWithOutputHash("same")
	if err != nil {
		t.Fatalf("CountRunsWithOutputHash() error = %v", err)
	}
	if n != 2 {
		t.Errorf("CountRunsWithOutputHash(same) = %d, want 2", n)
	}

	n, err = db.CountRunsWithOutputHash("missing")
	if err != nil {
		t.Fatalf("CountRunsWithOutputHash() error = %v", err)
	}
	if n != 0 {
		t.Errorf("CountRunsWithOutputHash(missing) = %d, want 0", n)
	}
}

func TestOpen_CreatesSchemaOnDisk(t *testing.T) {
	path := filepath.Join(t.TempDir(), "history.db")

	db, err := Open(path)
	if err != nil {
		t.Fatalf("Open() error = %v", err)
	}
	if db.Path() != path {
		t.Errorf("Path() = %q, want %q", db.Path(), path)
	}

	if _, err := db.InsertRun(sampleRun(time.Now(), "v")); err != nil {
		t.Fatalf("InsertRun() error = %v", err)
	}
	if err := db.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}

	// Reopening must keep existing rows
	db, err = Open(path)
	if err != nil {
		t.Fatalf("Open() second call error = %v", err)
	}
	defer db.Close()

	runs, err := db.ListRuns(0)
	if err != nil {
		t.Fatalf("ListRuns() error = %v", err)
	}
	if len(runs) != 1 {
		t.Errorf("ListRuns() returned %d runs after reopen, want 1", len(runs))
	}
}
