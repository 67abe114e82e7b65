package storage

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"
	"time"

	_ "github.com/mattn/go-sqlite3"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"jbcram/internal/domain"
)

func newTestHistory(t *testing.T) (*History, string) {
	t.Helper()

	path := filepath.Join(t.TempDir(), "history.db")
	h, err := OpenHistory(context.Background(), "sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = h.Close() })

	return h, path
}

func TestHistory_SchemaCreated(t *testing.T) {
	_, path := newTestHistory(t)

	db, err := sql.Open("sqlite3", path)
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Close() })

	rows, err := db.Query(`SELECT name FROM sqlite_master WHERE type='table' AND name IN ('runs','results')`)
	require.NoError(t, err)
	defer rows.Close()

	found := map[string]bool{}
	for rows.Next() {
		var name string
		require.NoError(t, rows.Scan(&name))
		found[name] = true
	}
	require.NoError(t, rows.Err())

	assert.True(t, found["runs"])
	assert.True(t, found["results"])
}

func TestHistory_RecordAndList(t *testing.T) {
	h, _ := newTestHistory(t)
	ctx := context.Background()

	first := domain.RunSummary{
		RunID:     "01HZX3J8N9K2Q4W6E8R0T2Y4U6",
		Passed:    2,
		Total:     2,
		StartedAt: time.Date(2026, 3, 4, 10, 0, 0, 0, time.UTC),
		Duration:  2 * time.Second,
		Results: []domain.TestResult{
			{Name: "test_classes", Allocator: domain.AllocatorMarkSweep, Status: domain.StatusPassed, Duration: time.Second},
			{Name: "test_ref_count", Allocator: domain.AllocatorReferenceCount, Status: domain.StatusPassed, Duration: time.Second},
		},
	}
	second := domain.RunSummary{
		RunID:     "01HZX3J8N9K2Q4W6E8R0T2Y4U7",
		Update:    true,
		Passed:    0,
		Total:     1,
		StartedAt: time.Date(2026, 3, 4, 11, 0, 0, 0, time.UTC),
		Duration:  time.Second,
		Results: []domain.TestResult{
			{Name: "test_classes", Allocator: domain.AllocatorMarkSweep, Status: domain.StatusBuildFailed, Duration: time.Second},
		},
	}

	require.NoError(t, h.RecordRun(ctx, first))
	require.NoError(t, h.RecordRun(ctx, second))

	runs, err := h.ListRuns(ctx, 10)
	require.NoError(t, err)
	assert.Equal(t, []domain.RunRecord{
		{RunID: second.RunID, StartedAt: second.StartedAt, Mode: "updated", Passed: 0, Total: 1, Duration: time.Second},
		{RunID: first.RunID, StartedAt: first.StartedAt, Mode: "passed", Passed: 2, Total: 2, Duration: 2 * time.Second},
	}, runs)

	limited, err := h.ListRuns(ctx, 1)
	require.NoError(t, err)
	require.Len(t, limited, 1)
	assert.Equal(t, second.RunID, limited[0].RunID)

	results, err := h.ListResults(ctx, first.RunID)
	require.NoError(t, err)
	assert.Equal(t, []domain.ResultRecord{
		{RunID: first.RunID, TestName: "test_classes", Allocator: domain.AllocatorMarkSweep, Status: domain.StatusPassed, Duration: time.Second},
		{RunID: first.RunID, TestName: "test_ref_count", Allocator: domain.AllocatorReferenceCount, Status: domain.StatusPassed, Duration: time.Second},
	}, results)
}

func TestHistory_DuplicateRunRollsBack(t *testing.T) {
	h, _ := newTestHistory(t)
	ctx := context.Background()

	run := domain.RunSummary{
		RunID:     "01HZX3J8N9K2Q4W6E8R0T2Y4U6",
		StartedAt: time.Now(),
		Results:   []domain.TestResult{{Name: "a", Status: domain.StatusPassed}},
	}
	require.NoError(t, h.RecordRun(ctx, run))

	run.Results = append(run.Results, domain.TestResult{Name: "b", Status: domain.StatusPassed})
	assert.Error(t, h.RecordRun(ctx, run))

	results, err := h.ListResults(ctx, run.RunID)
	require.NoError(t, err)
	assert.Len(t, results, 1)
}

func TestOpenHistory_UnknownDriver(t *testing.T) {
	_, err := OpenHistory(context.Background(), "postgres", "whatever")
	assert.Error(t, err)
}
