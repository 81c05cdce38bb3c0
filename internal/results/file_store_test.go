package results

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-screening/internal/common/logger"
	"hr-screening/internal/models"
)

func newTestStore(t *testing.T) *FileStore {
	t.Helper()
	return NewFileStore(filepath.Join(t.TempDir(), "results.jsonl"), logger.NewTestLogger(t))
}

func sampleRecord(runID string) models.ScreeningRecord {
	return models.ScreeningRecord{
		ID:            "rec-" + runID,
		RunID:         runID,
		CandidateID:   "cand-1",
		JobTitle:      "Software Engineer",
		Decision:      models.DecisionAccept,
		TerminalState: "finalized",
		FinalizedAt:   time.Date(2026, 2, 2, 12, 0, 0, 0, time.UTC),
	}
}

func TestFileStoreSaveAndList(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	require.NoError(t, store.Save(ctx, sampleRecord("run-1")))
	require.NoError(t, store.Save(ctx, sampleRecord("run-2")))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 2)
	assert.Equal(t, "run-1", records[0].RunID)
	assert.Equal(t, models.DecisionAccept, records[0].Decision)
}

func TestFileStoreSaveIdempotentByRunID(t *testing.T) {
	store := newTestStore(t)
	ctx := context.Background()

	record := sampleRecord("run-1")
	require.NoError(t, store.Save(ctx, record))

	// A second finalize of the same run writes nothing.
	record.Decision = models.DecisionReject
	require.NoError(t, store.Save(ctx, record))

	records, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, models.DecisionAccept, records[0].Decision)
}

func TestFileStoreEmpty(t *testing.T) {
	store := newTestStore(t)

	records, err := store.List(context.Background())
	require.NoError(t, err)
	assert.Empty(t, records)
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "results.jsonl")
	ctx := context.Background()

	first := NewFileStore(path, logger.NewNoOpLogger())
	require.NoError(t, first.Save(ctx, sampleRecord("run-1")))

	second := NewFileStore(path, logger.NewNoOpLogger())
	records, err := second.List(ctx)
	require.NoError(t, err)
	require.Len(t, records, 1)
	assert.Equal(t, "run-1", records[0].RunID)
}
