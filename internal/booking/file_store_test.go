package booking

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-screening/internal/common/errors"
	"hr-screening/internal/common/logger"
)

func newTestFileStore(t *testing.T) *FileStore {
	t.Helper()
	path := filepath.Join(t.TempDir(), "slots.json")
	return NewFileStore(path, logger.NewTestLogger(t))
}

func hourAt(t *testing.T, day string, hour int) Interval {
	t.Helper()
	d, err := time.Parse("2006-01-02", day)
	require.NoError(t, err)
	return Interval{Start: d.Add(time.Duration(hour) * time.Hour), Duration: time.Hour}
}

func TestFileStoreReserveAndList(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	second := hourAt(t, "2026-02-02", 11)
	first := hourAt(t, "2026-02-02", 10)

	slotB, err := store.TryReserve(ctx, second, "cand-b")
	require.NoError(t, err)
	slotA, err := store.TryReserve(ctx, first, "cand-a")
	require.NoError(t, err)

	assert.NotEqual(t, slotA.ID, slotB.ID)
	assert.Equal(t, StatusBooked, slotA.Status)
	assert.Equal(t, 60, slotA.DurationMinutes)

	slots, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, slotA.ID, slots[0].ID, "list must be chronological")
	assert.Equal(t, slotB.ID, slots[1].ID)
}

func TestFileStoreRejectsOverlap(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	_, err := store.TryReserve(ctx, hourAt(t, "2026-02-02", 10), "cand-a")
	require.NoError(t, err)

	tests := []struct {
		name     string
		interval Interval
		conflict bool
	}{
		{name: "identical interval", interval: hourAt(t, "2026-02-02", 10), conflict: true},
		{
			name: "partial overlap from the left",
			interval: Interval{
				Start:    time.Date(2026, 2, 2, 9, 30, 0, 0, time.UTC),
				Duration: time.Hour,
			},
			conflict: true,
		},
		{
			name: "partial overlap from the right",
			interval: Interval{
				Start:    time.Date(2026, 2, 2, 10, 30, 0, 0, time.UTC),
				Duration: time.Hour,
			},
			conflict: true,
		},
		{
			name: "containing interval",
			interval: Interval{
				Start:    time.Date(2026, 2, 2, 9, 0, 0, 0, time.UTC),
				Duration: 3 * time.Hour,
			},
			conflict: true,
		},
		{name: "adjacent after", interval: hourAt(t, "2026-02-02", 11), conflict: false},
		{name: "adjacent before", interval: hourAt(t, "2026-02-02", 9), conflict: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.TryReserve(ctx, tt.interval, "cand-x")
			if tt.conflict {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeSchedulingConflict))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFileStoreConcurrentReserveSameInterval(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()
	interval := hourAt(t, "2026-02-02", 10)

	const workers = 16
	var wg sync.WaitGroup
	successes := make(chan *BookedSlot, workers)
	conflicts := make(chan error, workers)

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			slot, err := store.TryReserve(ctx, interval, "cand-race")
			if err != nil {
				conflicts <- err
				return
			}
			successes <- slot
		}()
	}
	wg.Wait()
	close(successes)
	close(conflicts)

	assert.Len(t, successes, 1, "exactly one reservation must win")
	assert.Len(t, conflicts, workers-1)
	for err := range conflicts {
		assert.True(t, errors.HasCode(err, errors.ErrCodeSchedulingConflict))
	}
}

func TestFileStoreCancel(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()
	interval := hourAt(t, "2026-02-02", 10)

	slot, err := store.TryReserve(ctx, interval, "cand-a")
	require.NoError(t, err)

	require.NoError(t, store.Cancel(ctx, slot.ID))

	// Cancelling again is a no-op.
	require.NoError(t, store.Cancel(ctx, slot.ID))

	// The freed interval can be reserved again.
	_, err = store.TryReserve(ctx, interval, "cand-b")
	assert.NoError(t, err)

	err = store.Cancel(ctx, "no-such-slot")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeBookingNotFound))
}

func TestFileStoreClear(t *testing.T) {
	store := newTestFileStore(t)
	ctx := context.Background()

	_, err := store.TryReserve(ctx, hourAt(t, "2026-02-02", 10), "cand-a")
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx))

	slots, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestFileStorePersistsAcrossInstances(t *testing.T) {
	path := filepath.Join(t.TempDir(), "slots.json")
	ctx := context.Background()

	first := NewFileStore(path, logger.NewNoOpLogger())
	slot, err := first.TryReserve(ctx, hourAt(t, "2026-02-02", 10), "cand-a")
	require.NoError(t, err)

	second := NewFileStore(path, logger.NewNoOpLogger())
	slots, err := second.List(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, slot.ID, slots[0].ID)
}

func TestIntervalOverlaps(t *testing.T) {
	base := Interval{Start: time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC), Duration: time.Hour}

	assert.True(t, base.Overlaps(base))
	assert.False(t, base.Overlaps(Interval{Start: base.End(), Duration: time.Hour}))
	assert.False(t, base.Overlaps(Interval{Start: base.Start.Add(-time.Hour), Duration: time.Hour}))
	assert.True(t, base.Overlaps(Interval{Start: base.Start.Add(30 * time.Minute), Duration: time.Hour}))
}
