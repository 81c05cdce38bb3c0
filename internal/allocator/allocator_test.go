package allocator

import (
	"context"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-screening/internal/booking"
	"hr-screening/internal/calendar"
	"hr-screening/internal/common/errors"
	"hr-screening/internal/common/logger"
)

func newTestAllocator(t *testing.T, holidays []string, horizonDays int) (*Allocator, booking.Store) {
	t.Helper()

	morning, err := calendar.ParseWindow("10:00", "12:00")
	require.NoError(t, err)
	afternoon, err := calendar.ParseWindow("14:00", "17:00")
	require.NoError(t, err)

	policy, err := calendar.New([]calendar.Window{morning, afternoon}, holidays, time.UTC)
	require.NoError(t, err)

	store := booking.NewFileStore(filepath.Join(t.TempDir(), "slots.json"), logger.NewTestLogger(t))
	return New(policy, store, horizonDays, logger.NewTestLogger(t)), store
}

// 2026-02-01 is a Sunday, so the search lands on Monday the 2nd.
var searchStart = time.Date(2026, 2, 1, 9, 0, 0, 0, time.UTC)

func TestReserveEarliestSlot(t *testing.T) {
	alloc, _ := newTestAllocator(t, nil, 14)

	slot, err := alloc.Reserve(context.Background(), "cand-a", searchStart, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC), slot.Start)
	assert.Equal(t, 60, slot.DurationMinutes)
}

func TestReserveSkipsHoliday(t *testing.T) {
	// Monday the 2nd is a holiday, so the earliest slot moves to Tuesday.
	alloc, _ := newTestAllocator(t, []string{"2026-02-02"}, 14)

	slot, err := alloc.Reserve(context.Background(), "cand-a", searchStart, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC), slot.Start)
}

func TestReserveFillsDayInOrder(t *testing.T) {
	alloc, _ := newTestAllocator(t, nil, 14)
	ctx := context.Background()

	want := []time.Time{
		time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 2, 11, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 2, 14, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 2, 15, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 2, 16, 0, 0, 0, time.UTC),
		time.Date(2026, 2, 3, 10, 0, 0, 0, time.UTC),
	}

	for i, expected := range want {
		slot, err := alloc.Reserve(ctx, "cand", searchStart, time.Hour)
		require.NoError(t, err, "reservation %d", i)
		assert.Equal(t, expected, slot.Start, "reservation %d", i)
	}
}

func TestReserveConcurrentCandidates(t *testing.T) {
	alloc, _ := newTestAllocator(t, nil, 14)
	ctx := context.Background()

	const candidates = 4
	var wg sync.WaitGroup
	var mu sync.Mutex
	starts := make(map[time.Time]int)
	errs := make([]error, 0, candidates)

	for i := 0; i < candidates; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			slot, err := alloc.Reserve(ctx, "cand", searchStart, time.Hour)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				errs = append(errs, err)
				return
			}
			starts[slot.Start]++
		}()
	}
	wg.Wait()

	require.Empty(t, errs)

	require.Len(t, starts, candidates, "every candidate must get a distinct interval")
	for start, count := range starts {
		assert.Equal(t, 1, count, "interval %s double booked", start)
	}
}

func TestReserveExhaustsHorizon(t *testing.T) {
	// Every day in the horizon is a holiday.
	alloc, _ := newTestAllocator(t, []string{"2026-02-02", "2026-02-03"}, 3)

	_, err := alloc.Reserve(context.Background(), "cand-a", searchStart, time.Hour)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeNoSlotFound))
}

func TestReserveSkipsPastIntervalsOnFirstDay(t *testing.T) {
	alloc, _ := newTestAllocator(t, nil, 14)

	// Searching from mid-afternoon Monday skips the morning window and the
	// already-started afternoon slots.
	lateStart := time.Date(2026, 2, 2, 14, 30, 0, 0, time.UTC)
	slot, err := alloc.Reserve(context.Background(), "cand-a", lateStart, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 2, 15, 0, 0, 0, time.UTC), slot.Start)
}

func TestReserveRespectsCancellation(t *testing.T) {
	alloc, _ := newTestAllocator(t, nil, 14)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := alloc.Reserve(ctx, "cand-a", searchStart, time.Hour)
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeRunAborted))
}

func TestReserveSkipsBookedIntervalFromSnapshot(t *testing.T) {
	alloc, store := newTestAllocator(t, nil, 14)
	ctx := context.Background()

	taken := booking.Interval{
		Start:    time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC),
		Duration: time.Hour,
	}
	_, err := store.TryReserve(ctx, taken, "cand-other")
	require.NoError(t, err)

	slot, err := alloc.Reserve(ctx, "cand-a", searchStart, time.Hour)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2026, 2, 2, 11, 0, 0, 0, time.UTC), slot.Start)
}
