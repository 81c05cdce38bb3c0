package booking

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-screening/internal/common/errors"
	"hr-screening/internal/common/logger"
)

func newTestRedisStore(t *testing.T) *RedisStore {
	t.Helper()

	mr, err := miniredis.Run()
	require.NoError(t, err)
	t.Cleanup(mr.Close)

	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { client.Close() })

	return NewRedisStore(client, logger.NewTestLogger(t))
}

func TestRedisStoreReserveAndList(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	later := Interval{Start: time.Date(2026, 2, 2, 11, 0, 0, 0, time.UTC), Duration: time.Hour}
	earlier := Interval{Start: time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC), Duration: time.Hour}

	slotB, err := store.TryReserve(ctx, later, "cand-b")
	require.NoError(t, err)
	slotA, err := store.TryReserve(ctx, earlier, "cand-a")
	require.NoError(t, err)

	slots, err := store.List(ctx)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, slotA.ID, slots[0].ID, "index must order slots by start time")
	assert.Equal(t, slotB.ID, slots[1].ID)
	assert.Equal(t, earlier.Start, slots[0].Start)
	assert.Equal(t, 60, slots[0].DurationMinutes)
	assert.Equal(t, StatusBooked, slots[0].Status)
}

func TestRedisStoreRejectsOverlap(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()
	base := Interval{Start: time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC), Duration: time.Hour}

	_, err := store.TryReserve(ctx, base, "cand-a")
	require.NoError(t, err)

	tests := []struct {
		name     string
		start    time.Time
		conflict bool
	}{
		{name: "identical start", start: base.Start, conflict: true},
		{name: "straddles from left", start: base.Start.Add(-30 * time.Minute), conflict: true},
		{name: "straddles from right", start: base.Start.Add(30 * time.Minute), conflict: true},
		{name: "adjacent after", start: base.End(), conflict: false},
		{name: "adjacent before", start: base.Start.Add(-time.Hour), conflict: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := store.TryReserve(ctx, Interval{Start: tt.start, Duration: time.Hour}, "cand-x")
			if tt.conflict {
				require.Error(t, err)
				assert.True(t, errors.HasCode(err, errors.ErrCodeSchedulingConflict))
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRedisStoreConcurrentReserveSameInterval(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()
	interval := Interval{Start: time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC), Duration: time.Hour}

	const workers = 16
	var wg sync.WaitGroup
	var mu sync.Mutex
	var won, lost int

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := store.TryReserve(ctx, interval, "cand-race")
			mu.Lock()
			defer mu.Unlock()
			if err == nil {
				won++
			} else {
				lost++
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 1, won, "exactly one reservation must win")
	assert.Equal(t, workers-1, lost)
}

func TestRedisStoreCancel(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()
	interval := Interval{Start: time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC), Duration: time.Hour}

	slot, err := store.TryReserve(ctx, interval, "cand-a")
	require.NoError(t, err)

	require.NoError(t, store.Cancel(ctx, slot.ID))

	// Cancelled slots no longer block the interval.
	_, err = store.TryReserve(ctx, interval, "cand-b")
	assert.NoError(t, err)

	err = store.Cancel(ctx, "no-such-slot")
	require.Error(t, err)
	assert.True(t, errors.HasCode(err, errors.ErrCodeBookingNotFound))
}

func TestRedisStoreClear(t *testing.T) {
	store := newTestRedisStore(t)
	ctx := context.Background()

	_, err := store.TryReserve(ctx, Interval{Start: time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC), Duration: time.Hour}, "cand-a")
	require.NoError(t, err)

	require.NoError(t, store.Clear(ctx))

	slots, err := store.List(ctx)
	require.NoError(t, err)
	assert.Empty(t, slots)
}
