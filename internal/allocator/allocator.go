// internal/allocator/allocator.go
package allocator

import (
	"context"
	"time"

	"hr-screening/internal/booking"
	"hr-screening/internal/calendar"
	"hr-screening/internal/common/errors"
	"hr-screening/internal/common/logger"
	"hr-screening/internal/common/metrics"
)

// Allocator finds and reserves the earliest valid interview slot. It holds no
// booking state between calls; every Reserve re-reads the store.
type Allocator struct {
	policy      *calendar.Policy
	store       booking.Store
	horizonDays int
	logger      logger.Logger
}

// New builds an Allocator scanning at most horizonDays calendar days.
func New(policy *calendar.Policy, store booking.Store, horizonDays int, log logger.Logger) *Allocator {
	return &Allocator{
		policy:      policy,
		store:       store,
		horizonDays: horizonDays,
		logger:      log.WithFields(map[string]interface{}{"component": "allocator"}),
	}
}

// Reserve scans chronologically from searchStart for the first interval that
// falls on a non-holiday weekday, fits inside one business window, and does
// not overlap an existing booked slot, then reserves it atomically. A
// concurrent claim on the chosen interval resumes the scan from the next
// candidate interval. Returns NO_SLOT_FOUND once the horizon is exhausted.
func (a *Allocator) Reserve(ctx context.Context, candidateID string, searchStart time.Time, duration time.Duration) (*booking.BookedSlot, error) {
	start := time.Now()
	defer func() {
		metrics.AllocationDuration.Observe(time.Since(start).Seconds())
	}()

	existing, err := a.store.List(ctx)
	if err != nil {
		return nil, err
	}
	booked := make([]booking.Interval, 0, len(existing))
	for _, s := range existing {
		if s.Status == booking.StatusBooked {
			booked = append(booked, s.Interval())
		}
	}

	local := searchStart.In(a.policy.Location())

	for dayOffset := 0; dayOffset < a.horizonDays; dayOffset++ {
		if err := ctx.Err(); err != nil {
			return nil, errors.NewRunAbortedError("allocating", err)
		}

		day := startOfDay(local).AddDate(0, 0, dayOffset)
		if !a.policy.IsWorkday(day) {
			a.logger.Debug("skipping non-working day", map[string]interface{}{
				"date": day.Format("2006-01-02"),
			})
			continue
		}

		for _, window := range a.policy.Windows() {
			windowEnd := window.EndOn(day)
			for t := window.StartOn(day); !t.Add(duration).After(windowEnd); t = t.Add(duration) {
				if t.Before(local) {
					continue
				}

				interval := booking.Interval{Start: t, Duration: duration}
				if overlapsAny(interval, booked) {
					continue
				}

				slot, err := a.store.TryReserve(ctx, interval, candidateID)
				if err != nil {
					if errors.HasCode(err, errors.ErrCodeSchedulingConflict) {
						// Claimed by a concurrent reservation between our read
						// and the insert. Never reuse a rejected interval.
						metrics.ReservationConflicts.Inc()
						booked = append(booked, interval)
						continue
					}
					return nil, err
				}

				metrics.SlotsBooked.Inc()
				a.logger.Info("slot allocated", map[string]interface{}{
					"candidateId": candidateID,
					"slotId":      slot.ID,
					"start":       slot.Start,
				})
				return slot, nil
			}
		}
	}

	a.logger.Warn("search horizon exhausted", map[string]interface{}{
		"candidateId": candidateID,
		"searchStart": searchStart,
		"horizonDays": a.horizonDays,
	})
	return nil, errors.NewNoSlotFoundError(a.horizonDays)
}

func overlapsAny(interval booking.Interval, booked []booking.Interval) bool {
	for _, b := range booked {
		if interval.Overlaps(b) {
			return true
		}
	}
	return false
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
