// internal/booking/store.go
package booking

import (
	"context"
	"time"
)

// Slot status values.
const (
	StatusBooked    = "booked"
	StatusCancelled = "cancelled"
)

// Interval is a half-open time range [Start, Start+Duration).
type Interval struct {
	Start    time.Time
	Duration time.Duration
}

// End returns the exclusive end of the interval.
func (iv Interval) End() time.Time {
	return iv.Start.Add(iv.Duration)
}

// Overlaps reports whether two half-open intervals share any instant.
func (iv Interval) Overlaps(other Interval) bool {
	return iv.Start.Before(other.End()) && other.Start.Before(iv.End())
}

// BookedSlot is one durable reservation record.
type BookedSlot struct {
	ID              string    `json:"id"`
	CandidateID     string    `json:"candidateId"`
	Start           time.Time `json:"startTimestamp"`
	DurationMinutes int       `json:"durationMinutes"`
	Status          string    `json:"status"`
	CreatedAt       time.Time `json:"createdAt"`
}

// Interval returns the slot's reserved time range.
func (s BookedSlot) Interval() Interval {
	return Interval{Start: s.Start, Duration: time.Duration(s.DurationMinutes) * time.Minute}
}

// Store is the durable set of reserved slots. TryReserve must be atomic with
// respect to concurrent callers: two overlapping reservations must never both
// succeed, regardless of which candidates hold them.
type Store interface {
	// TryReserve inserts a booked slot for the interval if and only if no
	// existing booked slot overlaps it. On overlap it returns a
	// SCHEDULING_CONFLICT error without mutation.
	TryReserve(ctx context.Context, interval Interval, candidateID string) (*BookedSlot, error)

	// Cancel marks a booked slot cancelled. Cancelled slots no longer count
	// toward overlap checks. Returns BOOKING_NOT_FOUND for unknown IDs.
	Cancel(ctx context.Context, slotID string) error

	// List returns all slots ordered by start time ascending.
	List(ctx context.Context) ([]BookedSlot, error)

	// Clear removes all records. Irreversible.
	Clear(ctx context.Context) error
}
