// internal/booking/postgres_store.go
package booking

import (
	"context"
	"database/sql"
	"time"

	"hr-screening/internal/common/errors"
	"hr-screening/internal/common/logger"

	"github.com/google/uuid"
)

// Advisory lock key serializing reservation transactions.
const reserveLockKey = 774101

const createSlotsTable = `
CREATE TABLE IF NOT EXISTS booked_slots (
	id               TEXT PRIMARY KEY,
	candidate_id     TEXT NOT NULL,
	start_at         TIMESTAMPTZ NOT NULL,
	duration_minutes INTEGER NOT NULL,
	status           TEXT NOT NULL,
	created_at       TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps reservations in a booked_slots table. The overlap
// check and insert run in one transaction holding an advisory lock, so
// concurrent TryReserve calls are serialized by the database.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

// NewPostgresStore wraps an open database handle.
func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "postgres"}),
	}
}

// EnsureSchema creates the booked_slots table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createSlotsTable); err != nil {
		return errors.NewPersistenceError("ensure schema", err)
	}
	return nil
}

func (s *PostgresStore) TryReserve(ctx context.Context, interval Interval, candidateID string) (*BookedSlot, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return nil, errors.NewPersistenceError("begin", err)
	}
	defer tx.Rollback()

	if _, err := tx.ExecContext(ctx, `SELECT pg_advisory_xact_lock($1)`, reserveLockKey); err != nil {
		return nil, errors.NewPersistenceError("advisory lock", err)
	}

	var exists bool
	err = tx.QueryRowContext(ctx, `
		SELECT EXISTS(
			SELECT 1 FROM booked_slots
			WHERE status = $1
			  AND start_at < $3
			  AND start_at + (duration_minutes * interval '1 minute') > $2
		)`, StatusBooked, interval.Start, interval.End()).Scan(&exists)
	if err != nil {
		return nil, errors.NewPersistenceError("overlap check", err)
	}
	if exists {
		return nil, errors.NewSchedulingConflictError(
			"interval " + interval.Start.Format(time.RFC3339) + " already reserved")
	}

	slot := BookedSlot{
		ID:              uuid.New().String(),
		CandidateID:     candidateID,
		Start:           interval.Start,
		DurationMinutes: int(interval.Duration.Minutes()),
		Status:          StatusBooked,
		CreatedAt:       time.Now().UTC(),
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO booked_slots (
			id, candidate_id, start_at, duration_minutes, status, created_at
		) VALUES ($1, $2, $3, $4, $5, $6)`,
		slot.ID, slot.CandidateID, slot.Start, slot.DurationMinutes, slot.Status, slot.CreatedAt,
	)
	if err != nil {
		return nil, errors.NewPersistenceError("insert", err)
	}

	if err := tx.Commit(); err != nil {
		return nil, errors.NewPersistenceError("commit", err)
	}

	s.logger.Info("slot reserved", map[string]interface{}{
		"slotId":      slot.ID,
		"candidateId": candidateID,
		"start":       slot.Start,
	})

	return &slot, nil
}

func (s *PostgresStore) Cancel(ctx context.Context, slotID string) error {
	res, err := s.db.ExecContext(ctx, `
		UPDATE booked_slots SET status = $1 WHERE id = $2`,
		StatusCancelled, slotID,
	)
	if err != nil {
		return errors.NewPersistenceError("cancel", err)
	}

	affected, err := res.RowsAffected()
	if err != nil {
		return errors.NewPersistenceError("cancel", err)
	}
	if affected == 0 {
		return errors.NewBookingNotFoundError(slotID)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]BookedSlot, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, candidate_id, start_at, duration_minutes, status, created_at
		FROM booked_slots
		ORDER BY start_at ASC`)
	if err != nil {
		return nil, errors.NewPersistenceError("list", err)
	}
	defer rows.Close()

	var slots []BookedSlot
	for rows.Next() {
		var slot BookedSlot
		if err := rows.Scan(&slot.ID, &slot.CandidateID, &slot.Start, &slot.DurationMinutes, &slot.Status, &slot.CreatedAt); err != nil {
			return nil, errors.NewPersistenceError("scan", err)
		}
		slots = append(slots, slot)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewPersistenceError("list", err)
	}

	return slots, nil
}

func (s *PostgresStore) Clear(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, `DELETE FROM booked_slots`); err != nil {
		return errors.NewPersistenceError("clear", err)
	}
	return nil
}
