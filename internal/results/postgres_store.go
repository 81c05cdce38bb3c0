// internal/results/postgres_store.go
package results

import (
	"context"
	"database/sql"
	"encoding/json"

	"hr-screening/internal/common/errors"
	"hr-screening/internal/common/logger"
	"hr-screening/internal/models"
)

const createResultsTable = `
CREATE TABLE IF NOT EXISTS screening_results (
	id            TEXT PRIMARY KEY,
	run_id        TEXT NOT NULL UNIQUE,
	candidate_id  TEXT NOT NULL,
	record        JSONB NOT NULL,
	finalized_at  TIMESTAMPTZ NOT NULL
)`

// PostgresStore keeps finalized records in a screening_results table. The
// unique run_id constraint makes Save idempotent.
type PostgresStore struct {
	db     *sql.DB
	logger logger.Logger
}

func NewPostgresStore(db *sql.DB, log logger.Logger) *PostgresStore {
	return &PostgresStore{
		db:     db,
		logger: log.WithFields(map[string]interface{}{"store": "results-postgres"}),
	}
}

// EnsureSchema creates the screening_results table if it does not exist.
func (s *PostgresStore) EnsureSchema(ctx context.Context) error {
	if _, err := s.db.ExecContext(ctx, createResultsTable); err != nil {
		return errors.NewPersistenceError("ensure schema", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, record models.ScreeningRecord) error {
	payload, err := json.Marshal(record)
	if err != nil {
		return errors.NewPersistenceError("encode", err)
	}

	_, err = s.db.ExecContext(ctx, `
		INSERT INTO screening_results (id, run_id, candidate_id, record, finalized_at)
		VALUES ($1, $2, $3, $4, $5)
		ON CONFLICT (run_id) DO NOTHING`,
		record.ID, record.RunID, record.CandidateID, payload, record.FinalizedAt,
	)
	if err != nil {
		return errors.NewPersistenceError("insert", err)
	}
	return nil
}

func (s *PostgresStore) List(ctx context.Context) ([]models.ScreeningRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT record FROM screening_results ORDER BY finalized_at ASC`)
	if err != nil {
		return nil, errors.NewPersistenceError("list", err)
	}
	defer rows.Close()

	var records []models.ScreeningRecord
	for rows.Next() {
		var payload []byte
		if err := rows.Scan(&payload); err != nil {
			return nil, errors.NewPersistenceError("scan", err)
		}
		var r models.ScreeningRecord
		if err := json.Unmarshal(payload, &r); err != nil {
			return nil, errors.NewPersistenceError("decode", err)
		}
		records = append(records, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.NewPersistenceError("list", err)
	}
	return records, nil
}
