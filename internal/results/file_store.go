// internal/results/file_store.go
package results

import (
	"bufio"
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"

	"hr-screening/internal/common/errors"
	"hr-screening/internal/common/logger"
	"hr-screening/internal/models"
)

// FileStore appends one JSON line per finalized run.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger logger.Logger
}

func NewFileStore(path string, log logger.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: log.WithFields(map[string]interface{}{"store": "results-file", "path": path}),
	}
}

func (s *FileStore) Save(ctx context.Context, record models.ScreeningRecord) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	existing, err := s.load()
	if err != nil {
		return err
	}
	for _, r := range existing {
		if r.RunID == record.RunID {
			// Already finalized; Save is a no-op.
			return nil
		}
	}

	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewPersistenceError("mkdir", err)
		}
	}

	line, err := json.Marshal(record)
	if err != nil {
		return errors.NewPersistenceError("encode", err)
	}

	f, err := os.OpenFile(s.path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
	if err != nil {
		return errors.NewPersistenceError("open", err)
	}
	defer f.Close()

	if _, err := f.Write(append(line, '\n')); err != nil {
		return errors.NewPersistenceError("write", err)
	}

	s.logger.Info("result persisted", map[string]interface{}{
		"runId":       record.RunID,
		"candidateId": record.CandidateID,
		"decision":    record.Decision,
	})
	return nil
}

func (s *FileStore) List(ctx context.Context) ([]models.ScreeningRecord, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.load()
}

func (s *FileStore) load() ([]models.ScreeningRecord, error) {
	f, err := os.Open(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []models.ScreeningRecord{}, nil
		}
		return nil, errors.NewPersistenceError("open", err)
	}
	defer f.Close()

	var records []models.ScreeningRecord
	scanner := bufio.NewScanner(f)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Bytes()
		if len(line) == 0 {
			continue
		}
		var r models.ScreeningRecord
		if err := json.Unmarshal(line, &r); err != nil {
			return nil, errors.NewPersistenceError("decode", err)
		}
		records = append(records, r)
	}
	if err := scanner.Err(); err != nil {
		return nil, errors.NewPersistenceError("read", err)
	}
	return records, nil
}
