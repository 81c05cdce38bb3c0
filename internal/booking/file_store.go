// internal/booking/file_store.go
package booking

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"hr-screening/internal/common/errors"
	"hr-screening/internal/common/logger"

	"github.com/google/uuid"
)

// FileStore keeps reservations in a single JSON file. A process-wide mutex
// serializes the read-check-write sequence inside TryReserve, which is what
// upholds the no-overlap invariant under concurrent callers.
type FileStore struct {
	mu     sync.Mutex
	path   string
	logger logger.Logger
}

// NewFileStore creates a JSON-file-backed store at path.
func NewFileStore(path string, log logger.Logger) *FileStore {
	return &FileStore{
		path:   path,
		logger: log.WithFields(map[string]interface{}{"store": "file", "path": path}),
	}
}

func (s *FileStore) TryReserve(ctx context.Context, interval Interval, candidateID string) (*BookedSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := ctx.Err(); err != nil {
		return nil, errors.NewPersistenceError("reserve", err)
	}

	slots, err := s.load()
	if err != nil {
		return nil, err
	}

	for _, existing := range slots {
		if existing.Status != StatusBooked {
			continue
		}
		if interval.Overlaps(existing.Interval()) {
			return nil, errors.NewSchedulingConflictError(
				fmt.Sprintf("interval %s already reserved by slot %s", interval.Start.Format(time.RFC3339), existing.ID))
		}
	}

	slot := BookedSlot{
		ID:              uuid.New().String(),
		CandidateID:     candidateID,
		Start:           interval.Start,
		DurationMinutes: int(interval.Duration.Minutes()),
		Status:          StatusBooked,
		CreatedAt:       time.Now().UTC(),
	}
	slots = append(slots, slot)

	if err := s.save(slots); err != nil {
		return nil, err
	}

	s.logger.Info("slot reserved", map[string]interface{}{
		"slotId":      slot.ID,
		"candidateId": candidateID,
		"start":       slot.Start,
	})

	return &slot, nil
}

func (s *FileStore) Cancel(ctx context.Context, slotID string) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.load()
	if err != nil {
		return err
	}

	for i := range slots {
		if slots[i].ID == slotID {
			if slots[i].Status == StatusCancelled {
				return nil
			}
			slots[i].Status = StatusCancelled
			return s.save(slots)
		}
	}

	return errors.NewBookingNotFoundError(slotID)
}

func (s *FileStore) List(ctx context.Context) ([]BookedSlot, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	slots, err := s.load()
	if err != nil {
		return nil, err
	}

	sort.Slice(slots, func(i, j int) bool {
		return slots[i].Start.Before(slots[j].Start)
	})

	return slots, nil
}

func (s *FileStore) Clear(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.save([]BookedSlot{})
}

// load reads the slot file. A missing file is an empty store.
func (s *FileStore) load() ([]BookedSlot, error) {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if os.IsNotExist(err) {
			return []BookedSlot{}, nil
		}
		return nil, errors.NewPersistenceError("read", err)
	}
	if len(data) == 0 {
		return []BookedSlot{}, nil
	}

	var slots []BookedSlot
	if err := json.Unmarshal(data, &slots); err != nil {
		return nil, errors.NewPersistenceError("decode", err)
	}
	return slots, nil
}

// save writes atomically via a temp file and rename.
func (s *FileStore) save(slots []BookedSlot) error {
	if dir := filepath.Dir(s.path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return errors.NewPersistenceError("mkdir", err)
		}
	}

	data, err := json.MarshalIndent(slots, "", "  ")
	if err != nil {
		return errors.NewPersistenceError("encode", err)
	}

	tmp := s.path + ".tmp"
	if err := os.WriteFile(tmp, data, 0o644); err != nil {
		return errors.NewPersistenceError("write", err)
	}
	if err := os.Rename(tmp, s.path); err != nil {
		return errors.NewPersistenceError("rename", err)
	}
	return nil
}
