// internal/jobs/candidates.go
package jobs

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/google/uuid"

	"hr-screening/internal/common/errors"
	"hr-screening/internal/models"
)

// LoadCandidates reads a JSON array of candidates from a file. Candidates
// without an ID are assigned one.
func LoadCandidates(path string) ([]models.Candidate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.NewResumeValidationError(fmt.Sprintf("read %s: %v", path, err))
	}

	var candidates []models.Candidate
	if err := json.Unmarshal(data, &candidates); err != nil {
		return nil, errors.NewResumeValidationError(fmt.Sprintf("decode candidates: %v", err))
	}
	if len(candidates) == 0 {
		return nil, errors.NewResumeValidationError("candidate file is empty")
	}

	for i := range candidates {
		if strings.TrimSpace(candidates[i].ID) == "" {
			candidates[i].ID = uuid.New().String()
		}
	}
	return candidates, nil
}
