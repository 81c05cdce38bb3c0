// internal/jobs/loader.go
package jobs

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/xeipuuv/gojsonschema"

	"hr-screening/internal/common/errors"
	"hr-screening/internal/models"
)

const requirementsSchema = `{
	"type": "object",
	"required": ["title", "requiredSkills"],
	"properties": {
		"title": {"type": "string", "minLength": 1},
		"department": {"type": "string"},
		"requiredSkills": {
			"type": "array",
			"minItems": 1,
			"items": {"type": "string", "minLength": 1}
		},
		"preferredSkills": {
			"type": "array",
			"items": {"type": "string"}
		},
		"minYearsExperience": {"type": "number", "minimum": 0},
		"educationRequirements": {
			"type": "array",
			"items": {"type": "string"}
		},
		"responsibilities": {
			"type": "array",
			"items": {"type": "string"}
		}
	}
}`

// LoadRequirements reads and validates a job description from a JSON file.
func LoadRequirements(path string) (models.JobRequirements, error) {
	var job models.JobRequirements

	data, err := os.ReadFile(path)
	if err != nil {
		return job, errors.NewRequirementsValidationError(fmt.Sprintf("read %s: %v", path, err))
	}

	return ParseRequirements(data)
}

// ParseRequirements validates raw JSON against the requirements schema and
// decodes it.
func ParseRequirements(data []byte) (models.JobRequirements, error) {
	var job models.JobRequirements

	schemaLoader := gojsonschema.NewStringLoader(requirementsSchema)
	documentLoader := gojsonschema.NewBytesLoader(data)

	result, err := gojsonschema.Validate(schemaLoader, documentLoader)
	if err != nil {
		return job, errors.NewRequirementsValidationError(fmt.Sprintf("schema validation error: %v", err))
	}
	if !result.Valid() {
		details := ""
		for i, desc := range result.Errors() {
			if i > 0 {
				details += "; "
			}
			details += desc.String()
		}
		return job, errors.NewRequirementsValidationError(details)
	}

	if err := json.Unmarshal(data, &job); err != nil {
		return job, errors.NewRequirementsValidationError(fmt.Sprintf("decode job requirements: %v", err))
	}

	return job, nil
}
