// internal/workflow/state.go
package workflow

import (
	"time"

	"hr-screening/internal/booking"
	"hr-screening/internal/models"
)

// Step identifies a position in the screening state machine.
type Step string

const (
	StepInit         Step = "init"
	StepEvaluating   Step = "evaluating"
	StepRouted       Step = "routed"
	StepCoordinating Step = "coordinating"
	StepFinalized    Step = "finalized"
	StepFailed       Step = "failed"
)

// State carries everything accumulated during one screening run. It moves
// strictly forward through the steps; Failed is terminal but still passes
// through finalization.
type State struct {
	RunID     string
	Candidate models.Candidate
	Job       models.JobRequirements

	Evaluation   *models.EvaluationResult
	Decision     string
	Slot         *booking.BookedSlot
	Questions    []models.InterviewQuestion
	Email        *models.EmailMessage
	Interviewers []string

	Step      Step
	Err       error
	Warnings  []string
	StartedAt time.Time

	finalized bool
}

func (s *State) warn(msg string) {
	s.Warnings = append(s.Warnings, msg)
}
