// internal/ai/assistant.go
package ai

import (
	"context"

	"hr-screening/internal/booking"
	"hr-screening/internal/models"
)

// Evaluator scores a resume against job requirements. Implementations may be
// remote LLM backends or deterministic local scorers; the workflow engine
// only sees this interface.
type Evaluator interface {
	Evaluate(ctx context.Context, resumeText string, job models.JobRequirements) (*models.EvaluationResult, error)
}

// ContentGenerator produces candidate-facing content: interview questions and
// invitation/rejection emails. Failures are non-fatal to the workflow.
type ContentGenerator interface {
	GenerateQuestions(ctx context.Context, eval *models.EvaluationResult, job models.JobRequirements, count int) ([]models.InterviewQuestion, error)
	GenerateEmail(ctx context.Context, decision string, candidate models.Candidate, job models.JobRequirements, eval *models.EvaluationResult, slot *booking.BookedSlot) (*models.EmailMessage, error)
}
