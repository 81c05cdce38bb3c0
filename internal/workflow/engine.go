// internal/workflow/engine.go
package workflow

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"hr-screening/internal/ai"
	"hr-screening/internal/allocator"
	"hr-screening/internal/common/config"
	"hr-screening/internal/common/errors"
	"hr-screening/internal/common/logger"
	"hr-screening/internal/common/metrics"
	"hr-screening/internal/models"
	"hr-screening/internal/results"
)

const minResumeLength = 50

// Resume text must mention at least two of these to be treated as a resume
// rather than arbitrary text.
var resumeIndicators = []string{
	"experience", "education", "skills", "work", "university",
	"degree", "project", "responsibilities", "employment",
}

// Notifier delivers generated communications. Failures surface as warnings,
// never as run errors.
type Notifier interface {
	SendEmail(ctx context.Context, candidate models.Candidate, email *models.EmailMessage) error
	SendSMS(ctx context.Context, candidate models.Candidate, message string) error
}

// Engine drives a screening run through its states:
// init, evaluating, routed, coordinating, finalized, with failed as the
// terminal error state. Failed runs are still finalized so every run leaves
// exactly one record behind.
type Engine struct {
	evaluator ai.Evaluator
	generator ai.ContentGenerator
	allocator *allocator.Allocator
	results   results.Store
	notifier  Notifier

	screening config.ScreeningConfig
	interview config.InterviewConfig
	logger    logger.Logger
}

// New builds an Engine. The notifier may be nil when no delivery channel is
// configured.
func New(
	evaluator ai.Evaluator,
	generator ai.ContentGenerator,
	alloc *allocator.Allocator,
	store results.Store,
	notifier Notifier,
	screening config.ScreeningConfig,
	interview config.InterviewConfig,
	log logger.Logger,
) *Engine {
	return &Engine{
		evaluator: evaluator,
		generator: generator,
		allocator: alloc,
		results:   store,
		notifier:  notifier,
		screening: screening,
		interview: interview,
		logger:    log.WithFields(map[string]interface{}{"component": "workflow"}),
	}
}

// Run screens one candidate against one job and returns the finalized state.
// The returned error, if any, is also recorded in the state and in the
// persisted record. Cancellation between states aborts the run but the run
// is still finalized.
func (e *Engine) Run(ctx context.Context, candidate models.Candidate, job models.JobRequirements) (*State, error) {
	state := &State{
		RunID:     uuid.New().String(),
		Candidate: candidate,
		Job:       job,
		Step:      StepInit,
		StartedAt: time.Now(),
	}

	log := e.logger.WithFields(map[string]interface{}{
		"runId":       state.RunID,
		"candidateId": candidate.ID,
	})
	log.Info("screening run started", map[string]interface{}{
		"jobTitle": job.Title,
	})

	steps := []struct {
		next Step
		run  func(context.Context, *State) error
	}{
		{StepEvaluating, e.evaluate},
		{StepRouted, e.route},
		{StepCoordinating, e.coordinate},
	}

	for _, step := range steps {
		if err := ctx.Err(); err != nil {
			e.fail(state, errors.NewRunAbortedError(string(state.Step), err))
			break
		}
		state.Step = step.next
		if err := step.run(ctx, state); err != nil {
			e.fail(state, err)
			break
		}
	}

	e.finalize(state)

	if state.Err != nil {
		log.WithError(state.Err).Error("screening run failed", map[string]interface{}{
			"step": string(state.Step),
		})
		return state, state.Err
	}

	log.Info("screening run finalized", map[string]interface{}{
		"decision": state.Decision,
		"score":    state.Evaluation.Score,
	})
	return state, nil
}

func (e *Engine) fail(state *State, err error) {
	state.Err = err
	state.Step = StepFailed
}

// evaluate validates the inputs and scores the resume, retrying transient
// evaluation failures up to the configured attempt bound with a fixed delay.
func (e *Engine) evaluate(ctx context.Context, state *State) error {
	if err := validateResume(state.Candidate.ResumeText); err != nil {
		return err
	}
	if err := validateRequirements(state.Job); err != nil {
		return err
	}

	var lastErr error
	for attempt := 1; attempt <= e.screening.Retry.MaxAttempts; attempt++ {
		eval, err := e.evaluator.Evaluate(ctx, state.Candidate.ResumeText, state.Job)
		if err == nil {
			metrics.EvaluationAttempts.WithLabelValues("success").Inc()
			state.Evaluation = eval
			return nil
		}

		metrics.EvaluationAttempts.WithLabelValues("failure").Inc()
		lastErr = err

		if !errors.IsRetryable(err) {
			return err
		}
		if attempt == e.screening.Retry.MaxAttempts {
			break
		}

		e.logger.Warn("evaluation attempt failed, retrying", map[string]interface{}{
			"runId":   state.RunID,
			"attempt": attempt,
			"error":   err.Error(),
		})

		select {
		case <-time.After(e.screening.Retry.Delay()):
		case <-ctx.Done():
			return errors.NewRunAbortedError(string(StepEvaluating), ctx.Err())
		}
	}

	return lastErr
}

// route derives the decision from the score. The decision depends on nothing
// but the score and the qualified threshold.
func (e *Engine) route(_ context.Context, state *State) error {
	state.Decision = Decide(state.Evaluation.Score, e.screening.Thresholds.Qualified)
	e.logger.Info("candidate routed", map[string]interface{}{
		"runId":    state.RunID,
		"score":    state.Evaluation.Score,
		"decision": state.Decision,
	})
	return nil
}

// Decide maps a score to a decision. Scores at or above the qualified
// threshold are accepted, everything below is rejected.
func Decide(score, qualifiedThreshold int) string {
	if score >= qualifiedThreshold {
		return models.DecisionAccept
	}
	return models.DecisionReject
}

// coordinate runs the decision branch: accepted candidates get questions, a
// slot and an invitation; rejected candidates get a rejection note. Content
// and delivery failures degrade to warnings, only slot exhaustion and
// allocation aborts are treated specially.
func (e *Engine) coordinate(ctx context.Context, state *State) error {
	if state.Decision != models.DecisionAccept {
		e.prepareRejection(ctx, state)
		e.deliver(ctx, state)
		return nil
	}

	questions, err := e.generator.GenerateQuestions(ctx, state.Evaluation, state.Job, e.interview.NumQuestions)
	if err != nil {
		state.warn(fmt.Sprintf("question generation failed: %v", err))
	} else {
		state.Questions = questions
	}

	state.Interviewers = SuggestInterviewers(state.Job)

	slot, err := e.allocator.Reserve(ctx, state.Candidate.ID, time.Now(), e.interview.Duration())
	switch {
	case err == nil:
		state.Slot = slot
	case errors.HasCode(err, errors.ErrCodeNoSlotFound):
		state.warn(fmt.Sprintf("no interview slot available: %v", err))
	default:
		return err
	}

	email, err := e.generator.GenerateEmail(ctx, state.Decision, state.Candidate, state.Job, state.Evaluation, state.Slot)
	if err != nil {
		state.warn(fmt.Sprintf("invitation generation failed: %v", err))
	} else {
		state.Email = email
	}

	e.deliver(ctx, state)
	return nil
}

func (e *Engine) prepareRejection(ctx context.Context, state *State) {
	email, err := e.generator.GenerateEmail(ctx, state.Decision, state.Candidate, state.Job, state.Evaluation, nil)
	if err != nil {
		state.warn(fmt.Sprintf("rejection generation failed: %v", err))
		return
	}
	state.Email = email
}

func (e *Engine) deliver(ctx context.Context, state *State) {
	if e.notifier == nil || state.Email == nil {
		return
	}
	if err := e.notifier.SendEmail(ctx, state.Candidate, state.Email); err != nil {
		state.warn(fmt.Sprintf("email delivery failed: %v", err))
	}
	if state.Slot != nil && state.Candidate.Phone != "" {
		msg := fmt.Sprintf("Your interview for %s is confirmed for %s.",
			state.Job.Title, state.Slot.Start.Format("Monday, January 2 at 15:04"))
		if err := e.notifier.SendSMS(ctx, state.Candidate, msg); err != nil {
			state.warn(fmt.Sprintf("sms delivery failed: %v", err))
		}
	}
}

// finalize writes the run record exactly once. It runs for every outcome,
// including failed and aborted runs, and is safe to call more than once.
func (e *Engine) finalize(state *State) {
	if state.finalized {
		return
	}
	state.finalized = true

	terminal := StepFinalized
	if state.Err != nil {
		terminal = StepFailed
	} else {
		state.Step = StepFinalized
	}

	record := e.buildRecord(state, terminal)

	// Persistence of the record must not depend on the caller's context.
	saveCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := e.results.Save(saveCtx, record); err != nil {
		e.logger.WithError(err).Error("failed to persist screening record", map[string]interface{}{
			"runId": state.RunID,
		})
	}

	metrics.RunsFinalized.WithLabelValues(record.Decision, string(terminal)).Inc()
	metrics.RunDuration.WithLabelValues(string(terminal)).Observe(time.Since(state.StartedAt).Seconds())
}

func (e *Engine) buildRecord(state *State, terminal Step) models.ScreeningRecord {
	record := models.ScreeningRecord{
		ID:            uuid.New().String(),
		RunID:         state.RunID,
		CandidateID:   state.Candidate.ID,
		CandidateName: state.Candidate.Name,
		JobTitle:      state.Job.Title,
		Evaluation:    state.Evaluation,
		Decision:      state.Decision,
		TerminalState: string(terminal),
		Warnings:      state.Warnings,
		FinalizedAt:   time.Now(),
	}
	if state.Err != nil {
		record.Error = state.Err.Error()
	}
	if state.Slot != nil {
		record.SlotID = state.Slot.ID
		start := state.Slot.Start
		record.SlotStart = &start
	}
	return record
}

func validateResume(text string) error {
	trimmed := strings.TrimSpace(text)
	if len(trimmed) < minResumeLength {
		return errors.NewResumeValidationError(fmt.Sprintf("resume text too short: %d characters", len(trimmed)))
	}

	lower := strings.ToLower(trimmed)
	found := 0
	for _, indicator := range resumeIndicators {
		if strings.Contains(lower, indicator) {
			found++
		}
	}
	if found < 2 {
		return errors.NewResumeValidationError("text does not look like a resume")
	}
	return nil
}

func validateRequirements(job models.JobRequirements) error {
	if strings.TrimSpace(job.Title) == "" {
		return errors.NewRequirementsValidationError("job title is required")
	}
	if len(job.RequiredSkills) == 0 {
		return errors.NewRequirementsValidationError("at least one required skill is needed")
	}
	return nil
}
