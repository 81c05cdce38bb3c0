// internal/ai/gemini/screener.go
package gemini

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"

	"hr-screening/internal/booking"
	"hr-screening/internal/common/config"
	"hr-screening/internal/common/errors"
	"hr-screening/internal/common/logger"
	"hr-screening/internal/models"
)

type contentGenerator interface {
	GenerateContent(ctx context.Context, prompt string) (string, error)
}

// Screener evaluates resumes and drafts candidate communications through the
// Gemini backend. It satisfies both the Evaluator and ContentGenerator
// capability interfaces.
type Screener struct {
	generator  contentGenerator
	thresholds config.ThresholdConfig
	weights    map[string]float64
	company    string
	logger     logger.Logger
}

func NewScreener(generator contentGenerator, weights map[string]float64, thresholds config.ThresholdConfig, company string, log logger.Logger) *Screener {
	return &Screener{
		generator:  generator,
		thresholds: thresholds,
		weights:    weights,
		company:    company,
		logger:     log.WithFields(map[string]interface{}{"evaluator": "gemini"}),
	}
}

const evaluatePrompt = `You are an expert HR screener. Score the candidate resume below against the
job requirements. Weight the factors as: %s.

Respond with STRICT JSON only, no prose, matching:
{"score": <int 0-100>, "skillMatchRatio": <float 0-1>, "strengths": [<string>...], "gaps": [<string>...], "reasoning": <string>}

Job requirements:
%s

Resume:
%s
`

func (s *Screener) Evaluate(ctx context.Context, resumeText string, job models.JobRequirements) (*models.EvaluationResult, error) {
	jobJSON, err := json.MarshalIndent(job, "", "  ")
	if err != nil {
		return nil, errors.NewEvaluationParseError(fmt.Sprintf("marshal job requirements: %v", err))
	}

	prompt := fmt.Sprintf(evaluatePrompt, formatWeights(s.weights), jobJSON, resumeText)

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		// The transport layer does not distinguish timeouts from quota
		// errors; treat all call failures as transient.
		return nil, errors.NewEvaluationServiceError(err)
	}

	result, err := parseEvaluation(raw)
	if err != nil {
		return nil, err
	}

	result.Classification = classify(result.Score, s.thresholds)

	s.logger.Debug("resume evaluated", map[string]interface{}{
		"score":          result.Score,
		"classification": result.Classification,
	})

	return result, nil
}

func (s *Screener) GenerateQuestions(ctx context.Context, eval *models.EvaluationResult, job models.JobRequirements, count int) ([]models.InterviewQuestion, error) {
	prompt := fmt.Sprintf(`You are an expert interviewer. Generate %d interview questions for a %s
candidate. Mix Technical, Behavioral, Experience and Problem-Solving
categories. Candidate strengths: %s. Areas to probe: %s.

Respond with STRICT JSON only:
[{"question": <string>, "category": <string>, "reasoning": <string>}, ...]`,
		count, job.Title,
		strings.Join(eval.Strengths, "; "),
		strings.Join(eval.Gaps, "; "))

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, errors.NewContentGenerationError("questions", err)
	}

	var questions []models.InterviewQuestion
	if err := json.Unmarshal([]byte(extractJSON(raw)), &questions); err != nil {
		return nil, errors.NewContentGenerationError("questions", fmt.Errorf("parse response: %w", err))
	}

	return questions, nil
}

func (s *Screener) GenerateEmail(ctx context.Context, decision string, candidate models.Candidate, job models.JobRequirements, eval *models.EvaluationResult, slot *booking.BookedSlot) (*models.EmailMessage, error) {
	name := candidate.Name
	if name == "" {
		name = "Candidate"
	}

	var prompt string
	if decision == models.DecisionAccept {
		slotText := "no slot has been scheduled yet; promise a follow-up with times"
		if slot != nil {
			slotText = fmt.Sprintf("the interview is scheduled for %s, duration %d minutes; ask the candidate to confirm this exact time",
				slot.Start.Format("Monday, January 2, 2006 at 15:04 (MST)"), slot.DurationMinutes)
		}
		prompt = fmt.Sprintf(`Write a warm, professional interview invitation email from %s to %s
for the %s position. Present exactly one time slot: %s.
Candidate strengths: %s.

Respond with STRICT JSON only: {"subject": <string>, "body": <string>}`,
			s.company, name, job.Title, slotText, strings.Join(eval.Strengths, "; "))
	} else {
		feedback := "the role requirements"
		if eval != nil && len(eval.Gaps) > 0 {
			feedback = strings.Join(eval.Gaps[:min(2, len(eval.Gaps))], "; ")
		}
		prompt = fmt.Sprintf(`Write a respectful, empathetic rejection email from %s to %s for the
%s position. Thank them, give brief constructive feedback (%s), and
encourage future applications.

Respond with STRICT JSON only: {"subject": <string>, "body": <string>}`,
			s.company, name, job.Title, feedback)
	}

	raw, err := s.generator.GenerateContent(ctx, prompt)
	if err != nil {
		return nil, errors.NewContentGenerationError("email", err)
	}

	var email models.EmailMessage
	if err := json.Unmarshal([]byte(extractJSON(raw)), &email); err != nil {
		return nil, errors.NewContentGenerationError("email", fmt.Errorf("parse response: %w", err))
	}

	return &email, nil
}

func parseEvaluation(raw string) (*models.EvaluationResult, error) {
	cleaned := extractJSON(raw)

	var payload struct {
		Score           float64  `json:"score"`
		SkillMatchRatio float64  `json:"skillMatchRatio"`
		Strengths       []string `json:"strengths"`
		Gaps            []string `json:"gaps"`
		Reasoning       string   `json:"reasoning"`
	}
	if err := json.Unmarshal([]byte(cleaned), &payload); err != nil {
		return nil, errors.NewEvaluationParseError(fmt.Sprintf("parse gemini response: %v", err))
	}

	score := int(payload.Score)
	if score < 0 || score > 100 {
		return nil, errors.NewEvaluationParseError(fmt.Sprintf("score %d outside [0,100]", score))
	}
	if payload.SkillMatchRatio < 0 || payload.SkillMatchRatio > 1 {
		return nil, errors.NewEvaluationParseError(fmt.Sprintf("skillMatchRatio %.3f outside [0,1]", payload.SkillMatchRatio))
	}

	return &models.EvaluationResult{
		Score:           score,
		SkillMatchRatio: payload.SkillMatchRatio,
		Strengths:       payload.Strengths,
		Gaps:            payload.Gaps,
		Reasoning:       payload.Reasoning,
	}, nil
}

func classify(score int, th config.ThresholdConfig) string {
	switch {
	case score >= th.StrongFit:
		return models.ClassificationStrongFit
	case score >= th.ModerateFit:
		return models.ClassificationModerateFit
	default:
		return models.ClassificationNotSuitable
	}
}

func formatWeights(weights map[string]float64) string {
	parts := make([]string, 0, len(weights))
	for name, w := range weights {
		parts = append(parts, fmt.Sprintf("%s=%.2f", name, w))
	}
	return strings.Join(parts, ", ")
}

// extractJSON strips markdown code fences Gemini sometimes wraps around JSON.
func extractJSON(raw string) string {
	raw = strings.TrimSpace(raw)
	if strings.HasPrefix(raw, "```") {
		raw = strings.TrimPrefix(raw, "```json")
		raw = strings.TrimPrefix(raw, "```")
		raw = strings.TrimSpace(raw)
		if idx := strings.LastIndex(raw, "```"); idx != -1 {
			raw = raw[:idx]
		}
	}
	return strings.Trim(strings.TrimSpace(raw), "`")
}
