// internal/ai/local/evaluator.go
package local

import (
	"context"
	"fmt"
	"math"
	"regexp"
	"strconv"
	"strings"

	"hr-screening/internal/common/config"
	"hr-screening/internal/common/logger"
	"hr-screening/internal/models"
)

var yearsPattern = regexp.MustCompile(`(\d{1,2})\s*\+?\s*years?`)

// Evaluator is a deterministic scorer over raw resume text. It has no network
// dependency, which makes it the default backend for tests and offline runs.
type Evaluator struct {
	weights    map[string]float64
	thresholds config.ThresholdConfig
	logger     logger.Logger
}

func NewEvaluator(weights map[string]float64, thresholds config.ThresholdConfig, log logger.Logger) *Evaluator {
	return &Evaluator{
		weights:    weights,
		thresholds: thresholds,
		logger:     log.WithFields(map[string]interface{}{"evaluator": "local"}),
	}
}

func (e *Evaluator) Evaluate(_ context.Context, resumeText string, job models.JobRequirements) (*models.EvaluationResult, error) {
	text := strings.ToLower(resumeText)

	matched, missing := matchSkills(text, job.RequiredSkills)
	skillRatio := 1.0
	if len(job.RequiredSkills) > 0 {
		skillRatio = float64(len(matched)) / float64(len(job.RequiredSkills))
	}

	expComponent := experienceComponent(text, job.MinYearsExperience)
	eduComponent := educationComponent(text, job.EducationRequirements)
	relComponent := relevanceComponent(text, job.Title)

	weighted := e.weights["skills_match"]*skillRatio +
		e.weights["experience_years"]*expComponent +
		e.weights["education"]*eduComponent +
		e.weights["relevance"]*relComponent

	score := int(math.Round(weighted * 100))
	if score > 100 {
		score = 100
	}
	if score < 0 {
		score = 0
	}

	strengths := make([]string, 0, len(matched))
	for _, s := range matched {
		strengths = append(strengths, "Has required skill: "+s)
	}
	gaps := make([]string, 0, len(missing))
	for _, s := range missing {
		gaps = append(gaps, "Missing required skill: "+s)
	}
	if expComponent < 1.0 && job.MinYearsExperience > 0 {
		gaps = append(gaps, fmt.Sprintf("May not meet the %.0f-year experience requirement", job.MinYearsExperience))
	}

	result := &models.EvaluationResult{
		Score:           score,
		Classification:  classify(score, e.thresholds),
		SkillMatchRatio: skillRatio,
		Strengths:       strengths,
		Gaps:            gaps,
		Reasoning: fmt.Sprintf(
			"Deterministic keyword evaluation: %d/%d required skills matched, experience component %.2f, education component %.2f, relevance component %.2f.",
			len(matched), len(job.RequiredSkills), expComponent, eduComponent, relComponent),
	}

	e.logger.Debug("resume evaluated", map[string]interface{}{
		"score":          result.Score,
		"classification": result.Classification,
		"skillMatch":     result.SkillMatchRatio,
	})

	return result, nil
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

// matchSkills case-insensitively checks each required skill against the
// resume text.
func matchSkills(text string, required []string) (matched, missing []string) {
	for _, skill := range required {
		if strings.Contains(text, strings.ToLower(strings.TrimSpace(skill))) {
			matched = append(matched, skill)
		} else {
			missing = append(missing, skill)
		}
	}
	return matched, missing
}

// experienceComponent compares the largest "N years" mention against the
// minimum requirement. No requirement scores full marks.
func experienceComponent(text string, minYears float64) float64 {
	if minYears <= 0 {
		return 1.0
	}

	best := 0
	for _, m := range yearsPattern.FindAllStringSubmatch(text, -1) {
		if n, err := strconv.Atoi(m[1]); err == nil && n > best {
			best = n
		}
	}

	if float64(best) >= minYears {
		return 1.0
	}
	return float64(best) / minYears
}

func educationComponent(text string, requirements []string) float64 {
	if len(requirements) == 0 {
		return 1.0
	}
	hits := 0
	for _, req := range requirements {
		for _, word := range strings.Fields(strings.ToLower(req)) {
			if len(word) >= 4 && strings.Contains(text, word) {
				hits++
				break
			}
		}
	}
	return float64(hits) / float64(len(requirements))
}

func relevanceComponent(text, title string) float64 {
	words := strings.Fields(strings.ToLower(title))
	if len(words) == 0 {
		return 1.0
	}
	hits := 0
	for _, w := range words {
		if strings.Contains(text, w) {
			hits++
		}
	}
	return float64(hits) / float64(len(words))
}
