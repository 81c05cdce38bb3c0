package local

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"hr-screening/internal/booking"
	"hr-screening/internal/models"
)

func TestGenerateQuestions(t *testing.T) {
	g := NewContentGenerator("TechCorp")

	questions, err := g.GenerateQuestions(context.Background(), nil, engineerJob, 8)
	require.NoError(t, err)
	require.Len(t, questions, 8)

	categories := make(map[string]int)
	for _, q := range questions {
		assert.NotEmpty(t, q.Question)
		assert.NotEmpty(t, q.Reasoning)
		categories[q.Category]++
	}
	assert.Equal(t, 3, categories["Technical"])
	assert.Equal(t, 2, categories["Behavioral"])
	assert.Equal(t, 2, categories["Experience"])
	assert.Equal(t, 1, categories["Problem-Solving"])
}

func TestGenerateQuestionsClampsCount(t *testing.T) {
	g := NewContentGenerator("TechCorp")

	questions, err := g.GenerateQuestions(context.Background(), nil, engineerJob, 100)
	require.NoError(t, err)
	assert.Len(t, questions, len(questionCategories))
}

func TestGenerateInvitationEmailWithSlot(t *testing.T) {
	g := NewContentGenerator("TechCorp")
	slot := &booking.BookedSlot{
		ID:              "slot-1",
		Start:           time.Date(2026, 2, 2, 10, 0, 0, 0, time.UTC),
		DurationMinutes: 60,
	}

	email, err := g.GenerateEmail(context.Background(), models.DecisionAccept,
		models.Candidate{Name: "Nimal Perera"}, engineerJob, nil, slot)
	require.NoError(t, err)

	assert.Contains(t, email.Subject, "Interview Invitation")
	assert.Contains(t, email.Body, "Nimal Perera")
	assert.Contains(t, email.Body, "Monday, February 2, 2026 at 10:00")
	assert.Contains(t, email.Body, "60 minutes")
}

func TestGenerateInvitationEmailWithoutSlot(t *testing.T) {
	g := NewContentGenerator("TechCorp")

	email, err := g.GenerateEmail(context.Background(), models.DecisionAccept,
		models.Candidate{Name: "Nimal Perera"}, engineerJob, nil, nil)
	require.NoError(t, err)

	assert.Contains(t, email.Body, "follow up shortly")
}

func TestGenerateRejectionEmail(t *testing.T) {
	g := NewContentGenerator("TechCorp")
	eval := &models.EvaluationResult{
		Score: 40,
		Gaps:  []string{"Missing required skill: Go"},
	}

	email, err := g.GenerateEmail(context.Background(), models.DecisionReject,
		models.Candidate{Name: "Sanduni Fernando"}, engineerJob, eval, nil)
	require.NoError(t, err)

	assert.Contains(t, email.Subject, "Your application")
	assert.Contains(t, email.Body, "not to move forward")
	assert.Contains(t, email.Body, "missing required skill: go")
}
