// internal/ai/local/generator.go
package local

import (
	"context"
	"fmt"
	"strings"

	"hr-screening/internal/booking"
	"hr-screening/internal/models"
)

const signature = "Best regards,\nThe Talent Team"

var questionCategories = []string{
	"Technical", "Technical", "Technical",
	"Behavioral", "Behavioral",
	"Experience", "Experience",
	"Problem-Solving",
}

// ContentGenerator produces template-based questions and emails without a
// remote backend.
type ContentGenerator struct {
	CompanyName string
}

func NewContentGenerator(companyName string) *ContentGenerator {
	if companyName == "" {
		companyName = "Our Company"
	}
	return &ContentGenerator{CompanyName: companyName}
}

func (g *ContentGenerator) GenerateQuestions(_ context.Context, eval *models.EvaluationResult, job models.JobRequirements, count int) ([]models.InterviewQuestion, error) {
	if count <= 0 || count > len(questionCategories) {
		count = len(questionCategories)
	}

	topics := append([]string{}, job.RequiredSkills...)
	if len(topics) == 0 {
		topics = []string{job.Title}
	}

	questions := make([]models.InterviewQuestion, 0, count)
	for i := 0; i < count; i++ {
		category := questionCategories[i%len(questionCategories)]
		topic := topics[i%len(topics)]

		var q string
		switch category {
		case "Technical":
			q = fmt.Sprintf("Walk us through a project where you used %s. What trade-offs did you make?", topic)
		case "Behavioral":
			q = fmt.Sprintf("Describe a time you disagreed with a teammate about an approach involving %s. How was it resolved?", topic)
		case "Experience":
			q = fmt.Sprintf("What has been your most significant accomplishment related to %s?", topic)
		default:
			q = fmt.Sprintf("How would you debug an unfamiliar failure in a %s system under time pressure?", topic)
		}

		questions = append(questions, models.InterviewQuestion{
			Question:  q,
			Category:  category,
			Reasoning: fmt.Sprintf("Probes %s depth relevant to the %s role", topic, job.Title),
		})
	}

	return questions, nil
}

func (g *ContentGenerator) GenerateEmail(_ context.Context, decision string, candidate models.Candidate, job models.JobRequirements, eval *models.EvaluationResult, slot *booking.BookedSlot) (*models.EmailMessage, error) {
	name := candidate.Name
	if name == "" {
		name = "Candidate"
	}

	if decision == models.DecisionAccept {
		var slotLine string
		if slot != nil {
			slotLine = fmt.Sprintf(
				"Your interview is scheduled for %s and will last %d minutes. Please confirm your availability for this time.",
				slot.Start.Format("Monday, January 2, 2006 at 15:04 (MST)"), slot.DurationMinutes)
		} else {
			slotLine = "We were unable to schedule a time slot yet; our team will follow up shortly with available times."
		}

		body := strings.Join([]string{
			fmt.Sprintf("Dear %s,", name),
			fmt.Sprintf("Thank you for applying for the %s position at %s. We were impressed by your background and would like to invite you to an interview.", job.Title, g.CompanyName),
			slotLine,
			signature,
		}, "\n\n")

		return &models.EmailMessage{
			Subject: fmt.Sprintf("Interview Invitation - %s at %s", job.Title, g.CompanyName),
			Body:    body,
		}, nil
	}

	feedback := "the role requirements"
	if eval != nil && len(eval.Gaps) > 0 {
		feedback = strings.ToLower(strings.TrimSuffix(eval.Gaps[0], "."))
	}

	body := strings.Join([]string{
		fmt.Sprintf("Dear %s,", name),
		fmt.Sprintf("Thank you for your interest in the %s position at %s and for the time you invested in your application.", job.Title, g.CompanyName),
		fmt.Sprintf("After careful review, we have decided not to move forward at this time. The main consideration was %s.", feedback),
		"We encourage you to apply for future openings that match your experience.",
		signature,
	}, "\n\n")

	return &models.EmailMessage{
		Subject: fmt.Sprintf("Your application for %s at %s", job.Title, g.CompanyName),
		Body:    body,
	}, nil
}
