package workflow

import (
	"strings"

	"hr-screening/internal/models"
)

var technicalTitleMarkers = []string{
	"engineer", "developer", "architect", "scientist", "analyst", "devops",
}

// SuggestInterviewers proposes an interview panel from the job description.
// An HR manager always attends; a department lead joins when the department
// is known; technical roles add a technical lead; senior roles add a peer.
func SuggestInterviewers(job models.JobRequirements) []string {
	panel := []string{"HR Manager"}

	if job.Department != "" {
		panel = append(panel, job.Department+" Lead")
	}

	title := strings.ToLower(job.Title)
	for _, marker := range technicalTitleMarkers {
		if strings.Contains(title, marker) {
			panel = append(panel, "Technical Lead")
			break
		}
	}

	if job.MinYearsExperience > 5 {
		panel = append(panel, "Senior Team Member")
	}

	return panel
}
