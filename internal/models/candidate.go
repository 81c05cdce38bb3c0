package models

// Candidate is the screening input for one workflow run.
type Candidate struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Email      string `json:"email,omitempty"`
	Phone      string `json:"phone,omitempty"`
	ResumeText string `json:"resumeText"`
}

// JobRequirements describes the position a candidate is screened against.
// Immutable once a run has started.
type JobRequirements struct {
	Title                 string   `json:"title"`
	Department            string   `json:"department,omitempty"`
	RequiredSkills        []string `json:"requiredSkills"`
	PreferredSkills       []string `json:"preferredSkills,omitempty"`
	MinYearsExperience    float64  `json:"minYearsExperience,omitempty"`
	EducationRequirements []string `json:"educationRequirements,omitempty"`
	Responsibilities      []string `json:"responsibilities,omitempty"`
}
