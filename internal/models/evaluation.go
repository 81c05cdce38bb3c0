package models

// Classification bands derived from score ranges. Independent of the
// accept/reject decision.
const (
	ClassificationStrongFit   = "strong_fit"
	ClassificationModerateFit = "moderate_fit"
	ClassificationNotSuitable = "not_suitable"
)

// Decision outcomes for a screened candidate. Review is a reserved
// outcome with no trigger condition yet.
const (
	DecisionAccept = "accept"
	DecisionReject = "reject"
	DecisionReview = "review"
)

// EvaluationResult is the structured output of the evaluation service.
// Produced once per candidate and immutable thereafter.
type EvaluationResult struct {
	Score           int      `json:"score"` // 0-100
	Classification  string   `json:"classification"`
	SkillMatchRatio float64  `json:"skillMatchRatio"` // 0.0-1.0
	Strengths       []string `json:"strengths"`
	Gaps            []string `json:"gaps"`
	Reasoning       string   `json:"reasoning"`
}

// InterviewQuestion is one generated question with its category and the
// rationale for asking it.
type InterviewQuestion struct {
	Question  string `json:"question"`
	Category  string `json:"category"`
	Reasoning string `json:"reasoning,omitempty"`
}

// EmailMessage is a generated candidate communication.
type EmailMessage struct {
	Subject string `json:"subject"`
	Body    string `json:"body"`
}
