package models

import "time"

// ScreeningRecord is the persisted outcome of one workflow run, written
// exactly once at finalization.
type ScreeningRecord struct {
	ID            string            `json:"id"`
	RunID         string            `json:"runId"`
	CandidateID   string            `json:"candidateId"`
	CandidateName string            `json:"candidateName,omitempty"`
	JobTitle      string            `json:"jobTitle"`
	Evaluation    *EvaluationResult `json:"evaluation,omitempty"`
	Decision      string            `json:"decision,omitempty"`
	SlotID        string            `json:"slotId,omitempty"`
	SlotStart     *time.Time        `json:"slotStart,omitempty"`
	TerminalState string            `json:"terminalState"`
	Error         string            `json:"error,omitempty"`
	Warnings      []string          `json:"warnings,omitempty"`
	FinalizedAt   time.Time         `json:"finalizedAt"`
}
