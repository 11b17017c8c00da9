package models

import "time"

// Submission status values. A job ID transitions to StatusSubmitted at most
// once and is never offered for processing again afterwards.
const (
	StatusSubmitted = "submitted"
	StatusFailed    = "failed"
)

// SubmissionEntry is one row of the persisted dedup ledger.
type SubmissionEntry struct {
	Company     string     `json:"company"`
	JobTitle    string     `json:"job_title"`
	ApplyURL    string     `json:"apply_url"`
	Status      string     `json:"status"`
	SubmittedAt *time.Time `json:"submitted_at,omitempty"`
	FailedAt    *time.Time `json:"failed_at,omitempty"`
	Error       string     `json:"error,omitempty"`
	Evidence    string     `json:"evidence,omitempty"`
}
