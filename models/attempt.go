package models

import (
	"database/sql"
	"time"
)

// ApplicationAttempt is one engine run against one job, persisted to the
// optional history database for later analysis. The JSON ledger remains the
// source of truth for dedup; this table only feeds accuracy reporting.
type ApplicationAttempt struct {
	ID        int       `json:"id"`
	RunID     string    `json:"run_id"`
	JobID     string    `json:"job_id"`
	Company   string    `json:"company"`
	Title     string    `json:"title"`
	ApplyURL  string    `json:"apply_url"`
	State     string    `json:"state"`
	Accuracy  float64   `json:"accuracy"`
	ErrorMsg  string    `json:"error_message,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ApplicationAttemptModel struct {
	DB *sql.DB
}

func NewApplicationAttemptModel(db *sql.DB) *ApplicationAttemptModel {
	return &ApplicationAttemptModel{DB: db}
}

// EnsureTable creates the attempts table if it does not exist yet.
func (m *ApplicationAttemptModel) EnsureTable() error {
	_, err := m.DB.Exec(`
		CREATE TABLE IF NOT EXISTS application_attempts (
			id SERIAL PRIMARY KEY,
			run_id TEXT NOT NULL,
			job_id TEXT NOT NULL,
			company TEXT NOT NULL,
			title TEXT NOT NULL,
			apply_url TEXT NOT NULL,
			state TEXT NOT NULL,
			accuracy DOUBLE PRECISION NOT NULL DEFAULT 0,
			error_message TEXT,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)
	`)
	return err
}

func (m *ApplicationAttemptModel) Create(a *ApplicationAttempt) error {
	query := `
		INSERT INTO application_attempts (run_id, job_id, company, title, apply_url, state, accuracy, error_message, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id, created_at
	`
	now := time.Now()
	return m.DB.QueryRow(query, a.RunID, a.JobID, a.Company, a.Title, a.ApplyURL,
		a.State, a.Accuracy, a.ErrorMsg, now).Scan(&a.ID, &a.CreatedAt)
}

// RecentByJob returns the most recent attempts for a job, newest first.
func (m *ApplicationAttemptModel) RecentByJob(jobID string, limit int) ([]ApplicationAttempt, error) {
	rows, err := m.DB.Query(`
		SELECT id, run_id, job_id, company, title, apply_url, state, accuracy, COALESCE(error_message, ''), created_at
		FROM application_attempts
		WHERE job_id = $1
		ORDER BY created_at DESC
		LIMIT $2
	`, jobID, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var attempts []ApplicationAttempt
	for rows.Next() {
		var a ApplicationAttempt
		if err := rows.Scan(&a.ID, &a.RunID, &a.JobID, &a.Company, &a.Title,
			&a.ApplyURL, &a.State, &a.Accuracy, &a.ErrorMsg, &a.CreatedAt); err != nil {
			return nil, err
		}
		attempts = append(attempts, a)
	}
	return attempts, rows.Err()
}
