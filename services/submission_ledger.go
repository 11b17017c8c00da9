package services

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"path/filepath"
	"sync"
	"time"

	"autoapply/models"
)

// SubmissionLedger is the at-most-once guarantee: a JSON file keyed by job
// ID recording every submission and failure. It is consulted before any
// browser work starts and written through a temp-file rename so a crash
// mid-write can never corrupt the history.
type SubmissionLedger struct {
	mu      sync.Mutex
	path    string
	entries map[string]models.SubmissionEntry
	now     func() time.Time
}

// OpenSubmissionLedger loads the ledger at path, creating an empty one when
// the file does not exist yet. A corrupt file is an error, not a silent
// reset: losing the dedup history means double applications.
func OpenSubmissionLedger(path string) (*SubmissionLedger, error) {
	l := &SubmissionLedger{
		path:    path,
		entries: make(map[string]models.SubmissionEntry),
		now:     time.Now,
	}
	raw, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return l, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading ledger: %w", err)
	}
	if len(raw) > 0 {
		if err := json.Unmarshal(raw, &l.entries); err != nil {
			return nil, fmt.Errorf("parsing ledger %s: %w", path, err)
		}
	}
	log.Printf("✓ Loaded submission ledger: %d entries", len(l.entries))
	return l, nil
}

// IsSubmitted reports whether this job already has a submitted entry.
// Failed entries do not count; failed jobs are retryable.
func (l *SubmissionLedger) IsSubmitted(jobID string) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	e, ok := l.entries[jobID]
	return ok && e.Status == models.StatusSubmitted
}

// MarkSubmitted records a successful submission. First write wins: a job
// already recorded as submitted is left untouched so the original timestamp
// and evidence survive re-runs.
func (l *SubmissionLedger) MarkSubmitted(jobID string, job models.Job, evidence string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[jobID]; ok && e.Status == models.StatusSubmitted {
		return nil
	}
	now := l.now()
	l.entries[jobID] = models.SubmissionEntry{
		Company:     job.Company,
		JobTitle:    job.Title,
		ApplyURL:    job.ApplyURL,
		Status:      models.StatusSubmitted,
		SubmittedAt: &now,
		Evidence:    evidence,
	}
	return l.persist()
}

// MarkFailed records a failed attempt. It never downgrades a submitted
// entry: a failure observed after a successful submit (flaky confirmation
// page, retried tab) must not reopen the job for re-application.
func (l *SubmissionLedger) MarkFailed(jobID string, job models.Job, reason string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	if e, ok := l.entries[jobID]; ok && e.Status == models.StatusSubmitted {
		return fmt.Errorf("%w: %s is already submitted", ErrLedgerConflict, jobID)
	}
	now := l.now()
	l.entries[jobID] = models.SubmissionEntry{
		Company:  job.Company,
		JobTitle: job.Title,
		ApplyURL: job.ApplyURL,
		Status:   models.StatusFailed,
		FailedAt: &now,
		Error:    reason,
	}
	return l.persist()
}

// Stats summarizes the ledger for reporting.
func (l *SubmissionLedger) Stats() (submitted, failed int) {
	l.mu.Lock()
	defer l.mu.Unlock()
	for _, e := range l.entries {
		switch e.Status {
		case models.StatusSubmitted:
			submitted++
		case models.StatusFailed:
			failed++
		}
	}
	return submitted, failed
}

// Entries returns a copy of the ledger contents.
func (l *SubmissionLedger) Entries() map[string]models.SubmissionEntry {
	l.mu.Lock()
	defer l.mu.Unlock()
	out := make(map[string]models.SubmissionEntry, len(l.entries))
	for k, v := range l.entries {
		out[k] = v
	}
	return out
}

// persist writes the whole ledger to a temp file in the same directory and
// renames it into place. Caller holds the mutex.
func (l *SubmissionLedger) persist() error {
	data, err := json.MarshalIndent(l.entries, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling ledger: %w", err)
	}

	dir := filepath.Dir(l.path)
	tmp, err := os.CreateTemp(dir, ".ledger-*.json")
	if err != nil {
		return fmt.Errorf("creating ledger temp file: %w", err)
	}
	tmpName := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return fmt.Errorf("writing ledger: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("closing ledger temp file: %w", err)
	}
	if err := os.Rename(tmpName, l.path); err != nil {
		os.Remove(tmpName)
		return fmt.Errorf("replacing ledger: %w", err)
	}
	return nil
}
