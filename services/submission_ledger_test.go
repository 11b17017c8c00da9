package services

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"autoapply/models"
)

func acmeJob() models.Job {
	return models.Job{
		Company:  "Acme",
		Title:    "Platform Engineer",
		ApplyURL: "https://boards.greenhouse.io/acme/jobs/123",
	}
}

func TestLedgerRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	job := acmeJob()

	ledger, err := OpenSubmissionLedger(path)
	require.NoError(t, err)
	assert.False(t, ledger.IsSubmitted(job.ID()))

	require.NoError(t, ledger.MarkSubmitted(job.ID(), job, "page confirms: thank you"))
	assert.True(t, ledger.IsSubmitted(job.ID()))

	// A fresh ledger over the same file sees the submission.
	reloaded, err := OpenSubmissionLedger(path)
	require.NoError(t, err)
	assert.True(t, reloaded.IsSubmitted(job.ID()))

	entry := reloaded.Entries()[job.ID()]
	assert.Equal(t, "Acme", entry.Company)
	assert.Equal(t, models.StatusSubmitted, entry.Status)
	assert.NotNil(t, entry.SubmittedAt)
	assert.Equal(t, "page confirms: thank you", entry.Evidence)
}

func TestLedgerMarkSubmittedIdempotent(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	job := acmeJob()

	ledger, err := OpenSubmissionLedger(path)
	require.NoError(t, err)

	require.NoError(t, ledger.MarkSubmitted(job.ID(), job, "first evidence"))
	first := ledger.Entries()[job.ID()]

	require.NoError(t, ledger.MarkSubmitted(job.ID(), job, "second evidence"))
	second := ledger.Entries()[job.ID()]

	assert.Equal(t, first.Evidence, second.Evidence)
	assert.Equal(t, first.SubmittedAt, second.SubmittedAt)
}

func TestLedgerFailedDoesNotDowngradeSubmitted(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	job := acmeJob()

	ledger, err := OpenSubmissionLedger(path)
	require.NoError(t, err)

	require.NoError(t, ledger.MarkSubmitted(job.ID(), job, "ok"))
	err = ledger.MarkFailed(job.ID(), job, "flaky confirmation page")
	assert.ErrorIs(t, err, ErrLedgerConflict)
	assert.True(t, ledger.IsSubmitted(job.ID()))
}

func TestLedgerFailedJobsAreRetryable(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	job := acmeJob()

	ledger, err := OpenSubmissionLedger(path)
	require.NoError(t, err)

	require.NoError(t, ledger.MarkFailed(job.ID(), job, "navigation timeout"))
	assert.False(t, ledger.IsSubmitted(job.ID()))

	// The retry succeeds and overwrites the failure.
	require.NoError(t, ledger.MarkSubmitted(job.ID(), job, "ok"))
	assert.True(t, ledger.IsSubmitted(job.ID()))
}

func TestLedgerStats(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	ledger, err := OpenSubmissionLedger(path)
	require.NoError(t, err)

	jobA := acmeJob()
	jobB := models.Job{Company: "Globex", Title: "SRE", ApplyURL: "https://jobs.lever.co/globex/1"}

	require.NoError(t, ledger.MarkSubmitted(jobA.ID(), jobA, "ok"))
	require.NoError(t, ledger.MarkFailed(jobB.ID(), jobB, "login wall"))

	submitted, failed := ledger.Stats()
	assert.Equal(t, 1, submitted)
	assert.Equal(t, 1, failed)
}

func TestLedgerCorruptFileIsAnError(t *testing.T) {
	path := filepath.Join(t.TempDir(), "ledger.json")
	require.NoError(t, os.WriteFile(path, []byte("{not json"), 0o644))

	_, err := OpenSubmissionLedger(path)
	assert.Error(t, err)
}

func TestJobIDStableAcrossCasing(t *testing.T) {
	a := models.Job{Company: "Acme", Title: "Platform Engineer", ApplyURL: "https://x/1"}
	b := models.Job{Company: "ACME", Title: "platform engineer", ApplyURL: "https://x/1"}
	c := models.Job{Company: "Acme", Title: "Platform Engineer", ApplyURL: "https://x/2"}

	assert.Equal(t, a.ID(), b.ID())
	assert.NotEqual(t, a.ID(), c.ID())
	assert.Len(t, a.ID(), 16)
}
