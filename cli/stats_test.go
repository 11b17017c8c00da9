package cli

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"autoapply/models"
)

func TestEntryLineSubmitted(t *testing.T) {
	at := time.Date(2026, 3, 14, 9, 0, 0, 0, time.UTC)
	line := entryLine(models.SubmissionEntry{
		Status:      models.StatusSubmitted,
		JobTitle:    "Backend Engineer",
		Company:     "Acme",
		SubmittedAt: &at,
	})

	assert.Contains(t, line, "Backend Engineer @ Acme")
	assert.Contains(t, line, "2026-03-14")
}

func TestEntryLineSubmittedWithoutTimestamp(t *testing.T) {
	line := entryLine(models.SubmissionEntry{
		Status:   models.StatusSubmitted,
		JobTitle: "Backend Engineer",
		Company:  "Acme",
	})

	assert.Contains(t, line, "date unknown")
}

func TestEntryLineFailed(t *testing.T) {
	line := entryLine(models.SubmissionEntry{
		Status:   models.StatusFailed,
		JobTitle: "Backend Engineer",
		Company:  "Acme",
		Error:    "no submission confirmation found",
	})

	assert.Contains(t, line, "✗")
	assert.Contains(t, line, "no submission confirmation found")
}
