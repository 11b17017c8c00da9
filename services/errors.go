package services

import "errors"

// Failure taxonomy for the automation engine. Field-level errors are
// recovered locally (skip the field, keep the job); job-level errors mark the
// job failed in the ledger and move on; only ledger corruption or a browser
// crash abort a batch.
var (
	// ErrElementNotFound: every resolver strategy was exhausted for a field.
	ErrElementNotFound = errors.New("element not found")

	// ErrFillValidation: a filled value did not read back as written.
	ErrFillValidation = errors.New("fill validation failed")

	// ErrAIUnavailable: missing key, timeout, or transport failure. Soft —
	// the decision engine falls back to heuristics.
	ErrAIUnavailable = errors.New("ai backend unavailable")

	// ErrAIInvalidAnswer: the model answered outside the option set.
	ErrAIInvalidAnswer = errors.New("ai answer not in options")

	// ErrNavigationFailed: a strategy could not reach the application form.
	ErrNavigationFailed = errors.New("navigation failed")

	// ErrLoginWall: an ATS demanded credentials; automation suspends for a
	// human rather than attempting credential entry.
	ErrLoginWall = errors.New("login wall detected")

	// ErrLedgerConflict: the job was already submitted. A skip, not a failure.
	ErrLedgerConflict = errors.New("job already submitted")
)
