package services

import (
	"context"
	"fmt"
)

// LeverStrategy covers jobs.lever.co postings. Lever uses a single-page
// form with .application-question blocks and data-qa attributes on its
// controls.
type LeverStrategy struct{}

func NewLeverStrategy() *LeverStrategy { return &LeverStrategy{} }

func (s *LeverStrategy) Name() string { return "lever" }

func (s *LeverStrategy) Prepare(ctx context.Context, page Page, prompter Prompter) (Page, error) {
	if err := page.WaitForLoad(ctx); err != nil {
		return nil, fmt.Errorf("waiting for lever form: %v", err)
	}
	dismissOverlays(page)
	return page, resolveLoginWall(ctx, page, prompter)
}

func (s *LeverStrategy) FieldSelectors() []string {
	return []string{
		`.application-question`,
		`.application-field`,
		`li[class*="application-"]`,
	}
}

func (s *LeverStrategy) SubmitSelectors() []string {
	return []string{
		`button[data-qa="btn-submit"]`,
		`#btn-submit`,
		`button[type="submit"]`,
	}
}

func (s *LeverStrategy) SuccessIndicators() []string {
	return []string{
		"application submitted",
		"thank you for your interest",
		"we've received your application",
		"/thanks",
	}
}
