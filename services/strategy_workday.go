package services

import (
	"context"
	"fmt"
	"log"
)

// WorkdayStrategy covers *.myworkdayjobs.com tenants. Workday is a
// multi-step wizard behind an account wall, renders everything through
// data-automation-id attributes, and paginates the application, so Prepare
// leans on the human for the sign-in step and the orchestrator advances
// pages via the Next button exposed in SubmitSelectors order.
type WorkdayStrategy struct{}

func NewWorkdayStrategy() *WorkdayStrategy { return &WorkdayStrategy{} }

func (s *WorkdayStrategy) Name() string { return "workday" }

func (s *WorkdayStrategy) Prepare(ctx context.Context, page Page, prompter Prompter) (Page, error) {
	if err := page.WaitForLoad(ctx); err != nil {
		return nil, fmt.Errorf("waiting for workday page: %v", err)
	}
	dismissOverlays(page)

	// Workday almost always wants an applicant account before the form
	// appears. Click "Apply" / "Apply Manually" if it is offered, then
	// let the human clear the sign-in.
	for _, sel := range []string{
		`a[data-automation-id="adventureButton"]`,
		`button[data-automation-id="applyManually"]`,
		`a[data-automation-id="applyManually"]`,
	} {
		el, err := page.First(sel)
		if err != nil || el == nil {
			continue
		}
		if visible, err := el.IsVisible(); err == nil && visible {
			if err := el.Click(); err == nil {
				log.Printf("✓ Clicked workday apply entry %s", sel)
				_ = page.WaitForLoad(ctx)
			}
			break
		}
	}

	return page, resolveLoginWall(ctx, page, prompter)
}

func (s *WorkdayStrategy) FieldSelectors() []string {
	return []string{
		`div[data-automation-id="formField"]`,
		`div[data-automation-id*="formField-"]`,
		`fieldset[data-automation-id]`,
	}
}

func (s *WorkdayStrategy) SubmitSelectors() []string {
	return []string{
		`button[data-automation-id="bottom-navigation-next-button"]`,
		`button[data-automation-id="wd-CommandButton_uic_nextButton"]`,
		`button[data-automation-id="submitButton"]`,
	}
}

func (s *WorkdayStrategy) SuccessIndicators() []string {
	return []string{
		"application complete",
		"you've successfully applied",
		"successfully submitted",
		"thank you",
	}
}
