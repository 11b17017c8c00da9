package services

import (
	"context"
	"fmt"
)

// GenericStrategy is the fallback for unrecognized career sites (and for
// systems like Ashby and iCIMS that render close enough to a plain HTML
// form). It casts a wide net over common field-container markup.
type GenericStrategy struct{}

func NewGenericStrategy() *GenericStrategy { return &GenericStrategy{} }

func (s *GenericStrategy) Name() string { return "generic" }

func (s *GenericStrategy) Prepare(ctx context.Context, page Page, prompter Prompter) (Page, error) {
	if err := page.WaitForLoad(ctx); err != nil {
		return nil, fmt.Errorf("waiting for application page: %v", err)
	}
	dismissOverlays(page)

	// No form in sight yet: hunt for an apply control by its text.
	if !hasFormInputs(page) {
		if clickApplyByText(page) {
			_ = page.WaitForLoad(ctx)
		}
	}

	return page, resolveLoginWall(ctx, page, prompter)
}

func (s *GenericStrategy) FieldSelectors() []string {
	return []string{
		`form div.field`,
		`div[id^="question"]`,
		`form .form-group`,
		`form [class*="field" i]`,
		`form label`,
	}
}

func (s *GenericStrategy) SubmitSelectors() []string {
	return []string{
		`button[type="submit"]`,
		`input[type="submit"]`,
		`button[class*="submit" i]`,
	}
}

func (s *GenericStrategy) SuccessIndicators() []string {
	return []string{
		"thank you",
		"application received",
		"application submitted",
		"we have received",
	}
}
