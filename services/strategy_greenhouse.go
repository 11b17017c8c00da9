package services

import (
	"context"
	"fmt"
)

// GreenhouseStrategy covers boards.greenhouse.io and embedded Greenhouse
// forms. Greenhouse renders every question in a div.field block with
// underscore-slug ids, which makes it the most predictable of the big ATSes.
type GreenhouseStrategy struct{}

func NewGreenhouseStrategy() *GreenhouseStrategy { return &GreenhouseStrategy{} }

func (s *GreenhouseStrategy) Name() string { return "greenhouse" }

func (s *GreenhouseStrategy) Prepare(ctx context.Context, page Page, prompter Prompter) (Page, error) {
	if err := page.WaitForLoad(ctx); err != nil {
		return nil, fmt.Errorf("waiting for greenhouse form: %v", err)
	}
	dismissOverlays(page)

	// Some boards hide the form behind an Apply trigger; if the form is
	// already inline there is nothing to click.
	if form, err := page.First(`#application_form`); err != nil || form == nil {
		clickFirstVisible(page, []string{`#apply_button`, `a[href*="#app"]`})
		_ = page.WaitForLoad(ctx)
	}

	return page, resolveLoginWall(ctx, page, prompter)
}

func (s *GreenhouseStrategy) FieldSelectors() []string {
	return []string{
		`#application_form div.field`,
		`#main_fields div.field`,
		`div[id^="question_"]`,
		`#custom_fields div.field`,
	}
}

func (s *GreenhouseStrategy) SubmitSelectors() []string {
	return []string{
		`#submit_app`,
		`input[type="submit"][value*="Submit" i]`,
		`button[type="submit"]`,
	}
}

func (s *GreenhouseStrategy) SuccessIndicators() []string {
	return []string{
		"thank you for applying",
		"application has been submitted",
		"your application was submitted",
		"confirmation",
	}
}

// resolveLoginWall gives the human one chance to clear a sign-in screen.
// If the wall is still there afterwards the job fails with ErrLoginWall.
func resolveLoginWall(ctx context.Context, page Page, prompter Prompter) error {
	walled, reason := detectLoginWall(page)
	if !walled {
		return nil
	}
	if err := prompter.WaitForHuman(ctx, reason); err != nil {
		return err
	}
	if walled, _ = detectLoginWall(page); walled {
		return fmt.Errorf("%w: still on sign-in screen after intervention", ErrLoginWall)
	}
	return nil
}
