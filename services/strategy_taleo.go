package services

import (
	"context"
	"fmt"
	"log"
	"strings"
)

// TaleoStrategy covers Oracle Taleo career sections. Taleo nests the form
// in iframes and renders questions in table rows, so Prepare hunts for the
// frame actually holding the application and hands it back for field
// discovery.
type TaleoStrategy struct{}

func NewTaleoStrategy() *TaleoStrategy { return &TaleoStrategy{} }

func (s *TaleoStrategy) Name() string { return "taleo" }

func (s *TaleoStrategy) Prepare(ctx context.Context, page Page, prompter Prompter) (Page, error) {
	if err := page.WaitForLoad(ctx); err != nil {
		return nil, fmt.Errorf("waiting for taleo page: %v", err)
	}
	dismissOverlays(page)

	// The career section attaches its frames lazily; nudge the page to
	// the bottom so they are all present before the hunt.
	_ = page.Evaluate(`window.scrollTo(0, document.body.scrollHeight)`)

	target := Page(page)
	for _, frame := range page.Frames() {
		if strings.Contains(strings.ToLower(frame.FrameURL()), "taleo") {
			log.Printf("✓ Found taleo application frame: %s", frame.FrameURL())
			target = frame
			break
		}
	}

	// Taleo fronts the form with a masterlink Apply inside the frame.
	if clickFirstVisible(target, []string{`a.masterlink`}) {
		_ = target.WaitForLoad(ctx)
	}

	if err := resolveLoginWall(ctx, target, prompter); err != nil {
		return nil, err
	}
	return target, nil
}

func (s *TaleoStrategy) FieldSelectors() []string {
	return []string{
		`.questionwrapper`,
		`tr.contentlinerow`,
		`div[id*="requisitionDescriptionInterface"] div.field`,
		`td.iconcell + td`,
	}
}

func (s *TaleoStrategy) SubmitSelectors() []string {
	return []string{
		`#et-ef-content-0-submit-action`,
		`input[type="submit"][value*="Submit" i]`,
		`input[type="button"][value*="Submit" i]`,
	}
}

func (s *TaleoStrategy) SuccessIndicators() []string {
	return []string{
		"process completed",
		"thank you for your interest",
		"submission was successful",
	}
}
