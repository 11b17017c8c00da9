package services

import (
	"context"
	"fmt"
	"log"
	"strings"
	"time"
)

// ElementResolver locates form controls by their human-readable question
// label rather than by a single brittle selector. Resolution walks an
// ordered list of strategies and only ever returns visible elements, so a
// hidden template input never shadows the control the applicant would see.
type ElementResolver struct {
	page       Page
	maxRetries int
	wait       func(ctx context.Context, d time.Duration) error
}

func NewElementResolver(page Page) *ElementResolver {
	return &ElementResolver{page: page, maxRetries: 3, wait: waitCtx}
}

func waitCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}

type resolveStrategy struct {
	name string
	find func(page Page, label string) (Element, error)
}

var resolveStrategies = []resolveStrategy{
	{"id-slug", findByIDSlug},
	{"label-text", findByLabelText},
	{"name-attr", findByNameAttr},
	{"placeholder", findByPlaceholder},
	{"role-text", findByRoleText},
}

// Resolve tries each strategy in priority order and returns the first
// visible match, or ErrElementNotFound.
func (r *ElementResolver) Resolve(label string) (Element, error) {
	for _, s := range resolveStrategies {
		el, err := s.find(r.page, label)
		if err != nil || el == nil {
			continue
		}
		visible, err := el.IsVisible()
		if err != nil || !visible {
			continue
		}
		return el, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrElementNotFound, label)
}

// FillWithRetry resolves the field fresh on every attempt, fills it, and
// verifies the value actually stuck by reading it back. Stale-element and
// re-rendered-form failures heal on the next attempt; backoff doubles each
// round. Returns false once maxRetries attempts are exhausted.
func (r *ElementResolver) FillWithRetry(ctx context.Context, label, value string) (bool, error) {
	for attempt := 1; attempt <= r.maxRetries; attempt++ {
		if err := ctx.Err(); err != nil {
			return false, err
		}

		el, err := r.Resolve(label)
		if err == nil {
			if fillErr := el.Fill(value); fillErr == nil {
				got, readErr := el.InputValue()
				if readErr == nil && got == value {
					return true, nil
				}
				log.Printf("⚠️ %v for %q (attempt %d): got %q", ErrFillValidation, label, attempt, got)
			}
		} else {
			log.Printf("⚠️ Could not resolve %q (attempt %d): %v", label, attempt, err)
		}

		if attempt < r.maxRetries {
			backoff := time.Duration(1<<uint(attempt)) * time.Second
			if err := r.wait(ctx, backoff); err != nil {
				return false, err
			}
		}
	}
	return false, nil
}

// findByIDSlug tries the common ATS habit of deriving element ids from the
// question text: "First Name" -> #first_name, then #first-name.
func findByIDSlug(page Page, label string) (Element, error) {
	slug := strings.ToLower(strings.TrimSpace(label))
	slug = strings.Map(func(r rune) rune {
		switch {
		case r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		case r == ' ' || r == '_' || r == '-':
			return ' '
		default:
			return -1
		}
	}, slug)
	fields := strings.Fields(slug)
	if len(fields) == 0 {
		return nil, ErrElementNotFound
	}
	for _, sep := range []string{"_", "-"} {
		el, err := page.First("#" + strings.Join(fields, sep))
		if err == nil && el != nil {
			return el, nil
		}
	}
	return nil, ErrElementNotFound
}

// findByLabelText matches a <label> containing the question text and follows
// its for= attribute to the control.
func findByLabelText(page Page, label string) (Element, error) {
	labels, err := page.Locate("label")
	if err != nil {
		return nil, err
	}
	want := strings.ToLower(strings.TrimSpace(label))
	for _, lab := range labels {
		text, err := lab.TextContent()
		if err != nil {
			continue
		}
		if !strings.Contains(strings.ToLower(text), want) {
			continue
		}
		forAttr, err := lab.GetAttribute("for")
		if err != nil || forAttr == "" {
			// Control may be nested inside the label.
			if nested, err := lab.First("input, select, textarea"); err == nil && nested != nil {
				return nested, nil
			}
			continue
		}
		if el, err := page.First("#" + forAttr); err == nil && el != nil {
			return el, nil
		}
	}
	return nil, ErrElementNotFound
}

func findByNameAttr(page Page, label string) (Element, error) {
	want := strings.ToLower(strings.TrimSpace(label))
	candidates := []string{
		fmt.Sprintf(`input[name*=%q i]`, strings.ReplaceAll(want, " ", "_")),
		fmt.Sprintf(`input[type=%q]`, want),
		fmt.Sprintf(`select[name*=%q i]`, strings.ReplaceAll(want, " ", "_")),
	}
	for _, sel := range candidates {
		if el, err := page.First(sel); err == nil && el != nil {
			return el, nil
		}
	}
	return nil, ErrElementNotFound
}

func findByPlaceholder(page Page, label string) (Element, error) {
	sel := fmt.Sprintf(`input[placeholder*=%q i], textarea[placeholder*=%q i]`,
		strings.TrimSpace(label), strings.TrimSpace(label))
	el, err := page.First(sel)
	if err != nil || el == nil {
		return nil, ErrElementNotFound
	}
	return el, nil
}

// findByRoleText matches buttons and links by their visible text, which is
// how submit controls are usually found.
func findByRoleText(page Page, label string) (Element, error) {
	want := strings.ToLower(strings.TrimSpace(label))
	buttons, err := page.Locate(`button, input[type="submit"], a[role="button"]`)
	if err != nil {
		return nil, err
	}
	for _, b := range buttons {
		text, err := b.TextContent()
		if err != nil || text == "" {
			if v, verr := b.GetAttribute("value"); verr == nil {
				text = v
			}
		}
		if strings.Contains(strings.ToLower(text), want) {
			return b, nil
		}
	}
	return nil, ErrElementNotFound
}
