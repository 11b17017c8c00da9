package services

import (
	"context"
	"log"
	"strings"
	"sync"
)

// ATSStrategy captures what differs between applicant tracking systems:
// where the question blocks live, what the submit button looks like, how a
// successful submission announces itself, and any system-specific
// preparation (cookie banners, multi-step wizards, login walls). The
// orchestrator stays the same across systems; only the strategy changes.
type ATSStrategy interface {
	Name() string

	// Prepare runs once after navigation, before field discovery. It
	// handles overlays and login walls; a login wall surfaces as
	// ErrLoginWall unless the prompter resolves it. The returned Page is
	// where the form actually lives; systems that nest the application
	// in an iframe hand back that frame instead of the top-level page.
	Prepare(ctx context.Context, page Page, prompter Prompter) (Page, error)

	// FieldSelectors lists question-container selectors in priority
	// order. The first selector with matches wins.
	FieldSelectors() []string

	// SubmitSelectors lists submit-button selectors in priority order.
	SubmitSelectors() []string

	// SuccessIndicators lists lowercase substrings that, found in the
	// page body or URL after submit, confirm the application landed.
	SuccessIndicators() []string
}

// StrategyFactory builds a fresh strategy instance per job.
type StrategyFactory func() ATSStrategy

// StrategyResolver maps an application URL to the right ATSStrategy by
// hostname substring. Unknown hosts get the generic strategy, so a new ATS
// degrades to best effort instead of failing outright.
type StrategyResolver struct {
	mu        sync.RWMutex
	patterns  []string // match order
	factories map[string]StrategyFactory
}

func NewStrategyResolver() *StrategyResolver {
	r := &StrategyResolver{factories: make(map[string]StrategyFactory)}
	r.Register("greenhouse", func() ATSStrategy { return NewGreenhouseStrategy() })
	r.Register("lever", func() ATSStrategy { return NewLeverStrategy() })
	r.Register("myworkday", func() ATSStrategy { return NewWorkdayStrategy() })
	r.Register("workday", func() ATSStrategy { return NewWorkdayStrategy() })
	r.Register("taleo", func() ATSStrategy { return NewTaleoStrategy() })
	// Ashby and iCIMS render conventionally enough that the generic
	// strategy handles them.
	r.Register("ashbyhq", func() ATSStrategy { return NewGenericStrategy() })
	r.Register("icims", func() ATSStrategy { return NewGenericStrategy() })
	return r
}

// Register adds or replaces a hostname-substring pattern. Later
// registrations with a new pattern match after earlier ones.
func (r *StrategyResolver) Register(pattern string, factory StrategyFactory) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.factories[pattern]; !exists {
		r.patterns = append(r.patterns, pattern)
	}
	r.factories[pattern] = factory
}

// Resolve picks the strategy for a URL. Always returns a usable strategy.
func (r *StrategyResolver) Resolve(url string) ATSStrategy {
	r.mu.RLock()
	defer r.mu.RUnlock()
	lower := strings.ToLower(url)
	for _, pattern := range r.patterns {
		if strings.Contains(lower, pattern) {
			s := r.factories[pattern]()
			log.Printf("✓ Detected ATS %q for %s", s.Name(), url)
			return s
		}
	}
	log.Printf("⚠️ Unknown ATS for %s, using generic strategy", url)
	return NewGenericStrategy()
}

// detectLoginWall checks for the markers shared by ATS sign-in pages and
// returns a description when one is present.
func detectLoginWall(page Page) (bool, string) {
	url := strings.ToLower(page.URL())
	for _, marker := range []string{"/login", "/signin", "sign-in", "sign_in", "authenticate"} {
		if strings.Contains(url, marker) {
			return true, "The page redirected to a sign-in screen: " + page.URL()
		}
	}
	for _, sel := range []string{`input[type="password"]`, `form[action*="login" i]`} {
		el, err := page.First(sel)
		if err != nil || el == nil {
			continue
		}
		if visible, err := el.IsVisible(); err == nil && visible {
			return true, "The application form is behind a sign-in wall"
		}
	}
	return false, ""
}

// clickFirstVisible clicks the first visible match among the selectors.
// Returns true when something was clicked.
func clickFirstVisible(page Page, selectors []string) bool {
	for _, sel := range selectors {
		el, err := page.First(sel)
		if err != nil || el == nil {
			continue
		}
		if visible, err := el.IsVisible(); err == nil && visible {
			if err := el.Click(); err == nil {
				log.Printf("✓ Clicked %s", sel)
				return true
			}
		}
	}
	return false
}

// clickApplyByText fuzzy-matches buttons and links against the apply
// vocabulary used across career sites.
func clickApplyByText(page Page) bool {
	vocabulary := []string{"start application", "apply", "match"}
	candidates, err := page.Locate(`button, a[role="button"], a[class*="apply" i]`)
	if err != nil {
		return false
	}
	for _, word := range vocabulary {
		for _, el := range candidates {
			text, err := el.TextContent()
			if err != nil {
				continue
			}
			if !strings.Contains(strings.ToLower(text), word) {
				continue
			}
			if visible, err := el.IsVisible(); err != nil || !visible {
				continue
			}
			if err := el.Click(); err == nil {
				log.Printf("✓ Clicked apply control %q", strings.TrimSpace(text))
				return true
			}
		}
	}
	return false
}

// hasFormInputs probes whether the page already shows a fillable form.
func hasFormInputs(page Page) bool {
	inputs, err := page.Locate(`form input, form select, form textarea`)
	return err == nil && len(inputs) > 0
}

// dismissOverlays clicks through the cookie banners that sit on top of most
// career pages. Best effort; missing banners are not an error.
func dismissOverlays(page Page) {
	selectors := []string{
		`#onetrust-accept-btn-handler`,
		`button[id*="cookie" i][id*="accept" i]`,
		`button[class*="cookie" i][class*="accept" i]`,
		`[data-testid="cookie-banner-accept"]`,
	}
	for _, sel := range selectors {
		el, err := page.First(sel)
		if err != nil || el == nil {
			continue
		}
		if visible, err := el.IsVisible(); err == nil && visible {
			if err := el.Click(); err == nil {
				log.Printf("✓ Dismissed overlay %s", sel)
			}
			return
		}
	}
}
