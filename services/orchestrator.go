package services

import (
	"context"
	"errors"
	"fmt"
	"log"
	"strings"

	"autoapply/models"
)

// FillState is the orchestrator's position in the application lifecycle.
type FillState string

const (
	StatePending        FillState = "pending"
	StateNavigating     FillState = "navigating"
	StateFilling        FillState = "filling"
	StateValidating     FillState = "validating"
	StateSubmitted      FillState = "submitted"
	StateReadyForReview FillState = "ready_for_review"
	StateFailed         FillState = "failed"
	StateSkipped        FillState = "skipped"
)

// FillResult is what one job attempt produced.
type FillResult struct {
	State    FillState
	Report   *models.ValidationReport
	Evidence string
	Err      error
}

// FormFillOrchestrator drives a single application end to end: dedup gate,
// navigation, strategy-directed field discovery, answering, validation, and
// (only when explicitly enabled) submission. The default terminal state is
// ReadyForReview with the form filled and the browser left open for a human
// to pull the trigger.
type FormFillOrchestrator struct {
	page       Page
	form       Page // where the form lives; an iframe on some systems
	strategies *StrategyResolver
	resolver   *ElementResolver
	humanizer  *Humanizer
	engine     *DecisionEngine
	compliance *ComplianceRules
	validator  *FormValidator
	ledger     *SubmissionLedger
	prompter   Prompter
	profile    *models.Profile

	// jobContext carries the current posting's description into free-text
	// answer generation.
	jobContext string

	// AutoSubmit actually clicks the submit button. Off by default.
	AutoSubmit bool
}

func NewFormFillOrchestrator(
	page Page,
	strategies *StrategyResolver,
	engine *DecisionEngine,
	compliance *ComplianceRules,
	ledger *SubmissionLedger,
	prompter Prompter,
	profile *models.Profile,
) *FormFillOrchestrator {
	resolver := NewElementResolver(page)
	return &FormFillOrchestrator{
		page:       page,
		form:       page,
		strategies: strategies,
		resolver:   resolver,
		humanizer:  NewHumanizer(page.Mouse()),
		engine:     engine,
		compliance: compliance,
		validator:  NewFormValidator(resolver),
		ledger:     ledger,
		prompter:   prompter,
		profile:    profile,
	}
}

// ProcessJob runs the full lifecycle for one job. The returned result always
// carries a terminal state; the ledger is updated before the function
// returns for both success and failure.
func (o *FormFillOrchestrator) ProcessJob(ctx context.Context, job models.Job, resumePath string) FillResult {
	jobID := job.ID()
	log.Printf("=== PROCESSING %s @ %s ===", job.Title, job.Company)

	if o.ledger.IsSubmitted(jobID) {
		log.Printf("✓ Already submitted, skipping: %s @ %s", job.Title, job.Company)
		return FillResult{State: StateSkipped}
	}

	result := o.run(ctx, job, resumePath)

	switch result.State {
	case StateSubmitted:
		if err := o.ledger.MarkSubmitted(jobID, job, result.Evidence); err != nil {
			log.Printf("⚠️ Ledger write failed for %s: %v", jobID, err)
		}
	case StateFailed:
		msg := "unknown failure"
		if result.Err != nil {
			msg = result.Err.Error()
		}
		if err := o.ledger.MarkFailed(jobID, job, msg); err != nil {
			log.Printf("⚠️ Ledger write failed for %s: %v", jobID, err)
		}
	}
	return result
}

func (o *FormFillOrchestrator) run(ctx context.Context, job models.Job, resumePath string) FillResult {
	o.jobContext = job.Description

	log.Printf("=== STATE: %s ===", StateNavigating)
	if err := o.page.Goto(ctx, job.ApplyURL); err != nil {
		return FillResult{State: StateFailed, Err: fmt.Errorf("%w: %v", ErrNavigationFailed, err)}
	}

	strategy := o.strategies.Resolve(job.ApplyURL)
	form, err := strategy.Prepare(ctx, o.page, o.prompter)
	if err != nil {
		if errors.Is(err, ErrLoginWall) {
			return FillResult{State: StateFailed, Err: err}
		}
		return FillResult{State: StateFailed, Err: fmt.Errorf("%w: %v", ErrNavigationFailed, err)}
	}
	if form == nil {
		form = o.page
	}
	// Field resolution and submission happen where the form lives, which
	// on iframe-heavy systems is a frame rather than the top-level page.
	o.form = form
	o.resolver.page = form

	log.Printf("=== STATE: %s ===", StateFilling)
	fields, err := o.discoverFields(strategy)
	if err != nil {
		return FillResult{State: StateFailed, Err: err}
	}
	if len(fields) == 0 {
		return FillResult{State: StateFailed, Err: fmt.Errorf("%w: no form fields found", ErrElementNotFound)}
	}
	log.Printf("✓ Discovered %d form fields", len(fields))

	expected := make(map[string]string)
	for _, f := range fields {
		if err := ctx.Err(); err != nil {
			return FillResult{State: StateFailed, Err: err}
		}
		o.humanizer.ScrollNaturally(f.container)
		value, filled := o.fillField(ctx, f, resumePath)
		if filled && f.kind == fieldText {
			expected[f.label] = value
		}
	}

	log.Printf("=== STATE: %s ===", StateValidating)
	report := o.validator.Validate(expected)
	if report.ErrorCount > 0 {
		log.Printf("⚠️ Validation found %d mismatches, re-filling", report.ErrorCount)
		for _, m := range report.Mismatches {
			if ok, _ := o.resolver.FillWithRetry(ctx, m.Field, m.Expected); !ok {
				log.Printf("⚠️ Could not repair field %q", m.Field)
			}
		}
		report = o.validator.Validate(expected)
	}

	if !o.AutoSubmit {
		log.Printf("✓ Form filled, leaving for human review (accuracy %.0f%%)", report.Accuracy*100)
		return FillResult{State: StateReadyForReview, Report: report}
	}

	evidence, err := o.submit(ctx, strategy)
	if err != nil {
		return FillResult{State: StateFailed, Report: report, Err: err}
	}
	log.Printf("✓ Application submitted: %s", evidence)
	return FillResult{State: StateSubmitted, Report: report, Evidence: evidence}
}

type fieldKind int

const (
	fieldText fieldKind = iota
	fieldSelect
	fieldRadio
	fieldCheckbox
	fieldAttachment
)

type formField struct {
	container Element
	control   Element
	label     string
	kind      fieldKind
}

// discoverFields walks the strategy's container selectors in priority order
// and classifies the control inside each container. The first selector that
// matches anything wins; mixing selector tiers double-counts fields.
func (o *FormFillOrchestrator) discoverFields(strategy ATSStrategy) ([]formField, error) {
	var containers []Element
	for _, sel := range strategy.FieldSelectors() {
		found, err := o.form.Locate(sel)
		if err != nil {
			continue
		}
		if len(found) > 0 {
			containers = found
			log.Printf("✓ Field containers matched by %s", sel)
			break
		}
	}

	var fields []formField
	for _, c := range containers {
		f, ok := o.classify(c)
		if ok {
			fields = append(fields, f)
		}
	}
	return fields, nil
}

// classify determines the field's label and control type. Containers with no
// visible control (section headers, decorative rows) are dropped.
func (o *FormFillOrchestrator) classify(container Element) (formField, bool) {
	label := extractLabel(container)
	if label == "" {
		return formField{}, false
	}

	checks := []struct {
		selector string
		kind     fieldKind
	}{
		{`input[type="file"]`, fieldAttachment},
		{`select`, fieldSelect},
		{`input[type="radio"]`, fieldRadio},
		{`input[type="checkbox"]`, fieldCheckbox},
		{`textarea`, fieldText},
		{`input[type="text"], input[type="email"], input[type="tel"], input[type="url"], input[type="number"], input:not([type])`, fieldText},
	}
	for _, chk := range checks {
		el, err := container.First(chk.selector)
		if err != nil || el == nil {
			continue
		}
		if visible, err := el.IsVisible(); err != nil || !visible {
			// File inputs are routinely hidden behind styled dropzones.
			if chk.kind != fieldAttachment {
				continue
			}
		}
		return formField{container: container, control: el, label: label, kind: chk.kind}, true
	}
	return formField{}, false
}

// extractLabel pulls the question text from a field container: its label
// element first, legend second, then the container's own leading text.
func extractLabel(container Element) string {
	for _, sel := range []string{"label", "legend", `[class*="label" i]`} {
		if el, err := container.First(sel); err == nil && el != nil {
			if text, err := el.TextContent(); err == nil {
				if cleaned := cleanLabel(text); cleaned != "" {
					return cleaned
				}
			}
		}
	}
	if text, err := container.TextContent(); err == nil {
		lines := strings.SplitN(strings.TrimSpace(text), "\n", 2)
		return cleanLabel(lines[0])
	}
	return ""
}

func cleanLabel(s string) string {
	s = strings.TrimSpace(s)
	s = strings.TrimSuffix(s, "*")
	s = strings.TrimSpace(strings.TrimSuffix(s, "(required)"))
	if len(s) > 200 {
		return ""
	}
	return s
}

// fillField answers and fills one field, returning the value written and
// whether it was filled.
func (o *FormFillOrchestrator) fillField(ctx context.Context, f formField, resumePath string) (string, bool) {
	switch f.kind {
	case fieldAttachment:
		if resumePath == "" {
			log.Printf("⚠️ No resume available for attachment field %q", f.label)
			return "", false
		}
		if err := f.control.SetInputFiles(resumePath); err != nil {
			log.Printf("⚠️ Resume upload failed for %q: %v", f.label, err)
			return "", false
		}
		o.humanizer.Pause(ActionThinking)
		log.Printf("✓ Attached resume to %q", f.label)
		return resumePath, true

	case fieldSelect:
		return o.fillSelect(ctx, f)

	case fieldRadio:
		return o.fillRadio(ctx, f)

	case fieldCheckbox:
		return o.fillCheckbox(f)

	default:
		return o.fillText(ctx, f)
	}
}

func (o *FormFillOrchestrator) fillSelect(ctx context.Context, f formField) (string, bool) {
	options := selectOptions(f.control)
	answer := o.answerChoice(ctx, f.label, options)
	if answer == "" {
		return "", false
	}
	o.humanizer.Pause(ActionThinking)
	if err := f.control.SelectOption(answer); err != nil {
		log.Printf("⚠️ Selecting %q for %q failed: %v", answer, f.label, err)
		return "", false
	}
	log.Printf("✓ Selected %q for %q", answer, f.label)
	return answer, true
}

func (o *FormFillOrchestrator) fillRadio(ctx context.Context, f formField) (string, bool) {
	radios, err := f.container.Locate(`input[type="radio"]`)
	if err != nil || len(radios) == 0 {
		return "", false
	}
	options := make([]string, 0, len(radios))
	for _, r := range radios {
		options = append(options, radioLabel(f.container, r))
	}

	answer := o.answerChoice(ctx, f.label, options)
	if answer == "" {
		return "", false
	}
	for i, opt := range options {
		if opt == answer {
			o.humanizer.Pause(ActionThinking)
			if err := o.humanizer.MoveAndClick(radios[i]); err != nil {
				log.Printf("⚠️ Clicking radio %q for %q failed: %v", answer, f.label, err)
				return "", false
			}
			log.Printf("✓ Picked %q for %q", answer, f.label)
			return answer, true
		}
	}
	return "", false
}

func (o *FormFillOrchestrator) fillCheckbox(f formField) (string, bool) {
	answer, handled := o.compliance.Answer(f.label)
	if handled && !strings.EqualFold(answer, "yes") {
		return "No", false
	}
	if checked, err := f.control.IsChecked(); err == nil && checked {
		return "Yes", true
	}
	if err := o.humanizer.MoveAndClick(f.control); err != nil {
		if err := f.control.Check(); err != nil {
			log.Printf("⚠️ Checking %q failed: %v", f.label, err)
			return "", false
		}
	}
	log.Printf("✓ Checked %q", f.label)
	return "Yes", true
}

func (o *FormFillOrchestrator) fillText(ctx context.Context, f formField) (string, bool) {
	value := o.answerText(ctx, f.label)
	if value == "" {
		log.Printf("⚠️ No answer for text field %q, leaving empty", f.label)
		return "", false
	}

	o.humanizer.Pause(ActionReading)
	if err := o.humanizer.TypeLikeHuman(f.control, value); err != nil {
		log.Printf("⚠️ Typing into %q failed, retrying via resolver: %v", f.label, err)
		ok, err := o.resolver.FillWithRetry(ctx, f.label, value)
		if err != nil || !ok {
			return "", false
		}
	}
	log.Printf("✓ Filled %q", f.label)
	return value, true
}

// answerChoice resolves a multiple-choice answer: compliance rules first,
// then the decision engine.
func (o *FormFillOrchestrator) answerChoice(ctx context.Context, label string, options []string) string {
	if answer, handled := o.compliance.Answer(label); handled {
		if matched := validateAgainstOptions(answer, options); matched != "" {
			log.Printf("✓ Compliance rule answered %q", label)
			return matched
		}
	}
	return o.engine.SelectOption(ctx, models.Question{Label: label, Options: options})
}

// answerText resolves a free-text answer: identity fields straight from the
// profile, compliance rules, then the decision engine.
func (o *FormFillOrchestrator) answerText(ctx context.Context, label string) string {
	if v := o.profileValue(label); v != "" {
		return v
	}
	if answer, handled := o.compliance.Answer(label); handled {
		return answer
	}
	return o.engine.GenerateAnswer(ctx, label, o.jobContext)
}

// profileValue maps the standard identity questions onto profile fields.
func (o *FormFillOrchestrator) profileValue(label string) string {
	l := strings.ToLower(label)
	p := o.profile
	switch {
	case strings.Contains(l, "first name"):
		return p.FirstName
	case strings.Contains(l, "last name") || strings.Contains(l, "surname"):
		return p.LastName
	case strings.Contains(l, "full name") || l == "name":
		return p.FullName()
	case strings.Contains(l, "email"):
		return p.Email
	case strings.Contains(l, "phone"):
		return p.Phone
	case strings.Contains(l, "address"):
		return p.Address
	case strings.Contains(l, "city") || strings.Contains(l, "location"):
		return p.City
	case strings.Contains(l, "linkedin"):
		return p.LinkedIn
	case strings.Contains(l, "current company") || strings.Contains(l, "current employer"):
		return p.CurrentCompany
	}
	return ""
}

// submit clicks the submit control and hunts for success evidence. No
// evidence means no ledger entry; "maybe submitted" is treated as failure.
func (o *FormFillOrchestrator) submit(ctx context.Context, strategy ATSStrategy) (string, error) {
	var button Element
	for _, sel := range strategy.SubmitSelectors() {
		el, err := o.form.First(sel)
		if err != nil || el == nil {
			continue
		}
		if visible, err := el.IsVisible(); err == nil && visible {
			button = el
			break
		}
	}
	if button == nil {
		return "", fmt.Errorf("%w: submit button", ErrElementNotFound)
	}

	o.humanizer.Pause(ActionThinking)
	if err := o.humanizer.MoveAndClick(button); err != nil {
		return "", fmt.Errorf("clicking submit: %v", err)
	}
	if err := o.page.WaitForLoad(ctx); err != nil {
		log.Printf("⚠️ Post-submit load wait: %v", err)
	}

	return o.findSuccessEvidence(strategy)
}

func (o *FormFillOrchestrator) findSuccessEvidence(strategy ATSStrategy) (string, error) {
	url := strings.ToLower(o.page.URL())
	var bodyText string
	if body, err := o.form.First("body"); err == nil && body != nil {
		if text, err := body.TextContent(); err == nil {
			bodyText = strings.ToLower(text)
		}
	}

	for _, indicator := range strategy.SuccessIndicators() {
		if strings.Contains(url, indicator) {
			return "url contains " + indicator, nil
		}
		if strings.Contains(bodyText, indicator) {
			return "page confirms: " + indicator, nil
		}
	}
	return "", fmt.Errorf("no submission confirmation found on %s", o.page.URL())
}

// selectOptions reads the visible text of every option in a select,
// skipping placeholder entries.
func selectOptions(sel Element) []string {
	opts, err := sel.Locate("option")
	if err != nil {
		return nil
	}
	var out []string
	for _, opt := range opts {
		text, err := opt.TextContent()
		if err != nil {
			continue
		}
		text = strings.TrimSpace(text)
		lower := strings.ToLower(text)
		if text == "" || strings.HasPrefix(lower, "select") || strings.HasPrefix(lower, "please") || lower == "--" {
			continue
		}
		out = append(out, text)
	}
	return out
}

// radioLabel finds the text for one radio input, preferring the label bound
// to its id.
func radioLabel(container Element, radio Element) string {
	if id, err := radio.GetAttribute("id"); err == nil && id != "" {
		if lab, err := container.First(`label[for="` + id + `"]`); err == nil && lab != nil {
			if text, err := lab.TextContent(); err == nil {
				return strings.TrimSpace(text)
			}
		}
	}
	if val, err := radio.GetAttribute("value"); err == nil {
		return strings.TrimSpace(val)
	}
	return ""
}
