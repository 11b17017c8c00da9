package services

import (
	"context"
	"fmt"
	"log"
	"strings"

	"golang.org/x/sync/singleflight"

	"autoapply/models"
)

// DecisionEngine answers form questions. Multiple-choice answers resolve in
// three tiers: cached answer, AI suggestion validated against the option
// set, then profile heuristics. Free-text answers come from profile
// patterns, then AI, then empty. Every AI call goes through the rate
// limiter, and concurrent identical questions collapse into one call.
type DecisionEngine struct {
	ai        *AIClient
	cache     *AnswerCache
	heuristic *HeuristicSelector
	limiter   *RateLimiter
	profile   *models.Profile
	group     singleflight.Group
}

func NewDecisionEngine(ai *AIClient, cache *AnswerCache, heuristic *HeuristicSelector, limiter *RateLimiter, profile *models.Profile) *DecisionEngine {
	return &DecisionEngine{
		ai:        ai,
		cache:     cache,
		heuristic: heuristic,
		limiter:   limiter,
		profile:   profile,
	}
}

// SelectOption answers a multiple-choice question. The returned value is
// always a member of q.Options (or "" when the question has none).
func (e *DecisionEngine) SelectOption(ctx context.Context, q models.Question) string {
	if len(q.Options) == 0 {
		return ""
	}

	if answer, ok := e.cache.Get(ctx, q); ok {
		if matched := validateAgainstOptions(answer, q.Options); matched != "" {
			return matched
		}
		// A cached answer that no longer maps onto this option set is
		// stale for this form; fall through.
	}

	answer := e.askAI(ctx, q)
	if matched := validateAgainstOptions(answer, q.Options); matched != "" {
		e.cache.Put(ctx, q, matched)
		return matched
	}
	if answer != "" {
		log.Printf("⚠️ %v: %q is not an option for %q, using heuristic", ErrAIInvalidAnswer, answer, q.Label)
	}

	choice := e.heuristic.Select(q.Label, q.Options)
	e.cache.Put(ctx, q, choice)
	return choice
}

// GenerateAnswer produces free text for an open question: profile-derived
// patterns first, AI second, empty string when neither applies. jobContext
// (the posting's description) is folded into AI prompts; interest questions
// prefer the canned profile answer only when there is no job context to
// tailor against.
func (e *DecisionEngine) GenerateAnswer(ctx context.Context, question, jobContext string) string {
	q := strings.ToLower(question)

	switch {
	case strings.Contains(q, "why") && (strings.Contains(q, "interest") || strings.Contains(q, "join") || strings.Contains(q, "apply")):
		if e.profile.WhyInterested != "" && (jobContext == "" || !e.ai.Enabled()) {
			return e.profile.WhyInterested
		}
	case strings.Contains(q, "relative") || strings.Contains(q, "family member"):
		if e.profile.RelativesAtCompany != "" {
			return e.profile.RelativesAtCompany
		}
		return "No"
	case strings.Contains(q, "linkedin"):
		if e.profile.LinkedIn != "" {
			return e.profile.LinkedIn
		}
	case strings.Contains(q, "website") || strings.Contains(q, "portfolio") || strings.Contains(q, "github"):
		if e.profile.Portfolio != "" {
			return e.profile.Portfolio
		}
	case strings.Contains(q, "salary") || strings.Contains(q, "compensation"):
		if e.profile.SalaryExpectation != "" {
			return e.profile.SalaryExpectation
		}
	case strings.Contains(q, "start date") || strings.Contains(q, "available"):
		if e.profile.AvailableStart != "" {
			return e.profile.AvailableStart
		}
	}

	for keyword, answer := range e.profile.CustomQuestionAnswers {
		if strings.Contains(q, strings.ToLower(keyword)) {
			return answer
		}
	}

	// Context-free answers are reusable across jobs; tailored ones are not.
	if jobContext == "" {
		mq := models.Question{Label: question}
		if answer, ok := e.cache.Get(ctx, mq); ok {
			return answer
		}
		answer := e.askFreeText(ctx, question, "")
		if answer != "" {
			e.cache.Put(ctx, mq, answer)
		}
		return answer
	}
	return e.askFreeText(ctx, question, jobContext)
}

// askAI asks for a choice among the options. Failures return "" so callers
// degrade to heuristics.
func (e *DecisionEngine) askAI(ctx context.Context, q models.Question) string {
	if !e.ai.Enabled() {
		return ""
	}
	prompt := buildChoicePrompt(e.profile, q)
	reply, err := e.singleflightComplete(ctx, q.Signature(), prompt)
	if err != nil {
		log.Printf("⚠️ AI call failed for %q: %v", q.Label, err)
		return ""
	}
	return reply
}

func (e *DecisionEngine) askFreeText(ctx context.Context, question, jobContext string) string {
	if !e.ai.Enabled() {
		return ""
	}
	prompt := buildFreeTextPrompt(e.profile, question, jobContext)
	reply, err := e.singleflightComplete(ctx, "freetext|"+models.NormalizeLabel(question+"|"+jobContext), prompt)
	if err != nil {
		log.Printf("⚠️ AI call failed for %q: %v", question, err)
		return ""
	}
	return reply
}

// singleflightComplete deduplicates concurrent identical prompts and charges
// exactly one rate-limiter slot per upstream call.
func (e *DecisionEngine) singleflightComplete(ctx context.Context, key, prompt string) (string, error) {
	v, err, _ := e.group.Do(key, func() (interface{}, error) {
		if err := e.limiter.Acquire(ctx); err != nil {
			return "", err
		}
		return e.ai.Complete(ctx, prompt)
	})
	if err != nil {
		return "", err
	}
	return v.(string), nil
}

// validateAgainstOptions maps a raw answer onto the option set: exact match,
// then case-insensitive, then prefix containment in either direction. An
// unmappable answer yields "".
func validateAgainstOptions(answer string, options []string) string {
	answer = strings.TrimSpace(answer)
	if answer == "" {
		return ""
	}
	for _, opt := range options {
		if opt == answer {
			return opt
		}
	}
	for _, opt := range options {
		if strings.EqualFold(strings.TrimSpace(opt), answer) {
			return opt
		}
	}
	lower := strings.ToLower(answer)
	for _, opt := range options {
		optLower := strings.ToLower(strings.TrimSpace(opt))
		if strings.HasPrefix(optLower, lower) || strings.HasPrefix(lower, optLower) {
			return opt
		}
	}
	return ""
}

func buildChoicePrompt(p *models.Profile, q models.Question) string {
	return fmt.Sprintf(`You are filling out a job application for this candidate:
Name: %s
Work authorization: %s
Requires visa sponsorship: %t
Gender: %s
Race/ethnicity: %s
Veteran status: %s
Disability status: %s

Question: %s
Options:
- %s

Reply with EXACTLY one of the options above, verbatim, and nothing else.`,
		p.FullName(), p.WorkAuthorization, p.RequiresSponsorship,
		p.Demographics.Gender, p.Demographics.Race, p.Demographics.Veteran,
		p.Demographics.Disability,
		q.Label, strings.Join(q.Options, "\n- "))
}

func buildFreeTextPrompt(p *models.Profile, question, jobContext string) string {
	prompt := fmt.Sprintf(`You are filling out a job application for %s, currently %s at %s.

Answer the following application question in one or two short sentences,
first person, professional tone. If the question asks for a number or a
date, reply with just that value.

Question: %s`,
		p.FullName(), p.CurrentTitle, p.CurrentCompany, question)
	if jobContext != "" {
		if len(jobContext) > 1500 {
			jobContext = jobContext[:1500]
		}
		prompt += "\n\nJob description for context:\n" + jobContext
	}
	return prompt
}
