package services

import (
	"strings"

	"autoapply/models"
)

// ComplianceRules answers legally-sensitive questions (work authorization,
// sponsorship, relatives, consent) deterministically from the profile.
// These run before any AI involvement: an applicant's authorization status
// must never depend on what a language model guesses.
type ComplianceRules struct {
	profile *models.Profile
}

func NewComplianceRules(profile *models.Profile) *ComplianceRules {
	return &ComplianceRules{profile: profile}
}

type complianceRule struct {
	keywords []string
	answer   func(p *models.Profile, question string) string
}

var complianceRuleSet = []complianceRule{
	{
		keywords: []string{"sponsor", "visa"},
		answer: func(p *models.Profile, q string) string {
			yes := p.RequiresSponsorship
			if strings.Contains(q, "not") {
				yes = !yes
			}
			if yes {
				return "Yes"
			}
			return "No"
		},
	},
	{
		keywords: []string{"authorized", "authorised", "legally able", "right to work"},
		answer: func(p *models.Profile, q string) string {
			if strings.EqualFold(p.WorkAuthorization, "no") {
				return "No"
			}
			return "Yes"
		},
	},
	{
		keywords: []string{"previously employed", "worked here before", "previously worked", "former employee"},
		answer:   func(p *models.Profile, q string) string { return "No" },
	},
	{
		keywords: []string{"relative", "family member", "immediate family"},
		answer: func(p *models.Profile, q string) string {
			if p.RelativesAtCompany != "" {
				return p.RelativesAtCompany
			}
			return "No"
		},
	},
	{
		keywords: []string{"relocat"},
		answer:   func(p *models.Profile, q string) string { return "Yes" },
	},
	{
		keywords: []string{"consent", "privacy policy", "terms", "acknowledge", "agree to"},
		answer:   func(p *models.Profile, q string) string { return "Yes" },
	},
	{
		keywords: []string{"18 years", "age of 18", "legal age"},
		answer:   func(p *models.Profile, q string) string { return "Yes" },
	},
}

// Answer returns the fixed answer for a compliance question, or ("", false)
// when no rule applies and the question may go to the decision engine.
// Profile custom answers take precedence over the built-in rules.
func (c *ComplianceRules) Answer(question string) (string, bool) {
	q := strings.ToLower(question)

	for keyword, answer := range c.profile.CustomQuestionAnswers {
		if strings.Contains(q, strings.ToLower(keyword)) {
			return answer, true
		}
	}

	for _, rule := range complianceRuleSet {
		for _, kw := range rule.keywords {
			if strings.Contains(q, kw) {
				return rule.answer(c.profile, q), true
			}
		}
	}
	return "", false
}
