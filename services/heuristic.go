package services

import (
	"log"
	"strings"

	"autoapply/models"
)

// HeuristicSelector answers multiple-choice questions from the applicant
// profile without any AI call. It always returns a member of options, so a
// dropdown never gets left empty just because no rule matched.
type HeuristicSelector struct {
	profile *models.Profile
}

func NewHeuristicSelector(profile *models.Profile) *HeuristicSelector {
	return &HeuristicSelector{profile: profile}
}

// Select picks the option matching the question. Rules fire in order:
// demographics first (they use the strictest matching), then work
// authorization and sponsorship, then referral source. Anything unmatched
// falls back to the first option.
func (h *HeuristicSelector) Select(question string, options []string) string {
	if len(options) == 0 {
		return ""
	}
	q := strings.ToLower(question)

	switch {
	case strings.Contains(q, "gender") && !strings.Contains(q, "identity"):
		if opt := h.matchGender(options); opt != "" {
			return opt
		}
	case strings.Contains(q, "race") || strings.Contains(q, "ethnic"):
		if opt := matchContains(options, h.profile.Demographics.Race); opt != "" {
			return opt
		}
	case strings.Contains(q, "veteran"):
		if opt := h.matchVeteran(options); opt != "" {
			return opt
		}
	case strings.Contains(q, "disability") || strings.Contains(q, "disabled"):
		if opt := matchContains(options, h.profile.Demographics.Disability); opt != "" {
			return opt
		}
	case strings.Contains(q, "authorized") || strings.Contains(q, "authorised") || strings.Contains(q, "legally"):
		if opt := matchYesNo(options, true); opt != "" {
			return opt
		}
	case strings.Contains(q, "sponsor"):
		answerYes := h.profile.RequiresSponsorship
		// Questions phrased negatively ("will you NOT require...") invert
		// which option means the same answer.
		if strings.Contains(q, "not") {
			answerYes = !answerYes
		}
		if opt := matchYesNo(options, answerYes); opt != "" {
			return opt
		}
	case strings.Contains(q, "hear"):
		if opt := matchContains(options, "linkedin"); opt != "" {
			return opt
		}
	}

	log.Printf("⚠️ No heuristic rule matched %q, defaulting to first option", question)
	return options[0]
}

// matchGender maps the profile's gender string onto the option set: exact
// match first, then the conventional Man/Woman phrasings, then prefix.
func (h *HeuristicSelector) matchGender(options []string) string {
	gender := strings.ToLower(strings.TrimSpace(h.profile.Demographics.Gender))
	if gender == "" {
		return matchContains(options, "decline")
	}
	for _, opt := range options {
		if strings.ToLower(strings.TrimSpace(opt)) == gender {
			return opt
		}
	}
	alias := map[string]string{"male": "man", "female": "woman"}[gender]
	for _, opt := range options {
		lower := strings.ToLower(opt)
		if alias != "" && strings.Contains(lower, alias) {
			return opt
		}
		if strings.HasPrefix(lower, gender) {
			return opt
		}
	}
	return ""
}

// matchVeteran handles the double negative in standard veteran-status
// options ("I am not a protected veteran").
func (h *HeuristicSelector) matchVeteran(options []string) string {
	isVeteran := strings.EqualFold(strings.TrimSpace(h.profile.Demographics.Veteran), "yes")
	for _, opt := range options {
		lower := strings.ToLower(opt)
		hasNot := strings.Contains(lower, "not") || strings.Contains(lower, "no ")
		if isVeteran != hasNot && (strings.Contains(lower, "veteran") || strings.Contains(lower, "identify")) {
			return opt
		}
	}
	return matchContains(options, "decline")
}

// matchContains returns the first option whose lowercased text contains
// needle.
func matchContains(options []string, needle string) string {
	needle = strings.ToLower(strings.TrimSpace(needle))
	if needle == "" {
		return ""
	}
	for _, opt := range options {
		if strings.Contains(strings.ToLower(opt), needle) {
			return opt
		}
	}
	return ""
}

// matchYesNo finds the affirmative or negative option, tolerating phrasings
// like "Yes, I am authorized".
func matchYesNo(options []string, yes bool) string {
	want, avoid := "yes", "no"
	if !yes {
		want, avoid = "no", "yes"
	}
	for _, opt := range options {
		lower := strings.ToLower(strings.TrimSpace(opt))
		if strings.HasPrefix(lower, want) && !strings.HasPrefix(lower, avoid) {
			return opt
		}
	}
	return ""
}
