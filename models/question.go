package models

import (
	"sort"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// Question is a single form question observed on a live page. Options is
// non-empty for choice widgets and nil for free-text fields.
type Question struct {
	Label   string
	Options []string
}

var questionFolder = cases.Fold()

// NormalizeLabel canonicalizes a question label for cache keys: Unicode
// normalization plus case folding, with whitespace collapsed. ATS pages
// frequently render the same question with stray NBSPs or different casing,
// and those must hit the same cache entry.
func NormalizeLabel(label string) string {
	folded := questionFolder.String(norm.NFKC.String(label))
	return strings.Join(strings.Fields(folded), " ")
}

// Signature builds the memoisation key for a (question, options) pair.
// Options are sorted so that pages listing the same choices in a different
// order still resolve to the same cached answer.
func (q Question) Signature() string {
	opts := make([]string, len(q.Options))
	copy(opts, q.Options)
	sort.Strings(opts)
	return NormalizeLabel(q.Label) + "|" + strings.Join(opts, ",")
}
