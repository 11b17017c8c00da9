package services

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestComplianceSponsorship(t *testing.T) {
	c := NewComplianceRules(testProfile())

	answer, handled := c.Answer("Will you now or in the future require sponsorship for employment visa status?")
	assert.True(t, handled)
	assert.Equal(t, "No", answer)
}

func TestComplianceSponsorshipNegativePhrasing(t *testing.T) {
	c := NewComplianceRules(testProfile())

	answer, handled := c.Answer("Can you confirm you will not require visa sponsorship?")
	assert.True(t, handled)
	assert.Equal(t, "Yes", answer)
}

func TestComplianceAuthorization(t *testing.T) {
	c := NewComplianceRules(testProfile())

	answer, handled := c.Answer("Are you legally authorized to work in the US?")
	assert.True(t, handled)
	assert.Equal(t, "Yes", answer)

	p := testProfile()
	p.WorkAuthorization = "no"
	c = NewComplianceRules(p)
	answer, handled = c.Answer("Are you authorized to work?")
	assert.True(t, handled)
	assert.Equal(t, "No", answer)
}

func TestComplianceCustomAnswersWin(t *testing.T) {
	p := testProfile()
	p.CustomQuestionAnswers = map[string]string{"sponsorship": "Contact my attorney"}
	c := NewComplianceRules(p)

	answer, handled := c.Answer("Do you require sponsorship?")
	assert.True(t, handled)
	assert.Equal(t, "Contact my attorney", answer)
}

func TestCompliancePreviousEmployment(t *testing.T) {
	c := NewComplianceRules(testProfile())

	answer, handled := c.Answer("Have you previously worked for Acme or an Acme affiliate?")
	assert.True(t, handled)
	assert.Equal(t, "No", answer)
}

func TestComplianceConsent(t *testing.T) {
	c := NewComplianceRules(testProfile())

	answer, handled := c.Answer("I agree to the privacy policy")
	assert.True(t, handled)
	assert.Equal(t, "Yes", answer)
}

func TestComplianceUnmatchedFallsThrough(t *testing.T) {
	c := NewComplianceRules(testProfile())

	_, handled := c.Answer("Describe your ideal team culture")
	assert.False(t, handled)
}
