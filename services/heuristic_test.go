package services

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"autoapply/models"
)

func testProfile() *models.Profile {
	return &models.Profile{
		FirstName:         "Jordan",
		LastName:          "Reyes",
		Email:             "jordan@example.com",
		WorkAuthorization: "yes",
		Demographics: models.Demographics{
			Gender:     "Male",
			Race:       "Asian",
			Veteran:    "No",
			Disability: "No",
		},
	}
}

func TestHeuristicGenderExactAndAlias(t *testing.T) {
	h := NewHeuristicSelector(testProfile())

	assert.Equal(t, "Male", h.Select("What is your gender?", []string{"Male", "Female", "Decline"}))
	assert.Equal(t, "Man", h.Select("Gender", []string{"Man", "Woman", "Non-binary"}))
}

func TestHeuristicVeteranDoubleNegative(t *testing.T) {
	h := NewHeuristicSelector(testProfile())
	options := []string{
		"I identify as one or more of the classifications of a protected veteran",
		"I am not a protected veteran",
		"I decline to self-identify",
	}
	assert.Equal(t, "I am not a protected veteran", h.Select("Veteran status", options))

	p := testProfile()
	p.Demographics.Veteran = "Yes"
	h = NewHeuristicSelector(p)
	assert.Equal(t, options[0], h.Select("Veteran status", options))
}

func TestHeuristicSponsorship(t *testing.T) {
	h := NewHeuristicSelector(testProfile())
	assert.Equal(t, "No", h.Select("Will you require visa sponsorship?", []string{"Yes", "No"}))

	p := testProfile()
	p.RequiresSponsorship = true
	h = NewHeuristicSelector(p)
	assert.Equal(t, "Yes", h.Select("Do you require sponsorship to work?", []string{"Yes", "No"}))
}

func TestHeuristicWorkAuthorization(t *testing.T) {
	h := NewHeuristicSelector(testProfile())
	got := h.Select("Are you legally authorized to work in the United States?",
		[]string{"Yes, I am authorized", "No, I am not"})
	assert.Equal(t, "Yes, I am authorized", got)
}

func TestHeuristicReferralSource(t *testing.T) {
	h := NewHeuristicSelector(testProfile())
	got := h.Select("How did you hear about this role?",
		[]string{"Job board", "LinkedIn", "Referral", "Other"})
	assert.Equal(t, "LinkedIn", got)
}

func TestHeuristicAlwaysReturnsAMember(t *testing.T) {
	h := NewHeuristicSelector(testProfile())
	options := []string{"Alpha", "Beta", "Gamma"}
	got := h.Select("What is your favorite release channel?", options)
	assert.Contains(t, options, got)
}

func TestHeuristicRaceContains(t *testing.T) {
	h := NewHeuristicSelector(testProfile())
	got := h.Select("Race/Ethnicity", []string{
		"White", "Asian (Not Hispanic or Latino)", "Two or More Races",
	})
	assert.Equal(t, "Asian (Not Hispanic or Latino)", got)
}
