package models

import (
	"encoding/json"
	"fmt"
	"os"
)

// Demographics holds the candidate's voluntary self-identification answers.
// These feed the deterministic compliance rules, never the AI path.
type Demographics struct {
	Gender     string `json:"gender"`
	Race       string `json:"race"`
	Veteran    string `json:"veteran"`
	Disability string `json:"disability"`
}

// ExperienceEntry mirrors one position on the candidate's resume.
type ExperienceEntry struct {
	Company     string `json:"company"`
	Title       string `json:"title"`
	Dates       string `json:"dates"`
	Description string `json:"description,omitempty"`
}

// Profile is the candidate's static fact sheet, loaded once per run and never
// mutated by the engine. Mutating it mid-run would corrupt dedup keys and the
// audit trail, so every consumer receives it by value or as a read-only
// pointer.
type Profile struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	Address   string `json:"address"`
	City      string `json:"city"`
	LinkedIn  string `json:"linkedin"`
	Portfolio string `json:"portfolio"`

	CurrentTitle      string `json:"current_title"`
	CurrentCompany    string `json:"current_company"`
	PreviousCompany   string `json:"previous_company"`
	SalaryExpectation string `json:"salary_expectation"`
	AvailableStart    string `json:"available_start_date"`

	WorkAuthorization   string `json:"work_authorization"` // "yes" / "no"
	RequiresSponsorship bool   `json:"requires_sponsorship"`

	Demographics Demographics      `json:"demographics"`
	Experience   []ExperienceEntry `json:"experience,omitempty"`

	// Free-text snippets reused across applications.
	WhyInterested      string `json:"why_interested,omitempty"`
	RelativesAtCompany string `json:"relatives_at_company,omitempty"`

	// CustomQuestionAnswers maps a question keyword to a fixed answer and
	// always wins over both compliance rules and the AI.
	CustomQuestionAnswers map[string]string `json:"custom_question_answers,omitempty"`

	// ResumeS3Key, when set, is fetched to a local path before upload.
	ResumeS3Key string `json:"resume_s3_key,omitempty"`
}

// FullName joins first and last name.
func (p *Profile) FullName() string {
	return p.FirstName + " " + p.LastName
}

// LoadProfile reads and validates a profile JSON document.
func LoadProfile(path string) (*Profile, error) {
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read profile: %w", err)
	}
	var p Profile
	if err := json.Unmarshal(raw, &p); err != nil {
		return nil, fmt.Errorf("parse profile: %w", err)
	}
	if p.FirstName == "" || p.Email == "" {
		return nil, fmt.Errorf("profile is missing first_name or email")
	}
	return &p, nil
}
