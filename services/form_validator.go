package services

import (
	"log"
	"strings"

	"autoapply/models"
)

// FormValidator re-reads every text field after filling and compares what
// the page actually holds against what was supposed to be written. React
// forms in particular are prone to swallowing programmatic input, so the
// read-back happens through a fresh resolution, not a cached handle.
type FormValidator struct {
	resolver *ElementResolver
}

func NewFormValidator(resolver *ElementResolver) *FormValidator {
	return &FormValidator{resolver: resolver}
}

// Validate checks each expected label/value pair and reports the mismatches.
// A field that can no longer be resolved counts as a mismatch with an empty
// actual value. Comparison ignores surrounding whitespace.
func (v *FormValidator) Validate(expected map[string]string) *models.ValidationReport {
	var mismatches []models.FieldMismatch
	for label, want := range expected {
		el, err := v.resolver.Resolve(label)
		if err != nil {
			mismatches = append(mismatches, models.FieldMismatch{
				Field: label, Expected: want, Actual: "",
			})
			continue
		}
		got, err := el.InputValue()
		if err != nil {
			mismatches = append(mismatches, models.FieldMismatch{
				Field: label, Expected: want, Actual: "",
			})
			continue
		}
		if strings.TrimSpace(got) != strings.TrimSpace(want) {
			mismatches = append(mismatches, models.FieldMismatch{
				Field: label, Expected: want, Actual: got,
			})
		}
	}

	report := models.NewValidationReport(len(expected), mismatches)
	if report.ErrorCount == 0 {
		log.Printf("✓ Validation passed: %d/%d fields correct", report.TotalFields, report.TotalFields)
	} else {
		log.Printf("⚠️ Validation: %d/%d fields mismatched", report.ErrorCount, report.TotalFields)
	}
	return &report
}
