package models

// FieldMismatch records one field whose read-back value differs from what the
// profile says it should contain.
type FieldMismatch struct {
	Field    string `json:"field"`
	Expected string `json:"expected"`
	Actual   string `json:"actual"`
}

// ValidationReport is the post-fill accuracy summary for one application.
type ValidationReport struct {
	TotalFields int             `json:"total_fields"`
	ErrorCount  int             `json:"error_count"`
	Accuracy    float64         `json:"accuracy"`
	Mismatches  []FieldMismatch `json:"errors,omitempty"`
}

// NewValidationReport computes the accuracy ratio from the mismatch list.
func NewValidationReport(total int, mismatches []FieldMismatch) ValidationReport {
	report := ValidationReport{
		TotalFields: total,
		ErrorCount:  len(mismatches),
		Mismatches:  mismatches,
	}
	if total > 0 {
		report.Accuracy = float64(total-len(mismatches)) / float64(total)
	} else {
		// Nothing expected, nothing wrong.
		report.Accuracy = 1.0
	}
	return report
}
