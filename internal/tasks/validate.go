package tasks

import (
	"strings"

	"tasklist/internal/models"
)

// validateDraft accepts any draft with at least one non-blank field and a
// due date, when present, in DD-MM-YYYY form.
func validateDraft(d models.Draft) error {
	if d.Blank() {
		return &ValidationError{Reason: "title, description, status and due date are all empty"}
	}
	if due := strings.TrimSpace(d.DueDate); due != "" {
		if _, err := models.ParseDate(due); err != nil {
			return &ValidationError{Field: "due_date", Reason: "must use the DD-MM-YYYY format"}
		}
	}
	return nil
}
