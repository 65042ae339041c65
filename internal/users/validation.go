package users

import (
	"fmt"

	"github.com/octobees/phoenix-users-web/internal/forms"
)

// detailFieldNames maps backend validation-detail field names onto form
// field names. The mapping is deliberately a finite table; anything not
// listed passes through unchanged.
var detailFieldNames = map[string]string{
	"first_name": "firstName",
	"last_name":  "lastName",
}

// ApplyValidationErrors copies backend validation details onto the form.
// Messages for fields the form does not declare land on the form itself;
// a non-list value for a field is skipped without error.
func ApplyValidationErrors(form *forms.Form, details map[string]any) {
	for field, raw := range details {
		target := field
		if mapped, ok := detailFieldNames[field]; ok {
			target = mapped
		}

		messages, ok := raw.([]any)
		if !ok {
			continue
		}

		for _, message := range messages {
			text, ok := message.(string)
			if !ok {
				text = fmt.Sprint(message)
			}
			if form.Has(target) {
				form.AddFieldError(target, text)
			} else {
				form.AddError(text)
			}
		}
	}
}
