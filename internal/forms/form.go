// Package forms holds the small form model the server-rendered pages are
// built around: declared fields, submitted values, and errors at field
// and form level.
package forms

// Form tracks submitted values and validation errors for one HTML form.
type Form struct {
	names       []string
	known       map[string]bool
	values      map[string]string
	fieldErrors map[string][]string
	errors      []string
}

// New declares a form with the given field names.
func New(fields ...string) *Form {
	known := make(map[string]bool, len(fields))
	for _, name := range fields {
		known[name] = true
	}
	return &Form{
		names:       fields,
		known:       known,
		values:      make(map[string]string, len(fields)),
		fieldErrors: make(map[string][]string),
	}
}

// Has reports whether the field was declared on this form.
func (f *Form) Has(name string) bool {
	return f.known[name]
}

// SetValue stores the submitted (or prefilled) value for a field.
func (f *Form) SetValue(name, value string) {
	if f.known[name] {
		f.values[name] = value
	}
}

// Value returns the current value of a field.
func (f *Form) Value(name string) string {
	return f.values[name]
}

// AddFieldError attaches an error message to a declared field.
func (f *Form) AddFieldError(name, message string) {
	if !f.known[name] {
		f.AddError(message)
		return
	}
	f.fieldErrors[name] = append(f.fieldErrors[name], message)
}

// FieldErrors returns the messages attached to a field.
func (f *Form) FieldErrors(name string) []string {
	return f.fieldErrors[name]
}

// AddError attaches an error to the form itself rather than a field.
func (f *Form) AddError(message string) {
	f.errors = append(f.errors, message)
}

// Errors returns the form-level error messages.
func (f *Form) Errors() []string {
	return f.errors
}

// Valid reports whether no error has been recorded anywhere on the form.
func (f *Form) Valid() bool {
	if len(f.errors) > 0 {
		return false
	}
	for _, msgs := range f.fieldErrors {
		if len(msgs) > 0 {
			return false
		}
	}
	return true
}
