package forms

import (
	"time"

	"github.com/labstack/echo/v4"
)

const (
	birthdateLayout = "2006-01-02"

	// BirthdateMin and BirthdateMax bound the accepted birthdate range.
	BirthdateMin = "1970-01-01"
	BirthdateMax = "2024-12-31"
)

var genderChoices = []string{"male", "female"}

// UserFormData is the validated outcome of a submitted user form.
type UserFormData struct {
	FirstName string
	LastName  string
	Birthdate time.Time
	Gender    string
}

// NewUserForm declares an empty create/edit user form.
func NewUserForm() *Form {
	return New("firstName", "lastName", "birthdate", "gender")
}

// BindUserForm fills the form from the posted request body.
func BindUserForm(f *Form, c echo.Context) {
	for _, name := range []string{"firstName", "lastName", "birthdate", "gender"} {
		f.SetValue(name, c.FormValue(name))
	}
}

// ValidateUserForm applies the local validation rules and, when they all
// pass, returns the typed form data.
func ValidateUserForm(f *Form) (UserFormData, bool) {
	data := UserFormData{
		FirstName: f.Value("firstName"),
		LastName:  f.Value("lastName"),
		Gender:    f.Value("gender"),
	}

	if data.FirstName == "" {
		f.AddFieldError("firstName", "First name is required")
	}
	if data.LastName == "" {
		f.AddFieldError("lastName", "Last name is required")
	}

	if data.Gender == "" {
		f.AddFieldError("gender", "Gender is required")
	} else if !isGenderChoice(data.Gender) {
		f.AddFieldError("gender", "Select a valid gender")
	}

	raw := f.Value("birthdate")
	if raw == "" {
		f.AddFieldError("birthdate", "Birthdate is required")
	} else {
		birthdate, err := time.Parse(birthdateLayout, raw)
		if err != nil {
			f.AddFieldError("birthdate", "Birthdate must be a valid date")
		} else {
			min, _ := time.Parse(birthdateLayout, BirthdateMin)
			max, _ := time.Parse(birthdateLayout, BirthdateMax)
			if birthdate.Before(min) || birthdate.After(max) {
				f.AddFieldError("birthdate", "Birthdate must be between "+BirthdateMin+" and "+BirthdateMax)
			} else {
				data.Birthdate = birthdate
			}
		}
	}

	if !f.Valid() {
		return UserFormData{}, false
	}
	return data, true
}

func isGenderChoice(value string) bool {
	for _, choice := range genderChoices {
		if value == choice {
			return true
		}
	}
	return false
}
