package users

import (
	"github.com/octobees/phoenix-users-web/internal/forms"
	"github.com/octobees/phoenix-users-web/internal/phoenix"
)

// UserInputFromForm projects validated form data into the backend write
// shape.
func UserInputFromForm(data forms.UserFormData) phoenix.UserInput {
	return phoenix.UserInput{
		FirstName: data.FirstName,
		LastName:  data.LastName,
		Birthdate: data.Birthdate,
		Gender:    data.Gender,
	}
}
