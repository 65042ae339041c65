package forms

import (
	"strconv"
	"time"

	"github.com/labstack/echo/v4"
)

// PageSizeChoices are the page sizes the filter form offers explicitly.
// Anything else on the query string is still honored (clamped) but is not
// considered a form choice.
var PageSizeChoices = []int{50, 100}

// FilterData holds the list filter criteria exactly as the user entered
// them. Zero values mean "not filtered".
type FilterData struct {
	FirstName     string
	LastName      string
	Gender        string
	BirthdateFrom *time.Time
	BirthdateTo   *time.Time
	PageSize      int
}

// FilterDataFromRequest reads the filter form from the query string.
// Unparseable dates and out-of-choice values are dropped silently, the
// filter form never fails validation.
func FilterDataFromRequest(c echo.Context) FilterData {
	data := FilterData{
		FirstName: c.QueryParam("first_name"),
		LastName:  c.QueryParam("last_name"),
	}

	if gender := c.QueryParam("gender"); isGenderChoice(gender) {
		data.Gender = gender
	}

	data.BirthdateFrom = parseFilterDate(c.QueryParam("birthdate_from"))
	data.BirthdateTo = parseFilterDate(c.QueryParam("birthdate_to"))

	if raw := c.QueryParam("page_size"); raw != "" {
		if size, err := strconv.Atoi(raw); err == nil && isPageSizeChoice(size) {
			data.PageSize = size
		}
	}

	return data
}

func parseFilterDate(raw string) *time.Time {
	if raw == "" {
		return nil
	}
	parsed, err := time.Parse(birthdateLayout, raw)
	if err != nil {
		return nil
	}
	return &parsed
}

func isPageSizeChoice(size int) bool {
	for _, choice := range PageSizeChoices {
		if size == choice {
			return true
		}
	}
	return false
}
