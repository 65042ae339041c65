package users

import (
	"net/url"

	"github.com/labstack/echo/v4"
)

// redirectKeys is the allow-list of list-view parameters preserved across
// post-mutation redirects.
var redirectKeys = []string{
	"first_name",
	"last_name",
	"gender",
	"birthdate_from",
	"birthdate_to",
	"sort_by",
	"sort_dir",
	"page",
	"page_size",
}

// RedirectParams collects the list-view parameters to carry through a
// redirect. Posted form values win over query-string values; keys with no
// value in either source are omitted.
func RedirectParams(c echo.Context) url.Values {
	params := url.Values{}

	for _, key := range redirectKeys {
		value := c.Request().PostFormValue(key)
		if value == "" {
			value = c.QueryParam(key)
		}
		if value == "" {
			continue
		}
		params.Set(key, value)
	}

	return params
}
