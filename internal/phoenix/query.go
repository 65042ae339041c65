package phoenix

import (
	"net/url"
	"strconv"
	"time"
)

// ListQuery is the read-side request for the users list endpoint: filter
// criteria, sort order and pagination. Zero-value filter fields are
// treated as absent.
type ListQuery struct {
	FirstName     string
	LastName      string
	Gender        string
	BirthdateFrom *time.Time
	BirthdateTo   *time.Time
	SortBy        string
	SortDir       string
	Page          int
	PageSize      int
}

// Values renders the query as backend query parameters. Sort and paging
// keys are always present; filters only when set, date bounds formatted
// as YYYY-MM-DD.
func (q ListQuery) Values() url.Values {
	values := url.Values{}
	values.Set("sort_by", q.SortBy)
	values.Set("sort_dir", q.SortDir)
	values.Set("page", strconv.Itoa(q.Page))
	values.Set("page_size", strconv.Itoa(q.PageSize))

	if q.FirstName != "" {
		values.Set("first_name", q.FirstName)
	}
	if q.LastName != "" {
		values.Set("last_name", q.LastName)
	}
	if q.Gender != "" {
		values.Set("gender", q.Gender)
	}
	if q.BirthdateFrom != nil {
		values.Set("birthdate_from", q.BirthdateFrom.Format(birthdateLayout))
	}
	if q.BirthdateTo != nil {
		values.Set("birthdate_to", q.BirthdateTo.Format(birthdateLayout))
	}

	return values
}

// ListMeta is the pagination metadata reported alongside a list page.
type ListMeta struct {
	Page     int
	PageSize int
	Total    int
}

// metaFromPayload trusts the backend values, substituting defaults for
// anything absent or non-numeric.
func metaFromPayload(data map[string]any) ListMeta {
	meta := ListMeta{Page: 1, PageSize: 20, Total: 0}

	if page, ok := coerceInt(data["page"]); ok {
		meta.Page = page
	}
	if pageSize, ok := coerceInt(data["page_size"]); ok {
		meta.PageSize = pageSize
	}
	if total, ok := coerceInt(data["total"]); ok {
		meta.Total = total
	}

	return meta
}
