package users

import (
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/octobees/phoenix-users-web/internal/forms"
	"github.com/octobees/phoenix-users-web/internal/phoenix"
)

const (
	defaultSortBy   = "id"
	defaultPageSize = 20
	maxPageSize     = 100
)

// QueryContext bundles the backend list query with the echo state the
// index view needs to render sort links and pagination.
type QueryContext struct {
	Query   phoenix.ListQuery
	SortBy  string
	SortDir string
	UIQuery map[string]string
}

// BuildListQuery derives the backend list query from the inbound request
// and the already-bound filter form. Unknown sort fields fall back to id,
// unknown directions to asc; page is floored at 1 and page size clamped
// into [1,100].
func BuildListQuery(c echo.Context, filter forms.FilterData) QueryContext {
	sortBy := c.QueryParam("sort_by")
	if sortBy == "" {
		sortBy = defaultSortBy
	}
	if !isAllowedSortField(sortBy) {
		sortBy = defaultSortBy
	}

	sortDir := c.QueryParam("sort_dir")
	if sortDir != SortDirAsc && sortDir != SortDirDesc {
		sortDir = SortDirAsc
	}

	page, _ := strconv.Atoi(c.QueryParam("page"))
	if page < 1 {
		page = 1
	}

	pageSize := filter.PageSize
	if pageSize == 0 {
		pageSize, _ = strconv.Atoi(c.QueryParam("page_size"))
		if c.QueryParam("page_size") == "" {
			pageSize = defaultPageSize
		}
	}
	if pageSize < 1 {
		pageSize = 1
	}
	if pageSize > maxPageSize {
		pageSize = maxPageSize
	}

	query := phoenix.ListQuery{
		FirstName:     filter.FirstName,
		LastName:      filter.LastName,
		Gender:        filter.Gender,
		BirthdateFrom: filter.BirthdateFrom,
		BirthdateTo:   filter.BirthdateTo,
		SortBy:        sortBy,
		SortDir:       sortDir,
		Page:          page,
		PageSize:      pageSize,
	}

	uiQuery := make(map[string]string)
	for key, values := range c.QueryParams() {
		if len(values) > 0 {
			uiQuery[key] = values[0]
		}
	}

	return QueryContext{
		Query:   query,
		SortBy:  sortBy,
		SortDir: sortDir,
		UIQuery: uiQuery,
	}
}

func isAllowedSortField(field string) bool {
	for _, allowed := range AllowedSortFields() {
		if field == allowed {
			return true
		}
	}
	return false
}
