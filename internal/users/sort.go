// Package users translates between the browser-facing UI and the Phoenix
// backend: query building, error mapping, validation-error application
// and redirect parameter handling.
package users

import "github.com/samber/lo"

const (
	SortDirAsc  = "asc"
	SortDirDesc = "desc"
)

// SortColumn describes one sortable table column of the index view.
type SortColumn struct {
	Field string
	Label string
}

// TableColumns are the columns rendered (and sortable) in the users table.
var TableColumns = []SortColumn{
	{Field: "id", Label: "ID"},
	{Field: "first_name", Label: "First name"},
	{Field: "last_name", Label: "Last name"},
	{Field: "birthdate", Label: "Birthdate"},
	{Field: "gender", Label: "Gender"},
}

// ExtraSortFields can be sorted on even though they have no column.
var ExtraSortFields = []string{"inserted_at", "updated_at"}

// AllowedSortFields returns the deduplicated union of table columns and
// extra sortable fields.
func AllowedSortFields() []string {
	fields := lo.Map(TableColumns, func(col SortColumn, _ int) string {
		return col.Field
	})
	return lo.Uniq(append(fields, ExtraSortFields...))
}
