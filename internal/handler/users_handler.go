package handler

import (
	"fmt"
	"net/http"
	"net/url"
	"strconv"

	"github.com/labstack/echo/v4"

	"github.com/octobees/phoenix-users-web/internal/forms"
	"github.com/octobees/phoenix-users-web/internal/middleware"
	"github.com/octobees/phoenix-users-web/internal/phoenix"
	"github.com/octobees/phoenix-users-web/internal/users"
)

// UsersHandler serves the browser-facing users pages on top of the
// Phoenix backend client.
type UsersHandler struct {
	api phoenix.UsersAPI
}

func NewUsersHandler(api phoenix.UsersAPI) *UsersHandler {
	return &UsersHandler{api: api}
}

type indexViewData struct {
	Users           []phoenix.User
	Meta            *phoenix.ListMeta
	Query           map[string]string
	SortBy          string
	SortDir         string
	SortColumns     []users.SortColumn
	Filter          forms.FilterData
	BirthdateFrom   string
	BirthdateTo     string
	PageSizeChoices []int
	Flashes         map[string][]string
	CSRF            string
}

type formViewData struct {
	ID      int
	Form    *forms.Form
	Flashes map[string][]string
	CSRF    string
}

// Index renders the filterable, sortable, paginated users list. Backend
// failures degrade to an empty table with a flash message; only a
// transport failure changes the response status (503).
func (h *UsersHandler) Index(c echo.Context) error {
	filter := forms.FilterDataFromRequest(c)
	qctx := users.BuildListQuery(c, filter)

	data := indexViewData{
		Query:   qctx.UIQuery,
		SortBy:  qctx.SortBy,
		SortDir: qctx.SortDir,
		Filter:  filter,
	}

	list, meta, err := h.api.ListUsers(c.Request().Context(), qctx.Query, middleware.TraceIDFromContext(c))
	if err != nil {
		apiErr, ok := phoenix.AsAPIError(err)
		if !ok {
			return err
		}
		addFlash(c, "error", users.FlashMessage(apiErr))
		return h.renderIndex(c, users.ResponseStatus(apiErr), data)
	}

	data.Users = list
	data.Meta = &meta
	return h.renderIndex(c, http.StatusOK, data)
}

// New renders the create form and, on submit, asks the backend to create
// the user. Backend validation details are applied to the form fields.
func (h *UsersHandler) New(c echo.Context) error {
	form := forms.NewUserForm()
	status := http.StatusOK

	if c.Request().Method == http.MethodPost {
		forms.BindUserForm(form, c)
		if data, ok := forms.ValidateUserForm(form); ok {
			input := users.UserInputFromForm(data)
			_, err := h.api.CreateUser(c.Request().Context(), input, middleware.TraceIDFromContext(c))
			if err == nil {
				addFlash(c, "success", "User created")
				return c.Redirect(http.StatusFound, "/users")
			}

			apiErr, ok := phoenix.AsAPIError(err)
			if !ok {
				return err
			}
			if users.IsValidationError(apiErr) {
				users.ApplyValidationErrors(form, apiErr.Details)
			} else {
				addFlash(c, "error", users.FlashMessage(apiErr))
				status = users.ResponseStatus(apiErr)
			}
		}
	}

	return c.Render(status, "new.html", formViewData{
		Form:    form,
		Flashes: takeFlashes(c),
		CSRF:    csrfToken(c),
	})
}

// Edit fetches the user, prefills the form, and on submit pushes the
// update to the backend. A backend not-found is terminal (404 page); a
// transport failure on the fetch degrades to the index fallback.
func (h *UsersHandler) Edit(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	traceID := middleware.TraceIDFromContext(c)

	user, err := h.api.GetUser(c.Request().Context(), id, traceID)
	if err != nil {
		apiErr, ok := phoenix.AsAPIError(err)
		if !ok {
			return err
		}
		if users.IsNotFound(apiErr) {
			return echo.NewHTTPError(http.StatusNotFound)
		}
		addFlash(c, "error", users.FlashMessage(apiErr))
		if users.IsTransportError(apiErr) {
			return h.renderIndexFallback(c, users.RedirectParams(c), http.StatusServiceUnavailable)
		}
		return c.Redirect(http.StatusFound, "/users")
	}

	form := forms.NewUserForm()
	form.SetValue("firstName", user.FirstName)
	form.SetValue("lastName", user.LastName)
	form.SetValue("birthdate", user.Birthdate)
	form.SetValue("gender", user.Gender)

	status := http.StatusOK

	if c.Request().Method == http.MethodPost {
		forms.BindUserForm(form, c)
		if data, ok := forms.ValidateUserForm(form); ok {
			_, err := h.api.UpdateUser(c.Request().Context(), id, users.UserInputFromForm(data), traceID)
			if err == nil {
				addFlash(c, "success", "User updated")
				return c.Redirect(http.StatusFound, "/users")
			}

			apiErr, ok := phoenix.AsAPIError(err)
			if !ok {
				return err
			}
			switch {
			case users.IsValidationError(apiErr):
				users.ApplyValidationErrors(form, apiErr.Details)
			case users.IsNotFound(apiErr):
				return echo.NewHTTPError(http.StatusNotFound)
			default:
				addFlash(c, "error", users.FlashMessage(apiErr))
				status = users.ResponseStatus(apiErr)
			}
		}
	}

	return c.Render(status, "edit.html", formViewData{
		ID:      id,
		Form:    form,
		Flashes: takeFlashes(c),
		CSRF:    csrfToken(c),
	})
}

// Delete removes the user and redirects back to the list, carrying the
// list-view parameters through the redirect.
func (h *UsersHandler) Delete(c echo.Context) error {
	id, err := strconv.Atoi(c.Param("id"))
	if err != nil || id < 1 {
		return echo.NewHTTPError(http.StatusNotFound)
	}
	params := users.RedirectParams(c)

	if err := h.api.DeleteUser(c.Request().Context(), id, middleware.TraceIDFromContext(c)); err != nil {
		apiErr, ok := phoenix.AsAPIError(err)
		if !ok {
			return err
		}
		if users.IsNotFound(apiErr) {
			addFlash(c, "error", "User not found")
		} else {
			addFlash(c, "error", users.FlashMessage(apiErr))
		}
		if users.IsTransportError(apiErr) {
			return h.renderIndexFallback(c, params, http.StatusServiceUnavailable)
		}
	} else {
		addFlash(c, "success", "User deleted")
	}

	return redirectToIndex(c, params)
}

// Import triggers the backend bulk import and reports the inserted count.
func (h *UsersHandler) Import(c echo.Context) error {
	params := users.RedirectParams(c)

	inserted, err := h.api.ImportUsers(c.Request().Context(), middleware.TraceIDFromContext(c))
	if err != nil {
		apiErr, ok := phoenix.AsAPIError(err)
		if !ok {
			return err
		}
		addFlash(c, "error", users.FlashMessage(apiErr))
		if users.IsTransportError(apiErr) {
			return h.renderIndexFallback(c, params, http.StatusServiceUnavailable)
		}
		return redirectToIndex(c, params)
	}

	addFlash(c, "success", fmt.Sprintf("Imported: %d", inserted))
	return redirectToIndex(c, params)
}

func (h *UsersHandler) renderIndex(c echo.Context, status int, data indexViewData) error {
	data.SortColumns = users.TableColumns
	data.PageSizeChoices = forms.PageSizeChoices
	if data.Filter.BirthdateFrom != nil {
		data.BirthdateFrom = data.Filter.BirthdateFrom.Format("2006-01-02")
	}
	if data.Filter.BirthdateTo != nil {
		data.BirthdateTo = data.Filter.BirthdateTo.Format("2006-01-02")
	}
	data.Flashes = takeFlashes(c)
	data.CSRF = csrfToken(c)
	return c.Render(status, "index.html", data)
}

// renderIndexFallback draws the index page without contacting the backend
// at all, reconstructing the filter state from the preserved list-view
// parameters. Used when the backend is unreachable mid-mutation.
func (h *UsersHandler) renderIndexFallback(c echo.Context, params url.Values, status int) error {
	filter := forms.FilterData{
		FirstName: params.Get("first_name"),
		LastName:  params.Get("last_name"),
		Gender:    params.Get("gender"),
	}
	if size, err := strconv.Atoi(params.Get("page_size")); err == nil {
		filter.PageSize = size
	}

	sortBy := params.Get("sort_by")
	if sortBy == "" {
		sortBy = "id"
	}
	sortDir := params.Get("sort_dir")
	if sortDir == "" {
		sortDir = users.SortDirAsc
	}

	query := make(map[string]string, len(params))
	for key := range params {
		query[key] = params.Get(key)
	}

	data := indexViewData{
		Query:         query,
		SortBy:        sortBy,
		SortDir:       sortDir,
		Filter:        filter,
		BirthdateFrom: params.Get("birthdate_from"),
		BirthdateTo:   params.Get("birthdate_to"),
	}
	return h.renderIndex(c, status, data)
}

func redirectToIndex(c echo.Context, params url.Values) error {
	target := "/users"
	if len(params) > 0 {
		target += "?" + params.Encode()
	}
	return c.Redirect(http.StatusFound, target)
}
