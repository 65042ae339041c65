package handler

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"

	"github.com/gorilla/sessions"
	"github.com/labstack/echo-contrib/session"
	"github.com/labstack/echo/v4"

	middlewarepkg "github.com/octobees/phoenix-users-web/internal/middleware"
	"github.com/octobees/phoenix-users-web/internal/phoenix"
	"github.com/octobees/phoenix-users-web/internal/view"
)

type apiStub struct {
	listUsers   func(ctx context.Context, query phoenix.ListQuery, traceID string) ([]phoenix.User, phoenix.ListMeta, error)
	getUser     func(ctx context.Context, id int, traceID string) (phoenix.User, error)
	createUser  func(ctx context.Context, input phoenix.UserInput, traceID string) (phoenix.User, error)
	updateUser  func(ctx context.Context, id int, input phoenix.UserInput, traceID string) (phoenix.User, error)
	deleteUser  func(ctx context.Context, id int, traceID string) error
	importUsers func(ctx context.Context, traceID string) (int, error)
}

func (s *apiStub) ListUsers(ctx context.Context, query phoenix.ListQuery, traceID string) ([]phoenix.User, phoenix.ListMeta, error) {
	if s.listUsers != nil {
		return s.listUsers(ctx, query, traceID)
	}
	return nil, phoenix.ListMeta{}, errors.New("not implemented")
}

func (s *apiStub) GetUser(ctx context.Context, id int, traceID string) (phoenix.User, error) {
	if s.getUser != nil {
		return s.getUser(ctx, id, traceID)
	}
	return phoenix.User{}, errors.New("not implemented")
}

func (s *apiStub) CreateUser(ctx context.Context, input phoenix.UserInput, traceID string) (phoenix.User, error) {
	if s.createUser != nil {
		return s.createUser(ctx, input, traceID)
	}
	return phoenix.User{}, errors.New("not implemented")
}

func (s *apiStub) UpdateUser(ctx context.Context, id int, input phoenix.UserInput, traceID string) (phoenix.User, error) {
	if s.updateUser != nil {
		return s.updateUser(ctx, id, input, traceID)
	}
	return phoenix.User{}, errors.New("not implemented")
}

func (s *apiStub) DeleteUser(ctx context.Context, id int, traceID string) error {
	if s.deleteUser != nil {
		return s.deleteUser(ctx, id, traceID)
	}
	return errors.New("not implemented")
}

func (s *apiStub) ImportUsers(ctx context.Context, traceID string) (int, error) {
	if s.importUsers != nil {
		return s.importUsers(ctx, traceID)
	}
	return 0, errors.New("not implemented")
}

var _ phoenix.UsersAPI = (*apiStub)(nil)

func newTestApp(stub *apiStub) *echo.Echo {
	e := echo.New()
	e.Renderer = view.MustRenderer()
	e.Use(middlewarepkg.TraceID())
	e.Use(session.Middleware(sessions.NewCookieStore([]byte("test-secret"))))

	h := NewUsersHandler(stub)
	e.GET("/users", h.Index)
	e.GET("/users/new", h.New)
	e.POST("/users/new", h.New)
	e.GET("/users/:id/edit", h.Edit)
	e.POST("/users/:id/edit", h.Edit)
	e.POST("/users/:id/delete", h.Delete)
	e.POST("/users/import", h.Import)
	return e
}

func transportError() *phoenix.APIError {
	return &phoenix.APIError{Status: 0, Code: phoenix.CodeTransportError, Message: "Transport error"}
}

func notFoundError() *phoenix.APIError {
	return &phoenix.APIError{Status: 404, Code: phoenix.CodeNotFound, Message: "User not found"}
}

func postForm(e *echo.Echo, target string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, target, strings.NewReader(values.Encode()))
	req.Header.Set(echo.HeaderContentType, echo.MIMEApplicationForm)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)
	return rec
}

func TestIndexRendersUsers(t *testing.T) {
	stub := &apiStub{
		listUsers: func(ctx context.Context, query phoenix.ListQuery, traceID string) ([]phoenix.User, phoenix.ListMeta, error) {
			return []phoenix.User{
				{ID: 1, FirstName: "Jan", LastName: "Kowalski", Birthdate: "1990-05-15", Gender: "male"},
				{ID: 2, FirstName: "Anna", LastName: "Nowak", Birthdate: "1985-03-02", Gender: "female"},
			}, phoenix.ListMeta{Page: 1, PageSize: 20, Total: 2}, nil
		},
	}
	e := newTestApp(stub)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, "Kowalski") || !strings.Contains(body, "Nowak") {
		t.Fatalf("expected rendered rows, got: %s", body)
	}
}

func TestIndexClampsQueryBeforeBackendCall(t *testing.T) {
	var gotQuery phoenix.ListQuery
	stub := &apiStub{
		listUsers: func(ctx context.Context, query phoenix.ListQuery, traceID string) ([]phoenix.User, phoenix.ListMeta, error) {
			gotQuery = query
			return nil, phoenix.ListMeta{Page: 1, PageSize: 100, Total: 0}, nil
		},
	}
	e := newTestApp(stub)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users?sort_by=bogus&sort_dir=up&page=0&page_size=999", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if gotQuery.SortBy != "id" || gotQuery.SortDir != "asc" {
		t.Fatalf("expected sort fallback, got %+v", gotQuery)
	}
	if gotQuery.Page != 1 || gotQuery.PageSize != 100 {
		t.Fatalf("expected clamped paging, got %+v", gotQuery)
	}
}

func TestIndexTransportErrorDegradesTo503(t *testing.T) {
	stub := &apiStub{
		listUsers: func(ctx context.Context, query phoenix.ListQuery, traceID string) ([]phoenix.User, phoenix.ListMeta, error) {
			return nil, phoenix.ListMeta{}, transportError()
		},
	}
	e := newTestApp(stub)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Transport error (transport_error)") {
		t.Fatalf("expected flash message in body, got: %s", rec.Body.String())
	}
}

func TestIndexBackendErrorStays200(t *testing.T) {
	stub := &apiStub{
		listUsers: func(ctx context.Context, query phoenix.ListQuery, traceID string) ([]phoenix.User, phoenix.ListMeta, error) {
			return nil, phoenix.ListMeta{}, &phoenix.APIError{Status: 500, Code: phoenix.CodeUnknownError, Message: "Request failed"}
		},
	}
	e := newTestApp(stub)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Request failed (unknown_error)") {
		t.Fatalf("expected flash message in body, got: %s", rec.Body.String())
	}
}

func TestMutatingRouteWithoutTokenIs403(t *testing.T) {
	called := false
	stub := &apiStub{
		createUser: func(ctx context.Context, input phoenix.UserInput, traceID string) (phoenix.User, error) {
			called = true
			return phoenix.User{}, nil
		},
	}
	e := newTestApp(stub)
	e.Use(middlewarepkg.AntiForgery())

	rec := postForm(e, "/users/new", url.Values{
		"firstName": {"Jan"},
		"lastName":  {"Kowalski"},
		"birthdate": {"1990-05-15"},
		"gender":    {"male"},
	})

	if rec.Code != http.StatusForbidden {
		t.Fatalf("expected 403, got %d", rec.Code)
	}
	if called {
		t.Fatal("expected backend not to be called without a form token")
	}
}

func TestNewCreatesUserAndRedirects(t *testing.T) {
	var gotInput phoenix.UserInput
	stub := &apiStub{
		createUser: func(ctx context.Context, input phoenix.UserInput, traceID string) (phoenix.User, error) {
			gotInput = input
			return phoenix.User{ID: 10, FirstName: input.FirstName}, nil
		},
	}
	e := newTestApp(stub)

	rec := postForm(e, "/users/new", url.Values{
		"firstName": {"Jan"},
		"lastName":  {"Kowalski"},
		"birthdate": {"1990-05-15"},
		"gender":    {"male"},
	})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/users" {
		t.Fatalf("expected redirect to /users, got %s", loc)
	}
	if gotInput.FirstName != "Jan" || gotInput.Birthdate.Format("2006-01-02") != "1990-05-15" {
		t.Fatalf("unexpected input sent to backend: %+v", gotInput)
	}
}

func TestNewLocalValidationSkipsBackend(t *testing.T) {
	called := false
	stub := &apiStub{
		createUser: func(ctx context.Context, input phoenix.UserInput, traceID string) (phoenix.User, error) {
			called = true
			return phoenix.User{}, nil
		},
	}
	e := newTestApp(stub)

	rec := postForm(e, "/users/new", url.Values{"firstName": {""}})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 re-render, got %d", rec.Code)
	}
	if called {
		t.Fatal("expected backend not to be called for locally invalid form")
	}
	if !strings.Contains(rec.Body.String(), "First name is required") {
		t.Fatalf("expected local validation message, got: %s", rec.Body.String())
	}
}

func TestNewAppliesBackendValidationErrors(t *testing.T) {
	stub := &apiStub{
		createUser: func(ctx context.Context, input phoenix.UserInput, traceID string) (phoenix.User, error) {
			return phoenix.User{}, &phoenix.APIError{
				Status:  422,
				Code:    phoenix.CodeValidationError,
				Message: "Validation failed",
				Details: map[string]any{"first_name": []any{"has already been taken"}},
			}
		},
	}
	e := newTestApp(stub)

	rec := postForm(e, "/users/new", url.Values{
		"firstName": {"Jan"},
		"lastName":  {"Kowalski"},
		"birthdate": {"1990-05-15"},
		"gender":    {"male"},
	})

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200 re-render, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "has already been taken") {
		t.Fatalf("expected backend validation message, got: %s", rec.Body.String())
	}
}

func TestEditNotFoundIs404(t *testing.T) {
	stub := &apiStub{
		getUser: func(ctx context.Context, id int, traceID string) (phoenix.User, error) {
			return phoenix.User{}, notFoundError()
		},
	}
	e := newTestApp(stub)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/99/edit", nil))

	if rec.Code != http.StatusNotFound {
		t.Fatalf("expected 404, got %d", rec.Code)
	}
}

func TestEditPrefillsForm(t *testing.T) {
	stub := &apiStub{
		getUser: func(ctx context.Context, id int, traceID string) (phoenix.User, error) {
			return phoenix.User{ID: id, FirstName: "Jan", LastName: "Kowalski", Birthdate: "1990-05-15", Gender: "male"}, nil
		},
	}
	e := newTestApp(stub)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/5/edit", nil))

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}
	body := rec.Body.String()
	if !strings.Contains(body, `value="Jan"`) || !strings.Contains(body, `value="1990-05-15"`) {
		t.Fatalf("expected prefilled form, got: %s", body)
	}
}

func TestEditTransportErrorFallsBackToIndex(t *testing.T) {
	stub := &apiStub{
		getUser: func(ctx context.Context, id int, traceID string) (phoenix.User, error) {
			return phoenix.User{}, transportError()
		},
	}
	e := newTestApp(stub)

	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, httptest.NewRequest(http.MethodGet, "/users/5/edit?page=2", nil))

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "Transport error (transport_error)") {
		t.Fatalf("expected flash in fallback page, got: %s", rec.Body.String())
	}
}

func TestDeleteRedirectsWithListParams(t *testing.T) {
	var deletedID int
	stub := &apiStub{
		deleteUser: func(ctx context.Context, id int, traceID string) error {
			deletedID = id
			return nil
		},
	}
	e := newTestApp(stub)

	rec := postForm(e, "/users/5/delete?gender=male", url.Values{
		"first_name": {"Jan"},
		"page":       {"2"},
	})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if deletedID != 5 {
		t.Fatalf("expected delete of id 5, got %d", deletedID)
	}
	if loc := rec.Header().Get("Location"); loc != "/users?first_name=Jan&gender=male&page=2" {
		t.Fatalf("unexpected redirect target: %s", loc)
	}
}

func TestDeleteNotFoundStillRedirects(t *testing.T) {
	stub := &apiStub{
		deleteUser: func(ctx context.Context, id int, traceID string) error {
			return notFoundError()
		},
	}
	e := newTestApp(stub)

	rec := postForm(e, "/users/5/delete", url.Values{})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/users" {
		t.Fatalf("unexpected redirect target: %s", loc)
	}
}

func TestImportRedirectsOnSuccess(t *testing.T) {
	stub := &apiStub{
		importUsers: func(ctx context.Context, traceID string) (int, error) {
			return 7, nil
		},
	}
	e := newTestApp(stub)

	rec := postForm(e, "/users/import?page=3", url.Values{})

	if rec.Code != http.StatusFound {
		t.Fatalf("expected 302, got %d", rec.Code)
	}
	if loc := rec.Header().Get("Location"); loc != "/users?page=3" {
		t.Fatalf("unexpected redirect target: %s", loc)
	}
}

func TestImportTransportErrorFallsBack(t *testing.T) {
	stub := &apiStub{
		importUsers: func(ctx context.Context, traceID string) (int, error) {
			return 0, transportError()
		},
	}
	e := newTestApp(stub)

	rec := postForm(e, "/users/import", url.Values{})

	if rec.Code != http.StatusServiceUnavailable {
		t.Fatalf("expected 503, got %d", rec.Code)
	}
}
