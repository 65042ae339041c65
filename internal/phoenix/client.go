package phoenix

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	json "github.com/goccy/go-json"
)

// HeaderTraceID carries the correlation token across service boundaries.
const HeaderTraceID = "X-Trace-ID"

// UsersAPI is the surface the handlers depend on; *Client is the real
// implementation, tests substitute stubs.
type UsersAPI interface {
	ListUsers(ctx context.Context, query ListQuery, traceID string) ([]User, ListMeta, error)
	GetUser(ctx context.Context, id int, traceID string) (User, error)
	CreateUser(ctx context.Context, input UserInput, traceID string) (User, error)
	UpdateUser(ctx context.Context, id int, input UserInput, traceID string) (User, error)
	DeleteUser(ctx context.Context, id int, traceID string) error
	ImportUsers(ctx context.Context, traceID string) (int, error)
}

// Client talks to the Phoenix users backend. Every operation performs a
// single HTTP call and either returns fully decoded values or one
// *APIError; there are no partial successes and no retries.
type Client struct {
	httpClient  *http.Client
	baseURL     string
	importToken string
}

// NewClient builds a backend client. A nil httpClient falls back to a
// default with a 10 second timeout.
func NewClient(httpClient *http.Client, baseURL, importToken string) *Client {
	if baseURL == "" {
		panic("baseURL must not be empty")
	}
	baseURL = strings.TrimRight(baseURL, "/")
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Client{httpClient: httpClient, baseURL: baseURL, importToken: importToken}
}

// ListUsers fetches one page of users plus its pagination metadata.
func (c *Client) ListUsers(ctx context.Context, query ListQuery, traceID string) ([]User, ListMeta, error) {
	payload, err := c.call(ctx, callSpec{
		method:  http.MethodGet,
		path:    "/users",
		query:   query.Values(),
		traceID: traceID,
	})
	if err != nil {
		return nil, ListMeta{}, err
	}

	rows, ok := payload["data"].([]any)
	if !ok {
		return nil, ListMeta{}, newInvalidResponse(http.StatusOK, nil)
	}
	metaRaw, ok := payload["meta"].(map[string]any)
	if !ok {
		return nil, ListMeta{}, newInvalidResponse(http.StatusOK, nil)
	}

	users := make([]User, 0, len(rows))
	for _, row := range rows {
		obj, ok := row.(map[string]any)
		if !ok {
			return nil, ListMeta{}, newInvalidResponse(http.StatusOK, nil)
		}
		user, err := userFromPayload(obj)
		if err != nil {
			return nil, ListMeta{}, newInvalidResponse(http.StatusOK, err)
		}
		users = append(users, user)
	}

	return users, metaFromPayload(metaRaw), nil
}

// GetUser fetches a single user by id.
func (c *Client) GetUser(ctx context.Context, id int, traceID string) (User, error) {
	payload, err := c.call(ctx, callSpec{
		method:  http.MethodGet,
		path:    fmt.Sprintf("/users/%d", id),
		traceID: traceID,
	})
	if err != nil {
		return User{}, err
	}
	return decodeUserData(payload, http.StatusOK)
}

// CreateUser asks the backend to create a user and returns the stored record.
func (c *Client) CreateUser(ctx context.Context, input UserInput, traceID string) (User, error) {
	payload, err := c.call(ctx, callSpec{
		method:       http.MethodPost,
		path:         "/users",
		body:         input.payload(),
		traceID:      traceID,
		expectStatus: http.StatusCreated,
	})
	if err != nil {
		return User{}, err
	}
	return decodeUserData(payload, http.StatusCreated)
}

// UpdateUser replaces the editable fields of an existing user.
func (c *Client) UpdateUser(ctx context.Context, id int, input UserInput, traceID string) (User, error) {
	payload, err := c.call(ctx, callSpec{
		method:  http.MethodPut,
		path:    fmt.Sprintf("/users/%d", id),
		body:    input.payload(),
		traceID: traceID,
	})
	if err != nil {
		return User{}, err
	}
	return decodeUserData(payload, http.StatusOK)
}

// DeleteUser removes a user. The backend answers 204 with no body.
func (c *Client) DeleteUser(ctx context.Context, id int, traceID string) error {
	_, err := c.call(ctx, callSpec{
		method:       http.MethodDelete,
		path:         fmt.Sprintf("/users/%d", id),
		traceID:      traceID,
		expectStatus: http.StatusNoContent,
	})
	return err
}

// ImportUsers triggers a bulk import on the backend and returns how many
// records were inserted. The import token, when configured, is sent as a
// bearer credential.
func (c *Client) ImportUsers(ctx context.Context, traceID string) (int, error) {
	payload, err := c.call(ctx, callSpec{
		method:     http.MethodPost,
		path:       "/import",
		traceID:    traceID,
		authorized: true,
	})
	if err != nil {
		return 0, err
	}

	data, ok := payload["data"].(map[string]any)
	if !ok {
		return 0, newInvalidResponse(http.StatusOK, nil)
	}
	inserted, ok := coerceCount(data["inserted"])
	if !ok {
		return 0, newInvalidResponse(http.StatusOK, nil)
	}
	return inserted, nil
}

func decodeUserData(payload map[string]any, expectStatus int) (User, error) {
	data, ok := payload["data"].(map[string]any)
	if !ok {
		return User{}, newInvalidResponse(expectStatus, nil)
	}
	user, err := userFromPayload(data)
	if err != nil {
		return User{}, newInvalidResponse(expectStatus, err)
	}
	return user, nil
}

type callSpec struct {
	method       string
	path         string
	query        url.Values
	body         any
	traceID      string
	expectStatus int
	authorized   bool
}

// call performs one HTTP exchange and hands back the decoded JSON object.
// Failure at any step aborts the call with a single *APIError.
func (c *Client) call(ctx context.Context, spec callSpec) (map[string]any, error) {
	if spec.expectStatus == 0 {
		spec.expectStatus = http.StatusOK
	}

	target := c.baseURL + spec.path
	if len(spec.query) > 0 {
		target += "?" + spec.query.Encode()
	}

	var reader io.Reader
	if spec.body != nil {
		encoded, err := json.Marshal(spec.body)
		if err != nil {
			return nil, newTransportError(err)
		}
		reader = bytes.NewReader(encoded)
	}

	req, err := http.NewRequestWithContext(ctx, spec.method, target, reader)
	if err != nil {
		return nil, newTransportError(err)
	}
	if spec.body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if spec.traceID != "" {
		req.Header.Set(HeaderTraceID, spec.traceID)
	}
	if spec.authorized && c.importToken != "" {
		req.Header.Set("Authorization", "Bearer "+c.importToken)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, newTransportError(err)
	}
	defer resp.Body.Close()

	if spec.expectStatus == http.StatusNoContent && resp.StatusCode == spec.expectStatus {
		return nil, nil
	}

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, newTransportError(err)
	}

	var payload any
	if err := json.Unmarshal(raw, &payload); err != nil {
		return nil, newInvalidResponse(resp.StatusCode, err)
	}

	if resp.StatusCode != spec.expectStatus {
		return nil, errorFromPayload(resp.StatusCode, payload)
	}

	obj, ok := payload.(map[string]any)
	if !ok {
		return nil, newInvalidResponse(resp.StatusCode, nil)
	}
	return obj, nil
}

var _ UsersAPI = (*Client)(nil)
