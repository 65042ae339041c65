package phoenix

import (
	"fmt"
	"math"
	"strconv"
	"strings"
	"time"
)

const birthdateLayout = "2006-01-02"

// InvalidPayloadError reports a backend payload that does not match the
// documented shape. It is always wrapped into an invalid_response APIError
// before leaving the client.
type InvalidPayloadError struct {
	Path string
	Key  string
	Want string
}

func (e *InvalidPayloadError) Error() string {
	if e.Key != "" {
		return fmt.Sprintf("missing key %q at %s", e.Key, e.Path)
	}
	return fmt.Sprintf("invalid payload at %s, expected %s", e.Path, e.Want)
}

func missingKey(path, key string) *InvalidPayloadError {
	return &InvalidPayloadError{Path: path, Key: key}
}

func invalidType(path, want string) *InvalidPayloadError {
	return &InvalidPayloadError{Path: path, Want: want}
}

// User is a backend-owned user record. Timestamps are passed through
// verbatim; the UI never interprets them.
type User struct {
	ID         int
	FirstName  string
	LastName   string
	Birthdate  string
	Gender     string
	InsertedAt string
	UpdatedAt  string
}

var userKeys = []string{"id", "first_name", "last_name", "birthdate", "gender", "inserted_at", "updated_at"}

// userFromPayload decodes one user object. Every key must be present and
// coercible; a partial record is never returned.
func userFromPayload(data map[string]any) (User, error) {
	const path = "data"

	for _, key := range userKeys {
		if _, ok := data[key]; !ok {
			return User{}, missingKey(path, key)
		}
	}

	id, ok := coerceInt(data["id"])
	if !ok {
		return User{}, invalidType(path+".id", "integer")
	}

	fields := make(map[string]string, len(userKeys)-1)
	for _, key := range userKeys[1:] {
		value, ok := coerceString(data[key])
		if !ok {
			return User{}, invalidType(path+"."+key, "string")
		}
		fields[key] = value
	}

	return User{
		ID:         id,
		FirstName:  fields["first_name"],
		LastName:   fields["last_name"],
		Birthdate:  fields["birthdate"],
		Gender:     fields["gender"],
		InsertedAt: fields["inserted_at"],
		UpdatedAt:  fields["updated_at"],
	}, nil
}

// UserInput carries the four user-editable fields for create and update
// calls. It is built from a validated form and discarded afterwards.
type UserInput struct {
	FirstName string
	LastName  string
	Birthdate time.Time
	Gender    string
}

func (in UserInput) payload() map[string]any {
	return map[string]any{
		"first_name": in.FirstName,
		"last_name":  in.LastName,
		"birthdate":  in.Birthdate.Format(birthdateLayout),
		"gender":     in.Gender,
	}
}

func coerceInt(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		return int(n), true
	case string:
		s := strings.TrimSpace(n)
		if s == "" {
			return 0, false
		}
		parsed, err := strconv.Atoi(s)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

// coerceCount accepts only whole JSON numbers and digit-only strings.
// Fractional numbers and signed strings are rejected outright.
func coerceCount(v any) (int, bool) {
	switch n := v.(type) {
	case int:
		return n, true
	case int64:
		return int(n), true
	case float64:
		if n != math.Trunc(n) {
			return 0, false
		}
		return int(n), true
	case string:
		if n == "" {
			return 0, false
		}
		for _, r := range n {
			if r < '0' || r > '9' {
				return 0, false
			}
		}
		parsed, err := strconv.Atoi(n)
		if err != nil {
			return 0, false
		}
		return parsed, true
	default:
		return 0, false
	}
}

func coerceString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case float64:
		return strconv.FormatFloat(s, 'f', -1, 64), true
	case bool:
		return strconv.FormatBool(s), true
	case nil:
		return "", true
	default:
		return "", false
	}
}
