package phoenix

import "fmt"

// ErrorCode identifies the failure class reported by the backend or
// synthesized by the client. The constants cover the codes the UI reacts
// to; any other backend-supplied code passes through as-is.
type ErrorCode string

const (
	CodeTransportError  ErrorCode = "transport_error"
	CodeInvalidResponse ErrorCode = "invalid_response"
	CodeValidationError ErrorCode = "validation_error"
	CodeNotFound        ErrorCode = "not_found"
	CodeUnknownError    ErrorCode = "unknown_error"
)

// APIError is the uniform failure value produced by every client operation.
// Status is the HTTP status of the backend response, or 0 when no response
// was obtained at all.
type APIError struct {
	Status  int
	Code    ErrorCode
	Message string
	Details map[string]any

	cause error
}

func (e *APIError) Error() string {
	return fmt.Sprintf("phoenix: %s (%s)", e.Message, e.Code)
}

func (e *APIError) Unwrap() error {
	return e.cause
}

func newTransportError(cause error) *APIError {
	return &APIError{
		Status:  0,
		Code:    CodeTransportError,
		Message: "Transport error",
		Details: map[string]any{},
		cause:   cause,
	}
}

func newInvalidResponse(status int, cause error) *APIError {
	return &APIError{
		Status:  status,
		Code:    CodeInvalidResponse,
		Message: "Invalid response",
		Details: map[string]any{},
		cause:   cause,
	}
}

// errorFromPayload builds an APIError out of a non-2xx response body
// following the backend error contract: {"error": {code, message, details}}.
// Absent or malformed parts fall back to unknown_error / "Request failed"
// and empty details; a present string is kept even when empty.
func errorFromPayload(status int, payload any) *APIError {
	code := CodeUnknownError
	message := "Request failed"
	details := map[string]any{}

	if body, ok := payload.(map[string]any); ok {
		if errObj, ok := body["error"].(map[string]any); ok {
			if c, ok := errObj["code"].(string); ok {
				code = ErrorCode(c)
			}
			if m, ok := errObj["message"].(string); ok {
				message = m
			}
			if d, ok := errObj["details"].(map[string]any); ok {
				details = d
			}
		}
	}

	return &APIError{
		Status:  status,
		Code:    code,
		Message: message,
		Details: details,
	}
}

// AsAPIError extracts the *APIError from an error returned by a client
// operation. The second result is false for foreign errors.
func AsAPIError(err error) (*APIError, bool) {
	apiErr, ok := err.(*APIError)
	return apiErr, ok
}
