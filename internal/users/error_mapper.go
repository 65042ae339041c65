package users

import (
	"fmt"
	"net/http"

	"github.com/octobees/phoenix-users-web/internal/phoenix"
)

// IsTransportError reports whether the backend was unreachable.
func IsTransportError(err *phoenix.APIError) bool {
	return err.Code == phoenix.CodeTransportError
}

// IsNotFound reports a genuine backend not-found: status and code must
// both match.
func IsNotFound(err *phoenix.APIError) bool {
	return err.Status == http.StatusNotFound && err.Code == phoenix.CodeNotFound
}

// IsValidationError reports a backend input rejection (422 with the
// validation_error code).
func IsValidationError(err *phoenix.APIError) bool {
	return err.Status == http.StatusUnprocessableEntity && err.Code == phoenix.CodeValidationError
}

// ResponseStatus picks the status the UI answers with: the page degrades
// to 503 only when the backend is literally unreachable.
func ResponseStatus(err *phoenix.APIError) int {
	if IsTransportError(err) {
		return http.StatusServiceUnavailable
	}
	return http.StatusOK
}

// FlashMessage formats the error for the flash banner.
func FlashMessage(err *phoenix.APIError) string {
	return fmt.Sprintf("%s (%s)", err.Message, err.Code)
}
