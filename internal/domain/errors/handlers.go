package errors

import (
	"net/http"
	"strings"
)

// FallbackMessage is used when the backend rejected a call without a message.
const FallbackMessage = "Something went wrong, please try again"

// FromBackendStatus maps a rejected backend call onto an AppError that keeps
// the backend status for client errors. Backend 5xx become a bad gateway.
func FromBackendStatus(status int, message string) *BaseError {
	if status >= http.StatusInternalServerError || status < http.StatusBadRequest {
		return ErrBackendUnavailable.WithDetails(message)
	}

	if message == "" {
		message = FallbackMessage
	}

	return NewBaseError(status, "BACKEND_"+statusCode(status), message, "")
}

// statusCode turns "Not Found" into "NOT_FOUND".
func statusCode(status int) string {
	text := http.StatusText(status)
	if text == "" {
		return "REJECTED"
	}

	return strings.ToUpper(strings.NewReplacer(" ", "_", "-", "_", "'", "").Replace(text))
}
