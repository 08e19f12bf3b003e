package gdrive

import (
	"context"
	"errors"
	"net/http"

	"google.golang.org/api/googleapi"
)

var (
	// ErrCredentialsNotFound means the service account key file could not be opened.
	ErrCredentialsNotFound = errors.New("gdrive: credentials file not found")

	// ErrInvalidCredentials means the key file is not a usable service account key.
	ErrInvalidCredentials = errors.New("gdrive: invalid service account credentials")
)

// Reason returns a short label for a Drive API error, used in logs and metrics.
func Reason(err error) string {
	if err == nil {
		return "ok"
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return "cancelled"
	}
	var gerr *googleapi.Error
	if !errors.As(err, &gerr) {
		return "transport"
	}
	switch {
	case gerr.Code == http.StatusUnauthorized:
		return "unauthorized"
	case gerr.Code == http.StatusForbidden:
		return "forbidden"
	case gerr.Code == http.StatusNotFound:
		return "not_found"
	case gerr.Code == http.StatusTooManyRequests:
		return "rate_limited"
	case gerr.Code >= 500:
		return "server_error"
	}
	return "error"
}

// IsNotFound returns true if the error indicates a missing or invisible resource.
func IsNotFound(err error) bool {
	var gerr *googleapi.Error
	if errors.As(err, &gerr) {
		return gerr.Code == http.StatusNotFound
	}
	return false
}
