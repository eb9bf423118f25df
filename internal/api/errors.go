package api

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrAuthRequired is returned, without any network call, when an action
// needs a session token and none is present.
var ErrAuthRequired = errors.New("sign in required")

// ErrAlreadySaved is returned when saving an item that is already in the
// user's collection (HTTP 409).
var ErrAlreadySaved = errors.New("already saved")

// ErrRejected is returned when the backend answers 2xx but reports the
// operation as unsuccessful.
var ErrRejected = errors.New("request rejected by server")

// StatusError is a non-2xx response.
type StatusError struct {
	Method string
	Path   string
	Code   int
	Body   string
}

func (e *StatusError) Error() string {
	if e.Body == "" {
		return fmt.Sprintf("%s %s: HTTP %d", e.Method, e.Path, e.Code)
	}
	return fmt.Sprintf("%s %s: HTTP %d: %s", e.Method, e.Path, e.Code, e.Body)
}

// Unauthorized reports whether the server rejected the credentials.
func (e *StatusError) Unauthorized() bool {
	return e.Code == http.StatusUnauthorized || e.Code == http.StatusForbidden
}

// IsUnauthorized reports whether err is a 401/403 from the backend.
func IsUnauthorized(err error) bool {
	var se *StatusError
	return errors.As(err, &se) && se.Unauthorized()
}

// UserMessage turns an error into text suitable for a toast.
func UserMessage(err error) string {
	var se *StatusError
	switch {
	case err == nil:
		return ""
	case errors.Is(err, ErrAuthRequired):
		return "Please sign in first"
	case errors.Is(err, ErrAlreadySaved):
		return "Already in your saved Bytes"
	case errors.Is(err, ErrRejected):
		return "The server refused the request"
	case errors.As(err, &se):
		if se.Unauthorized() {
			return "Your session has expired, please sign in again"
		}
		if se.Code >= 500 {
			return "ByteMe is having trouble right now, try again shortly"
		}
		return fmt.Sprintf("Request failed (HTTP %d)", se.Code)
	default:
		return "Network error, check your connection"
	}
}
