package api

import (
	"errors"
	"net/http"
	"strings"
)

// Error is a server-reported failure: the backend produced a response with a
// non-2xx status. Detail carries the server-supplied message when present.
type Error struct {
	StatusCode int
	Detail     string
}

func (e *Error) Error() string {
	return e.Detail
}

// IsAuthError reports whether err represents the backend rejecting the
// caller's credentials. Classification is structural (HTTP 401/403 on a
// typed *Error); a substring probe remains as a fallback for errors whose
// type was lost through wrapping into plain strings.
func IsAuthError(err error) bool {
	if err == nil {
		return false
	}
	var apiErr *Error
	if errors.As(err, &apiErr) {
		return apiErr.StatusCode == http.StatusUnauthorized || apiErr.StatusCode == http.StatusForbidden
	}
	msg := err.Error()
	return strings.Contains(msg, "401") || strings.Contains(msg, "Invalid")
}
