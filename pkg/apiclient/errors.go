package apiclient

import (
	"net/http"
)

// APIError is an RFC 7807 problem response from the API.
type APIError struct {
	Type   string `json:"type,omitempty"`
	Title  string `json:"title"`
	Status int    `json:"status"`
	Detail string `json:"detail,omitempty"`
}

// Error implements the error interface.
func (e *APIError) Error() string {
	title := e.Title
	if title == "" {
		title = http.StatusText(e.Status)
	}
	if e.Detail == "" {
		return title
	}
	return title + ": " + e.Detail
}

// IsAuthError returns true if the caller is unauthenticated or lacks the
// required role.
func (e *APIError) IsAuthError() bool {
	return e.Status == http.StatusUnauthorized || e.Status == http.StatusForbidden
}

// IsNotFound returns true if the resource does not exist.
func (e *APIError) IsNotFound() bool {
	return e.Status == http.StatusNotFound
}

// IsConflict returns true if the request collided with existing state, such
// as a path already occupied by a live node.
func (e *APIError) IsConflict() bool {
	return e.Status == http.StatusConflict
}

// IsValidationError returns true if the request was rejected as invalid.
func (e *APIError) IsValidationError() bool {
	return e.Status == http.StatusBadRequest
}
