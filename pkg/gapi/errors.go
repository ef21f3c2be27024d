package gapi

import (
	"errors"
	"fmt"
)

// ErrNotFound is returned when a requested resource doesn't exist upstream.
// It wraps the underlying [StatusError] so callers can branch on either.
var ErrNotFound = errors.New("resource not found")

// StatusError is an upstream API failure carrying its HTTP status code.
// The retry executor uses the status to classify failures as transient
// (429, 500, 502, 503, 504) or permanent.
type StatusError struct {
	// Status is the HTTP status code of the response.
	Status int

	// Reason is the machine-readable status from the error body
	// (e.g. "PERMISSION_DENIED", "RESOURCE_EXHAUSTED"), when present.
	Reason string

	// Message is the human-readable error message from the error body.
	Message string
}

// Error implements the error interface.
func (e *StatusError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("api error %d (%s): %s", e.Status, e.Reason, e.Message)
	}
	return fmt.Sprintf("api error %d", e.Status)
}

// HTTPStatus returns the upstream status code. It satisfies the retry
// executor's StatusCoder interface.
func (e *StatusError) HTTPStatus() int { return e.Status }

// IsNotFound reports whether err represents a missing upstream resource.
func IsNotFound(err error) bool {
	if errors.Is(err, ErrNotFound) {
		return true
	}
	var se *StatusError
	return errors.As(err, &se) && se.Status == 404
}

// googleError is the standard error envelope returned by Google APIs.
type googleError struct {
	Error struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
		Status  string `json:"status"`
	} `json:"error"`
}
