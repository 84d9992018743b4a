// Package problem renders RFC 7807 problem documents. All error responses
// in the service go through this package so clients can rely on a single
// machine-parsable shape.
package problem

import (
	"encoding/json"
	"net/http"
)

const typePrefix = "https://zevis.dev/problems/"

// Details is the wire representation of a failed request. Detail carries a
// generic, client-safe string; internal failure causes are logged, never
// embedded here.
type Details struct {
	Type       string      `json:"type"`
	Title      string      `json:"title"`
	Status     int         `json:"status"`
	Detail     string      `json:"detail,omitempty"`
	Violations []Violation `json:"violations,omitempty"`
}

// Violation reports a single field-level validation failure.
type Violation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

func New(slug, title string, status int, detail string) *Details {
	return &Details{
		Type:   typePrefix + slug,
		Title:  title,
		Status: status,
		Detail: detail,
	}
}

func Invalid(detail string, violations ...Violation) *Details {
	d := New("invalid-input", "Validation Failed", http.StatusBadRequest, detail)
	d.Violations = violations
	return d
}

func Unauthorized(detail string) *Details {
	return New("unauthorized", "Unauthorized", http.StatusUnauthorized, detail)
}

func RateLimited(detail string) *Details {
	return New("rate-limited", "Too Many Requests", http.StatusTooManyRequests, detail)
}

func NotFound(title, detail string) *Details {
	return New("not-found", title, http.StatusNotFound, detail)
}

func Conflict(title, detail string) *Details {
	return New("conflict", title, http.StatusConflict, detail)
}

func Internal() *Details {
	return New("internal-error", "Internal Server Error", http.StatusInternalServerError,
		"An unexpected error occurred. Please try again later.")
}

// Write serializes the problem document to w with its HTTP status.
func (d *Details) Write(w http.ResponseWriter) {
	w.Header().Set("Content-Type", "application/problem+json")
	w.WriteHeader(d.Status)
	_ = json.NewEncoder(w).Encode(d)
}

// Error makes Details usable as an error value inside handlers.
func (d *Details) Error() string {
	return d.Title + ": " + d.Detail
}
