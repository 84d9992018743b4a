// Package user holds the user domain: model, storage contract and the CRUD
// service that feeds the notification pipeline.
package user

import (
	"net/mail"
	"strings"
	"time"

	"github.com/suntzu974/zevis/pkg/problem"
)

// User is the stored record. PasswordHash never leaves the process.
type User struct {
	ID           int64     `json:"id"`
	Name         string    `json:"name"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"`
	CreatedAt    time.Time `json:"created_at"`
	UpdatedAt    time.Time `json:"updated_at"`
}

// CreateUserRequest is the POST /users payload.
type CreateUserRequest struct {
	Name  string `json:"name"`
	Email string `json:"email"`
}

const (
	maxNameLength  = 100
	maxEmailLength = 255
)

// Validate runs the single rule set for user input and returns every
// field-level violation found, not just the first.
func (r CreateUserRequest) Validate() []problem.Violation {
	var violations []problem.Violation

	name := strings.TrimSpace(r.Name)
	if name == "" {
		violations = append(violations, problem.Violation{Field: "name", Message: "name is required"})
	} else if len(name) > maxNameLength {
		violations = append(violations, problem.Violation{Field: "name", Message: "name must be at most 100 characters"})
	}

	email := strings.TrimSpace(r.Email)
	switch {
	case email == "":
		violations = append(violations, problem.Violation{Field: "email", Message: "email is required"})
	case len(email) > maxEmailLength:
		violations = append(violations, problem.Violation{Field: "email", Message: "email must be at most 255 characters"})
	default:
		if _, err := mail.ParseAddress(email); err != nil {
			violations = append(violations, problem.Violation{Field: "email", Message: "email is not a valid address"})
		}
	}

	return violations
}
