package models

import (
	"errors"
	"strings"
	"time"
)

// Project represents a localization project. Memberships and invitations
// are owned by the project they reference; deleting a project cascades to
// both at the database layer.
type Project struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	CreatedAt   time.Time `json:"created_at"`
	UpdatedAt   time.Time `json:"updated_at"`
}

// Validation errors for projects.
var (
	ErrProjectNameRequired = errors.New("project name is required")
	ErrProjectNameTooLong  = errors.New("project name must be 255 characters or less")
)

// Validate validates the project fields.
func (p *Project) Validate() error {
	name := strings.TrimSpace(p.Name)
	if name == "" {
		return ErrProjectNameRequired
	}
	if len(name) > 255 {
		return ErrProjectNameTooLong
	}
	return nil
}
