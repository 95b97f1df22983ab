package model

import (
	"time"

	"github.com/google/uuid"
)

// Type is the closed set of notification kinds the system accepts.
type Type string

const (
	TypeWarning     Type = "warning"
	TypeSuccess     Type = "success"
	TypeInformative Type = "informative"
	TypeApplication Type = "application"
)

// Valid reports whether t is one of the recognized notification types.
func (t Type) Valid() bool {
	switch t {
	case TypeWarning, TypeSuccess, TypeInformative, TypeApplication:
		return true
	}

	return false
}

// Notification represents a persisted notification targeted at one user.
type Notification struct {
	ID          uuid.UUID `json:"id"`          // unique identifier, generated at creation
	UserID      string    `json:"userid"`      // owning user, trusted from the upstream caller
	Type        Type      `json:"type"`        // warning, success, informative or application
	Title       string    `json:"title"`       // short text, required
	Description string    `json:"description"` // longer text, required
	WasRead     bool      `json:"wasRead"`     // false at creation, set to true at most once meaningfully
	Date        time.Time `json:"date"`        // creation timestamp, sole sort key for listing

	// Optional correlation identifiers for downstream display. No
	// referential integrity is enforced on them.
	RelatedProjectID *string `json:"related_project_id,omitempty"`
	RelatedUserID    *string `json:"related_user_id,omitempty"`
	RelatedTaskID    *string `json:"related_task_id,omitempty"`
}
