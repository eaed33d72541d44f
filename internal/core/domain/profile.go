package domain

import (
	"time"

	"github.com/google/uuid"
)

// Profile represents a registered user account, the identity root for
// all owned data.
type Profile struct {
	ID              uuid.UUID `json:"id"`
	FullName        string    `json:"full_name"`
	Email           string    `json:"email"`
	PasswordHash    string    `json:"-"` // Never expose
	IsActive        bool      `json:"is_active"`
	ActivationToken *string   `json:"-"` // Single-use, cleared on activation
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}
