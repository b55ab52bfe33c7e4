package models

import (
	"strings"
	"time"
)

// Account roles. These are the only two roles in the system; there is no
// read-only authenticated tier.
const (
	RoleAdmin  = "admin"
	RoleEditor = "editor"
)

// Account represents a login-capable account (admin or editor).
type Account struct {
	ID           string    `json:"id"`
	Email        string    `json:"email"`
	PasswordHash string    `json:"-"` // Never expose this to the client
	PasswordSalt string    `json:"-"`
	Role         string    `json:"role"`
	CreatedAt    time.Time `json:"created_at"`
}

// AuthUser is the identity payload echoed to clients on login and /me.
type AuthUser struct {
	ID    string `json:"id"`
	Email string `json:"email"`
	Role  string `json:"role"`
}

// Public strips an account down to the fields safe to send to a client.
func (a Account) Public() AuthUser {
	return AuthUser{ID: a.ID, Email: a.Email, Role: a.Role}
}

// ValidRole reports whether role is one of the two recognized roles.
func ValidRole(role string) bool {
	return role == RoleAdmin || role == RoleEditor
}

// NormalizeEmail applies the canonical form used for every email comparison
// and for storage: trimmed and lowercased.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}
