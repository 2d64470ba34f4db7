package domain

import "time"

// Role enumerates what a caller is allowed to do.
type Role string

const (
	RoleUser  Role = "user"
	RoleAgent Role = "agent"
	RoleAdmin Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleUser, RoleAgent, RoleAdmin:
		return true
	}
	return false
}

// IsStaff reports whether the role can work tickets.
func (r Role) IsStaff() bool {
	return r == RoleAgent || r == RoleAdmin
}

// User is an identity that submits or works tickets.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Caller is the authenticated identity attached to a request.
type Caller struct {
	ID   string
	Role Role
}

// CallerFor returns the caller view of a user record.
func CallerFor(u *User) Caller {
	return Caller{ID: u.ID, Role: u.Role}
}
