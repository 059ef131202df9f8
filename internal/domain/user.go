package domain

import "time"

// Role determines which workflow actions an account may perform.
type Role string

const (
	RoleAdmin    Role = "ADMIN"
	RoleHR       Role = "HR"
	RoleManager  Role = "MANAGER"
	RoleEmployee Role = "EMPLOYEE"
)

// ValidRole reports whether the value is one of the known roles.
func ValidRole(r Role) bool {
	switch r {
	case RoleAdmin, RoleHR, RoleManager, RoleEmployee:
		return true
	}
	return false
}

// User is an account in the identity store. Email is the login key and is
// unique. The role is assigned at registration and never changes.
type User struct {
	ID           string
	Email        string
	Username     string
	Role         Role
	PasswordHash string
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// UserRef is a lightweight expansion of a referenced account, populated by
// repository joins for response convenience.
type UserRef struct {
	ID    string
	Email string
}
