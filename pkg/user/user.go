package user

import (
	"errors"
	"fmt"
	"time"
)

type Role string

const (
	RoleUser  Role = "User"
	RoleAdmin Role = "Admin"
)

var ErrInvalidRole = errors.New("invalid role")

// ParseRole validates a raw role value against the closed set of roles.
func ParseRole(value string) (Role, error) {
	switch Role(value) {
	case RoleUser, RoleAdmin:
		return Role(value), nil
	}
	return "", fmt.Errorf("%w: %q", ErrInvalidRole, value)
}

type User struct {
	Uid          string
	Username     string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
}

// IsAdmin reports whether the user may access administrative views.
func (u User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
