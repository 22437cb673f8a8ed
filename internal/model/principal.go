package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleAdmin   UserRole = "admin"
	UserRoleManager UserRole = "manager"
	UserRoleHR      UserRole = "hr"
	UserRoleDriver  UserRole = "driver"
)

type Principal struct {
	UserID uuid.UUID
	Role   UserRole
}

// HasRole reports whether the principal holds one of the given roles.
func (p Principal) HasRole(roles ...string) bool {
	for _, role := range roles {
		if string(p.Role) == role {
			return true
		}
	}
	return false
}
