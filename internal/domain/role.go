package domain

import (
	"fmt"
	"strings"
)

// Role is the closed set of account roles the marketplace knows about.
// Keeping it a dedicated type forces every dispatch on role through an
// exhaustive switch instead of a stringly default branch.
type Role string

const (
	RoleBuyer  Role = "buyer"
	RoleSeller Role = "seller"
	RoleAdmin  Role = "admin"
)

// Roles lists every valid role in registration-form order.
func Roles() []Role {
	return []Role{RoleBuyer, RoleSeller, RoleAdmin}
}

// ParseRole validates a role received from the API or a form.
func ParseRole(value string) (Role, error) {
	switch Role(strings.ToLower(strings.TrimSpace(value))) {
	case RoleBuyer:
		return RoleBuyer, nil
	case RoleSeller:
		return RoleSeller, nil
	case RoleAdmin:
		return RoleAdmin, nil
	default:
		return "", fmt.Errorf("domain: unknown role %q", value)
	}
}

// Valid reports whether the role is one of the known variants.
func (r Role) Valid() bool {
	_, err := ParseRole(string(r))
	return err == nil
}

// Label returns the role name for display.
func (r Role) Label() string {
	value := strings.TrimSpace(string(r))
	if value == "" {
		return ""
	}
	return strings.ToUpper(value[:1]) + strings.ToLower(value[1:])
}
