package model

import (
	"fmt"
	"strings"
)

// Role is an account's privilege level. The numeric value is the rank:
// lower is more privileged.
type Role int

const (
	RoleSuperAdmin Role = 1
	RoleAdmin      Role = 2
	RoleDevotee    Role = 3
)

// DefaultRole is assigned at registration.
const DefaultRole = RoleDevotee

var roleNames = map[Role]string{
	RoleSuperAdmin: "SuperAdmin",
	RoleAdmin:      "Admin",
	RoleDevotee:    "Devotee",
}

// Rank returns the role's position in the privilege order (1 is highest).
func (r Role) Rank() int {
	return int(r)
}

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	_, ok := roleNames[r]
	return ok
}

// AtLeast reports whether r is as privileged as min or more.
func (r Role) AtLeast(min Role) bool {
	return r.Valid() && min.Valid() && r.Rank() <= min.Rank()
}

func (r Role) String() string {
	if name, ok := roleNames[r]; ok {
		return name
	}
	return fmt.Sprintf("Role(%d)", int(r))
}

// ParseRole maps a role name (case-insensitive) back to a Role.
func ParseRole(name string) (Role, error) {
	for role, n := range roleNames {
		if strings.EqualFold(n, strings.TrimSpace(name)) {
			return role, nil
		}
	}
	return 0, fmt.Errorf("unknown role %q", name)
}
