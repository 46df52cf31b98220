// Copyright (c) 2026 Libris. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

// # Staff Roles

// UserRole represents the authorization level granted to a staff token.
type UserRole string

const (
	// Unrestricted system access
	RoleAdmin UserRole = "admin"

	// Can manage the catalog, patrons and circulation desk
	RoleLibrarian UserRole = "librarian"

	// Read-only staff access
	RoleClerk UserRole = "clerk"
)

// # Role Hierarchy

// AtLeast checks if the current role meets or exceeds the required target role.
func (r UserRole) AtLeast(target UserRole) bool {
	return r.level() >= target.level()
}

// Valid reports whether r is one of the known roles.
func (r UserRole) Valid() bool {
	return r.level() > 0
}

// level maps a role to a numeric hierarchy level for comparison logic.
func (r UserRole) level() int {
	switch r {
	case RoleAdmin:
		return 30
	case RoleLibrarian:
		return 20
	case RoleClerk:
		return 10
	default:
		return 0
	}
}
