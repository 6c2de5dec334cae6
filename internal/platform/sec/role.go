// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package sec provides the security primitives of the logistics API.

It isolates security-sensitive code from the domain logic:

  - Roles and the single capability check ([Authorize]).
  - Session token signing and verification (HS256).
  - Secret material: OTP generation, bcrypt hashing and SHA-256 token digests.
*/
package sec

import (
	"slices"

	"github.com/taibuivan/fruitlog/internal/platform/apperr"
)

// # User Roles

// UserRole represents the authorization level granted to an account.
type UserRole string

const (
	// Unrestricted system access, sees every hangar
	RoleAdmin UserRole = "admin"

	// Registers trucks and drives them through arrival and unloading
	RoleManager UserRole = "manager"

	// Handles sales at the counter
	RoleCashier UserRole = "cashier"

	// Works the warehouse floor of one hangar
	RoleWarehouse UserRole = "warehouse"

	// Read-only access
	RoleViewer UserRole = "viewer"
)

// Roles lists every recognised role.
var Roles = []UserRole{RoleAdmin, RoleManager, RoleCashier, RoleWarehouse, RoleViewer}

// Valid reports whether r is one of the recognised roles.
func (r UserRole) Valid() bool {
	return slices.Contains(Roles, r)
}

// RoleNames returns the recognised roles as plain strings, for validation messages.
func RoleNames() []string {
	names := make([]string, len(Roles))
	for i, role := range Roles {
		names[i] = string(role)
	}
	return names
}

// # Capability Groups

var (
	// TruckOperators may register trucks, change their status and unload them.
	TruckOperators = []UserRole{RoleAdmin, RoleManager}

	// Administrators may manage users and read notifications and audit logs.
	Administrators = []UserRole{RoleAdmin}

	// Cashiers gates counter operations.
	Cashiers = []UserRole{RoleCashier}
)

// # Principal

// Principal is the authenticated caller resolved from a bearer session.
type Principal struct {
	UserID string
	Name   string
	Email  string
	Role   UserRole
	Hangar string
}

// SeesAllHangars reports whether the principal is exempt from hangar scoping.
//
// Admins and users without an assigned hangar see every row.
func (p *Principal) SeesAllHangars() bool {
	return p.Role == RoleAdmin || p.Hangar == ""
}

// CanSeeHangar reports whether a row stored under hangar is visible to the principal.
func (p *Principal) CanSeeHangar(hangar string) bool {
	return p.SeesAllHangars() || p.Hangar == hangar
}

// # Capability Check

/*
Authorize is the single capability check invoked before every protected operation.

Parameters:
  - principal: *Principal (may be nil for anonymous callers)
  - allowed: ...UserRole

Returns:
  - error: [apperr.Unauthorized] without principal, [apperr.Forbidden] on role mismatch
*/
func Authorize(principal *Principal, allowed ...UserRole) error {
	if principal == nil {
		return apperr.Unauthorized("Authentication required")
	}

	if !slices.Contains(allowed, principal.Role) {
		return apperr.Forbidden("You do not have permission to perform this action")
	}

	return nil
}
