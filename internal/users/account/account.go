// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package account owns the user records of the logistics API.

Users are created and updated by administrators only; the authentication
flow reads them to issue OTP codes and to resolve bearer sessions.

# Architecture

  - Entities: User and its PublicProfile projection.
  - Repository: one typed contract, implemented on the JSON document and on PostgreSQL.
  - Service: creation, listing and updates with case-insensitive email uniqueness.
*/
package account

import (
	"context"
	"strings"
	"time"

	"github.com/taibuivan/fruitlog/internal/platform/sec"
)

// # Domain Entities

// User is an account allowed to sign in with an emailed one-time code.
type User struct {
	ID        string       `json:"id"`
	Email     string       `json:"email"`
	Name      string       `json:"name"`
	Role      sec.UserRole `json:"role"`
	Hangar    string       `json:"hangar,omitempty"`
	IsActive  bool         `json:"isActive"`
	CreatedAt time.Time    `json:"createdAt"`
	UpdatedAt time.Time    `json:"updatedAt"`
}

// PublicProfile is the subset of a user returned by the authentication endpoints.
type PublicProfile struct {
	ID     string       `json:"id"`
	Email  string       `json:"email"`
	Name   string       `json:"name"`
	Role   sec.UserRole `json:"role"`
	Hangar string       `json:"hangar,omitempty"`
}

// Profile projects the user onto its public fields.
func (u *User) Profile() PublicProfile {
	return PublicProfile{
		ID:     u.ID,
		Email:  u.Email,
		Name:   u.Name,
		Role:   u.Role,
		Hangar: u.Hangar,
	}
}

// Principal converts the user into the authenticated caller seen by handlers.
func (u *User) Principal() *sec.Principal {
	return &sec.Principal{
		UserID: u.ID,
		Name:   u.Name,
		Email:  u.Email,
		Role:   u.Role,
		Hangar: u.Hangar,
	}
}

// NormalizeEmail returns the comparison key of an email address.
func NormalizeEmail(email string) string {
	return strings.ToLower(strings.TrimSpace(email))
}

// # Repository Contracts

// Repository defines the persistence contract for user accounts.
type Repository interface {
	/*
		FindByID retrieves a user by its identifier.

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByID(context context.Context, id string) (*User, error)

	/*
		FindByEmail retrieves a user by email, compared case-insensitively.

		Returns:
		  - *User: Loaded account entity
		  - error: apperr.NotFound or storage failures
	*/
	FindByEmail(context context.Context, email string) (*User, error)

	// List returns every user ordered by creation time.
	List(context context.Context) ([]User, error)

	// Count returns the number of stored users.
	Count(context context.Context) (int, error)

	/*
		Create inserts a new user.

		Returns:
		  - error: apperr.Conflict when the email is taken, or storage failures
	*/
	Create(context context.Context, user *User) error

	/*
		Update overwrites the mutable fields of an existing user.

		Returns:
		  - error: apperr.NotFound, apperr.Conflict or storage failures
	*/
	Update(context context.Context, user *User) error
}
