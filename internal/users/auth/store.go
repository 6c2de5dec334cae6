// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"time"
)

var (
	// ErrNoRecord is returned by repositories when the requested code or session does not exist.
	ErrNoRecord = errors.New("auth: record not found")

	// ErrDuplicateSession is returned when a session digest is already stored.
	ErrDuplicateSession = errors.New("auth: duplicate session token")
)

// # Repository Contracts

// OTPRepository stores at most one pending code per email.
type OTPRepository interface {
	/*
		Replace stores code, discarding any earlier code of the same email.

		Returns:
		  - error: Storage failures
	*/
	Replace(context context.Context, code *OTPCode) error

	// Find returns the pending code of email, or [ErrNoRecord].
	Find(context context.Context, email string) (*OTPCode, error)

	/*
		Consume looks up the code of email and, in the same atomic step, removes
		it when remove accepts it. Of several concurrent callers at most one
		observes removed == true for a given code.

		Returns:
		  - *OTPCode: The code as it was stored
		  - bool: Whether this call removed it
		  - error: [ErrNoRecord] when no code is pending, or storage failures
	*/
	Consume(context context.Context, email string, remove func(code *OTPCode) bool) (*OTPCode, bool, error)

	// DeleteExpired removes every code expired at before and returns how many were removed.
	DeleteExpired(context context.Context, before time.Time) (int, error)
}

// SessionRepository stores bearer sessions keyed by token digest.
type SessionRepository interface {
	/*
		Create stores a new session.

		Returns:
		  - error: [ErrDuplicateSession] if the digest is taken, or storage failures
	*/
	Create(context context.Context, session *Session) error

	// Find returns the session stored under tokenHash, or [ErrNoRecord].
	Find(context context.Context, tokenHash string) (*Session, error)

	// Delete removes a session. Deleting a missing session is not an error.
	Delete(context context.Context, tokenHash string) error

	// DeleteExpired removes every session expired at before and returns how many were removed.
	DeleteExpired(context context.Context, before time.Time) (int, error)
}
