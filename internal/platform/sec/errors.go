// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec

import (
	"net/http"

	"github.com/taibuivan/fruitlog/internal/platform/apperr"
)

// # Authentication Failures
//
// Shared by the session guard and the HTTP middleware, all rendered as 401.

var (
	// ErrMissingCredential is returned when a protected call carries no bearer token.
	ErrMissingCredential = apperr.New(http.StatusUnauthorized, "MISSING_CREDENTIAL", "Authentication token required")

	// ErrInvalidSession is returned when the token matches no live session.
	ErrInvalidSession = apperr.New(http.StatusUnauthorized, "INVALID_SESSION", "Invalid session")

	// ErrSessionExpired is returned when the session reached its absolute expiry.
	ErrSessionExpired = apperr.New(http.StatusUnauthorized, "SESSION_EXPIRED", "Session expired, please log in again")

	// ErrUserNotFound is returned when the session outlived its user.
	ErrUserNotFound = apperr.New(http.StatusUnauthorized, "USER_NOT_FOUND", "User not found")
)
