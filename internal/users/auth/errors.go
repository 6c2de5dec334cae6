// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/taibuivan/fruitlog/internal/platform/apperr"
)

// # Sign-in Failures
//
// Session failures (missing, invalid, expired, orphaned) live in package sec
// because the HTTP middleware reports them too.

var (
	// ErrUnknownUser is returned when no account matches the email.
	ErrUnknownUser = apperr.New(http.StatusUnauthorized, "UNKNOWN_USER", "No account matches this email")

	// ErrNoPendingCode is returned when the email has no outstanding code.
	ErrNoPendingCode = apperr.New(http.StatusBadRequest, "NO_PENDING_CODE", "No verification code was requested for this email")

	// ErrCodeExpired is returned when the code outlived its 10 minutes. The code is discarded.
	ErrCodeExpired = apperr.New(http.StatusUnauthorized, "CODE_EXPIRED", "The verification code has expired, request a new one")

	// ErrCodeMismatch is returned when the submitted code differs from the pending one.
	ErrCodeMismatch = apperr.New(http.StatusUnauthorized, "CODE_MISMATCH", "Invalid verification code")
)
