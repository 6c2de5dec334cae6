// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import "time"

// # Authentication Constraints

const (
	// OTPTTL is the absolute lifetime of a one-time code, counted from issuance.
	OTPTTL = 10 * time.Minute

	// SessionTTL is the absolute lifetime of a bearer session. Sessions are never renewed.
	SessionTTL = 24 * time.Hour

	// sessionIssueAttempts bounds retries when a freshly minted token collides with a live one.
	sessionIssueAttempts = 3
)
