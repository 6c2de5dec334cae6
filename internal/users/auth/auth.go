// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package auth implements the passwordless sign-in flow and the session guard.

A user proves ownership of their email with a 6-digit one-time code and
receives a bearer session token valid for 24 hours.

Architecture:

  - Service: RequestOTP, ResendOTP, VerifyOTP, Logout and Authenticate.
  - Repositories: OTP codes and sessions, on the JSON document or on Redis.
  - Sender: delivers the code; the stock sender writes it to the log.

Codes are stored as bcrypt hashes and sessions under the SHA-256 digest of
their token, so the store never holds a usable credential.
*/
package auth

import "time"

// # Domain Entities

// OTPCode is the single pending one-time code of an email address.
type OTPCode struct {
	Email     string    `json:"email"`
	OTPHash   string    `json:"otpHash"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the code is past its expiry at now.
func (c *OTPCode) Expired(now time.Time) bool {
	return !now.Before(c.ExpiresAt)
}

// Session binds a bearer token digest to a user until an absolute expiry.
type Session struct {
	TokenHash string    `json:"tokenHash"`
	UserID    string    `json:"userId"`
	ExpiresAt time.Time `json:"expiresAt"`
	CreatedAt time.Time `json:"createdAt"`
}

// Expired reports whether the session is past its expiry at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}
