// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/fruitlog/internal/platform/apperr"
	"github.com/taibuivan/fruitlog/internal/platform/sec"
	"github.com/taibuivan/fruitlog/internal/users/account"
)

// # Contracts & Types

// UserFinder is the read side of the account repository used by sign-in.
type UserFinder interface {
	FindByID(ctx context.Context, id string) (*account.User, error)
	FindByEmail(ctx context.Context, email string) (*account.User, error)
}

// TokenIssuer mints and verifies bearer session tokens.
type TokenIssuer interface {
	Issue(userID string, issuedAt time.Time, timeToLive time.Duration) (string, error)
	Verify(token string) (*sec.SessionClaims, error)
}

// Options tunes the service.
type Options struct {
	// ExposeDebugOTP copies the plaintext code into [Challenge.DebugCode].
	// It is the single switch behind the "_debug_otp" response field.
	ExposeDebugOTP bool

	// Now overrides the clock, for tests.
	Now func() time.Time
}

// Challenge is the outcome of issuing a one-time code.
type Challenge struct {
	User        account.PublicProfile
	RequiresOTP bool
	ExpiresAt   time.Time

	// DebugCode is empty unless [Options.ExposeDebugOTP] is set.
	DebugCode string
}

// Login is the outcome of a successful code verification.
type Login struct {
	Token     string
	ExpiresAt time.Time
	User      account.PublicProfile
}

// Service implements the OTP sign-in flow and the session guard.
type Service struct {
	userFinder        UserFinder
	otpRepository     OTPRepository
	sessionRepository SessionRepository
	tokenIssuer       TokenIssuer
	sender            Sender
	logger            *slog.Logger
	exposeDebugOTP    bool
	now               func() time.Time
}

// NewService constructs a new [Service] with its dependencies.
func NewService(
	users UserFinder,
	otps OTPRepository,
	sessions SessionRepository,
	tokens TokenIssuer,
	sender Sender,
	logger *slog.Logger,
	options Options,
) *Service {
	now := options.Now
	if now == nil {
		now = time.Now
	}

	return &Service{
		userFinder:        users,
		otpRepository:     otps,
		sessionRepository: sessions,
		tokenIssuer:       tokens,
		sender:            sender,
		logger:            logger,
		exposeDebugOTP:    options.ExposeDebugOTP,
		now:               now,
	}
}

// # One-Time Codes

/*
RequestOTP starts a sign-in for email.

Description: Looks the account up case-insensitively, replaces any pending
code with a fresh one valid for [OTPTTL] and hands it to the sender.

Returns:
  - *Challenge: The public profile, requiresOtp and, in demo mode, the code
  - error: [ErrUnknownUser] or storage failures
*/
func (service *Service) RequestOTP(context context.Context, email string) (*Challenge, error) {
	return service.issue(context, email, "otp_issued")
}

// ResendOTP issues a new code for email exactly like [Service.RequestOTP].
func (service *Service) ResendOTP(context context.Context, email string) (*Challenge, error) {
	return service.issue(context, email, "otp_reissued")
}

func (service *Service) issue(context context.Context, email, event string) (*Challenge, error) {
	user, err := service.lookupEmail(context, email)
	if err != nil {
		return nil, err
	}

	code, err := sec.GenerateOTP()
	if err != nil {
		return nil, fmt.Errorf("auth_service_generate_otp_failed: %w", err)
	}

	hash, err := sec.HashSecret(code)
	if err != nil {
		return nil, fmt.Errorf("auth_service_hash_otp_failed: %w", err)
	}

	now := service.now().UTC()
	pending := &OTPCode{
		Email:     account.NormalizeEmail(email),
		OTPHash:   hash,
		ExpiresAt: now.Add(OTPTTL),
		CreatedAt: now,
	}

	if err := service.otpRepository.Replace(context, pending); err != nil {
		return nil, fmt.Errorf("auth_service_store_otp_failed: %w", err)
	}

	if err := service.sender.SendOTP(context, user.Email, user.Name, code); err != nil {
		return nil, fmt.Errorf("auth_service_send_otp_failed: %w", err)
	}

	service.logger.InfoContext(context, event, slog.String("user_id", user.ID))

	challenge := &Challenge{
		User:        user.Profile(),
		RequiresOTP: true,
		ExpiresAt:   pending.ExpiresAt,
	}
	if service.exposeDebugOTP {
		challenge.DebugCode = code
	}

	return challenge, nil
}

/*
VerifyOTP exchanges a pending code for a bearer session.

Description: The code is single-use. An expired code is deleted on sight; a
wrong code is kept so the user can retry until it expires.

Returns:
  - *Login: The bearer token and the public profile
  - error: [ErrNoPendingCode], [ErrCodeExpired], [ErrCodeMismatch], [ErrUnknownUser] or storage failures
*/
func (service *Service) VerifyOTP(context context.Context, email, code string) (*Login, error) {
	key := account.NormalizeEmail(email)
	now := service.now().UTC()

	// Expired and matching codes are removed, a wrong code stays pending.
	// At most one concurrent caller consumes a given code.
	var expired, matched bool
	_, consumed, err := service.otpRepository.Consume(context, key, func(pending *OTPCode) bool {
		expired = pending.Expired(now)
		matched = !expired && sec.CheckSecret(code, pending.OTPHash)
		return expired || matched
	})
	if errors.Is(err, ErrNoRecord) {
		return nil, ErrNoPendingCode
	}
	if err != nil {
		return nil, fmt.Errorf("auth_service_consume_otp_failed: %w", err)
	}

	switch {
	case expired:
		return nil, ErrCodeExpired
	case !matched:
		service.logger.InfoContext(context, "otp_mismatch")
		return nil, ErrCodeMismatch
	case !consumed:
		return nil, ErrNoPendingCode
	}

	user, err := service.lookupEmail(context, key)
	if err != nil {
		return nil, err
	}

	token, session, err := service.openSession(context, user.ID, now)
	if err != nil {
		return nil, err
	}

	service.logger.InfoContext(context, "session_opened", slog.String("user_id", user.ID))

	return &Login{Token: token, ExpiresAt: session.ExpiresAt, User: user.Profile()}, nil
}

// openSession mints a token whose digest is not already stored and persists its session.
func (service *Service) openSession(context context.Context, userID string, now time.Time) (string, *Session, error) {
	for range sessionIssueAttempts {
		token, err := service.tokenIssuer.Issue(userID, now, SessionTTL)
		if err != nil {
			return "", nil, fmt.Errorf("auth_service_issue_token_failed: %w", err)
		}

		session := &Session{
			TokenHash: sec.HashToken(token),
			UserID:    userID,
			ExpiresAt: now.Add(SessionTTL),
			CreatedAt: now,
		}

		err = service.sessionRepository.Create(context, session)
		if errors.Is(err, ErrDuplicateSession) {
			continue
		}
		if err != nil {
			return "", nil, fmt.Errorf("auth_service_store_session_failed: %w", err)
		}

		return token, session, nil
	}

	return "", nil, fmt.Errorf("auth_service_store_session_failed: %w", ErrDuplicateSession)
}

// # Sessions

/*
Logout closes the session of token.

Description: Idempotent. Missing tokens, unknown tokens and storage failures
all report success; failures are only logged.
*/
func (service *Service) Logout(context context.Context, token string) {
	if token == "" {
		return
	}

	if err := service.sessionRepository.Delete(context, sec.HashToken(token)); err != nil {
		service.logger.WarnContext(context, "session_close_failed", slog.Any("error", err))
		return
	}

	service.logger.InfoContext(context, "session_closed")
}

/*
Authenticate resolves a bearer token into its user.

Description: Expiry is absolute and checked lazily here. An expired session
is deleted as a side effect of the failed check.

Returns:
  - *account.User: The signed-in account
  - error: sec.ErrMissingCredential, sec.ErrInvalidSession,
    sec.ErrSessionExpired, sec.ErrUserNotFound or storage failures
*/
func (service *Service) Authenticate(context context.Context, token string) (*account.User, error) {
	if token == "" {
		return nil, sec.ErrMissingCredential
	}

	claims, err := service.tokenIssuer.Verify(token)
	if err != nil {
		return nil, sec.ErrInvalidSession
	}

	digest := sec.HashToken(token)
	session, err := service.sessionRepository.Find(context, digest)
	if errors.Is(err, ErrNoRecord) {
		return nil, sec.ErrInvalidSession
	}
	if err != nil {
		return nil, fmt.Errorf("auth_service_find_session_failed: %w", err)
	}

	if session.UserID != claims.Subject {
		return nil, sec.ErrInvalidSession
	}

	if session.Expired(service.now()) {
		if err := service.sessionRepository.Delete(context, digest); err != nil {
			service.logger.WarnContext(context, "session_expired_cleanup_failed", slog.Any("error", err))
		}
		return nil, sec.ErrSessionExpired
	}

	user, err := service.userFinder.FindByID(context, session.UserID)
	if apperr.HasCode(err, "NOT_FOUND") {
		return nil, sec.ErrUserNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("auth_service_find_user_failed: %w", err)
	}

	return user, nil
}

// Resolve implements middleware.SessionResolver.
func (service *Service) Resolve(context context.Context, token string) (*sec.Principal, error) {
	user, err := service.Authenticate(context, token)
	if err != nil {
		return nil, err
	}
	return user.Principal(), nil
}

// # Maintenance

// PurgeExpired removes codes and sessions already past their expiry.
func (service *Service) PurgeExpired(context context.Context) (codes int, sessions int, err error) {
	now := service.now()

	codes, err = service.otpRepository.DeleteExpired(context, now)
	if err != nil {
		return 0, 0, fmt.Errorf("auth_service_purge_otp_failed: %w", err)
	}

	sessions, err = service.sessionRepository.DeleteExpired(context, now)
	if err != nil {
		return codes, 0, fmt.Errorf("auth_service_purge_sessions_failed: %w", err)
	}

	return codes, sessions, nil
}

// lookupEmail maps a missing account to [ErrUnknownUser].
func (service *Service) lookupEmail(context context.Context, email string) (*account.User, error) {
	user, err := service.userFinder.FindByEmail(context, email)
	if apperr.HasCode(err, "NOT_FOUND") {
		return nil, ErrUnknownUser
	}
	if err != nil {
		return nil, fmt.Errorf("auth_service_find_user_failed: %w", err)
	}
	return user, nil
}
