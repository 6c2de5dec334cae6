// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package auth

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/fruitlog/internal/platform/middleware"
	requestutil "github.com/taibuivan/fruitlog/internal/platform/request"
	"github.com/taibuivan/fruitlog/internal/platform/respond"
	"github.com/taibuivan/fruitlog/internal/platform/validate"
	"github.com/taibuivan/fruitlog/internal/users/account"
)

// debugOTPField is the response field carrying the plaintext code in demo mode.
const debugOTPField = "_debug_otp"

// # Definitions & Constructors

// Handler implements the sign-in HTTP endpoints.
//
// This layer is strictly responsible for transport concerns (status codes, JSON).
type Handler struct {
	authService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{authService: service}
}

// Routes returns a [chi.Router] configured with authentication routes.
//
// # Endpoints
//   - POST /login       : Issues a one-time code.
//   - POST /verify-otp  : Exchanges the code for a bearer token.
//   - POST /resend-otp  : Issues a fresh code.
//   - POST /logout      : Closes the session, always succeeds.
//   - GET  /me          : Returns the signed-in user.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()

	// Public endpoints
	router.Post("/login", handler.login)
	router.Post("/verify-otp", handler.verifyOTP)
	router.Post("/resend-otp", handler.resendOTP)
	router.Post("/logout", handler.logout)

	// Protected endpoints
	router.Group(func(r chi.Router) {
		r.Use(middleware.Authenticate(handler.authService))
		r.Use(middleware.RequireAuth)
		r.Get("/me", handler.me)
	})

	return router
}

// # Request Payloads

type emailRequest struct {
	Email string `json:"email"`
}

type verifyRequest struct {
	Email string `json:"email"`
	OTP   string `json:"otp"`
}

// # Handlers

/*
POST /auth/login.

Response:
  - 200: {requiresOtp, user, _debug_otp?}
  - 400: Malformed email
  - 401: UNKNOWN_USER
*/
func (handler *Handler) login(writer http.ResponseWriter, request *http.Request) {
	var input emailRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := (&validate.Validator{}).Required("email", input.Email).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	challenge, err := handler.authService.RequestOTP(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	body := respond.Body{
		"requiresOtp": challenge.RequiresOTP,
		"user":        challenge.User,
		"message":     "A verification code has been sent",
	}
	withDebugCode(body, challenge)

	respond.OK(writer, body)
}

/*
POST /auth/verify-otp.

Response:
  - 200: {token, user}
  - 400: Missing fields or NO_PENDING_CODE
  - 401: CODE_EXPIRED, CODE_MISMATCH
*/
func (handler *Handler) verifyOTP(writer http.ResponseWriter, request *http.Request) {
	var input verifyRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	v := &validate.Validator{}
	v.Required("email", input.Email).Required("otp", input.OTP)
	if err := v.Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	login, err := handler.authService.VerifyOTP(request.Context(), input.Email, input.OTP)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Body{
		"token":     login.Token,
		"expiresAt": login.ExpiresAt,
		"user":      login.User,
	})
}

/*
POST /auth/resend-otp.

Response:
  - 200: {message, _debug_otp?}
  - 401: UNKNOWN_USER
*/
func (handler *Handler) resendOTP(writer http.ResponseWriter, request *http.Request) {
	var input emailRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	if err := (&validate.Validator{}).Required("email", input.Email).Err(); err != nil {
		respond.Error(writer, request, err)
		return
	}

	challenge, err := handler.authService.ResendOTP(request.Context(), input.Email)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	body := respond.Body{"message": "A new verification code has been sent"}
	withDebugCode(body, challenge)

	respond.OK(writer, body)
}

/*
POST /auth/logout.

Response:
  - 200: {message}, whatever the state of the token
*/
func (handler *Handler) logout(writer http.ResponseWriter, request *http.Request) {
	handler.authService.Logout(request.Context(), requestutil.BearerToken(request))
	respond.OK(writer, respond.Body{"message": "Logged out"})
}

/*
GET /auth/me.

Response:
  - 200: {user}
  - 401: MISSING_CREDENTIAL, INVALID_SESSION, SESSION_EXPIRED, USER_NOT_FOUND
*/
func (handler *Handler) me(writer http.ResponseWriter, request *http.Request) {
	principal, err := requestutil.RequiredPrincipal(request)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Body{"user": account.PublicProfile{
		ID:     principal.UserID,
		Email:  principal.Email,
		Name:   principal.Name,
		Role:   principal.Role,
		Hangar: principal.Hangar,
	}})
}

// withDebugCode adds the demo-mode code to body when the service exposed it.
func withDebugCode(body respond.Body, challenge *Challenge) {
	if challenge.DebugCode != "" {
		body[debugOTPField] = challenge.DebugCode
	}
}
