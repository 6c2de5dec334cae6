// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/fruitlog/internal/platform/middleware"
	requestutil "github.com/taibuivan/fruitlog/internal/platform/request"
	"github.com/taibuivan/fruitlog/internal/platform/respond"
	"github.com/taibuivan/fruitlog/internal/platform/sec"
)

// Auditor appends an entry to the audit trail.
type Auditor interface {
	Record(ctx context.Context, userID, userName, action, details string)
}

// Handler implements the HTTP layer for user administration.
type Handler struct {
	accountService *Service
	auditor        Auditor
}

// NewHandler constructs a new account [Handler].
func NewHandler(service *Service, auditor Auditor) *Handler {
	return &Handler{accountService: service, auditor: auditor}
}

// Routes returns a [chi.Router] with the admin-only user endpoints.
func (handler *Handler) Routes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.Administrators...))

	router.Get("/", handler.list)
	router.Post("/", handler.create)
	router.Get("/{id}", handler.get)
	router.Put("/{id}", handler.update)

	return router
}

// # Request Payloads

type createRequest struct {
	Email    string `json:"email"`
	Name     string `json:"name"`
	Role     string `json:"role"`
	Hangar   string `json:"hangar"`
	IsActive *bool  `json:"isActive"`
}

type updateRequest struct {
	Email    *string `json:"email"`
	Name     *string `json:"name"`
	Role     *string `json:"role"`
	Hangar   *string `json:"hangar"`
	IsActive *bool   `json:"isActive"`
}

// # User Endpoints

/*
GET /users.

Response:
  - 200: {users}
  - 403: Caller is not an admin
*/
func (handler *Handler) list(writer http.ResponseWriter, request *http.Request) {
	users, err := handler.accountService.List(request.Context())
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Body{"users": users})
}

/*
POST /users.

Response:
  - 201: {user}
  - 400: Validation failure
  - 409: Email already used
*/
func (handler *Handler) create(writer http.ResponseWriter, request *http.Request) {
	var input createRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	user, err := handler.accountService.Create(request.Context(), CreateInput{
		Email:    input.Email,
		Name:     input.Name,
		Role:     sec.UserRole(input.Role),
		Hangar:   input.Hangar,
		IsActive: input.IsActive,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.audit(request, "USER_CREATED", fmt.Sprintf("%s (%s)", user.Email, user.Role))

	respond.Created(writer, respond.Body{"user": user})
}

/*
GET /users/{id}.

Response:
  - 200: {user}
  - 404: Unknown id
*/
func (handler *Handler) get(writer http.ResponseWriter, request *http.Request) {
	user, err := handler.accountService.Get(request.Context(), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Body{"user": user})
}

/*
PUT /users/{id}.

Response:
  - 200: {user}
  - 400: Validation failure
  - 404: Unknown id
  - 409: Email already used
*/
func (handler *Handler) update(writer http.ResponseWriter, request *http.Request) {
	var input updateRequest
	if err := requestutil.DecodeJSON(request, &input); err != nil {
		respond.Error(writer, request, err)
		return
	}

	var role *sec.UserRole
	if input.Role != nil {
		converted := sec.UserRole(*input.Role)
		role = &converted
	}

	user, err := handler.accountService.Update(request.Context(), requestutil.ID(request, "id"), UpdateInput{
		Email:    input.Email,
		Name:     input.Name,
		Role:     role,
		Hangar:   input.Hangar,
		IsActive: input.IsActive,
	})
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	handler.audit(request, "USER_UPDATED", fmt.Sprintf("%s (%s)", user.Email, user.Role))

	respond.OK(writer, respond.Body{"user": user})
}

// audit records an admin action under the calling principal.
func (handler *Handler) audit(request *http.Request, action, details string) {
	principal := requestutil.Principal(request)
	if principal == nil {
		return
	}
	handler.auditor.Record(request.Context(), principal.UserID, principal.Name, action, details)
}
