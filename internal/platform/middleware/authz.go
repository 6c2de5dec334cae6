// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware

import (
	"context"
	"net/http"

	"github.com/taibuivan/fruitlog/internal/platform/ctxutil"
	requestutil "github.com/taibuivan/fruitlog/internal/platform/request"
	"github.com/taibuivan/fruitlog/internal/platform/respond"
	"github.com/taibuivan/fruitlog/internal/platform/sec"
)

// SessionResolver turns a bearer token into the authenticated caller.
//
// # Why an interface?
//
// Defining SessionResolver here decouples the middleware from the session
// service, so tests can plug a stub resolver.
type SessionResolver interface {
	Resolve(ctx context.Context, token string) (*sec.Principal, error)
}

// Authenticate resolves the bearer token of the request into a [sec.Principal].
//
// # Flow
//  1. Without an 'Authorization: Bearer <token>' header the request proceeds anonymously.
//  2. Otherwise the token is resolved against the session store.
//  3. Resolution failures (invalid, expired, orphaned session) abort with 401.
//  4. The principal is injected into the request context for downstream use.
func Authenticate(resolver SessionResolver) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			token := requestutil.BearerToken(request)

			// ── 1. Anonymous Access ───────────────────────────────────────────
			if token == "" {
				next.ServeHTTP(writer, request)
				return
			}

			// ── 2. Session Resolution ─────────────────────────────────────────
			principal, err := resolver.Resolve(request.Context(), token)
			if err != nil {
				respond.Error(writer, request, err)
				return
			}

			// ── 3. Context Injection ──────────────────────────────────────────
			ctx := ctxutil.WithPrincipal(request.Context(), principal)
			next.ServeHTTP(writer, request.WithContext(ctx))
		})
	}
}

// RequireAuth blocks requests that are not authenticated.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate].
func RequireAuth(next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if ctxutil.GetPrincipal(request.Context()) == nil {
			respond.Error(writer, request, sec.ErrMissingCredential)
			return
		}
		next.ServeHTTP(writer, request)
	})
}

// RequireRole blocks requests whose caller holds none of the allowed roles.
//
// # Usage
//
// Must be registered in the router AFTER [Authenticate]. It implies
// [RequireAuth] so you don't need to mount both.
func RequireRole(allowed ...sec.UserRole) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
			principal := ctxutil.GetPrincipal(request.Context())

			// ── 1. Authentication Check ───────────────────────────────────────
			if principal == nil {
				respond.Error(writer, request, sec.ErrMissingCredential)
				return
			}

			// ── 2. Authorization Check ────────────────────────────────────────
			if err := sec.Authorize(principal, allowed...); err != nil {
				respond.Error(writer, request, err)
				return
			}

			next.ServeHTTP(writer, request)
		})
	}
}
