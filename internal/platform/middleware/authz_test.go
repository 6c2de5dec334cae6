// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package middleware_test

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/fruitlog/internal/platform/ctxutil"
	"github.com/taibuivan/fruitlog/internal/platform/middleware"
	"github.com/taibuivan/fruitlog/internal/platform/sec"
)

type resolverFunc func(ctx context.Context, token string) (*sec.Principal, error)

func (f resolverFunc) Resolve(ctx context.Context, token string) (*sec.Principal, error) {
	return f(ctx, token)
}

var cashier = &sec.Principal{UserID: "u-1", Name: "Fatou", Role: sec.RoleCashier, Hangar: "Hangar 1"}

func fixedResolver(ctx context.Context, token string) (*sec.Principal, error) {
	if token == "valid" {
		return cashier, nil
	}
	return nil, sec.ErrInvalidSession
}

func TestAuthenticate(t *testing.T) {
	var principal *sec.Principal
	handler := middleware.Authenticate(resolverFunc(fixedResolver))(http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		principal = ctxutil.GetPrincipal(request.Context())
	}))

	tests := []struct {
		name          string
		authorization string
		wantStatus    int
		wantCode      string
		wantPrincipal *sec.Principal
	}{
		{"anonymous passes through", "", http.StatusOK, "", nil},
		{"valid token", "Bearer valid", http.StatusOK, "", cashier},
		{"invalid token", "Bearer forged", http.StatusUnauthorized, "INVALID_SESSION", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			principal = nil
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.authorization != "" {
				request.Header.Set("Authorization", tt.authorization)
			}

			recorder := httptest.NewRecorder()
			handler.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			assert.Equal(t, tt.wantPrincipal, principal)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, recorder))
			}
		})
	}
}

func TestRequireRole(t *testing.T) {
	guarded := middleware.RequireRole(sec.Administrators...)(okHandler)

	tests := []struct {
		name       string
		principal  *sec.Principal
		wantStatus int
		wantCode   string
	}{
		{"anonymous", nil, http.StatusUnauthorized, "MISSING_CREDENTIAL"},
		{"wrong role", cashier, http.StatusForbidden, "FORBIDDEN"},
		{"admin", &sec.Principal{UserID: "u-0", Role: sec.RoleAdmin}, http.StatusOK, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			request := httptest.NewRequest(http.MethodGet, "/", nil)
			if tt.principal != nil {
				request = request.WithContext(ctxutil.WithPrincipal(request.Context(), tt.principal))
			}

			recorder := httptest.NewRecorder()
			guarded.ServeHTTP(recorder, request)

			assert.Equal(t, tt.wantStatus, recorder.Code)
			if tt.wantCode != "" {
				assert.Equal(t, tt.wantCode, errorCode(t, recorder))
			}
		})
	}
}

func TestRequireAuth(t *testing.T) {
	recorder := httptest.NewRecorder()
	middleware.RequireAuth(okHandler).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusUnauthorized, recorder.Code)
	assert.Equal(t, "MISSING_CREDENTIAL", errorCode(t, recorder))
}
