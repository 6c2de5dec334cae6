// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/fruitlog/internal/activity"
	"github.com/taibuivan/fruitlog/internal/platform/ctxutil"
	"github.com/taibuivan/fruitlog/internal/platform/sec"
)

// asPrincipal injects a fixed caller, standing in for the session middleware.
func asPrincipal(principal *sec.Principal, next http.Handler) http.Handler {
	return http.HandlerFunc(func(writer http.ResponseWriter, request *http.Request) {
		if principal != nil {
			request = request.WithContext(ctxutil.WithPrincipal(request.Context(), principal))
		}
		next.ServeHTTP(writer, request)
	})
}

func newRouter(service *activity.Service) chi.Router {
	handler := activity.NewHandler(service)
	router := chi.NewRouter()
	router.Mount("/notifications", handler.NotificationRoutes())
	router.Mount("/audit-logs", handler.AuditRoutes())
	return router
}

func TestHTTP_AuditLogsPaginated(t *testing.T) {
	service, _ := newService(t)
	for range 3 {
		service.Record(context.Background(), "u", "Awa", "USER_CREATED", "")
	}

	recorder := httptest.NewRecorder()
	asPrincipal(admin, newRouter(service)).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/audit-logs?limit=2", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	var body struct {
		Success   bool               `json:"success"`
		AuditLogs []activity.AuditLog `json:"auditLogs"`
		Meta      struct {
			Total      int `json:"total"`
			TotalPages int `json:"totalPages"`
		} `json:"meta"`
	}
	require.NoError(t, json.Unmarshal(recorder.Body.Bytes(), &body))
	assert.True(t, body.Success)
	assert.Len(t, body.AuditLogs, 2)
	assert.Equal(t, 3, body.Meta.Total)
	assert.Equal(t, 2, body.Meta.TotalPages)
}

func TestHTTP_NotificationsAccess(t *testing.T) {
	service, _ := newService(t)
	service.Notify(context.Background(), "truck_status", "Status", "arrived")

	tests := []struct {
		name       string
		principal  *sec.Principal
		wantStatus int
	}{
		{"anonymous", nil, http.StatusUnauthorized},
		{"manager", manager, http.StatusForbidden},
		{"admin", admin, http.StatusOK},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			recorder := httptest.NewRecorder()
			asPrincipal(tt.principal, newRouter(service)).ServeHTTP(recorder, httptest.NewRequest(http.MethodGet, "/notifications", nil))
			assert.Equal(t, tt.wantStatus, recorder.Code)
		})
	}
}

func TestHTTP_MarkRead(t *testing.T) {
	service, _ := newService(t)
	service.Notify(context.Background(), "truck_status", "Status", "arrived")

	notifications, err := service.ListNotifications(context.Background(), admin, false)
	require.NoError(t, err)

	router := asPrincipal(admin, newRouter(service))

	recorder := httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/notifications/"+notifications[0].ID+"/read", nil))
	require.Equal(t, http.StatusOK, recorder.Code)

	recorder = httptest.NewRecorder()
	router.ServeHTTP(recorder, httptest.NewRequest(http.MethodPut, "/notifications/missing/read", nil))
	assert.Equal(t, http.StatusNotFound, recorder.Code)
}
