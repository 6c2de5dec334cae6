// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"github.com/taibuivan/fruitlog/internal/platform/middleware"
	requestutil "github.com/taibuivan/fruitlog/internal/platform/request"
	"github.com/taibuivan/fruitlog/internal/platform/respond"
	"github.com/taibuivan/fruitlog/internal/platform/sec"
	"github.com/taibuivan/fruitlog/pkg/convert"
	"github.com/taibuivan/fruitlog/pkg/pagination"
)

// Handler implements the admin activity endpoints.
type Handler struct {
	activityService *Service
}

// NewHandler constructs a new [Handler] with its service dependency.
func NewHandler(service *Service) *Handler {
	return &Handler{activityService: service}
}

/*
NotificationRoutes returns the /notifications router (admin only).

# Endpoints
  - GET /            : Inbox, newest first. ?unread=true keeps unread entries.
  - PUT /{id}/read   : Marks one entry as read.
*/
func (handler *Handler) NotificationRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.Administrators...))

	router.Get("/", handler.listNotifications)
	router.Put("/{id}/read", handler.markRead)

	return router
}

// AuditRoutes returns the /audit-logs router (admin only), paginated with ?page and ?limit.
func (handler *Handler) AuditRoutes() chi.Router {
	router := chi.NewRouter()
	router.Use(middleware.RequireRole(sec.Administrators...))
	router.Get("/", handler.listAuditLogs)
	return router
}

func (handler *Handler) listNotifications(writer http.ResponseWriter, request *http.Request) {
	unreadOnly := convert.Bool(request.URL.Query().Get("unread"))

	notifications, err := handler.activityService.ListNotifications(request.Context(), requestutil.Principal(request), unreadOnly)
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Body{"notifications": notifications})
}

func (handler *Handler) markRead(writer http.ResponseWriter, request *http.Request) {
	notification, err := handler.activityService.MarkRead(request.Context(), requestutil.Principal(request), requestutil.ID(request, "id"))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.OK(writer, respond.Body{"notification": notification})
}

func (handler *Handler) listAuditLogs(writer http.ResponseWriter, request *http.Request) {
	entries, meta, err := handler.activityService.ListAuditLogs(request.Context(), requestutil.Principal(request), pagination.FromRequest(request))
	if err != nil {
		respond.Error(writer, request, err)
		return
	}

	respond.Paginated(writer, respond.Body{"auditLogs": entries}, meta)
}
