// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/taibuivan/fruitlog/internal/platform/sec"
	"github.com/taibuivan/fruitlog/pkg/pagination"
	"github.com/taibuivan/fruitlog/pkg/uuid"
)

// Service writes and reads the activity streams.
type Service struct {
	repository Repository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service] with its dependencies.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger, now: time.Now}
}

// # Writers

// Notify posts an admin notification. It implements logistics.Notifier.
func (service *Service) Notify(context context.Context, kind, title, message string) {
	notification := &Notification{
		ID:         uuid.New(),
		Type:       kind,
		Title:      title,
		Message:    message,
		TargetRole: sec.RoleAdmin,
		CreatedAt:  service.now().UTC(),
	}

	if err := service.repository.AppendNotification(context, notification); err != nil {
		service.logger.ErrorContext(context, "notification_append_failed",
			slog.String("type", kind),
			slog.Any("error", err),
		)
		return
	}

	service.logger.InfoContext(context, "notification_posted",
		slog.String("type", kind),
		slog.String("title", title),
		slog.String("message", message),
	)
}

// Record appends an audit entry. It implements logistics.Auditor and account.Auditor.
func (service *Service) Record(context context.Context, userID, userName, action, details string) {
	entry := &AuditLog{
		ID:        uuid.New(),
		UserID:    userID,
		UserName:  userName,
		Action:    action,
		Details:   details,
		CreatedAt: service.now().UTC(),
	}

	if err := service.repository.AppendAuditLog(context, entry); err != nil {
		service.logger.ErrorContext(context, "audit_append_failed",
			slog.String("action", action),
			slog.Any("error", err),
		)
	}
}

// # Readers

// ListNotifications returns the admin inbox, newest first.
func (service *Service) ListNotifications(context context.Context, principal *sec.Principal, unreadOnly bool) ([]Notification, error) {
	if err := sec.Authorize(principal, sec.Administrators...); err != nil {
		return nil, err
	}

	notifications, err := service.repository.ListNotifications(context, unreadOnly)
	if err != nil {
		return nil, fmt.Errorf("activity_list_notifications_failed: %w", err)
	}
	return notifications, nil
}

// MarkRead flags one notification as read.
func (service *Service) MarkRead(context context.Context, principal *sec.Principal, id string) (*Notification, error) {
	if err := sec.Authorize(principal, sec.Administrators...); err != nil {
		return nil, err
	}

	if !uuid.Valid(id) {
		return nil, ErrNotificationNotFound
	}

	notification, err := service.repository.MarkRead(context, id)
	if errors.Is(err, ErrNotificationNotFound) {
		return nil, err
	}
	if err != nil {
		return nil, fmt.Errorf("activity_mark_read_failed: %w", err)
	}
	return notification, nil
}

// ListAuditLogs returns one page of the audit trail, newest first.
func (service *Service) ListAuditLogs(context context.Context, principal *sec.Principal, page pagination.Params) ([]AuditLog, pagination.Meta, error) {
	if err := sec.Authorize(principal, sec.Administrators...); err != nil {
		return nil, pagination.Meta{}, err
	}

	entries, total, err := service.repository.ListAuditLogs(context, page.Offset(), page.Limit)
	if err != nil {
		return nil, pagination.Meta{}, fmt.Errorf("activity_list_audit_logs_failed: %w", err)
	}

	return entries, pagination.NewMeta(page.Page, page.Limit, total), nil
}
