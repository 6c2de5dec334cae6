// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package activity keeps the admin notification inbox and the audit trail.

Other domains write through the fire-and-forget [Service.Notify] and
[Service.Record]; a storage failure there is logged and never fails the
operation that triggered it. Admins read both streams over HTTP.
*/
package activity

import (
	"context"
	"time"

	"github.com/taibuivan/fruitlog/internal/platform/sec"
)

// Notification is one entry of the admin inbox.
type Notification struct {
	ID         string       `json:"id"`
	Type       string       `json:"type"`
	Title      string       `json:"title"`
	Message    string       `json:"message"`
	TargetRole sec.UserRole `json:"targetRole"`
	IsRead     bool         `json:"isRead"`
	CreatedAt  time.Time    `json:"createdAt"`
}

// AuditLog records who did what.
type AuditLog struct {
	ID        string    `json:"id"`
	UserID    string    `json:"userId"`
	UserName  string    `json:"userName"`
	Action    string    `json:"action"`
	Details   string    `json:"details"`
	CreatedAt time.Time `json:"createdAt"`
}

// # Persistence Contracts

// Repository stores both activity streams.
type Repository interface {
	AppendNotification(ctx context.Context, notification *Notification) error

	// ListNotifications returns the inbox newest first.
	ListNotifications(ctx context.Context, unreadOnly bool) ([]Notification, error)

	// MarkRead flags a notification as read, or returns [ErrNotificationNotFound].
	MarkRead(ctx context.Context, id string) (*Notification, error)

	AppendAuditLog(ctx context.Context, entry *AuditLog) error

	// ListAuditLogs returns one page of the trail, newest first, and the total count.
	ListAuditLogs(ctx context.Context, offset, limit int) ([]AuditLog, int, error)
}
