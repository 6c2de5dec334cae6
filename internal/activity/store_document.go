// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"context"
	"slices"

	"github.com/taibuivan/fruitlog/internal/platform/document"
	"github.com/taibuivan/fruitlog/pkg/slice"
)

// DocumentRepository implements [Repository] on the "notifications" and "auditLogs" collections.
type DocumentRepository struct {
	store *document.Store
}

// NewDocumentRepository creates an activity repository backed by the JSON document.
func NewDocumentRepository(store *document.Store) *DocumentRepository {
	return &DocumentRepository{store: store}
}

func (repository *DocumentRepository) AppendNotification(context context.Context, notification *Notification) error {
	return appendRow(context, repository.store, document.Notifications, *notification)
}

func (repository *DocumentRepository) ListNotifications(context context.Context, unreadOnly bool) ([]Notification, error) {
	var notifications []Notification
	err := repository.store.View(context, func(doc *document.Document) error {
		var err error
		notifications, err = document.Decode[Notification](doc, document.Notifications)
		return err
	})
	if err != nil {
		return nil, err
	}

	if unreadOnly {
		notifications = slice.Filter(notifications, func(n Notification) bool { return !n.IsRead })
	}

	return newestFirst(notifications), nil
}

func (repository *DocumentRepository) MarkRead(context context.Context, id string) (*Notification, error) {
	var marked *Notification
	err := repository.store.Update(context, func(doc *document.Document) error {
		notifications, err := document.Decode[Notification](doc, document.Notifications)
		if err != nil {
			return err
		}

		index := slices.IndexFunc(notifications, func(n Notification) bool { return n.ID == id })
		if index < 0 {
			return ErrNotificationNotFound
		}

		notifications[index].IsRead = true
		marked = &notifications[index]
		return document.Encode(doc, document.Notifications, notifications)
	})
	return marked, err
}

func (repository *DocumentRepository) AppendAuditLog(context context.Context, entry *AuditLog) error {
	return appendRow(context, repository.store, document.AuditLogs, *entry)
}

func (repository *DocumentRepository) ListAuditLogs(context context.Context, offset, limit int) ([]AuditLog, int, error) {
	var entries []AuditLog
	err := repository.store.View(context, func(doc *document.Document) error {
		var err error
		entries, err = document.Decode[AuditLog](doc, document.AuditLogs)
		return err
	})
	if err != nil {
		return nil, 0, err
	}

	entries = newestFirst(entries)
	total := len(entries)

	start := min(offset, total)
	end := min(start+limit, total)
	return entries[start:end], total, nil
}

func appendRow[T any](context context.Context, store *document.Store, collection document.Collection, row T) error {
	return store.Update(context, func(doc *document.Document) error {
		rows, err := document.Decode[T](doc, collection)
		if err != nil {
			return err
		}
		return document.Encode(doc, collection, append(rows, row))
	})
}

// newestFirst reverses append order, which is chronological.
func newestFirst[T any](rows []T) []T {
	if rows == nil {
		return []T{}
	}
	slices.Reverse(rows)
	return rows
}
