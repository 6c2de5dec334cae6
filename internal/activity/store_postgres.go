// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package activity

import (
	"context"
	"errors"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/fruitlog/internal/platform/database/schema"
)

// PostgresRepository implements [Repository] on activity.notification and activity.auditlog.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation of the activity streams.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var (
	notificationColumns = schema.List(schema.ActivityNotification.Columns())
	auditLogColumns     = schema.List(schema.ActivityAuditLog.Columns())
)

func scanNotification(row pgx.Row) (*Notification, error) {
	notification := &Notification{}
	err := row.Scan(
		&notification.ID,
		&notification.Type,
		&notification.Title,
		&notification.Message,
		&notification.TargetRole,
		&notification.IsRead,
		&notification.CreatedAt,
	)
	return notification, err
}

func (repository *PostgresRepository) AppendNotification(context context.Context, notification *Notification) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		schema.ActivityNotification.Table, notificationColumns)

	_, err := repository.pool.Exec(context, query,
		notification.ID, notification.Type, notification.Title, notification.Message,
		notification.TargetRole, notification.IsRead, notification.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_notification_insert_failed: %w", err)
	}
	return nil
}

func (repository *PostgresRepository) ListNotifications(context context.Context, unreadOnly bool) ([]Notification, error) {
	n := schema.ActivityNotification
	query := fmt.Sprintf(`SELECT %s FROM %s`, notificationColumns, n.Table)
	if unreadOnly {
		query += fmt.Sprintf(` WHERE NOT %s`, n.IsRead)
	}
	query += fmt.Sprintf(` ORDER BY %s DESC, %s DESC`, n.CreatedAt, n.ID)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_notification_list_failed: %w", err)
	}
	defer rows.Close()

	notifications := []Notification{}
	for rows.Next() {
		notification, err := scanNotification(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_notification_scan_failed: %w", err)
		}
		notifications = append(notifications, *notification)
	}

	return notifications, rows.Err()
}

func (repository *PostgresRepository) MarkRead(context context.Context, id string) (*Notification, error) {
	n := schema.ActivityNotification
	query := fmt.Sprintf(`UPDATE %s SET %s = TRUE WHERE %s = $1 RETURNING %s`,
		n.Table, n.IsRead, n.ID, notificationColumns)

	notification, err := scanNotification(repository.pool.QueryRow(context, query, id))
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, ErrNotificationNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("postgres_notification_mark_read_failed: %w", err)
	}

	return notification, nil
}

func (repository *PostgresRepository) AppendAuditLog(context context.Context, entry *AuditLog) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6)`,
		schema.ActivityAuditLog.Table, auditLogColumns)

	_, err := repository.pool.Exec(context, query,
		entry.ID, entry.UserID, entry.UserName, entry.Action, entry.Details, entry.CreatedAt,
	)
	if err != nil {
		return fmt.Errorf("postgres_auditlog_insert_failed: %w", err)
	}
	return nil
}

func (repository *PostgresRepository) ListAuditLogs(context context.Context, offset, limit int) ([]AuditLog, int, error) {
	a := schema.ActivityAuditLog

	var total int
	if err := repository.pool.QueryRow(context, fmt.Sprintf(`SELECT COUNT(*) FROM %s`, a.Table)).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("postgres_auditlog_count_failed: %w", err)
	}

	query := fmt.Sprintf(`SELECT %s FROM %s ORDER BY %s DESC, %s DESC LIMIT $1 OFFSET $2`,
		auditLogColumns, a.Table, a.CreatedAt, a.ID)

	rows, err := repository.pool.Query(context, query, limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("postgres_auditlog_list_failed: %w", err)
	}
	defer rows.Close()

	entries := []AuditLog{}
	for rows.Next() {
		var entry AuditLog
		if err := rows.Scan(&entry.ID, &entry.UserID, &entry.UserName, &entry.Action, &entry.Details, &entry.CreatedAt); err != nil {
			return nil, 0, fmt.Errorf("postgres_auditlog_scan_failed: %w", err)
		}
		entries = append(entries, entry)
	}

	return entries, total, rows.Err()
}
