// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/taibuivan/fruitlog/internal/platform/apperr"
	"github.com/taibuivan/fruitlog/internal/platform/database/schema"
	"github.com/taibuivan/fruitlog/internal/platform/dberr"
)

// # Repository Implementations

// PostgresRepository implements [Repository] on the users.account table.
type PostgresRepository struct {
	pool *pgxpool.Pool
}

// NewPostgresRepository creates a new Postgres implementation for user accounts.
func NewPostgresRepository(pool *pgxpool.Pool) *PostgresRepository {
	return &PostgresRepository{pool: pool}
}

var selectAccount = fmt.Sprintf(`SELECT %s FROM %s`,
	schema.List(schema.UserAccount.Columns()), schema.UserAccount.Table)

func scanUser(row pgx.Row) (*User, error) {
	user := &User{}
	err := row.Scan(
		&user.ID,
		&user.Email,
		&user.Name,
		&user.Role,
		&user.Hangar,
		&user.IsActive,
		&user.CreatedAt,
		&user.UpdatedAt,
	)
	return user, err
}

/*
FindByID retrieves a user record from the users.account table.

Returns:
  - *User: Hydrated identity entity
  - error: apperr.NotFound or database execution failure
*/
func (repository *PostgresRepository) FindByID(context context.Context, id string) (*User, error) {
	query := selectAccount + fmt.Sprintf(` WHERE %s = $1`, schema.UserAccount.ID)

	user, err := scanUser(repository.pool.QueryRow(context, query, id))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "postgres_account_find_by_id")
	}

	return user, nil
}

// FindByEmail retrieves a user by email using the LOWER(email) unique index.
func (repository *PostgresRepository) FindByEmail(context context.Context, email string) (*User, error) {
	query := selectAccount + fmt.Sprintf(` WHERE LOWER(%s) = $1`, schema.UserAccount.Email)

	user, err := scanUser(repository.pool.QueryRow(context, query, NormalizeEmail(email)))
	if err != nil {
		return nil, dberr.Wrap(err, "User", "postgres_account_find_by_email")
	}

	return user, nil
}

func (repository *PostgresRepository) List(context context.Context) ([]User, error) {
	query := selectAccount + fmt.Sprintf(` ORDER BY %s ASC`, schema.UserAccount.CreatedAt)

	rows, err := repository.pool.Query(context, query)
	if err != nil {
		return nil, fmt.Errorf("postgres_account_list_failed: %w", err)
	}
	defer rows.Close()

	users := []User{}
	for rows.Next() {
		user, err := scanUser(rows)
		if err != nil {
			return nil, fmt.Errorf("postgres_account_scan_failed: %w", err)
		}
		users = append(users, *user)
	}

	return users, rows.Err()
}

func (repository *PostgresRepository) Count(context context.Context) (int, error) {
	var count int
	query := fmt.Sprintf(`SELECT COUNT(*) FROM %s`, schema.UserAccount.Table)
	if err := repository.pool.QueryRow(context, query).Scan(&count); err != nil {
		return 0, fmt.Errorf("postgres_account_count_failed: %w", err)
	}
	return count, nil
}

func (repository *PostgresRepository) Create(context context.Context, user *User) error {
	query := fmt.Sprintf(`INSERT INTO %s (%s) VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`,
		schema.UserAccount.Table, schema.List(schema.UserAccount.Columns()))

	_, err := repository.pool.Exec(context, query,
		user.ID, user.Email, user.Name, user.Role, user.Hangar,
		user.IsActive, user.CreatedAt, user.UpdatedAt,
	)
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict("A user with this email already exists")
	}
	if err != nil {
		return fmt.Errorf("postgres_account_create_failed: %w", err)
	}

	return nil
}

func (repository *PostgresRepository) Update(context context.Context, user *User) error {
	query := fmt.Sprintf(`
		UPDATE %s
		SET %s = $2, %s = $3, %s = $4, %s = $5, %s = $6, %s = $7
		WHERE %s = $1`,
		schema.UserAccount.Table,
		schema.UserAccount.Email, schema.UserAccount.Name, schema.UserAccount.Role,
		schema.UserAccount.Hangar, schema.UserAccount.IsActive, schema.UserAccount.UpdatedAt,
		schema.UserAccount.ID,
	)

	tag, err := repository.pool.Exec(context, query,
		user.ID, user.Email, user.Name, user.Role, user.Hangar, user.IsActive, user.UpdatedAt,
	)
	if dberr.IsUniqueViolation(err) {
		return apperr.Conflict("A user with this email already exists")
	}
	if err != nil {
		return fmt.Errorf("postgres_account_update_failed: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return apperr.NotFound("User")
	}

	return nil
}
