// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package account

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/fruitlog/internal/platform/sec"
	"github.com/taibuivan/fruitlog/internal/platform/validate"
	"github.com/taibuivan/fruitlog/pkg/uuid"
)

// # Service Layer

// Service orchestrates business logic for user accounts.
type Service struct {
	repository Repository
	logger     *slog.Logger
	now        func() time.Time
}

// NewService constructs a new [Service] with its repository dependency.
func NewService(repository Repository, logger *slog.Logger) *Service {
	return &Service{repository: repository, logger: logger, now: time.Now}
}

// CreateInput carries the fields of a new account.
type CreateInput struct {
	Email    string
	Name     string
	Role     sec.UserRole
	Hangar   string
	IsActive *bool
}

// UpdateInput carries a partial set of account changes.
type UpdateInput struct {
	Email    *string
	Name     *string
	Role     *sec.UserRole
	Hangar   *string
	IsActive *bool
}

/*
Create validates and stores a new user.

Description: The email is trimmed and must be unique regardless of case.
Accounts are active unless the input says otherwise.

Returns:
  - *User: The stored account
  - error: Validation, conflict or storage failures
*/
func (service *Service) Create(context context.Context, input CreateInput) (*User, error) {
	input.Email = strings.TrimSpace(input.Email)
	input.Name = strings.TrimSpace(input.Name)
	input.Hangar = strings.TrimSpace(input.Hangar)

	v := &validate.Validator{}
	v.Required("email", input.Email).
		Email("email", input.Email).
		Required("name", input.Name).
		MaxLen("name", input.Name, 100).
		OneOf("role", string(input.Role), sec.RoleNames()...)
	if err := v.Err(); err != nil {
		return nil, err
	}

	now := service.now().UTC()
	user := &User{
		ID:        uuid.New(),
		Email:     input.Email,
		Name:      input.Name,
		Role:      input.Role,
		Hangar:    input.Hangar,
		IsActive:  input.IsActive == nil || *input.IsActive,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := service.repository.Create(context, user); err != nil {
		return nil, fmt.Errorf("account_service_create_failed: %w", err)
	}

	service.logger.Info("user_created",
		slog.String("user_id", user.ID),
		slog.String("role", string(user.Role)),
	)

	return user, nil
}

// List returns every account.
func (service *Service) List(context context.Context) ([]User, error) {
	users, err := service.repository.List(context)
	if err != nil {
		return nil, fmt.Errorf("account_service_list_failed: %w", err)
	}
	return users, nil
}

// Count returns the number of accounts.
func (service *Service) Count(context context.Context) (int, error) {
	count, err := service.repository.Count(context)
	if err != nil {
		return 0, fmt.Errorf("account_service_count_failed: %w", err)
	}
	return count, nil
}

// Get returns one account by id.
func (service *Service) Get(context context.Context, id string) (*User, error) {
	user, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("account_service_get_failed: %w", err)
	}
	return user, nil
}

/*
Update applies a partial set of changes to an account.

Description: Fetches the existing user state, overrides provided fields, and
synchronizes the change to persistent storage.

Returns:
  - *User: The updated account
  - error: Not found, validation, conflict or storage failures
*/
func (service *Service) Update(context context.Context, id string, input UpdateInput) (*User, error) {
	user, err := service.repository.FindByID(context, id)
	if err != nil {
		return nil, fmt.Errorf("account_service_update_lookup_failed: %w", err)
	}

	v := &validate.Validator{}

	if input.Email != nil {
		user.Email = strings.TrimSpace(*input.Email)
		v.Email("email", user.Email)
	}

	if input.Name != nil {
		user.Name = strings.TrimSpace(*input.Name)
		v.Required("name", user.Name).MaxLen("name", user.Name, 100)
	}

	if input.Role != nil {
		user.Role = *input.Role
		v.OneOf("role", string(user.Role), sec.RoleNames()...)
	}

	if input.Hangar != nil {
		user.Hangar = strings.TrimSpace(*input.Hangar)
	}

	if input.IsActive != nil {
		user.IsActive = *input.IsActive
	}

	if err := v.Err(); err != nil {
		return nil, err
	}

	user.UpdatedAt = service.now().UTC()
	if err := service.repository.Update(context, user); err != nil {
		return nil, fmt.Errorf("account_service_update_failed: %w", err)
	}

	service.logger.Info("user_updated", slog.String("user_id", id))

	return user, nil
}
