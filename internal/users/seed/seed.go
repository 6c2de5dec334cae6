// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package seed bootstraps the first accounts from a YAML file.

Sign-in is OTP only and user management needs an admin, so an empty store
cannot be entered from the API. The seed runs once, when no account exists.

	users:
	  - email: admin@fruitlog.app
	    name: Awa Diallo
	    role: admin
	  - email: manager.h1@fruitlog.app
	    name: Moussa Traore
	    role: manager
	    hangar: Hangar 1
*/
package seed

import (
	"context"
	"fmt"
	"log/slog"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/taibuivan/fruitlog/internal/platform/sec"
	"github.com/taibuivan/fruitlog/internal/users/account"
)

// File is the YAML document.
type File struct {
	Users []User `yaml:"users"`
}

// User is one seeded account.
type User struct {
	Email  string `yaml:"email"`
	Name   string `yaml:"name"`
	Role   string `yaml:"role"`
	Hangar string `yaml:"hangar"`
	Active *bool  `yaml:"active"`
}

// Accounts is the slice of the account layer the seed needs.
type Accounts interface {
	Count(ctx context.Context) (int, error)
	Create(ctx context.Context, input account.CreateInput) (*account.User, error)
}

// Load reads and decodes a seed file. Unknown keys are rejected.
func Load(path string) (*File, error) {
	handle, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("seed_open_failed: %w", err)
	}
	defer handle.Close()

	decoder := yaml.NewDecoder(handle)
	decoder.KnownFields(true)

	var file File
	if err := decoder.Decode(&file); err != nil {
		return nil, fmt.Errorf("seed_decode_failed: %w", err)
	}

	return &file, nil
}

/*
Apply creates the seeded accounts when the store is empty.

Returns:
  - int: Number of accounts created (0 when the store already had users)
  - error: The first failing account, with its position in the file
*/
func Apply(context context.Context, accounts Accounts, file *File, logger *slog.Logger) (int, error) {
	count, err := accounts.Count(context)
	if err != nil {
		return 0, fmt.Errorf("seed_count_failed: %w", err)
	}

	if count > 0 {
		logger.InfoContext(context, "seed_skipped", slog.Int("existing_users", count))
		return 0, nil
	}

	created := 0
	for i, entry := range file.Users {
		user, err := accounts.Create(context, account.CreateInput{
			Email:    entry.Email,
			Name:     entry.Name,
			Role:     sec.UserRole(entry.Role),
			Hangar:   entry.Hangar,
			IsActive: entry.Active,
		})
		if err != nil {
			return created, fmt.Errorf("seed_user_%d_failed (%s): %w", i, entry.Email, err)
		}

		logger.InfoContext(context, "seed_user_created",
			slog.String("user_id", user.ID),
			slog.String("email", user.Email),
			slog.String("role", string(user.Role)),
		)
		created++
	}

	return created, nil
}
