// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package seed_test

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/fruitlog/internal/platform/document"
	"github.com/taibuivan/fruitlog/internal/platform/sec"
	"github.com/taibuivan/fruitlog/internal/users/account"
	"github.com/taibuivan/fruitlog/internal/users/seed"
)

func writeSeed(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "seed.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func newAccounts(t *testing.T) (*account.Service, *slog.Logger) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := document.Open(filepath.Join(t.TempDir(), "db.json"), logger)
	require.NoError(t, err)

	return account.NewService(account.NewDocumentRepository(store), logger), logger
}

const sample = `
users:
  - email: admin@fruitlog.app
    name: Awa Diallo
    role: admin
  - email: manager.h1@fruitlog.app
    name: Moussa Traore
    role: manager
    hangar: Hangar 1
    active: false
`

func TestApply_SeedsEmptyStoreOnce(t *testing.T) {
	accounts, logger := newAccounts(t)
	ctx := context.Background()

	file, err := seed.Load(writeSeed(t, sample))
	require.NoError(t, err)
	require.Len(t, file.Users, 2)

	created, err := seed.Apply(ctx, accounts, file, logger)
	require.NoError(t, err)
	assert.Equal(t, 2, created)

	users, err := accounts.List(ctx)
	require.NoError(t, err)
	require.Len(t, users, 2)
	assert.Equal(t, sec.RoleAdmin, users[0].Role)
	assert.True(t, users[0].IsActive)
	assert.Equal(t, "Hangar 1", users[1].Hangar)
	assert.False(t, users[1].IsActive)

	created, err = seed.Apply(ctx, accounts, file, logger)
	require.NoError(t, err)
	assert.Zero(t, created)
}

func TestApply_InvalidRole(t *testing.T) {
	accounts, logger := newAccounts(t)

	file, err := seed.Load(writeSeed(t, "users:\n  - email: x@fruitlog.app\n    name: X\n    role: owner\n"))
	require.NoError(t, err)

	_, err = seed.Apply(context.Background(), accounts, file, logger)
	assert.Error(t, err)
}

func TestLoad_Errors(t *testing.T) {
	_, err := seed.Load(filepath.Join(t.TempDir(), "missing.yaml"))
	assert.Error(t, err)

	_, err = seed.Load(writeSeed(t, "users:\n  - email: a@b.c\n    password: nope\n"))
	assert.Error(t, err)
}

func TestLoad_ExampleFile(t *testing.T) {
	file, err := seed.Load(filepath.Join("..", "..", "..", "data", "seed.example.yaml"))
	require.NoError(t, err)
	assert.NotEmpty(t, file.Users)
}
