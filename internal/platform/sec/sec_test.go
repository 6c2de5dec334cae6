// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package sec_test

import (
	"strconv"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/fruitlog/internal/platform/apperr"
	"github.com/taibuivan/fruitlog/internal/platform/sec"
)

func TestAuthorize(t *testing.T) {
	tests := []struct {
		name      string
		principal *sec.Principal
		allowed   []sec.UserRole
		wantCode  string
	}{
		{"anonymous", nil, sec.TruckOperators, "UNAUTHORIZED"},
		{"admin operates trucks", &sec.Principal{Role: sec.RoleAdmin}, sec.TruckOperators, ""},
		{"manager operates trucks", &sec.Principal{Role: sec.RoleManager}, sec.TruckOperators, ""},
		{"warehouse cannot operate trucks", &sec.Principal{Role: sec.RoleWarehouse}, sec.TruckOperators, "FORBIDDEN"},
		{"cashier only for cashiers", &sec.Principal{Role: sec.RoleCashier}, sec.Cashiers, ""},
		{"admin is not a cashier", &sec.Principal{Role: sec.RoleAdmin}, sec.Cashiers, "FORBIDDEN"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := sec.Authorize(tt.principal, tt.allowed...)
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

func TestPrincipal_CanSeeHangar(t *testing.T) {
	admin := &sec.Principal{Role: sec.RoleAdmin, Hangar: "Hangar 1"}
	scoped := &sec.Principal{Role: sec.RoleManager, Hangar: "Hangar 2"}
	roaming := &sec.Principal{Role: sec.RoleViewer}

	assert.True(t, admin.CanSeeHangar("Hangar 3"))
	assert.True(t, scoped.CanSeeHangar("Hangar 2"))
	assert.False(t, scoped.CanSeeHangar("Hangar 1"))
	assert.True(t, roaming.CanSeeHangar("Hangar 1"))
}

func TestUserRole_Valid(t *testing.T) {
	assert.True(t, sec.RoleWarehouse.Valid())
	assert.False(t, sec.UserRole("moderator").Valid())
	assert.Len(t, sec.RoleNames(), 5)
}

func TestGenerateOTP_Range(t *testing.T) {
	for range 200 {
		code, err := sec.GenerateOTP()
		require.NoError(t, err)
		require.Len(t, code, 6)

		n, err := strconv.Atoi(code)
		require.NoError(t, err)
		assert.GreaterOrEqual(t, n, 100000)
		assert.LessOrEqual(t, n, 999999)
	}
}

func TestHashSecret(t *testing.T) {
	hash, err := sec.HashSecret("123456")
	require.NoError(t, err)

	assert.True(t, sec.CheckSecret("123456", hash))
	assert.False(t, sec.CheckSecret("654321", hash))
}

func TestHashToken_Deterministic(t *testing.T) {
	assert.Equal(t, sec.HashToken("abc"), sec.HashToken("abc"))
	assert.NotEqual(t, sec.HashToken("abc"), sec.HashToken("abd"))
	assert.Len(t, sec.HashToken("abc"), 64)
}

func TestTokenService_IssueVerify(t *testing.T) {
	service := sec.NewTokenService("0123456789abcdef0123", "fruitlog.test")
	now := time.Now()

	first, err := service.Issue("user-1", now, time.Hour)
	require.NoError(t, err)
	second, err := service.Issue("user-1", now, time.Hour)
	require.NoError(t, err)
	assert.NotEqual(t, first, second)

	claims, err := service.Verify(first)
	require.NoError(t, err)
	assert.Equal(t, "user-1", claims.Subject)

	// Expiry belongs to the session store, so an old token still verifies.
	stale, err := service.Issue("user-1", now.Add(-48*time.Hour), time.Hour)
	require.NoError(t, err)
	_, err = service.Verify(stale)
	assert.NoError(t, err)
}

func TestTokenService_RejectsForeignTokens(t *testing.T) {
	service := sec.NewTokenService("0123456789abcdef0123", "fruitlog.test")
	other := sec.NewTokenService("another-secret-entirely", "fruitlog.test")

	foreign, err := other.Issue("user-1", time.Now(), time.Hour)
	require.NoError(t, err)

	_, err = service.Verify(foreign)
	assert.ErrorIs(t, err, sec.ErrInvalidToken)

	_, err = service.Verify("not-a-token")
	assert.ErrorIs(t, err, sec.ErrInvalidToken)
}
