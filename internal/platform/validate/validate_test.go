// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package validate_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/fruitlog/internal/platform/apperr"
	"github.com/taibuivan/fruitlog/internal/platform/validate"
)

func TestValidator_Rules(t *testing.T) {
	tests := []struct {
		name  string
		apply func(v *validate.Validator)
		ok    bool
	}{
		{"required present", func(v *validate.Validator) { v.Required("origin", "Bouaké") }, true},
		{"required blank", func(v *validate.Validator) { v.Required("origin", "   ") }, false},
		{"max len fits", func(v *validate.Validator) { v.MaxLen("name", "Aïcha", 5) }, true},
		{"max len exceeded", func(v *validate.Validator) { v.MaxLen("name", "Aïchatou", 5) }, false},
		{"email", func(v *validate.Validator) { v.Email("email", "admin@fruitlog.app") }, true},
		{"email without domain", func(v *validate.Validator) { v.Email("email", "test@") }, false},
		{"email with display name", func(v *validate.Validator) { v.Email("email", "Awa <awa@fruitlog.app>") }, false},
		{"email empty", func(v *validate.Validator) { v.Email("email", "") }, false},
		{"not empty", func(v *validate.Validator) { v.NotEmpty("articles", 1) }, true},
		{"empty list", func(v *validate.Validator) { v.NotEmpty("articles", 0) }, false},
		{"zero quantity", func(v *validate.Validator) { v.NonNegative("articles[0].quantity", 0) }, true},
		{"negative quantity", func(v *validate.Validator) { v.NonNegative("articles[0].quantity", -1) }, false},
		{"custom passes", func(v *validate.Validator) { v.Custom("items", false, "items must be an array") }, true},
		{"custom fails", func(v *validate.Validator) { v.Custom("items", true, "items must be an array") }, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := &validate.Validator{}
			tt.apply(v)

			if tt.ok {
				assert.False(t, v.HasErrors())
				assert.NoError(t, v.Err())
				return
			}

			require.True(t, v.HasErrors())
			assert.True(t, apperr.HasCode(v.Err(), "VALIDATION_ERROR"))
		})
	}
}

func TestValidator_OneOf(t *testing.T) {
	v := &validate.Validator{}
	v.OneOf("status", "arrived", "registered", "arrived", "unloading", "unloaded")
	assert.False(t, v.HasErrors())

	v.OneOf("status", "lost", "registered", "arrived")
	require.True(t, v.HasErrors())
	assert.Equal(t, "Must be one of: registered, arrived", apperr.As(v.Err()).Details[0].Message)
}

func TestValidator_AccumulatesFailures(t *testing.T) {
	err := (&validate.Validator{}).
		Required("origin", "").
		NotEmpty("articles", 0).
		Email("email", "not-an-email").
		Custom("phone", false, "never").
		Err()

	ae := apperr.As(err)
	require.NotNil(t, ae)

	fields := make([]string, 0, len(ae.Details))
	for _, detail := range ae.Details {
		fields = append(fields, detail.Field)
	}
	assert.Equal(t, []string{"origin", "articles", "email"}, fields)
}
