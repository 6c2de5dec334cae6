// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logistics_test

import (
	"bytes"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/fruitlog/internal/logistics"
	"github.com/taibuivan/fruitlog/pkg/pointer"
)

func TestRenderReceipt(t *testing.T) {
	arrived := time.Date(2026, 3, 1, 10, 0, 0, 0, time.UTC)
	truck := &logistics.Truck{
		ID:           "truck-1",
		Origin:       "Bouaké",
		Driver:       "Koffi",
		Phone:        "+225 07 00 00 00",
		Hangar:       "Hangar 1",
		Status:       logistics.StatusArrived,
		RegisteredAt: arrived.Add(-time.Hour),
		RegisteredBy: "Moussa",
		ArrivedAt:    &arrived,
		Articles: []logistics.Article{
			{Name: "Mangue", Quantity: 100, Unit: "cageots", UnitPrice: pointer.To(500.0)},
			{Name: "Ananas Pain de sucre", Quantity: 20, Value: pointer.To(6000.0)},
			{Name: "Papaye", Quantity: 5},
		},
	}

	rendered, err := logistics.RenderReceipt(truck, arrived)
	require.NoError(t, err)

	assert.True(t, bytes.HasPrefix(rendered, []byte("%PDF-")))
	assert.True(t, bytes.Contains(rendered, []byte("%%EOF")))
}

func TestRenderReceipt_NoArticles(t *testing.T) {
	rendered, err := logistics.RenderReceipt(&logistics.Truck{ID: "empty"}, time.Now())
	require.NoError(t, err)
	assert.NotEmpty(t, rendered)
}
