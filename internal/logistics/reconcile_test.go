// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logistics_test

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/taibuivan/fruitlog/internal/logistics"
	"github.com/taibuivan/fruitlog/pkg/pointer"
)

func TestLineValue(t *testing.T) {
	existing := &logistics.Stock{UnitPrice: 400}

	tests := []struct {
		name     string
		line     logistics.Article
		existing *logistics.Stock
		want     float64
	}{
		{"explicit value wins", logistics.Article{Quantity: 10, UnitPrice: pointer.To(500.0), Value: pointer.To(1234.0)}, existing, 1234},
		{"quantity times unit price", logistics.Article{Quantity: 10, UnitPrice: pointer.To(500.0)}, existing, 5000},
		{"falls back to existing price", logistics.Article{Quantity: 10}, existing, 4000},
		{"nothing to price with", logistics.Article{Quantity: 10}, nil, 0},
		{"explicit zero price", logistics.Article{Quantity: 10, UnitPrice: pointer.To(0.0)}, existing, 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, logistics.LineValue(tt.line, tt.existing))
		})
	}
}

func TestReconcile_NewRow(t *testing.T) {
	now := time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)
	truck := &logistics.Truck{ID: "truck-1", Origin: "Bouaké", Driver: "Koffi", Hangar: " Hangar 1 "}

	delta := logistics.Reconcile(nil, logistics.Article{Name: " Mangue ", Quantity: 100, Unit: "cageots", UnitPrice: pointer.To(500.0)}, truck, now)

	assert.Equal(t, logistics.DeltaCreated, delta.Action)
	assert.NotEmpty(t, delta.Stock.ID)
	assert.Equal(t, "Mangue", delta.Stock.Name)
	assert.Equal(t, "Hangar 1", delta.Stock.Hangar)
	assert.Equal(t, 100.0, delta.Stock.Quantity)
	assert.Equal(t, 50000.0, delta.Stock.TotalValue)
	assert.Equal(t, 500.0, delta.Stock.UnitPrice)
	assert.Equal(t, float64(logistics.DefaultThreshold), delta.Stock.Threshold)
	assert.Equal(t, "Bouaké", delta.Stock.Origin)
	assert.Equal(t, "Koffi", delta.Stock.Driver)
	assert.Equal(t, "truck-1", delta.Stock.LastTruckID)
}

func TestReconcile_NewRowPricedFromValue(t *testing.T) {
	truck := &logistics.Truck{ID: "truck-1", Hangar: "Hangar 1"}

	delta := logistics.Reconcile(nil, logistics.Article{Name: "Ananas", Quantity: 20, Value: pointer.To(6000.0)}, truck, time.Now())

	assert.Equal(t, 300.0, delta.Stock.UnitPrice)
	assert.Equal(t, 6000.0, delta.Stock.TotalValue)
}

func TestReconcile_ExistingRowWeightedAverage(t *testing.T) {
	existing := &logistics.Stock{ID: "stock-1", Name: "Mangue", Hangar: "Hangar 1", Quantity: 100, UnitPrice: 500, TotalValue: 50000, Unit: "cageots"}
	truck := &logistics.Truck{ID: "truck-2", Hangar: "Hangar 1"}

	delta := logistics.Reconcile(existing, logistics.Article{Name: "Mangue", Quantity: 100, UnitPrice: pointer.To(700.0)}, truck, time.Now())

	assert.Equal(t, logistics.DeltaUpdated, delta.Action)
	assert.Equal(t, "stock-1", delta.Stock.ID)
	assert.Equal(t, 200.0, delta.Stock.Quantity)
	assert.Equal(t, 120000.0, delta.Stock.TotalValue)
	assert.Equal(t, 600.0, delta.Stock.UnitPrice)
	assert.Equal(t, "truck-2", delta.Stock.LastTruckID)
	assert.Equal(t, 70000.0, delta.ValueAdded)

	// The input row is not mutated.
	assert.Equal(t, 100.0, existing.Quantity)
}

func TestReconcile_ZeroQuantityKeepsPrice(t *testing.T) {
	existing := &logistics.Stock{Quantity: 0, UnitPrice: 250, TotalValue: 0}
	truck := &logistics.Truck{ID: "truck-3"}

	delta := logistics.Reconcile(existing, logistics.Article{Name: "Papaye", Quantity: 0}, truck, time.Now())

	assert.Equal(t, 250.0, delta.Stock.UnitPrice)
	assert.Zero(t, delta.Stock.Quantity)
}

func TestSameStock_UnicodeForms(t *testing.T) {
	stock := &logistics.Stock{Name: "Goyavé", Hangar: "Hangar 1"}

	assert.True(t, logistics.SameStock(stock, "Goyavé", "Hangar 1"))
	assert.True(t, logistics.SameStock(stock, "  Goyave\u0301 ", " Hangar 1"))
	assert.False(t, logistics.SameStock(stock, "goyavé", "Hangar 1"))
	assert.False(t, logistics.SameStock(stock, "Goyavé", "Hangar 2"))
}

func TestStatus_Valid(t *testing.T) {
	for _, status := range logistics.Statuses {
		assert.True(t, status.Valid())
	}
	assert.False(t, logistics.Status("lost").Valid())
	assert.False(t, logistics.Status("").Valid())
}
