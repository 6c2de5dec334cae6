// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logistics_test

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/fruitlog/internal/logistics"
	"github.com/taibuivan/fruitlog/internal/platform/apperr"
	"github.com/taibuivan/fruitlog/internal/platform/document"
	"github.com/taibuivan/fruitlog/internal/platform/sec"
	"github.com/taibuivan/fruitlog/pkg/pointer"
)

// # Fixtures

type recorder struct {
	mu            sync.Mutex
	notifications []string
	audits        []string
}

func (r *recorder) Notify(_ context.Context, kind, _, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.notifications = append(r.notifications, kind)
}

func (r *recorder) Record(_ context.Context, _, _, action, _ string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.audits = append(r.audits, action)
}

var (
	admin    = &sec.Principal{UserID: "u-admin", Name: "Awa", Role: sec.RoleAdmin}
	manager1 = &sec.Principal{UserID: "u-m1", Name: "Moussa", Role: sec.RoleManager, Hangar: "Hangar 1"}
	manager2 = &sec.Principal{UserID: "u-m2", Name: "Fatou", Role: sec.RoleManager, Hangar: "Hangar 2"}
	cashier  = &sec.Principal{UserID: "u-c", Name: "Ibrahim", Role: sec.RoleCashier, Hangar: "Hangar 2"}
	viewer   = &sec.Principal{UserID: "u-v", Name: "Ali", Role: sec.RoleViewer}
)

var epoch = time.Date(2026, 3, 1, 8, 0, 0, 0, time.UTC)

func newService(t *testing.T) (*logistics.Service, *recorder, *document.Store) {
	t.Helper()
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))

	store, err := document.Open(filepath.Join(t.TempDir(), "db.json"), logger)
	require.NoError(t, err)

	events := &recorder{}
	service := logistics.NewService(logistics.NewDocumentLedger(store), events, events, logger).
		WithClock(func() time.Time { return epoch })

	return service, events, store
}

func mangoes(hangar string, quantity float64) logistics.RegisterInput {
	return logistics.RegisterInput{
		Origin: "Bouaké",
		Driver: "Koffi",
		Phone:  "+225 07 00 00 00",
		Hangar: hangar,
		Articles: []logistics.Article{
			{Name: "Mangue", Quantity: quantity, Unit: "cageots", UnitPrice: pointer.To(500.0)},
		},
	}
}

// # Registration

func TestRegisterTruck_CreatesThenAccumulatesStock(t *testing.T) {
	service, events, _ := newService(t)
	ctx := context.Background()

	truck, deltas, err := service.RegisterTruck(ctx, manager1, mangoes("Hangar 1", 100))
	require.NoError(t, err)
	assert.Equal(t, logistics.StatusRegistered, truck.Status)
	assert.Equal(t, "Moussa", truck.RegisteredBy)
	assert.Equal(t, epoch, truck.RegisteredAt)
	require.Len(t, deltas, 1)
	assert.Equal(t, logistics.DeltaCreated, deltas[0].Action)

	_, deltas, err = service.RegisterTruck(ctx, manager1, mangoes("Hangar 1", 50))
	require.NoError(t, err)
	require.Len(t, deltas, 1)
	assert.Equal(t, logistics.DeltaUpdated, deltas[0].Action)

	stocks, err := service.ListStocks(ctx, admin)
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.Equal(t, "Mangue", stocks[0].Name)
	assert.Equal(t, "Hangar 1", stocks[0].Hangar)
	assert.Equal(t, 150.0, stocks[0].Quantity)
	assert.Equal(t, 75000.0, stocks[0].TotalValue)
	assert.Equal(t, "Bouaké", stocks[0].Origin)

	assert.Equal(t, []string{logistics.KindTruckRegistered, logistics.KindTruckRegistered}, events.notifications)
	assert.Equal(t, []string{logistics.ActionTruckRegistered, logistics.ActionTruckRegistered}, events.audits)
}

func TestRegisterTruck_SeparateHangarsSeparateRows(t *testing.T) {
	service, _, _ := newService(t)
	ctx := context.Background()

	_, _, err := service.RegisterTruck(ctx, admin, mangoes("Hangar 1", 10))
	require.NoError(t, err)
	_, _, err = service.RegisterTruck(ctx, admin, mangoes("Hangar 2", 10))
	require.NoError(t, err)

	stocks, err := service.ListStocks(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, stocks, 2)
}

func TestRegisterTruck_Validation(t *testing.T) {
	service, events, _ := newService(t)

	tests := []struct {
		name   string
		mutate func(input *logistics.RegisterInput)
	}{
		{"missing origin", func(input *logistics.RegisterInput) { input.Origin = "" }},
		{"missing driver", func(input *logistics.RegisterInput) { input.Driver = " " }},
		{"missing phone", func(input *logistics.RegisterInput) { input.Phone = "" }},
		{"missing hangar", func(input *logistics.RegisterInput) { input.Hangar = "" }},
		{"no articles", func(input *logistics.RegisterInput) { input.Articles = nil }},
		{"article without name", func(input *logistics.RegisterInput) { input.Articles[0].Name = "" }},
		{"negative quantity", func(input *logistics.RegisterInput) { input.Articles[0].Quantity = -5 }},
		{"negative unit price", func(input *logistics.RegisterInput) { input.Articles[0].UnitPrice = pointer.To(-1.0) }},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			input := mangoes("Hangar 1", 10)
			tt.mutate(&input)

			_, _, err := service.RegisterTruck(context.Background(), manager1, input)
			assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"), "got %v", err)
		})
	}

	assert.Empty(t, events.notifications)
}

func TestRegisterTruck_Roles(t *testing.T) {
	service, _, _ := newService(t)
	ctx := context.Background()

	tests := []struct {
		name      string
		principal *sec.Principal
		wantCode  string
	}{
		{"anonymous", nil, "UNAUTHORIZED"},
		{"cashier", cashier, "FORBIDDEN"},
		{"viewer", viewer, "FORBIDDEN"},
		{"admin", admin, ""},
		{"manager", manager2, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := service.RegisterTruck(ctx, tt.principal, mangoes("Hangar 2", 1))
			if tt.wantCode == "" {
				assert.NoError(t, err)
				return
			}
			assert.True(t, apperr.HasCode(err, tt.wantCode), "got %v", err)
		})
	}
}

// # Status

func TestSetStatus(t *testing.T) {
	service, events, _ := newService(t)
	ctx := context.Background()

	truck, _, err := service.RegisterTruck(ctx, manager1, mangoes("Hangar 1", 10))
	require.NoError(t, err)

	updated, err := service.SetStatus(ctx, manager1, truck.ID, logistics.StatusArrived)
	require.NoError(t, err)
	assert.Equal(t, logistics.StatusArrived, updated.Status)
	require.NotNil(t, updated.ArrivedAt)
	assert.Nil(t, updated.UnloadedAt)

	updated, err = service.SetStatus(ctx, manager1, truck.ID, logistics.StatusUnloaded)
	require.NoError(t, err)
	require.NotNil(t, updated.UnloadedAt)

	// Status changes after unloaded are not refused.
	updated, err = service.SetStatus(ctx, manager1, truck.ID, logistics.StatusUnloading)
	require.NoError(t, err)
	assert.Equal(t, logistics.StatusUnloading, updated.Status)

	_, err = service.SetStatus(ctx, manager1, truck.ID, "lost")
	assert.ErrorIs(t, err, logistics.ErrInvalidStatus)

	_, err = service.SetStatus(ctx, manager1, "missing", logistics.StatusArrived)
	assert.ErrorIs(t, err, logistics.ErrTruckNotFound)

	_, err = service.SetStatus(ctx, viewer, truck.ID, logistics.StatusArrived)
	assert.True(t, apperr.HasCode(err, "FORBIDDEN"))

	assert.Contains(t, events.notifications, logistics.KindTruckStatus)
}

// # Unloading

func TestUnloadTruck(t *testing.T) {
	service, events, _ := newService(t)
	ctx := context.Background()

	truck, _, err := service.RegisterTruck(ctx, manager1, mangoes("Hangar 1", 100))
	require.NoError(t, err)

	unloaded, deltas, err := service.UnloadTruck(ctx, manager1, truck.ID, []logistics.Article{
		{Name: "Mangue", Quantity: 20, UnitPrice: pointer.To(500.0)},
		{Name: "Banane", Quantity: 30, Unit: "régimes", Value: pointer.To(9000.0)},
	})
	require.NoError(t, err)

	assert.Equal(t, logistics.StatusUnloaded, unloaded.Status)
	assert.Equal(t, "Moussa", unloaded.UnloadedBy)
	require.NotNil(t, unloaded.UnloadedAt)

	require.Len(t, deltas, 2)
	assert.Equal(t, logistics.DeltaUpdated, deltas[0].Action)
	assert.Equal(t, 120.0, deltas[0].Stock.Quantity)
	assert.Equal(t, logistics.DeltaCreated, deltas[1].Action)
	assert.Equal(t, "Hangar 1", deltas[1].Stock.Hangar)
	assert.Equal(t, 300.0, deltas[1].Stock.UnitPrice)
	assert.Equal(t, float64(logistics.DefaultThreshold), deltas[1].Stock.Threshold)

	assert.Contains(t, events.notifications, logistics.KindTruckUnloaded)
	assert.Contains(t, events.audits, logistics.ActionTruckUnloaded)
}

func TestUnloadTruck_AlreadyUnloadedSucceeds(t *testing.T) {
	service, _, _ := newService(t)
	ctx := context.Background()

	truck, _, err := service.RegisterTruck(ctx, admin, mangoes("Hangar 1", 10))
	require.NoError(t, err)

	for range 2 {
		_, _, err = service.UnloadTruck(ctx, admin, truck.ID, []logistics.Article{{Name: "Mangue", Quantity: 5}})
		require.NoError(t, err)
	}

	stocks, err := service.ListStocks(ctx, admin)
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.Equal(t, 20.0, stocks[0].Quantity)
	// Lines without a price are valued at the row's unit price.
	assert.Equal(t, 10000.0, stocks[0].TotalValue)
}

func TestUnloadTruck_Errors(t *testing.T) {
	service, _, _ := newService(t)
	ctx := context.Background()

	truck, _, err := service.RegisterTruck(ctx, admin, mangoes("Hangar 1", 10))
	require.NoError(t, err)

	_, _, err = service.UnloadTruck(ctx, admin, "missing", []logistics.Article{})
	assert.ErrorIs(t, err, logistics.ErrTruckNotFound)

	_, _, err = service.UnloadTruck(ctx, admin, truck.ID, nil)
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	_, _, err = service.UnloadTruck(ctx, admin, truck.ID, []logistics.Article{{Quantity: 3}})
	assert.True(t, apperr.HasCode(err, "VALIDATION_ERROR"))

	_, _, err = service.UnloadTruck(ctx, cashier, truck.ID, []logistics.Article{})
	assert.True(t, apperr.HasCode(err, "FORBIDDEN"))

	// An empty list is well-formed.
	unloaded, deltas, err := service.UnloadTruck(ctx, admin, truck.ID, []logistics.Article{})
	require.NoError(t, err)
	assert.Equal(t, logistics.StatusUnloaded, unloaded.Status)
	assert.Empty(t, deltas)
}

// untouchedLedger fails the test on any storage access.
type untouchedLedger struct{ t *testing.T }

func (l untouchedLedger) ListTrucks(context.Context) ([]logistics.Truck, error) {
	l.t.Error("unexpected ListTrucks")
	return nil, nil
}

func (l untouchedLedger) FindTruck(context.Context, string) (*logistics.Truck, error) {
	l.t.Error("unexpected FindTruck")
	return nil, logistics.ErrTruckNotFound
}

func (l untouchedLedger) ListStocks(context.Context) ([]logistics.Stock, error) {
	l.t.Error("unexpected ListStocks")
	return nil, nil
}

func (l untouchedLedger) Atomically(context.Context, func(tx logistics.Tx) error) error {
	l.t.Error("unexpected Atomically")
	return logistics.ErrTruckNotFound
}

func TestMalformedTruckID_NotFoundWithoutLookup(t *testing.T) {
	events := &recorder{}
	service := logistics.NewService(untouchedLedger{t}, events, events, slog.New(slog.NewTextHandler(io.Discard, nil)))
	ctx := context.Background()

	for _, id := range []string{"missing", "../etc", "42"} {
		t.Run(id, func(t *testing.T) {
			_, err := service.GetTruck(ctx, admin, id)
			assert.ErrorIs(t, err, logistics.ErrTruckNotFound)

			_, err = service.SetStatus(ctx, admin, id, logistics.StatusArrived)
			assert.ErrorIs(t, err, logistics.ErrTruckNotFound)

			_, _, err = service.UnloadTruck(ctx, admin, id, []logistics.Article{})
			assert.ErrorIs(t, err, logistics.ErrTruckNotFound)

			_, err = service.Receipt(ctx, admin, id)
			assert.ErrorIs(t, err, logistics.ErrTruckNotFound)
		})
	}

	assert.Empty(t, events.notifications)
}

// # Hangar Scoping

func TestHangarScoping(t *testing.T) {
	service, _, _ := newService(t)
	ctx := context.Background()

	first, _, err := service.RegisterTruck(ctx, admin, mangoes("Hangar 1", 10))
	require.NoError(t, err)
	second, _, err := service.RegisterTruck(ctx, admin, mangoes("Hangar 2", 10))
	require.NoError(t, err)

	trucks, err := service.ListTrucks(ctx, manager2)
	require.NoError(t, err)
	require.Len(t, trucks, 1)
	assert.Equal(t, "Hangar 2", trucks[0].Hangar)

	stocks, err := service.ListStocks(ctx, cashier)
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.Equal(t, "Hangar 2", stocks[0].Hangar)

	trucks, err = service.ListTrucks(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, trucks, 2)

	// A viewer without a hangar sees every hangar.
	trucks, err = service.ListTrucks(ctx, viewer)
	require.NoError(t, err)
	assert.Len(t, trucks, 2)

	_, err = service.GetTruck(ctx, manager2, first.ID)
	assert.ErrorIs(t, err, logistics.ErrTruckNotFound)

	got, err := service.GetTruck(ctx, manager2, second.ID)
	require.NoError(t, err)
	assert.Equal(t, second.ID, got.ID)

	_, err = service.ListTrucks(ctx, nil)
	assert.True(t, apperr.HasCode(err, "UNAUTHORIZED"))
}

func TestListTrucks_EmptyIsNotNil(t *testing.T) {
	service, _, _ := newService(t)

	trucks, err := service.ListTrucks(context.Background(), manager1)
	require.NoError(t, err)
	assert.NotNil(t, trucks)
	assert.Empty(t, trucks)
}

// # Atomicity

func TestRegisterTruck_ConcurrentReconciliation(t *testing.T) {
	service, _, _ := newService(t)
	ctx := context.Background()

	const workers = 20
	var wg sync.WaitGroup
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, _, err := service.RegisterTruck(ctx, admin, mangoes("Hangar 1", 1))
			assert.NoError(t, err)
		}()
	}
	wg.Wait()

	stocks, err := service.ListStocks(ctx, admin)
	require.NoError(t, err)
	require.Len(t, stocks, 1)
	assert.Equal(t, float64(workers), stocks[0].Quantity)

	trucks, err := service.ListTrucks(ctx, admin)
	require.NoError(t, err)
	assert.Len(t, trucks, workers)
}

func TestUnloadTruck_FailedOperationWritesNothing(t *testing.T) {
	service, _, store := newService(t)
	ctx := context.Background()

	truck, _, err := service.RegisterTruck(ctx, admin, mangoes("Hangar 1", 10))
	require.NoError(t, err)

	// Corrupt the stock collection so reconciliation fails mid-operation.
	require.NoError(t, store.Update(ctx, func(doc *document.Document) error {
		return document.Encode(doc, document.Stocks, []map[string]any{{"quantity": "not-a-number"}})
	}))

	_, _, err = service.UnloadTruck(ctx, admin, truck.ID, []logistics.Article{{Name: "Mangue", Quantity: 5}})
	require.Error(t, err)

	got, err := service.GetTruck(ctx, admin, truck.ID)
	require.NoError(t, err)
	assert.Equal(t, logistics.StatusRegistered, got.Status)
}
