// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logistics

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/taibuivan/fruitlog/internal/platform/apperr"
	"github.com/taibuivan/fruitlog/internal/platform/sec"
	"github.com/taibuivan/fruitlog/internal/platform/validate"
	"github.com/taibuivan/fruitlog/pkg/pointer"
	"github.com/taibuivan/fruitlog/pkg/slice"
	"github.com/taibuivan/fruitlog/pkg/uuid"
)

// # Collaborators

// Notifier posts an admin notification. Failures are the notifier's concern.
type Notifier interface {
	Notify(ctx context.Context, kind, title, message string)
}

// Auditor appends an audit-log entry. Failures are the auditor's concern.
type Auditor interface {
	Record(ctx context.Context, userID, userName, action, details string)
}

// Notification kinds and audit actions emitted by the workflow.
const (
	KindTruckRegistered = "truck_registered"
	KindTruckStatus     = "truck_status"
	KindTruckUnloaded   = "truck_unloaded"

	ActionTruckRegistered = "TRUCK_REGISTERED"
	ActionTruckUnloaded   = "TRUCK_UNLOADED"
)

// # Service

// Service implements the truck workflow and the stock views.
type Service struct {
	ledger   Ledger
	notifier Notifier
	auditor  Auditor
	logger   *slog.Logger
	now      func() time.Time
}

// NewService constructs a new [Service] with its dependencies.
func NewService(ledger Ledger, notifier Notifier, auditor Auditor, logger *slog.Logger) *Service {
	return &Service{
		ledger:   ledger,
		notifier: notifier,
		auditor:  auditor,
		logger:   logger,
		now:      time.Now,
	}
}

// WithClock overrides the time source, for tests.
func (service *Service) WithClock(now func() time.Time) *Service {
	service.now = now
	return service
}

// RegisterInput is the payload of a truck registration.
type RegisterInput struct {
	Origin   string    `json:"origin"`
	Driver   string    `json:"driver"`
	Phone    string    `json:"phone"`
	Hangar   string    `json:"hangar"`
	Articles []Article `json:"articles"`
}

// # Mutations

/*
RegisterTruck records a new truck and books its articles into stock.

Description: The truck starts as registered with registeredBy set to the
caller's name. Every article is reconciled into the (name, hangar) stock row
in the same atomic operation as the truck insert.

Returns:
  - *Truck: The created truck
  - []StockDelta: One entry per article
  - error: Unauthorized, Forbidden, ValidationError or storage failures
*/
func (service *Service) RegisterTruck(context context.Context, principal *sec.Principal, input RegisterInput) (*Truck, []StockDelta, error) {
	if err := sec.Authorize(principal, sec.TruckOperators...); err != nil {
		return nil, nil, err
	}

	v := &validate.Validator{}
	v.Required("origin", input.Origin).
		Required("driver", input.Driver).
		Required("phone", input.Phone).
		Required("hangar", input.Hangar).
		NotEmpty("articles", len(input.Articles))
	validateArticles(v, "articles", input.Articles)
	if err := v.Err(); err != nil {
		return nil, nil, err
	}

	now := service.now().UTC()
	truck := &Truck{
		ID:           uuid.New(),
		Origin:       strings.TrimSpace(input.Origin),
		Driver:       strings.TrimSpace(input.Driver),
		Phone:        strings.TrimSpace(input.Phone),
		Articles:     normalizeArticles(input.Articles),
		Hangar:       Normalize(input.Hangar),
		Status:       StatusRegistered,
		RegisteredAt: now,
		RegisteredBy: principal.Name,
		UpdatedAt:    now,
	}

	var deltas []StockDelta
	err := service.ledger.Atomically(context, func(tx Tx) error {
		if err := tx.SaveTruck(context, truck); err != nil {
			return err
		}

		var err error
		deltas, err = reconcileAll(context, tx, truck, truck.Articles, now)
		return err
	})
	if err != nil {
		return nil, nil, fmt.Errorf("logistics_register_truck_failed: %w", err)
	}

	service.logger.InfoContext(context, "truck_registered",
		slog.String("truck_id", truck.ID),
		slog.String("hangar", truck.Hangar),
		slog.Int("articles", len(truck.Articles)),
	)

	service.notifier.Notify(context, KindTruckRegistered, "New truck registered",
		fmt.Sprintf("Truck from %s (driver %s) registered for %s by %s", truck.Origin, truck.Driver, truck.Hangar, principal.Name))
	service.auditor.Record(context, principal.UserID, principal.Name, ActionTruckRegistered,
		fmt.Sprintf("Truck %s registered for %s with %d article(s)", truck.ID, truck.Hangar, len(truck.Articles)))

	return truck, deltas, nil
}

/*
SetStatus moves a truck to status.

Description: arrived stamps arrivedAt and unloaded stamps unloadedAt. No
transition is refused; unloaded is terminal only by convention.

Returns:
  - *Truck: The updated truck
  - error: Unauthorized, Forbidden, [ErrInvalidStatus], [ErrTruckNotFound] or storage failures
*/
func (service *Service) SetStatus(context context.Context, principal *sec.Principal, id string, status Status) (*Truck, error) {
	if err := sec.Authorize(principal, sec.TruckOperators...); err != nil {
		return nil, err
	}

	if !status.Valid() {
		return nil, ErrInvalidStatus
	}

	if !uuid.Valid(id) {
		return nil, ErrTruckNotFound
	}

	now := service.now().UTC()

	var truck *Truck
	err := service.ledger.Atomically(context, func(tx Tx) error {
		var err error
		truck, err = tx.FindTruck(context, id)
		if err != nil {
			return err
		}

		truck.Status = status
		truck.UpdatedAt = now
		switch status {
		case StatusArrived:
			truck.ArrivedAt = &now
		case StatusUnloaded:
			truck.UnloadedAt = &now
		}

		return tx.SaveTruck(context, truck)
	})
	if err != nil {
		return nil, wrapLedger(err, "logistics_set_status_failed")
	}

	service.logger.InfoContext(context, "truck_status_changed",
		slog.String("truck_id", truck.ID),
		slog.String("status", string(status)),
	)

	service.notifier.Notify(context, KindTruckStatus, "Truck status updated",
		fmt.Sprintf("Truck from %s is now %s (%s)", truck.Origin, status, truck.Hangar))

	return truck, nil
}

/*
UnloadTruck marks a truck unloaded and books items into its hangar's stock.

Description: items must be a present (possibly empty) list whose entries all
carry a name. An already unloaded truck is unloaded again and its items are
booked again.

Returns:
  - *Truck: The updated truck
  - []StockDelta: One entry per item
  - error: Unauthorized, Forbidden, ValidationError, [ErrTruckNotFound] or storage failures
*/
func (service *Service) UnloadTruck(context context.Context, principal *sec.Principal, id string, items []Article) (*Truck, []StockDelta, error) {
	if err := sec.Authorize(principal, sec.TruckOperators...); err != nil {
		return nil, nil, err
	}

	v := &validate.Validator{}
	v.Custom("items", items == nil, "items must be an array")
	validateArticles(v, "items", items)
	if err := v.Err(); err != nil {
		return nil, nil, err
	}

	if !uuid.Valid(id) {
		return nil, nil, ErrTruckNotFound
	}

	items = normalizeArticles(items)
	now := service.now().UTC()

	var (
		truck  *Truck
		deltas []StockDelta
	)
	err := service.ledger.Atomically(context, func(tx Tx) error {
		var err error
		truck, err = tx.FindTruck(context, id)
		if err != nil {
			return err
		}

		truck.Status = StatusUnloaded
		truck.UnloadedAt = &now
		truck.UnloadedBy = principal.Name
		truck.UpdatedAt = now

		if err := tx.SaveTruck(context, truck); err != nil {
			return err
		}

		deltas, err = reconcileAll(context, tx, truck, items, now)
		return err
	})
	if err != nil {
		return nil, nil, wrapLedger(err, "logistics_unload_truck_failed")
	}

	service.logger.InfoContext(context, "truck_unloaded",
		slog.String("truck_id", truck.ID),
		slog.String("hangar", truck.Hangar),
		slog.Int("items", len(items)),
	)

	service.notifier.Notify(context, KindTruckUnloaded, "Truck unloaded",
		fmt.Sprintf("Truck from %s unloaded at %s by %s", truck.Origin, truck.Hangar, principal.Name))
	service.auditor.Record(context, principal.UserID, principal.Name, ActionTruckUnloaded,
		fmt.Sprintf("Truck %s unloaded with %d item(s)", truck.ID, len(items)))

	return truck, deltas, nil
}

// # Queries

// ListTrucks returns the trucks visible to principal.
func (service *Service) ListTrucks(context context.Context, principal *sec.Principal) ([]Truck, error) {
	if err := sec.Authorize(principal, sec.Roles...); err != nil {
		return nil, err
	}

	trucks, err := service.ledger.ListTrucks(context)
	if err != nil {
		return nil, fmt.Errorf("logistics_list_trucks_failed: %w", err)
	}

	return visible(principal, trucks, func(t Truck) string { return t.Hangar }), nil
}

// GetTruck returns one truck, or [ErrTruckNotFound] when it is outside principal's hangar.
func (service *Service) GetTruck(context context.Context, principal *sec.Principal, id string) (*Truck, error) {
	if err := sec.Authorize(principal, sec.Roles...); err != nil {
		return nil, err
	}

	if !uuid.Valid(id) {
		return nil, ErrTruckNotFound
	}

	truck, err := service.ledger.FindTruck(context, id)
	if err != nil {
		return nil, wrapLedger(err, "logistics_get_truck_failed")
	}

	if !principal.CanSeeHangar(truck.Hangar) {
		return nil, ErrTruckNotFound
	}

	return truck, nil
}

// ListStocks returns the stock rows visible to principal.
func (service *Service) ListStocks(context context.Context, principal *sec.Principal) ([]Stock, error) {
	if err := sec.Authorize(principal, sec.Roles...); err != nil {
		return nil, err
	}

	stocks, err := service.ledger.ListStocks(context)
	if err != nil {
		return nil, fmt.Errorf("logistics_list_stocks_failed: %w", err)
	}

	return visible(principal, stocks, func(s Stock) string { return s.Hangar }), nil
}

// # Helpers

// reconcileAll books lines into the stock of truck's hangar, in order.
func reconcileAll(context context.Context, tx Tx, truck *Truck, lines []Article, now time.Time) ([]StockDelta, error) {
	deltas := make([]StockDelta, 0, len(lines))

	for _, line := range lines {
		existing, err := tx.FindStock(context, line.Name, truck.Hangar)
		if errors.Is(err, ErrNoStock) {
			existing, err = nil, nil
		}
		if err != nil {
			return nil, err
		}

		delta := Reconcile(existing, line, truck, now)
		if err := tx.SaveStock(context, &delta.Stock); err != nil {
			return nil, err
		}

		deltas = append(deltas, delta)
	}

	return deltas, nil
}

// visible keeps the rows principal may see. Admins and users without a hangar see everything.
func visible[T any](principal *sec.Principal, rows []T, hangarOf func(T) string) []T {
	if principal.SeesAllHangars() {
		return slice.Filter(rows, func(T) bool { return true })
	}
	return slice.Filter(rows, func(row T) bool { return principal.CanSeeHangar(hangarOf(row)) })
}

func validateArticles(v *validate.Validator, field string, lines []Article) {
	for i, line := range lines {
		prefix := fmt.Sprintf("%s[%d]", field, i)
		v.Required(prefix+".name", line.Name).
			NonNegative(prefix+".quantity", line.Quantity).
			NonNegative(prefix+".unitPrice", pointer.Val(line.UnitPrice)).
			NonNegative(prefix+".value", pointer.Val(line.Value))
	}
}

func normalizeArticles(lines []Article) []Article {
	return slice.Map(lines, func(line Article) Article {
		line.Name = Normalize(line.Name)
		line.Unit = strings.TrimSpace(line.Unit)
		return line
	})
}

// wrapLedger keeps domain errors intact and wraps everything else under action.
func wrapLedger(err error, action string) error {
	if apperr.IsAppError(err) {
		return err
	}
	return fmt.Errorf("%s: %w", action, err)
}
