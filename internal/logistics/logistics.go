// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package logistics manages delivery trucks and the hangar stock they feed.

A truck is registered with its articles, moves through the arrival states and
is finally unloaded. Registration and unloading both reconcile the incoming
lines into the stock row identified by (name, hangar).

Architecture:

  - Entities: [Truck], [Article], [Stock], [StockDelta].
  - Ledger: atomic read-modify-write over trucks and stocks ([Ledger]).
  - Service: role checks, hangar scoping, reconciliation and side effects.
  - Handler: chi routes for /trucks and /stocks.
*/
package logistics

import (
	"slices"
	"time"
)

// # Truck Lifecycle

// Status is the position of a truck in the delivery workflow.
type Status string

const (
	StatusRegistered Status = "registered"
	StatusArrived    Status = "arrived"
	StatusUnloading  Status = "unloading"
	StatusUnloaded   Status = "unloaded"
)

// Statuses lists every recognised truck status in workflow order.
var Statuses = []Status{StatusRegistered, StatusArrived, StatusUnloading, StatusUnloaded}

// Valid reports whether s is one of [Statuses].
func (s Status) Valid() bool {
	return slices.Contains(Statuses, s)
}

// Article is one line of a shipment.
//
// UnitPrice and Value are optional; see [Reconcile] for how a missing value
// is derived.
type Article struct {
	Name      string   `json:"name"`
	Quantity  float64  `json:"quantity"`
	Unit      string   `json:"unit,omitempty"`
	UnitPrice *float64 `json:"unitPrice,omitempty"`
	Value     *float64 `json:"value,omitempty"`
}

// Truck is a delivery vehicle bound to a hangar.
type Truck struct {
	ID           string     `json:"id"`
	Origin       string     `json:"origin"`
	Driver       string     `json:"driver"`
	Phone        string     `json:"phone"`
	Articles     []Article  `json:"articles"`
	Hangar       string     `json:"hangar"`
	Status       Status     `json:"status"`
	RegisteredAt time.Time  `json:"registeredAt"`
	RegisteredBy string     `json:"registeredBy"`
	ArrivedAt    *time.Time `json:"arrivedAt"`
	UnloadedAt   *time.Time `json:"unloadedAt"`
	UnloadedBy   string     `json:"unloadedBy,omitempty"`
	UpdatedAt    time.Time  `json:"updatedAt"`
}

// # Stock

// DefaultThreshold is the low-stock threshold given to new stock rows.
const DefaultThreshold = 50

// Stock is the aggregated quantity and value of one article in one hangar.
type Stock struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Hangar      string    `json:"hangar"`
	Quantity    float64   `json:"quantity"`
	Unit        string    `json:"unit"`
	UnitPrice   float64   `json:"unitPrice"`
	TotalValue  float64   `json:"totalValue"`
	Threshold   float64   `json:"threshold"`
	LastTruckID string    `json:"lastTruckId"`
	Origin      string    `json:"origin"`
	Driver      string    `json:"driver"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Below reports whether the row has fallen under its threshold.
func (s Stock) Below() bool {
	return s.Quantity < s.Threshold
}

// DeltaAction tags a [StockDelta].
type DeltaAction string

const (
	DeltaCreated DeltaAction = "created"
	DeltaUpdated DeltaAction = "updated"
)

// StockDelta reports what one incoming line did to the stock.
type StockDelta struct {
	Action        DeltaAction `json:"action"`
	Name          string      `json:"name"`
	Hangar        string      `json:"hangar"`
	QuantityAdded float64     `json:"quantityAdded"`
	ValueAdded    float64     `json:"valueAdded"`
	Stock         Stock       `json:"stock"`
}
