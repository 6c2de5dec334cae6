// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logistics

import (
	"context"
	"errors"
)

// ErrNoStock is returned by [Tx.FindStock] when no row matches the pair.
var ErrNoStock = errors.New("logistics: no stock row")

// # Persistence Contracts

/*
Ledger is the persistence boundary of the truck workflow.

Reads return snapshots. Writes go through [Ledger.Atomically]: every truck and
stock change made by fn commits together, or none does when fn fails.
*/
type Ledger interface {
	ListTrucks(ctx context.Context) ([]Truck, error)
	FindTruck(ctx context.Context, id string) (*Truck, error)
	ListStocks(ctx context.Context) ([]Stock, error)

	Atomically(ctx context.Context, fn func(tx Tx) error) error
}

// Tx is the view of the ledger inside one atomic operation.
type Tx interface {
	// FindTruck returns [ErrTruckNotFound] for unknown ids.
	FindTruck(ctx context.Context, id string) (*Truck, error)

	// SaveTruck inserts or replaces the truck with the same id.
	SaveTruck(ctx context.Context, truck *Truck) error

	// FindStock looks a row up by normalised (name, hangar), or returns [ErrNoStock].
	FindStock(ctx context.Context, name, hangar string) (*Stock, error)

	// SaveStock inserts or replaces the row with the same id.
	SaveStock(ctx context.Context, stock *Stock) error
}
