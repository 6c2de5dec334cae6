// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logistics

import (
	"context"
	"slices"

	"github.com/taibuivan/fruitlog/internal/platform/document"
)

// DocumentLedger implements [Ledger] on the "trucks" and "stocks" collections.
type DocumentLedger struct {
	store *document.Store
}

// NewDocumentLedger creates a ledger backed by the JSON document.
func NewDocumentLedger(store *document.Store) *DocumentLedger {
	return &DocumentLedger{store: store}
}

func (ledger *DocumentLedger) ListTrucks(context context.Context) ([]Truck, error) {
	var trucks []Truck
	err := ledger.store.View(context, func(doc *document.Document) error {
		var err error
		trucks, err = document.Decode[Truck](doc, document.Trucks)
		return err
	})
	return trucks, err
}

func (ledger *DocumentLedger) FindTruck(context context.Context, id string) (*Truck, error) {
	var found *Truck
	err := ledger.store.View(context, func(doc *document.Document) error {
		trucks, err := document.Decode[Truck](doc, document.Trucks)
		if err != nil {
			return err
		}
		found, err = (&documentTx{trucks: trucks}).FindTruck(context, id)
		return err
	})
	return found, err
}

func (ledger *DocumentLedger) ListStocks(context context.Context) ([]Stock, error) {
	var stocks []Stock
	err := ledger.store.View(context, func(doc *document.Document) error {
		var err error
		stocks, err = document.Decode[Stock](doc, document.Stocks)
		return err
	})
	return stocks, err
}

/*
Atomically runs fn against in-memory copies of both collections.

The copies are written back in one document rewrite when fn succeeds; the
store mutex is held throughout, so concurrent operations never interleave.
*/
func (ledger *DocumentLedger) Atomically(context context.Context, fn func(tx Tx) error) error {
	return ledger.store.Update(context, func(doc *document.Document) error {
		trucks, err := document.Decode[Truck](doc, document.Trucks)
		if err != nil {
			return err
		}

		stocks, err := document.Decode[Stock](doc, document.Stocks)
		if err != nil {
			return err
		}

		tx := &documentTx{trucks: trucks, stocks: stocks}
		if err := fn(tx); err != nil {
			return err
		}

		if err := document.Encode(doc, document.Trucks, tx.trucks); err != nil {
			return err
		}
		return document.Encode(doc, document.Stocks, tx.stocks)
	})
}

// documentTx mutates decoded collections; it never touches the file itself.
type documentTx struct {
	trucks []Truck
	stocks []Stock
}

func (tx *documentTx) FindTruck(_ context.Context, id string) (*Truck, error) {
	index := slices.IndexFunc(tx.trucks, func(t Truck) bool { return t.ID == id })
	if index < 0 {
		return nil, ErrTruckNotFound
	}

	truck := tx.trucks[index]
	truck.Articles = slices.Clone(truck.Articles)
	return &truck, nil
}

func (tx *documentTx) SaveTruck(_ context.Context, truck *Truck) error {
	index := slices.IndexFunc(tx.trucks, func(t Truck) bool { return t.ID == truck.ID })
	if index < 0 {
		tx.trucks = append(tx.trucks, *truck)
		return nil
	}
	tx.trucks[index] = *truck
	return nil
}

func (tx *documentTx) FindStock(_ context.Context, name, hangar string) (*Stock, error) {
	index := slices.IndexFunc(tx.stocks, func(s Stock) bool { return SameStock(&s, name, hangar) })
	if index < 0 {
		return nil, ErrNoStock
	}

	stock := tx.stocks[index]
	return &stock, nil
}

func (tx *documentTx) SaveStock(_ context.Context, stock *Stock) error {
	index := slices.IndexFunc(tx.stocks, func(s Stock) bool { return s.ID == stock.ID })
	if index < 0 {
		tx.stocks = append(tx.stocks, *stock)
		return nil
	}
	tx.stocks[index] = *stock
	return nil
}
