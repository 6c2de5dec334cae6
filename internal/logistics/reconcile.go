// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package logistics

import (
	"strings"
	"time"

	"golang.org/x/text/unicode/norm"

	"github.com/taibuivan/fruitlog/pkg/pointer"
	"github.com/taibuivan/fruitlog/pkg/uuid"
)

// # Stock Identity

// Normalize trims s and puts it in Unicode NFC form, so "Mangue" typed with
// a precomposed or a decomposed accent resolves to the same stock row.
func Normalize(s string) string {
	return norm.NFC.String(strings.TrimSpace(s))
}

// SameStock reports whether a stock row matches the (name, hangar) pair.
func SameStock(stock *Stock, name, hangar string) bool {
	return Normalize(stock.Name) == Normalize(name) && Normalize(stock.Hangar) == Normalize(hangar)
}

// # Reconciliation

// LineValue returns the value an incoming line adds to the stock.
//
// An explicit value wins; otherwise quantity times the line's unit price;
// otherwise quantity times the unit price of the existing row (nil for a miss).
func LineValue(line Article, existing *Stock) float64 {
	switch {
	case line.Value != nil:
		return *line.Value
	case line.UnitPrice != nil:
		return line.Quantity * *line.UnitPrice
	case existing != nil:
		return line.Quantity * existing.UnitPrice
	default:
		return 0
	}
}

/*
Reconcile merges one incoming line into the stock.

Description: With an existing row the quantity and total value accumulate and
the unit price becomes the weighted average totalValue / quantity. Without one
a new row is created for the truck's hangar, carrying the truck's origin and
driver and a threshold of [DefaultThreshold].

Parameters:
  - existing: *Stock (nil when no row matches)
  - line: Article
  - truck: *Truck (source of the shipment)
  - now: time.Time

Returns:
  - StockDelta: The resulting row tagged created or updated
*/
func Reconcile(existing *Stock, line Article, truck *Truck, now time.Time) StockDelta {
	value := LineValue(line, existing)

	if existing == nil {
		unitPrice := pointer.Val(line.UnitPrice)
		if line.UnitPrice == nil && line.Quantity > 0 {
			unitPrice = value / line.Quantity
		}

		stock := Stock{
			ID:          uuid.New(),
			Name:        Normalize(line.Name),
			Hangar:      Normalize(truck.Hangar),
			Quantity:    line.Quantity,
			Unit:        line.Unit,
			UnitPrice:   unitPrice,
			TotalValue:  value,
			Threshold:   DefaultThreshold,
			LastTruckID: truck.ID,
			Origin:      truck.Origin,
			Driver:      truck.Driver,
			CreatedAt:   now,
			UpdatedAt:   now,
		}

		return StockDelta{
			Action:        DeltaCreated,
			Name:          stock.Name,
			Hangar:        stock.Hangar,
			QuantityAdded: line.Quantity,
			ValueAdded:    value,
			Stock:         stock,
		}
	}

	stock := *existing
	stock.Quantity += line.Quantity
	stock.TotalValue += value
	if stock.Quantity > 0 {
		stock.UnitPrice = stock.TotalValue / stock.Quantity
	}
	if stock.Unit == "" {
		stock.Unit = line.Unit
	}
	stock.LastTruckID = truck.ID
	stock.UpdatedAt = now

	return StockDelta{
		Action:        DeltaUpdated,
		Name:          stock.Name,
		Hangar:        stock.Hangar,
		QuantityAdded: line.Quantity,
		ValueAdded:    value,
		Stock:         stock,
	}
}
