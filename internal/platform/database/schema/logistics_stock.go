// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// LogisticsStockTable represents the 'logistics.stock' table
type LogisticsStockTable struct {
	Table       string
	ID          string
	Name        string
	Hangar      string
	Quantity    string
	Unit        string
	UnitPrice   string
	TotalValue  string
	Threshold   string
	LastTruckID string
	Origin      string
	Driver      string
	CreatedAt   string
	UpdatedAt   string
}

// LogisticsStock is the schema definition for logistics.stock.
// (name, hangar) is unique.
var LogisticsStock = LogisticsStockTable{
	Table:       "logistics.stock",
	ID:          "id",
	Name:        "name",
	Hangar:      "hangar",
	Quantity:    "quantity",
	Unit:        "unit",
	UnitPrice:   "unitprice",
	TotalValue:  "totalvalue",
	Threshold:   "threshold",
	LastTruckID: "lasttruckid",
	Origin:      "origin",
	Driver:      "driver",
	CreatedAt:   "createdat",
	UpdatedAt:   "updatedat",
}

// Columns returns all standard column names
func (t LogisticsStockTable) Columns() []string {
	return []string{
		t.ID, t.Name, t.Hangar, t.Quantity, t.Unit, t.UnitPrice, t.TotalValue,
		t.Threshold, t.LastTruckID, t.Origin, t.Driver, t.CreatedAt, t.UpdatedAt,
	}
}
