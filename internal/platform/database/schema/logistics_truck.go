// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// LogisticsTruckTable represents the 'logistics.truck' table
type LogisticsTruckTable struct {
	Table        string
	ID           string
	Origin       string
	Driver       string
	Phone        string
	Articles     string
	Hangar       string
	Status       string
	RegisteredAt string
	RegisteredBy string
	ArrivedAt    string
	UnloadedAt   string
	UnloadedBy   string
	UpdatedAt    string
}

// LogisticsTruck is the schema definition for logistics.truck
var LogisticsTruck = LogisticsTruckTable{
	Table:        "logistics.truck",
	ID:           "id",
	Origin:       "origin",
	Driver:       "driver",
	Phone:        "phone",
	Articles:     "articles",
	Hangar:       "hangar",
	Status:       "status",
	RegisteredAt: "registeredat",
	RegisteredBy: "registeredby",
	ArrivedAt:    "arrivedat",
	UnloadedAt:   "unloadedat",
	UnloadedBy:   "unloadedby",
	UpdatedAt:    "updatedat",
}

// Columns returns all standard column names
func (t LogisticsTruckTable) Columns() []string {
	return []string{
		t.ID, t.Origin, t.Driver, t.Phone, t.Articles, t.Hangar, t.Status,
		t.RegisteredAt, t.RegisteredBy, t.ArrivedAt, t.UnloadedAt, t.UnloadedBy, t.UpdatedAt,
	}
}
