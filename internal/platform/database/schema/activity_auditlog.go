// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ActivityAuditLogTable represents the 'activity.auditlog' table
type ActivityAuditLogTable struct {
	Table     string
	ID        string
	UserID    string
	UserName  string
	Action    string
	Details   string
	CreatedAt string
}

// ActivityAuditLog is the schema definition for activity.auditlog
var ActivityAuditLog = ActivityAuditLogTable{
	Table:     "activity.auditlog",
	ID:        "id",
	UserID:    "userid",
	UserName:  "username",
	Action:    "action",
	Details:   "details",
	CreatedAt: "createdat",
}

// Columns returns all standard column names
func (t ActivityAuditLogTable) Columns() []string {
	return []string{t.ID, t.UserID, t.UserName, t.Action, t.Details, t.CreatedAt}
}
