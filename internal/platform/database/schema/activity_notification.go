// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package schema

// ActivityNotificationTable represents the 'activity.notification' table
type ActivityNotificationTable struct {
	Table      string
	ID         string
	Type       string
	Title      string
	Message    string
	TargetRole string
	IsRead     string
	CreatedAt  string
}

// ActivityNotification is the schema definition for activity.notification
var ActivityNotification = ActivityNotificationTable{
	Table:      "activity.notification",
	ID:         "id",
	Type:       "type",
	Title:      "title",
	Message:    "message",
	TargetRole: "targetrole",
	IsRead:     "isread",
	CreatedAt:  "createdat",
}

// Columns returns all standard column names
func (t ActivityNotificationTable) Columns() []string {
	return []string{t.ID, t.Type, t.Title, t.Message, t.TargetRole, t.IsRead, t.CreatedAt}
}
