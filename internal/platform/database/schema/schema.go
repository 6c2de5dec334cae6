// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package schema names the PostgreSQL tables and columns of the relational driver.

Repositories build their SQL from these definitions so a column rename is a
one-line change here plus a migration.
*/
package schema

import "strings"

// List joins column names for SELECT and INSERT clauses.
func List(columns []string) string {
	return strings.Join(columns, ", ")
}
