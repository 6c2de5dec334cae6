// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package convert reads loosely typed query-string values (?page, ?limit,
?unread) where a malformed value should fall back rather than fail the request.
*/
package convert

import "strconv"

// IntOr parses s as an integer, returning fallback when s is empty or malformed.
func IntOr(s string, fallback int) int {
	if v, err := strconv.Atoi(s); err == nil {
		return v
	}
	return fallback
}

// Bool parses "true", "1", "false", "0" and friends. Anything else is false.
func Bool(s string) bool {
	v, _ := strconv.ParseBool(s)
	return v
}
