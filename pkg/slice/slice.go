// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

/*
Package slice holds the generic list helpers used when shaping API payloads.

Both helpers always return a non-nil slice, so an empty result is encoded as
[] rather than null in JSON responses.
*/
package slice

// Map applies transform to every element, in order.
func Map[T any, U any](input []T, transform func(T) U) []U {
	result := make([]U, 0, len(input))
	for _, v := range input {
		result = append(result, transform(v))
	}
	return result
}

// Filter keeps the elements accepted by keep, in order.
func Filter[T any](input []T, keep func(T) bool) []T {
	result := make([]T, 0)
	for _, v := range input {
		if keep(v) {
			result = append(result, v)
		}
	}
	return result
}
