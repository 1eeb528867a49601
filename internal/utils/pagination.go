// Package utils provides small, generic helper functions used across
// different layers of the application. These utilities are independent
// of domain or business logic.
package utils

import "strconv"

// AtoiDefault converts a string to an int using strconv.Atoi.
// If the string is empty or cannot be parsed as an integer,
// it returns the provided default value instead.
//
// Example:
//
//	n := utils.AtoiDefault("42", 0) // returns 42
//	n = utils.AtoiDefault("", 10)   // returns 10
//	n = utils.AtoiDefault("x", 5)   // returns 5
func AtoiDefault(s string, def int) int {
	if s == "" {
		return def
	}
	if n, err := strconv.Atoi(s); err == nil {
		return n
	}
	return def
}

// PageCount returns how many pages of size hold total items. An empty list
// still has one (empty) page. A non-positive size counts as 1.
func PageCount(total, size int) int {
	if size <= 0 {
		size = 1
	}
	if total <= 0 {
		return 1
	}
	return (total + size - 1) / size
}

// PageBounds returns the half-open slice range [lo, hi) covered by the
// zero-based page. Pages past the end yield an empty range at total.
//
// Example:
//
//	lo, hi := utils.PageBounds(12, 2, 5) // 10, 12
func PageBounds(total, page, size int) (lo, hi int) {
	if size <= 0 {
		size = 1
	}
	if page < 0 || total <= 0 {
		return 0, 0
	}
	lo = page * size
	if lo > total {
		return total, total
	}
	hi = lo + size
	if hi > total {
		hi = total
	}
	return lo, hi
}

// ClampPageSize bounds a client supplied page size to [1, max], using def
// when size is not positive.
func ClampPageSize(size, def, max int) int {
	if size <= 0 {
		size = def
	}
	if max > 0 && size > max {
		size = max
	}
	if size <= 0 {
		size = 1
	}
	return size
}
