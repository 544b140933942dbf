// Package utils holds small generic helpers with no domain knowledge.
package utils

import (
	"strconv"
	"strings"
)

// IntParam parses s as a decimal int and clamps it to [lo, hi]. Empty or
// malformed input yields def, which is clamped as well.
func IntParam(s string, def, lo, hi int) int {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil {
		n = def
	}
	return min(max(n, lo), hi)
}

// Page returns the page-th window of pageSize items (page counts from 1)
// with the normalized page and size. pageSize <= 0 becomes def and a
// positive limit caps it. Pages past the end are empty but never nil.
func Page[T any](items []T, page, pageSize, def, limit int) ([]T, int, int) {
	page = max(page, 1)
	if pageSize <= 0 {
		pageSize = def
	}
	if limit > 0 {
		pageSize = min(pageSize, limit)
	}

	start := (page - 1) * pageSize
	if start >= len(items) {
		return []T{}, page, pageSize
	}
	return items[start:min(start+pageSize, len(items))], page, pageSize
}
