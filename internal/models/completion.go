package models

import "math"

// CompletionPercentage returns the rounded share of items that have left the
// unverified state, 0-100. A review with no items is trivially complete.
func CompletionPercentage(items []VerificationItem) int {
	if len(items) == 0 {
		return 100
	}
	resolved := 0
	for i := range items {
		if items[i].Status.Resolved() {
			resolved++
		}
	}
	return int(math.Round(100 * float64(resolved) / float64(len(items))))
}

// HasBlockingRejection reports whether any item is rejected. A rejection is
// never silently resolved; it must be re-verified or, for non-document items,
// waived before the review can be approved.
func HasBlockingRejection(items []VerificationItem) bool {
	for i := range items {
		if items[i].Status == ItemStatusRejected {
			return true
		}
	}
	return false
}

// IsFullyResolved reports whether every item has left the unverified state.
func IsFullyResolved(items []VerificationItem) bool {
	return CompletionPercentage(items) == 100
}

// UnresolvedCount counts items still unverified.
func UnresolvedCount(items []VerificationItem) int {
	n := 0
	for i := range items {
		if !items[i].Status.Resolved() {
			n++
		}
	}
	return n
}

// RejectedCount counts items currently rejected.
func RejectedCount(items []VerificationItem) int {
	n := 0
	for i := range items {
		if items[i].Status == ItemStatusRejected {
			n++
		}
	}
	return n
}
