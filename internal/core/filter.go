package core

import "strings"

// Filter holds the list-view predicates. Zero values mean "no restriction".
type Filter struct {
	Search     string
	CategoryID int64
}

// IsZero reports whether the filter restricts nothing.
func (f Filter) IsZero() bool {
	return strings.TrimSpace(f.Search) == "" && f.CategoryID == 0
}

// ApplyFilter returns the transactions matching every set predicate.
//
// The search text matches case-insensitively against the description or the
// resolved category name; the category id matches exactly. Relative input
// order is preserved, and filtering an already-filtered result with the same
// filter returns the same result.
func ApplyFilter(transactions []Transaction, f Filter) []Transaction {
	search := strings.ToLower(strings.TrimSpace(f.Search))

	out := make([]Transaction, 0, len(transactions))
	for _, t := range transactions {
		if f.CategoryID != 0 && t.CategoryID != f.CategoryID {
			continue
		}
		if search != "" &&
			!strings.Contains(strings.ToLower(t.Description), search) &&
			!strings.Contains(strings.ToLower(t.CategoryName), search) {
			continue
		}
		out = append(out, t)
	}
	return out
}
