package kpi

import "strings"

// The business heuristics are name-pattern matches, kept as explicit ordered
// tables so the catalog stays data-driven and independently testable.

var revenueKeywords = []string{"revenue", "sales", "income", "amount", "value", "price"}

var countKeywords = []string{"count", "quantity", "qty", "number", "num"}

var customerKeywords = []string{"customer", "user", "client", "member"}

var statusKeywords = []string{"status", "result", "outcome"}

// successValues are the lowercased forms counted as successful outcomes
var successValues = map[string]bool{
	"success":   true,
	"complete":  true,
	"approved":  true,
	"yes":       true,
	"true":      true,
	"1":         true,
	"active":    true,
	"confirmed": true,
}

// matchesAny reports whether the column name contains any of the keywords,
// case-insensitively
func matchesAny(columnName string, keywords []string) bool {
	lower := strings.ToLower(columnName)
	for _, keyword := range keywords {
		if strings.Contains(lower, keyword) {
			return true
		}
	}
	return false
}
