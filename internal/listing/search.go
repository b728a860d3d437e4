package listing

import (
	"strconv"
	"strings"

	"golang.org/x/text/cases"
)

// Fields returns the searchable text of an entity.
type Fields[T any] func(T) []string

// fold builds a Caser per call, Casers are not safe for concurrent use.
func fold(s string) string {
	return cases.Fold().String(s)
}

// Filter keeps the items where any field contains query, compared after
// Unicode case folding. A blank query returns items itself.
func Filter[T any](items []T, query string, fields Fields[T]) []T {
	needle := strings.TrimSpace(query)
	if needle == "" || fields == nil {
		return items
	}
	needle = fold(needle)

	out := make([]T, 0)
	for _, item := range items {
		if matches(fields(item), needle) {
			out = append(out, item)
		}
	}
	return out
}

func matches(values []string, needle string) bool {
	for _, value := range values {
		if value == "" {
			continue
		}
		if strings.Contains(fold(value), needle) {
			return true
		}
	}
	return false
}

// IntField renders a numeric field for matching.
func IntField(v int) string {
	return strconv.Itoa(v)
}

// FloatField renders a decimal field without trailing zeros.
func FloatField(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}
