package shared

import (
	"strings"
)

// BuildCacheKey joins the given parts into a namespaced cache key.
func BuildCacheKey(parts ...string) string {
	return strings.Join(parts, ":")
}

// NormalizeText lowercases the given text and collapses runs of whitespace,
// producing the canonical form used for duplicate-send detection.
func NormalizeText(text string) string {
	return strings.Join(strings.Fields(strings.ToLower(text)), " ")
}
