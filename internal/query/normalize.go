package query

import "strings"

// Normalize trims surrounding whitespace and case-folds a candidate
// value. Historical data entry is inconsistent, so both sides of every
// attribute comparison go through this.
func Normalize(value string) string {
	return strings.ToLower(strings.TrimSpace(value))
}

// NormalizeAll normalizes each value, drops blanks, and de-duplicates
// while preserving first-seen order.
func NormalizeAll(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	result := make([]string, 0, len(values))
	for _, v := range values {
		norm := Normalize(v)
		if norm == "" {
			continue
		}
		if _, dup := seen[norm]; dup {
			continue
		}
		seen[norm] = struct{}{}
		result = append(result, norm)
	}
	return result
}

// SplitCSV splits a comma-separated parameter into trimmed entries,
// discarding blanks. An empty input yields an empty slice.
func SplitCSV(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return nil
	}
	parts := strings.Split(raw, ",")
	result := make([]string, 0, len(parts))
	for _, part := range parts {
		trimmed := strings.TrimSpace(part)
		if trimmed != "" {
			result = append(result, trimmed)
		}
	}
	return result
}
