package social

import "strings"

// NormalizeTags turns the UI's comma-separated tag string into the
// stored array: split on commas, strip surrounding whitespace per
// segment. Interior empty segments and duplicates are kept as-is; the
// UI never promised clean input and the backend does not validate tags.
// Normalizing an already-normalized, re-joined array yields the same
// array.
func NormalizeTags(raw string) []string {
	if strings.TrimSpace(raw) == "" {
		return []string{}
	}
	parts := strings.Split(raw, ",")
	tags := make([]string, len(parts))
	for i, p := range parts {
		tags[i] = strings.TrimSpace(p)
	}
	return tags
}
