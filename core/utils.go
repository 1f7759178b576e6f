package core

import (
	"regexp"
	"strings"
)

var (
	spaceRunRegex      = regexp.MustCompile(`\s+`)
	fieldNameDropRegex = regexp.MustCompile(`[^a-zA-Z0-9_\-]`)
)

// CleanString trims all leading and trailing whitespace in `s` and optionally lowers it.
func CleanString(s string, lower ...bool) string {
	s = strings.TrimSpace(s)
	if len(lower) > 0 && lower[0] {
		return strings.ToLower(s)
	}
	return s
}

// NormalizeFieldName turns a user supplied custom field label into a column name:
// whitespace runs become "_" and anything but letters, digits, "_" and "-" is dropped.
func NormalizeFieldName(name string) string {
	name = strings.TrimSpace(name)
	name = spaceRunRegex.ReplaceAllString(name, "_")
	return fieldNameDropRegex.ReplaceAllString(name, "")
}

// NormalizeFieldNames normalizes names, dropping empty results and duplicates (first one wins).
func NormalizeFieldNames(names []string) []string {
	out := make([]string, 0, len(names))
	seen := make(map[string]bool, len(names))
	for _, name := range names {
		name = NormalizeFieldName(name)
		if name == "" || seen[name] {
			continue
		}
		seen[name] = true
		out = append(out, name)
	}
	return out
}
