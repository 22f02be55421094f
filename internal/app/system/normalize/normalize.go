// Package normalize holds the string normalization rules applied before
// storage or comparison.
package normalize

import "strings"

// Email trims and lowercases an email address. User and subscriber emails are
// stored in this form so the unique indexes compare them case-insensitively.
func Email(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Name trims whitespace.
func Name(s string) string {
	return strings.TrimSpace(s)
}

// Role trims and lowercases a role value.
func Role(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// Tag trims, lowercases and collapses inner whitespace in a blog tag.
func Tag(s string) string {
	return strings.Join(strings.Fields(strings.ToLower(s)), " ")
}

// Tags normalizes each tag and drops blanks and duplicates, keeping order.
func Tags(in []string) []string {
	out := make([]string, 0, len(in))
	seen := make(map[string]struct{}, len(in))
	for _, t := range in {
		t = Tag(t)
		if t == "" {
			continue
		}
		if _, dup := seen[t]; dup {
			continue
		}
		seen[t] = struct{}{}
		out = append(out, t)
	}
	return out
}
