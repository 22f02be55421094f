// Package slug derives URL-safe identifiers from human-readable names.
package slug

import (
	"context"
	"errors"
	"strconv"
	"strings"
	"unicode"
)

// MaxAttempts bounds the counter loop in Unique.
const MaxAttempts = 1000

// ErrExhausted is returned when Unique cannot find a free candidate.
var ErrExhausted = errors.New("slug: no free candidate")

// Make lowercases s, drops every rune that is not a letter, digit, space or
// hyphen, turns whitespace runs into single hyphens, collapses repeated
// hyphens and trims leading and trailing hyphens. Arabic letters are letters
// and survive.
func Make(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	pendingHyphen := false
	for _, r := range strings.ToLower(s) {
		switch {
		case unicode.IsLetter(r) || unicode.IsDigit(r):
			if pendingHyphen && b.Len() > 0 {
				b.WriteByte('-')
			}
			pendingHyphen = false
			b.WriteRune(r)
		case r == '-' || unicode.IsSpace(r):
			pendingHyphen = true
		}
	}
	return b.String()
}

// TakenFunc reports whether candidate is already used by another document.
type TakenFunc func(ctx context.Context, candidate string) (bool, error)

// Unique returns base if free, otherwise the first free of base-1, base-2, ...
func Unique(ctx context.Context, base string, taken TakenFunc) (string, error) {
	candidate := base
	for i := 1; i <= MaxAttempts; i++ {
		used, err := taken(ctx, candidate)
		if err != nil {
			return "", err
		}
		if !used {
			return candidate, nil
		}
		candidate = base + "-" + strconv.Itoa(i)
	}
	return "", ErrExhausted
}
