package formutil

import (
	"net/url"
	"sort"
	"strings"
)

// ignoredKeys are form fields that are never document data.
var ignoredKeys = map[string]bool{
	"csrf_token":         true,
	"gorilla.csrf.Token": true,
	"return":             true,
}

// Nest rebuilds a nested document from dot-path form keys. The last value
// wins for repeated keys (a hidden "false" followed by a checked checkbox
// yields "true"). Numeric segments become array indexes; arrays are compacted
// in index order. Blank strings and all-blank objects are dropped from arrays
// so an empty "add item" row does not turn into a stored element.
func Nest(form url.Values) map[string]any {
	root := map[string]any{}
	keys := make([]string, 0, len(form))
	for k := range form {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	for _, k := range keys {
		if ignoredKeys[k] || strings.Contains(k, "__i") {
			continue
		}
		vals := form[k]
		if len(vals) == 0 {
			continue
		}
		set(root, strings.Split(k, "."), vals[len(vals)-1])
	}
	return finalize(root).(map[string]any)
}

func set(node map[string]any, segs []string, val string) {
	for i, s := range segs {
		if s == "" {
			return
		}
		if i == len(segs)-1 {
			node[s] = val
			return
		}
		child, ok := node[s].(map[string]any)
		if !ok {
			child = map[string]any{}
			node[s] = child
		}
		node = child
	}
}

// finalize turns maps whose keys are all numeric into ordered slices.
func finalize(v any) any {
	m, ok := v.(map[string]any)
	if !ok {
		return v
	}
	for k, child := range m {
		m[k] = finalize(child)
	}
	if len(m) == 0 || !allIndexes(m) {
		return m
	}

	idx := make([]string, 0, len(m))
	for k := range m {
		idx = append(idx, k)
	}
	sort.Slice(idx, func(i, j int) bool { return indexLess(idx[i], idx[j]) })

	out := make([]any, 0, len(idx))
	for _, k := range idx {
		item := m[k]
		if isBlank(item) {
			continue
		}
		out = append(out, item)
	}
	return out
}

// indexLess orders digit strings by numeric value without parsing them, so
// leading zeros and indexes past the int range still sort. Keys with the same
// value ("1", "01") keep a fixed order and both survive.
func indexLess(a, b string) bool {
	ta, tb := strings.TrimLeft(a, "0"), strings.TrimLeft(b, "0")
	if len(ta) != len(tb) {
		return len(ta) < len(tb)
	}
	if ta != tb {
		return ta < tb
	}
	return a < b
}

func allIndexes(m map[string]any) bool {
	for k := range m {
		if !isIndex(k) {
			return false
		}
	}
	return true
}

func isBlank(v any) bool {
	switch t := v.(type) {
	case string:
		return strings.TrimSpace(t) == ""
	case map[string]any:
		for _, c := range t {
			if !isBlank(c) {
				return false
			}
		}
		return true
	case []any:
		return len(t) == 0
	default:
		return v == nil
	}
}
