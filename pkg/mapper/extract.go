package mapper

import (
	"fmt"
	"strings"
)

// The directory payload is decoded into map[string]interface{} trees.
// Absence of a key at any depth is normal, never an error; every accessor
// takes an explicit default for that case.

func extractMap(value interface{}) map[string]interface{} {
	if m, ok := value.(map[string]interface{}); ok {
		return m
	}
	return map[string]interface{}{}
}

func extractList(value interface{}) []interface{} {
	if l, ok := value.([]interface{}); ok {
		return l
	}
	return []interface{}{}
}

// stringAt walks a dotted path of nested keys and returns the string found
// there, or def when any key along the path is missing, the node at that
// point is not a mapping, or the leaf is not string-valued.
func stringAt(node map[string]interface{}, def string, path ...string) string {
	for i, key := range path {
		if i == len(path)-1 {
			switch val := node[key].(type) {
			case string:
				return strings.TrimSpace(val)
			case fmt.Stringer:
				return strings.TrimSpace(val.String())
			default:
				return def
			}
		}
		node = extractMap(node[key])
	}
	return def
}

// listAt resolves a path to a list value, returning an empty (non-nil) slice
// when the path is missing so callers can iterate unconditionally.
func listAt(node map[string]interface{}, path ...string) []interface{} {
	for i, key := range path {
		if i == len(path)-1 {
			return extractList(node[key])
		}
		node = extractMap(node[key])
	}
	return []interface{}{}
}

// intAt returns the integer at the path, or nil when absent. JSON numbers
// decode as float64.
func intAt(node map[string]interface{}, path ...string) *int {
	for i, key := range path {
		if i == len(path)-1 {
			switch val := node[key].(type) {
			case float64:
				n := int(val)
				return &n
			case int:
				n := val
				return &n
			default:
				return nil
			}
		}
		node = extractMap(node[key])
	}
	return nil
}
