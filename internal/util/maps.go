package util

import "sort"

// SortedKeys returns map keys as a sorted slice.
// Used wherever header text or include order depends on map iteration.
func SortedKeys[K ~string, V any](m map[K]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, string(k))
	}
	sort.Strings(keys)
	return keys
}

// SortedSet returns the members of a string set in lexicographic order.
func SortedSet(set map[string]struct{}) []string {
	return SortedKeys(set)
}
