package misc

import (
	"cmp"
	"slices"
)

// Range iterates a map in sorted key order.
func Range[K cmp.Ordered, V any](m map[K]V) func(func(K, V) bool) {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	slices.Sort(keys)

	return func(callback func(K, V) bool) {
		for _, key := range keys {
			if !callback(key, m[key]) {
				break
			}
		}
	}
}
