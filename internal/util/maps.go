package util

import (
	"cmp"
	"errors"
	"maps"
	"slices"
)

var (
	ErrNoElement        = errors.New("no element found")
	ErrMultipleElements = errors.New("multiple elements found")
)

// GetOne returns the only entry of m. It fails with ErrNoElement when m is
// empty and ErrMultipleElements when m has more than one entry.
func GetOne[K comparable, T any](m map[K]T) (K, T, error) {
	var zeroK K
	var zeroT T
	switch len(m) {
	case 0:
		return zeroK, zeroT, ErrNoElement
	case 1:
		for k, v := range m {
			return k, v, nil
		}
	}
	return zeroK, zeroT, ErrMultipleElements
}

// SortedKeys returns the keys of m in ascending order.
func SortedKeys[K cmp.Ordered, T any](m map[K]T) []K {
	return slices.Sorted(maps.Keys(m))
}
