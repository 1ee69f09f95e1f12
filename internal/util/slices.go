package util

// FindFirst returns the first element of slice that satisfies predicate.
// The second result is false if no element does.
func FindFirst[T any](slice []T, predicate func(T) bool) (T, bool) {
	for _, v := range slice {
		if predicate(v) {
			return v, true
		}
	}
	var zero T
	return zero, false
}

// Map applies f to every element of slice.
func Map[T, U any](slice []T, f func(T) U) []U {
	out := make([]U, len(slice))
	for i, v := range slice {
		out[i] = f(v)
	}
	return out
}
