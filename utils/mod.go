package utils

// FindIndex returns the index of the first element matching pred, or -1.
func FindIndex[T any](slice []T, pred func(T) bool) int {
	for i, v := range slice {
		if pred(v) {
			return i
		}
	}
	return -1
}
