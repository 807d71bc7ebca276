package common

// Coalesce returns the first non-zero value from the provided values, or the zero value if all are zero.
//
// Parameters:
//   - values: a variadic list of values to check for non-zero status
//
// Returns:
//   - T: the first non-zero value from the input, or the zero value if all are zero
func Coalesce[T comparable](values ...T) T {
	var zero T
	for _, v := range values {
		if v != zero {
			return v
		}
	}
	return zero
}

// CloneFloats returns a copy of s, or nil for an empty input.
func CloneFloats(s []float32) []float32 {
	if len(s) == 0 {
		return nil
	}
	out := make([]float32, len(s))
	copy(out, s)
	return out
}
