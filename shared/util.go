package shared

import "math"

// Uint64MulOverflow reports whether a*b overflows the uint64 range.
func Uint64MulOverflow(a, b uint64) bool {
	if a == 0 {
		return false
	}
	return b > math.MaxUint64/a
}
