// Package sizing provides safe size arithmetic and conversions to prevent overflow.
package sizing

import (
	"errors"
	"math"
)

// ErrOverflow is returned when a size does not fit the target integer type.
var ErrOverflow = errors.New("size overflow")

// ToInt converts a uint64 to int, returning ErrOverflow if it doesn't fit.
func ToInt(size uint64) (int, error) {
	if size > uint64(math.MaxInt) {
		return 0, ErrOverflow
	}
	return int(size), nil
}

// ToInt64 converts a uint64 to int64, returning ErrOverflow if it doesn't fit.
func ToInt64(size uint64) (int64, error) {
	if size > uint64(math.MaxInt64) {
		return 0, ErrOverflow
	}
	return int64(size), nil
}

// ToUint32 converts an int64 to uint32, returning ErrOverflow if it is
// negative or doesn't fit.
func ToUint32(size int64) (uint32, error) {
	if size < 0 || size > math.MaxUint32 {
		return 0, ErrOverflow
	}
	return uint32(size), nil
}

// AddUint64 adds two uint64 values, returning (result, false) on overflow.
func AddUint64(a, b uint64) (uint64, bool) {
	sum := a + b
	if sum < a {
		return 0, false
	}
	return sum, true
}
