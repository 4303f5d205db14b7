// Package sizing provides overflow-safe conversions between payload sizes
// and stream offsets.
package sizing

import "math"

// ToInt64 converts a uint64 to int64, returning overflowErr if it doesn't fit.
func ToInt64(size uint64, overflowErr error) (int64, error) {
	if size > uint64(math.MaxInt64) {
		return 0, overflowErr
	}
	return int64(size), nil
}

// AddInt64 adds two non-negative offsets, returning (result, false) on overflow.
func AddInt64(a, b int64) (int64, bool) {
	if a < 0 || b < 0 || a > math.MaxInt64-b {
		return 0, false
	}
	return a + b, true
}

// Advance returns off moved forward by size bytes, or overflowErr if the
// result cannot be represented.
func Advance(off int64, size uint64, overflowErr error) (int64, error) {
	n, err := ToInt64(size, overflowErr)
	if err != nil {
		return 0, err
	}
	next, ok := AddInt64(off, n)
	if !ok {
		return 0, overflowErr
	}
	return next, nil
}
