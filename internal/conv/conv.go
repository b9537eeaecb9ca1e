// Package conv provides safe integer conversion helpers for the edge
// cache and its DFA front ends.
//
// These functions perform bounds checking before narrowing integer
// conversions to prevent silent overflow. They panic on overflow since
// this indicates a programming error (e.g., a table capacity or state
// count outside internal limits).
package conv

import "math"

// IntToInt32 safely converts an int to int32.
// Panics if n < math.MinInt32 or n > math.MaxInt32.
//
//go:inline
func IntToInt32(n int) int32 {
	if n < math.MinInt32 || n > math.MaxInt32 {
		panic("integer overflow: int value out of int32 range")
	}
	return int32(n)
}

// IntToUint32 safely converts an int to uint32.
// Panics if n < 0 or n > math.MaxUint32.
//
//go:inline
func IntToUint32(n int) uint32 {
	// Use uint for comparison to avoid overflow on 32-bit platforms
	// where int cannot represent math.MaxUint32
	if n < 0 || uint(n) > math.MaxUint32 {
		panic("integer overflow: int value out of uint32 range")
	}
	return uint32(n)
}
