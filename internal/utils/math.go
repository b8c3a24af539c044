package utils

import "math"

// RoundHalfUp rounds to the nearest integer, halves rounding towards positive infinity.
// This differs from math.Round for negative halves (-2.5 -> -2).
func RoundHalfUp(v float64) int {
	return int(math.Floor(v + 0.5))
}

// CeilInt rounds up to the nearest integer
func CeilInt(v float64) int {
	return int(math.Ceil(v))
}

// ClampInt bounds value to [lo, hi]
func ClampInt(value, lo, hi int) int {
	if value < lo {
		return lo
	}
	if value > hi {
		return hi
	}
	return value
}

// DiminishingFactor returns the efficiency left after count uses: it falls by
// 1% every step uses and never drops below floor.
// Integer division on count/step is intentional, the factor moves in whole steps.
func DiminishingFactor(count, step int, floor float64) float64 {
	if count < 0 {
		count = 0
	}
	factor := float64(100-count/step) / 100
	return math.Max(floor, factor)
}
