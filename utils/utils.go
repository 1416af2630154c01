// Package utils holds small generic helpers and the level-gated logger
// used by the recovery package, in the spirit of the teacher's own
// allocation-free utils package. The congestion package does not use it.
package utils

import "time"

// Number is any ordered numeric type these helpers operate over.
type Number interface {
	~int | ~int32 | ~int64 | ~float32 | ~float64
}

// Max returns the larger of two ordered values.
func Max[T Number](a, b T) T {
	if a < b {
		return b
	}
	return a
}

// Min returns the smaller of two ordered values.
func Min[T Number](a, b T) T {
	if a < b {
		return a
	}
	return b
}

// MaxDuration returns the larger of two durations.
func MaxDuration(a, b time.Duration) time.Duration {
	if a > b {
		return a
	}
	return b
}

// MinDuration returns the smaller of two durations.
func MinDuration(a, b time.Duration) time.Duration {
	if a < b {
		return a
	}
	return b
}

// AbsDuration returns the absolute value of a time.Duration.
func AbsDuration(d time.Duration) time.Duration {
	if d >= 0 {
		return d
	}
	return -d
}

// SatSub returns now-d, capped at now: a negative d never yields a time
// after now. The result is not floored at the zero time.
func SatSub(now time.Time, d time.Duration) time.Time {
	t := now.Add(-d)
	if t.After(now) {
		return now
	}
	return t
}
