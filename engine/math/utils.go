// Package math holds small numeric helpers shared by the engine packages.
package math

import "golang.org/x/exp/constraints"

// Clamp limits v to [low, high].
func Clamp[T constraints.Ordered](v, low, high T) T {
	if v < low {
		return low
	}
	if v > high {
		return high
	}
	return v
}

// Wrap maps v into [0, n) treating the range as circular. n must be positive.
func Wrap[T constraints.Integer](v, n T) T {
	r := v % n
	if r < 0 {
		r += n
	}
	return r
}
