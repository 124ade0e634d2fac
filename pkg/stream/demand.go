package stream

import (
	"math"
	"sync/atomic"
)

// Unbounded is the demand sentinel for "effectively infinite". A demand
// counter that reaches Unbounded is never decremented and never grows.
const Unbounded int64 = math.MaxInt64

// ValidRequest reports whether n is a legal demand grant.
func ValidRequest(n int64) bool {
	return n > 0
}

// AddCap atomically adds n to the demand counter at addr, saturating at
// Unbounded instead of wrapping. It returns the value held before the add.
// n must be positive; callers validate with ValidRequest first.
func AddCap(addr *atomic.Int64, n int64) int64 {
	for {
		r := addr.Load()
		if r == Unbounded {
			return r
		}
		u := r + n
		if u < 0 {
			// Signed overflow: clamp to the sentinel.
			u = Unbounded
		}
		if addr.CompareAndSwap(r, u) {
			return r
		}
	}
}
