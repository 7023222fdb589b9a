package crypto

import (
	"fmt"
	"math"
)

// safeUint64ToInt64 converts a persisted expiry back to unix seconds,
// rejecting values that would wrap negative.
//
// CWE-190: Integer Overflow or Wraparound
func safeUint64ToInt64(val uint64) (int64, error) {
	if val > math.MaxInt64 {
		return 0, fmt.Errorf("uint64 value exceeds int64 max: %d (max: %d)", val, math.MaxInt64)
	}
	return int64(val), nil
}

// safeInt64ToUint64 converts an expiry for persistence, rejecting
// timestamps before the epoch.
//
// CWE-190: Integer Overflow or Wraparound
func safeInt64ToUint64(val int64) (uint64, error) {
	if val < 0 {
		return 0, fmt.Errorf("cannot convert negative int64 to uint64: %d", val)
	}
	return uint64(val), nil
}
