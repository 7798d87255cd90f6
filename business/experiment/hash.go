package experiment

import "math"

// bucketHash is the polynomial rolling hash used for deterministic
// bucketing: hash = hash*31 + charCode with 32-bit wraparound, then the
// absolute value. Assignments must stay stable across processes, so the
// exact arithmetic matters more than hash quality.
func bucketHash(key string) int {
	var h int32
	for _, b := range []byte(key) {
		h = h*31 + int32(b)
	}
	if h == math.MinInt32 {
		return 0
	}
	if h < 0 {
		h = -h
	}
	return int(h)
}
