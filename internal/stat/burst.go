package stat

import (
	"sort"
	"time"
)

// DefaultBurstWindow is the sliding window used for path burst scores.
const DefaultBurstWindow = 7 * 24 * time.Hour

// BurstScore returns the share of commits that fall into the densest window
// of the given length. A single commit is maximally bursty. The input is
// not modified.
func BurstScore(commitTimes []time.Time, window time.Duration) float64 {
	switch len(commitTimes) {
	case 0:
		return 0.0
	case 1:
		return 1.0
	}

	times := append([]time.Time(nil), commitTimes...)
	sort.Slice(times, func(i, j int) bool {
		return times[i].Before(times[j])
	})

	maxInWindow := 1
	left := 0
	for right := range times {
		for times[right].Sub(times[left]) > window {
			left++
		}
		if n := right - left + 1; n > maxInWindow {
			maxInWindow = n
		}
	}
	return float64(maxInWindow) / float64(len(times))
}
