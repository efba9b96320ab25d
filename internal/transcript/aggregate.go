package transcript

import (
	"math"
	"sort"
	"strings"
)

// DefaultWindowSeconds is the bucket width used when none is configured.
const DefaultWindowSeconds = 30

// Aggregate groups segments into fixed windows keyed by
// floor(startSeconds / windowSeconds). Only populated windows are returned,
// in ascending order; gaps are not backfilled. Input order only matters for
// the order of texts inside a window.
func Aggregate(segments []CaptionSegment, windowSeconds int) []TimeInterval {
	if windowSeconds <= 0 {
		windowSeconds = DefaultWindowSeconds
	}

	buckets := make(map[int64][]string)
	for _, seg := range segments {
		startSeconds := float64(seg.StartMs) / 1000
		idx := int64(math.Floor(startSeconds / float64(windowSeconds)))
		buckets[idx] = append(buckets[idx], seg.Text)
	}

	keys := make([]int64, 0, len(buckets))
	for k := range buckets {
		keys = append(keys, k)
	}
	sort.Slice(keys, func(i, j int) bool { return keys[i] < keys[j] })

	intervals := make([]TimeInterval, 0, len(keys))
	for _, k := range keys {
		start := int(k) * windowSeconds
		intervals = append(intervals, TimeInterval{
			StartTime: start,
			EndTime:   start + windowSeconds,
			Text:      collapseWhitespace(strings.Join(buckets[k], " ")),
		})
	}
	return intervals
}

func collapseWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
