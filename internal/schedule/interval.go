// Package schedule holds the pure day-schedule rules: interval math,
// edit validation, date editability and day-off conflict detection.
// Nothing in this package touches the network or the clock except the
// editability gate, which reads wall-clock "now" once per call.
package schedule

import (
	"sort"

	"pawplanner/internal/model"
)

// Overlaps reports whether two ranges share any time. Half-open semantics:
// ranges that merely touch ("09:00-12:00" and "12:00-17:00") do not overlap.
func Overlaps(a, b model.TimeRange) bool {
	return a.Start < b.End && b.Start < a.End
}

// AnyOverlap reports whether any two ranges in the slice overlap.
// The input is copied and sorted by start; comparing adjacent pairs is
// sufficient because non-overlap is transitive once sorted.
func AnyOverlap(ranges []model.TimeRange) bool {
	if len(ranges) < 2 {
		return false
	}

	sorted := make([]model.TimeRange, len(ranges))
	copy(sorted, ranges)
	sort.Slice(sorted, func(i, j int) bool {
		return sorted[i].Start < sorted[j].Start
	})

	for i := 1; i < len(sorted); i++ {
		if sorted[i-1].End > sorted[i].Start {
			return true
		}
	}
	return false
}

// IsChronological reports whether the range ends strictly after it starts.
func IsChronological(r model.TimeRange) bool {
	return r.Start < r.End
}

// AllChronological reports whether every range in the slice is chronological.
func AllChronological(ranges []model.TimeRange) bool {
	for _, r := range ranges {
		if !IsChronological(r) {
			return false
		}
	}
	return true
}
