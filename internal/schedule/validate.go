package schedule

import (
	"fmt"

	"pawplanner/internal/model"
)

// ReasonCode identifies one way a day-schedule edit can be invalid.
type ReasonCode string

const (
	ReasonEmptyWorkHours        ReasonCode = "empty_work_hours"
	ReasonNonChronologicalRange ReasonCode = "non_chronological_range"
	ReasonOverlappingRanges     ReasonCode = "overlapping_ranges"
)

// ValidationReason is one collected violation. RangeIndex is the offending
// range position for ReasonNonChronologicalRange and -1 otherwise.
type ValidationReason struct {
	Code       ReasonCode `json:"code"`
	RangeIndex int        `json:"rangeIndex"`
}

func (r ValidationReason) String() string {
	if r.Code == ReasonNonChronologicalRange {
		return fmt.Sprintf("%s[%d]", r.Code, r.RangeIndex)
	}
	return string(r.Code)
}

// Validate checks a candidate day-schedule edit and returns every violation
// at once so the caller can surface all of them together. A nil result means
// the edit is committable.
//
// A non-working day is always valid: leftover work hours from a prior edit
// are not checked once the day is marked off.
func Validate(s model.DaySchedule) []ValidationReason {
	if !s.IsWorking {
		return nil
	}

	var reasons []ValidationReason

	if len(s.WorkHours) == 0 {
		reasons = append(reasons, ValidationReason{Code: ReasonEmptyWorkHours, RangeIndex: -1})
	}

	for i, r := range s.WorkHours {
		if !IsChronological(r) {
			reasons = append(reasons, ValidationReason{Code: ReasonNonChronologicalRange, RangeIndex: i})
		}
	}

	if AnyOverlap(s.WorkHours) {
		reasons = append(reasons, ValidationReason{Code: ReasonOverlappingRanges, RangeIndex: -1})
	}

	return reasons
}
