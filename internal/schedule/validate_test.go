package schedule

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"pawplanner/internal/model"
)

func TestValidateWorkingDay(t *testing.T) {
	s := model.DaySchedule{
		IsWorking: true,
		WorkHours: model.WorkHours{tr("09:00", "12:00"), tr("13:00", "17:00")},
	}
	assert.Empty(t, Validate(s))
}

func TestValidateEmptyWorkHours(t *testing.T) {
	s := model.DaySchedule{IsWorking: true}
	reasons := Validate(s)
	assert.Len(t, reasons, 1)
	assert.Equal(t, ReasonEmptyWorkHours, reasons[0].Code)
	assert.Equal(t, -1, reasons[0].RangeIndex)
}

func TestValidateOverlap(t *testing.T) {
	s := model.DaySchedule{
		IsWorking: true,
		WorkHours: model.WorkHours{tr("09:00", "13:00"), tr("12:00", "17:00")},
	}
	reasons := Validate(s)
	assert.Len(t, reasons, 1)
	assert.Equal(t, ReasonOverlappingRanges, reasons[0].Code)
}

func TestValidateCollectsAllViolations(t *testing.T) {
	s := model.DaySchedule{
		IsWorking: true,
		WorkHours: model.WorkHours{
			tr("12:00", "09:00"), // inverted
			tr("10:00", "14:00"),
			tr("13:00", "17:00"), // overlaps previous
		},
	}
	reasons := Validate(s)

	var codes []ReasonCode
	for _, r := range reasons {
		codes = append(codes, r.Code)
	}
	assert.Contains(t, codes, ReasonNonChronologicalRange)
	assert.Contains(t, codes, ReasonOverlappingRanges)

	for _, r := range reasons {
		if r.Code == ReasonNonChronologicalRange {
			assert.Equal(t, 0, r.RangeIndex)
		}
	}
}

// A non-working day is always valid, regardless of leftover stale ranges.
func TestValidateNonWorkingDayTotality(t *testing.T) {
	cases := []model.DaySchedule{
		{IsWorking: false},
		{IsWorking: false, WorkHours: model.WorkHours{tr("13:00", "09:00")}},
		{IsWorking: false, WorkHours: model.WorkHours{tr("09:00", "13:00"), tr("12:00", "17:00")}},
	}
	for _, s := range cases {
		assert.Empty(t, Validate(s))
	}
}
