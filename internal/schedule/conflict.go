package schedule

import (
	"time"

	"pawplanner/internal/model"
)

// HasConflict reports whether marking the given date as non-working would
// clash with existing appointments. Match is by calendar date, not by
// timestamp equality. A working-day edit never conflicts.
func HasConflict(date time.Time, appointments []model.Appointment, proposedIsWorking bool) bool {
	if proposedIsWorking {
		return false
	}
	for _, a := range appointments {
		if model.SameDay(a.ScheduledDate, date) {
			return true
		}
	}
	return false
}
