package store

import (
	"pawplanner/internal/model"
)

// MonthStats are read-only aggregates derived from the cached window on
// demand; they are never stored.
type MonthStats struct {
	DaysInMonth    int     `json:"daysInMonth"`
	WorkingDays    int     `json:"workingDays"`
	DaysOff        int     `json:"daysOff"`
	ScheduledHours float64 `json:"scheduledHours"`
	Availability   float64 `json:"availability"` // workingDays / daysInMonth
}

// Stats computes aggregates over the cached window. Zero stats when nothing
// is loaded. Only persisted records count; dates without a record are neither
// working days nor days off.
func (s *Store) Stats() MonthStats {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.window == nil {
		return MonthStats{}
	}

	stats := MonthStats{DaysInMonth: model.DaysInMonth(s.window.Start)}

	var minutes int
	for _, sched := range s.window.Schedules {
		if !sched.IsWorking {
			stats.DaysOff++
			continue
		}
		stats.WorkingDays++
		for _, r := range sched.WorkHours {
			minutes += r.Minutes()
		}
	}
	stats.ScheduledHours = float64(minutes) / 60.0
	if stats.DaysInMonth > 0 {
		stats.Availability = float64(stats.WorkingDays) / float64(stats.DaysInMonth)
	}
	return stats
}
