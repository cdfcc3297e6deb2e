package model

import (
	"bytes"
	"encoding/json"
	"strconv"
	"strings"
	"time"
)

// TimeRange is one contiguous work shift within a day.
// Start and End are zero-padded 24-hour "HH:MM" strings, so plain string
// comparison orders them correctly.
type TimeRange struct {
	Start string `json:"start"` // "09:00"
	End   string `json:"end"`   // "17:00"
}

// Minutes returns the range length in minutes.
// Malformed or inverted bounds count as zero.
func (r TimeRange) Minutes() int {
	start, okStart := parseMinuteOfDay(r.Start)
	end, okEnd := parseMinuteOfDay(r.End)
	if !okStart || !okEnd || end <= start {
		return 0
	}
	return end - start
}

func parseMinuteOfDay(s string) (int, bool) {
	parts := strings.SplitN(s, ":", 2)
	if len(parts) != 2 {
		return 0, false
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, false
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil {
		return 0, false
	}
	return hour*60 + minute, true
}

// WorkHours is a list of TimeRange. Older schedule records on the wire carry
// a single {start,end} object instead of a list; decoding accepts both and
// always normalizes to the list form.
type WorkHours []TimeRange

func (w *WorkHours) UnmarshalJSON(data []byte) error {
	trimmed := bytes.TrimSpace(data)
	if len(trimmed) > 0 && trimmed[0] == '{' {
		var single TimeRange
		if err := json.Unmarshal(trimmed, &single); err != nil {
			return err
		}
		*w = WorkHours{single}
		return nil
	}

	var list []TimeRange
	if err := json.Unmarshal(data, &list); err != nil {
		return err
	}
	*w = WorkHours(list)
	return nil
}

// DaySchedule is one employee's work plan for one calendar day.
type DaySchedule struct {
	ID         int64     `json:"id,omitempty"` // zero until first saved
	EmployeeID int64     `json:"employeeId,omitempty"`
	Date       time.Time `json:"date"`
	IsWorking  bool      `json:"isWorking"`
	WorkHours  WorkHours `json:"workHours"`
	Note       string    `json:"note,omitempty"`

	// IsDefault marks a synthesized placeholder with no persisted record
	// behind it, as opposed to a user-saved entry.
	IsDefault bool `json:"isDefault"`
}

// Persisted reports whether the schedule has a server-side record.
func (s DaySchedule) Persisted() bool {
	return s.ID != 0
}

// DefaultDaySchedule builds the virtual placeholder shown for a date that has
// no saved record yet.
func DefaultDaySchedule(employeeID int64, date time.Time, hours TimeRange) DaySchedule {
	return DaySchedule{
		EmployeeID: employeeID,
		Date:       StartOfDay(date),
		IsWorking:  true,
		WorkHours:  WorkHours{hours},
		IsDefault:  true,
	}
}

// Appointment is a booking owned by the booking subsystem. The schedule core
// only reads appointments to detect conflicts with day-off edits.
type Appointment struct {
	ID            int64     `json:"id"`
	ScheduledDate time.Time `json:"scheduledDate"`
	TimeSlot      TimeRange `json:"scheduledTimeSlot"`
	PetID         int64     `json:"petId"`
	CustomerID    int64     `json:"customerId"`
	Status        string    `json:"status"`
}

// ScheduleWindow is one employee's cached month of schedules and appointments.
type ScheduleWindow struct {
	EmployeeID   int64         `json:"employeeId"`
	Start        time.Time     `json:"start"`
	End          time.Time     `json:"end"`
	Schedules    []DaySchedule `json:"schedules"`
	Appointments []Appointment `json:"appointments"`
}

// StartOfDay truncates t to local midnight.
func StartOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return a.Year() == b.Year() && a.Month() == b.Month() && a.Day() == b.Day()
}

// MonthBounds returns the first and last day of the month containing anchor.
func MonthBounds(anchor time.Time) (time.Time, time.Time) {
	start := time.Date(anchor.Year(), anchor.Month(), 1, 0, 0, 0, 0, anchor.Location())
	end := start.AddDate(0, 1, -1)
	return start, end
}

// DaysInMonth returns the number of calendar days in the month containing t.
func DaysInMonth(t time.Time) int {
	start, end := MonthBounds(t)
	return end.Day() - start.Day() + 1
}
