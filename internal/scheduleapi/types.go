package scheduleapi

import (
	"fmt"
	"time"

	"pawplanner/internal/model"
)

// rawDaySchedule is the wire shape of a schedule record. WorkHours accepts
// both the list form and the legacy single-object form.
type rawDaySchedule struct {
	ID        int64           `json:"id,omitempty"`
	Date      string          `json:"date"` // "2025-06-10"
	IsWorking bool            `json:"isWorking"`
	WorkHours model.WorkHours `json:"workHours"`
	Note      string          `json:"note,omitempty"`
}

func (r rawDaySchedule) toModel(employeeID int64) (model.DaySchedule, error) {
	date, err := time.ParseInLocation(wireDate, r.Date, time.Local)
	if err != nil {
		return model.DaySchedule{}, fmt.Errorf("parse date %q: %w", r.Date, err)
	}
	return model.DaySchedule{
		ID:         r.ID,
		EmployeeID: employeeID,
		Date:       date,
		IsWorking:  r.IsWorking,
		WorkHours:  r.WorkHours,
		Note:       r.Note,
	}, nil
}

func fromModel(s model.DaySchedule) rawDaySchedule {
	hours := s.WorkHours
	if hours == nil {
		hours = model.WorkHours{} // always the list form on the wire
	}
	return rawDaySchedule{
		ID:        s.ID,
		Date:      s.Date.Format(wireDate),
		IsWorking: s.IsWorking,
		WorkHours: hours,
		Note:      s.Note,
	}
}

type rawAppointment struct {
	ID                int64           `json:"id"`
	ScheduledDate     string          `json:"scheduledDate"`
	ScheduledTimeSlot model.TimeRange `json:"scheduledTimeSlot"`
	PetID             int64           `json:"petId"`
	CustomerID        int64           `json:"customerId"`
	Status            string          `json:"status"`
}

func (r rawAppointment) toModel() (model.Appointment, error) {
	date, err := time.ParseInLocation(wireDate, r.ScheduledDate, time.Local)
	if err != nil {
		return model.Appointment{}, fmt.Errorf("parse date %q: %w", r.ScheduledDate, err)
	}
	return model.Appointment{
		ID:            r.ID,
		ScheduledDate: date,
		TimeSlot:      r.ScheduledTimeSlot,
		PetID:         r.PetID,
		CustomerID:    r.CustomerID,
		Status:        r.Status,
	}, nil
}
