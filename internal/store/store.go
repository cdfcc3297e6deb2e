// Package store caches one employee's month window of schedules and
// appointments and mediates every read and write with the remote schedule
// service. The cached window is the only shared mutable state in the core;
// it changes in exactly two ways: a fresh window is fetched, or the window
// is invalidated after a write.
package store

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/rs/zerolog"

	"pawplanner/internal/events"
	"pawplanner/internal/metrics"
	"pawplanner/internal/model"
)

// ErrStaleWindow is returned when a fetch response arrives after a newer
// window has been requested. The response is discarded, never cached.
var ErrStaleWindow = errors.New("stale window response discarded")

// RemoteAPI is the slice of the schedule service client the store needs.
type RemoteAPI interface {
	FetchRange(ctx context.Context, employeeID int64, start, end time.Time) (*model.ScheduleWindow, error)
	SaveSchedule(ctx context.Context, employeeID int64, s model.DaySchedule) (model.DaySchedule, error)
	DeleteSchedule(ctx context.Context, employeeID, scheduleID int64) error
}

type windowKey struct {
	employeeID int64
	start      time.Time
	end        time.Time
}

// Store is the month-window cache.
type Store struct {
	api    RemoteAPI
	bus    *events.Bus
	logger *zerolog.Logger

	mu     sync.Mutex
	window *model.ScheduleWindow
	key    windowKey
	gen    uint64 // bumped per LoadWindow request; stale responses lose the race
}

// New creates a store backed by the given remote API. The event bus is
// optional.
func New(api RemoteAPI, bus *events.Bus, logger *zerolog.Logger) *Store {
	return &Store{api: api, bus: bus, logger: logger}
}

// LoadWindow fetches the month containing anchor for one employee and commits
// it to the cache. If another LoadWindow was issued while this one was in
// flight, the late response is discarded and ErrStaleWindow returned.
func (s *Store) LoadWindow(ctx context.Context, employeeID int64, anchor time.Time) (*model.ScheduleWindow, error) {
	start, end := model.MonthBounds(anchor)
	key := windowKey{employeeID: employeeID, start: start, end: end}

	s.mu.Lock()
	s.gen++
	myGen := s.gen
	s.key = key
	s.mu.Unlock()

	window, err := s.api.FetchRange(ctx, employeeID, start, end)

	s.mu.Lock()
	defer s.mu.Unlock()

	if err != nil {
		// Cache keeps its last-known-good state.
		metrics.IncWindowLoaded("error")
		return nil, fmt.Errorf("fetch schedule range: %w", err)
	}
	if s.gen != myGen {
		metrics.IncStaleWindowDiscarded()
		if s.logger != nil {
			s.logger.Debug().Int64("employee_id", employeeID).
				Time("start", start).Msg("discarded stale window response")
		}
		return nil, ErrStaleWindow
	}

	s.window = window
	metrics.IncWindowLoaded("ok")
	if s.bus != nil {
		s.bus.Publish(events.Event{Type: events.TypeWindowRefreshed, EmployeeID: employeeID, Date: start})
	}
	return window, nil
}

// Window returns the cached window, or nil when nothing is loaded.
func (s *Store) Window() *model.ScheduleWindow {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.window
}

// ScheduleForDate returns the cached schedule matching the calendar date, or
// nil when no record exists. Callers synthesize the default view themselves.
func (s *Store) ScheduleForDate(date time.Time) *model.DaySchedule {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.window == nil {
		return nil
	}
	for i := range s.window.Schedules {
		if model.SameDay(s.window.Schedules[i].Date, date) {
			sched := s.window.Schedules[i]
			return &sched
		}
	}
	return nil
}

// AppointmentsOn returns cached appointments falling on the calendar date.
func (s *Store) AppointmentsOn(date time.Time) []model.Appointment {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.window == nil {
		return nil
	}
	var out []model.Appointment
	for _, a := range s.window.Appointments {
		if model.SameDay(a.ScheduledDate, date) {
			out = append(out, a)
		}
	}
	return out
}

// Save upserts one day's schedule via the remote service, then refetches the
// whole window. No partial merge: correctness over latency.
func (s *Store) Save(ctx context.Context, employeeID int64, sched model.DaySchedule) error {
	if _, err := s.api.SaveSchedule(ctx, employeeID, sched); err != nil {
		return fmt.Errorf("save schedule: %w", err)
	}
	if s.bus != nil {
		s.bus.Publish(events.Event{Type: events.TypeScheduleSaved, EmployeeID: employeeID, Date: sched.Date})
	}
	return s.refresh(ctx, employeeID, sched.Date)
}

// Delete removes a persisted schedule record, then refetches the window.
func (s *Store) Delete(ctx context.Context, employeeID, scheduleID int64, date time.Time) error {
	if err := s.api.DeleteSchedule(ctx, employeeID, scheduleID); err != nil {
		return fmt.Errorf("delete schedule: %w", err)
	}
	metrics.IncScheduleDeleted()
	if s.bus != nil {
		s.bus.Publish(events.Event{Type: events.TypeScheduleDeleted, EmployeeID: employeeID, Date: date})
	}
	return s.refresh(ctx, employeeID, date)
}

// refresh reloads the window after a successful write. The write itself has
// already succeeded; a refetch failure is reported but leaves the previous
// window in place.
func (s *Store) refresh(ctx context.Context, employeeID int64, anchor time.Time) error {
	if _, err := s.LoadWindow(ctx, employeeID, anchor); err != nil && !errors.Is(err, ErrStaleWindow) {
		return fmt.Errorf("refresh window after write: %w", err)
	}
	return nil
}
