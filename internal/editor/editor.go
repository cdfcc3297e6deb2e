// Package editor owns the per-day edit session: it orchestrates the
// editability gate, the validator, the conflict check and the store for one
// date at a time. Only one day may be open for editing; the single-session
// rule is what keeps two dates from racing each other, not locking.
package editor

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"pawplanner/internal/metrics"
	"pawplanner/internal/model"
	"pawplanner/internal/schedule"
)

var (
	// ErrSessionOpen is returned when OpenDay is called while another day's
	// edit session is still open.
	ErrSessionOpen = errors.New("another day is already open for editing")

	// ErrNoSession is returned by session operations when no day is open.
	ErrNoSession = errors.New("no edit session open")

	// ErrNotConfirmable is returned by Confirm/Decline outside the
	// awaiting-confirmation state.
	ErrNotConfirmable = errors.New("session is not awaiting confirmation")

	// ErrNotPersisted is returned when deleting a day that has no saved
	// record behind it.
	ErrNotPersisted = errors.New("schedule has no persisted record")
)

// Outcome tells the caller what Submit decided.
type Outcome string

const (
	OutcomeSaved             Outcome = "saved"
	OutcomeInvalid           Outcome = "invalid"
	OutcomeNeedsConfirmation Outcome = "needs_confirmation"
)

// ScheduleStore is the slice of the store the editor needs.
type ScheduleStore interface {
	ScheduleForDate(date time.Time) *model.DaySchedule
	AppointmentsOn(date time.Time) []model.Appointment
	Save(ctx context.Context, employeeID int64, sched model.DaySchedule) error
	Delete(ctx context.Context, employeeID, scheduleID int64, date time.Time) error
}

// Session is one open per-day edit. The buffer is mutated freely via the
// editor's setters and only reaches the store through Submit/Confirm.
type Session struct {
	ID         string
	EmployeeID int64
	Date       time.Time
	State      State
	Buffer     model.DaySchedule

	// Reasons holds the violations from the last failed validation so the
	// caller can display every error at once.
	Reasons []schedule.ValidationReason
}

// Editor runs edit sessions against a store.
type Editor struct {
	store        ScheduleStore
	fsm          *FSM
	defaultHours model.TimeRange
	logger       *zerolog.Logger

	mu      sync.Mutex
	session *Session
}

// New creates an editor. defaultHours seeds the virtual placeholder for
// dates with no saved record.
func New(store ScheduleStore, defaultHours model.TimeRange, logger *zerolog.Logger) *Editor {
	return &Editor{
		store:        store,
		fsm:          NewFSM(),
		defaultHours: defaultHours,
		logger:       logger,
	}
}

// DefaultHours returns the configured default work hours used for virtual
// placeholder days.
func (e *Editor) DefaultHours() model.TimeRange {
	return e.defaultHours
}

// OpenDay starts an edit session for the date, seeding the buffer from the
// cached schedule or from the default virtual entry. Past dates are refused
// before any state is touched.
func (e *Editor) OpenDay(employeeID int64, date time.Time) (*Session, error) {
	if schedule.IsPast(date) {
		return nil, schedule.ErrPastDate
	}

	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session != nil {
		return nil, ErrSessionOpen
	}

	var buffer model.DaySchedule
	if existing := e.store.ScheduleForDate(date); existing != nil {
		buffer = *existing
	} else {
		buffer = model.DefaultDaySchedule(employeeID, date, e.defaultHours)
	}

	e.session = &Session{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Date:       model.StartOfDay(date),
		State:      StateEditing,
		Buffer:     buffer,
	}
	return e.snapshotLocked(), nil
}

// Session returns a copy of the open session, or nil.
func (e *Editor) Session() *Session {
	e.mu.Lock()
	defer e.mu.Unlock()
	return e.snapshotLocked()
}

func (e *Editor) snapshotLocked() *Session {
	if e.session == nil {
		return nil
	}
	snap := *e.session
	snap.Buffer.WorkHours = append(model.WorkHours(nil), e.session.Buffer.WorkHours...)
	snap.Reasons = append([]schedule.ValidationReason(nil), e.session.Reasons...)
	return &snap
}

// SetWorking flips the working flag on the buffer.
func (e *Editor) SetWorking(isWorking bool) error {
	return e.updateBuffer(func(b *model.DaySchedule) {
		b.IsWorking = isWorking
	})
}

// SetWorkHours replaces the buffer's work-hour ranges.
func (e *Editor) SetWorkHours(ranges []model.TimeRange) error {
	return e.updateBuffer(func(b *model.DaySchedule) {
		b.WorkHours = append(model.WorkHours(nil), ranges...)
	})
}

// AddRange appends one work-hour range to the buffer.
func (e *Editor) AddRange(r model.TimeRange) error {
	return e.updateBuffer(func(b *model.DaySchedule) {
		b.WorkHours = append(b.WorkHours, r)
	})
}

// SetNote updates the buffer's free-text note.
func (e *Editor) SetNote(note string) error {
	return e.updateBuffer(func(b *model.DaySchedule) {
		b.Note = note
	})
}

func (e *Editor) updateBuffer(mutate func(*model.DaySchedule)) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return ErrNoSession
	}
	if e.session.State != StateEditing {
		return fmt.Errorf("cannot edit in state %s", e.session.State)
	}
	mutate(&e.session.Buffer)
	e.session.Buffer.IsDefault = false
	return nil
}

// Preview validates the current buffer without advancing the state machine,
// for live feedback while the user edits.
func (e *Editor) Preview() []schedule.ValidationReason {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return nil
	}
	return schedule.Validate(e.session.Buffer)
}

// Submit runs the edit flow: gate, validate, conflict check, save. Local
// refusals (past date, validation) never reach the network. A day-off edit
// that collides with existing appointments parks the session in
// awaiting-confirmation until Confirm or Decline.
func (e *Editor) Submit(ctx context.Context) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return "", ErrNoSession
	}
	if schedule.IsPast(e.session.Date) {
		// Refused locally; the session stays editable and no call is made.
		return "", schedule.ErrPastDate
	}
	if !e.fsm.Transition(e.session, StateValidating) {
		return "", fmt.Errorf("cannot submit in state %s", e.session.State)
	}

	if reasons := schedule.Validate(e.session.Buffer); len(reasons) > 0 {
		e.session.Reasons = reasons
		e.fsm.Transition(e.session, StateValidationFailed)
		e.fsm.Transition(e.session, StateEditing)
		for _, r := range reasons {
			metrics.IncValidationFailed(string(r.Code))
		}
		return OutcomeInvalid, nil
	}
	e.session.Reasons = nil

	appointments := e.store.AppointmentsOn(e.session.Date)
	if schedule.HasConflict(e.session.Date, appointments, e.session.Buffer.IsWorking) {
		e.fsm.Transition(e.session, StateAwaitingConfirmation)
		return OutcomeNeedsConfirmation, nil
	}

	e.fsm.Transition(e.session, StateReady)
	return e.saveLocked(ctx)
}

// Confirm proceeds with the save after a day-off conflict was surfaced.
func (e *Editor) Confirm(ctx context.Context) (Outcome, error) {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return "", ErrNoSession
	}
	if e.session.State != StateAwaitingConfirmation {
		return "", ErrNotConfirmable
	}
	metrics.IncConflictDecision("confirmed")
	return e.saveLocked(ctx)
}

// Decline backs out of the confirmation step; the buffer stays editable.
func (e *Editor) Decline() error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return ErrNoSession
	}
	if e.session.State != StateAwaitingConfirmation {
		return ErrNotConfirmable
	}
	e.fsm.Transition(e.session, StateEditing)
	metrics.IncConflictDecision("declined")
	return nil
}

// Cancel discards the open session and its buffer.
func (e *Editor) Cancel() {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.session = nil
}

// DeleteDay removes the persisted record for the open day, reverting the date
// to its default virtual entry, and closes the session.
func (e *Editor) DeleteDay(ctx context.Context) error {
	e.mu.Lock()
	defer e.mu.Unlock()

	if e.session == nil {
		return ErrNoSession
	}
	if !e.session.Buffer.Persisted() {
		return ErrNotPersisted
	}
	if schedule.IsPast(e.session.Date) {
		return schedule.ErrPastDate
	}

	err := e.store.Delete(ctx, e.session.EmployeeID, e.session.Buffer.ID, e.session.Date)
	if err != nil {
		return err
	}
	e.session = nil
	return nil
}

// saveLocked persists the buffer. On failure the session returns to editing
// with the buffer retained so the user can retry without re-entering data.
func (e *Editor) saveLocked(ctx context.Context) (Outcome, error) {
	e.fsm.Transition(e.session, StateSaving)

	sched := e.session.Buffer
	if !sched.IsWorking {
		// Off days carry no ranges; leftover hours from a prior edit are
		// cleared rather than persisted.
		sched.WorkHours = nil
	}

	if err := e.store.Save(ctx, e.session.EmployeeID, sched); err != nil {
		e.fsm.Transition(e.session, StateSaveFailed)
		e.fsm.Transition(e.session, StateEditing)
		metrics.IncScheduleSaved("error")
		if e.logger != nil {
			e.logger.Error().Err(err).
				Int64("employee_id", e.session.EmployeeID).
				Time("date", e.session.Date).
				Msg("schedule save failed")
		}
		return "", err
	}

	e.fsm.Transition(e.session, StateSaved)
	metrics.IncScheduleSaved("ok")
	e.session = nil
	return OutcomeSaved, nil
}
