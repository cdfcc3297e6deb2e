package schedule

import (
	"errors"
	"time"

	"pawplanner/internal/model"
)

// PastDateMessage is the fixed user-facing reason shown when an edit to a
// past date is refused.
const PastDateMessage = "cannot edit a past date"

// ErrPastDate is returned when a mutation targets a date before today.
var ErrPastDate = errors.New(PastDateMessage)

// IsFutureOrToday reports whether the date's calendar day is today or later.
// Both sides are truncated to local midnight; "now" is read on every call,
// so the answer can flip at the midnight boundary between calls.
func IsFutureOrToday(date time.Time) bool {
	today := model.StartOfDay(time.Now())
	return !model.StartOfDay(date).Before(today)
}

// IsPast reports whether the date's calendar day is before today.
func IsPast(date time.Time) bool {
	return !IsFutureOrToday(date)
}

// CanEdit reports whether the date may be edited at all, independent of
// schedule content.
func CanEdit(date time.Time) bool {
	return IsFutureOrToday(date)
}
