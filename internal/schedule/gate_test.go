package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestCanEditBoundary(t *testing.T) {
	now := time.Now()

	assert.True(t, CanEdit(now), "today must be editable")
	assert.True(t, CanEdit(now.AddDate(0, 0, 1)), "tomorrow must be editable")
	assert.False(t, CanEdit(now.AddDate(0, 0, -1)), "yesterday must be read-only")
}

func TestCanEditIgnoresTimeOfDay(t *testing.T) {
	// Late tonight is still "today" even though the instant is in the future
	// of some same-day comparisons; the gate compares calendar days only.
	endOfToday := time.Date(time.Now().Year(), time.Now().Month(), time.Now().Day(), 23, 59, 0, 0, time.Local)
	assert.True(t, CanEdit(endOfToday))

	lateYesterday := endOfToday.AddDate(0, 0, -1)
	assert.False(t, CanEdit(lateYesterday))
}

func TestIsPastNegation(t *testing.T) {
	dates := []time.Time{
		time.Now().AddDate(0, 0, -10),
		time.Now(),
		time.Now().AddDate(0, 0, 10),
	}
	for _, d := range dates {
		assert.Equal(t, !IsFutureOrToday(d), IsPast(d))
	}
}

func TestPastDateMessage(t *testing.T) {
	assert.Equal(t, "cannot edit a past date", ErrPastDate.Error())
}
