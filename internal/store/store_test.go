package store

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pawplanner/internal/model"
)

// fakeAPI implements RemoteAPI over an in-memory record set.
type fakeAPI struct {
	mu        sync.Mutex
	schedules map[int64]model.DaySchedule // by schedule ID
	nextID    int64

	fetchErr  error
	saveErr   error
	deleteErr error

	fetchCalls int
	saveCalls  int

	// blockFetch, when set for a month key "2006-01", makes FetchRange wait
	// until the channel is closed. started signals fetch entry.
	blockFetch map[string]chan struct{}
	started    chan string
}

func newFakeAPI() *fakeAPI {
	return &fakeAPI{
		schedules: make(map[int64]model.DaySchedule),
		nextID:    1,
	}
}

func (f *fakeAPI) seed(s model.DaySchedule) model.DaySchedule {
	f.mu.Lock()
	defer f.mu.Unlock()
	if s.ID == 0 {
		s.ID = f.nextID
		f.nextID++
	}
	f.schedules[s.ID] = s
	return s
}

func (f *fakeAPI) FetchRange(ctx context.Context, employeeID int64, start, end time.Time) (*model.ScheduleWindow, error) {
	monthKey := start.Format("2006-01")
	f.mu.Lock()
	f.fetchCalls++
	block := f.blockFetch[monthKey]
	err := f.fetchErr
	f.mu.Unlock()

	if f.started != nil {
		f.started <- monthKey
	}
	if block != nil {
		<-block
	}
	if err != nil {
		return nil, err
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	window := &model.ScheduleWindow{EmployeeID: employeeID, Start: start, End: end}
	for _, s := range f.schedules {
		if !s.Date.Before(start) && !s.Date.After(end) {
			window.Schedules = append(window.Schedules, s)
		}
	}
	return window, nil
}

func (f *fakeAPI) SaveSchedule(ctx context.Context, employeeID int64, s model.DaySchedule) (model.DaySchedule, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.saveCalls++
	if f.saveErr != nil {
		return model.DaySchedule{}, f.saveErr
	}
	if s.ID == 0 {
		s.ID = f.nextID
		f.nextID++
	}
	s.EmployeeID = employeeID
	f.schedules[s.ID] = s
	return s, nil
}

func (f *fakeAPI) DeleteSchedule(ctx context.Context, employeeID, scheduleID int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	delete(f.schedules, scheduleID)
	return nil
}

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.Local)
}

func TestLoadWindowAndScheduleForDate(t *testing.T) {
	api := newFakeAPI()
	saved := api.seed(model.DaySchedule{
		Date:      day(2025, 6, 10),
		IsWorking: true,
		WorkHours: model.WorkHours{{Start: "09:00", End: "17:00"}},
	})
	st := New(api, nil, nil)

	window, err := st.LoadWindow(context.Background(), 42, day(2025, 6, 15))
	require.NoError(t, err)
	assert.Equal(t, day(2025, 6, 1), window.Start)
	assert.Equal(t, day(2025, 6, 30), window.End)

	got := st.ScheduleForDate(day(2025, 6, 10))
	require.NotNil(t, got)
	assert.Equal(t, saved.ID, got.ID)

	// Absent date returns nil, not a synthesized default.
	assert.Nil(t, st.ScheduleForDate(day(2025, 6, 11)))
}

func TestSaveForcesRefetch(t *testing.T) {
	api := newFakeAPI()
	existing := api.seed(model.DaySchedule{
		Date:      day(2025, 6, 10),
		IsWorking: true,
		WorkHours: model.WorkHours{{Start: "09:00", End: "17:00"}},
	})
	st := New(api, nil, nil)

	_, err := st.LoadWindow(context.Background(), 42, day(2025, 6, 1))
	require.NoError(t, err)

	edit := existing
	edit.IsWorking = false
	edit.WorkHours = nil
	require.NoError(t, st.Save(context.Background(), 42, edit))

	// The cache was refetched, not patched in place.
	got := st.ScheduleForDate(day(2025, 6, 10))
	require.NotNil(t, got)
	assert.False(t, got.IsWorking)
	assert.Equal(t, 2, api.fetchCalls, "save must trigger a window refetch")
}

func TestFetchFailureKeepsLastKnownGood(t *testing.T) {
	api := newFakeAPI()
	api.seed(model.DaySchedule{Date: day(2025, 6, 10), IsWorking: true,
		WorkHours: model.WorkHours{{Start: "09:00", End: "17:00"}}})
	st := New(api, nil, nil)

	_, err := st.LoadWindow(context.Background(), 42, day(2025, 6, 1))
	require.NoError(t, err)

	api.mu.Lock()
	api.fetchErr = errors.New("service down")
	api.mu.Unlock()

	_, err = st.LoadWindow(context.Background(), 42, day(2025, 7, 1))
	require.Error(t, err)

	// June is still served from the last good window.
	assert.NotNil(t, st.ScheduleForDate(day(2025, 6, 10)))
	assert.Equal(t, day(2025, 6, 1), st.Window().Start)
}

func TestStaleWindowDiscarded(t *testing.T) {
	api := newFakeAPI()
	api.seed(model.DaySchedule{Date: day(2025, 6, 10), IsWorking: true,
		WorkHours: model.WorkHours{{Start: "09:00", End: "17:00"}}})
	release := make(chan struct{})
	api.blockFetch = map[string]chan struct{}{"2025-06": release}
	api.started = make(chan string, 2)
	st := New(api, nil, nil)

	type loadResult struct {
		window *model.ScheduleWindow
		err    error
	}
	firstDone := make(chan loadResult, 1)
	go func() {
		w, err := st.LoadWindow(context.Background(), 42, day(2025, 6, 1))
		firstDone <- loadResult{w, err}
	}()
	<-api.started // June request is in flight

	// A newer request for July supersedes it.
	julyWindow, err := st.LoadWindow(context.Background(), 42, day(2025, 7, 1))
	<-api.started
	require.NoError(t, err)
	require.NotNil(t, julyWindow)

	close(release)
	first := <-firstDone
	assert.ErrorIs(t, first.err, ErrStaleWindow)

	// The cache holds the July window, not the late June response.
	assert.Equal(t, day(2025, 7, 1), st.Window().Start)
}

func TestStats(t *testing.T) {
	api := newFakeAPI()
	api.seed(model.DaySchedule{Date: day(2025, 6, 2), IsWorking: true,
		WorkHours: model.WorkHours{{Start: "09:00", End: "12:00"}, {Start: "13:00", End: "17:00"}}})
	api.seed(model.DaySchedule{Date: day(2025, 6, 3), IsWorking: true,
		WorkHours: model.WorkHours{{Start: "09:00", End: "17:00"}}})
	api.seed(model.DaySchedule{Date: day(2025, 6, 4), IsWorking: false})
	st := New(api, nil, nil)

	_, err := st.LoadWindow(context.Background(), 42, day(2025, 6, 1))
	require.NoError(t, err)

	stats := st.Stats()
	assert.Equal(t, 30, stats.DaysInMonth)
	assert.Equal(t, 2, stats.WorkingDays)
	assert.Equal(t, 1, stats.DaysOff)
	assert.InDelta(t, 15.0, stats.ScheduledHours, 0.001) // 3+4+8 hours
	assert.InDelta(t, 2.0/30.0, stats.Availability, 0.001)
}

func TestStatsEmpty(t *testing.T) {
	st := New(newFakeAPI(), nil, nil)
	assert.Equal(t, MonthStats{}, st.Stats())
}
