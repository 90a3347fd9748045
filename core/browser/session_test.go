package browser

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/classgrid/core/events"
	"github.com/kilianp07/classgrid/core/model"
	"github.com/kilianp07/classgrid/infra/logger"
	"github.com/kilianp07/classgrid/internal/eventbus"
)

type stubGenerator struct {
	resp  model.GenerateResponse
	err   error
	calls [][]model.CourseRef
}

func (g *stubGenerator) Generate(_ context.Context, courses []model.CourseRef) (model.GenerateResponse, error) {
	g.calls = append(g.calls, courses)
	return g.resp, g.err
}

type stubCatalog map[model.CourseRef]bool

func (c stubCatalog) Loaded() bool { return len(c) > 0 }
func (c stubCatalog) Contains(subj, code string) bool {
	return c[model.CourseRef{Subj: subj, Code: code}]
}

func section(crn, subj, crse, tm, day string) model.Section {
	return model.Section{CRN: model.Text(crn), Subj: subj, Crse: model.Text(crse), Time: tm, Day: day, Location: "DES 100"}
}

func twoSchedules() []model.Schedule {
	return []model.Schedule{
		{section("100", "CS", "210", "0900-0950", "mwf"), section("200", "MATH", "251", "1000-1050", "tr")},
		{section("101", "CS", "210", "1100-1150", "mwf"), section("200", "MATH", "251", "1000-1050", "tr")},
	}
}

func newTestSession(gen Generator, cat CourseValidator) *Session {
	return NewSession("s1", gen, cat, nil, logger.NopLogger{})
}

func TestAddCourseValidation(t *testing.T) {
	cat := stubCatalog{{Subj: "CS", Code: "210"}: true}
	s := newTestSession(&stubGenerator{}, cat)

	_, err := s.AddCourse("", "210")
	assert.ErrorIs(t, err, ErrInvalidCourse)
	_, err = s.AddCourse("cs", " ")
	assert.ErrorIs(t, err, ErrInvalidCourse)

	ref, err := s.AddCourse("cs", "210")
	require.NoError(t, err)
	assert.Equal(t, model.CourseRef{Subj: "CS", Code: "210"}, ref)

	_, err = s.AddCourse("CS", "210")
	assert.ErrorIs(t, err, ErrDuplicateCourse)
	_, err = s.AddCourse("MATH", "999")
	assert.ErrorIs(t, err, ErrUnknownCourse)
	assert.Len(t, s.Courses(), 1)
}

func TestAddCourseWithoutCatalogSkipsLookup(t *testing.T) {
	s := newTestSession(&stubGenerator{}, stubCatalog{})
	_, err := s.AddCourse("bi", "211")
	require.NoError(t, err)
}

func TestGenerateRequiresCourses(t *testing.T) {
	s := newTestSession(&stubGenerator{}, nil)
	assert.ErrorIs(t, s.Generate(context.Background()), ErrNoCourses)
}

func TestGenerateAndBrowse(t *testing.T) {
	gen := &stubGenerator{resp: model.GenerateResponse{Schedules: twoSchedules(), Count: 2}}
	s := newTestSession(gen, nil)
	_, _ = s.AddCourse("CS", "210")
	_, _ = s.AddCourse("MATH", "251")
	require.NoError(t, s.Generate(context.Background()))
	require.Len(t, gen.calls, 1)
	assert.Equal(t, []model.CourseRef{{Subj: "CS", Code: "210"}, {Subj: "MATH", Code: "251"}}, gen.calls[0])

	v := s.View()
	require.NotNil(t, v.Grid)
	assert.Equal(t, 2, v.Selection.Total)
	assert.Len(t, v.Grid.Placements, 5)
	require.Len(t, v.Sections, 2)
	assert.Equal(t, "9:00 AM - 9:50 AM", v.Sections[0].Time)
	assert.Empty(t, v.LayoutError)

	s.Navigate(1)
	assert.Equal(t, []string{"101", "200"}, s.View().Selection.Current.IDs())

	assert.True(t, s.ToggleLock("100"))
	v = s.View()
	assert.Equal(t, 0, v.Selection.Index)
	assert.Len(t, v.Selection.Filtered, 1)
	assert.True(t, v.Sections[0].Locked)

	s.ToggleLock("101")
	v = s.View()
	assert.False(t, v.Selection.HasCurrent)
	assert.Equal(t, NoMatchNotice, v.Notice)
	assert.Nil(t, v.Grid)
}

func TestGenerateConflictResponse(t *testing.T) {
	gen := &stubGenerator{resp: model.GenerateResponse{
		Conflicts: []model.Conflict{{Subj: "CS", Code: "210"}, {Subj: "MATH", Code: "251"}},
	}}
	s := newTestSession(gen, nil)
	_, _ = s.AddCourse("CS", "210")
	_, _ = s.AddCourse("MATH", "251")
	require.NoError(t, s.Generate(context.Background()))

	v := s.View()
	assert.Len(t, v.Conflicts, 2)
	assert.Equal(t, DefaultConflictMessage, v.Message)
	assert.Nil(t, v.Grid)
	assert.Empty(t, v.Sections)

	require.True(t, s.RemoveCourse("cs", "210"))
	v = s.View()
	assert.Empty(t, v.Conflicts)
	assert.Empty(t, v.Message)
	assert.False(t, s.RemoveCourse("CS", "210"))
}

func TestGenerateFailureKeepsPreviousSchedules(t *testing.T) {
	gen := &stubGenerator{resp: model.GenerateResponse{Schedules: twoSchedules()}}
	s := newTestSession(gen, nil)
	_, _ = s.AddCourse("CS", "210")
	require.NoError(t, s.Generate(context.Background()))
	s.Navigate(1)
	s.ToggleLock("200")

	gen.err = errors.New("connection refused")
	err := s.Generate(context.Background())
	require.Error(t, err)
	v := s.View()
	assert.Contains(t, v.Message, "connection refused")
	assert.Equal(t, 2, v.Selection.Total)
	assert.Empty(t, v.Selection.Locks, "locks are cleared when a request starts")
	assert.NotNil(t, v.Grid)
}

type blockingGenerator struct {
	release chan model.GenerateResponse
}

func (g *blockingGenerator) Generate(ctx context.Context, _ []model.CourseRef) (model.GenerateResponse, error) {
	select {
	case r := <-g.release:
		return r, nil
	case <-ctx.Done():
		return model.GenerateResponse{}, ctx.Err()
	}
}

func TestStaleGenerationDiscarded(t *testing.T) {
	gen := &blockingGenerator{release: make(chan model.GenerateResponse)}
	s := newTestSession(gen, nil)
	_, _ = s.AddCourse("CS", "210")

	done := make(chan error, 1)
	go func() { done <- s.Generate(context.Background()) }()
	require.Eventually(t, func() bool { return s.View().Generating }, time.Second, time.Millisecond)

	s.SetSchedules(twoSchedules()[:1])
	gen.release <- model.GenerateResponse{Schedules: twoSchedules()}
	assert.ErrorIs(t, <-done, ErrSuperseded)
	assert.Equal(t, 1, s.View().Selection.Total)
}

func TestDegenerateScheduleStaysNavigable(t *testing.T) {
	s := newTestSession(&stubGenerator{}, nil)
	bad := model.Schedule{section("300", "CS", "330", "1100-1000", "m")}
	s.SetSchedules([]model.Schedule{bad, twoSchedules()[0]})

	v := s.View()
	assert.NotEmpty(t, v.LayoutError)
	assert.Nil(t, v.Grid)
	assert.True(t, v.Selection.CanNext)

	s.Navigate(1)
	v = s.View()
	assert.Empty(t, v.LayoutError)
	assert.NotNil(t, v.Grid)
}

func TestAsyncSectionsListedOffGrid(t *testing.T) {
	s := newTestSession(&stubGenerator{}, nil)
	online := model.Section{CRN: "400", Subj: "WR", Crse: "121", Time: "TBA", Location: model.AsyncLocation}
	s.SetSchedules([]model.Schedule{{section("100", "CS", "210", "0900-0950", "m"), online}})

	v := s.View()
	require.NotNil(t, v.Grid)
	assert.Len(t, v.Grid.Placements, 1)
	assert.Len(t, v.Grid.Async, 1)
	require.Len(t, v.Sections, 2)
	assert.True(t, v.Sections[1].Async)
	assert.Equal(t, "TBA", v.Sections[1].Time)
}

func TestSessionPublishesEvents(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()
	gen := &stubGenerator{resp: model.GenerateResponse{Schedules: twoSchedules()}}
	s := NewSession("s2", gen, nil, bus, logger.NopLogger{})
	_, _ = s.AddCourse("CS", "210")
	require.NoError(t, s.Generate(context.Background()))
	s.ToggleLock("100")
	s.View()

	got := []eventbus.Event{<-sub, <-sub, <-sub}
	assert.Equal(t, events.GeneratedEvent{SessionID: "s2", Outcome: events.OutcomeOK, Schedules: 2}, got[0])
	assert.Equal(t, events.LockEvent{SessionID: "s2", SectionID: "100", Locked: true, Filtered: 1}, got[1])
	layout, ok := got[2].(events.LayoutEvent)
	require.True(t, ok)
	assert.Equal(t, events.LayoutOK, layout.Outcome)
}

type warnCounter struct {
	logger.NopLogger
	warns atomic.Int32
}

func (w *warnCounter) Warnw(string, map[string]any) { w.warns.Add(1) }

func drainLayoutEvents(sub <-chan eventbus.Event) int {
	n := 0
	for {
		select {
		case ev := <-sub:
			if _, ok := ev.(events.LayoutEvent); ok {
				n++
			}
		default:
			return n
		}
	}
}

func TestViewLaysOutOncePerSchedule(t *testing.T) {
	bus := eventbus.New()
	defer bus.Close()
	sub := bus.Subscribe()
	log := &warnCounter{}
	s := NewSession("s3", &stubGenerator{}, nil, bus, log)
	s.SetSchedules([]model.Schedule{
		{section("100", "CS", "210", "0900-0950", "ms")},
		{section("101", "CS", "210", "1100-1150", "m")},
	})

	for i := 0; i < 5; i++ {
		v := s.View()
		require.NotNil(t, v.Grid)
		assert.Len(t, v.Grid.Dropped, 1)
	}
	assert.Equal(t, 1, drainLayoutEvents(sub))
	assert.Equal(t, int32(1), log.warns.Load())

	s.Navigate(1)
	s.View()
	s.View()
	assert.Equal(t, 1, drainLayoutEvents(sub))

	s.SetSchedules([]model.Schedule{{section("101", "CS", "210", "1100-1150", "m")}})
	s.View()
	assert.Equal(t, 1, drainLayoutEvents(sub))
	assert.Equal(t, int32(1), log.warns.Load())
}
