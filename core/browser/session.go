// Package browser holds one user's schedule browsing state: the requested
// courses, the generated alternatives with their lock filter, and the layout
// of the schedule under the cursor.
package browser

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/kilianp07/classgrid/core/events"
	"github.com/kilianp07/classgrid/core/logger"
	"github.com/kilianp07/classgrid/core/model"
	"github.com/kilianp07/classgrid/core/selector"
	"github.com/kilianp07/classgrid/core/timegrid"
	"github.com/kilianp07/classgrid/internal/eventbus"
)

// DefaultConflictMessage is shown when the service reports conflicts without a message.
const DefaultConflictMessage = "No valid schedules found due to conflicts"

// NoMatchNotice is shown when no schedule satisfies the locked sections.
const NoMatchNotice = "no schedule matches your locks"

// Generator produces candidate schedules for a course list.
type Generator interface {
	Generate(ctx context.Context, courses []model.CourseRef) (model.GenerateResponse, error)
}

// CourseValidator checks requested courses against the offered catalog.
type CourseValidator interface {
	Loaded() bool
	Contains(subj, code string) bool
}

// Session is safe for concurrent use. The generation request runs without
// holding the state lock; a response arriving after a newer request started
// is discarded.
type Session struct {
	id      string
	gen     Generator
	catalog CourseValidator
	bus     eventbus.Publisher
	log     logger.Logger

	sel    *selector.Selector
	colors *timegrid.ColorMemo

	mu         sync.RWMutex
	courses    []model.CourseRef
	conflicts  []model.Conflict
	message    string
	seq        uint64
	epoch      uint64
	generating bool

	layoutMu sync.Mutex
	layout   *laidOut
}

// laidOut is the grid of the schedule last shown, keyed by candidate set,
// cursor position and schedule.
type laidOut struct {
	key  string
	grid timegrid.Grid
	err  error
}

// NewSession creates an empty session. catalog and bus may be nil.
func NewSession(id string, gen Generator, catalog CourseValidator, bus eventbus.Publisher, log logger.Logger) *Session {
	return &Session{
		id:      id,
		gen:     gen,
		catalog: catalog,
		bus:     bus,
		log:     log,
		sel:     selector.New(),
		colors:  timegrid.NewColorMemo(),
	}
}

// ID returns the session identifier.
func (s *Session) ID() string { return s.id }

// Courses returns a copy of the requested course list.
func (s *Session) Courses() []model.CourseRef {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return append([]model.CourseRef(nil), s.courses...)
}

// AddCourse appends a course after validating it. The subject is upper-cased.
func (s *Session) AddCourse(subj, code string) (model.CourseRef, error) {
	ref := model.NewCourseRef(subj, code)
	if ref.Subj == "" || ref.Code == "" {
		return ref, ErrInvalidCourse
	}
	if s.catalog != nil && s.catalog.Loaded() && !s.catalog.Contains(ref.Subj, ref.Code) {
		return ref, fmt.Errorf("%s: %w", ref, ErrUnknownCourse)
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, c := range s.courses {
		if c == ref {
			return ref, fmt.Errorf("%s: %w", ref, ErrDuplicateCourse)
		}
	}
	s.courses = append(append([]model.CourseRef(nil), s.courses...), ref)
	return ref, nil
}

// RemoveCourse drops a course from the list and reports whether it was
// present. Removing a course named in the conflict report clears the report.
func (s *Session) RemoveCourse(subj, code string) bool {
	ref := model.NewCourseRef(subj, code)
	s.mu.Lock()
	defer s.mu.Unlock()
	next := make([]model.CourseRef, 0, len(s.courses))
	found := false
	for _, c := range s.courses {
		if c == ref {
			found = true
			continue
		}
		next = append(next, c)
	}
	if !found {
		return false
	}
	s.courses = next
	for _, c := range s.conflicts {
		if strings.EqualFold(c.Subj, ref.Subj) && c.Code == ref.Code {
			s.conflicts = nil
			s.message = ""
			break
		}
	}
	return true
}

// Generate asks the generator for schedules covering the course list. Locks,
// conflicts and the message are cleared before the request. On failure the
// previous schedules stay browsable and the message explains the error.
func (s *Session) Generate(ctx context.Context) error {
	s.mu.Lock()
	if len(s.courses) == 0 {
		s.mu.Unlock()
		return ErrNoCourses
	}
	courses := append([]model.CourseRef(nil), s.courses...)
	s.seq++
	seq := s.seq
	s.conflicts = nil
	s.message = ""
	s.generating = true
	s.sel.ClearLocks()
	s.mu.Unlock()

	resp, err := s.gen.Generate(ctx, courses)

	s.mu.Lock()
	defer s.mu.Unlock()
	if seq != s.seq {
		s.log.Debugw("discarding stale generation response", map[string]any{"session": s.id, "seq": seq})
		return ErrSuperseded
	}
	s.generating = false
	if err != nil {
		s.message = fmt.Sprintf("failed to generate schedules: %v", err)
		s.publish(events.GeneratedEvent{SessionID: s.id, Outcome: events.OutcomeError})
		return fmt.Errorf("generate schedules: %w", err)
	}
	if len(resp.Schedules) == 0 && len(resp.Conflicts) > 0 {
		s.conflicts = append([]model.Conflict(nil), resp.Conflicts...)
		s.message = resp.Message
		if s.message == "" {
			s.message = DefaultConflictMessage
		}
		s.publish(events.GeneratedEvent{SessionID: s.id, Outcome: events.OutcomeConflict, Conflicts: len(resp.Conflicts)})
		return nil
	}
	s.epoch++
	s.colors.Reset()
	s.sel.SetSchedules(resp.Schedules)
	s.message = resp.Message
	s.log.Infof("session %s: %d schedules for %d courses", s.id, len(resp.Schedules), len(courses))
	s.publish(events.GeneratedEvent{SessionID: s.id, Outcome: events.OutcomeOK, Schedules: len(resp.Schedules)})
	return nil
}

// SetSchedules replaces the candidates directly, bypassing the generator.
func (s *Session) SetSchedules(list []model.Schedule) {
	s.mu.Lock()
	s.seq++
	s.generating = false
	s.conflicts = nil
	s.message = ""
	s.epoch++
	s.colors.Reset()
	s.sel.SetSchedules(list)
	s.mu.Unlock()
}

// ToggleLock locks or unlocks a section and returns whether it is now locked.
func (s *Session) ToggleLock(sectionID string) bool {
	s.mu.Lock()
	s.sel.ToggleLock(sectionID)
	locked := s.sel.Locked(sectionID)
	filtered := len(s.sel.CurrentFilteredList())
	s.mu.Unlock()
	s.publish(events.LockEvent{SessionID: s.id, SectionID: sectionID, Locked: locked, Filtered: filtered})
	return locked
}

// Navigate moves the cursor within the filtered schedules.
func (s *Session) Navigate(delta int) {
	s.mu.Lock()
	s.sel.Navigate(delta)
	s.mu.Unlock()
}

func (s *Session) publish(ev eventbus.Event) {
	if s.bus != nil {
		s.bus.Publish(ev)
	}
}

// View renders the session at one instant: selection, grid of the current
// schedule and its section list. A conflict report suppresses the layout.
func (s *Session) View() View {
	s.mu.RLock()
	v := View{
		SessionID:  s.id,
		Courses:    append([]model.CourseRef(nil), s.courses...),
		Conflicts:  append([]model.Conflict(nil), s.conflicts...),
		Message:    s.message,
		Generating: s.generating,
		Selection:  s.sel.Snapshot(),
	}
	epoch := s.epoch
	s.mu.RUnlock()

	if len(v.Conflicts) > 0 {
		return v
	}
	if !v.Selection.HasCurrent {
		if v.Selection.Total > 0 {
			v.Notice = NoMatchNotice
		}
		return v
	}

	colors := s.colors.Assign(v.Selection.Current)
	locks := make(map[string]struct{}, len(v.Selection.Locks))
	for _, id := range v.Selection.Locks {
		locks[id] = struct{}{}
	}
	v.Sections = sectionRows(v.Selection.Current, colors, locks)

	key := fmt.Sprintf("%d/%d/%s", epoch, v.Selection.Index, v.Selection.Current.Key())
	grid, err := s.layoutFor(key, v.Selection.Index, v.Selection.Current, colors)
	if err != nil {
		v.LayoutError = err.Error()
		return v
	}
	v.Grid = &grid
	return v
}

// layoutFor returns the grid for key, laying the schedule out only when the
// key changes. Warnings and the layout event are emitted once per layout.
func (s *Session) layoutFor(key string, index int, sched model.Schedule, colors map[string]string) (timegrid.Grid, error) {
	s.layoutMu.Lock()
	defer s.layoutMu.Unlock()
	if s.layout != nil && s.layout.key == key {
		return s.layout.grid, s.layout.err
	}

	grid, err := timegrid.LayoutSchedule(sched, timegrid.WithColors(colors))
	s.layout = &laidOut{key: key, grid: grid, err: err}
	if err != nil {
		s.log.Warnw("schedule layout failed", map[string]any{"session": s.id, "index": index, "error": err.Error()})
		s.publish(events.LayoutEvent{SessionID: s.id, Outcome: events.LayoutDegenerate})
		return grid, err
	}
	for _, d := range grid.Dropped {
		var uw *timegrid.UnknownWeekdayError
		fields := map[string]any{"session": s.id, "error": d.Error()}
		if errors.As(d, &uw) {
			fields["section"] = uw.SectionID
		}
		s.log.Warnw("meeting block dropped", fields)
	}
	outcome := events.LayoutOK
	if grid.Empty() {
		outcome = events.LayoutEmpty
	}
	s.publish(events.LayoutEvent{SessionID: s.id, Outcome: outcome, Placements: len(grid.Placements), Dropped: len(grid.Dropped)})
	return grid, nil
}
