// Package selector narrows a list of candidate schedules to those holding a
// set of locked sections and keeps a clamped cursor over the result.
package selector

import (
	"sort"
	"sync"

	"github.com/kilianp07/classgrid/core/model"
)

// Filter returns the schedules containing every locked section id, in their
// original order. An empty lock set returns list unchanged.
func Filter(list []model.Schedule, locks map[string]struct{}) []model.Schedule {
	if len(locks) == 0 {
		return list
	}
	out := make([]model.Schedule, 0, len(list))
	for _, s := range list {
		if holdsAll(s, locks) {
			out = append(out, s)
		}
	}
	return out
}

func holdsAll(s model.Schedule, locks map[string]struct{}) bool {
	found := 0
	seen := make(map[string]struct{}, len(s))
	for _, sec := range s {
		id := sec.ID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		if _, ok := locks[id]; ok {
			found++
		}
	}
	return found == len(locks)
}

// View is a consistent snapshot of the selector state.
type View struct {
	Filtered   []model.Schedule `json:"filtered"`
	Total      int              `json:"total"`
	Index      int              `json:"index"`
	Current    model.Schedule   `json:"current,omitempty"`
	HasCurrent bool             `json:"has_current"`
	Locks      []string         `json:"locks"`
	CanPrev    bool             `json:"can_prev"`
	CanNext    bool             `json:"can_next"`
}

// Selector holds the candidate schedules, the lock set and the cursor.
// Every transition replaces state under a single lock so readers never see a
// half-applied update.
type Selector struct {
	mu        sync.RWMutex
	schedules []model.Schedule
	locks     map[string]struct{}
	index     int
}

// New returns an empty Selector.
func New() *Selector {
	return &Selector{locks: map[string]struct{}{}}
}

// SetSchedules replaces the candidate list, clears the locks and rewinds.
func (s *Selector) SetSchedules(list []model.Schedule) {
	cp := make([]model.Schedule, len(list))
	copy(cp, list)
	s.mu.Lock()
	s.schedules = cp
	s.locks = map[string]struct{}{}
	s.index = 0
	s.mu.Unlock()
}

// ToggleLock adds id to the lock set, or removes it if present, and rewinds.
func (s *Selector) ToggleLock(id string) {
	s.mu.Lock()
	next := make(map[string]struct{}, len(s.locks)+1)
	for k := range s.locks {
		next[k] = struct{}{}
	}
	if _, ok := next[id]; ok {
		delete(next, id)
	} else {
		next[id] = struct{}{}
	}
	s.locks = next
	s.index = 0
	s.mu.Unlock()
}

// ClearLocks empties the lock set and rewinds.
func (s *Selector) ClearLocks() {
	s.mu.Lock()
	s.locks = map[string]struct{}{}
	s.index = 0
	s.mu.Unlock()
}

// Locked reports whether id is in the lock set.
func (s *Selector) Locked(id string) bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	_, ok := s.locks[id]
	return ok
}

// Locks returns the sorted lock set.
func (s *Selector) Locks() []string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return sortedKeys(s.locks)
}

// CurrentFilteredList derives the filtered schedules from the current
// candidates and locks.
func (s *Selector) CurrentFilteredList() []model.Schedule {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return Filter(s.schedules, s.locks)
}

// Index returns the cursor position in the filtered list.
func (s *Selector) Index() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.index
}

// Navigate moves the cursor by delta, clamped to the filtered list. Moving
// past either end leaves it at the boundary.
func (s *Selector) Navigate(delta int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := len(Filter(s.schedules, s.locks))
	s.index = clamp(s.index+delta, n)
}

// CurrentSchedule returns the schedule under the cursor, or false when no
// schedule satisfies the locks.
func (s *Selector) CurrentSchedule() (model.Schedule, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	filtered := Filter(s.schedules, s.locks)
	if len(filtered) == 0 {
		return nil, false
	}
	return filtered[clamp(s.index, len(filtered))], true
}

// Snapshot returns the whole state as seen at one instant.
func (s *Selector) Snapshot() View {
	s.mu.RLock()
	defer s.mu.RUnlock()
	filtered := Filter(s.schedules, s.locks)
	v := View{
		Filtered: filtered,
		Total:    len(s.schedules),
		Locks:    sortedKeys(s.locks),
	}
	if len(filtered) > 0 {
		v.Index = clamp(s.index, len(filtered))
		v.Current = filtered[v.Index]
		v.HasCurrent = true
		v.CanPrev = v.Index > 0
		v.CanNext = v.Index < len(filtered)-1
	}
	return v
}

func clamp(i, n int) int {
	if n <= 0 || i < 0 {
		return 0
	}
	if i > n-1 {
		return n - 1
	}
	return i
}

func sortedKeys(m map[string]struct{}) []string {
	out := make([]string, 0, len(m))
	for k := range m {
		out = append(out, k)
	}
	sort.Strings(out)
	return out
}
