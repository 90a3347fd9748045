package timegrid

import (
	"sync"

	"github.com/kilianp07/classgrid/core/model"
)

// Palette holds visually distinct block colors. Sections beyond its length
// wrap around.
var Palette = []string{
	"#FF6B6B", // red
	"#4ECDC4", // teal
	"#45B7D1", // blue
	"#FFA07A", // light salmon
	"#98D8C8", // mint
	"#F7DC6F", // yellow
	"#BB8FCE", // purple
	"#85C1E2", // sky blue
	"#F8B739", // orange
	"#52B788", // green
	"#E76F51", // terra cotta
	"#2A9D8F", // dark teal
	"#E9C46A", // gold
	"#F4A261", // sandy brown
	"#8E44AD", // dark purple
}

// ColorFor returns the palette entry for a section position.
func ColorFor(order int) string {
	if order < 0 {
		order = -order
	}
	return Palette[order%len(Palette)]
}

// ColorMemo pins the color of each section the first time a schedule is
// seen, so the same schedule keeps its colors whatever order it is later
// rendered in.
type ColorMemo struct {
	mu     sync.Mutex
	colors map[string]map[string]string
}

// NewColorMemo returns an empty memo.
func NewColorMemo() *ColorMemo {
	return &ColorMemo{colors: map[string]map[string]string{}}
}

// Assign returns the section colors for s, computing them on first use.
func (m *ColorMemo) Assign(s model.Schedule) map[string]string {
	key := s.Key()
	m.mu.Lock()
	defer m.mu.Unlock()
	if c, ok := m.colors[key]; ok {
		return c
	}
	c := make(map[string]string, len(s))
	for i, sec := range s {
		c[sec.ID()] = ColorFor(i)
	}
	m.colors[key] = c
	return c
}

// Len returns the number of memoized schedules.
func (m *ColorMemo) Len() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.colors)
}

// Reset forgets every assignment. Called when the schedule list is replaced.
func (m *ColorMemo) Reset() {
	m.mu.Lock()
	m.colors = map[string]map[string]string{}
	m.mu.Unlock()
}
