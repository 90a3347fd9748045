// Package timegrid maps class meeting times onto a discrete weekly grid.
//
// The grid has one row per RowMinutes interval between the earliest start
// and the latest end of the synchronous blocks, and one column per weekday
// from Monday to Friday. The result is a plain description that any
// presentation layer can render.
package timegrid

import (
	"github.com/kilianp07/classgrid/core/model"
)

// RowMinutes is the grid granularity.
const RowMinutes = 10

// Tick labels one grid row.
type Tick struct {
	// Row is 1-indexed.
	Row   int             `json:"row"`
	Time  model.ClockTime `json:"time"`
	Label string          `json:"label"`
}

// Column is a fixed weekday column.
type Column struct {
	Index   int           `json:"index"`
	Weekday model.Weekday `json:"weekday"`
	Name    string        `json:"name"`
}

// Placement positions one synchronous block. RowStart is the zero-based
// first row and RowEnd the exclusive end row, so a block covers the
// 1-indexed rows RowStart+1 through RowEnd.
type Placement struct {
	Block    model.MeetingBlock `json:"block"`
	Weekday  model.Weekday      `json:"weekday"`
	Column   int                `json:"column"`
	RowStart int                `json:"row_start"`
	RowEnd   int                `json:"row_end"`
	Color    string             `json:"color"`
}

// FirstRow returns the 1-indexed first row covered.
func (p Placement) FirstRow() int { return p.RowStart + 1 }

// LastRow returns the 1-indexed last row covered.
func (p Placement) LastRow() int { return p.RowEnd }

// Span returns the number of rows covered.
func (p Placement) Span() int { return p.RowEnd - p.RowStart }

// Covers reports whether the 1-indexed row belongs to the placement.
func (p Placement) Covers(row int) bool { return row > p.RowStart && row <= p.RowEnd }

// Grid is the renderable layout of one schedule.
type Grid struct {
	Earliest   model.ClockTime      `json:"earliest"`
	Latest     model.ClockTime      `json:"latest"`
	Rows       int                  `json:"rows"`
	Ticks      []Tick               `json:"ticks"`
	Columns    []Column             `json:"columns"`
	Placements []Placement          `json:"placements"`
	Async      []model.MeetingBlock `json:"async"`
	// Dropped holds blocks left off the grid because of bad data.
	Dropped []error `json:"-"`
}

// Empty reports whether nothing was placed on the grid.
func (g Grid) Empty() bool { return g.Rows == 0 }

// Columns returns the fixed Monday..Friday columns.
func Columns() []Column {
	cols := make([]Column, len(model.Weekdays))
	for i, d := range model.Weekdays {
		cols[i] = Column{Index: i, Weekday: d, Name: d.String()}
	}
	return cols
}

// MinutesBetween returns the elapsed minutes from a to b. Both values are
// converted to minutes since midnight first; subtracting the encoded values
// directly would count 1050 to 1120 as 70 minutes instead of 30.
func MinutesBetween(a, b model.ClockTime) int {
	return b.Minutes() - a.Minutes()
}

// Option customises a layout.
type Option func(*options)

type options struct {
	colors map[string]string
}

// WithColors assigns colors by section id, typically from a ColorMemo.
// Sections missing from the map fall back to their position color.
func WithColors(colors map[string]string) Option {
	return func(o *options) { o.colors = colors }
}

// LayoutSchedule expands s into meeting blocks and lays them out.
func LayoutSchedule(s model.Schedule, opts ...Option) (Grid, error) {
	return Layout(model.ExpandBlocks(s), opts...)
}

// Layout computes the grid for one schedule's blocks. A schedule with no
// synchronous blocks yields an empty grid and no error. Blocks with an
// unknown weekday are skipped and reported in Grid.Dropped.
func Layout(blocks []model.MeetingBlock, opts ...Option) (Grid, error) {
	var o options
	for _, opt := range opts {
		opt(&o)
	}

	g := Grid{Columns: Columns()}
	type resolved struct {
		block model.MeetingBlock
		day   model.Weekday
	}
	var timed []resolved
	for _, b := range blocks {
		if b.Async {
			g.Async = append(g.Async, b)
			continue
		}
		if b.Range.Start >= b.Range.End {
			return Grid{}, &DegenerateTimeRangeError{SectionID: b.SectionID, Start: b.Range.Start, End: b.Range.End}
		}
		day, ok := model.ParseWeekday(b.DayCode)
		if !ok {
			g.Dropped = append(g.Dropped, &UnknownWeekdayError{SectionID: b.SectionID, Code: b.DayCode})
			continue
		}
		timed = append(timed, resolved{block: b, day: day})
	}
	if len(timed) == 0 {
		return g, nil
	}

	earliest, latest := timed[0].block.Range.Start, timed[0].block.Range.End
	for _, r := range timed[1:] {
		if r.block.Range.Start < earliest {
			earliest = r.block.Range.Start
		}
		if r.block.Range.End > latest {
			latest = r.block.Range.End
		}
	}
	if latest <= earliest {
		return Grid{}, &DegenerateTimeRangeError{Start: earliest, End: latest}
	}

	g.Earliest, g.Latest = earliest, latest
	g.Rows = MinutesBetween(earliest, latest) / RowMinutes
	g.Ticks = make([]Tick, g.Rows)
	for n := 1; n <= g.Rows; n++ {
		t := model.ClockFromMinutes(earliest.Minutes() + RowMinutes*(n-1))
		g.Ticks[n-1] = Tick{Row: n, Time: t, Label: t.String()}
	}

	g.Placements = make([]Placement, 0, len(timed))
	for _, r := range timed {
		color, ok := o.colors[r.block.SectionID]
		if !ok {
			color = ColorFor(r.block.Order)
		}
		g.Placements = append(g.Placements, Placement{
			Block:    r.block,
			Weekday:  r.day,
			Column:   int(r.day),
			RowStart: MinutesBetween(earliest, r.block.Range.Start) / RowMinutes,
			RowEnd:   MinutesBetween(earliest, r.block.Range.End) / RowMinutes,
			Color:    color,
		})
	}
	return g, nil
}
