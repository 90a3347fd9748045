package browser

import (
	"github.com/kilianp07/classgrid/core/model"
	"github.com/kilianp07/classgrid/core/selector"
	"github.com/kilianp07/classgrid/core/timegrid"
)

// View is a read-only picture of a session.
type View struct {
	SessionID  string            `json:"id"`
	Courses    []model.CourseRef `json:"courses"`
	Selection  selector.View     `json:"selection"`
	Grid       *timegrid.Grid    `json:"grid,omitempty"`
	Sections   []SectionRow      `json:"sections,omitempty"`
	Conflicts  []model.Conflict  `json:"conflicts,omitempty"`
	Message    string            `json:"message,omitempty"`
	Notice     string            `json:"notice,omitempty"`
	// LayoutError is set when the current schedule could not be laid out.
	LayoutError string `json:"layout_error,omitempty"`
	Generating  bool   `json:"generating"`
}

// SectionRow is one line of the section list under the grid.
type SectionRow struct {
	ID         string `json:"id"`
	Course     string `json:"course"`
	Title      string `json:"title"`
	Time       string `json:"time"`
	Days       string `json:"days"`
	Location   string `json:"location"`
	Instructor string `json:"instructor"`
	Seats      string `json:"seats"`
	Async      bool   `json:"async"`
	Locked     bool   `json:"locked"`
	Color      string `json:"color"`
}

func sectionRows(s model.Schedule, colors map[string]string, locks map[string]struct{}) []SectionRow {
	rows := make([]SectionRow, 0, len(s))
	for i, sec := range s {
		color, ok := colors[sec.ID()]
		if !ok {
			color = timegrid.ColorFor(i)
		}
		_, locked := locks[sec.ID()]
		row := SectionRow{
			ID:         sec.ID(),
			Course:     sec.Subj + " " + string(sec.Crse),
			Title:      sec.Title,
			Time:       model.FormatTimeRange(sec.Time),
			Days:       model.FormatDays(sec.Day),
			Location:   sec.Location,
			Instructor: sec.Instructor,
			Async:      sec.Async(),
			Locked:     locked,
			Color:      color,
		}
		if sec.Avail != "" || sec.Max != "" {
			row.Seats = string(sec.Avail) + "/" + string(sec.Max)
		}
		rows = append(rows, row)
	}
	return rows
}
