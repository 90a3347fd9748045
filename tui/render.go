package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/kilianp07/classgrid/core/browser"
	"github.com/kilianp07/classgrid/core/timegrid"
)

const (
	labelWidth = 9
	cellWidth  = 12
)

var (
	headerStyle = lipgloss.NewStyle().Bold(true).Width(cellWidth).Align(lipgloss.Center)
	labelStyle  = lipgloss.NewStyle().Faint(true).Width(labelWidth)
	emptyCell   = lipgloss.NewStyle().Width(cellWidth).Render("")
	titleStyle  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#45B7D1"))
	errorStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#FF6B6B"))
	noticeStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#F7DC6F"))
	lockedStyle = lipgloss.NewStyle().Bold(true)
)

// RenderGrid draws the weekly grid as text, one line per grid row. The
// course label is printed on the first row of each block.
func RenderGrid(g timegrid.Grid) string {
	if g.Empty() {
		return "no scheduled meetings\n"
	}
	var b strings.Builder
	b.WriteString(labelStyle.Render(""))
	for _, c := range g.Columns {
		b.WriteString(headerStyle.Render(c.Name[:3]))
	}
	b.WriteString("\n")

	for _, tick := range g.Ticks {
		label := ""
		if tick.Time.Minute() == 0 || tick.Row == 1 {
			label = tick.Label
		}
		b.WriteString(labelStyle.Render(label))
		for _, col := range g.Columns {
			b.WriteString(renderCell(g.Placements, col.Index, tick.Row))
		}
		b.WriteString("\n")
	}
	return b.String()
}

// renderCell returns the cell at a 1-indexed row. When blocks overlap the
// later one in schedule order wins.
func renderCell(placements []timegrid.Placement, column, row int) string {
	var hit *timegrid.Placement
	for i := range placements {
		p := &placements[i]
		if p.Column == column && p.Covers(row) {
			hit = p
		}
	}
	if hit == nil {
		return emptyCell
	}
	text := ""
	if row == hit.FirstRow() {
		text = hit.Block.SubjectCode + " " + hit.Block.CourseNumber
	}
	return lipgloss.NewStyle().
		Width(cellWidth).
		MaxWidth(cellWidth).
		Background(lipgloss.Color(hit.Color)).
		Foreground(lipgloss.Color("#000000")).
		Render(text)
}

// RenderSections lists the sections of the current schedule with their lock
// number, async sections included.
func RenderSections(rows []browser.SectionRow) string {
	var b strings.Builder
	for i, r := range rows {
		swatch := lipgloss.NewStyle().Background(lipgloss.Color(r.Color)).Render("  ")
		line := fmt.Sprintf("%d %s %-5s %-10s %-22s %-6s %s", i+1, swatch, r.ID, r.Course, r.Time, r.Days, r.Location)
		if r.Instructor != "" {
			line += " · " + r.Instructor
		}
		if r.Locked {
			line = lockedStyle.Render(line + " [locked]")
		}
		b.WriteString(line)
		b.WriteString("\n")
	}
	return b.String()
}

// RenderView draws the whole browsing screen without the help footer.
func RenderView(v browser.View) string {
	var b strings.Builder
	sel := v.Selection
	if sel.HasCurrent {
		b.WriteString(titleStyle.Render(fmt.Sprintf("Schedule %d of %d", sel.Index+1, len(sel.Filtered))))
		if len(sel.Locks) > 0 {
			b.WriteString(fmt.Sprintf("  (%d total, %d locked)", sel.Total, len(sel.Locks)))
		}
		b.WriteString("\n\n")
	}
	if v.Message != "" {
		b.WriteString(errorStyle.Render(v.Message))
		b.WriteString("\n")
	}
	if len(v.Conflicts) > 0 {
		b.WriteString("Remove one of these courses to fix:\n")
		for _, c := range v.Conflicts {
			b.WriteString("  - " + c.String() + "\n")
		}
		return b.String()
	}
	if v.Notice != "" {
		b.WriteString(noticeStyle.Render(v.Notice))
		b.WriteString("\n")
	}
	if v.LayoutError != "" {
		b.WriteString(errorStyle.Render("cannot lay out schedule: " + v.LayoutError))
		b.WriteString("\n")
	}
	if v.Grid != nil {
		b.WriteString(RenderGrid(*v.Grid))
		b.WriteString("\n")
	}
	if len(v.Sections) > 0 {
		b.WriteString(RenderSections(v.Sections))
	}
	return b.String()
}
