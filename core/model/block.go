package model

// MeetingBlock is one occurrence of a section on one weekday. Async blocks
// carry no time range and no day.
type MeetingBlock struct {
	SubjectCode  string    `json:"subject_code"`
	CourseNumber string    `json:"course_number"`
	Title        string    `json:"title"`
	SectionID    string    `json:"section_id"`
	Range        TimeRange `json:"range"`
	// DayCode is the raw catalog day letter; it is resolved to a column at
	// layout time so unknown codes can be reported there.
	DayCode rune `json:"day_code,omitempty"`
	Async   bool `json:"async"`
	// Order is the section's position within its schedule.
	Order int `json:"order"`
}

// ExpandBlocks turns a schedule into meeting blocks: one per weekday for timed
// sections, a single async block for sections without a time, a day string,
// or a physical location.
func ExpandBlocks(s Schedule) []MeetingBlock {
	var blocks []MeetingBlock
	for i, sec := range s {
		base := MeetingBlock{
			SubjectCode:  sec.Subj,
			CourseNumber: string(sec.Crse),
			Title:        sec.Title,
			SectionID:    sec.ID(),
			Order:        i,
		}
		r, timed := ParseTimeRange(sec.Time)
		if sec.Async() || !timed || len(sec.Day) == 0 {
			base.Async = true
			blocks = append(blocks, base)
			continue
		}
		for _, code := range sec.Day {
			b := base
			b.Range = r
			b.DayCode = code
			blocks = append(blocks, b)
		}
	}
	return blocks
}
