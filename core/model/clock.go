package model

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"
)

// ClockTime is a time of day encoded as hour*100+minute (1430 is 2:30 PM).
type ClockTime int

// ClockFromMinutes converts minutes since midnight into a ClockTime.
func ClockFromMinutes(m int) ClockTime {
	return ClockTime((m/60)*100 + m%60)
}

func (c ClockTime) Hour() int   { return int(c) / 100 }
func (c ClockTime) Minute() int { return int(c) % 100 }

// Minutes returns the number of minutes since midnight.
func (c ClockTime) Minutes() int { return c.Hour()*60 + c.Minute() }

// Valid reports whether c is a real time of day.
func (c ClockTime) Valid() bool {
	return c >= 0 && c.Hour() < 24 && c.Minute() < 60
}

// String formats the time on a 12-hour clock, e.g. "2:30 PM".
func (c ClockTime) String() string {
	h := c.Hour()
	period := "AM"
	if h >= 12 {
		period = "PM"
	}
	switch {
	case h == 0:
		h = 12
	case h > 12:
		h -= 12
	}
	return fmt.Sprintf("%d:%02d %s", h, c.Minute(), period)
}

// TimeRange is a meeting interval within one day.
type TimeRange struct {
	Start ClockTime `json:"start"`
	End   ClockTime `json:"end"`
}

// ParseTimeRange parses the "1000-1120" form used by the catalog. It returns
// false for "TBA", empty and malformed values, which all mean the section has
// no fixed time. An inverted range still parses; callers that lay it out are
// responsible for rejecting it.
func ParseTimeRange(s string) (TimeRange, bool) {
	s = strings.TrimSpace(s)
	if s == "" || strings.EqualFold(s, "TBA") {
		return TimeRange{}, false
	}
	start, end, found := strings.Cut(s, "-")
	if !found {
		return TimeRange{}, false
	}
	a, err := strconv.Atoi(strings.TrimSpace(start))
	if err != nil {
		return TimeRange{}, false
	}
	b, err := strconv.Atoi(strings.TrimSpace(end))
	if err != nil {
		return TimeRange{}, false
	}
	r := TimeRange{Start: ClockTime(a), End: ClockTime(b)}
	if !r.Start.Valid() || !r.End.Valid() {
		return TimeRange{}, false
	}
	return r, true
}

// FormatTimeRange renders a catalog time for display, "TBA" when unscheduled.
func FormatTimeRange(s string) string {
	r, ok := ParseTimeRange(s)
	if !ok {
		return "TBA"
	}
	return r.Start.String() + " - " + r.End.String()
}

// FormatDays renders a catalog day string for display.
func FormatDays(s string) string {
	if strings.TrimSpace(s) == "" {
		return "TBA"
	}
	return s
}

// Weekday is a teaching day of the week.
type Weekday int

const (
	Monday Weekday = iota
	Tuesday
	Wednesday
	Thursday
	Friday
)

// Weekdays lists the grid columns in display order.
var Weekdays = []Weekday{Monday, Tuesday, Wednesday, Thursday, Friday}

var weekdayNames = [...]string{"Monday", "Tuesday", "Wednesday", "Thursday", "Friday"}

func (d Weekday) String() string {
	if d < Monday || d > Friday {
		return "Weekday(" + strconv.Itoa(int(d)) + ")"
	}
	return weekdayNames[d]
}

// ParseWeekday maps a catalog day code (m, t, w, r, f) to a Weekday.
func ParseWeekday(code rune) (Weekday, bool) {
	switch unicode.ToLower(code) {
	case 'm':
		return Monday, true
	case 't':
		return Tuesday, true
	case 'w':
		return Wednesday, true
	case 'r':
		return Thursday, true
	case 'f':
		return Friday, true
	}
	return 0, false
}
