package model

import (
	"bytes"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
)

// AsyncLocation marks sections that have no fixed meeting time or room.
const AsyncLocation = "ASYNC WEB"

// Text decodes from either a JSON string or a JSON number. The generation
// service serialises catalog columns such as CRN and seat counts
// inconsistently depending on the source table.
type Text string

// UnmarshalJSON implements json.Unmarshaler.
func (t *Text) UnmarshalJSON(b []byte) error {
	b = bytes.TrimSpace(b)
	if bytes.Equal(b, []byte("null")) {
		*t = ""
		return nil
	}
	if len(b) > 0 && b[0] == '"' {
		var s string
		if err := json.Unmarshal(b, &s); err != nil {
			return err
		}
		*t = Text(s)
		return nil
	}
	var n json.Number
	if err := json.Unmarshal(b, &n); err != nil {
		return fmt.Errorf("text: expected string or number, got %s", b)
	}
	*t = Text(n.String())
	return nil
}

func (t Text) String() string { return string(t) }

// Section is one offered instance of a course as returned by the
// generation service.
type Section struct {
	CRN        Text   `json:"CRN"`
	Subj       string `json:"Subj"`
	Crse       Text   `json:"Crse"`
	Title      string `json:"Title"`
	Creds      Text   `json:"Creds"`
	Avail      Text   `json:"Avail"`
	Max        Text   `json:"Max"`
	Time       string `json:"Time"`
	Day        string `json:"Day"`
	Location   string `json:"Location"`
	Instructor string `json:"Instructor"`
	Notes      string `json:"Notes"`
}

// ID returns the section identifier used for locking.
func (s Section) ID() string { return string(s.CRN) }

// Async reports whether the section has no place on the weekly grid.
func (s Section) Async() bool {
	if strings.EqualFold(strings.TrimSpace(s.Location), AsyncLocation) {
		return true
	}
	_, ok := ParseTimeRange(s.Time)
	return !ok
}

// Schedule is one complete combination of sections, one per requested course,
// in the order the generation service returned them.
type Schedule []Section

// Contains reports whether the schedule includes the section id.
func (s Schedule) Contains(id string) bool {
	for _, sec := range s {
		if sec.ID() == id {
			return true
		}
	}
	return false
}

// IDs returns the section ids in schedule order.
func (s Schedule) IDs() []string {
	ids := make([]string, 0, len(s))
	for _, sec := range s {
		ids = append(ids, sec.ID())
	}
	return ids
}

// Key identifies the schedule by its section set, independent of order.
func (s Schedule) Key() string {
	ids := s.IDs()
	sort.Strings(ids)
	return strings.Join(ids, ",")
}

// CourseRef names a requested course. Field names follow the generation
// service request body.
type CourseRef struct {
	Subj string `json:"Subj"`
	Code string `json:"Code"`
}

// NewCourseRef normalises the subject code to upper case.
func NewCourseRef(subj, code string) CourseRef {
	return CourseRef{Subj: strings.ToUpper(strings.TrimSpace(subj)), Code: strings.TrimSpace(code)}
}

func (c CourseRef) String() string { return c.Subj + " " + c.Code }

// Conflict names a requested course that cannot be combined with the rest.
type Conflict = CourseRef

// CatalogEntry is one course offered by the catalog service.
type CatalogEntry struct {
	Subj string `json:"Subj"`
	Crse Text   `json:"Crse"`
}

// GenerateResponse is the body returned by the generation service.
type GenerateResponse struct {
	Schedules []Schedule `json:"schedules"`
	Count     int        `json:"count"`
	Message   string     `json:"message,omitempty"`
	Conflicts []Conflict `json:"conflicts,omitempty"`
}

// Infeasible reports whether the service found no combination and named the
// conflicting courses.
func (r GenerateResponse) Infeasible() bool {
	return len(r.Schedules) == 0 && len(r.Conflicts) > 0
}
