package cmd

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/kilianp07/classgrid/core/model"
)

func TestParseCourses(t *testing.T) {
	got, err := parseCourses([]string{"cs:210", "MATH:251"})
	require.NoError(t, err)
	assert.Equal(t, []model.CourseRef{{Subj: "CS", Code: "210"}, {Subj: "MATH", Code: "251"}}, got)

	_, err = parseCourses([]string{"CS210"})
	assert.Error(t, err)
}

const savedResponse = `{"schedules":[
 [{"CRN":"1","Subj":"CS","Crse":"210","Time":"0900-0950","Day":"m"},{"CRN":"2","Subj":"CS","Crse":"211","Time":"1000-1050","Day":"m"}],
 [{"CRN":"3","Subj":"CS","Crse":"210","Time":"1300-1350","Day":"f"}]
],"count":2}`

func TestPrintLayout(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printLayout(&out, strings.NewReader(savedResponse), 0, "grid"))
	assert.Contains(t, out.String(), "9:00 AM")
	assert.Contains(t, out.String(), "CS 211")

	out.Reset()
	require.NoError(t, printLayout(&out, strings.NewReader(savedResponse), 1, "grid"))
	assert.Contains(t, out.String(), "Schedule 2 of 2")
	assert.Contains(t, out.String(), "1:00 PM")

	assert.Error(t, printLayout(&out, strings.NewReader(savedResponse), 5, "grid"))
	assert.Error(t, printLayout(&out, strings.NewReader("{"), 0, "grid"))
}

func TestPrintLayoutConflicts(t *testing.T) {
	var out bytes.Buffer
	resp := `{"schedules":[],"count":0,"conflicts":[{"Subj":"CS","Code":"210"},{"Subj":"CS","Code":"211"}]}`
	require.NoError(t, printLayout(&out, strings.NewReader(resp), 0, "grid"))
	assert.Contains(t, out.String(), "No valid schedules found due to conflicts")
}

func TestPrintLayoutCSV(t *testing.T) {
	var out bytes.Buffer
	require.NoError(t, printLayout(&out, strings.NewReader(savedResponse), 0, "csv"))
	lines := strings.Split(strings.TrimSpace(out.String()), "\n")
	require.Len(t, lines, 3)
	assert.True(t, strings.HasPrefix(lines[1], "1,CS 210"))
	assert.Error(t, printLayout(&out, strings.NewReader(savedResponse), 0, "xml"))
}
