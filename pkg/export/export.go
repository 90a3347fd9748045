package export

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"io"

	"github.com/kilianp07/classgrid/core/browser"
)

// Formats accepted by Write.
const (
	FormatJSON = "json"
	FormatCSV  = "csv"
)

var csvHeader = []string{"crn", "course", "title", "time", "days", "location", "instructor", "seats", "locked"}

// WriteJSON writes the section list to w in JSON format.
func WriteJSON(w io.Writer, rows []browser.SectionRow) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(rows)
}

// WriteCSV writes the section list to w in CSV format with a header line.
func WriteCSV(w io.Writer, rows []browser.SectionRow) error {
	cw := csv.NewWriter(w)
	if err := cw.Write(csvHeader); err != nil {
		return err
	}
	for _, r := range rows {
		locked := "no"
		if r.Locked {
			locked = "yes"
		}
		rec := []string{r.ID, r.Course, r.Title, r.Time, r.Days, r.Location, r.Instructor, r.Seats, locked}
		if err := cw.Write(rec); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// Write dispatches on format.
func Write(w io.Writer, format string, rows []browser.SectionRow) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, rows)
	case FormatCSV:
		return WriteCSV(w, rows)
	default:
		return fmt.Errorf("unsupported export format: %s", format)
	}
}

// ContentType returns the MIME type for format.
func ContentType(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/json"
}
