package timegrid

import (
	"errors"
	"fmt"

	"github.com/kilianp07/classgrid/core/model"
)

// Layout errors.
var (
	ErrDegenerateTimeRange = errors.New("degenerate time range")
	ErrUnknownWeekday      = errors.New("unknown weekday")
)

// DegenerateTimeRangeError reports a grid window or block whose end does not
// come after its start. SectionID is empty when the whole window collapsed.
type DegenerateTimeRangeError struct {
	SectionID string
	Start     model.ClockTime
	End       model.ClockTime
}

func (e *DegenerateTimeRangeError) Error() string {
	if e.SectionID == "" {
		return fmt.Sprintf("degenerate time range: latest %04d is not after earliest %04d", int(e.End), int(e.Start))
	}
	return fmt.Sprintf("degenerate time range for section %s: %04d-%04d", e.SectionID, int(e.Start), int(e.End))
}

func (e *DegenerateTimeRangeError) Is(target error) bool { return target == ErrDegenerateTimeRange }

// UnknownWeekdayError reports a day code outside Monday..Friday.
type UnknownWeekdayError struct {
	SectionID string
	Code      rune
}

func (e *UnknownWeekdayError) Error() string {
	return fmt.Sprintf("unknown weekday %q for section %s", e.Code, e.SectionID)
}

func (e *UnknownWeekdayError) Is(target error) bool { return target == ErrUnknownWeekday }
