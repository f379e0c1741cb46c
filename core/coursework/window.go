package coursework

import (
	"time"

	"github.com/pkg/errors"

	"github.com/trezcool/studyplanner/core"
)

const day = 24 * time.Hour

var errWindowReversed = errors.New("endDate must not be before startDate")

// Window is an inclusive range of wall-clock times. Its bounds carry no zone of their own:
// they are read in the zone of whatever instant they are compared to.
// A zero bound leaves that side open.
type Window struct {
	Start time.Time
	End   time.Time
}

// NewWindow builds a window from naive bounds, rejecting reversed ones.
func NewWindow(start, end time.Time) (Window, error) {
	w := Window{Start: core.Naive(start), End: core.Naive(end)}
	if w.End.Before(w.Start) {
		return Window{}, core.NewValidationError(errWindowReversed)
	}
	return w, nil
}

// ParseWindow reads optional ISO-8601 bounds. A missing start means now, a missing end means start + 7 days.
func ParseWindow(startStr, endStr string) (Window, error) {
	start := core.Naive(core.NowFunc())
	if startStr != "" {
		t, err := core.ParseNaiveTime(startStr)
		if err != nil {
			return Window{}, core.NewValidationError(err, core.FieldError{Field: "startDate", Error: err.Error()})
		}
		start = t
	}
	end := start.Add(7 * day)
	if endStr != "" {
		t, err := core.ParseNaiveTime(endStr)
		if err != nil {
			return Window{}, core.NewValidationError(err, core.FieldError{Field: "endDate", Error: err.Error()})
		}
		end = t
	}
	return NewWindow(start, end)
}

// Contains reports whether due falls within the window, bounds included.
func (w Window) Contains(due time.Time) bool {
	loc := due.Location()
	if !w.Start.IsZero() && due.Before(inLocation(w.Start, loc)) {
		return false
	}
	if !w.End.IsZero() && due.After(inLocation(w.End, loc)) {
		return false
	}
	return true
}

// Days counts the calendar days the window covers: whole days between the bounds, plus one.
func (w Window) Days() int {
	if w.Start.IsZero() || w.End.IsZero() || w.End.Before(w.Start) {
		return 0
	}
	return int(w.End.Sub(w.Start)/day) + 1
}

func inLocation(t time.Time, loc *time.Location) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), t.Hour(), t.Minute(), t.Second(), t.Nanosecond(), loc)
}
