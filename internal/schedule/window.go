package schedule

import (
	"errors"
	"fmt"
	"time"
)

// ErrInvalidArgument is returned when a request is structurally invalid:
// an unparsable date, hours outside 0-23, or a non-positive duration.
// Individual busy entries are never rejected with this error; they are
// dropped during normalization instead.
var ErrInvalidArgument = errors.New("invalid argument")

const (
	dateLayout      = "2006-01-02"
	timestampLayout = "2006-01-02T15:04:05"
)

// Window is the bounded part of a single day that is eligible for
// scheduling: a calendar date plus a preferred start and end hour.
// The zero value is not usable; construct one with NewWindow.
type Window struct {
	day       time.Time
	startHour int
	endHour   int
}

// NewWindow validates and builds a working window for the given date
// (YYYY-MM-DD) and preferred hours (24-hour clock).
func NewWindow(date string, startHour, endHour int) (Window, error) {
	day, err := time.Parse(dateLayout, date)
	if err != nil {
		return Window{}, fmt.Errorf("%w: unparsable date %q", ErrInvalidArgument, date)
	}
	if startHour < 0 || startHour > 23 || endHour < 0 || endHour > 23 {
		return Window{}, fmt.Errorf("%w: hours must be within 0-23, got %d-%d", ErrInvalidArgument, startHour, endHour)
	}
	if startHour >= endHour {
		return Window{}, fmt.Errorf("%w: start hour %d is not before end hour %d", ErrInvalidArgument, startHour, endHour)
	}
	return Window{day: day, startHour: startHour, endHour: endHour}, nil
}

// Date returns the window's calendar date in YYYY-MM-DD form.
func (w Window) Date() string {
	return w.day.Format(dateLayout)
}

// Start returns the earliest schedulable instant of the window.
func (w Window) Start() time.Time {
	return w.day.Add(time.Duration(w.startHour) * time.Hour)
}

// End returns the exclusive upper bound of the window.
func (w Window) End() time.Time {
	return w.day.Add(time.Duration(w.endHour) * time.Hour)
}

// isZero reports whether the window was built via NewWindow.
func (w Window) isZero() bool {
	return w.day.IsZero()
}
