// Package schedule computes free appointment slots for a single day.
//
// The finder is a pure function over in-memory data: given a working
// window, the day's busy entries as reported by the calendar backend, a
// requested duration and a result cap, it returns the open intervals a
// new appointment could occupy. All computation happens in a single naive
// reference timezone; UTC markers on input timestamps are stripped, not
// converted.
//
// Busy entries are treated as untrusted input. All-day events and entries
// with unparsable timestamps are dropped per item rather than failing the
// whole request; only a structurally invalid window or request fails, with
// an error wrapping ErrInvalidArgument.
package schedule
