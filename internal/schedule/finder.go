package schedule

import (
	"fmt"
	"log/slog"
	"sort"
	"strings"
	"time"
)

// Busy is a pre-existing commitment as the calendar backend reported it.
// Timestamps are kept raw: they may carry a UTC marker or offset, may be
// date-only (all-day events), or may be malformed. Normalization happens
// inside Find.
type Busy struct {
	Start   string
	End     string
	Summary string
}

// Slot is a candidate open interval of the requested duration. Slots are
// computed fresh on every request and never persisted.
type Slot struct {
	Start           time.Time
	End             time.Time
	DurationMinutes int
}

// interval is a normalized busy period.
type interval struct {
	start time.Time
	end   time.Time
}

// Find computes available slots within the working window given the day's
// busy entries. It walks the busy intervals in start order with a sweep
// cursor, emitting at most one slot per gap plus one for the remaining
// tail, and truncates the result to maxResults (earliest first).
//
// Busy entries that are all-day, unparsable, or empty once normalized are
// dropped, not reported as errors. Overlapping and nested busy intervals
// are absorbed by advancing the cursor to the furthest busy end seen, so
// no explicit merge pass is needed.
func Find(w Window, busy []Busy, durationMinutes, maxResults int) ([]Slot, error) {
	if w.isZero() {
		return nil, fmt.Errorf("%w: working window not initialized", ErrInvalidArgument)
	}
	if durationMinutes <= 0 {
		return nil, fmt.Errorf("%w: duration must be positive, got %d minutes", ErrInvalidArgument, durationMinutes)
	}
	if maxResults <= 0 {
		return nil, fmt.Errorf("%w: max results must be positive, got %d", ErrInvalidArgument, maxResults)
	}

	intervals := normalize(busy)
	sort.Slice(intervals, func(i, j int) bool {
		return intervals[i].start.Before(intervals[j].start)
	})

	duration := time.Duration(durationMinutes) * time.Minute
	cursor := w.Start()
	windowEnd := w.End()

	var slots []Slot
	for _, iv := range intervals {
		// cursor+duration <= iv.start means the gap before this busy
		// interval fits one slot.
		if !cursor.Add(duration).After(iv.start) {
			slots = append(slots, Slot{Start: cursor, End: cursor.Add(duration), DurationMinutes: durationMinutes})
		}
		if iv.end.After(cursor) {
			cursor = iv.end
		}
	}
	if !cursor.Add(duration).After(windowEnd) {
		slots = append(slots, Slot{Start: cursor, End: cursor.Add(duration), DurationMinutes: durationMinutes})
	}

	if len(slots) > maxResults {
		slots = slots[:maxResults]
	}
	return slots, nil
}

// normalize parses raw busy entries into intervals. All-day entries (no
// time of day) do not block slots and are skipped. Entries that cannot be
// parsed, or whose start is not before their end, are dropped; dropped
// counts are surfaced at debug level only, so backend data issues remain
// visible without changing the result.
func normalize(busy []Busy) []interval {
	intervals := make([]interval, 0, len(busy))
	var allDay, dropped int
	for _, b := range busy {
		if !strings.Contains(b.Start, "T") || !strings.Contains(b.End, "T") {
			allDay++
			continue
		}
		start, err := ParseTimestamp(b.Start)
		if err != nil {
			dropped++
			continue
		}
		end, err := ParseTimestamp(b.End)
		if err != nil {
			dropped++
			continue
		}
		if !start.Before(end) {
			dropped++
			continue
		}
		intervals = append(intervals, interval{start: start, end: end})
	}
	if allDay > 0 || dropped > 0 {
		slog.Debug("skipped busy entries during normalization",
			slog.Int("all_day", allDay),
			slog.Int("malformed", dropped),
			slog.Int("kept", len(intervals)))
	}
	return intervals
}

// ParseTimestamp parses an ISO 8601 timestamp into a naive time in the
// reference timezone. A trailing UTC marker or numeric offset is stripped
// rather than converted; date-only values are rejected so callers can
// treat all-day entries separately.
func ParseTimestamp(s string) (time.Time, error) {
	raw := strings.TrimSpace(s)
	if !strings.Contains(raw, "T") {
		return time.Time{}, fmt.Errorf("%w: %q has no time of day", ErrInvalidArgument, s)
	}
	naive := stripZoneMarker(raw)
	for _, layout := range []string{timestampLayout, "2006-01-02T15:04:05.999999999", "2006-01-02T15:04"} {
		if t, err := time.Parse(layout, naive); err == nil {
			return t, nil
		}
	}
	return time.Time{}, fmt.Errorf("%w: unparsable timestamp %q", ErrInvalidArgument, s)
}

// stripZoneMarker removes a trailing "Z" or "+HH:MM"/"-HH:MM" offset.
// The sign search stays right of the "T" so date separators are untouched.
func stripZoneMarker(s string) string {
	if strings.HasSuffix(s, "Z") {
		return s[:len(s)-1]
	}
	if t := strings.Index(s, "T"); t >= 0 {
		if i := strings.LastIndexAny(s, "+-"); i > t {
			return s[:i]
		}
	}
	return s
}
