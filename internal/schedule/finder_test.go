package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func mustWindow(t *testing.T, date string, startHour, endHour int) Window {
	t.Helper()
	w, err := NewWindow(date, startHour, endHour)
	require.NoError(t, err)
	return w
}

func at(t *testing.T, value string) time.Time {
	t.Helper()
	ts, err := ParseTimestamp(value)
	require.NoError(t, err)
	return ts
}

func TestFind_SingleBusyInterval(t *testing.T) {
	// Window 09:00-17:00, duration 60, busy 10:00-11:00. The sweep emits
	// one slot for the gap before the busy interval and one for the tail,
	// not a full tiling of the afternoon.
	w := mustWindow(t, "2025-03-10", 9, 17)
	busy := []Busy{
		{Start: "2025-03-10T10:00:00", End: "2025-03-10T11:00:00", Summary: "Standup"},
	}

	slots, err := Find(w, busy, 60, 5)
	require.NoError(t, err)
	require.Len(t, slots, 2)

	assert.Equal(t, at(t, "2025-03-10T09:00:00"), slots[0].Start)
	assert.Equal(t, at(t, "2025-03-10T10:00:00"), slots[0].End)
	assert.Equal(t, at(t, "2025-03-10T11:00:00"), slots[1].Start)
	assert.Equal(t, at(t, "2025-03-10T12:00:00"), slots[1].End)
	for _, s := range slots {
		assert.Equal(t, 60, s.DurationMinutes)
	}
}

func TestFind_OverlappingBusyIntervals(t *testing.T) {
	// Overlapping busy intervals are absorbed by the cursor advance:
	// after 09:00-09:30 and 09:15-10:00 the cursor sits at 10:00 and the
	// next slot starts there.
	w := mustWindow(t, "2025-03-10", 9, 17)
	busy := []Busy{
		{Start: "2025-03-10T09:00:00", End: "2025-03-10T09:30:00"},
		{Start: "2025-03-10T09:15:00", End: "2025-03-10T10:00:00"},
	}

	slots, err := Find(w, busy, 60, 5)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, at(t, "2025-03-10T10:00:00"), slots[0].Start)
	assert.Equal(t, at(t, "2025-03-10T11:00:00"), slots[0].End)
}

func TestFind_MalformedEntrySkipped(t *testing.T) {
	w := mustWindow(t, "2025-03-10", 9, 17)
	busy := []Busy{
		{Start: "not-a-timestamp", End: "2025-03-10T10:00:00"},
		{Start: "2025-03-10T10:00:00", End: "2025-03-10T11:00:00"},
	}

	slots, err := Find(w, busy, 60, 5)
	require.NoError(t, err)
	require.Len(t, slots, 2)
	assert.Equal(t, at(t, "2025-03-10T09:00:00"), slots[0].Start)
	assert.Equal(t, at(t, "2025-03-10T11:00:00"), slots[1].Start)
}

func TestFind_MaxResultsTruncates(t *testing.T) {
	// Three gaps fit a slot; maxResults=1 keeps only the earliest.
	w := mustWindow(t, "2025-03-10", 9, 17)
	busy := []Busy{
		{Start: "2025-03-10T10:00:00", End: "2025-03-10T11:00:00"},
		{Start: "2025-03-10T12:00:00", End: "2025-03-10T13:00:00"},
	}

	slots, err := Find(w, busy, 60, 1)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, at(t, "2025-03-10T09:00:00"), slots[0].Start)
}

func TestFind_NoBusyIntervals(t *testing.T) {
	// The single-pass sweep yields exactly one slot for an empty day:
	// the tail starting at the window start. No tiling.
	w := mustWindow(t, "2025-03-10", 9, 17)

	slots, err := Find(w, nil, 60, 5)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, at(t, "2025-03-10T09:00:00"), slots[0].Start)
	assert.Equal(t, at(t, "2025-03-10T10:00:00"), slots[0].End)
}

func TestFind_WindowExactlyOneDuration(t *testing.T) {
	w := mustWindow(t, "2025-03-10", 9, 10)

	slots, err := Find(w, nil, 60, 5)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, w.Start(), slots[0].Start)
	assert.Equal(t, w.End(), slots[0].End)
}

func TestFind_BusyCoversEntireWindow(t *testing.T) {
	w := mustWindow(t, "2025-03-10", 9, 17)
	busy := []Busy{
		{Start: "2025-03-10T08:00:00", End: "2025-03-10T18:00:00", Summary: "Offsite"},
	}

	slots, err := Find(w, busy, 60, 5)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestFind_GapShorterThanDuration(t *testing.T) {
	// 30 minute gap between busy intervals; a 60 minute request emits
	// nothing for it. No partial slots.
	w := mustWindow(t, "2025-03-10", 9, 12)
	busy := []Busy{
		{Start: "2025-03-10T09:00:00", End: "2025-03-10T10:00:00"},
		{Start: "2025-03-10T10:30:00", End: "2025-03-10T11:30:00"},
	}

	slots, err := Find(w, busy, 60, 5)
	require.NoError(t, err)
	assert.Empty(t, slots)
}

func TestFind_AllDayEntriesIgnored(t *testing.T) {
	// Date-only entries do not block the day.
	w := mustWindow(t, "2025-03-10", 9, 17)
	busy := []Busy{
		{Start: "2025-03-10", End: "2025-03-11", Summary: "Company holiday"},
	}

	slots, err := Find(w, busy, 60, 5)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, at(t, "2025-03-10T09:00:00"), slots[0].Start)
}

func TestFind_ReversedIntervalDropped(t *testing.T) {
	w := mustWindow(t, "2025-03-10", 9, 17)
	busy := []Busy{
		{Start: "2025-03-10T11:00:00", End: "2025-03-10T10:00:00"},
	}

	slots, err := Find(w, busy, 60, 5)
	require.NoError(t, err)
	require.Len(t, slots, 1)
	assert.Equal(t, at(t, "2025-03-10T09:00:00"), slots[0].Start)
}

func TestFind_UnsortedInputSortedByStart(t *testing.T) {
	w := mustWindow(t, "2025-03-10", 9, 17)
	busy := []Busy{
		{Start: "2025-03-10T14:00:00", End: "2025-03-10T15:00:00"},
		{Start: "2025-03-10T10:00:00", End: "2025-03-10T11:00:00"},
	}

	slots, err := Find(w, busy, 60, 5)
	require.NoError(t, err)
	require.Len(t, slots, 3)
	assert.Equal(t, at(t, "2025-03-10T09:00:00"), slots[0].Start)
	assert.Equal(t, at(t, "2025-03-10T11:00:00"), slots[1].Start)
	assert.Equal(t, at(t, "2025-03-10T15:00:00"), slots[2].Start)
}

func TestFind_SlotProperties(t *testing.T) {
	// Emitted slots are chronologically ordered, pairwise non-overlapping,
	// exactly duration long, inside the window, and clear of busy time.
	w := mustWindow(t, "2025-03-10", 8, 18)
	busy := []Busy{
		{Start: "2025-03-10T09:30:00Z", End: "2025-03-10T10:15:00Z"},
		{Start: "2025-03-10T12:00:00", End: "2025-03-10T13:30:00"},
		{Start: "2025-03-10T13:00:00", End: "2025-03-10T14:00:00"},
		{Start: "garbage", End: "2025-03-10T15:00:00"},
	}

	slots, err := Find(w, busy, 45, 5)
	require.NoError(t, err)
	require.NotEmpty(t, slots)

	normalized := normalize(busy)
	for i, s := range slots {
		assert.Equal(t, 45*time.Minute, s.End.Sub(s.Start))
		assert.Equal(t, 45, s.DurationMinutes)
		assert.False(t, s.Start.Before(w.Start()), "slot starts before window")
		assert.False(t, s.End.After(w.End()), "slot ends after window")
		if i > 0 {
			assert.False(t, s.Start.Before(slots[i-1].End), "slots overlap or are out of order")
		}
		for _, iv := range normalized {
			overlap := s.Start.Before(iv.end) && iv.start.Before(s.End)
			assert.False(t, overlap, "slot %v-%v overlaps busy %v-%v", s.Start, s.End, iv.start, iv.end)
		}
	}
}

func TestFind_Idempotent(t *testing.T) {
	w := mustWindow(t, "2025-03-10", 9, 17)
	busy := []Busy{
		{Start: "2025-03-10T10:00:00", End: "2025-03-10T11:00:00"},
		{Start: "2025-03-10T13:00:00", End: "2025-03-10T13:30:00"},
	}

	first, err := Find(w, busy, 30, 5)
	require.NoError(t, err)
	second, err := Find(w, busy, 30, 5)
	require.NoError(t, err)
	assert.Equal(t, first, second)
}

func TestFind_InvalidRequests(t *testing.T) {
	w := mustWindow(t, "2025-03-10", 9, 17)

	tests := []struct {
		name            string
		window          Window
		durationMinutes int
		maxResults      int
	}{
		{name: "zero window", window: Window{}, durationMinutes: 60, maxResults: 5},
		{name: "zero duration", window: w, durationMinutes: 0, maxResults: 5},
		{name: "negative duration", window: w, durationMinutes: -30, maxResults: 5},
		{name: "zero max results", window: w, durationMinutes: 60, maxResults: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Find(tt.window, nil, tt.durationMinutes, tt.maxResults)
			require.Error(t, err)
			assert.ErrorIs(t, err, ErrInvalidArgument)
		})
	}
}

func TestParseTimestamp(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    string
		wantErr bool
	}{
		{name: "naive", input: "2025-03-10T09:00:00", want: "2025-03-10T09:00:00"},
		{name: "utc marker stripped", input: "2025-03-10T09:00:00Z", want: "2025-03-10T09:00:00"},
		{name: "offset stripped not converted", input: "2025-03-10T09:00:00+02:00", want: "2025-03-10T09:00:00"},
		{name: "negative offset stripped", input: "2025-03-10T09:00:00-05:00", want: "2025-03-10T09:00:00"},
		{name: "minutes precision", input: "2025-03-10T09:00", want: "2025-03-10T09:00:00"},
		{name: "surrounding whitespace", input: "  2025-03-10T09:00:00  ", want: "2025-03-10T09:00:00"},
		{name: "date only", input: "2025-03-10", wantErr: true},
		{name: "garbage", input: "next tuesday", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTimestamp(tt.input)
			if tt.wantErr {
				require.Error(t, err)
				assert.ErrorIs(t, err, ErrInvalidArgument)
				return
			}
			require.NoError(t, err)
			want, err := time.Parse(timestampLayout, tt.want)
			require.NoError(t, err)
			assert.Equal(t, want, got)
		})
	}
}
