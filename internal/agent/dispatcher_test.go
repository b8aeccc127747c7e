package agent

import (
	"bytes"
	"fmt"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/bookslot/bookslot/internal/calendar"
	"github.com/bookslot/bookslot/internal/logging"
	"github.com/bookslot/bookslot/internal/schedule"
)

// fakeGateway is a scripted calendar gateway for dispatcher tests
type fakeGateway struct {
	available bool
	busy      []schedule.Busy
	created   *calendar.EventSummary
	upcoming  []calendar.EventSummary
	err       error

	lastInput      calendar.EventInput
	lastMaxResults int64
}

func (f *fakeGateway) CheckAvailability(start, end time.Time) (bool, error) {
	return f.available, f.err
}

func (f *fakeGateway) BusyTimes(date string) ([]schedule.Busy, error) {
	return f.busy, f.err
}

func (f *fakeGateway) CreateEvent(input calendar.EventInput) (*calendar.EventSummary, error) {
	f.lastInput = input
	return f.created, f.err
}

func (f *fakeGateway) UpcomingEvents(maxResults int64) ([]calendar.EventSummary, error) {
	f.lastMaxResults = maxResults
	return f.upcoming, f.err
}

func TestDispatchCheckAvailability(t *testing.T) {
	d := NewDispatcher(&fakeGateway{available: true})

	result := d.Dispatch("check_availability", map[string]any{
		"start_time": "2026-03-02T10:00:00",
		"end_time":   "2026-03-02T11:00:00",
	})

	require.Equal(t, true, result["success"])
	assert.Equal(t, true, result["available"])
	assert.Equal(t, "Time slot is available", result["message"])
}

func TestDispatchCheckAvailabilityBusy(t *testing.T) {
	d := NewDispatcher(&fakeGateway{available: false})

	result := d.Dispatch("check_availability", map[string]any{
		"start_time": "2026-03-02T10:00:00",
		"end_time":   "2026-03-02T11:00:00",
	})

	require.Equal(t, true, result["success"])
	assert.Equal(t, false, result["available"])
	assert.Equal(t, "Time slot is not available", result["message"])
}

func TestDispatchCheckAvailabilityInvalidTimestamp(t *testing.T) {
	d := NewDispatcher(&fakeGateway{available: true})

	result := d.Dispatch("check_availability", map[string]any{
		"start_time": "not-a-time",
		"end_time":   "2026-03-02T11:00:00",
	})

	require.Equal(t, false, result["success"])
	assert.Contains(t, result["error"], "start_time")
}

func TestDispatchCheckAvailabilityMissingArgument(t *testing.T) {
	d := NewDispatcher(&fakeGateway{available: true})

	result := d.Dispatch("check_availability", map[string]any{
		"start_time": "2026-03-02T10:00:00",
	})

	require.Equal(t, false, result["success"])
	assert.Contains(t, result["error"], "end_time")
}

func TestDispatchSuggestTimeSlots(t *testing.T) {
	gw := &fakeGateway{
		busy: []schedule.Busy{
			{Start: "2026-03-02T10:00:00Z", End: "2026-03-02T11:00:00Z", Summary: "Standup"},
		},
	}
	d := NewDispatcher(gw)

	result := d.Dispatch("suggest_time_slots", map[string]any{
		"date": "2026-03-02",
	})

	require.Equal(t, true, result["success"])

	slots, ok := result["slots"].([]map[string]any)
	require.True(t, ok)
	require.Len(t, slots, 2)
	assert.Equal(t, "2026-03-02T09:00:00", slots[0]["start"])
	assert.Equal(t, "2026-03-02T10:00:00", slots[0]["end"])
	assert.Equal(t, DefaultDurationMinutes, slots[0]["duration_minutes"])
	assert.Equal(t, "2026-03-02T11:00:00", slots[1]["start"])
	assert.Equal(t, "Found 2 available time slots", result["message"])
}

func TestDispatchSuggestTimeSlotsDefaults(t *testing.T) {
	// JSON decoding yields float64 for numbers; defaults fill the rest
	d := NewDispatcher(&fakeGateway{})

	result := d.Dispatch("suggest_time_slots", map[string]any{
		"date":             "2026-03-02",
		"duration_minutes": float64(30),
	})

	require.Equal(t, true, result["success"])
	slots := result["slots"].([]map[string]any)
	require.Len(t, slots, 1)
	assert.Equal(t, "2026-03-02T09:00:00", slots[0]["start"])
	assert.Equal(t, "2026-03-02T09:30:00", slots[0]["end"])
	assert.Equal(t, 30, slots[0]["duration_minutes"])
}

func TestDispatchSuggestTimeSlotsInvalidDate(t *testing.T) {
	d := NewDispatcher(&fakeGateway{})

	result := d.Dispatch("suggest_time_slots", map[string]any{
		"date": "02.03.2026",
	})

	require.Equal(t, false, result["success"])
}

func TestDispatchSuggestTimeSlotsMissingDate(t *testing.T) {
	d := NewDispatcher(&fakeGateway{})

	result := d.Dispatch("suggest_time_slots", map[string]any{})

	require.Equal(t, false, result["success"])
	assert.Contains(t, result["error"], "date")
}

func TestDispatchCreateAppointment(t *testing.T) {
	gw := &fakeGateway{
		created: &calendar.EventSummary{
			ID:       "evt-1",
			Summary:  "Dentist",
			Start:    time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			End:      time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
			HTMLLink: "https://calendar.google.com/event?eid=evt-1",
			Status:   "confirmed",
		},
	}
	d := NewDispatcher(gw)

	result := d.Dispatch("create_appointment", map[string]any{
		"summary":        "Dentist",
		"start_time":     "2026-03-02T10:00:00",
		"end_time":       "2026-03-02T11:00:00",
		"description":    "Checkup",
		"attendee_email": "jane@example.com",
	})

	require.Equal(t, true, result["success"])
	assert.Equal(t, "Appointment created successfully", result["message"])

	event, ok := result["event"].(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "evt-1", event["id"])
	assert.Equal(t, "Dentist", event["summary"])
	assert.Equal(t, "2026-03-02T10:00:00Z", event["start"])
	assert.Equal(t, "2026-03-02T11:00:00Z", event["end"])
	assert.Equal(t, "confirmed", event["status"])

	assert.Equal(t, "Checkup", gw.lastInput.Description)
	assert.Equal(t, "jane@example.com", gw.lastInput.AttendeeEmail)
}

func TestDispatchCreateAppointmentAnonymizesAttendeeInLogs(t *testing.T) {
	gw := &fakeGateway{
		created: &calendar.EventSummary{
			ID:    "evt-1",
			Start: time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
			End:   time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
		},
	}
	d := NewDispatcher(gw)

	var buf bytes.Buffer
	prev := slog.Default()
	slog.SetDefault(slog.New(slog.NewTextHandler(&buf, &slog.HandlerOptions{Level: slog.LevelDebug})))
	defer slog.SetDefault(prev)

	result := d.Dispatch("create_appointment", map[string]any{
		"summary":        "Dentist",
		"start_time":     "2026-03-02T10:00:00",
		"end_time":       "2026-03-02T11:00:00",
		"attendee_email": "jane@example.com",
	})
	require.Equal(t, true, result["success"])

	logged := buf.String()
	assert.NotContains(t, logged, "jane@example.com")
	assert.Contains(t, logged, logging.KeyUserHash)
	assert.Contains(t, logged, logging.AnonymizeEmail("jane@example.com"))
}

func TestDispatchCreateAppointmentMissingSummary(t *testing.T) {
	d := NewDispatcher(&fakeGateway{})

	result := d.Dispatch("create_appointment", map[string]any{
		"start_time": "2026-03-02T10:00:00",
		"end_time":   "2026-03-02T11:00:00",
	})

	require.Equal(t, false, result["success"])
	assert.Contains(t, result["error"], "summary")
}

func TestDispatchUpcomingEvents(t *testing.T) {
	gw := &fakeGateway{
		upcoming: []calendar.EventSummary{
			{
				ID:     "evt-1",
				Start:  time.Date(2026, 3, 2, 10, 0, 0, 0, time.UTC),
				End:    time.Date(2026, 3, 2, 11, 0, 0, 0, time.UTC),
				Status: "confirmed",
			},
		},
	}
	d := NewDispatcher(gw)

	result := d.Dispatch("get_upcoming_events", map[string]any{})

	require.Equal(t, true, result["success"])
	assert.Equal(t, int64(DefaultUpcomingEvents), gw.lastMaxResults)
	assert.Equal(t, "Retrieved 1 upcoming events", result["message"])

	events := result["events"].([]map[string]any)
	require.Len(t, events, 1)
	// Untitled events get a placeholder
	assert.Equal(t, "No Title", events[0]["summary"])
}

func TestDispatchUpcomingEventsMaxResults(t *testing.T) {
	gw := &fakeGateway{}
	d := NewDispatcher(gw)

	result := d.Dispatch("get_upcoming_events", map[string]any{
		"max_results": float64(3),
	})

	require.Equal(t, true, result["success"])
	assert.Equal(t, int64(3), gw.lastMaxResults)
}

func TestDispatchGatewayError(t *testing.T) {
	d := NewDispatcher(&fakeGateway{err: fmt.Errorf("calendar unreachable")})

	result := d.Dispatch("get_upcoming_events", map[string]any{})

	require.Equal(t, false, result["success"])
	assert.Equal(t, "calendar unreachable", result["error"])
}

func TestDispatchUnknownFunction(t *testing.T) {
	d := NewDispatcher(&fakeGateway{})

	result := d.Dispatch("delete_everything", map[string]any{})

	require.Equal(t, false, result["success"])
	assert.Contains(t, result["error"], "unknown function")
}
