package agent

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/bookslot/bookslot/internal/calendar"
	"github.com/bookslot/bookslot/internal/logging"
	"github.com/bookslot/bookslot/internal/schedule"
)

// Defaults applied when the model omits optional arguments
const (
	DefaultDurationMinutes = 60
	DefaultStartHour       = 9
	DefaultEndHour         = 17
	DefaultUpcomingEvents  = 10

	// MaxSuggestedSlots caps how many slots a suggestion returns
	MaxSuggestedSlots = 5
)

const payloadTimeLayout = "2006-01-02T15:04:05"

// Dispatcher maps booking action names to calendar gateway calls.
// Results are returned as plain maps so they can be serialized for the
// model verbatim; failures are reported in-band with success=false.
type Dispatcher struct {
	gateway Gateway
}

// NewDispatcher creates a dispatcher backed by the given calendar gateway
func NewDispatcher(gateway Gateway) *Dispatcher {
	return &Dispatcher{gateway: gateway}
}

// Dispatch executes the named booking action with the given arguments
func (d *Dispatcher) Dispatch(name string, args map[string]any) map[string]any {
	var result map[string]any

	switch name {
	case "check_availability":
		result = d.checkAvailability(args)
	case "suggest_time_slots":
		result = d.suggestTimeSlots(args)
	case "create_appointment":
		result = d.createAppointment(args)
	case "get_upcoming_events":
		result = d.upcomingEvents(args)
	default:
		result = failure(fmt.Errorf("unknown function: %s", name))
	}

	status := "success"
	if ok, _ := result["success"].(bool); !ok {
		status = "error"
	}
	slog.Debug("Dispatched booking action",
		logging.Operation(name),
		logging.Status(status))

	return result
}

func (d *Dispatcher) checkAvailability(args map[string]any) map[string]any {
	start, err := requiredTimestamp(args, "start_time")
	if err != nil {
		return failure(err)
	}
	end, err := requiredTimestamp(args, "end_time")
	if err != nil {
		return failure(err)
	}

	available, err := d.gateway.CheckAvailability(start, end)
	if err != nil {
		return failure(err)
	}

	message := "Time slot is not available"
	if available {
		message = "Time slot is available"
	}

	return map[string]any{
		"success":   true,
		"available": available,
		"message":   message,
	}
}

// SuggestSlots computes free slots of the requested duration within the
// working-hour window on the given date
func (d *Dispatcher) SuggestSlots(date string, durationMinutes, startHour, endHour int) ([]schedule.Slot, error) {
	window, err := schedule.NewWindow(date, startHour, endHour)
	if err != nil {
		return nil, err
	}

	busy, err := d.gateway.BusyTimes(date)
	if err != nil {
		return nil, err
	}

	return schedule.Find(window, busy, durationMinutes, MaxSuggestedSlots)
}

func (d *Dispatcher) suggestTimeSlots(args map[string]any) map[string]any {
	date, err := requiredString(args, "date")
	if err != nil {
		return failure(err)
	}
	duration := intArg(args, "duration_minutes", DefaultDurationMinutes)
	startHour := intArg(args, "preferred_start_hour", DefaultStartHour)
	endHour := intArg(args, "preferred_end_hour", DefaultEndHour)

	slots, err := d.SuggestSlots(date, duration, startHour, endHour)
	if err != nil {
		return failure(err)
	}

	payload := make([]map[string]any, 0, len(slots))
	for _, slot := range slots {
		payload = append(payload, map[string]any{
			"start":            slot.Start.Format(payloadTimeLayout),
			"end":              slot.End.Format(payloadTimeLayout),
			"duration_minutes": slot.DurationMinutes,
		})
	}

	return map[string]any{
		"success": true,
		"slots":   payload,
		"message": fmt.Sprintf("Found %d available time slots", len(payload)),
	}
}

func (d *Dispatcher) createAppointment(args map[string]any) map[string]any {
	summary, err := requiredString(args, "summary")
	if err != nil {
		return failure(err)
	}
	start, err := requiredTimestamp(args, "start_time")
	if err != nil {
		return failure(err)
	}
	end, err := requiredTimestamp(args, "end_time")
	if err != nil {
		return failure(err)
	}

	attendee := stringArg(args, "attendee_email", "")
	event, err := d.gateway.CreateEvent(calendar.EventInput{
		Summary:       summary,
		Description:   stringArg(args, "description", ""),
		Start:         start,
		End:           end,
		AttendeeEmail: attendee,
	})
	if err != nil {
		return failure(err)
	}

	if attendee != "" {
		// Attendee addresses are PII; log a hash so bookings stay
		// correlatable without exposing the address
		slog.Info("Created appointment with attendee",
			logging.Operation("create_appointment"),
			logging.UserHash(attendee))
	}

	return map[string]any{
		"success": true,
		"event": map[string]any{
			"id":        event.ID,
			"summary":   event.Summary,
			"start":     event.Start.UTC().Format(time.RFC3339),
			"end":       event.End.UTC().Format(time.RFC3339),
			"html_link": event.HTMLLink,
			"status":    event.Status,
		},
		"message": "Appointment created successfully",
	}
}

func (d *Dispatcher) upcomingEvents(args map[string]any) map[string]any {
	maxResults := intArg(args, "max_results", DefaultUpcomingEvents)
	if maxResults <= 0 {
		return failure(fmt.Errorf("max_results must be positive: %w", schedule.ErrInvalidArgument))
	}

	events, err := d.gateway.UpcomingEvents(int64(maxResults))
	if err != nil {
		return failure(err)
	}

	payload := make([]map[string]any, 0, len(events))
	for _, event := range events {
		summary := event.Summary
		if summary == "" {
			summary = "No Title"
		}
		payload = append(payload, map[string]any{
			"id":          event.ID,
			"summary":     summary,
			"start":       event.Start.UTC().Format(time.RFC3339),
			"end":         event.End.UTC().Format(time.RFC3339),
			"description": event.Description,
			"status":      event.Status,
		})
	}

	return map[string]any{
		"success": true,
		"events":  payload,
		"message": fmt.Sprintf("Retrieved %d upcoming events", len(payload)),
	}
}

func failure(err error) map[string]any {
	return map[string]any{
		"success": false,
		"error":   err.Error(),
	}
}

func requiredString(args map[string]any, key string) (string, error) {
	v, ok := args[key].(string)
	if !ok || v == "" {
		return "", fmt.Errorf("missing required argument %q: %w", key, schedule.ErrInvalidArgument)
	}
	return v, nil
}

func requiredTimestamp(args map[string]any, key string) (time.Time, error) {
	v, err := requiredString(args, key)
	if err != nil {
		return time.Time{}, err
	}
	t, err := schedule.ParseTimestamp(v)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid %s: %w", key, err)
	}
	return t, nil
}

func stringArg(args map[string]any, key, fallback string) string {
	if v, ok := args[key].(string); ok {
		return v
	}
	return fallback
}

// intArg supports both native ints and the float64 values JSON decoding
// produces
func intArg(args map[string]any, key string, fallback int) int {
	switch v := args[key].(type) {
	case int:
		return v
	case int64:
		return int(v)
	case float64:
		return int(v)
	default:
		return fallback
	}
}
