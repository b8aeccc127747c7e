package agent

import (
	"time"

	"github.com/bookslot/bookslot/internal/calendar"
	"github.com/bookslot/bookslot/internal/schedule"
)

// Gateway is the calendar surface the booking actions run against.
// *calendar.Client satisfies it; tests substitute a fake.
type Gateway interface {
	CheckAvailability(start, end time.Time) (bool, error)
	BusyTimes(date string) ([]schedule.Busy, error)
	CreateEvent(input calendar.EventInput) (*calendar.EventSummary, error)
	UpcomingEvents(maxResults int64) ([]calendar.EventSummary, error)
}
