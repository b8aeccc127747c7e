package calendar

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"golang.org/x/oauth2"
	calendar "google.golang.org/api/calendar/v3"
	"google.golang.org/api/option"

	"github.com/bookslot/bookslot/internal/google"
	"github.com/bookslot/bookslot/internal/schedule"
)

// DefaultCalendarID is the calendar used when none is configured
const DefaultCalendarID = "primary"

// Client wraps the Google Calendar service for a single calendar
type Client struct {
	svc        *calendar.Service
	calendarID string
	account    string // The account this client is associated with
}

// Account returns the account name this client is associated with
func (c *Client) Account() string {
	return c.account
}

// CalendarID returns the calendar this client operates on
func (c *Client) CalendarID() string {
	return c.calendarID
}

// HasTokenForAccountWithProvider checks if a valid OAuth token exists for the specified account
func HasTokenForAccountWithProvider(account string, provider google.TokenProvider) bool {
	if provider == nil {
		return false
	}
	return provider.HasTokenForAccount(account)
}

// HasTokenForAccount checks if a valid OAuth token exists for the specified account
func HasTokenForAccount(account string) bool {
	provider := google.NewFileTokenProvider()
	return HasTokenForAccountWithProvider(account, provider)
}

// HasToken checks if a valid OAuth token exists for the default account
func HasToken() bool {
	return HasTokenForAccount("default")
}

// NewClientForAccountWithProvider creates a new Calendar client with OAuth2 authentication for a specific account
// The OAuth token is retrieved from the provided token provider
func NewClientForAccountWithProvider(ctx context.Context, account string, tokenProvider google.TokenProvider) (*Client, error) {
	if tokenProvider == nil {
		return nil, fmt.Errorf("token provider cannot be nil")
	}

	token, err := tokenProvider.GetTokenForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to get Google OAuth token for account %s: %w", account, err)
	}

	conf := google.GetOAuthConfig()
	tokenSource := conf.TokenSource(ctx, token)

	client := oauth2.NewClient(ctx, tokenSource)

	// Force HTTP/1.1 by disabling HTTP/2
	transport := client.Transport.(*oauth2.Transport)
	transport.Base = &http.Transport{
		ForceAttemptHTTP2: false,
	}

	svc, err := calendar.NewService(ctx, option.WithHTTPClient(client))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:        svc,
		calendarID: DefaultCalendarID,
		account:    account,
	}, nil
}

// NewClientForAccount creates a new Calendar client with OAuth2 authentication for a specific account
// using the default file-based token provider
func NewClientForAccount(ctx context.Context, account string) (*Client, error) {
	provider := google.NewFileTokenProvider()
	return NewClientForAccountWithProvider(ctx, account, provider)
}

// NewClient creates a new Calendar client with OAuth2 authentication for the default account
func NewClient(ctx context.Context) (*Client, error) {
	return NewClientForAccount(ctx, "default")
}

// NewServiceAccountClient creates a new Calendar client authenticated with
// a service account credentials file
func NewServiceAccountClient(ctx context.Context, credentialsFile string) (*Client, error) {
	svc, err := calendar.NewService(ctx,
		option.WithCredentialsFile(credentialsFile),
		option.WithScopes(calendar.CalendarScope))
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar service: %w", err)
	}

	return &Client{
		svc:        svc,
		calendarID: DefaultCalendarID,
		account:    "service-account",
	}, nil
}

// WithCalendarID returns a copy of the client that operates on the given
// calendar instead of the primary one
func (c *Client) WithCalendarID(calendarID string) *Client {
	clone := *c
	clone.calendarID = calendarID
	return &clone
}

// CheckAvailability reports whether the calendar is free between start and
// end. A slot is free when no event overlaps the range.
func (c *Client) CheckAvailability(start, end time.Time) (bool, error) {
	events, err := c.svc.Events.List(c.calendarID).
		TimeMin(start.UTC().Format(time.RFC3339)).
		TimeMax(end.UTC().Format(time.RFC3339)).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return false, fmt.Errorf("failed to check availability: %w", err)
	}

	return len(events.Items) == 0, nil
}

// BusyTimes returns the busy intervals on the given day (YYYY-MM-DD).
// Event boundaries are returned as raw calendar timestamps; all-day
// events carry a date instead of a dateTime and are passed through as-is.
func (c *Client) BusyTimes(date string) ([]schedule.Busy, error) {
	events, err := c.svc.Events.List(c.calendarID).
		TimeMin(date + "T00:00:00Z").
		TimeMax(date + "T23:59:59Z").
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list events for %s: %w", date, err)
	}

	var busy []schedule.Busy
	for _, event := range events.Items {
		summary := event.Summary
		if summary == "" {
			summary = "Busy"
		}
		busy = append(busy, schedule.Busy{
			Start:   eventTimeString(event.Start),
			End:     eventTimeString(event.End),
			Summary: summary,
		})
	}

	return busy, nil
}

// CreateEvent creates a new calendar event
func (c *Client) CreateEvent(input EventInput) (*EventSummary, error) {
	event := &calendar.Event{
		Summary:     input.Summary,
		Description: input.Description,
		Start: &calendar.EventDateTime{
			DateTime: input.Start.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
		End: &calendar.EventDateTime{
			DateTime: input.End.UTC().Format(time.RFC3339),
			TimeZone: "UTC",
		},
	}

	if input.AttendeeEmail != "" {
		event.Attendees = []*calendar.EventAttendee{
			{Email: input.AttendeeEmail},
		}
	}

	created, err := c.svc.Events.Insert(c.calendarID, event).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to create event: %w", err)
	}

	summary := toEventSummary(created)
	return &summary, nil
}

// UpcomingEvents lists the next events on the calendar, starting from now
func (c *Client) UpcomingEvents(maxResults int64) ([]EventSummary, error) {
	events, err := c.svc.Events.List(c.calendarID).
		TimeMin(time.Now().UTC().Format(time.RFC3339)).
		MaxResults(maxResults).
		SingleEvents(true).
		OrderBy("startTime").
		Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list upcoming events: %w", err)
	}

	var summaries []EventSummary
	for _, event := range events.Items {
		summaries = append(summaries, toEventSummary(event))
	}

	return summaries, nil
}

// ListCalendars lists all calendars accessible to the user
func (c *Client) ListCalendars() ([]CalendarInfo, error) {
	list, err := c.svc.CalendarList.List().Do()
	if err != nil {
		return nil, fmt.Errorf("failed to list calendars: %w", err)
	}

	var calendars []CalendarInfo
	for _, entry := range list.Items {
		calendars = append(calendars, toCalendarInfo(entry))
	}

	return calendars, nil
}

// eventTimeString returns the raw timestamp of an event boundary,
// preferring dateTime over the all-day date
func eventTimeString(edt *calendar.EventDateTime) string {
	if edt == nil {
		return ""
	}
	if edt.DateTime != "" {
		return edt.DateTime
	}
	return edt.Date
}
