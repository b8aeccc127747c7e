package booking_tools

import (
	"context"
	"fmt"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"

	"github.com/bookslot/bookslot/internal/agent"
	"github.com/bookslot/bookslot/internal/calendar"
	"github.com/bookslot/bookslot/internal/google"
	"github.com/bookslot/bookslot/internal/instrumentation"
	"github.com/bookslot/bookslot/internal/server"
	"github.com/bookslot/bookslot/internal/tools/common"
)

// getCalendarClient retrieves or creates a calendar client for the specified account
func getCalendarClient(ctx context.Context, account string, sc *server.ServerContext) (*calendar.Client, error) {
	client := sc.CalendarClientForAccount(account)
	if client == nil {
		// Check if token exists before trying to create client
		if !calendar.HasTokenForAccount(account) {
			authURL := google.GetAuthURLForAccount(account)
			return nil, fmt.Errorf(`Google OAuth token not found for account "%s". To authorize access:

1. Visit this URL in your browser:
   %s

2. Sign in with your Google account
3. Grant access to Google Calendar
4. Copy the authorization code

5. Run: bookslot auth --account %s <authorization-code>

Note: You only need to authorize once. The tokens will be automatically refreshed.`, account, authURL, account)
		}

		var err error
		client, err = calendar.NewClientForAccount(ctx, account)
		if err != nil {
			return nil, fmt.Errorf("failed to create Calendar client for account %s: %w", account, err)
		}
		sc.SetCalendarClientForAccount(account, client)
	}
	return client, nil
}

// dispatcherForAccount resolves the calendar client for the account and wraps
// it in a booking dispatcher
func dispatcherForAccount(ctx context.Context, account string, sc *server.ServerContext) (*agent.Dispatcher, error) {
	client, err := getCalendarClient(ctx, account, sc)
	if err != nil {
		return nil, err
	}
	return agent.NewDispatcher(client), nil
}

// RegisterBookingTools registers all booking-related tools with the MCP server
func RegisterBookingTools(s *mcpserver.MCPServer, sc *server.ServerContext) error {
	// Check availability tool
	checkAvailabilityTool := mcp.NewTool("check_availability",
		mcp.WithDescription("Check if a specific time slot is available in the calendar"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("start_time",
			mcp.Required(),
			mcp.Description("Start time in ISO format (e.g., '2024-01-15T14:00:00')"),
		),
		mcp.WithString("end_time",
			mcp.Required(),
			mcp.Description("End time in ISO format (e.g., '2024-01-15T15:00:00')"),
		),
	)

	s.AddTool(checkAvailabilityTool, common.InstrumentedToolHandlerWithOperation(
		"check_availability", instrumentation.OperationFreeBusy, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCheckAvailability(ctx, request, sc)
		}))

	// Suggest time slots tool
	suggestTimeSlotsTool := mcp.NewTool("suggest_time_slots",
		mcp.WithDescription("Find available time slots on a specific date"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("date",
			mcp.Required(),
			mcp.Description("Date to check in YYYY-MM-DD format"),
		),
		mcp.WithNumber("duration_minutes",
			mcp.Description("Desired duration of the appointment in minutes (default: 60)"),
		),
		mcp.WithNumber("preferred_start_hour",
			mcp.Description("Earliest hour to consider (24h format, default: 9)"),
		),
		mcp.WithNumber("preferred_end_hour",
			mcp.Description("Latest hour to consider (24h format, default: 17)"),
		),
	)

	s.AddTool(suggestTimeSlotsTool, common.InstrumentedToolHandlerWithOperation(
		"suggest_time_slots", instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleSuggestTimeSlots(ctx, request, sc)
		}))

	// Create appointment tool
	createAppointmentTool := mcp.NewTool("create_appointment",
		mcp.WithDescription("Create a new appointment in the calendar"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithString("summary",
			mcp.Required(),
			mcp.Description("Title/summary of the appointment"),
		),
		mcp.WithString("start_time",
			mcp.Required(),
			mcp.Description("Start time in ISO format (e.g., '2024-01-15T14:00:00')"),
		),
		mcp.WithString("end_time",
			mcp.Required(),
			mcp.Description("End time in ISO format (e.g., '2024-01-15T15:00:00')"),
		),
		mcp.WithString("description",
			mcp.Description("Description or notes for the appointment"),
		),
		mcp.WithString("attendee_email",
			mcp.Description("Email address of the attendee"),
		),
	)

	s.AddTool(createAppointmentTool, common.InstrumentedToolHandlerWithOperation(
		"create_appointment", instrumentation.OperationCreate, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleCreateAppointment(ctx, request, sc)
		}))

	// Get upcoming events tool
	getUpcomingEventsTool := mcp.NewTool("get_upcoming_events",
		mcp.WithDescription("Get a list of upcoming calendar events"),
		mcp.WithString("account",
			mcp.Description("Account name (default: 'default'). Used to manage multiple Google accounts."),
		),
		mcp.WithNumber("max_results",
			mcp.Description("Maximum number of events to return (default: 10)"),
		),
	)

	s.AddTool(getUpcomingEventsTool, common.InstrumentedToolHandlerWithOperation(
		"get_upcoming_events", instrumentation.OperationList, sc,
		func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
			return handleGetUpcomingEvents(ctx, request, sc)
		}))

	return nil
}

func handleCheckAvailability(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	dispatcher, err := dispatcherForAccount(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res := dispatcher.Dispatch("check_availability", args)
	if ok, _ := res["success"].(bool); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%v", res["error"])), nil
	}

	return mcp.NewToolResultText(fmt.Sprintf("%v", res["message"])), nil
}

func handleSuggestTimeSlots(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	dispatcher, err := dispatcherForAccount(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	date, ok := args["date"].(string)
	if !ok || date == "" {
		return mcp.NewToolResultError("date is required"), nil
	}
	duration := intArg(args, "duration_minutes", agent.DefaultDurationMinutes)
	startHour := intArg(args, "preferred_start_hour", agent.DefaultStartHour)
	endHour := intArg(args, "preferred_end_hour", agent.DefaultEndHour)

	slots, err := dispatcher.SuggestSlots(date, duration, startHour, endHour)
	if err != nil {
		return mcp.NewToolResultError(fmt.Sprintf("Failed to find time slots: %v", err)), nil
	}

	return mcp.NewToolResultText(agent.FormatSlots(slots)), nil
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

func handleCreateAppointment(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	dispatcher, err := dispatcherForAccount(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	if attendee, ok := args["attendee_email"].(string); ok {
		instrumentation.SetSpanAttendeeDomain(ctx, attendee)
	}

	res := dispatcher.Dispatch("create_appointment", args)
	if ok, _ := res["success"].(bool); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%v", res["error"])), nil
	}

	event, _ := res["event"].(map[string]any)
	result := fmt.Sprintf("%v\n", res["message"])
	result += fmt.Sprintf("ID: %v\n", event["id"])
	result += fmt.Sprintf("Summary: %v\n", event["summary"])
	result += fmt.Sprintf("Start: %v\n", event["start"])
	result += fmt.Sprintf("End: %v\n", event["end"])
	if link, ok := event["html_link"].(string); ok && link != "" {
		result += fmt.Sprintf("Link: %v\n", link)
	}

	return mcp.NewToolResultText(result), nil
}

func handleGetUpcomingEvents(ctx context.Context, request mcp.CallToolRequest, sc *server.ServerContext) (*mcp.CallToolResult, error) {
	args := request.GetArguments()
	account := common.GetAccountFromArgs(ctx, args)

	dispatcher, err := dispatcherForAccount(ctx, account, sc)
	if err != nil {
		return mcp.NewToolResultError(err.Error()), nil
	}

	res := dispatcher.Dispatch("get_upcoming_events", args)
	if ok, _ := res["success"].(bool); !ok {
		return mcp.NewToolResultError(fmt.Sprintf("%v", res["error"])), nil
	}

	events, _ := res["events"].([]map[string]any)
	result := fmt.Sprintf("%v:\n\n", res["message"])
	for i, event := range events {
		result += fmt.Sprintf("%d. %v\n", i+1, event["summary"])
		result += fmt.Sprintf("   Start: %v\n", event["start"])
		result += fmt.Sprintf("   End: %v\n", event["end"])
		result += fmt.Sprintf("   Status: %v\n", event["status"])
		result += "\n"
	}

	return mcp.NewToolResultText(result), nil
}
