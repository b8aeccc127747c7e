package agent

import "github.com/tmc/langchaingo/llms"

// bookingTools returns the function definitions exposed to the model.
// The dispatcher executes them by name.
func bookingTools() []llms.Tool {
	return []llms.Tool{
		funcTool("check_availability", "Check if a specific time slot is available for booking", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"start_time": map[string]any{
					"type":        "string",
					"description": "Start time in ISO format (YYYY-MM-DDTHH:MM:SS)",
				},
				"end_time": map[string]any{
					"type":        "string",
					"description": "End time in ISO format (YYYY-MM-DDTHH:MM:SS)",
				},
			},
			"required": []string{"start_time", "end_time"},
		}),
		funcTool("suggest_time_slots", "Get available time slots for a specific date", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"date": map[string]any{
					"type":        "string",
					"description": "Date in YYYY-MM-DD format",
				},
				"duration_minutes": map[string]any{
					"type":        "integer",
					"description": "Duration of appointment in minutes (default: 60)",
				},
				"preferred_start_hour": map[string]any{
					"type":        "integer",
					"description": "Preferred earliest hour (0-23, default: 9)",
				},
				"preferred_end_hour": map[string]any{
					"type":        "integer",
					"description": "Preferred latest hour (0-23, default: 17)",
				},
			},
			"required": []string{"date"},
		}),
		funcTool("create_appointment", "Create a new appointment/event in the calendar", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"summary": map[string]any{
					"type":        "string",
					"description": "Title/summary of the appointment",
				},
				"start_time": map[string]any{
					"type":        "string",
					"description": "Start time in ISO format (YYYY-MM-DDTHH:MM:SS)",
				},
				"end_time": map[string]any{
					"type":        "string",
					"description": "End time in ISO format (YYYY-MM-DDTHH:MM:SS)",
				},
				"description": map[string]any{
					"type":        "string",
					"description": "Description of the appointment",
				},
				"attendee_email": map[string]any{
					"type":        "string",
					"description": "Email address of the attendee (optional)",
				},
			},
			"required": []string{"summary", "start_time", "end_time"},
		}),
		funcTool("get_upcoming_events", "Get list of upcoming events from the calendar", map[string]any{
			"type": "object",
			"properties": map[string]any{
				"max_results": map[string]any{
					"type":        "integer",
					"description": "Maximum number of events to return (default: 10)",
				},
			},
			"required": []string{},
		}),
	}
}

func funcTool(name, description string, parameters map[string]any) llms.Tool {
	return llms.Tool{
		Type: "function",
		Function: &llms.FunctionDefinition{
			Name:        name,
			Description: description,
			Parameters:  parameters,
		},
	}
}
