// Package booking_tools provides MCP tools for calendar booking.
// It exposes availability checks, free-slot suggestions, appointment
// creation, and upcoming event listing over the Model Context Protocol,
// sharing dispatch logic with the conversational agent.
package booking_tools
