// Package agent implements the conversational booking assistant.
//
// The Agent turns user messages into calendar actions through OpenAI
// function calling: the model requests one of the booking tools, the
// Dispatcher executes it against the calendar gateway and the result is
// fed back for a final natural-language reply.
//
// The Dispatcher can also be used directly, which is how the MCP tool
// handlers share the exact behavior of the chat assistant.
package agent
