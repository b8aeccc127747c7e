package common

import (
	"context"
	"time"

	"github.com/mark3labs/mcp-go/mcp"

	"github.com/bookslot/bookslot/internal/instrumentation"
	"github.com/bookslot/bookslot/internal/server"
)

// InstrumentedToolHandler wraps a tool handler with metrics and tracing.
// It records tool invocation metrics and creates a span for the invocation.
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandler("my_tool", sc, handler))
func InstrumentedToolHandler(
	toolName string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Get metrics recorder (may be nil if not configured)
		metrics := sc.Metrics()

		// If no instrumentation configured, just call the handler
		if metrics == nil {
			return handler(ctx, request)
		}

		// Start timing and open a span for the invocation
		start := time.Now()
		spanCtx, span := instrumentation.StartToolSpan(ctx, toolName)
		defer span.End()

		// Extract account from request arguments
		args := request.GetArguments()
		account := GetAccountFromArgs(ctx, args)

		// Call the actual handler
		result, err := handler(spanCtx, request)
		duration := time.Since(start)

		// Determine status
		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			if err != nil {
				instrumentation.SetSpanError(span, err)
			}
		} else {
			instrumentation.SetSpanSuccess(span)
		}

		// Record metrics
		metrics.RecordToolInvocationWithAccount(spanCtx, toolName, status, account, duration)

		return result, err
	}
}

// InstrumentedToolHandlerWithOperation is like InstrumentedToolHandler but also
// records the calendar operation type for more detailed metrics.
//
// This handler records both:
// - tool invocation metrics (booking_tool_invocations_total, booking_tool_duration_seconds)
// - calendar API operation metrics (calendar_api_operations_total, calendar_api_operation_duration_seconds)
//
// Usage:
//
//	s.AddTool(myTool, common.InstrumentedToolHandlerWithOperation("my_tool", "list", sc, handler))
func InstrumentedToolHandlerWithOperation(
	toolName string,
	operation string,
	sc *server.ServerContext,
	handler func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error),
) func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
	return func(ctx context.Context, request mcp.CallToolRequest) (*mcp.CallToolResult, error) {
		// Get metrics recorder (may be nil if not configured)
		metrics := sc.Metrics()

		// If no instrumentation configured, just call the handler
		if metrics == nil {
			return handler(ctx, request)
		}

		// Start timing and open a span for the invocation
		start := time.Now()
		spanCtx, span := instrumentation.StartToolSpan(ctx, toolName,
			instrumentation.NewSpanAttributeBuilder().WithOperation(operation).Build()...)
		defer span.End()

		// Extract account from request arguments
		args := request.GetArguments()
		account := GetAccountFromArgs(ctx, args)

		// Call the actual handler
		result, err := handler(spanCtx, request)
		duration := time.Since(start)

		// Determine status
		status := instrumentation.StatusSuccess
		if err != nil || (result != nil && result.IsError) {
			status = instrumentation.StatusError
			if err != nil {
				instrumentation.SetSpanError(span, err)
			}
		} else {
			instrumentation.SetSpanSuccess(span)
		}

		// Record metrics
		metrics.RecordToolInvocationWithAccount(spanCtx, toolName, status, account, duration)

		// Record calendar operation metrics for operation-level observability
		metrics.RecordCalendarOperation(spanCtx, operation, status, duration)

		return result, err
	}
}
