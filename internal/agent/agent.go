package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"time"

	"github.com/tmc/langchaingo/llms"
	"github.com/tmc/langchaingo/llms/openai"

	"github.com/bookslot/bookslot/internal/instrumentation"
	"github.com/bookslot/bookslot/internal/logging"
)

const systemPromptTemplate = `You are a helpful AI assistant for booking appointments on Google Calendar.
Your role is to help users schedule appointments by:

1. Understanding their scheduling needs and preferences
2. Checking calendar availability
3. Suggesting suitable time slots
4. Confirming and creating appointments
5. Providing information about existing appointments

Guidelines:
- Be conversational and friendly
- Ask clarifying questions when needed (date, time preferences, duration, purpose)
- Use function calls to interact with the calendar
- Always confirm details before creating appointments
- Handle errors gracefully and provide helpful alternatives
- Today's date is %s

When users mention times, try to be flexible with formats but always convert to ISO format for function calls.
Be proactive in suggesting alternatives if requested times are not available.`

// Agent is a conversational booking assistant. It keeps per-session chat
// history and resolves model tool calls through the dispatcher.
// A mutex serializes requests so concurrent callers cannot interleave
// history updates.
type Agent struct {
	model      llms.Model
	modelName  string
	dispatcher *Dispatcher
	metrics    *instrumentation.Metrics

	mu      sync.Mutex
	history []llms.MessageContent
}

// New creates an agent backed by the OpenAI chat completions API.
// The API key is read from OPENAI_API_KEY.
func New(model string, dispatcher *Dispatcher) (*Agent, error) {
	opts := []openai.Option{
		openai.WithModel(model),
	}
	if token := os.Getenv("OPENAI_API_KEY"); token != "" {
		opts = append(opts, openai.WithToken(token))
	}
	if baseURL := os.Getenv("OPENAI_BASE_URL"); baseURL != "" {
		opts = append(opts, openai.WithBaseURL(baseURL))
	}

	client, err := openai.New(opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create OpenAI client: %w", err)
	}

	a := NewWithModel(client, dispatcher)
	a.modelName = model
	return a, nil
}

// NewWithModel creates an agent on top of an existing language model.
// Tests use this to substitute a scripted model.
func NewWithModel(model llms.Model, dispatcher *Dispatcher) *Agent {
	return &Agent{
		model:      model,
		dispatcher: dispatcher,
	}
}

// SetMetrics attaches a metrics recorder so model round trips are counted
// and timed. A nil recorder disables recording.
func (a *Agent) SetMetrics(m *instrumentation.Metrics) {
	a.metrics = m
}

// Chat sends a user message through the model, executes any requested
// booking actions and returns the final assistant reply. History is only
// extended when the whole exchange succeeds.
func (a *Agent) Chat(ctx context.Context, userMessage string) (string, error) {
	a.mu.Lock()
	defer a.mu.Unlock()

	messages := make([]llms.MessageContent, 0, len(a.history)+2)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeSystem,
		fmt.Sprintf(systemPromptTemplate, time.Now().Format("2006-01-02"))))
	messages = append(messages, a.history...)
	messages = append(messages, llms.TextParts(llms.ChatMessageTypeHuman, userMessage))

	resp, err := a.generate(ctx, messages,
		llms.WithTools(bookingTools()),
		llms.WithTemperature(0.7))
	if err != nil {
		return "", fmt.Errorf("model request failed: %w", err)
	}
	if len(resp.Choices) == 0 {
		return "", fmt.Errorf("empty response from model")
	}

	choice := resp.Choices[0]
	final := choice.Content

	if len(choice.ToolCalls) > 0 {
		messages = append(messages, assistantToolCallMessage(choice))

		for _, tc := range choice.ToolCalls {
			result := a.execute(tc)
			messages = append(messages, llms.MessageContent{
				Role: llms.ChatMessageTypeTool,
				Parts: []llms.ContentPart{
					llms.ToolCallResponse{
						ToolCallID: tc.ID,
						Name:       tc.FunctionCall.Name,
						Content:    result,
					},
				},
			})
		}

		followup, err := a.generate(ctx, messages,
			llms.WithTemperature(0.7))
		if err != nil {
			return "", fmt.Errorf("model request failed: %w", err)
		}
		if len(followup.Choices) == 0 {
			return "", fmt.Errorf("empty response from model")
		}
		final = followup.Choices[0].Content
	}

	a.history = append(a.history,
		llms.TextParts(llms.ChatMessageTypeHuman, userMessage),
		llms.TextParts(llms.ChatMessageTypeAI, final))

	return final, nil
}

// Reset clears the conversation history
func (a *Agent) Reset() {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.history = nil
}

// generate performs one model round trip, recording its duration and
// outcome when a metrics recorder is attached.
func (a *Agent) generate(ctx context.Context, messages []llms.MessageContent, opts ...llms.CallOption) (*llms.ContentResponse, error) {
	start := time.Now()
	resp, err := a.model.GenerateContent(ctx, messages, opts...)

	if a.metrics != nil {
		status := instrumentation.StatusSuccess
		if err != nil {
			status = instrumentation.StatusError
		}
		model := a.modelName
		if model == "" {
			model = instrumentation.StatusUnknown
		}
		a.metrics.RecordLLMRequest(ctx, model, status, time.Since(start))
	}

	return resp, err
}

// execute runs a single tool call through the dispatcher and returns the
// JSON-encoded result for the model
func (a *Agent) execute(tc llms.ToolCall) string {
	var args map[string]any
	if err := json.Unmarshal([]byte(tc.FunctionCall.Arguments), &args); err != nil {
		slog.Warn("Failed to decode tool call arguments",
			logging.Tool(tc.FunctionCall.Name),
			logging.Err(err))
		args = map[string]any{}
	}

	result := a.dispatcher.Dispatch(tc.FunctionCall.Name, args)

	encoded, err := json.Marshal(result)
	if err != nil {
		return fmt.Sprintf(`{"success":false,"error":%q}`, err.Error())
	}
	return string(encoded)
}

func assistantToolCallMessage(choice *llms.ContentChoice) llms.MessageContent {
	var parts []llms.ContentPart
	if choice.Content != "" {
		parts = append(parts, llms.TextPart(choice.Content))
	}
	for _, tc := range choice.ToolCalls {
		parts = append(parts, llms.ToolCall{
			ID:   tc.ID,
			Type: "function",
			FunctionCall: &llms.FunctionCall{
				Name:      tc.FunctionCall.Name,
				Arguments: tc.FunctionCall.Arguments,
			},
		})
	}
	return llms.MessageContent{
		Role:  llms.ChatMessageTypeAI,
		Parts: parts,
	}
}
