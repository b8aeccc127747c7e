package cmd

import (
	"bufio"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"

	"github.com/bookslot/bookslot/internal/agent"
	"github.com/bookslot/bookslot/internal/calendar"
	"github.com/bookslot/bookslot/internal/google"
	"github.com/bookslot/bookslot/internal/instrumentation"
)

func newChatCmd() *cobra.Command {
	var (
		model     string
		account   string
		debugMode bool
	)

	cmd := &cobra.Command{
		Use:   "chat",
		Short: "Start an interactive booking conversation",
		Long: `Start an interactive chat session with the booking assistant.

The assistant understands natural language requests such as:
  - "Is tomorrow at 2pm free?"
  - "Find me a one hour slot on Friday"
  - "Book a dentist appointment next Monday at 10am"
  - "What's on my calendar this week?"

Credentials:
  The OpenAI API key is read from the OPENAI_API_KEY environment variable
  (a .env file in the working directory is loaded automatically).

  Calendar access uses a service account when GOOGLE_APPLICATION_CREDENTIALS
  or ./credentials.json is present, and falls back to a stored OAuth token
  for the selected account otherwise (see 'bookslot auth').`,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runChat(cmd, model, account, debugMode)
		},
	}

	cmd.Flags().StringVar(&model, "model", "gpt-4o", "OpenAI model to use for the assistant")
	cmd.Flags().StringVar(&account, "account", "default", "Google account name to use (default: 'default')")
	cmd.Flags().BoolVar(&debugMode, "debug", false, "Enable debug logging")

	return cmd
}

func runChat(cmd *cobra.Command, model, account string, debugMode bool) error {
	// Load environment from .env if present; missing files are fine
	_ = godotenv.Load()

	if debugMode {
		slog.SetLogLoggerLevel(slog.LevelDebug)
	}

	ctx := cmd.Context()

	client, err := newChatCalendarClient(cmd, account)
	if err != nil {
		return err
	}

	assistant, err := agent.New(model, agent.NewDispatcher(client))
	if err != nil {
		return fmt.Errorf("failed to create booking assistant: %w", err)
	}

	// Model round trips are counted and timed; the exporter is selected
	// via the OTEL environment variables, matching serve
	instrConfig := instrumentation.DefaultConfig()
	instrConfig.ServiceVersion = version
	provider, err := instrumentation.NewProvider(ctx, instrConfig)
	if err != nil {
		return fmt.Errorf("failed to initialize instrumentation: %w", err)
	}
	defer func() { _ = provider.Shutdown(ctx) }()
	assistant.SetMetrics(provider.Metrics())

	out := cmd.OutOrStdout()
	fmt.Fprintln(out, "Booking assistant ready. Type your request, /clear to reset the conversation, or /quit to exit.")

	scanner := bufio.NewScanner(cmd.InOrStdin())
	for {
		fmt.Fprint(out, "> ")
		if !scanner.Scan() {
			break
		}

		line := strings.TrimSpace(scanner.Text())
		switch line {
		case "":
			continue
		case "/quit", "/exit":
			fmt.Fprintln(out, "Goodbye!")
			return nil
		case "/clear":
			assistant.Reset()
			fmt.Fprintln(out, "Conversation cleared.")
			continue
		}

		reply, err := assistant.Chat(ctx, line)
		if err != nil {
			fmt.Fprintf(out, "Error: %v\n", err)
			continue
		}
		fmt.Fprintf(out, "\n%s\n\n", reply)
	}

	return scanner.Err()
}

// newChatCalendarClient prefers service account credentials and falls back
// to a stored OAuth token for the account.
func newChatCalendarClient(cmd *cobra.Command, account string) (*calendar.Client, error) {
	ctx := cmd.Context()

	if credFile := google.ServiceAccountFile(); credFile != "" {
		client, err := calendar.NewServiceAccountClient(ctx, credFile)
		if err != nil {
			return nil, fmt.Errorf("failed to create Calendar client from service account %s: %w", credFile, err)
		}
		return client, nil
	}

	if !calendar.HasTokenForAccount(account) {
		return nil, fmt.Errorf("no Google credentials found for account %q: provide a service account via GOOGLE_APPLICATION_CREDENTIALS or run 'bookslot auth --account %s'", account, account)
	}

	client, err := calendar.NewClientForAccount(ctx, account)
	if err != nil {
		return nil, fmt.Errorf("failed to create Calendar client for account %s: %w", account, err)
	}
	return client, nil
}
