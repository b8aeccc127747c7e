package google_tools

import (
	"context"
	"errors"
	"strings"
	"testing"

	"github.com/mark3labs/mcp-go/mcp"
	mcpserver "github.com/mark3labs/mcp-go/server"
	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"

	"github.com/bookslot/bookslot/internal/instrumentation"
	"github.com/bookslot/bookslot/internal/server"
)

func newTestServerContext(t *testing.T) *server.ServerContext {
	t.Helper()
	t.Setenv("XDG_CACHE_HOME", t.TempDir())

	sc, err := server.NewServerContext(context.Background())
	if err != nil {
		t.Fatalf("failed to create server context: %v", err)
	}
	t.Cleanup(func() { _ = sc.Shutdown() })
	return sc
}

func TestRegisterGoogleTools(t *testing.T) {
	sc := newTestServerContext(t)

	s := mcpserver.NewMCPServer("test", "1.0.0")
	if err := RegisterGoogleTools(s, sc); err != nil {
		t.Fatalf("RegisterGoogleTools() error = %v", err)
	}

	registered := make(map[string]bool)
	for _, st := range s.ListTools() {
		registered[st.Tool.Name] = true
	}
	for _, name := range []string{"google_get_auth_url", "google_save_auth_code"} {
		if !registered[name] {
			t.Errorf("tool %q not registered", name)
		}
	}
}

func TestHandleGetAuthURL(t *testing.T) {
	sc := newTestServerContext(t)
	t.Setenv("GOOGLE_CLIENT_ID", "test-client-id")
	t.Setenv("GOOGLE_CLIENT_SECRET", "test-client-secret")

	req := mcp.CallToolRequest{}
	req.Params.Name = "google_get_auth_url"
	req.Params.Arguments = map[string]any{"account": "clinic"}

	result, err := handleGetAuthURL(context.Background(), req, sc)
	if err != nil {
		t.Fatalf("handler returned Go error: %v", err)
	}
	if result == nil || result.IsError {
		t.Fatal("expected a successful result")
	}

	text := resultText(t, result)
	if !strings.Contains(text, "accounts.google.com") {
		t.Errorf("expected an auth URL in the instructions, got: %s", text)
	}
	if !strings.Contains(text, `account "clinic"`) {
		t.Errorf("expected the account name in the instructions, got: %s", text)
	}
}

func TestHandleSaveAuthCode_MissingCode(t *testing.T) {
	sc := newTestServerContext(t)

	req := mcp.CallToolRequest{}
	req.Params.Name = "google_save_auth_code"
	req.Params.Arguments = map[string]any{"account": "clinic"}

	result, err := handleSaveAuthCode(context.Background(), req, sc)
	if err != nil {
		t.Fatalf("handler returned Go error: %v", err)
	}
	if result == nil || !result.IsError {
		t.Fatal("expected error result when authCode is missing")
	}
}

func TestRecordOAuthResult(t *testing.T) {
	ctx := context.Background()
	sc := newTestServerContext(t)

	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")
	metrics, err := instrumentation.NewMetrics(meter, false)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	sc.SetMetrics(metrics)

	recordOAuthResult(ctx, sc, nil)
	recordOAuthResult(ctx, sc, errors.New("exchange failed"))

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(ctx, &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}

	counts := oauthAuthCounts(rm)
	if counts[instrumentation.OAuthResultSuccess] != 1 {
		t.Errorf("expected 1 success auth recorded, got %d", counts[instrumentation.OAuthResultSuccess])
	}
	if counts[instrumentation.OAuthResultFailure] != 1 {
		t.Errorf("expected 1 failed auth recorded, got %d", counts[instrumentation.OAuthResultFailure])
	}
}

func TestRecordOAuthResult_NoMetrics(t *testing.T) {
	sc := newTestServerContext(t)

	// Must be a no-op when no metrics recorder is configured
	recordOAuthResult(context.Background(), sc, errors.New("exchange failed"))
}

// oauthAuthCounts extracts oauth_auth_total datapoints keyed by result label.
func oauthAuthCounts(rm metricdata.ResourceMetrics) map[string]int64 {
	counts := make(map[string]int64)
	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != "oauth_auth_total" {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				continue
			}
			for _, dp := range sum.DataPoints {
				if result, ok := dp.Attributes.Value(attribute.Key("result")); ok {
					counts[result.AsString()] += dp.Value
				}
			}
		}
	}
	return counts
}

func resultText(t *testing.T, result *mcp.CallToolResult) string {
	t.Helper()
	for _, content := range result.Content {
		if text, ok := content.(mcp.TextContent); ok {
			return text.Text
		}
	}
	t.Fatal("result has no text content")
	return ""
}
