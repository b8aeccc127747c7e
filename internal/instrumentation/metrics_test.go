package instrumentation

import (
	"context"
	"testing"
	"time"

	"go.opentelemetry.io/otel/attribute"
	sdkmetric "go.opentelemetry.io/otel/sdk/metric"
	"go.opentelemetry.io/otel/sdk/metric/metricdata"
)

// newTestMetrics builds a recorder backed by a manual reader so tests can
// assert the datapoints that were actually written.
func newTestMetrics(t *testing.T, detailedLabels bool) (*Metrics, *sdkmetric.ManualReader) {
	t.Helper()

	reader := sdkmetric.NewManualReader()
	meter := sdkmetric.NewMeterProvider(sdkmetric.WithReader(reader)).Meter("test")

	metrics, err := NewMetrics(meter, detailedLabels)
	if err != nil {
		t.Fatalf("failed to create metrics: %v", err)
	}
	return metrics, reader
}

func collect(t *testing.T, reader *sdkmetric.ManualReader) metricdata.ResourceMetrics {
	t.Helper()

	var rm metricdata.ResourceMetrics
	if err := reader.Collect(context.Background(), &rm); err != nil {
		t.Fatalf("failed to collect metrics: %v", err)
	}
	return rm
}

// counterPoints returns the int64 sum datapoints of the named counter.
func counterPoints(t *testing.T, rm metricdata.ResourceMetrics, name string) []metricdata.DataPoint[int64] {
	t.Helper()

	for _, sm := range rm.ScopeMetrics {
		for _, m := range sm.Metrics {
			if m.Name != name {
				continue
			}
			sum, ok := m.Data.(metricdata.Sum[int64])
			if !ok {
				t.Fatalf("metric %s is not an int64 sum", name)
			}
			return sum.DataPoints
		}
	}
	t.Fatalf("metric %s not found", name)
	return nil
}

func attrValue(dp metricdata.DataPoint[int64], key string) (string, bool) {
	v, ok := dp.Attributes.Value(attribute.Key(key))
	if !ok {
		return "", false
	}
	return v.AsString(), true
}

func TestRecordCalendarOperation(t *testing.T) {
	ctx := context.Background()
	metrics, reader := newTestMetrics(t, false)

	metrics.RecordCalendarOperation(ctx, OperationList, StatusSuccess, 120*time.Millisecond)
	metrics.RecordCalendarOperation(ctx, OperationCreate, StatusError, 450*time.Millisecond)

	rm := collect(t, reader)
	points := counterPoints(t, rm, "calendar_api_operations_total")
	if len(points) != 2 {
		t.Fatalf("expected 2 datapoints, got %d", len(points))
	}

	byOperation := make(map[string]string)
	for _, dp := range points {
		op, _ := attrValue(dp, "operation")
		status, _ := attrValue(dp, "status")
		byOperation[op] = status
		if dp.Value != 1 {
			t.Errorf("operation %s: expected count 1, got %d", op, dp.Value)
		}
	}
	if byOperation[OperationList] != StatusSuccess {
		t.Errorf("expected list operation recorded as success, got %q", byOperation[OperationList])
	}
	if byOperation[OperationCreate] != StatusError {
		t.Errorf("expected create operation recorded as error, got %q", byOperation[OperationCreate])
	}
}

func TestRecordToolInvocationWithAccount_LabelCardinality(t *testing.T) {
	ctx := context.Background()

	t.Run("account label omitted by default", func(t *testing.T) {
		metrics, reader := newTestMetrics(t, false)
		metrics.RecordToolInvocationWithAccount(ctx, "check_availability", StatusSuccess, "clinic", 80*time.Millisecond)

		points := counterPoints(t, collect(t, reader), "booking_tool_invocations_total")
		if len(points) != 1 {
			t.Fatalf("expected 1 datapoint, got %d", len(points))
		}
		if _, ok := attrValue(points[0], "account"); ok {
			t.Error("account label must not be recorded without detailed labels")
		}
	})

	t.Run("account label included with detailed labels", func(t *testing.T) {
		metrics, reader := newTestMetrics(t, true)
		metrics.RecordToolInvocationWithAccount(ctx, "check_availability", StatusSuccess, "clinic", 80*time.Millisecond)

		points := counterPoints(t, collect(t, reader), "booking_tool_invocations_total")
		if account, ok := attrValue(points[0], "account"); !ok || account != "clinic" {
			t.Errorf("expected account label clinic, got %q (present=%v)", account, ok)
		}
	})
}

func TestRecordLLMRequest(t *testing.T) {
	ctx := context.Background()
	metrics, reader := newTestMetrics(t, false)

	metrics.RecordLLMRequest(ctx, "gpt-4o", StatusSuccess, 2*time.Second)
	metrics.RecordLLMRequest(ctx, "gpt-4o", StatusError, 300*time.Millisecond)

	points := counterPoints(t, collect(t, reader), "llm_requests_total")
	var total int64
	for _, dp := range points {
		if model, _ := attrValue(dp, "model"); model != "gpt-4o" {
			t.Errorf("expected model label gpt-4o, got %q", model)
		}
		total += dp.Value
	}
	if total != 2 {
		t.Errorf("expected 2 llm requests recorded, got %d", total)
	}
}

func TestRecordHTTPRequest(t *testing.T) {
	ctx := context.Background()
	metrics, reader := newTestMetrics(t, false)

	metrics.RecordHTTPRequest(ctx, "POST", "/mcp", 200, 40*time.Millisecond)

	points := counterPoints(t, collect(t, reader), "http_requests_total")
	if len(points) != 1 || points[0].Value != 1 {
		t.Fatalf("expected a single request datapoint, got %+v", points)
	}
	if status, _ := attrValue(points[0], "status"); status != "200" {
		t.Errorf("expected status label 200, got %q", status)
	}
	if path, _ := attrValue(points[0], "path"); path != "/mcp" {
		t.Errorf("expected path label /mcp, got %q", path)
	}
}

func TestRecordOAuthAuth(t *testing.T) {
	ctx := context.Background()
	metrics, reader := newTestMetrics(t, false)

	metrics.RecordOAuthAuth(ctx, OAuthResultSuccess)
	metrics.RecordOAuthAuth(ctx, OAuthResultFailure)
	metrics.RecordOAuthAuth(ctx, OAuthResultFailure)

	points := counterPoints(t, collect(t, reader), "oauth_auth_total")
	counts := make(map[string]int64)
	for _, dp := range points {
		result, _ := attrValue(dp, "result")
		counts[result] += dp.Value
	}
	if counts[OAuthResultSuccess] != 1 || counts[OAuthResultFailure] != 2 {
		t.Errorf("unexpected auth counts: %v", counts)
	}
}

func TestActiveSessions(t *testing.T) {
	ctx := context.Background()
	metrics, reader := newTestMetrics(t, false)

	metrics.IncrementActiveSessions(ctx)
	metrics.IncrementActiveSessions(ctx)
	metrics.DecrementActiveSessions(ctx)

	points := counterPoints(t, collect(t, reader), "active_sessions")
	if len(points) != 1 || points[0].Value != 1 {
		t.Errorf("expected 1 active session, got %+v", points)
	}
}

func TestMetrics_ZeroValueIsNoOp(t *testing.T) {
	ctx := context.Background()
	metrics := &Metrics{}

	// The zero value is what NewProvider hands out when instrumentation
	// is disabled; every recorder must tolerate it.
	metrics.RecordHTTPRequest(ctx, "GET", "/mcp", 200, time.Millisecond)
	metrics.RecordCalendarOperation(ctx, OperationList, StatusSuccess, time.Millisecond)
	metrics.RecordOAuthAuth(ctx, OAuthResultSuccess)
	metrics.RecordToolInvocation(ctx, "check_availability", StatusSuccess, time.Millisecond)
	metrics.RecordToolInvocationWithAccount(ctx, "check_availability", StatusSuccess, "clinic", time.Millisecond)
	metrics.RecordLLMRequest(ctx, "gpt-4o", StatusSuccess, time.Millisecond)
	metrics.IncrementActiveSessions(ctx)
	metrics.DecrementActiveSessions(ctx)
}
