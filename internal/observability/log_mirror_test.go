package observability

import (
	"errors"
	"testing"

	otellog "go.opentelemetry.io/otel/log"
)

func TestIsHealthRequestLog(t *testing.T) {
	if !isHealthRequestLog("http request", []any{"method", "GET", "path", "/healthz"}) {
		t.Fatalf("expected health check log to be skipped")
	}
	if isHealthRequestLog("http request", []any{"path", "/v1/queue/join"}) {
		t.Fatalf("did not expect queue request log to be skipped")
	}
	if isHealthRequestLog("scrim activated", []any{"path", "/healthz"}) {
		t.Fatalf("did not expect non-request log to be skipped")
	}
}

func TestLogAttributes(t *testing.T) {
	attrs := logAttributes([]any{"league", "Academy", "size", 4, "error", errors.New("boom"), "dangling"})
	if len(attrs) != 4 {
		t.Fatalf("unexpected attribute count: got=%d want=4", len(attrs))
	}
	if attrs[0].Key != "league" || attrs[0].Value.AsString() != "Academy" {
		t.Fatalf("unexpected league attribute: %+v", attrs[0])
	}
	if attrs[1].Value.AsInt64() != 4 {
		t.Fatalf("unexpected size attribute: %+v", attrs[1])
	}
	if attrs[2].Value.AsString() != "boom" {
		t.Fatalf("unexpected error attribute: %+v", attrs[2])
	}
	if attrs[3].Key != "dangling" || attrs[3].Value.Kind() != otellog.KindEmpty {
		t.Fatalf("unexpected dangling attribute: %+v", attrs[3])
	}
}

func TestToOTelValue_Slices(t *testing.T) {
	v := toOTelValue([]int64{3, 7})
	if v.Kind() != otellog.KindSlice || len(v.AsSlice()) != 2 {
		t.Fatalf("unexpected slice value: %v", v)
	}
}
