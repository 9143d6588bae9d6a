package middleware

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/janisto/api-response/internal/common"
)

func observedLogger(level zapcore.Level) (*zap.Logger, *observer.ObservedLogs) {
	core, logs := observer.New(level)
	return zap.New(core), logs
}

func TestRequestLoggerAttachesRequestID(t *testing.T) {
	var (
		traceID string
		logger  *zap.Logger
	)
	h := RequestID()(RequestLogger()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		traceID = TraceIDFromContext(r.Context())
		logger = LoggerFromContext(r.Context())
	})))

	req := httptest.NewRequest(http.MethodGet, "/v1/status/404", nil)
	req.Header.Set(chimiddleware.RequestIDHeader, "req-123")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if traceID != "req-123" {
		t.Fatalf("expected trace id req-123, got %q", traceID)
	}
	if logger == nil || logger == common.Logger() {
		t.Fatalf("expected a request scoped logger")
	}
}

func TestRequestLoggerWithoutRequestID(t *testing.T) {
	var traceID string
	h := RequestLogger()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		traceID = TraceIDFromContext(r.Context())
	}))
	h.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))
	if traceID != "" {
		t.Fatalf("expected empty trace id, got %q", traceID)
	}
}

func TestAccessLoggerRecordsStatusLabel(t *testing.T) {
	logger, logs := observedLogger(zapcore.InfoLevel)
	h := AccessLogger()(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
		_, _ = w.Write([]byte("{}"))
	}))

	req := httptest.NewRequest(http.MethodGet, "/missing", nil)
	req = req.WithContext(ContextWithLogger(req.Context(), logger))
	h.ServeHTTP(httptest.NewRecorder(), req)

	entries := logs.FilterMessage("request completed").All()
	if len(entries) != 1 {
		t.Fatalf("expected one access log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["status"] != int64(http.StatusNotFound) {
		t.Fatalf("unexpected status field: %v", fields["status"])
	}
	if fields["label"] != "not found" {
		t.Fatalf("unexpected label field: %v", fields["label"])
	}
	if fields["bytes"] != int64(2) {
		t.Fatalf("unexpected bytes field: %v", fields["bytes"])
	}
}

func TestAccessLoggerDefaultsToOK(t *testing.T) {
	logger, logs := observedLogger(zapcore.InfoLevel)
	h := AccessLogger()(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {}))

	req := httptest.NewRequest(http.MethodGet, "/", nil)
	req = req.WithContext(ContextWithLogger(req.Context(), logger))
	h.ServeHTTP(httptest.NewRecorder(), req)

	fields := logs.All()[0].ContextMap()
	if fields["status"] != int64(http.StatusOK) || fields["label"] != "success" {
		t.Fatalf("unexpected fields: %v", fields)
	}
}

func TestLogHelpers(t *testing.T) {
	logger, logs := observedLogger(zapcore.DebugLevel)
	ctx := ContextWithLogger(context.Background(), logger)

	LogDebug(ctx, "debug entry")
	LogInfo(ctx, "info entry", zap.String("k", "v"))
	LogWarn(ctx, "warn entry")
	LogError(ctx, "error entry", errors.New("boom"))
	LogError(ctx, "error without cause", nil)

	want := []struct {
		msg   string
		level zapcore.Level
	}{
		{"debug entry", zapcore.DebugLevel},
		{"info entry", zapcore.InfoLevel},
		{"warn entry", zapcore.WarnLevel},
		{"error entry", zapcore.ErrorLevel},
		{"error without cause", zapcore.ErrorLevel},
	}
	all := logs.All()
	if len(all) != len(want) {
		t.Fatalf("expected %d entries, got %d", len(want), len(all))
	}
	for i, w := range want {
		if all[i].Message != w.msg || all[i].Level != w.level {
			t.Errorf("entry %d: got %q/%v, want %q/%v", i, all[i].Message, all[i].Level, w.msg, w.level)
		}
	}
	if all[3].ContextMap()["error"] != "boom" {
		t.Fatalf("expected error field, got %v", all[3].ContextMap())
	}
	if _, ok := all[4].ContextMap()["error"]; ok {
		t.Fatalf("nil error should not add a field")
	}
}

func TestLoggerFromContextFallbacks(t *testing.T) {
	if LoggerFromContext(nil) != common.Logger() { //nolint:staticcheck // testing nil context handling
		t.Fatalf("nil context should fall back to the shared logger")
	}
	ctx := context.WithValue(context.Background(), ctxLoggerKey{}, (*zap.Logger)(nil))
	if LoggerFromContext(ctx) != common.Logger() {
		t.Fatalf("nil logger should fall back to the shared logger")
	}
	if TraceIDFromContext(nil) != "" { //nolint:staticcheck // testing nil context handling
		t.Fatalf("nil context should have no trace id")
	}
}

const testTraceparent = "00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-01"

func withProjectID(t *testing.T, projectID string) {
	t.Helper()
	orig := cachedProjectID
	cachedProjectID = projectID
	projectIDOnce = sync.Once{}
	projectIDOnce.Do(func() {})
	t.Cleanup(func() {
		cachedProjectID = orig
	})
}

func TestTraceFields(t *testing.T) {
	cases := []struct {
		name    string
		header  string
		trace   string
		span    string
		sampled int64
	}{
		{"traceparent sampled", testTraceparent, "3d23d071b5bfd6579171efce907685cb", "08f067aa0ba902b7", 1},
		{"traceparent unsampled", "00-3d23d071b5bfd6579171efce907685cb-08f067aa0ba902b7-00", "3d23d071b5bfd6579171efce907685cb", "08f067aa0ba902b7", 0},
		{"cloud trace sampled", "105445aa7843bc8bf206b12000100000/1;o=1", "105445aa7843bc8bf206b12000100000", "1", 1},
		{"cloud trace without option", "105445aa7843bc8bf206b12000100000/42", "105445aa7843bc8bf206b12000100000", "42", 0},
	}
	for _, tc := range cases {
		fields := traceFields(tc.header, "test-project")
		if len(fields) != 3 {
			t.Fatalf("%s: expected 3 fields, got %d", tc.name, len(fields))
		}
		wantTrace := fmt.Sprintf("projects/%s/traces/%s", "test-project", tc.trace)
		if fields[0].Key != "logging.googleapis.com/trace" || fields[0].String != wantTrace {
			t.Errorf("%s: unexpected trace field: %+v", tc.name, fields[0])
		}
		if fields[1].Key != "logging.googleapis.com/spanId" || fields[1].String != tc.span {
			t.Errorf("%s: unexpected span field: %+v", tc.name, fields[1])
		}
		if fields[2].Key != "logging.googleapis.com/trace_sampled" || fields[2].Type != zapcore.BoolType ||
			fields[2].Integer != tc.sampled {
			t.Errorf("%s: unexpected sampled field: %+v", tc.name, fields[2])
		}
	}
}

func TestTraceFieldsInvalid(t *testing.T) {
	if fields := traceFields("invalid", "test-project"); fields != nil {
		t.Fatalf("expected nil fields for invalid header, got %v", fields)
	}
	if fields := traceFields("", "test-project"); fields != nil {
		t.Fatalf("expected nil fields for empty header, got %v", fields)
	}
	if fields := traceFields("00-00000000000000000000000000000000-08f067aa0ba902b7-01", "test-project"); fields != nil {
		t.Fatalf("expected nil fields for all-zero trace id, got %v", fields)
	}
	if fields := traceFields(testTraceparent, ""); fields != nil {
		t.Fatalf("expected nil fields when projectID missing, got %v", fields)
	}
}

func TestTraceResource(t *testing.T) {
	want := "projects/test-project/traces/3d23d071b5bfd6579171efce907685cb"
	if got := traceResource(testTraceparent, "test-project"); got != want {
		t.Fatalf("expected %s, got %s", want, got)
	}
	if got := traceResource(testTraceparent, ""); got != "" {
		t.Fatalf("expected empty resource without project, got %s", got)
	}
	if got := traceResource("bogus", "test-project"); got != "" {
		t.Fatalf("expected empty resource for invalid header, got %s", got)
	}
}

func TestLoggerWithTraceAddsCloudFields(t *testing.T) {
	logger, logs := observedLogger(zapcore.InfoLevel)

	loggerWithTrace(logger, testTraceparent, "test-project", "req-123").Info("hello")

	entries := logs.All()
	if len(entries) != 1 {
		t.Fatalf("expected 1 log entry, got %d", len(entries))
	}
	fields := entries[0].ContextMap()
	if fields["logging.googleapis.com/trace"] != "projects/test-project/traces/3d23d071b5bfd6579171efce907685cb" {
		t.Fatalf("trace field mismatch: %v", fields)
	}
	if fields["logging.googleapis.com/spanId"] != "08f067aa0ba902b7" || fields["logging.googleapis.com/trace_sampled"] != true {
		t.Fatalf("span fields mismatch: %v", fields)
	}
	if fields["requestId"] != "req-123" {
		t.Fatalf("requestId field mismatch: %v", fields)
	}
}

func TestLoggerWithTraceNoFields(t *testing.T) {
	logger, _ := observedLogger(zapcore.InfoLevel)
	if got := loggerWithTrace(logger, "", "", ""); got != logger {
		t.Fatalf("expected base logger when there is nothing to add")
	}
	if loggerWithTrace(nil, "", "", "") == nil {
		t.Fatalf("expected a nop logger for nil base")
	}
}

func TestRequestLoggerUsesTraceHeader(t *testing.T) {
	withProjectID(t, "test-project")

	for _, header := range []string{"traceparent", "X-Cloud-Trace-Context"} {
		value := testTraceparent
		if header == "X-Cloud-Trace-Context" {
			value = "3d23d071b5bfd6579171efce907685cb/1;o=1"
		}
		var traceID string
		h := RequestID()(RequestLogger()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
			traceID = TraceIDFromContext(r.Context())
		})))
		req := httptest.NewRequest(http.MethodGet, "/v1/default", nil)
		req.Header.Set(header, value)
		req.Header.Set(chimiddleware.RequestIDHeader, "req-123")
		h.ServeHTTP(httptest.NewRecorder(), req)

		if traceID != "projects/test-project/traces/3d23d071b5bfd6579171efce907685cb" {
			t.Errorf("%s: unexpected trace id %q", header, traceID)
		}
	}
}

func TestRequestLoggerFallsBackToRequestID(t *testing.T) {
	withProjectID(t, "")

	var traceID string
	h := RequestID()(RequestLogger()(http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		traceID = TraceIDFromContext(r.Context())
	})))
	req := httptest.NewRequest(http.MethodGet, "/v1/default", nil)
	req.Header.Set("traceparent", testTraceparent)
	req.Header.Set(chimiddleware.RequestIDHeader, "test-request-id")
	h.ServeHTTP(httptest.NewRecorder(), req)

	if traceID != "test-request-id" {
		t.Fatalf("expected request id as trace id, got %q", traceID)
	}
}

func TestFirstNonEmpty(t *testing.T) {
	if got := firstNonEmpty("", "", "value", "other"); got != "value" {
		t.Fatalf("expected 'value', got %q", got)
	}
	if got := firstNonEmpty(); got != "" {
		t.Fatalf("expected empty string, got %q", got)
	}
}

func TestSugarFromContext(t *testing.T) {
	logger, logs := observedLogger(zapcore.InfoLevel)
	ctx := ContextWithLogger(context.Background(), logger)

	SugarFromContext(ctx).Infow("sugared", "code", 404)

	entries := logs.FilterMessage("sugared").All()
	if len(entries) != 1 || entries[0].ContextMap()["code"] != int64(404) {
		t.Fatalf("unexpected entries: %v", entries)
	}
	if SugarFromContext(context.Background()) != common.Sugar() {
		t.Fatalf("expected shared sugared logger without a request logger")
	}
}
