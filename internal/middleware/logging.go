package middleware

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"regexp"
	"strconv"
	"sync"
	"time"

	chimiddleware "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/janisto/api-response/internal/common"
	"github.com/janisto/api-response/internal/status"
)

const (
	traceparentHeader = "traceparent"
	cloudTraceHeader  = "X-Cloud-Trace-Context"
)

var (
	traceparentRe = regexp.MustCompile(`^[0-9a-f]{2}-([0-9a-f]{32})-([0-9a-f]{16})-([0-9a-f]{2})$`)
	cloudTraceRe  = regexp.MustCompile(`^([0-9a-fA-F]+)/([0-9a-zA-Z]+)(?:;o=(\d))?$`)
)

var (
	projectIDOnce   sync.Once
	cachedProjectID string
)

type (
	ctxLoggerKey  struct{}
	ctxTraceIDKey struct{}
)

// RequestLogger stores a request-scoped logger in the context. With a known
// GCP project, the W3C traceparent or X-Cloud-Trace-Context header becomes the
// Cloud Logging trace fields and the correlation ID; otherwise the request ID
// is used for correlation.
func RequestLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := traceHeader(r)
			projectID := resolveProjectID()
			reqID := chimiddleware.GetReqID(r.Context())

			traceID := traceResource(header, projectID)
			if traceID == "" {
				traceID = reqID
			}
			logger := loggerWithTrace(common.Logger(), header, projectID, reqID)
			ctx := contextWithTraceID(r.Context(), traceID)
			ctx = context.WithValue(ctx, ctxLoggerKey{}, logger)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AccessLogger writes one entry per request with the emitted status and
// its envelope label.
func AccessLogger() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			ww := chimiddleware.NewWrapResponseWriter(w, r.ProtoMajor)
			next.ServeHTTP(ww, r)

			code := ww.Status()
			if code == 0 {
				code = http.StatusOK
			}
			LoggerFromContext(r.Context()).Info(
				"request completed",
				zap.String("method", r.Method),
				zap.String("path", r.URL.Path),
				zap.Int("status", code),
				zap.String("label", status.LabelFor(uint16(code))),
				zap.Int("bytes", ww.BytesWritten()),
				zap.Duration("duration", time.Since(start)),
			)
		})
	}
}

// LoggerFromContext returns the request-scoped logger, or the shared logger
// when none is attached.
func LoggerFromContext(ctx context.Context) *zap.Logger {
	if ctx == nil {
		return common.Logger()
	}
	if l, ok := ctx.Value(ctxLoggerKey{}).(*zap.Logger); ok && l != nil {
		return l
	}
	return common.Logger()
}

// SugarFromContext returns a sugared logger derived from the request context.
func SugarFromContext(ctx context.Context) *zap.SugaredLogger {
	if ctx != nil {
		if l, ok := ctx.Value(ctxLoggerKey{}).(*zap.Logger); ok && l != nil {
			return l.Sugar()
		}
	}
	return common.Sugar()
}

// ContextWithLogger attaches logger to ctx. Mostly useful in tests.
func ContextWithLogger(ctx context.Context, logger *zap.Logger) context.Context {
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxLoggerKey{}, logger)
}

// TraceIDFromContext returns the correlation ID if present.
func TraceIDFromContext(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	v, _ := ctx.Value(ctxTraceIDKey{}).(string)
	return v
}

func LogDebug(ctx context.Context, msg string, fields ...zap.Field) {
	LoggerFromContext(ctx).Debug(msg, fields...)
}

func LogInfo(ctx context.Context, msg string, fields ...zap.Field) {
	LoggerFromContext(ctx).Info(msg, fields...)
}

func LogWarn(ctx context.Context, msg string, fields ...zap.Field) {
	LoggerFromContext(ctx).Warn(msg, fields...)
}

// LogError appends err as the error field when it is non-nil.
func LogError(ctx context.Context, msg string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	LoggerFromContext(ctx).Error(msg, fields...)
}

// LogFatal logs like LogError and then exits the process.
func LogFatal(ctx context.Context, msg string, err error, fields ...zap.Field) {
	if err != nil {
		fields = append(fields, zap.Error(err))
	}
	LoggerFromContext(ctx).Fatal(msg, fields...)
}

func contextWithTraceID(ctx context.Context, traceID string) context.Context {
	if traceID == "" {
		return ctx
	}
	if ctx == nil {
		ctx = context.Background()
	}
	return context.WithValue(ctx, ctxTraceIDKey{}, traceID)
}

func traceHeader(r *http.Request) string {
	if h := r.Header.Get(traceparentHeader); h != "" {
		return h
	}
	return r.Header.Get(cloudTraceHeader)
}

func loggerWithTrace(base *zap.Logger, header, projectID, requestID string) *zap.Logger {
	if base == nil {
		base = zap.NewNop()
	}
	fields := traceFields(header, projectID)
	if requestID != "" {
		fields = append(fields, zap.String("requestId", requestID))
	}
	if len(fields) == 0 {
		return base
	}
	return base.With(fields...)
}

// parseTrace accepts a W3C traceparent or an X-Cloud-Trace-Context value.
func parseTrace(header string) (traceID, spanID string, sampled, ok bool) {
	if m := traceparentRe.FindStringSubmatch(header); m != nil {
		flags, err := strconv.ParseUint(m[3], 16, 8)
		if err != nil || m[1] == "00000000000000000000000000000000" {
			return "", "", false, false
		}
		return m[1], m[2], flags&1 == 1, true
	}
	if m := cloudTraceRe.FindStringSubmatch(header); m != nil {
		return m[1], m[2], m[3] == "1", true
	}
	return "", "", false, false
}

func traceFields(header, projectID string) []zap.Field {
	if projectID == "" {
		return nil
	}
	traceID, spanID, sampled, ok := parseTrace(header)
	if !ok {
		return nil
	}
	return []zap.Field{
		zap.String("logging.googleapis.com/trace", fmt.Sprintf("projects/%s/traces/%s", projectID, traceID)),
		zap.String("logging.googleapis.com/spanId", spanID),
		zap.Bool("logging.googleapis.com/trace_sampled", sampled),
	}
}

func traceResource(header, projectID string) string {
	if projectID == "" {
		return ""
	}
	traceID, _, _, ok := parseTrace(header)
	if !ok {
		return ""
	}
	return fmt.Sprintf("projects/%s/traces/%s", projectID, traceID)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

func resolveProjectID() string {
	projectIDOnce.Do(func() {
		cachedProjectID = firstNonEmpty(
			os.Getenv("GOOGLE_CLOUD_PROJECT"),
			os.Getenv("GCP_PROJECT"),
			os.Getenv("GCLOUD_PROJECT"),
			os.Getenv("PROJECT_ID"),
		)
	})
	return cachedProjectID
}
