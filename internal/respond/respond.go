// Package respond emits envelopes over HTTP. It owns the wire contract:
// JSON body keys, the Content-Type and Accept headers, and the substitution
// of 500 for codes that are not valid wire statuses.
package respond

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"runtime/debug"
	"strconv"
	"strings"

	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/janisto/api-response/internal/api"
	appmiddleware "github.com/janisto/api-response/internal/middleware"
	"github.com/janisto/api-response/internal/status"
)

const (
	ContentTypeJSON = "application/json"

	minWireStatus = 100
	maxWireStatus = 599
)

// Body is the serialized form of an envelope. Field order is part of the
// wire contract.
type Body struct {
	Code    uint16 `json:"code"`
	Message string `json:"message"`
	Data    any    `json:"data"`
	Status  string `json:"status"`
	Errors  any    `json:"errors"`
}

// WireStatus returns the HTTP status line value for code. Codes outside
// 100-599 are replaced by 500.
func WireStatus(code uint16) int {
	if !validWireStatus(code) {
		return http.StatusInternalServerError
	}
	return int(code)
}

// BodyFrom builds the wire body of env. Its status field holds the decimal
// code rather than the envelope label; codes that are not valid wire
// statuses render the default code instead.
func BodyFrom(env api.Envelope) Body {
	rendered := api.DefaultCode
	if validWireStatus(env.Code) {
		rendered = env.Code
	}
	return Body{
		Code:    env.Code,
		Message: env.Message,
		Data:    env.Data,
		Status:  strconv.Itoa(int(rendered)),
		Errors:  env.Errors,
	}
}

// Marshal encodes the wire body of env without HTML escaping and without a
// trailing newline.
func Marshal(env api.Envelope) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	if err := enc.Encode(BodyFrom(env)); err != nil {
		return nil, fmt.Errorf("encode envelope: %w", err)
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}

// Write emits env on w. Encoding happens before any header is written, so a
// payload that cannot be marshaled produces a 500 envelope instead of a
// truncated body; the encoding error is still returned.
func Write(ctx context.Context, w http.ResponseWriter, env api.Envelope) error {
	body, err := Marshal(env)
	if err != nil {
		appmiddleware.LogError(ctx, "envelope encoding failed", err, zap.Uint16("code", env.Code))
		env = api.Fault(status.InternalServerError, status.InternalServerError.String())
		body, _ = Marshal(env)
	}

	wire := WireStatus(env.Code)
	h := w.Header()
	h.Set("Content-Type", ContentTypeJSON)
	h.Set("Accept", ContentTypeJSON)
	w.WriteHeader(wire)
	if _, werr := w.Write(body); werr != nil && err == nil {
		err = fmt.Errorf("write envelope: %w", werr)
	}
	observe(ctx, env, wire)
	return err
}

// NotFoundHandler emits a 404 envelope.
func NotFoundHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		env := api.Fail(status.NotFound, "resource not found", nil)
		if err := Write(r.Context(), w, env); err != nil {
			appmiddleware.LogError(r.Context(), "failed to render not found", err)
		}
	}
}

// MethodNotAllowedHandler emits a 405 envelope and an Allow header listing
// the methods the matched route accepts.
func MethodNotAllowedHandler() http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		allow := allowedMethods(r)
		if len(allow) > 0 {
			w.Header().Set("Allow", strings.Join(allow, ", "))
		}
		env := api.Fail(status.MethodNotAllowed, "method not allowed", allow)
		if err := Write(r.Context(), w, env); err != nil {
			appmiddleware.LogError(r.Context(), "failed to render method not allowed", err)
		}
	}
}

// Recoverer converts panics into 500 envelopes. The panic value and stack
// are logged, never returned to the client.
func Recoverer() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				rec := recover()
				if rec == nil {
					return
				}
				if rec == http.ErrAbortHandler {
					panic(rec)
				}
				err, ok := rec.(error)
				if !ok {
					err = fmt.Errorf("%v", rec)
				}
				appmiddleware.LogError(r.Context(), "panic recovered", err, zap.ByteString("stack", debug.Stack()))
				env := api.Fault(status.InternalServerError, status.InternalServerError.String())
				if writeErr := Write(r.Context(), w, env); writeErr != nil {
					appmiddleware.LogError(r.Context(), "failed to render internal error", writeErr)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}

// allowedMethods asks chi which methods match the request path.
func allowedMethods(r *http.Request) []string {
	rctx := chi.RouteContext(r.Context())
	if rctx == nil || rctx.Routes == nil {
		return nil
	}
	routePath := rctx.RoutePath
	if routePath == "" {
		routePath = r.URL.RawPath
		if routePath == "" {
			routePath = r.URL.Path
		}
		if routePath == "" {
			routePath = "/"
		}
	}

	var allowed []string
	for _, method := range []string{
		http.MethodGet,
		http.MethodHead,
		http.MethodPost,
		http.MethodPut,
		http.MethodPatch,
		http.MethodDelete,
		http.MethodOptions,
	} {
		if rctx.Routes.Match(chi.NewRouteContext(), method, routePath) {
			allowed = append(allowed, method)
		}
	}
	return allowed
}

// observe logs each emitted envelope at a level matching its wire status.
func observe(ctx context.Context, env api.Envelope, wire int) {
	fields := []zap.Field{
		zap.Int("status", wire),
		zap.Uint16("code", env.Code),
		zap.String("label", env.Status),
	}
	switch {
	case wire >= 500:
		appmiddleware.LogError(ctx, "envelope emitted", nil, fields...)
	case wire >= 400:
		appmiddleware.LogWarn(ctx, "envelope emitted", fields...)
	default:
		appmiddleware.LogDebug(ctx, "envelope emitted", fields...)
	}
}

func validWireStatus(code uint16) bool {
	return code >= minWireStatus && code <= maxWireStatus
}
