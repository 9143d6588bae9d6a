package respond

import (
	"context"
	"errors"
	"net/http"
	"sync"

	"github.com/danielgtaylor/huma/v2"
	"github.com/danielgtaylor/huma/v2/adapters/humachi"
	"github.com/go-chi/chi/v5"
	"go.uber.org/zap"

	"github.com/janisto/api-response/internal/api"
	appmiddleware "github.com/janisto/api-response/internal/middleware"
)

// Output lets huma handlers return an envelope. Status drives the status
// line, the Content-Type field pins JSON so huma skips content negotiation.
type Output struct {
	Status      int
	ContentType string `header:"Content-Type"`
	Body        Body
}

// NewOutput wraps env for a huma handler.
func NewOutput(ctx context.Context, env api.Envelope) *Output {
	wire := WireStatus(env.Code)
	observe(ctx, env, wire)
	return &Output{
		Status:      wire,
		ContentType: ContentTypeJSON,
		Body:        BodyFrom(env),
	}
}

// NewAPI mounts a huma API on router whose responses carry exactly the
// envelope body. The schema link hook is dropped so no "$schema" key or Link
// header is added, and AcceptJSON runs for every operation.
func NewAPI(router chi.Router, title, version, docsPath string) huma.API {
	Install()
	cfg := huma.DefaultConfig(title, version)
	cfg.CreateHooks = nil
	cfg.DocsPath = docsPath
	humaAPI := humachi.New(router, cfg)
	humaAPI.UseMiddleware(AcceptJSON)
	return humaAPI
}

// AcceptJSON sets the Accept header before the operation runs, so responses
// huma writes on its own (parameter validation failures) carry it too.
func AcceptJSON(ctx huma.Context, next func(huma.Context)) {
	ctx.SetHeader("Accept", ContentTypeJSON)
	next(ctx)
}

var installOnce sync.Once

// Install makes huma render its own errors (validation failures, unknown
// content types, handler errors) as envelopes.
func Install() {
	installOnce.Do(func() {
		huma.NewError = func(status int, msg string, errs ...error) huma.StatusError {
			return statusError(context.Background(), status, msg, errs...)
		}
		huma.NewErrorWithContext = func(hctx huma.Context, status int, msg string, errs ...error) huma.StatusError {
			ctx := context.Background()
			if hctx != nil {
				ctx = hctx.Context()
			}
			return statusError(ctx, status, msg, errs...)
		}
	})
}

// envelopeError is the huma.StatusError carrying an envelope body. The
// embedded Body is what huma serializes.
type envelopeError struct {
	Body
	status int
}

func (e *envelopeError) Error() string {
	if e.Message != "" {
		return e.Message
	}
	return http.StatusText(e.status)
}

func (e *envelopeError) GetStatus() int {
	return e.status
}

// ContentType keeps error bodies in JSON whatever the client negotiated.
func (e *envelopeError) ContentType(string) string {
	return ContentTypeJSON
}

func statusError(ctx context.Context, code int, msg string, errs ...error) huma.StatusError {
	wireCode := uint16(http.StatusInternalServerError)
	if code >= minWireStatus && code <= maxWireStatus {
		wireCode = uint16(code)
	}
	if msg == "" {
		msg = http.StatusText(int(wireCode))
	}

	var opts []api.Option
	if details := detailsFromErrors(errs); len(details) > 0 {
		opts = append(opts, api.WithErrors(details))
	}
	env := api.New(wireCode, msg, opts...)
	if cause := errors.Join(errs...); cause != nil && wireCode >= 500 {
		appmiddleware.LogError(ctx, "request failed", cause, zap.Uint16("code", wireCode))
	}
	observe(ctx, env, WireStatus(env.Code))
	return &envelopeError{Body: BodyFrom(env), status: WireStatus(env.Code)}
}

// Detail is one entry of the errors payload built from huma errors.
type Detail struct {
	Location string `json:"location,omitempty"`
	Message  string `json:"message"`
	Value    any    `json:"value,omitempty"`
}

func detailsFromErrors(errs []error) []Detail {
	var details []Detail
	for _, err := range errs {
		if err == nil {
			continue
		}
		d := Detail{Message: err.Error()}
		var detailer huma.ErrorDetailer
		if errors.As(err, &detailer) {
			if ed := detailer.ErrorDetail(); ed != nil {
				d = Detail{Location: ed.Location, Message: ed.Message, Value: ed.Value}
			}
		}
		details = append(details, d)
	}
	return details
}
