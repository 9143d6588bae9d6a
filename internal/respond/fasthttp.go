package respond

import (
	"context"

	"github.com/valyala/fasthttp"
	"go.uber.org/zap"

	"github.com/janisto/api-response/internal/api"
	appmiddleware "github.com/janisto/api-response/internal/middleware"
	"github.com/janisto/api-response/internal/status"
)

// WriteFastHTTP emits env on a fasthttp request with the same contract as
// Write. ctx is only used for logging.
func WriteFastHTTP(ctx context.Context, rc *fasthttp.RequestCtx, env api.Envelope) error {
	body, err := Marshal(env)
	if err != nil {
		appmiddleware.LogError(ctx, "envelope encoding failed", err, zap.Uint16("code", env.Code))
		env = api.Fault(status.InternalServerError, status.InternalServerError.String())
		body, _ = Marshal(env)
	}

	wire := WireStatus(env.Code)
	rc.Response.Header.SetContentType(ContentTypeJSON)
	rc.Response.Header.Set("Accept", ContentTypeJSON)
	rc.SetStatusCode(wire)
	rc.SetBody(body)
	observe(ctx, env, wire)
	return err
}
