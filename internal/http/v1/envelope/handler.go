package envelope

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"go.uber.org/zap"

	"github.com/janisto/api-response/internal/api"
	appmiddleware "github.com/janisto/api-response/internal/middleware"
	"github.com/janisto/api-response/internal/respond"
	"github.com/janisto/api-response/internal/status"
)

// Register wires envelope routes into the provided API router.
func Register(humaAPI huma.API) {
	huma.Register(humaAPI, huma.Operation{
		OperationID: "get-default-envelope",
		Method:      http.MethodGet,
		Path:        "/v1/default",
		Summary:     "Return the default envelope",
		Tags:        []string{"envelope"},
	}, defaultHandler)

	huma.Register(humaAPI, huma.Operation{
		OperationID: "get-status-envelope",
		Method:      http.MethodGet,
		Path:        "/v1/status/{code}",
		Summary:     "Emit an envelope carrying the given code",
		Description: "Codes outside 100-599 are sent with a 500 status line while the body keeps the requested code.",
		Tags:        []string{"envelope"},
	}, statusHandler)
}

func defaultHandler(ctx context.Context, _ *struct{}) (*respond.Output, error) {
	return respond.NewOutput(ctx, api.Default()), nil
}

func statusHandler(ctx context.Context, in *CodeInput) (*respond.Output, error) {
	code := uint16(in.Code)
	label := status.LabelFor(code)
	appmiddleware.LogDebug(ctx, "status envelope requested", zap.Uint16("code", code), zap.String("label", label))
	return respond.NewOutput(ctx, api.New(code, label)), nil
}
