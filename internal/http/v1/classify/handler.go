package classify

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/api-response/internal/api"
	"github.com/janisto/api-response/internal/respond"
	"github.com/janisto/api-response/internal/status"
)

// Register wires the classifier route into the provided API router.
func Register(humaAPI huma.API) {
	huma.Register(humaAPI, huma.Operation{
		OperationID: "classify-status",
		Method:      http.MethodGet,
		Path:        "/v1/classify/{code}",
		Summary:     "Classify a status code",
		Tags:        []string{"classifier"},
	}, classifyHandler)
}

func classifyHandler(ctx context.Context, in *CodeInput) (*respond.Output, error) {
	code := uint16(in.Code)
	category := status.Classify(code)
	return respond.NewOutput(ctx, api.Success(Classification{
		Code:  code,
		Label: status.Label(category),
		Kind:  category.Kind().String(),
	})), nil
}
