package routes

import (
	"github.com/danielgtaylor/huma/v2"

	"github.com/janisto/api-response/internal/http/v1/classify"
	"github.com/janisto/api-response/internal/http/v1/envelope"
)

// Register wires all HTTP routes into the provided API router.
func Register(humaAPI huma.API) {
	envelope.Register(humaAPI)
	classify.Register(humaAPI)
}
