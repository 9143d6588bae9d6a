package health

import (
	"net/http"

	"github.com/janisto/api-response/internal/api"
	"github.com/janisto/api-response/internal/respond"
)

// Response is the payload for the health endpoint.
type Response struct {
	Status string `json:"status"`
}

// Handler is a plain HTTP handler for the health check endpoint. It bypasses
// huma so probes keep working even if the OpenAPI layer fails to build.
func Handler(w http.ResponseWriter, r *http.Request) {
	_ = respond.Write(r.Context(), w, api.Success(Response{Status: "healthy"}))
}
