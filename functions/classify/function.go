// Package classify provides an HTTP Cloud Function that classifies status
// codes and answers with an envelope.
package classify

import (
	"net/http"
	"strconv"

	"github.com/GoogleCloudPlatform/functions-framework-go/functions"

	"github.com/janisto/api-response/internal/api"
	"github.com/janisto/api-response/internal/respond"
	"github.com/janisto/api-response/internal/status"
)

func init() {
	functions.HTTP("Classify", classifyHandler)
}

// Response is the classification payload.
type Response struct {
	Code  uint16 `json:"code"`
	Label string `json:"label"`
	Kind  string `json:"kind"`
}

func classifyHandler(w http.ResponseWriter, r *http.Request) {
	raw := r.URL.Query().Get("code")
	code, err := strconv.ParseUint(raw, 10, 16)
	if err != nil {
		_ = respond.Write(r.Context(), w, api.Fail(status.BadRequest, "code must be an integer between 0 and 65535", []string{raw}))
		return
	}

	category := status.Classify(uint16(code))
	_ = respond.Write(r.Context(), w, api.Success(Response{
		Code:  uint16(code),
		Label: status.Label(category),
		Kind:  category.Kind().String(),
	}))
}
