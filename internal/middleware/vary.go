package middleware

import "net/http"

// Vary adds Accept to the Vary header. Envelopes are always JSON, but huma
// still consults Accept for its own error responses. Origin is added by CORS.
func Vary() func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			w.Header().Add("Vary", "Accept")
			next.ServeHTTP(w, r)
		})
	}
}
