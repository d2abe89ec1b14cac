package middleware

import (
	"io"
	"net/http"
)

// DefaultMaxBodyBytes is far above any score request; larger bodies are cut off.
const DefaultMaxBodyBytes int64 = 64 << 10

// LimitAndDrainRequest caps how much of the request body handlers may read and
// drains and closes whatever is left once they are done, so the connection can
// be reused. Reading past the cap fails with *http.MaxBytesError.
func LimitAndDrainRequest(maxBodyBytes int64) func(next http.Handler) http.Handler {
	if maxBodyBytes <= 0 {
		maxBodyBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Body != nil {
				r.Body = http.MaxBytesReader(w, r.Body, maxBodyBytes)
			}
			next.ServeHTTP(w, r)
			if r.Body != nil {
				_, _ = io.Copy(io.Discard, r.Body)
				_ = r.Body.Close()
			}
		})
	}
}
