package request

import (
	"net/http"

	"statuslist/pkg/platform/httputil"
)

// DefaultMaxBodyBytes caps inbound bodies. A revocation body is a single
// compact token, so this is generous.
const DefaultMaxBodyBytes int64 = 16 << 10

// BodyLimit rejects requests whose declared Content-Length exceeds maxBytes
// with 413 and wraps the body in http.MaxBytesReader for the rest.
// A non-positive maxBytes uses DefaultMaxBodyBytes.
func BodyLimit(maxBytes int64) func(http.Handler) http.Handler {
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBodyBytes
	}
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.ContentLength > maxBytes {
				httputil.WritePayloadTooLarge(w)
				return
			}
			r.Body = http.MaxBytesReader(w, r.Body, maxBytes)
			next.ServeHTTP(w, r)
		})
	}
}
