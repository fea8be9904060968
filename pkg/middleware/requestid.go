package middleware

import (
	"crypto/rand"
	"encoding/hex"
	"net/http"

	"github.com/hadarkn/IR-Final-Project-2026/pkg/logger"
)

const requestIDHeader = "X-Request-ID"

// RequestID attaches a request ID to the context of every request, reusing
// the client-supplied header when present.
func RequestID(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		id := r.Header.Get(requestIDHeader)
		if id == "" {
			id = newRequestID()
		}
		w.Header().Set(requestIDHeader, id)
		ctx := logger.WithRequestID(r.Context(), id)
		next.ServeHTTP(w, r.WithContext(ctx))
	})
}

func newRequestID() string {
	var b [8]byte
	if _, err := rand.Read(b[:]); err != nil {
		return "unknown"
	}
	return hex.EncodeToString(b[:])
}
