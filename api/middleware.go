package api

import (
	"net/http"
	"strings"

	"github.com/gorilla/mux"

	"reelyseries/internal/clientctx"
)

// ClientIDHeader carries the SPA's per-browser id.
const ClientIDHeader = "X-Client-ID"

const maxClientIDLen = 64

// ClientIDMiddleware resolves the browser client id and stores it in the
// request context. The id scopes watchlists and supersede tracking; it is
// not an identity and is never verified.
func ClientIDMiddleware() mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			id := extractClientID(r)
			next.ServeHTTP(w, r.WithContext(clientctx.WithClientID(r.Context(), id)))
		})
	}
}

// extractClientID reads the id from the header, falling back to ?clientId=.
// Anything outside [A-Za-z0-9_-] is dropped.
func extractClientID(r *http.Request) string {
	raw := strings.TrimSpace(r.Header.Get(ClientIDHeader))
	if raw == "" {
		raw = strings.TrimSpace(r.URL.Query().Get("clientId"))
	}
	var b strings.Builder
	for _, c := range raw {
		if b.Len() == maxClientIDLen {
			break
		}
		switch {
		case c >= 'a' && c <= 'z', c >= 'A' && c <= 'Z', c >= '0' && c <= '9', c == '-', c == '_':
			b.WriteRune(c)
		}
	}
	return b.String()
}
