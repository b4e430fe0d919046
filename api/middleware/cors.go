package middleware

import (
	"net/http"
	"strings"

	"github.com/go-chi/cors"
)

const extensionOriginPrefix = "chrome-extension://"

// CORS allows the configured web origins plus the browser extension, which
// calls the analyze endpoint from its own origin.
func CORS(allowedOrigins []string) func(http.Handler) http.Handler {
	origins := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin = strings.TrimRight(strings.TrimSpace(origin), "/"); origin != "" {
			origins[origin] = struct{}{}
		}
	}
	return cors.New(cors.Options{
		AllowOriginFunc: func(_ *http.Request, origin string) bool {
			if strings.HasPrefix(origin, extensionOriginPrefix) {
				return true
			}
			_, ok := origins[origin]
			return ok
		},
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Content-Type", "X-Request-Id", "X-Session-Id", "X-Requested-With"},
		ExposedHeaders:   []string{"X-Request-Id", "X-Session-Id"},
		AllowCredentials: false,
		MaxAge:           300,
	}).Handler
}
