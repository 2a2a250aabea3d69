package http

import (
	"net/http"

	"github.com/rs/cors"
	"github.com/ryanuber/go-glob"
)

// CORS wraps h so that browsers on any of the allowed origins may call
// it. Origins may be globs, e.g. "https://*.example.com"; "*" allows
// every origin.
func CORS(allowedOrigins []string, h http.Handler) http.Handler {
	return cors.New(cors.Options{
		AllowOriginFunc: func(origin string) bool {
			return OriginAllowed(allowedOrigins, origin)
		},
		AllowedMethods: []string{"GET", "HEAD", "OPTIONS"},
	}).Handler(h)
}

func OriginAllowed(patterns []string, origin string) bool {
	for _, p := range patterns {
		if p == "*" || glob.Glob(p, origin) {
			return true
		}
	}
	return false
}
