package middleware

import (
	"net/http"

	"github.com/rs/cors"
)

// Cors allows the given origins, or any origin when allowedOrigins is nil.
func Cors(allowedOrigins []string) Middleware {
	options := cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{
			http.MethodHead,
			http.MethodGet,
			http.MethodPost,
		},
		AllowedHeaders: []string{"*"},
	}
	if allowedOrigins == nil {
		options.AllowOriginFunc = func(string) bool { return true }
	}
	return cors.New(options).Handler
}
