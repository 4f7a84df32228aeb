package middleware

import (
	"net/http"

	"github.com/go-chi/cors"

	"github.com/haneul-labs/fassto-gateway/api/responses"
	pkgerrors "github.com/haneul-labs/fassto-gateway/pkg/errors"
	"github.com/haneul-labs/fassto-gateway/pkg/logger"
)

// CORS layers the header handling from go-chi/cors with two behaviors it does
// not provide: preflight requests always complete with 204 and no body, and
// requests from an origin outside the allow-list are rejected with the error
// envelope instead of being silently stripped of CORS headers.
func CORS(logg *logger.Logger, allowedOrigins []string) func(http.Handler) http.Handler {
	headers := cors.Handler(cors.Options{
		AllowedOrigins:     allowedOrigins,
		AllowedMethods:     []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders:     []string{"Accept", "Content-Type", "X-Request-Id"},
		MaxAge:             300,
		OptionsPassthrough: true,
	})
	allowAll := false
	allowed := make(map[string]struct{}, len(allowedOrigins))
	for _, origin := range allowedOrigins {
		if origin == "*" {
			allowAll = true
		}
		allowed[origin] = struct{}{}
	}

	return func(next http.Handler) http.Handler {
		guard := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			if r.Method == http.MethodOptions {
				w.WriteHeader(http.StatusNoContent)
				return
			}
			origin := r.Header.Get("Origin")
			if origin != "" && !allowAll {
				if _, ok := allowed[origin]; !ok {
					ctx := logg.WithField(r.Context(), "origin", origin)
					responses.WriteError(ctx, logg, w, pkgerrors.New(pkgerrors.CodeCORS, "origin not allowed"))
					return
				}
			}
			next.ServeHTTP(w, r)
		})
		return headers(guard)
	}
}
