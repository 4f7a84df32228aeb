package middleware

import (
	"fmt"
	"net/http"

	"github.com/haneul-labs/fassto-gateway/api/responses"
	pkgerrors "github.com/haneul-labs/fassto-gateway/pkg/errors"
	"github.com/haneul-labs/fassto-gateway/pkg/logger"
)

// Recoverer converts panics into the standard error envelope instead of
// tearing down the connection.
func Recoverer(logg *logger.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			defer func() {
				if recovered := recover(); recovered != nil {
					err := pkgerrors.Wrap(
						pkgerrors.CodeInternal,
						fmt.Errorf("panic: %v", recovered),
						"unhandled panic",
					)
					responses.WriteError(r.Context(), logg, w, err)
				}
			}()
			next.ServeHTTP(w, r)
		})
	}
}
