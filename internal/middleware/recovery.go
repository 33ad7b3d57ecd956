package middleware

import (
	"net/http"
	"runtime/debug"

	"sentiment-rest-api/internal/requestctx"
	"sentiment-rest-api/pkg/apierror"

	"github.com/rs/zerolog/log"
)

// Recovery is a middleware that recovers from panics.
func Recovery(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		defer func() {
			if err := recover(); err != nil {
				log.Error().
					Interface("panic", err).
					Str("request_id", requestctx.RequestID(r.Context())).
					Bytes("stack", debug.Stack()).
					Msg("http_panic_recovered")

				writeError(w, apierror.InternalError("internal server error"))
			}
		}()

		next.ServeHTTP(w, r)
	})
}
