package auth

import (
	"context"
	"net/http"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"

	"contactdesk/internal/common"
)

type contextKey string

const subjectKey contextKey = "admin_subject"

// RequireAuth re-verifies the cookie token on every request. Missing and
// invalid tokens get the same 401 body.
func RequireAuth(a *Authenticator) mux.MiddlewareFunc {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := TokenFromRequest(r)
			if token == "" {
				common.RespondWithError(w, http.StatusUnauthorized, common.CodeUnauthorized, "unauthorized")
				return
			}

			claims, err := a.ParseToken(token)
			if err != nil {
				log.Debug().Err(err).Str("path", r.URL.Path).Msg("rejected admin token")
				common.RespondWithError(w, http.StatusUnauthorized, common.CodeUnauthorized, "unauthorized")
				return
			}

			ctx := context.WithValue(r.Context(), subjectKey, claims.Subject)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// SubjectFromContext returns the admin username RequireAuth stored.
func SubjectFromContext(ctx context.Context) (string, bool) {
	subject, ok := ctx.Value(subjectKey).(string)
	return subject, ok
}
