package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"
	"github.com/guardpost/guardpost-backend/internal/handler/http/response"
	"github.com/guardpost/guardpost-backend/internal/pkg/jwt"
)

// AuthRequired rejects requests without a verified access token carrying a company.
func AuthRequired(ja *jwtauth.JWTAuth) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		hfn := func(w http.ResponseWriter, r *http.Request) {
			token, claims, err := jwtauth.FromContext(r.Context())

			if err != nil {
				response.Unauthorized(w, err.Error())
				return
			}

			if token == nil {
				response.HandleError(w, jwt.ErrInvalidToken)
				return
			}

			tokenType, ok := claims["type"].(string)
			if tokenType != "access" || !ok {
				response.HandleError(w, jwt.ErrInvalidToken)
				return
			}

			if _, err := jwt.ClaimsFromContext(r.Context()); err != nil {
				response.HandleError(w, err)
				return
			}

			next.ServeHTTP(w, r)
		}
		return http.HandlerFunc(hfn)
	}
}
