package middleware

import (
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/guardpost/guardpost-backend/internal/handler/http/response"
	"github.com/guardpost/guardpost-backend/internal/pkg/jwt"
)

// RequireManager requires manager or owner role
func RequireManager(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		claims, err := jwt.ClaimsFromContext(r.Context())
		if err != nil {
			response.HandleError(w, jwt.ErrManagerAccessRequired)
			return
		}

		if !claims.Role.IsManager() {
			response.HandleError(w, jwt.ErrManagerAccessRequired)
			return
		}

		next.ServeHTTP(w, r)
	})
}

// RequireSelfOrManager lets employees through only for their own employee ID,
// read from the named URL parameter.
func RequireSelfOrManager(param string) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			claims, err := jwt.ClaimsFromContext(r.Context())
			if err != nil {
				response.HandleError(w, err)
				return
			}

			if claims.Role.IsManager() {
				next.ServeHTTP(w, r)
				return
			}

			if claims.EmployeeID == "" || claims.EmployeeID != chi.URLParam(r, param) {
				response.Forbidden(w, "You can only access your own records")
				return
			}

			next.ServeHTTP(w, r)
		})
	}
}
