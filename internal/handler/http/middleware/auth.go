package middleware

import (
	"net/http"

	"github.com/go-chi/jwtauth/v5"

	"github.com/workzen-hrms/hrms-backend-go/internal/domain/user"
	"github.com/workzen-hrms/hrms-backend-go/internal/handler/http/response"
)

// AuthRequired admits only verified access tokens that carry the identity
// claims the payroll services rely on. Refresh tokens and tokens without a
// user_id are rejected at the boundary instead of failing deeper in a flow.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		if tokenType, _ := claims["type"].(string); tokenType != "access" {
			response.HandleError(w, user.ErrInvalidToken)
			return
		}

		// Every payroll write is attributed to user_id
		if userID, _ := claims["user_id"].(string); userID == "" {
			response.HandleError(w, user.ErrMissingUserClaim)
			return
		}

		next.ServeHTTP(w, r)
	})
}
