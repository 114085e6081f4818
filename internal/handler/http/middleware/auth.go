package middleware

import (
	"net/http"

	"github.com/Nova-Gear/presence-api/internal/domain/auth"
	"github.com/Nova-Gear/presence-api/internal/handler/http/response"
	"github.com/go-chi/jwtauth/v5"
)

// AuthRequired rejects requests that did not arrive with a valid access
// token. Signature and expiry checks happen upstream in jwtauth.Verifier;
// this middleware checks their outcome and that the token's "type" claim
// marks it as an access token, so nothing else minted with the same key is
// accepted here. Handlers rebuild the acting principal from the claims.
func AuthRequired(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, claims, err := jwtauth.FromContext(r.Context())
		if err != nil || token == nil {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		if tokenType, _ := claims["type"].(string); tokenType != "access" {
			response.HandleError(w, auth.ErrInvalidToken)
			return
		}

		next.ServeHTTP(w, r)
	})
}
