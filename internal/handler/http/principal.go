package http

import (
	"net/http"

	"github.com/Nova-Gear/presence-api/internal/domain/auth"
	"github.com/Nova-Gear/presence-api/internal/domain/user"
	"github.com/go-chi/jwtauth/v5"
)

// principalFromRequest rebuilds the acting principal from the verified JWT
// claims. Handlers pass it to services explicitly; nothing downstream reads
// identity out of the context.
func principalFromRequest(r *http.Request) (user.Principal, error) {
	_, claims, err := jwtauth.FromContext(r.Context())
	if err != nil {
		return user.Principal{}, auth.ErrInvalidToken
	}

	userID, ok := claims["user_id"].(string)
	if !ok || userID == "" {
		return user.Principal{}, auth.ErrInvalidToken
	}
	roleStr, ok := claims["role"].(string)
	if !ok {
		return user.Principal{}, auth.ErrInvalidToken
	}

	principal := user.Principal{
		UserID: userID,
		Role:   user.Role(roleStr),
	}
	if companyID, ok := claims["company_id"].(string); ok && companyID != "" {
		principal.CompanyID = &companyID
	}

	return principal, nil
}
