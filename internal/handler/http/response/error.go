package response

import (
	"errors"
	"net/http"

	"github.com/Nova-Gear/presence-api/internal/domain/auth"
	"github.com/Nova-Gear/presence-api/internal/domain/company"
	"github.com/Nova-Gear/presence-api/internal/domain/manualrequest"
	"github.com/Nova-Gear/presence-api/internal/domain/presence"
	"github.com/Nova-Gear/presence-api/internal/domain/presenceconfig"
	"github.com/Nova-Gear/presence-api/internal/domain/user"
	"github.com/Nova-Gear/presence-api/internal/pkg/validator"
)

// HandleError maps domain errors to HTTP responses. State conflicts (double
// check-in, already-processed requests) come back as 400: the request was
// well-formed but describes an action the current state does not allow.
func HandleError(w http.ResponseWriter, err error) {
	// Check if it's a validation error
	var validationErrs validator.ValidationErrors
	if errors.As(err, &validationErrs) {
		ValidationError(w, validationErrs.ToMap())
		return
	}

	switch {
	// Auth domain errors
	case errors.Is(err, auth.ErrInvalidCredentials):
		Unauthorized(w, err.Error())
	case errors.Is(err, auth.ErrInvalidToken):
		Unauthorized(w, "Invalid or expired token")

	// User / access errors
	case errors.Is(err, user.ErrUserNotFound):
		NotFound(w, "User not found")
	case errors.Is(err, user.ErrUserInactive):
		Forbidden(w, "Account is inactive")
	case errors.Is(err, user.ErrAdminAccessRequired):
		Forbidden(w, "Admin access required")

	// Company errors
	case errors.Is(err, company.ErrCompanyNotFound):
		NotFound(w, "Company not found")
	case errors.Is(err, company.ErrCompanyInactive):
		Forbidden(w, "Company is inactive")

	// Presence domain errors
	case errors.Is(err, presence.ErrAlreadyCheckedIn),
		errors.Is(err, presence.ErrAlreadyCheckedOut),
		errors.Is(err, presence.ErrNoCheckinToday),
		errors.Is(err, presence.ErrDuplicateEvent):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, presence.ErrPresenceNotFound):
		NotFound(w, "Presence record not found")
	case errors.Is(err, presence.ErrUnresolvedIdentity),
		errors.Is(err, presence.ErrUnknownDeviceType):
		BadRequest(w, err.Error(), nil)

	// Presence config errors
	case errors.Is(err, presenceconfig.ErrConfigNotFound):
		NotFound(w, "Presence configuration not found")
	case errors.Is(err, presenceconfig.ErrNoActiveConfig):
		NotFound(w, err.Error())
	case errors.Is(err, presenceconfig.ErrActiveConfigExists),
		errors.Is(err, presenceconfig.ErrInvalidWindowOrder),
		errors.Is(err, presenceconfig.ErrCannotDeleteActive):
		BadRequest(w, err.Error(), nil)
	case errors.Is(err, presenceconfig.ErrCompanyScopeViolated):
		Forbidden(w, err.Error())

	// Manual request errors
	case errors.Is(err, manualrequest.ErrRequestNotFound):
		NotFound(w, "Manual presence request not found")
	case errors.Is(err, manualrequest.ErrOverlappingRequest),
		errors.Is(err, manualrequest.ErrAlreadyProcessed),
		errors.Is(err, manualrequest.ErrPresenceExists):
		BadRequest(w, err.Error(), nil)

	// Default
	default:
		InternalServerError(w, "An unexpected error occurred")
	}
}
