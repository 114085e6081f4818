package presenceconfig

import "errors"

// Presence config domain errors
var (
	ErrConfigNotFound       = errors.New("presence configuration not found")
	ErrNoActiveConfig       = errors.New("no active presence configuration found for this company")
	ErrActiveConfigExists   = errors.New("an active presence configuration already exists for this company")
	ErrInvalidWindowOrder   = errors.New("window boundaries must satisfy checkin_start < checkin_end <= checkout_start < checkout_end")
	ErrCannotDeleteActive   = errors.New("cannot delete active presence configuration, deactivate it first")
	ErrCompanyScopeViolated = errors.New("not allowed to manage configuration for another company")
)
