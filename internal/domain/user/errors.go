package user

import "errors"

// User domain errors
var (
	ErrUserNotFound        = errors.New("user not found")
	ErrUserInactive        = errors.New("account is inactive")
	ErrAdminAccessRequired = errors.New("admin access required")
)
