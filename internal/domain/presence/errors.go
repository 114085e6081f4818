package presence

import "errors"

// Presence domain errors
var (
	ErrAlreadyCheckedIn   = errors.New("you have already checked in today")
	ErrAlreadyCheckedOut  = errors.New("you have already checked out today")
	ErrNoCheckinToday     = errors.New("no check-in record found for today")
	ErrPresenceNotFound   = errors.New("presence record not found")
	ErrUnresolvedIdentity = errors.New("device identifier does not resolve to a known user")
	ErrUnknownDeviceType  = errors.New("unknown device type")
	ErrDuplicateEvent     = errors.New("a presence event of this type already exists for this date")
)
