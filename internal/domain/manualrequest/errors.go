package manualrequest

import "errors"

// Manual request domain errors
var (
	ErrRequestNotFound    = errors.New("manual presence request not found")
	ErrOverlappingRequest = errors.New("you already have a pending request overlapping this period")
	ErrAlreadyProcessed   = errors.New("request has already been processed")
	ErrPresenceExists     = errors.New("a presence record already exists for the requested start date")
)
