package presence

import (
	"context"
	"io"
	"time"

	"github.com/Nova-Gear/presence-api/internal/domain/user"
)

// Photo carries an optional proof image alongside a check-in/check-out.
type Photo struct {
	Reader   io.Reader
	Filename string
}

// PresenceService records and queries attendance events. Every operation
// except DeviceIngest takes the acting principal explicitly; the service
// derives visibility from it rather than from ambient request state.
type PresenceService interface {
	CheckIn(ctx context.Context, principal user.Principal, req CheckInRequest, photo *Photo) (PresenceResponse, error)
	CheckOut(ctx context.Context, principal user.Principal, req CheckOutRequest, photo *Photo) (PresenceResponse, error)
	// Status reports today's events and whether the principal can still
	// check in or out right now.
	Status(ctx context.Context, principal user.Principal) (StatusResponse, error)
	// Today returns today's events with a single derived status label.
	Today(ctx context.Context, principal user.Principal) (TodayResponse, error)
	History(ctx context.Context, principal user.Principal, filter ListFilter) ([]PresenceResponse, int, error)
	// CompanyHistory lists events across the admin's company (or all
	// companies for a super admin).
	CompanyHistory(ctx context.Context, principal user.Principal, filter ListFilter) ([]PresenceResponse, int, error)
	Get(ctx context.Context, principal user.Principal, id string) (PresenceResponse, error)
	Delete(ctx context.Context, principal user.Principal, id string) error
	// DeviceIngest records an event posted by a hardware device. The device
	// never knows whether it produced a checkin or a checkout; the service
	// decides from what already exists for the day.
	DeviceIngest(ctx context.Context, req DeviceIngestRequest, at time.Time) (PresenceResponse, error)
}
