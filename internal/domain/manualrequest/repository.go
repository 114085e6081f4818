package manualrequest

import (
	"context"
	"time"

	"github.com/Nova-Gear/presence-api/internal/domain/user"
)

// RequestRepository persists manual presence requests.
type RequestRepository interface {
	Create(ctx context.Context, r *Request) error
	GetByID(ctx context.Context, id string, scope user.Scope) (Request, error)
	List(ctx context.Context, filter ListFilter, scope user.Scope) ([]Request, int, error)
	// HasOverlappingPending reports whether the user has another pending
	// request whose [start, end] period intersects the given one. A
	// non-empty excludeID leaves that request out of the check, so edits
	// do not collide with themselves.
	HasOverlappingPending(ctx context.Context, userID string, start, end time.Time, excludeID string) (bool, error)
	// UpdateIfPending rewrites the editable fields of a request that is
	// still pending; ErrAlreadyProcessed once a decision landed.
	UpdateIfPending(ctx context.Context, r *Request) error
	// DeleteIfPending withdraws a request that is still pending;
	// ErrAlreadyProcessed once a decision landed.
	DeleteIfPending(ctx context.Context, id string) error
	// UpdateStatusIfPending transitions the request out of pending. It
	// returns ErrAlreadyProcessed when the row is no longer pending, which
	// makes concurrent decisions race-safe without row locks.
	UpdateStatusIfPending(ctx context.Context, id string, status RequestStatus, approvedBy string, approvedAt time.Time, notes *string) error
}
