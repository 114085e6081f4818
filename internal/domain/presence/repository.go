package presence

import (
	"context"
	"time"

	"github.com/Nova-Gear/presence-api/internal/domain/user"
)

// PresenceRepository persists attendance events. Scope-taking methods
// apply tenant filtering in the query itself so out-of-scope rows are
// indistinguishable from missing ones.
type PresenceRepository interface {
	Create(ctx context.Context, p *Presence) error
	GetByID(ctx context.Context, id string, scope user.Scope) (Presence, error)
	// GetEventOn returns the event of the given type for the user on the
	// given calendar day, or ErrPresenceNotFound.
	GetEventOn(ctx context.Context, userID string, date time.Time, eventType EventType) (Presence, error)
	// HasEventOn reports whether any presence event exists for the user on
	// the given calendar day.
	HasEventOn(ctx context.Context, userID string, date time.Time) (bool, error)
	List(ctx context.Context, filter ListFilter, scope user.Scope) ([]Presence, int, error)
	Delete(ctx context.Context, id string, scope user.Scope) error
}

// DeviceMappingRepository resolves device-scoped identifiers (card UID,
// face/finger template id) to user ids.
type DeviceMappingRepository interface {
	ResolveUserID(ctx context.Context, source Source, identifier string) (string, error)
}
