package presenceconfig

import (
	"context"

	"github.com/Nova-Gear/presence-api/internal/domain/user"
)

// ConfigService manages per-company window policies. All operations are
// admin-gated and scoped: a company admin may only touch their own
// company's configs.
type ConfigService interface {
	Create(ctx context.Context, principal user.Principal, req CreateConfigRequest) (ConfigResponse, error)
	Update(ctx context.Context, principal user.Principal, id string, req UpdateConfigRequest) (ConfigResponse, error)
	Get(ctx context.Context, principal user.Principal, id string) (ConfigResponse, error)
	GetActive(ctx context.Context, principal user.Principal) (ConfigResponse, error)
	// List enumerates one company's configs. Company admins are pinned to
	// their own company; super admins name the company they want.
	List(ctx context.Context, principal user.Principal, companyID string) ([]ConfigResponse, error)
	Delete(ctx context.Context, principal user.Principal, id string) error
}
