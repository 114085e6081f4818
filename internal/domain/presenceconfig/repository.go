package presenceconfig

import "context"

// ConfigRepository persists window policies. GetActiveByCompany returns
// ErrNoActiveConfig when the company has no active policy.
type ConfigRepository interface {
	Create(ctx context.Context, config *Config) error
	GetByID(ctx context.Context, id string) (Config, error)
	GetActiveByCompany(ctx context.Context, companyID string) (Config, error)
	ListByCompany(ctx context.Context, companyID string) ([]Config, error)
	Update(ctx context.Context, config *Config) error
	Delete(ctx context.Context, id string) error
}
