package company

import "context"

// CompanyRepository is the tenant lookup boundary. Company management is an
// external concern; the core only verifies existence and active state.
type CompanyRepository interface {
	GetByID(ctx context.Context, id string) (Company, error)
}
