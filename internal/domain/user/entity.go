package user

import "time"

type Role string

const (
	RoleSuperAdmin   Role = "super_admin"   // Platform operator - unrestricted
	RoleCompanyAdmin Role = "admin_company" // Company admin - own company only
	RoleEmployee     Role = "employee"      // Regular employee - own records only
)

type User struct {
	ID           string
	CompanyID    *string // nil only for super_admin
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	IsActive     bool
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Principal is the authenticated actor behind a request. Every core operation
// takes it explicitly instead of pulling a current user out of the context.
type Principal struct {
	UserID    string
	CompanyID *string
	Role      Role
}

// IsSuperAdmin checks if the principal is the platform operator
func (p Principal) IsSuperAdmin() bool {
	return p.Role == RoleSuperAdmin
}

// IsCompanyAdmin checks if the principal administers a company
func (p Principal) IsCompanyAdmin() bool {
	return p.Role == RoleCompanyAdmin
}

// IsAdmin checks if the principal holds either admin role
func (p Principal) IsAdmin() bool {
	return p.Role == RoleSuperAdmin || p.Role == RoleCompanyAdmin
}
