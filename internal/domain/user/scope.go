package user

// Action names an operation gated by role rather than by record ownership.
type Action string

const (
	ActionPresenceDelete Action = "presence.delete"
	ActionCompanyHistory Action = "presence.company_history"
	ActionRequestApprove Action = "request.approve"
	ActionRequestReject  Action = "request.reject"
	ActionConfigManage   Action = "config.manage"
)

// roleActions maps each role to the actions it may perform. Evaluated here
// once instead of comparing role strings at every endpoint.
var roleActions = map[Role][]Action{
	RoleSuperAdmin: {
		ActionPresenceDelete,
		ActionCompanyHistory,
		ActionRequestApprove,
		ActionRequestReject,
		ActionConfigManage,
	},
	RoleCompanyAdmin: {
		ActionPresenceDelete,
		ActionCompanyHistory,
		ActionRequestApprove,
		ActionRequestReject,
		ActionConfigManage,
	},
	RoleEmployee: {},
}

// Can reports whether the principal's role allows the action.
func (p Principal) Can(action Action) bool {
	for _, a := range roleActions[p.Role] {
		if a == action {
			return true
		}
	}
	return false
}

// Scope is the visibility filter derived from a principal. Repositories apply
// it to every read and write so records outside it behave as nonexistent.
type Scope struct {
	// AllCompanies is set for super_admin only.
	AllCompanies bool
	// CompanyID restricts to one company's users (admin_company).
	CompanyID *string
	// UserID restricts to a single owner (employee).
	UserID *string
}

// ScopeFor derives the visibility scope from a principal.
func ScopeFor(p Principal) Scope {
	switch p.Role {
	case RoleSuperAdmin:
		return Scope{AllCompanies: true}
	case RoleCompanyAdmin:
		return Scope{CompanyID: p.CompanyID}
	default:
		userID := p.UserID
		return Scope{UserID: &userID}
	}
}

// OwnScope restricts any principal to records they own themselves. Used for
// the self-service read paths regardless of role.
func OwnScope(p Principal) Scope {
	userID := p.UserID
	return Scope{UserID: &userID}
}

// AllowsUser reports whether a record owned by the given user falls inside
// the scope. ownerCompanyID may be nil when the owner has no company.
func (s Scope) AllowsUser(ownerID string, ownerCompanyID *string) bool {
	if s.AllCompanies {
		return true
	}
	if s.UserID != nil {
		return *s.UserID == ownerID
	}
	if s.CompanyID != nil {
		return ownerCompanyID != nil && *ownerCompanyID == *s.CompanyID
	}
	return false
}
