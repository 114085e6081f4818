package user

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func strPtr(s string) *string { return &s }

func TestCan(t *testing.T) {
	superAdmin := Principal{UserID: "u1", Role: RoleSuperAdmin}
	companyAdmin := Principal{UserID: "u2", CompanyID: strPtr("c1"), Role: RoleCompanyAdmin}
	employee := Principal{UserID: "u3", CompanyID: strPtr("c1"), Role: RoleEmployee}

	assert.True(t, superAdmin.Can(ActionPresenceDelete))
	assert.True(t, superAdmin.Can(ActionConfigManage))
	assert.True(t, superAdmin.Can(ActionCompanyHistory))
	assert.True(t, companyAdmin.Can(ActionRequestApprove))
	assert.True(t, companyAdmin.Can(ActionCompanyHistory))

	assert.False(t, employee.Can(ActionPresenceDelete))
	assert.False(t, employee.Can(ActionRequestApprove))
	assert.False(t, employee.Can(ActionConfigManage))

	unknown := Principal{UserID: "u4", Role: Role("intern")}
	assert.False(t, unknown.Can(ActionCompanyHistory))
}

func TestScopeFor(t *testing.T) {
	superScope := ScopeFor(Principal{UserID: "u1", Role: RoleSuperAdmin})
	assert.True(t, superScope.AllCompanies)

	adminScope := ScopeFor(Principal{UserID: "u2", CompanyID: strPtr("c1"), Role: RoleCompanyAdmin})
	assert.False(t, adminScope.AllCompanies)
	assert.Equal(t, "c1", *adminScope.CompanyID)
	assert.Nil(t, adminScope.UserID)

	employeeScope := ScopeFor(Principal{UserID: "u3", CompanyID: strPtr("c1"), Role: RoleEmployee})
	assert.Equal(t, "u3", *employeeScope.UserID)
	assert.Nil(t, employeeScope.CompanyID)
}

func TestOwnScope(t *testing.T) {
	scope := OwnScope(Principal{UserID: "u1", Role: RoleSuperAdmin})
	assert.False(t, scope.AllCompanies)
	assert.Equal(t, "u1", *scope.UserID)
}

func TestScopeAllowsUser(t *testing.T) {
	all := Scope{AllCompanies: true}
	assert.True(t, all.AllowsUser("anyone", nil))

	own := Scope{UserID: strPtr("u1")}
	assert.True(t, own.AllowsUser("u1", strPtr("c1")))
	assert.False(t, own.AllowsUser("u2", strPtr("c1")))

	companyScope := Scope{CompanyID: strPtr("c1")}
	assert.True(t, companyScope.AllowsUser("u2", strPtr("c1")))
	assert.False(t, companyScope.AllowsUser("u2", strPtr("c2")))
	assert.False(t, companyScope.AllowsUser("u2", nil))

	// an unbounded non-super scope matches nothing
	empty := Scope{}
	assert.False(t, empty.AllowsUser("u1", strPtr("c1")))
}
