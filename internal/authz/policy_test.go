package authz

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/medicore/clinic-api/internal/model"
)

var allRoles = []model.Role{
	model.RoleSuperAdmin,
	model.RoleDoctor,
	model.RoleReceptionist,
	model.RoleBillingStaff,
	model.RolePatient,
}

func TestAllowedMatchesRuleTable(t *testing.T) {
	tests := []struct {
		resource Resource
		action   Action
		allowed  []model.Role
	}{
		{ResourcePatient, ActionRead, allRoles},
		{ResourcePatient, ActionCreate, []model.Role{model.RoleSuperAdmin, model.RoleReceptionist}},
		{ResourcePatient, ActionUpdate, []model.Role{model.RoleSuperAdmin, model.RoleReceptionist}},
		{ResourcePatient, ActionDelete, []model.Role{model.RoleSuperAdmin}},
		{ResourceAppointment, ActionRead, []model.Role{model.RoleSuperAdmin, model.RoleDoctor, model.RoleReceptionist, model.RolePatient}},
		{ResourceAppointment, ActionCreate, []model.Role{model.RoleSuperAdmin, model.RoleDoctor, model.RoleReceptionist}},
		{ResourceAppointment, ActionDelete, []model.Role{model.RoleSuperAdmin, model.RoleReceptionist}},
		{ResourcePrescription, ActionRead, []model.Role{model.RoleSuperAdmin, model.RoleDoctor, model.RolePatient}},
		{ResourcePrescription, ActionCreate, []model.Role{model.RoleSuperAdmin}},
		{ResourcePrescription, ActionUpdate, []model.Role{model.RoleSuperAdmin}},
		{ResourcePrescription, ActionDelete, []model.Role{model.RoleSuperAdmin}},
		{ResourceLabResult, ActionRead, []model.Role{model.RoleSuperAdmin, model.RoleDoctor, model.RolePatient}},
		{ResourceLabResult, ActionCreate, []model.Role{model.RoleDoctor}},
		{ResourceLabResult, ActionUpdate, []model.Role{model.RoleDoctor}},
		{ResourceMedicalNote, ActionCreate, []model.Role{model.RoleDoctor}},
		{ResourceInvoice, ActionRead, []model.Role{model.RoleSuperAdmin, model.RoleBillingStaff, model.RolePatient}},
		{ResourceInvoice, ActionCreate, []model.Role{model.RoleSuperAdmin, model.RoleBillingStaff}},
		{ResourceUser, ActionCreate, []model.Role{model.RoleSuperAdmin}},
		{ResourceReportOverview, ActionRead, []model.Role{model.RoleSuperAdmin, model.RoleDoctor, model.RoleBillingStaff}},
		{ResourceReportPatients, ActionRead, []model.Role{model.RoleSuperAdmin, model.RoleReceptionist}},
		{ResourceReportAppointments, ActionRead, []model.Role{model.RoleSuperAdmin, model.RoleDoctor, model.RoleReceptionist}},
		{ResourceReportRevenue, ActionRead, []model.Role{model.RoleSuperAdmin, model.RoleBillingStaff}},
		{ResourceReportMetrics, ActionRead, []model.Role{model.RoleSuperAdmin}},
	}

	for _, tt := range tests {
		permitted := make(map[model.Role]bool, len(tt.allowed))
		for _, r := range tt.allowed {
			permitted[r] = true
		}
		for _, role := range allRoles {
			got := Allowed(role, tt.resource, tt.action)
			assert.Equal(t, permitted[role], got,
				"%s %s as %s", tt.action, tt.resource, role)
		}
	}
}

func TestAllowedDeniesUnknown(t *testing.T) {
	assert.False(t, Allowed(model.RoleSuperAdmin, Resource("unknown"), ActionRead))
	assert.False(t, Allowed(model.RoleBillingStaff, ResourceLabResult, ActionDelete))
	assert.False(t, Allowed(model.Role("ghost"), ResourcePatient, ActionRead))
}

func TestAllowedRoles(t *testing.T) {
	roles := AllowedRoles(ResourceInvoice, ActionUpdate)
	assert.ElementsMatch(t, []model.Role{model.RoleSuperAdmin, model.RoleBillingStaff}, roles)
	assert.Empty(t, AllowedRoles(ResourceInvoice, ActionDelete))
}
