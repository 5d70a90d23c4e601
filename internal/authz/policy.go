package authz

import "github.com/medicore/clinic-api/internal/model"

// Resource names an access-controlled record type or report endpoint.
type Resource string

const (
	ResourceUser         Resource = "users"
	ResourcePatient      Resource = "patients"
	ResourceAppointment  Resource = "appointments"
	ResourcePrescription Resource = "prescriptions"
	ResourceLabResult    Resource = "lab_results"
	ResourceMedicalNote  Resource = "medical_notes"
	ResourceInvoice      Resource = "invoices"

	ResourceReportOverview     Resource = "reports.overview"
	ResourceReportPatients     Resource = "reports.patients"
	ResourceReportAppointments Resource = "reports.appointments"
	ResourceReportRevenue      Resource = "reports.revenue"
	ResourceReportMetrics      Resource = "reports.metrics"
)

type Action string

const (
	ActionRead   Action = "read"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
)

// policy is the single rule table every route gate consults. A missing entry
// denies. Scoping of reads to the caller's own rows happens separately, in
// Scope; this table only answers whether the role may touch the resource at
// all.
//
// Prescriptions are deliberately writable by super_admin alone. Doctors read
// the prescriptions they authored but cannot write them.
var policy = map[Resource]map[Action][]model.Role{
	ResourceUser: {
		ActionRead:   {model.RoleSuperAdmin},
		ActionCreate: {model.RoleSuperAdmin},
		ActionUpdate: {model.RoleSuperAdmin},
		ActionDelete: {model.RoleSuperAdmin},
	},
	ResourcePatient: {
		ActionRead:   {model.RoleSuperAdmin, model.RoleDoctor, model.RoleReceptionist, model.RoleBillingStaff, model.RolePatient},
		ActionCreate: {model.RoleSuperAdmin, model.RoleReceptionist},
		ActionUpdate: {model.RoleSuperAdmin, model.RoleReceptionist},
		ActionDelete: {model.RoleSuperAdmin},
	},
	ResourceAppointment: {
		ActionRead:   {model.RoleSuperAdmin, model.RoleDoctor, model.RoleReceptionist, model.RolePatient},
		ActionCreate: {model.RoleSuperAdmin, model.RoleDoctor, model.RoleReceptionist},
		ActionUpdate: {model.RoleSuperAdmin, model.RoleDoctor, model.RoleReceptionist},
		ActionDelete: {model.RoleSuperAdmin, model.RoleReceptionist},
	},
	ResourcePrescription: {
		ActionRead:   {model.RoleSuperAdmin, model.RoleDoctor, model.RolePatient},
		ActionCreate: {model.RoleSuperAdmin},
		ActionUpdate: {model.RoleSuperAdmin},
		ActionDelete: {model.RoleSuperAdmin},
	},
	ResourceLabResult: {
		ActionRead:   {model.RoleSuperAdmin, model.RoleDoctor, model.RolePatient},
		ActionCreate: {model.RoleDoctor},
		ActionUpdate: {model.RoleDoctor},
	},
	ResourceMedicalNote: {
		ActionRead:   {model.RoleSuperAdmin, model.RoleDoctor, model.RolePatient},
		ActionCreate: {model.RoleDoctor},
		ActionUpdate: {model.RoleDoctor},
	},
	ResourceInvoice: {
		ActionRead:   {model.RoleSuperAdmin, model.RoleBillingStaff, model.RolePatient},
		ActionCreate: {model.RoleSuperAdmin, model.RoleBillingStaff},
		ActionUpdate: {model.RoleSuperAdmin, model.RoleBillingStaff},
	},
	ResourceReportOverview: {
		ActionRead: {model.RoleSuperAdmin, model.RoleDoctor, model.RoleBillingStaff},
	},
	ResourceReportPatients: {
		ActionRead: {model.RoleSuperAdmin, model.RoleReceptionist},
	},
	ResourceReportAppointments: {
		ActionRead: {model.RoleSuperAdmin, model.RoleDoctor, model.RoleReceptionist},
	},
	ResourceReportRevenue: {
		ActionRead: {model.RoleSuperAdmin, model.RoleBillingStaff},
	},
	ResourceReportMetrics: {
		ActionRead: {model.RoleSuperAdmin},
	},
}

// Allowed reports whether role may perform action on resource.
func Allowed(role model.Role, resource Resource, action Action) bool {
	actions, ok := policy[resource]
	if !ok {
		return false
	}
	for _, r := range actions[action] {
		if r == role {
			return true
		}
	}
	return false
}

// AllowedRoles returns the roles permitted to perform action on resource,
// for route-level gates.
func AllowedRoles(resource Resource, action Action) []model.Role {
	return policy[resource][action]
}
