package authz

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type stubProfiles struct {
	doctors  map[int64]int64
	patients map[int64]int64
	calls    int
}

func (s *stubProfiles) DoctorIDByAccount(_ context.Context, accountID int64) (int64, error) {
	s.calls++
	if id, ok := s.doctors[accountID]; ok {
		return id, nil
	}
	return 0, apperror.NotFound("doctor")
}

func (s *stubProfiles) PatientIDByAccount(_ context.Context, accountID int64) (int64, error) {
	s.calls++
	if id, ok := s.patients[accountID]; ok {
		return id, nil
	}
	return 0, apperror.NotFound("patient")
}

func TestScopeAdminRolesSeeAll(t *testing.T) {
	a := NewAuthorizer(&stubProfiles{})
	ctx := context.Background()

	for _, role := range []model.Role{model.RoleSuperAdmin, model.RoleReceptionist, model.RoleBillingStaff} {
		scope, err := a.Scope(ctx, model.Caller{AccountID: 1, Role: role}, ResourceAppointment)
		require.NoError(t, err)
		assert.Equal(t, ScopeAll, scope.Kind, "role %s", role)
	}
}

func TestScopeDoctor(t *testing.T) {
	profiles := &stubProfiles{doctors: map[int64]int64{10: 3}}
	a := NewAuthorizer(profiles)
	ctx := context.Background()
	caller := model.Caller{AccountID: 10, Role: model.RoleDoctor}

	scope, err := a.Scope(ctx, caller, ResourceAppointment)
	require.NoError(t, err)
	assert.Equal(t, ScopeDoctorOwned, scope.Kind)
	assert.Equal(t, int64(3), scope.ProfileID)

	scope, err = a.Scope(ctx, caller, ResourcePatient)
	require.NoError(t, err)
	assert.Equal(t, ScopeDoctorAssigned, scope.Kind)
}

func TestScopePatient(t *testing.T) {
	a := NewAuthorizer(&stubProfiles{patients: map[int64]int64{20: 7}})
	ctx := context.Background()
	caller := model.Caller{AccountID: 20, Role: model.RolePatient}

	scope, err := a.Scope(ctx, caller, ResourceInvoice)
	require.NoError(t, err)
	assert.Equal(t, ScopePatientOwned, scope.Kind)
	assert.Equal(t, int64(7), scope.ProfileID)

	scope, err = a.Scope(ctx, caller, ResourcePatient)
	require.NoError(t, err)
	assert.Equal(t, ScopePatientSelf, scope.Kind)
}

func TestScopeMissingProfileFailsSafeEmpty(t *testing.T) {
	a := NewAuthorizer(&stubProfiles{})
	ctx := context.Background()

	scope, err := a.Scope(ctx, model.Caller{AccountID: 99, Role: model.RoleDoctor}, ResourcePatient)
	require.NoError(t, err)
	assert.Equal(t, ScopeNone, scope.Kind)

	scope, err = a.Scope(ctx, model.Caller{AccountID: 99, Role: model.RolePatient}, ResourceLabResult)
	require.NoError(t, err)
	assert.Equal(t, ScopeNone, scope.Kind)
}

func TestScopeCachesProfileLookups(t *testing.T) {
	profiles := &stubProfiles{doctors: map[int64]int64{10: 3}}
	a := NewAuthorizer(profiles)
	ctx := context.Background()
	caller := model.Caller{AccountID: 10, Role: model.RoleDoctor}

	_, err := a.Scope(ctx, caller, ResourceAppointment)
	require.NoError(t, err)
	_, err = a.Scope(ctx, caller, ResourceAppointment)
	require.NoError(t, err)
	assert.Equal(t, 1, profiles.calls)

	a.Invalidate(10)
	_, err = a.Scope(ctx, caller, ResourceAppointment)
	require.NoError(t, err)
	assert.Equal(t, 2, profiles.calls)
}

func TestAllowsOwner(t *testing.T) {
	assert.True(t, Scope{Kind: ScopeAll}.AllowsOwner(1, 2))
	assert.True(t, Scope{Kind: ScopeDoctorOwned, ProfileID: 3}.AllowsOwner(3, 0))
	assert.False(t, Scope{Kind: ScopeDoctorOwned, ProfileID: 3}.AllowsOwner(4, 0))
	assert.True(t, Scope{Kind: ScopePatientOwned, ProfileID: 7}.AllowsOwner(0, 7))
	assert.False(t, Scope{Kind: ScopePatientOwned, ProfileID: 7}.AllowsOwner(0, 8))
	assert.False(t, Scope{Kind: ScopeNone}.AllowsOwner(3, 7))
}
