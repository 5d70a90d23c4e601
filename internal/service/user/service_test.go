package user

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository/memory"
	"github.com/medicore/clinic-api/internal/sequence"
	"github.com/medicore/clinic-api/pkg/apperror"
	"github.com/medicore/clinic-api/pkg/security"
)

type fixture struct {
	svc   *Service
	store *memory.Store
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	doctors := memory.NewDoctorRepository(store)
	patients := memory.NewPatientRepository(store)
	svc := NewService(
		memory.NewAccountRepository(store),
		doctors,
		patients,
		memory.NewStaffRepository(store),
		sequence.NewAllocator(memory.NewSequenceRepository(store)),
		security.NewBcryptHasher(security.DefaultCost),
		authz.NewAuthorizer(authz.ProfileRepos{Doctors: doctors, Patients: patients}),
	)
	return &fixture{svc: svc, store: store}
}

func TestCreateDoctorAccount(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	detail, err := f.svc.Create(ctx, &model.CreateAccountRequest{
		Email:    "Rao@Clinic.Test",
		Password: "secret123",
		Name:     "Dr. Rao",
		Role:     model.RoleDoctor,
	})
	require.NoError(t, err)

	assert.Equal(t, "rao@clinic.test", detail.Email)
	assert.True(t, detail.IsActive)
	require.NotNil(t, detail.Doctor)
	assert.Regexp(t, `^DOC-\d{4}-\d{3,}$`, detail.Doctor.Code)
	assert.Equal(t, "General", detail.Doctor.Department)
	assert.Equal(t, "Mon-Fri", detail.Doctor.Availability)
}

func TestCreateStaffDefaults(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	recep, err := f.svc.Create(ctx, &model.CreateAccountRequest{
		Email:    "desk@clinic.test",
		Password: "secret123",
		Name:     "Front Desk",
		Role:     model.RoleReceptionist,
	})
	require.NoError(t, err)
	require.NotNil(t, recep.Staff)
	assert.Equal(t, "Receptionist", recep.Staff.JobRole)
	assert.Equal(t, "Day (09-06)", recep.Staff.Shift)

	billing, err := f.svc.Create(ctx, &model.CreateAccountRequest{
		Email:    "billing@clinic.test",
		Password: "secret123",
		Name:     "Accounts",
		Role:     model.RoleBillingStaff,
	})
	require.NoError(t, err)
	require.NotNil(t, billing.Staff)
	assert.Equal(t, "Billing Manager", billing.Staff.JobRole)
}

func TestCreateRejectsSuperAdmin(t *testing.T) {
	f := newFixture(t)

	_, err := f.svc.Create(context.Background(), &model.CreateAccountRequest{
		Email:    "root@clinic.test",
		Password: "secret123",
		Name:     "Root",
		Role:     model.RoleSuperAdmin,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestCreateDuplicateEmailCaseInsensitive(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.svc.Create(ctx, &model.CreateAccountRequest{
		Email:    "X@Y.com",
		Password: "secret123",
		Name:     "First",
		Role:     model.RolePatient,
	})
	require.NoError(t, err)

	_, err = f.svc.Create(ctx, &model.CreateAccountRequest{
		Email:    "x@y.com",
		Password: "secret123",
		Name:     "Second",
		Role:     model.RolePatient,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestUpdatePartial(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &model.CreateAccountRequest{
		Email:    "doc@clinic.test",
		Password: "secret123",
		Name:     "Dr. Before",
		Role:     model.RoleDoctor,
	})
	require.NoError(t, err)

	newName := "Dr. After"
	spec := "Cardiology"
	updated, err := f.svc.Update(ctx, created.ID, &model.UpdateAccountRequest{
		Name:        &newName,
		ProfileData: &model.ProfileData{Specialization: &spec},
	})
	require.NoError(t, err)

	assert.Equal(t, "Dr. After", updated.Name)
	require.NotNil(t, updated.Doctor)
	assert.Equal(t, "Cardiology", updated.Doctor.Specialization)
	assert.Equal(t, "General", updated.Doctor.Department)
	assert.Equal(t, "doc@clinic.test", updated.Email)
}

func TestUpdateDeactivate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &model.CreateAccountRequest{
		Email:    "pat@clinic.test",
		Password: "secret123",
		Name:     "Pat",
		Role:     model.RolePatient,
	})
	require.NoError(t, err)

	inactive := false
	updated, err := f.svc.Update(ctx, created.ID, &model.UpdateAccountRequest{IsActive: &inactive})
	require.NoError(t, err)
	assert.False(t, updated.IsActive)
}

func TestDeleteProtections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	// seed a super_admin directly; the API never creates one
	staffRepo := memory.NewStaffRepository(f.store)
	admin := &model.Account{
		Email: "root@clinic.test", PasswordHash: "x", Name: "Root",
		Role: model.RoleSuperAdmin, IsActive: true,
	}
	require.NoError(t, staffRepo.Create(ctx, admin, &model.Staff{Code: "STF-2026-099"}))

	created, err := f.svc.Create(ctx, &model.CreateAccountRequest{
		Email:    "pat@clinic.test",
		Password: "secret123",
		Name:     "Pat",
		Role:     model.RolePatient,
	})
	require.NoError(t, err)

	caller := model.Caller{AccountID: admin.ID, Role: model.RoleSuperAdmin}

	err = f.svc.Delete(ctx, caller, admin.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

	err = f.svc.Delete(ctx, model.Caller{AccountID: created.ID, Role: model.RoleSuperAdmin}, created.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))

	require.NoError(t, f.svc.Delete(ctx, caller, created.ID))
	_, err = f.svc.Get(ctx, created.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestDeleteCascadesProfile(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &model.CreateAccountRequest{
		Email:    "pat@clinic.test",
		Password: "secret123",
		Name:     "Pat",
		Role:     model.RolePatient,
	})
	require.NoError(t, err)
	require.NotNil(t, created.Patient)

	caller := model.Caller{AccountID: created.ID + 1000, Role: model.RoleSuperAdmin}
	require.NoError(t, f.svc.Delete(ctx, caller, created.ID))

	patients := memory.NewPatientRepository(f.store)
	_, err = patients.GetByID(ctx, created.Patient.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestListFilterByRole(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, req := range []*model.CreateAccountRequest{
		{Email: "d1@c.test", Password: "secret123", Name: "Doc One", Role: model.RoleDoctor},
		{Email: "p1@c.test", Password: "secret123", Name: "Pat One", Role: model.RolePatient},
		{Email: "p2@c.test", Password: "secret123", Name: "Pat Two", Role: model.RolePatient},
	} {
		_, err := f.svc.Create(ctx, req)
		require.NoError(t, err)
	}

	accounts, pagination, err := f.svc.List(ctx, &model.AccountFilter{Role: model.RolePatient})
	require.NoError(t, err)
	assert.Equal(t, 2, pagination.Total)
	for _, a := range accounts {
		assert.Equal(t, model.RolePatient, a.Role)
	}
}
