package prescription

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/internal/repository/memory"
	"github.com/medicore/clinic-api/internal/sequence"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type fixture struct {
	svc      *Service
	doctors  repository.DoctorRepository
	patients repository.PatientRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	doctors := memory.NewDoctorRepository(store)
	patients := memory.NewPatientRepository(store)
	svc := NewService(
		memory.NewPrescriptionRepository(store),
		patients,
		doctors,
		sequence.NewAllocator(memory.NewSequenceRepository(store)),
		authz.NewAuthorizer(authz.ProfileRepos{Doctors: doctors, Patients: patients}),
	)
	return &fixture{svc: svc, doctors: doctors, patients: patients}
}

func (f *fixture) seed(t *testing.T) (docAccount *model.Account, doctor *model.Doctor, patAccount *model.Account, patient *model.Patient) {
	t.Helper()
	ctx := context.Background()
	docAccount = &model.Account{
		Email: "rao@clinic.test", PasswordHash: "x",
		Name: "rao", Role: model.RoleDoctor, IsActive: true,
	}
	doctor = &model.Doctor{Code: "DOC-2026-001", Department: "General"}
	require.NoError(t, f.doctors.Create(ctx, docAccount, doctor))

	patAccount = &model.Account{
		Email: "ada@clinic.test", PasswordHash: "x",
		Name: "ada", Role: model.RolePatient, IsActive: true,
	}
	patient = &model.Patient{Code: "PAT-2026-001", Email: patAccount.Email, Age: 30, Gender: "Female"}
	require.NoError(t, f.patients.Create(ctx, patAccount, patient))
	return docAccount, doctor, patAccount, patient
}

var superAdmin = model.Caller{AccountID: 9999, Role: model.RoleSuperAdmin}

func TestCreateStartsActive(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	created, err := f.svc.Create(context.Background(), &model.CreatePrescriptionRequest{
		PatientID:   "PAT-2026-001",
		DoctorID:    "DOC-2026-001",
		Medications: "Amoxicillin",
		Dosage:      "500mg",
		Duration:    "7 days",
	})
	require.NoError(t, err)
	assert.Regexp(t, `^PRE-\d{4}-\d{3,}$`, created.Code)
	assert.Equal(t, model.PrescriptionStatusActive, created.Status)
	assert.Equal(t, "ada", created.PatientName)
	assert.Equal(t, "rao", created.DoctorName)
}

func TestCreateUnknownDoctor(t *testing.T) {
	f := newFixture(t)
	f.seed(t)

	_, err := f.svc.Create(context.Background(), &model.CreatePrescriptionRequest{
		PatientID:   "PAT-2026-001",
		DoctorID:    "DOC-2026-404",
		Medications: "Amoxicillin",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestListDoctorSeesAuthoredOnly(t *testing.T) {
	f := newFixture(t)
	docAccount, _, _, _ := f.seed(t)
	ctx := context.Background()

	otherAccount := &model.Account{
		Email: "iyer@clinic.test", PasswordHash: "x",
		Name: "iyer", Role: model.RoleDoctor, IsActive: true,
	}
	require.NoError(t, f.doctors.Create(ctx, otherAccount, &model.Doctor{Code: "DOC-2026-002"}))

	mine, err := f.svc.Create(ctx, &model.CreatePrescriptionRequest{
		PatientID: "PAT-2026-001", DoctorID: "DOC-2026-001", Medications: "Amoxicillin",
	})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, &model.CreatePrescriptionRequest{
		PatientID: "PAT-2026-001", DoctorID: "DOC-2026-002", Medications: "Ibuprofen",
	})
	require.NoError(t, err)

	caller := model.Caller{AccountID: docAccount.ID, Role: model.RoleDoctor}
	prescriptions, pagination, err := f.svc.List(ctx, caller, &model.PrescriptionFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Total)
	require.Len(t, prescriptions, 1)
	assert.Equal(t, mine.ID, prescriptions[0].ID)
}

func TestGetForbiddenForOtherPatient(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	otherAccount := &model.Account{
		Email: "bob@clinic.test", PasswordHash: "x",
		Name: "bob", Role: model.RolePatient, IsActive: true,
	}
	require.NoError(t, f.patients.Create(ctx, otherAccount, &model.Patient{
		Code: "PAT-2026-002", Email: otherAccount.Email, Age: 50, Gender: "Male",
	}))

	created, err := f.svc.Create(ctx, &model.CreatePrescriptionRequest{
		PatientID: "PAT-2026-001", DoctorID: "DOC-2026-001", Medications: "Amoxicillin",
	})
	require.NoError(t, err)

	caller := model.Caller{AccountID: otherAccount.ID, Role: model.RolePatient}
	_, err = f.svc.Get(ctx, caller, created.Code)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

func TestUpdateStatus(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &model.CreatePrescriptionRequest{
		PatientID: "PAT-2026-001", DoctorID: "DOC-2026-001", Medications: "Amoxicillin",
	})
	require.NoError(t, err)

	completed := "Completed"
	updated, err := f.svc.Update(ctx, created.Code, &model.UpdatePrescriptionRequest{Status: &completed})
	require.NoError(t, err)
	assert.Equal(t, model.PrescriptionStatusCompleted, updated.Status)
	assert.Equal(t, "Amoxicillin", updated.Medications)
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	f.seed(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &model.CreatePrescriptionRequest{
		PatientID: "PAT-2026-001", DoctorID: "DOC-2026-001", Medications: "Amoxicillin",
	})
	require.NoError(t, err)

	require.NoError(t, f.svc.Delete(ctx, created.Code))
	_, err = f.svc.Get(ctx, superAdmin, created.Code)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
