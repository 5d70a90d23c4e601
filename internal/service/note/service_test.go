package note

import (
	"context"
	"strings"
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
		memory.NewMedicalNoteRepository(store),
		patients,
		sequence.NewAllocator(memory.NewSequenceRepository(store)),
		authz.NewAuthorizer(authz.ProfileRepos{Doctors: doctors, Patients: patients}),
	)
	return &fixture{svc: svc, doctors: doctors, patients: patients}
}

func (f *fixture) seedDoctor(t *testing.T, name, code string) model.Caller {
	t.Helper()
	account := &model.Account{
		Email: name + "@clinic.test", PasswordHash: "x",
		Name: name, Role: model.RoleDoctor, IsActive: true,
	}
	require.NoError(t, f.doctors.Create(context.Background(), account, &model.Doctor{Code: code}))
	return model.Caller{AccountID: account.ID, Role: model.RoleDoctor}
}

func (f *fixture) seedPatient(t *testing.T) *model.Patient {
	t.Helper()
	account := &model.Account{
		Email: "ada@clinic.test", PasswordHash: "x",
		Name: "ada", Role: model.RolePatient, IsActive: true,
	}
	patient := &model.Patient{Code: "PAT-2026-001", Email: account.Email, Age: 30, Gender: "Female"}
	require.NoError(t, f.patients.Create(context.Background(), account, patient))
	return patient
}

func TestCreateDerivesPreview(t *testing.T) {
	f := newFixture(t)
	doctor := f.seedDoctor(t, "rao", "DOC-2026-001")
	f.seedPatient(t)

	long := strings.Repeat("Patient presents with persistent cough. ", 5)
	created, err := f.svc.Create(context.Background(), doctor, &model.CreateMedicalNoteRequest{
		PatientID: "PAT-2026-001",
		Type:      "Consultation",
		Detail:    long,
	})
	require.NoError(t, err)
	assert.Regexp(t, `^NOTE-\d{4}-\d{3,}$`, created.Code)
	assert.Equal(t, long[:100]+"...", created.Preview)
	assert.Equal(t, "rao", created.AuthorName)
}

func TestCreateShortDetailKeepsFullPreview(t *testing.T) {
	f := newFixture(t)
	doctor := f.seedDoctor(t, "rao", "DOC-2026-001")
	f.seedPatient(t)

	created, err := f.svc.Create(context.Background(), doctor, &model.CreateMedicalNoteRequest{
		PatientID: "PAT-2026-001",
		Type:      "Follow-up",
		Detail:    "Recovering well.",
	})
	require.NoError(t, err)
	assert.Equal(t, "Recovering well.", created.Preview)
}

func TestCreateExplicitPreviewWins(t *testing.T) {
	f := newFixture(t)
	doctor := f.seedDoctor(t, "rao", "DOC-2026-001")
	f.seedPatient(t)

	created, err := f.svc.Create(context.Background(), doctor, &model.CreateMedicalNoteRequest{
		PatientID: "PAT-2026-001",
		Type:      "Consultation",
		Preview:   "Cough, resolving",
		Detail:    strings.Repeat("x", 200),
	})
	require.NoError(t, err)
	assert.Equal(t, "Cough, resolving", created.Preview)
}

func TestUpdateAuthorOnly(t *testing.T) {
	f := newFixture(t)
	author := f.seedDoctor(t, "rao", "DOC-2026-001")
	other := f.seedDoctor(t, "iyer", "DOC-2026-002")
	f.seedPatient(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, author, &model.CreateMedicalNoteRequest{
		PatientID: "PAT-2026-001",
		Type:      "Consultation",
		Detail:    "Initial exam.",
	})
	require.NoError(t, err)

	detail := "Revised after imaging."
	_, err = f.svc.Update(ctx, other, created.Code, &model.UpdateMedicalNoteRequest{Detail: &detail})
	require.True(t, apperror.IsKind(err, apperror.KindForbidden))

	updated, err := f.svc.Update(ctx, author, created.Code, &model.UpdateMedicalNoteRequest{Detail: &detail})
	require.NoError(t, err)
	assert.Equal(t, "Revised after imaging.", updated.Detail)
	assert.Equal(t, "Revised after imaging.", updated.Preview)
}

func TestListPatientSeesOwn(t *testing.T) {
	f := newFixture(t)
	author := f.seedDoctor(t, "rao", "DOC-2026-001")
	patient := f.seedPatient(t)
	ctx := context.Background()

	created, err := f.svc.Create(ctx, author, &model.CreateMedicalNoteRequest{
		PatientID: "PAT-2026-001",
		Type:      "Consultation",
		Detail:    "Initial exam.",
	})
	require.NoError(t, err)

	caller := model.Caller{AccountID: patient.AccountID, Role: model.RolePatient}
	notes, pagination, err := f.svc.List(ctx, caller, &model.MedicalNoteFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Total)
	require.Len(t, notes, 1)
	assert.Equal(t, created.ID, notes[0].ID)
}
