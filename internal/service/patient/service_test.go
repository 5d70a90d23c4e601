package patient

import (
	"context"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/internal/repository/memory"
	"github.com/medicore/clinic-api/internal/sequence"
	"github.com/medicore/clinic-api/pkg/apperror"
	"github.com/medicore/clinic-api/pkg/security"
)

type fixture struct {
	svc          *Service
	accounts     repository.AccountRepository
	doctors      repository.DoctorRepository
	patients     repository.PatientRepository
	appointments repository.AppointmentRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	accounts := memory.NewAccountRepository(store)
	doctors := memory.NewDoctorRepository(store)
	patients := memory.NewPatientRepository(store)
	appointments := memory.NewAppointmentRepository(store)
	svc := NewService(
		accounts,
		patients,
		doctors,
		appointments,
		sequence.NewAllocator(memory.NewSequenceRepository(store)),
		security.NewBcryptHasher(security.DefaultCost),
		authz.NewAuthorizer(authz.ProfileRepos{Doctors: doctors, Patients: patients}),
	)
	return &fixture{
		svc:          svc,
		accounts:     accounts,
		doctors:      doctors,
		patients:     patients,
		appointments: appointments,
	}
}

func (f *fixture) seedDoctor(t *testing.T, name string) (*model.Account, *model.Doctor) {
	t.Helper()
	account := &model.Account{
		Email: fmt.Sprintf("%s@clinic.test", name), PasswordHash: "x",
		Name: name, Role: model.RoleDoctor, IsActive: true,
	}
	doctor := &model.Doctor{Code: "DOC-2026-" + name, Department: "General"}
	require.NoError(t, f.doctors.Create(context.Background(), account, doctor))
	return account, doctor
}

func (f *fixture) createPatient(t *testing.T, email string, assignedTo *int64) *model.Patient {
	t.Helper()
	patient, err := f.svc.Create(context.Background(), &model.CreatePatientRequest{
		Name: "Patient " + email, Email: email, Password: "secret123",
		Age: 30, Gender: "Female", Phone: "555-0100",
		AssignedDoctorID: assignedTo,
	})
	require.NoError(t, err)
	return patient
}

var superAdmin = model.Caller{AccountID: 9999, Role: model.RoleSuperAdmin}

func TestCreateAllocatesCode(t *testing.T) {
	f := newFixture(t)

	patient := f.createPatient(t, "Ada@Clinic.Test", nil)
	assert.Regexp(t, `^PAT-\d{4}-\d{3,}$`, patient.Code)
	assert.Equal(t, "ada@clinic.test", patient.Email)
	assert.Equal(t, "Patient Ada@Clinic.Test", patient.Name)
	assert.True(t, patient.IsActive)
}

func TestCreateDuplicateEmail(t *testing.T) {
	f := newFixture(t)
	f.createPatient(t, "dup@clinic.test", nil)

	_, err := f.svc.Create(context.Background(), &model.CreatePatientRequest{
		Name: "Other", Email: "DUP@clinic.test", Password: "secret123",
		Age: 40, Gender: "Male", Phone: "555-0101",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindConflict))
}

func TestCreateUnknownAssignedDoctor(t *testing.T) {
	f := newFixture(t)

	ghost := int64(404)
	_, err := f.svc.Create(context.Background(), &model.CreatePatientRequest{
		Name: "Pat", Email: "pat@clinic.test", Password: "secret123",
		Age: 30, Gender: "Female", Phone: "555-0100",
		AssignedDoctorID: &ghost,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestListDoctorSeesAssignedOnly(t *testing.T) {
	f := newFixture(t)
	docAccount, doctor := f.seedDoctor(t, "rao")

	mine := f.createPatient(t, "mine@clinic.test", &doctor.ID)
	f.createPatient(t, "other@clinic.test", nil)

	caller := model.Caller{AccountID: docAccount.ID, Role: model.RoleDoctor}
	patients, pagination, err := f.svc.List(context.Background(), caller, &model.PatientFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Total)
	require.Len(t, patients, 1)
	assert.Equal(t, mine.ID, patients[0].ID)
}

func TestListDoctorWithoutProfileSeesNothing(t *testing.T) {
	f := newFixture(t)
	f.createPatient(t, "pat@clinic.test", nil)

	// role says doctor but no doctor row exists for this account
	caller := model.Caller{AccountID: 777, Role: model.RoleDoctor}
	patients, pagination, err := f.svc.List(context.Background(), caller, &model.PatientFilter{})
	require.NoError(t, err)
	assert.Empty(t, patients)
	assert.Equal(t, 0, pagination.Total)
}

func TestListPatientSeesSelf(t *testing.T) {
	f := newFixture(t)
	self := f.createPatient(t, "self@clinic.test", nil)
	f.createPatient(t, "other@clinic.test", nil)

	caller := model.Caller{AccountID: self.AccountID, Role: model.RolePatient}
	patients, pagination, err := f.svc.List(context.Background(), caller, &model.PatientFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Total)
	require.Len(t, patients, 1)
	assert.Equal(t, self.ID, patients[0].ID)
}

func TestGetNotFoundBeforeForbidden(t *testing.T) {
	f := newFixture(t)
	docAccount, _ := f.seedDoctor(t, "rao")

	caller := model.Caller{AccountID: docAccount.ID, Role: model.RoleDoctor}
	_, err := f.svc.Get(context.Background(), caller, "123456")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestGetForbiddenForUnassignedDoctor(t *testing.T) {
	f := newFixture(t)
	docAccount, _ := f.seedDoctor(t, "rao")
	other := f.createPatient(t, "other@clinic.test", nil)

	caller := model.Caller{AccountID: docAccount.ID, Role: model.RoleDoctor}
	_, err := f.svc.Get(context.Background(), caller, fmt.Sprintf("%d", other.ID))
	require.True(t, apperror.IsKind(err, apperror.KindForbidden))
	assert.Equal(t, apperror.ReasonNotOwner, apperror.From(err).Reason)
}

func TestGetByCodeWithRecentAppointments(t *testing.T) {
	f := newFixture(t)
	_, doctor := f.seedDoctor(t, "rao")
	patient := f.createPatient(t, "pat@clinic.test", &doctor.ID)

	ctx := context.Background()
	for i := 0; i < 7; i++ {
		require.NoError(t, f.appointments.Create(ctx, &model.Appointment{
			Code: fmt.Sprintf("APT-2026-%03d", i+1), PatientID: patient.ID, DoctorID: doctor.ID,
			Date: time.Now().AddDate(0, 0, -i), Time: "10:00 AM",
			Status: model.AppointmentStatusCompleted, Type: model.AppointmentTypeOffline,
		}))
	}

	detail, err := f.svc.Get(ctx, superAdmin, patient.Code)
	require.NoError(t, err)
	assert.Equal(t, patient.ID, detail.ID)
	assert.Len(t, detail.RecentAppointments, 5)
}

func TestUpdateNameTouchesAccount(t *testing.T) {
	f := newFixture(t)
	patient := f.createPatient(t, "pat@clinic.test", nil)

	ctx := context.Background()
	newName := "Renamed"
	history := "Asthma"
	updated, err := f.svc.Update(ctx, fmt.Sprintf("%d", patient.ID), &model.UpdatePatientRequest{
		Name:    &newName,
		History: &history,
	})
	require.NoError(t, err)
	assert.Equal(t, "Renamed", updated.Name)
	assert.Equal(t, "Asthma", updated.History)

	account, err := f.accounts.GetByID(ctx, patient.AccountID)
	require.NoError(t, err)
	assert.Equal(t, "Renamed", account.Name)
}

func TestUpdateAssignDoctor(t *testing.T) {
	f := newFixture(t)
	_, doctor := f.seedDoctor(t, "rao")
	patient := f.createPatient(t, "pat@clinic.test", nil)

	updated, err := f.svc.Update(context.Background(), patient.Code, &model.UpdatePatientRequest{
		AssignedDoctorID: &doctor.ID,
	})
	require.NoError(t, err)
	require.NotNil(t, updated.AssignedDoctorID)
	assert.Equal(t, doctor.ID, *updated.AssignedDoctorID)
	require.NotNil(t, updated.AssignedDoctorName)
	assert.Equal(t, "rao", *updated.AssignedDoctorName)
}

func TestDeleteRemovesAccount(t *testing.T) {
	f := newFixture(t)
	patient := f.createPatient(t, "pat@clinic.test", nil)

	ctx := context.Background()
	require.NoError(t, f.svc.Delete(ctx, patient.Code))

	_, err := f.patients.GetByID(ctx, patient.ID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
	_, err = f.accounts.GetByID(ctx, patient.AccountID)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}
