package appointment

import (
	"context"
	"fmt"
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
		memory.NewAppointmentRepository(store),
		patients,
		doctors,
		sequence.NewAllocator(memory.NewSequenceRepository(store)),
		authz.NewAuthorizer(authz.ProfileRepos{Doctors: doctors, Patients: patients}),
	)
	return &fixture{svc: svc, doctors: doctors, patients: patients}
}

func (f *fixture) seedDoctor(t *testing.T, name, code string) (*model.Account, *model.Doctor) {
	t.Helper()
	account := &model.Account{
		Email: name + "@clinic.test", PasswordHash: "x",
		Name: name, Role: model.RoleDoctor, IsActive: true,
	}
	doctor := &model.Doctor{Code: code, Department: "General"}
	require.NoError(t, f.doctors.Create(context.Background(), account, doctor))
	return account, doctor
}

func (f *fixture) seedPatient(t *testing.T, name, code string) (*model.Account, *model.Patient) {
	t.Helper()
	account := &model.Account{
		Email: name + "@clinic.test", PasswordHash: "x",
		Name: name, Role: model.RolePatient, IsActive: true,
	}
	patient := &model.Patient{Code: code, Email: account.Email, Age: 30, Gender: "Male"}
	require.NoError(t, f.patients.Create(context.Background(), account, patient))
	return account, patient
}

var superAdmin = model.Caller{AccountID: 9999, Role: model.RoleSuperAdmin}

func TestCreateDefaults(t *testing.T) {
	f := newFixture(t)
	_, doctor := f.seedDoctor(t, "rao", "DOC-2026-001")
	_, patient := f.seedPatient(t, "ada", "PAT-2026-001")

	ctx := context.Background()
	created, err := f.svc.Create(ctx, &model.CreateAppointmentRequest{
		PatientID: fmt.Sprintf("%d", patient.ID),
		DoctorID:  fmt.Sprintf("%d", doctor.ID),
		Date:      "2026-09-15",
		Time:      "10:00 AM",
		Reason:    "Checkup",
	})
	require.NoError(t, err)

	assert.Regexp(t, `^APT-\d{4}-\d{3,}$`, created.Code)
	assert.Equal(t, model.AppointmentStatusScheduled, created.Status)
	assert.Equal(t, model.AppointmentTypeOffline, created.Type)
	assert.Equal(t, "ada", created.PatientName)
	assert.Equal(t, "rao", created.DoctorName)

	refreshed, err := f.patients.GetByID(ctx, patient.ID)
	require.NoError(t, err)
	require.NotNil(t, refreshed.LastVisit)
	assert.Equal(t, "2026-09-15", refreshed.LastVisit.Format("2006-01-02"))
}

func TestCreateByCodes(t *testing.T) {
	f := newFixture(t)
	f.seedDoctor(t, "rao", "DOC-2026-001")
	f.seedPatient(t, "ada", "PAT-2026-001")

	created, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: "PAT-2026-001",
		DoctorID:  "DOC-2026-001",
		Date:      "2026-09-15",
		Time:      "11:00 AM",
		Type:      "Online",
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentTypeOnline, created.Type)
	assert.Equal(t, "PAT-2026-001", created.PatientCode)
	assert.Equal(t, "DOC-2026-001", created.DoctorCode)
}

func TestCreateInvalidDate(t *testing.T) {
	f := newFixture(t)
	_, doctor := f.seedDoctor(t, "rao", "DOC-2026-001")
	_, patient := f.seedPatient(t, "ada", "PAT-2026-001")

	_, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: fmt.Sprintf("%d", patient.ID),
		DoctorID:  fmt.Sprintf("%d", doctor.ID),
		Date:      "15/09/2026",
		Time:      "10:00 AM",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestCreateUnknownPatient(t *testing.T) {
	f := newFixture(t)
	f.seedDoctor(t, "rao", "DOC-2026-001")

	_, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: "PAT-2026-404",
		DoctorID:  "DOC-2026-001",
		Date:      "2026-09-15",
		Time:      "10:00 AM",
	})
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func (f *fixture) book(t *testing.T, patientCode, doctorCode, date, slot string) *model.Appointment {
	t.Helper()
	created, err := f.svc.Create(context.Background(), &model.CreateAppointmentRequest{
		PatientID: patientCode, DoctorID: doctorCode, Date: date, Time: slot,
	})
	require.NoError(t, err)
	return created
}

func TestListDoctorSeesOwnOnly(t *testing.T) {
	f := newFixture(t)
	docAccount, _ := f.seedDoctor(t, "rao", "DOC-2026-001")
	f.seedDoctor(t, "iyer", "DOC-2026-002")
	f.seedPatient(t, "ada", "PAT-2026-001")

	mine := f.book(t, "PAT-2026-001", "DOC-2026-001", "2026-09-15", "10:00 AM")
	f.book(t, "PAT-2026-001", "DOC-2026-002", "2026-09-15", "11:00 AM")

	caller := model.Caller{AccountID: docAccount.ID, Role: model.RoleDoctor}
	appointments, pagination, err := f.svc.List(context.Background(), caller, &model.AppointmentFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Total)
	require.Len(t, appointments, 1)
	assert.Equal(t, mine.ID, appointments[0].ID)
}

func TestListPatientWithoutProfileSeesNothing(t *testing.T) {
	f := newFixture(t)
	f.seedDoctor(t, "rao", "DOC-2026-001")
	f.seedPatient(t, "ada", "PAT-2026-001")
	f.book(t, "PAT-2026-001", "DOC-2026-001", "2026-09-15", "10:00 AM")

	caller := model.Caller{AccountID: 777, Role: model.RolePatient}
	appointments, pagination, err := f.svc.List(context.Background(), caller, &model.AppointmentFilter{})
	require.NoError(t, err)
	assert.Empty(t, appointments)
	assert.Equal(t, 0, pagination.Total)
}

func TestListStatusFilter(t *testing.T) {
	f := newFixture(t)
	f.seedDoctor(t, "rao", "DOC-2026-001")
	f.seedPatient(t, "ada", "PAT-2026-001")

	booked := f.book(t, "PAT-2026-001", "DOC-2026-001", "2026-09-15", "10:00 AM")
	f.book(t, "PAT-2026-001", "DOC-2026-001", "2026-09-16", "10:00 AM")

	cancelled := "Cancelled"
	_, err := f.svc.Update(context.Background(), superAdmin, booked.Code, &model.UpdateAppointmentRequest{
		Status: &cancelled,
	})
	require.NoError(t, err)

	appointments, pagination, err := f.svc.List(context.Background(), superAdmin, &model.AppointmentFilter{
		Status: "Cancelled",
	})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Total)
	require.Len(t, appointments, 1)
	assert.Equal(t, booked.ID, appointments[0].ID)
}

func TestGetForbiddenForOtherDoctor(t *testing.T) {
	f := newFixture(t)
	f.seedDoctor(t, "rao", "DOC-2026-001")
	otherAccount, _ := f.seedDoctor(t, "iyer", "DOC-2026-002")
	f.seedPatient(t, "ada", "PAT-2026-001")
	booked := f.book(t, "PAT-2026-001", "DOC-2026-001", "2026-09-15", "10:00 AM")

	caller := model.Caller{AccountID: otherAccount.ID, Role: model.RoleDoctor}
	_, err := f.svc.Get(context.Background(), caller, booked.Code)
	require.True(t, apperror.IsKind(err, apperror.KindForbidden))

	_, err = f.svc.Get(context.Background(), caller, "APT-2026-999")
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestUpdateForbiddenForOtherDoctor(t *testing.T) {
	f := newFixture(t)
	f.seedDoctor(t, "rao", "DOC-2026-001")
	otherAccount, _ := f.seedDoctor(t, "iyer", "DOC-2026-002")
	f.seedPatient(t, "ada", "PAT-2026-001")
	booked := f.book(t, "PAT-2026-001", "DOC-2026-001", "2026-09-15", "10:00 AM")

	status := "Completed"
	caller := model.Caller{AccountID: otherAccount.ID, Role: model.RoleDoctor}
	_, err := f.svc.Update(context.Background(), caller, booked.Code, &model.UpdateAppointmentRequest{
		Status: &status,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

func TestUpdatePartial(t *testing.T) {
	f := newFixture(t)
	docAccount, _ := f.seedDoctor(t, "rao", "DOC-2026-001")
	f.seedPatient(t, "ada", "PAT-2026-001")
	booked := f.book(t, "PAT-2026-001", "DOC-2026-001", "2026-09-15", "10:00 AM")

	status := "Completed"
	caller := model.Caller{AccountID: docAccount.ID, Role: model.RoleDoctor}
	updated, err := f.svc.Update(context.Background(), caller, booked.Code, &model.UpdateAppointmentRequest{
		Status: &status,
	})
	require.NoError(t, err)
	assert.Equal(t, model.AppointmentStatusCompleted, updated.Status)
	assert.Equal(t, "10:00 AM", updated.Time)
	assert.Equal(t, "2026-09-15", updated.Date.Format("2006-01-02"))
}

func TestDelete(t *testing.T) {
	f := newFixture(t)
	f.seedDoctor(t, "rao", "DOC-2026-001")
	f.seedPatient(t, "ada", "PAT-2026-001")
	booked := f.book(t, "PAT-2026-001", "DOC-2026-001", "2026-09-15", "10:00 AM")

	ctx := context.Background()
	require.NoError(t, f.svc.Delete(ctx, booked.Code))
	_, err := f.svc.Get(ctx, superAdmin, booked.Code)
	assert.True(t, apperror.IsKind(err, apperror.KindNotFound))
}

func TestSchedule(t *testing.T) {
	f := newFixture(t)
	f.seedDoctor(t, "rao", "DOC-2026-001")
	f.seedPatient(t, "ada", "PAT-2026-001")

	f.book(t, "PAT-2026-001", "DOC-2026-001", "2026-09-15", "11:00 AM")
	f.book(t, "PAT-2026-001", "DOC-2026-001", "2026-09-15", "09:00 AM")
	cancelled := f.book(t, "PAT-2026-001", "DOC-2026-001", "2026-09-15", "10:00 AM")
	f.book(t, "PAT-2026-001", "DOC-2026-001", "2026-09-16", "02:00 PM")

	status := "Cancelled"
	_, err := f.svc.Update(context.Background(), superAdmin, cancelled.Code, &model.UpdateAppointmentRequest{
		Status: &status,
	})
	require.NoError(t, err)

	schedule, err := f.svc.Schedule(context.Background(), "DOC-2026-001", "2026-09-15")
	require.NoError(t, err)
	assert.Equal(t, "rao", schedule.Doctor)
	require.Len(t, schedule.BookedSlots, 2)
	assert.Equal(t, "09:00 AM", schedule.BookedSlots[0].Time)
	assert.Equal(t, "11:00 AM", schedule.BookedSlots[1].Time)

	_, err = f.svc.Schedule(context.Background(), "DOC-2026-001", "tomorrow")
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}
