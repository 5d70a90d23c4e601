package invoice

import (
	"context"
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
)

type fixture struct {
	svc      *Service
	patients repository.PatientRepository
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.NewStore()
	doctors := memory.NewDoctorRepository(store)
	patients := memory.NewPatientRepository(store)
	svc := NewService(
		memory.NewInvoiceRepository(store),
		patients,
		sequence.NewAllocator(memory.NewSequenceRepository(store)),
		authz.NewAuthorizer(authz.ProfileRepos{Doctors: doctors, Patients: patients}),
	)
	return &fixture{svc: svc, patients: patients}
}

func (f *fixture) seedPatient(t *testing.T, name, code string) *model.Patient {
	t.Helper()
	account := &model.Account{
		Email: name + "@clinic.test", PasswordHash: "x",
		Name: name, Role: model.RolePatient, IsActive: true,
	}
	patient := &model.Patient{Code: code, Email: account.Email, Age: 30, Gender: "Female"}
	require.NoError(t, f.patients.Create(context.Background(), account, patient))
	return patient
}

var superAdmin = model.Caller{AccountID: 9999, Role: model.RoleSuperAdmin}

func TestCreateDefaults(t *testing.T) {
	f := newFixture(t)
	f.seedPatient(t, "ada", "PAT-2026-001")

	frozen := time.Date(2026, 9, 1, 10, 0, 0, 0, time.UTC)
	f.svc.now = func() time.Time { return frozen }

	created, err := f.svc.Create(context.Background(), &model.CreateInvoiceRequest{
		PatientID: "PAT-2026-001",
		Amount:    1500,
		Items:     model.InvoiceItems{{Description: "Consultation", Price: 1500}},
	})
	require.NoError(t, err)

	assert.Regexp(t, `^INV-\d{4}-\d{3,}$`, created.Code)
	assert.Equal(t, model.InvoiceStatusPending, created.Status)
	assert.Equal(t, "Cash", created.Method)
	assert.Equal(t, "2026-09-08", created.DueDate.Format("2006-01-02"))
	assert.Equal(t, "ada", created.PatientName)
}

func TestCreateExplicitDueDate(t *testing.T) {
	f := newFixture(t)
	f.seedPatient(t, "ada", "PAT-2026-001")

	due := "2026-10-01"
	created, err := f.svc.Create(context.Background(), &model.CreateInvoiceRequest{
		PatientID: "PAT-2026-001",
		Amount:    500,
		DueDate:   &due,
		Method:    "Card",
	})
	require.NoError(t, err)
	assert.Equal(t, "2026-10-01", created.DueDate.Format("2006-01-02"))
	assert.Equal(t, "Card", created.Method)

	bad := "01/10/2026"
	_, err = f.svc.Create(context.Background(), &model.CreateInvoiceRequest{
		PatientID: "PAT-2026-001",
		Amount:    500,
		DueDate:   &bad,
	})
	assert.True(t, apperror.IsKind(err, apperror.KindValidation))
}

func TestListStatusFilter(t *testing.T) {
	f := newFixture(t)
	f.seedPatient(t, "ada", "PAT-2026-001")
	ctx := context.Background()

	first, err := f.svc.Create(ctx, &model.CreateInvoiceRequest{PatientID: "PAT-2026-001", Amount: 100})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, &model.CreateInvoiceRequest{PatientID: "PAT-2026-001", Amount: 200})
	require.NoError(t, err)

	overdue := "Overdue"
	_, err = f.svc.Update(ctx, first.Code, &model.UpdateInvoiceRequest{Status: &overdue})
	require.NoError(t, err)

	invoices, pagination, err := f.svc.List(ctx, superAdmin, &model.InvoiceFilter{Status: "Overdue"})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Total)
	require.Len(t, invoices, 1)
	assert.Equal(t, first.ID, invoices[0].ID)
}

func TestListPatientSeesOwn(t *testing.T) {
	f := newFixture(t)
	mine := f.seedPatient(t, "ada", "PAT-2026-001")
	f.seedPatient(t, "bob", "PAT-2026-002")
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &model.CreateInvoiceRequest{PatientID: "PAT-2026-001", Amount: 100})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, &model.CreateInvoiceRequest{PatientID: "PAT-2026-002", Amount: 200})
	require.NoError(t, err)

	caller := model.Caller{AccountID: mine.AccountID, Role: model.RolePatient}
	invoices, pagination, err := f.svc.List(ctx, caller, &model.InvoiceFilter{})
	require.NoError(t, err)
	assert.Equal(t, 1, pagination.Total)
	require.Len(t, invoices, 1)
	assert.Equal(t, created.ID, invoices[0].ID)
}

func TestGetForbiddenForOtherPatient(t *testing.T) {
	f := newFixture(t)
	f.seedPatient(t, "ada", "PAT-2026-001")
	other := f.seedPatient(t, "bob", "PAT-2026-002")
	ctx := context.Background()

	created, err := f.svc.Create(ctx, &model.CreateInvoiceRequest{PatientID: "PAT-2026-001", Amount: 100})
	require.NoError(t, err)

	caller := model.Caller{AccountID: other.AccountID, Role: model.RolePatient}
	_, err = f.svc.Get(ctx, caller, created.Code)
	assert.True(t, apperror.IsKind(err, apperror.KindForbidden))
}

func TestSummary(t *testing.T) {
	f := newFixture(t)
	f.seedPatient(t, "ada", "PAT-2026-001")
	ctx := context.Background()

	first, err := f.svc.Create(ctx, &model.CreateInvoiceRequest{PatientID: "PAT-2026-001", Amount: 100})
	require.NoError(t, err)
	_, err = f.svc.Create(ctx, &model.CreateInvoiceRequest{PatientID: "PAT-2026-001", Amount: 250})
	require.NoError(t, err)

	paid := "Paid"
	_, err = f.svc.Update(ctx, first.Code, &model.UpdateInvoiceRequest{Status: &paid})
	require.NoError(t, err)

	summary, err := f.svc.Summary(ctx)
	require.NoError(t, err)
	assert.Equal(t, 2, summary.Total.Count)
	assert.Equal(t, 350.0, summary.Total.Amount)
	assert.Equal(t, 1, summary.Paid.Count)
	assert.Equal(t, 100.0, summary.Paid.Amount)
	assert.Equal(t, 1, summary.Pending.Count)
	assert.Equal(t, 250.0, summary.Pending.Amount)
}
