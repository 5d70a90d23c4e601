package repository

import (
	"context"
	"time"

	"github.com/medicore/clinic-api/internal/model"
)

// All repository interfaces in one file. Postgres implementations live in
// the postgres subpackage; the memory subpackage backs service tests.
//
// Create calls that take both an account and a profile must persist the two
// rows atomically. List calls return the page plus the unpaginated total.
type (
	AccountRepository interface {
		GetByID(ctx context.Context, id int64) (*model.Account, error)
		GetByEmail(ctx context.Context, email string) (*model.Account, error)
		EmailExists(ctx context.Context, email string, excludeID int64) (bool, error)
		List(ctx context.Context, filter *model.AccountFilter) ([]*model.Account, int, error)
		Update(ctx context.Context, account *model.Account) error
		Delete(ctx context.Context, id int64) error
	}

	DoctorRepository interface {
		Create(ctx context.Context, account *model.Account, doctor *model.Doctor) error
		GetByID(ctx context.Context, id int64) (*model.Doctor, error)
		GetByCode(ctx context.Context, code string) (*model.Doctor, error)
		GetByAccount(ctx context.Context, accountID int64) (*model.Doctor, error)
		IDByAccount(ctx context.Context, accountID int64) (int64, error)
		Update(ctx context.Context, account *model.Account, doctor *model.Doctor) error
	}

	PatientRepository interface {
		Create(ctx context.Context, account *model.Account, patient *model.Patient) error
		GetByID(ctx context.Context, id int64) (*model.Patient, error)
		GetByCode(ctx context.Context, code string) (*model.Patient, error)
		GetByAccount(ctx context.Context, accountID int64) (*model.Patient, error)
		IDByAccount(ctx context.Context, accountID int64) (int64, error)
		List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, int, error)
		Update(ctx context.Context, account *model.Account, patient *model.Patient) error
		Delete(ctx context.Context, accountID int64) error
		TouchLastVisit(ctx context.Context, patientID int64, visitedAt time.Time) error
	}

	StaffRepository interface {
		Create(ctx context.Context, account *model.Account, staff *model.Staff) error
		GetByAccount(ctx context.Context, accountID int64) (*model.Staff, error)
		Update(ctx context.Context, account *model.Account, staff *model.Staff) error
	}

	AppointmentRepository interface {
		Create(ctx context.Context, appointment *model.Appointment) error
		GetByID(ctx context.Context, id int64) (*model.Appointment, error)
		GetByCode(ctx context.Context, code string) (*model.Appointment, error)
		List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, int, error)
		ListRecentByPatient(ctx context.Context, patientID int64, limit int) ([]*model.Appointment, error)
		BookedSlots(ctx context.Context, doctorID int64, date time.Time) ([]model.BookedSlot, error)
		Update(ctx context.Context, appointment *model.Appointment) error
		Delete(ctx context.Context, id int64) error
	}

	PrescriptionRepository interface {
		Create(ctx context.Context, prescription *model.Prescription) error
		GetByID(ctx context.Context, id int64) (*model.Prescription, error)
		GetByCode(ctx context.Context, code string) (*model.Prescription, error)
		List(ctx context.Context, filter *model.PrescriptionFilter) ([]*model.Prescription, int, error)
		Update(ctx context.Context, prescription *model.Prescription) error
		Delete(ctx context.Context, id int64) error
	}

	LabResultRepository interface {
		Create(ctx context.Context, result *model.LabResult) error
		GetByID(ctx context.Context, id int64) (*model.LabResult, error)
		GetByCode(ctx context.Context, code string) (*model.LabResult, error)
		List(ctx context.Context, filter *model.LabResultFilter) ([]*model.LabResult, int, error)
		Update(ctx context.Context, result *model.LabResult) error
	}

	MedicalNoteRepository interface {
		Create(ctx context.Context, note *model.MedicalNote) error
		GetByID(ctx context.Context, id int64) (*model.MedicalNote, error)
		GetByCode(ctx context.Context, code string) (*model.MedicalNote, error)
		List(ctx context.Context, filter *model.MedicalNoteFilter) ([]*model.MedicalNote, int, error)
		Update(ctx context.Context, note *model.MedicalNote) error
	}

	InvoiceRepository interface {
		Create(ctx context.Context, invoice *model.Invoice) error
		GetByID(ctx context.Context, id int64) (*model.Invoice, error)
		GetByCode(ctx context.Context, code string) (*model.Invoice, error)
		List(ctx context.Context, filter *model.InvoiceFilter) ([]*model.Invoice, int, error)
		Update(ctx context.Context, invoice *model.Invoice) error
		Summary(ctx context.Context) (*model.BillingSummary, error)
	}

	// ReportRepository runs the read-only aggregations. Overview always fills
	// the financial block; the service strips it for roles without access.
	ReportRepository interface {
		Overview(ctx context.Context) (*model.Overview, error)
		PatientStats(ctx context.Context) (*model.PatientStats, error)
		AppointmentStats(ctx context.Context, doctorID *int64) (*model.AppointmentStats, error)
		RevenueStats(ctx context.Context) (*model.RevenueStats, error)
		MetricCounts(ctx context.Context) (*MetricCounts, error)
	}

	// SequenceRepository hands out the next value of a named counter,
	// atomically under concurrent callers.
	SequenceRepository interface {
		Next(ctx context.Context, key string) (int64, error)
	}
)

// MetricCounts are the raw numbers behind the detailed-metrics report.
type MetricCounts struct {
	NewRegistrations int `db:"new_registrations"`
	LabTestsFinal    int `db:"lab_tests_final"`
	PendingInvoices  int `db:"pending_invoices"`
	MissedFollowUps  int `db:"missed_follow_ups"`
}
