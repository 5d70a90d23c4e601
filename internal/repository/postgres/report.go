package postgres

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
)

type reportRepository struct {
	db *sqlx.DB
}

func NewReportRepository(db *sqlx.DB) repository.ReportRepository {
	return &reportRepository{db: db}
}

func (r *reportRepository) Overview(ctx context.Context) (*model.Overview, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM patients) AS patient_total,
			(SELECT COUNT(*) FROM doctors) AS doctor_total,
			(SELECT COUNT(*) FROM appointments) AS appt_total,
			(SELECT COUNT(*) FROM appointments WHERE date = CURRENT_DATE) AS appt_today,
			(SELECT COUNT(*) FROM appointments WHERE date >= date_trunc('month', CURRENT_DATE)) AS appt_monthly,
			(SELECT COUNT(*) FROM appointments WHERE status = 'Scheduled') AS appt_pending,
			(SELECT COUNT(*) FROM appointments WHERE status = 'Completed') AS appt_completed,
			(SELECT COALESCE(SUM(amount), 0) FROM invoices WHERE status = 'Paid') AS total_revenue,
			(SELECT COALESCE(SUM(amount), 0) FROM invoices WHERE status IN ('Pending', 'Overdue')) AS pending_payments,
			(SELECT COUNT(*) FROM invoices WHERE status IN ('Pending', 'Overdue')) AS pending_count,
			(SELECT COUNT(*) FROM invoices WHERE status = 'Paid' AND created_at >= date_trunc('month', CURRENT_DATE)) AS monthly_paid`

	var row struct {
		PatientTotal    int     `db:"patient_total"`
		DoctorTotal     int     `db:"doctor_total"`
		ApptTotal       int     `db:"appt_total"`
		ApptToday       int     `db:"appt_today"`
		ApptMonthly     int     `db:"appt_monthly"`
		ApptPending     int     `db:"appt_pending"`
		ApptCompleted   int     `db:"appt_completed"`
		TotalRevenue    float64 `db:"total_revenue"`
		PendingPayments float64 `db:"pending_payments"`
		PendingCount    int     `db:"pending_count"`
		MonthlyPaid     int     `db:"monthly_paid"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return nil, fmt.Errorf("failed to build overview: %w", err)
	}

	return &model.Overview{
		Patients: model.OverviewCount{Total: row.PatientTotal, Label: "Registered Patients"},
		Doctors:  model.OverviewCount{Total: row.DoctorTotal, Label: "Active Doctors"},
		Appointments: model.AppointmentOverview{
			Total:     row.ApptTotal,
			Today:     row.ApptToday,
			Monthly:   row.ApptMonthly,
			Pending:   row.ApptPending,
			Completed: row.ApptCompleted,
			Label:     "Appointments",
		},
		Financial: &model.FinancialOverview{
			TotalRevenue:        row.TotalRevenue,
			PendingPayments:     row.PendingPayments,
			PendingCount:        row.PendingCount,
			MonthlyPaidInvoices: row.MonthlyPaid,
		},
	}, nil
}

func (r *reportRepository) PatientStats(ctx context.Context) (*model.PatientStats, error) {
	countQuery := `
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE created_at >= date_trunc('month', CURRENT_DATE)) AS new_this_month,
			COUNT(*) FILTER (WHERE LOWER(gender) = 'male') AS male,
			COUNT(*) FILTER (WHERE LOWER(gender) = 'female') AS female
		FROM patients`

	var row struct {
		Total        int `db:"total"`
		NewThisMonth int `db:"new_this_month"`
		Male         int `db:"male"`
		Female       int `db:"female"`
	}
	if err := r.db.GetContext(ctx, &row, countQuery); err != nil {
		return nil, fmt.Errorf("failed to count patients: %w", err)
	}

	groupQuery := `
		SELECT COALESCE(NULLIF(blood_group, ''), 'Not Specified') AS blood_group,
		       COUNT(*) AS count
		FROM patients
		GROUP BY 1
		ORDER BY count DESC`
	buckets := []model.BloodGroupBucket{}
	if err := r.db.SelectContext(ctx, &buckets, groupQuery); err != nil {
		return nil, fmt.Errorf("failed to group blood groups: %w", err)
	}

	return &model.PatientStats{
		Total:        row.Total,
		NewThisMonth: row.NewThisMonth,
		ByGender:     model.GenderBreakdown{Male: row.Male, Female: row.Female},
		ByBloodGroup: buckets,
	}, nil
}

func (r *reportRepository) AppointmentStats(ctx context.Context, doctorID *int64) (*model.AppointmentStats, error) {
	cond := "1=1"
	args := []interface{}{}
	if doctorID != nil {
		args = append(args, *doctorID)
		cond = "doctor_id = $1"
	}

	countQuery := fmt.Sprintf(`
		SELECT
			COUNT(*) AS total,
			COUNT(*) FILTER (WHERE status = 'Scheduled') AS scheduled,
			COUNT(*) FILTER (WHERE status = 'Completed') AS completed,
			COUNT(*) FILTER (WHERE status = 'Cancelled') AS cancelled,
			COUNT(*) FILTER (WHERE date = CURRENT_DATE) AS today,
			COUNT(*) FILTER (WHERE date >= CURRENT_DATE - INTERVAL '7 days') AS weekly,
			COUNT(*) FILTER (WHERE date >= date_trunc('month', CURRENT_DATE)) AS monthly
		FROM appointments
		WHERE %s`, cond)

	var row struct {
		Total     int `db:"total"`
		Scheduled int `db:"scheduled"`
		Completed int `db:"completed"`
		Cancelled int `db:"cancelled"`
		Today     int `db:"today"`
		Weekly    int `db:"weekly"`
		Monthly   int `db:"monthly"`
	}
	if err := r.db.GetContext(ctx, &row, countQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to count appointments: %w", err)
	}

	typeQuery := fmt.Sprintf(`
		SELECT COALESCE(NULLIF(type, ''), 'Not Specified') AS type,
		       COUNT(*) AS count
		FROM appointments
		WHERE %s
		GROUP BY 1
		ORDER BY count DESC`, cond)
	buckets := []model.AppointmentTypeBucket{}
	if err := r.db.SelectContext(ctx, &buckets, typeQuery, args...); err != nil {
		return nil, fmt.Errorf("failed to group appointment types: %w", err)
	}

	return &model.AppointmentStats{
		Total: row.Total,
		ByStatus: model.AppointmentStatusCounts{
			Scheduled: row.Scheduled,
			Completed: row.Completed,
			Cancelled: row.Cancelled,
		},
		ByPeriod: model.AppointmentPeriodCounts{
			Today:   row.Today,
			Weekly:  row.Weekly,
			Monthly: row.Monthly,
		},
		ByType: buckets,
	}, nil
}

func (r *reportRepository) RevenueStats(ctx context.Context) (*model.RevenueStats, error) {
	totalsQuery := `
		SELECT
			COALESCE(SUM(amount) FILTER (WHERE status = 'Paid'), 0) AS total,
			COALESCE(SUM(amount) FILTER (WHERE status = 'Paid' AND created_at >= date_trunc('month', CURRENT_DATE)), 0) AS monthly,
			COALESCE(SUM(amount) FILTER (WHERE status = 'Paid' AND created_at >= date_trunc('year', CURRENT_DATE)), 0) AS yearly,
			COUNT(*) FILTER (WHERE status = 'Pending') AS pending_count,
			COALESCE(SUM(amount) FILTER (WHERE status = 'Pending'), 0) AS pending_amount,
			COUNT(*) FILTER (WHERE status = 'Overdue') AS overdue_count,
			COALESCE(SUM(amount) FILTER (WHERE status = 'Overdue'), 0) AS overdue_amount
		FROM invoices`

	var row struct {
		Total         float64 `db:"total"`
		Monthly       float64 `db:"monthly"`
		Yearly        float64 `db:"yearly"`
		PendingCount  int     `db:"pending_count"`
		PendingAmount float64 `db:"pending_amount"`
		OverdueCount  int     `db:"overdue_count"`
		OverdueAmount float64 `db:"overdue_amount"`
	}
	if err := r.db.GetContext(ctx, &row, totalsQuery); err != nil {
		return nil, fmt.Errorf("failed to total revenue: %w", err)
	}

	statusQuery := `
		SELECT status, COUNT(*) AS count, COALESCE(SUM(amount), 0) AS amount
		FROM invoices
		GROUP BY status
		ORDER BY status`
	byStatus := []model.InvoiceStatusBucket{}
	if err := r.db.SelectContext(ctx, &byStatus, statusQuery); err != nil {
		return nil, fmt.Errorf("failed to group invoices by status: %w", err)
	}

	methodQuery := `
		SELECT COALESCE(NULLIF(method, ''), 'Not Specified') AS method,
		       COUNT(*) AS count,
		       COALESCE(SUM(amount), 0) AS amount
		FROM invoices
		GROUP BY 1
		ORDER BY amount DESC`
	byMethod := []model.InvoiceMethodBucket{}
	if err := r.db.SelectContext(ctx, &byMethod, methodQuery); err != nil {
		return nil, fmt.Errorf("failed to group invoices by method: %w", err)
	}

	return &model.RevenueStats{
		Revenue:  model.RevenueTotals{Total: row.Total, Monthly: row.Monthly, Yearly: row.Yearly},
		Pending:  model.StatusBucket{Count: row.PendingCount, Amount: row.PendingAmount},
		Overdue:  model.StatusBucket{Count: row.OverdueCount, Amount: row.OverdueAmount},
		ByStatus: byStatus,
		ByMethod: byMethod,
	}, nil
}

func (r *reportRepository) MetricCounts(ctx context.Context) (*repository.MetricCounts, error) {
	query := `
		SELECT
			(SELECT COUNT(*) FROM patients WHERE created_at >= date_trunc('month', CURRENT_DATE)) AS new_registrations,
			(SELECT COUNT(*) FROM lab_results WHERE status = 'Final' AND created_at >= date_trunc('month', CURRENT_DATE)) AS lab_tests_final,
			(SELECT COUNT(*) FROM invoices WHERE status IN ('Pending', 'Overdue')) AS pending_invoices,
			(SELECT COUNT(*) FROM appointments WHERE status = 'Scheduled' AND date < CURRENT_DATE) AS missed_follow_ups`

	var counts repository.MetricCounts
	if err := r.db.GetContext(ctx, &counts, query); err != nil {
		return nil, fmt.Errorf("failed to count metrics: %w", err)
	}
	return &counts, nil
}
