// Package report implements the read-only analytics endpoints over the
// aggregation queries in the report repository.
package report

import (
	"context"
	"fmt"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
)

type Service struct {
	reports    repository.ReportRepository
	authorizer *authz.Authorizer
}

func NewService(reports repository.ReportRepository, authorizer *authz.Authorizer) *Service {
	return &Service{reports: reports, authorizer: authorizer}
}

// Overview returns the dashboard headline numbers. The financial block is
// stripped for roles without billing access.
func (s *Service) Overview(ctx context.Context, caller model.Caller) (*model.Overview, error) {
	overview, err := s.reports.Overview(ctx)
	if err != nil {
		return nil, err
	}
	if caller.Role != model.RoleSuperAdmin && caller.Role != model.RoleBillingStaff {
		overview.Financial = nil
	}
	return overview, nil
}

func (s *Service) Patients(ctx context.Context) (*model.PatientStats, error) {
	return s.reports.PatientStats(ctx)
}

// Appointments returns appointment aggregates. Doctors get the same shape
// restricted to their own appointments; a doctor account without a profile
// row gets zeroed stats.
func (s *Service) Appointments(ctx context.Context, caller model.Caller) (*model.AppointmentStats, error) {
	var doctorID *int64
	if caller.Role == model.RoleDoctor {
		id, ok, err := s.authorizer.DoctorID(ctx, caller.AccountID)
		if err != nil {
			return nil, err
		}
		if !ok {
			return &model.AppointmentStats{ByType: []model.AppointmentTypeBucket{}}, nil
		}
		doctorID = &id
	}
	return s.reports.AppointmentStats(ctx, doctorID)
}

func (s *Service) Revenue(ctx context.Context) (*model.RevenueStats, error) {
	return s.reports.RevenueStats(ctx)
}

// Metrics derives the fixed operational metric rows from raw counts. The
// trend labels flip on hardcoded thresholds carried over from the dashboard.
func (s *Service) Metrics(ctx context.Context) ([]model.Metric, error) {
	counts, err := s.reports.MetricCounts(ctx)
	if err != nil {
		return nil, err
	}

	registrationsTrend := "Stable"
	if counts.NewRegistrations > 10 {
		registrationsTrend = "Increasing"
	}
	invoicesTrend := "Low"
	if counts.PendingInvoices > 15 {
		invoicesTrend = "High Priority"
	}
	followUpsTrend := "Low"
	if counts.MissedFollowUps > 5 {
		followUpsTrend = "High Priority"
	}

	return []model.Metric{
		{
			ID:       "RPT-001",
			Category: "New Registrations",
			Total:    counts.NewRegistrations,
			Trend:    registrationsTrend,
			Details:  fmt.Sprintf("%d new patient registrations this month.", counts.NewRegistrations),
		},
		{
			ID:       "RPT-002",
			Category: "Lab Tests Done",
			Total:    counts.LabTestsFinal,
			Trend:    "Stable",
			Details:  "Lab reports processed within standard TAT.",
		},
		{
			ID:       "RPT-003",
			Category: "Pending Invoices",
			Total:    counts.PendingInvoices,
			Trend:    invoicesTrend,
			Details:  fmt.Sprintf("%d outstanding invoices require attention.", counts.PendingInvoices),
		},
		{
			ID:       "RPT-004",
			Category: "Follow-ups Missed",
			Total:    counts.MissedFollowUps,
			Trend:    followUpsTrend,
			Details:  fmt.Sprintf("%d appointments past their scheduled date.", counts.MissedFollowUps),
		},
	}, nil
}
