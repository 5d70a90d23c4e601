// Package invoice implements billing: invoice lifecycle, patient-scoped
// reads and the billing summary.
package invoice

import (
	"context"
	"time"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/internal/sequence"
	"github.com/medicore/clinic-api/internal/service"
	"github.com/medicore/clinic-api/pkg/apperror"
)

const (
	dateLayout     = "2006-01-02"
	defaultDueDays = 7
	defaultMethod  = "Cash"
)

type Service struct {
	invoices   repository.InvoiceRepository
	patients   repository.PatientRepository
	allocator  *sequence.Allocator
	authorizer *authz.Authorizer
	now        func() time.Time
}

func NewService(invoices repository.InvoiceRepository, patients repository.PatientRepository,
	allocator *sequence.Allocator, authorizer *authz.Authorizer) *Service {
	return &Service{
		invoices:   invoices,
		patients:   patients,
		allocator:  allocator,
		authorizer: authorizer,
		now:        time.Now,
	}
}

func (s *Service) List(ctx context.Context, caller model.Caller, filter *model.InvoiceFilter) ([]*model.Invoice, model.Pagination, error) {
	filter.Normalize()

	scope, err := s.authorizer.Scope(ctx, caller, authz.ResourceInvoice)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	switch scope.Kind {
	case authz.ScopeNone:
		return []*model.Invoice{}, model.NewPagination(filter.Page, filter.Limit, 0), nil
	case authz.ScopePatientOwned:
		filter.PatientID = &scope.ProfileID
	}

	invoices, total, err := s.invoices.List(ctx, filter)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return invoices, model.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *Service) Get(ctx context.Context, caller model.Caller, identifier string) (*model.Invoice, error) {
	invoice, err := service.Resolve(ctx, identifier, s.invoices.GetByID, s.invoices.GetByCode)
	if err != nil {
		return nil, err
	}

	scope, err := s.authorizer.Scope(ctx, caller, authz.ResourceInvoice)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsOwner(0, invoice.PatientID) {
		return nil, apperror.Forbidden("you do not have access to this invoice", apperror.ReasonNotOwner)
	}
	return invoice, nil
}

// Create bills a patient. The due date defaults to seven days out and the
// payment method to cash.
func (s *Service) Create(ctx context.Context, req *model.CreateInvoiceRequest) (*model.Invoice, error) {
	patient, err := service.Resolve(ctx, req.PatientID, s.patients.GetByID, s.patients.GetByCode)
	if err != nil {
		return nil, err
	}

	dueDate := s.now().AddDate(0, 0, defaultDueDays)
	if req.DueDate != nil {
		dueDate, err = time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			return nil, apperror.Validation("invalid due date, expected YYYY-MM-DD")
		}
	}
	method := req.Method
	if method == "" {
		method = defaultMethod
	}

	code, err := s.allocator.Next(ctx, sequence.PrefixInvoice)
	if err != nil {
		return nil, err
	}

	invoice := &model.Invoice{
		Code:      code,
		PatientID: patient.ID,
		Amount:    req.Amount,
		Status:    model.InvoiceStatusPending,
		DueDate:   dueDate,
		Method:    method,
		Items:     req.Items,
	}
	if err := s.invoices.Create(ctx, invoice); err != nil {
		return nil, err
	}
	return s.invoices.GetByID(ctx, invoice.ID)
}

func (s *Service) Update(ctx context.Context, identifier string, req *model.UpdateInvoiceRequest) (*model.Invoice, error) {
	invoice, err := service.Resolve(ctx, identifier, s.invoices.GetByID, s.invoices.GetByCode)
	if err != nil {
		return nil, err
	}

	if req.Amount != nil {
		invoice.Amount = *req.Amount
	}
	if req.Status != nil {
		invoice.Status = model.InvoiceStatus(*req.Status)
	}
	if req.DueDate != nil {
		dueDate, err := time.Parse(dateLayout, *req.DueDate)
		if err != nil {
			return nil, apperror.Validation("invalid due date, expected YYYY-MM-DD")
		}
		invoice.DueDate = dueDate
	}
	if req.Method != nil {
		invoice.Method = *req.Method
	}
	if req.Items != nil {
		invoice.Items = *req.Items
	}

	if err := s.invoices.Update(ctx, invoice); err != nil {
		return nil, err
	}
	return s.invoices.GetByID(ctx, invoice.ID)
}

// Summary aggregates counts and amounts by invoice status.
func (s *Service) Summary(ctx context.Context) (*model.BillingSummary, error) {
	return s.invoices.Summary(ctx)
}
