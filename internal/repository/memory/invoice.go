package memory

import (
	"context"
	"time"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type invoiceRepository struct {
	store *Store
}

func NewInvoiceRepository(store *Store) repository.InvoiceRepository {
	return &invoiceRepository{store: store}
}

func (s *Store) joinInvoiceLocked(i *model.Invoice) *model.Invoice {
	cp := *i
	if patient, ok := s.patients[i.PatientID]; ok {
		cp.PatientCode = patient.Code
		cp.PatientEmail = patient.Email
		if account, ok := s.accounts[patient.AccountID]; ok {
			cp.PatientName = account.Name
		}
	}
	return &cp
}

func (r *invoiceRepository) Create(_ context.Context, invoice *model.Invoice) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	invoice.ID = r.store.nextIDLocked()
	now := time.Now()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now
	cp := *invoice
	r.store.invoices[invoice.ID] = &cp
	return nil
}

func (r *invoiceRepository) GetByID(_ context.Context, id int64) (*model.Invoice, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	invoice, ok := r.store.invoices[id]
	if !ok {
		return nil, apperror.NotFound("invoice")
	}
	return r.store.joinInvoiceLocked(invoice), nil
}

func (r *invoiceRepository) GetByCode(_ context.Context, code string) (*model.Invoice, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, invoice := range r.store.invoices {
		if invoice.Code == code {
			return r.store.joinInvoiceLocked(invoice), nil
		}
	}
	return nil, apperror.NotFound("invoice")
}

func (r *invoiceRepository) List(_ context.Context, filter *model.InvoiceFilter) ([]*model.Invoice, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := []*model.Invoice{}
	for _, invoice := range r.store.invoices {
		if filter.PatientID != nil && invoice.PatientID != *filter.PatientID {
			continue
		}
		if filter.Status != "" && string(invoice.Status) != filter.Status {
			continue
		}
		joined := r.store.joinInvoiceLocked(invoice)
		if !matches(filter.Search, joined.Code, joined.PatientName, joined.PatientCode) {
			continue
		}
		matched = append(matched, joined)
	}

	page, total := paginate(matched, filter.ListOptions, func(a, b *model.Invoice) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	return page, total, nil
}

func (r *invoiceRepository) Update(_ context.Context, invoice *model.Invoice) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.invoices[invoice.ID]
	if !ok {
		return apperror.NotFound("invoice")
	}
	invoice.CreatedAt = stored.CreatedAt
	invoice.UpdatedAt = time.Now()
	cp := *invoice
	r.store.invoices[invoice.ID] = &cp
	return nil
}

func (r *invoiceRepository) Summary(_ context.Context) (*model.BillingSummary, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	summary := &model.BillingSummary{}
	for _, invoice := range r.store.invoices {
		summary.Total.Count++
		summary.Total.Amount += invoice.Amount
		switch invoice.Status {
		case model.InvoiceStatusPending:
			summary.Pending.Count++
			summary.Pending.Amount += invoice.Amount
		case model.InvoiceStatusPaid:
			summary.Paid.Count++
			summary.Paid.Amount += invoice.Amount
		case model.InvoiceStatusOverdue:
			summary.Overdue.Count++
			summary.Overdue.Amount += invoice.Amount
		}
	}
	return summary, nil
}
