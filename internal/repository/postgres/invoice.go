package postgres

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type invoiceRepository struct {
	db *sqlx.DB
}

func NewInvoiceRepository(db *sqlx.DB) repository.InvoiceRepository {
	return &invoiceRepository{db: db}
}

const invoiceSelect = `
	SELECT i.*,
	       pa.name AS patient_name,
	       p.code AS patient_code,
	       p.email AS patient_email
	FROM invoices i
	JOIN patients p ON p.id = i.patient_id
	JOIN accounts pa ON pa.id = p.account_id`

func (r *invoiceRepository) Create(ctx context.Context, invoice *model.Invoice) error {
	query := `
		INSERT INTO invoices (code, patient_id, amount, status, due_date, method, items, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id`
	now := time.Now()
	invoice.CreatedAt = now
	invoice.UpdatedAt = now

	err := r.db.QueryRowxContext(ctx, query,
		invoice.Code,
		invoice.PatientID,
		invoice.Amount,
		invoice.Status,
		invoice.DueDate,
		invoice.Method,
		invoice.Items,
		invoice.CreatedAt,
		invoice.UpdatedAt,
	).Scan(&invoice.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("invoice code already allocated")
		}
		return fmt.Errorf("failed to create invoice: %w", err)
	}
	return nil
}

func (r *invoiceRepository) GetByID(ctx context.Context, id int64) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := r.db.GetContext(ctx, &invoice, invoiceSelect+` WHERE i.id = $1`, id); err != nil {
		return nil, notFound(err, "invoice", "get invoice")
	}
	return &invoice, nil
}

func (r *invoiceRepository) GetByCode(ctx context.Context, code string) (*model.Invoice, error) {
	var invoice model.Invoice
	if err := r.db.GetContext(ctx, &invoice, invoiceSelect+` WHERE i.code = $1`, code); err != nil {
		return nil, notFound(err, "invoice", "get invoice by code")
	}
	return &invoice, nil
}

func (r *invoiceRepository) List(ctx context.Context, filter *model.InvoiceFilter) ([]*model.Invoice, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.PatientID != nil {
		args = append(args, *filter.PatientID)
		where = append(where, fmt.Sprintf("i.patient_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("i.status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(i.code ILIKE $%d OR pa.name ILIKE $%d OR p.code ILIKE $%d)", n, n, n))
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM invoices i
		JOIN patients p ON p.id = i.patient_id
		JOIN accounts pa ON pa.id = p.account_id
		WHERE ` + cond
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count invoices: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY i.created_at DESC
		LIMIT $%d OFFSET $%d`, invoiceSelect, cond, len(args)-1, len(args))

	invoices := []*model.Invoice{}
	if err := r.db.SelectContext(ctx, &invoices, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list invoices: %w", err)
	}
	return invoices, total, nil
}

func (r *invoiceRepository) Update(ctx context.Context, invoice *model.Invoice) error {
	query := `
		UPDATE invoices
		SET amount = $1, status = $2, due_date = $3, method = $4, items = $5, updated_at = $6
		WHERE id = $7`
	invoice.UpdatedAt = time.Now()

	res, err := r.db.ExecContext(ctx, query,
		invoice.Amount,
		invoice.Status,
		invoice.DueDate,
		invoice.Method,
		invoice.Items,
		invoice.UpdatedAt,
		invoice.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update invoice: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("invoice")
	}
	return nil
}

func (r *invoiceRepository) Summary(ctx context.Context) (*model.BillingSummary, error) {
	query := `
		SELECT
			COUNT(*) AS total_count,
			COALESCE(SUM(amount), 0) AS total_amount,
			COUNT(*) FILTER (WHERE status = 'Pending') AS pending_count,
			COALESCE(SUM(amount) FILTER (WHERE status = 'Pending'), 0) AS pending_amount,
			COUNT(*) FILTER (WHERE status = 'Paid') AS paid_count,
			COALESCE(SUM(amount) FILTER (WHERE status = 'Paid'), 0) AS paid_amount,
			COUNT(*) FILTER (WHERE status = 'Overdue') AS overdue_count,
			COALESCE(SUM(amount) FILTER (WHERE status = 'Overdue'), 0) AS overdue_amount
		FROM invoices`

	var row struct {
		TotalCount    int     `db:"total_count"`
		TotalAmount   float64 `db:"total_amount"`
		PendingCount  int     `db:"pending_count"`
		PendingAmount float64 `db:"pending_amount"`
		PaidCount     int     `db:"paid_count"`
		PaidAmount    float64 `db:"paid_amount"`
		OverdueCount  int     `db:"overdue_count"`
		OverdueAmount float64 `db:"overdue_amount"`
	}
	if err := r.db.GetContext(ctx, &row, query); err != nil {
		return nil, fmt.Errorf("failed to summarize invoices: %w", err)
	}

	return &model.BillingSummary{
		Total:   model.StatusBucket{Count: row.TotalCount, Amount: row.TotalAmount},
		Pending: model.StatusBucket{Count: row.PendingCount, Amount: row.PendingAmount},
		Paid:    model.StatusBucket{Count: row.PaidCount, Amount: row.PaidAmount},
		Overdue: model.StatusBucket{Count: row.OverdueCount, Amount: row.OverdueAmount},
	}, nil
}
