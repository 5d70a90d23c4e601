package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type staffRepository struct {
	db *sqlx.DB
}

func NewStaffRepository(db *sqlx.DB) repository.StaffRepository {
	return &staffRepository{db: db}
}

const staffSelect = `
	SELECT s.*,
	       a.name AS account_name,
	       a.email AS account_email
	FROM staff s
	JOIN accounts a ON a.id = s.account_id`

func (r *staffRepository) Create(ctx context.Context, account *model.Account, staff *model.Staff) error {
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertAccount(ctx, tx, account); err != nil {
			return err
		}

		query := `
			INSERT INTO staff (code, account_id, job_role, shift, phone, joined_at, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
			RETURNING id`
		now := time.Now()
		staff.AccountID = account.ID
		if staff.JoinedAt.IsZero() {
			staff.JoinedAt = now
		}
		staff.CreatedAt = now
		staff.UpdatedAt = now

		err := tx.QueryRowxContext(ctx, query,
			staff.Code,
			staff.AccountID,
			staff.JobRole,
			staff.Shift,
			staff.Phone,
			staff.JoinedAt,
			staff.CreatedAt,
			staff.UpdatedAt,
		).Scan(&staff.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return apperror.Conflict("staff code already allocated")
			}
			return fmt.Errorf("failed to create staff: %w", err)
		}
		return nil
	})
}

func (r *staffRepository) GetByAccount(ctx context.Context, accountID int64) (*model.Staff, error) {
	var staff model.Staff
	if err := r.db.GetContext(ctx, &staff, staffSelect+` WHERE s.account_id = $1`, accountID); err != nil {
		return nil, notFound(err, "staff", "get staff by account")
	}
	return &staff, nil
}

func (r *staffRepository) Update(ctx context.Context, account *model.Account, staff *model.Staff) error {
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if account != nil {
			if err := updateAccount(ctx, tx, account); err != nil {
				return err
			}
		}

		query := `
			UPDATE staff
			SET job_role = $1, shift = $2, phone = $3, updated_at = $4
			WHERE id = $5`
		staff.UpdatedAt = time.Now()

		res, err := tx.ExecContext(ctx, query,
			staff.JobRole,
			staff.Shift,
			staff.Phone,
			staff.UpdatedAt,
			staff.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update staff: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperror.NotFound("staff")
		}
		return nil
	})
}
