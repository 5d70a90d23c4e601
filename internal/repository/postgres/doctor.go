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

type doctorRepository struct {
	db *sqlx.DB
}

func NewDoctorRepository(db *sqlx.DB) repository.DoctorRepository {
	return &doctorRepository{db: db}
}

const doctorSelect = `
	SELECT d.*,
	       a.name AS account_name,
	       a.email AS account_email,
	       a.is_active AS account_active
	FROM doctors d
	JOIN accounts a ON a.id = d.account_id`

func (r *doctorRepository) Create(ctx context.Context, account *model.Account, doctor *model.Doctor) error {
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertAccount(ctx, tx, account); err != nil {
			return err
		}

		query := `
			INSERT INTO doctors (code, account_id, department, specialization, qualifications,
			                     experience, phone, availability, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING id`
		now := time.Now()
		doctor.AccountID = account.ID
		doctor.CreatedAt = now
		doctor.UpdatedAt = now

		err := tx.QueryRowxContext(ctx, query,
			doctor.Code,
			doctor.AccountID,
			doctor.Department,
			doctor.Specialization,
			doctor.Qualifications,
			doctor.Experience,
			doctor.Phone,
			doctor.Availability,
			doctor.CreatedAt,
			doctor.UpdatedAt,
		).Scan(&doctor.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return apperror.Conflict("doctor code already allocated")
			}
			return fmt.Errorf("failed to create doctor: %w", err)
		}
		return nil
	})
}

func (r *doctorRepository) GetByID(ctx context.Context, id int64) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, doctorSelect+` WHERE d.id = $1`, id); err != nil {
		return nil, notFound(err, "doctor", "get doctor")
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByCode(ctx context.Context, code string) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, doctorSelect+` WHERE d.code = $1`, code); err != nil {
		return nil, notFound(err, "doctor", "get doctor by code")
	}
	return &doctor, nil
}

func (r *doctorRepository) GetByAccount(ctx context.Context, accountID int64) (*model.Doctor, error) {
	var doctor model.Doctor
	if err := r.db.GetContext(ctx, &doctor, doctorSelect+` WHERE d.account_id = $1`, accountID); err != nil {
		return nil, notFound(err, "doctor", "get doctor by account")
	}
	return &doctor, nil
}

func (r *doctorRepository) IDByAccount(ctx context.Context, accountID int64) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id, `SELECT id FROM doctors WHERE account_id = $1`, accountID)
	if err != nil {
		return 0, notFound(err, "doctor", "resolve doctor profile")
	}
	return id, nil
}

func (r *doctorRepository) Update(ctx context.Context, account *model.Account, doctor *model.Doctor) error {
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if account != nil {
			if err := updateAccount(ctx, tx, account); err != nil {
				return err
			}
		}

		query := `
			UPDATE doctors
			SET department = $1, specialization = $2, qualifications = $3,
			    experience = $4, phone = $5, availability = $6, updated_at = $7
			WHERE id = $8`
		doctor.UpdatedAt = time.Now()

		res, err := tx.ExecContext(ctx, query,
			doctor.Department,
			doctor.Specialization,
			doctor.Qualifications,
			doctor.Experience,
			doctor.Phone,
			doctor.Availability,
			doctor.UpdatedAt,
			doctor.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update doctor: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperror.NotFound("doctor")
		}
		return nil
	})
}
