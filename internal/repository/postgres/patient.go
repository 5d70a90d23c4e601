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

type patientRepository struct {
	db *sqlx.DB
}

func NewPatientRepository(db *sqlx.DB) repository.PatientRepository {
	return &patientRepository{db: db}
}

const patientSelect = `
	SELECT p.*,
	       a.name AS account_name,
	       a.is_active AS account_active,
	       da.name AS assigned_doctor_name
	FROM patients p
	JOIN accounts a ON a.id = p.account_id
	LEFT JOIN doctors d ON d.id = p.assigned_doctor_id
	LEFT JOIN accounts da ON da.id = d.account_id`

func (r *patientRepository) Create(ctx context.Context, account *model.Account, patient *model.Patient) error {
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if err := insertAccount(ctx, tx, account); err != nil {
			return err
		}

		query := `
			INSERT INTO patients (code, account_id, age, gender, phone, email, address,
			                      blood_group, history, assigned_doctor_id, created_at, updated_at)
			VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12)
			RETURNING id`
		now := time.Now()
		patient.AccountID = account.ID
		patient.CreatedAt = now
		patient.UpdatedAt = now

		err := tx.QueryRowxContext(ctx, query,
			patient.Code,
			patient.AccountID,
			patient.Age,
			patient.Gender,
			patient.Phone,
			strings.ToLower(patient.Email),
			patient.Address,
			patient.BloodGroup,
			patient.History,
			patient.AssignedDoctorID,
			patient.CreatedAt,
			patient.UpdatedAt,
		).Scan(&patient.ID)
		if err != nil {
			if isUniqueViolation(err) {
				return apperror.Conflict("patient code already allocated")
			}
			return fmt.Errorf("failed to create patient: %w", err)
		}
		return nil
	})
}

func (r *patientRepository) GetByID(ctx context.Context, id int64) (*model.Patient, error) {
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, patientSelect+` WHERE p.id = $1`, id); err != nil {
		return nil, notFound(err, "patient", "get patient")
	}
	return &patient, nil
}

func (r *patientRepository) GetByCode(ctx context.Context, code string) (*model.Patient, error) {
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, patientSelect+` WHERE p.code = $1`, code); err != nil {
		return nil, notFound(err, "patient", "get patient by code")
	}
	return &patient, nil
}

func (r *patientRepository) GetByAccount(ctx context.Context, accountID int64) (*model.Patient, error) {
	var patient model.Patient
	if err := r.db.GetContext(ctx, &patient, patientSelect+` WHERE p.account_id = $1`, accountID); err != nil {
		return nil, notFound(err, "patient", "get patient by account")
	}
	return &patient, nil
}

func (r *patientRepository) IDByAccount(ctx context.Context, accountID int64) (int64, error) {
	var id int64
	err := r.db.GetContext(ctx, &id, `SELECT id FROM patients WHERE account_id = $1`, accountID)
	if err != nil {
		return 0, notFound(err, "patient", "resolve patient profile")
	}
	return id, nil
}

func (r *patientRepository) List(ctx context.Context, filter *model.PatientFilter) ([]*model.Patient, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.AssignedDoctorID != nil {
		args = append(args, *filter.AssignedDoctorID)
		where = append(where, fmt.Sprintf("p.assigned_doctor_id = $%d", len(args)))
	}
	if filter.SelfID != nil {
		args = append(args, *filter.SelfID)
		where = append(where, fmt.Sprintf("p.id = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(p.code ILIKE $%d OR a.name ILIKE $%d OR p.phone ILIKE $%d)", n, n, n))
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM patients p
		JOIN accounts a ON a.id = p.account_id
		WHERE ` + cond
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count patients: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY p.created_at DESC
		LIMIT $%d OFFSET $%d`, patientSelect, cond, len(args)-1, len(args))

	patients := []*model.Patient{}
	if err := r.db.SelectContext(ctx, &patients, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list patients: %w", err)
	}
	return patients, total, nil
}

func (r *patientRepository) Update(ctx context.Context, account *model.Account, patient *model.Patient) error {
	return inTx(ctx, r.db, func(tx *sqlx.Tx) error {
		if account != nil {
			if err := updateAccount(ctx, tx, account); err != nil {
				return err
			}
		}

		query := `
			UPDATE patients
			SET age = $1, gender = $2, phone = $3, address = $4, blood_group = $5,
			    history = $6, assigned_doctor_id = $7, last_visit = $8, updated_at = $9
			WHERE id = $10`
		patient.UpdatedAt = time.Now()

		res, err := tx.ExecContext(ctx, query,
			patient.Age,
			patient.Gender,
			patient.Phone,
			patient.Address,
			patient.BloodGroup,
			patient.History,
			patient.AssignedDoctorID,
			patient.LastVisit,
			patient.UpdatedAt,
			patient.ID,
		)
		if err != nil {
			return fmt.Errorf("failed to update patient: %w", err)
		}
		if n, _ := res.RowsAffected(); n == 0 {
			return apperror.NotFound("patient")
		}
		return nil
	})
}

// Delete removes the account row; the patient profile goes with it through
// the ON DELETE CASCADE constraint.
func (r *patientRepository) Delete(ctx context.Context, accountID int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM accounts WHERE id = $1`, accountID)
	if err != nil {
		return fmt.Errorf("failed to delete patient: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("patient")
	}
	return nil
}

func (r *patientRepository) TouchLastVisit(ctx context.Context, patientID int64, visitedAt time.Time) error {
	query := `UPDATE patients SET last_visit = $1, updated_at = $2 WHERE id = $3`
	if _, err := r.db.ExecContext(ctx, query, visitedAt, time.Now(), patientID); err != nil {
		return fmt.Errorf("failed to update last visit: %w", err)
	}
	return nil
}
