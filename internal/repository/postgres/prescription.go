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

type prescriptionRepository struct {
	db *sqlx.DB
}

func NewPrescriptionRepository(db *sqlx.DB) repository.PrescriptionRepository {
	return &prescriptionRepository{db: db}
}

const prescriptionSelect = `
	SELECT pr.*,
	       pa.name AS patient_name,
	       p.code AS patient_code,
	       da.name AS doctor_name,
	       d.code AS doctor_code
	FROM prescriptions pr
	JOIN patients p ON p.id = pr.patient_id
	JOIN accounts pa ON pa.id = p.account_id
	JOIN doctors d ON d.id = pr.doctor_id
	JOIN accounts da ON da.id = d.account_id`

func (r *prescriptionRepository) Create(ctx context.Context, prescription *model.Prescription) error {
	query := `
		INSERT INTO prescriptions (code, patient_id, doctor_id, medications, dosage, duration,
		                           instructions, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	now := time.Now()
	prescription.CreatedAt = now
	prescription.UpdatedAt = now

	err := r.db.QueryRowxContext(ctx, query,
		prescription.Code,
		prescription.PatientID,
		prescription.DoctorID,
		prescription.Medications,
		prescription.Dosage,
		prescription.Duration,
		prescription.Instructions,
		prescription.Status,
		prescription.CreatedAt,
		prescription.UpdatedAt,
	).Scan(&prescription.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("prescription code already allocated")
		}
		return fmt.Errorf("failed to create prescription: %w", err)
	}
	return nil
}

func (r *prescriptionRepository) GetByID(ctx context.Context, id int64) (*model.Prescription, error) {
	var prescription model.Prescription
	if err := r.db.GetContext(ctx, &prescription, prescriptionSelect+` WHERE pr.id = $1`, id); err != nil {
		return nil, notFound(err, "prescription", "get prescription")
	}
	return &prescription, nil
}

func (r *prescriptionRepository) GetByCode(ctx context.Context, code string) (*model.Prescription, error) {
	var prescription model.Prescription
	if err := r.db.GetContext(ctx, &prescription, prescriptionSelect+` WHERE pr.code = $1`, code); err != nil {
		return nil, notFound(err, "prescription", "get prescription by code")
	}
	return &prescription, nil
}

func (r *prescriptionRepository) List(ctx context.Context, filter *model.PrescriptionFilter) ([]*model.Prescription, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.DoctorID != nil {
		args = append(args, *filter.DoctorID)
		where = append(where, fmt.Sprintf("pr.doctor_id = $%d", len(args)))
	}
	if filter.PatientID != nil {
		args = append(args, *filter.PatientID)
		where = append(where, fmt.Sprintf("pr.patient_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("pr.status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(pr.code ILIKE $%d OR pr.medications ILIKE $%d OR pa.name ILIKE $%d)", n, n, n))
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM prescriptions pr
		JOIN patients p ON p.id = pr.patient_id
		JOIN accounts pa ON pa.id = p.account_id
		WHERE ` + cond
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count prescriptions: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY pr.created_at DESC
		LIMIT $%d OFFSET $%d`, prescriptionSelect, cond, len(args)-1, len(args))

	prescriptions := []*model.Prescription{}
	if err := r.db.SelectContext(ctx, &prescriptions, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list prescriptions: %w", err)
	}
	return prescriptions, total, nil
}

func (r *prescriptionRepository) Update(ctx context.Context, prescription *model.Prescription) error {
	query := `
		UPDATE prescriptions
		SET medications = $1, dosage = $2, duration = $3, instructions = $4, status = $5, updated_at = $6
		WHERE id = $7`
	prescription.UpdatedAt = time.Now()

	res, err := r.db.ExecContext(ctx, query,
		prescription.Medications,
		prescription.Dosage,
		prescription.Duration,
		prescription.Instructions,
		prescription.Status,
		prescription.UpdatedAt,
		prescription.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update prescription: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("prescription")
	}
	return nil
}

func (r *prescriptionRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM prescriptions WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete prescription: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("prescription")
	}
	return nil
}
