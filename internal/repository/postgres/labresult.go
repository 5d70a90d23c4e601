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

type labResultRepository struct {
	db *sqlx.DB
}

func NewLabResultRepository(db *sqlx.DB) repository.LabResultRepository {
	return &labResultRepository{db: db}
}

const labResultSelect = `
	SELECT lr.*,
	       pa.name AS patient_name,
	       p.code AS patient_code,
	       da.name AS doctor_name
	FROM lab_results lr
	JOIN patients p ON p.id = lr.patient_id
	JOIN accounts pa ON pa.id = p.account_id
	JOIN doctors d ON d.id = lr.doctor_id
	JOIN accounts da ON da.id = d.account_id`

func (r *labResultRepository) Create(ctx context.Context, result *model.LabResult) error {
	query := `
		INSERT INTO lab_results (code, patient_id, doctor_id, test_name, findings, results,
		                         technician, status, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	now := time.Now()
	result.CreatedAt = now
	result.UpdatedAt = now

	err := r.db.QueryRowxContext(ctx, query,
		result.Code,
		result.PatientID,
		result.DoctorID,
		result.TestName,
		result.Findings,
		result.Results,
		result.Technician,
		result.Status,
		result.CreatedAt,
		result.UpdatedAt,
	).Scan(&result.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("lab result code already allocated")
		}
		return fmt.Errorf("failed to create lab result: %w", err)
	}
	return nil
}

func (r *labResultRepository) GetByID(ctx context.Context, id int64) (*model.LabResult, error) {
	var result model.LabResult
	if err := r.db.GetContext(ctx, &result, labResultSelect+` WHERE lr.id = $1`, id); err != nil {
		return nil, notFound(err, "lab result", "get lab result")
	}
	return &result, nil
}

func (r *labResultRepository) GetByCode(ctx context.Context, code string) (*model.LabResult, error) {
	var result model.LabResult
	if err := r.db.GetContext(ctx, &result, labResultSelect+` WHERE lr.code = $1`, code); err != nil {
		return nil, notFound(err, "lab result", "get lab result by code")
	}
	return &result, nil
}

func (r *labResultRepository) List(ctx context.Context, filter *model.LabResultFilter) ([]*model.LabResult, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.DoctorID != nil {
		args = append(args, *filter.DoctorID)
		where = append(where, fmt.Sprintf("lr.doctor_id = $%d", len(args)))
	}
	if filter.PatientID != nil {
		args = append(args, *filter.PatientID)
		where = append(where, fmt.Sprintf("lr.patient_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("lr.status = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(lr.code ILIKE $%d OR lr.test_name ILIKE $%d OR pa.name ILIKE $%d)", n, n, n))
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM lab_results lr
		JOIN patients p ON p.id = lr.patient_id
		JOIN accounts pa ON pa.id = p.account_id
		WHERE ` + cond
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count lab results: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY lr.created_at DESC
		LIMIT $%d OFFSET $%d`, labResultSelect, cond, len(args)-1, len(args))

	results := []*model.LabResult{}
	if err := r.db.SelectContext(ctx, &results, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list lab results: %w", err)
	}
	return results, total, nil
}

func (r *labResultRepository) Update(ctx context.Context, result *model.LabResult) error {
	query := `
		UPDATE lab_results
		SET test_name = $1, findings = $2, results = $3, technician = $4, status = $5, updated_at = $6
		WHERE id = $7`
	result.UpdatedAt = time.Now()

	res, err := r.db.ExecContext(ctx, query,
		result.TestName,
		result.Findings,
		result.Results,
		result.Technician,
		result.Status,
		result.UpdatedAt,
		result.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update lab result: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("lab result")
	}
	return nil
}
