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

type medicalNoteRepository struct {
	db *sqlx.DB
}

func NewMedicalNoteRepository(db *sqlx.DB) repository.MedicalNoteRepository {
	return &medicalNoteRepository{db: db}
}

const medicalNoteSelect = `
	SELECT mn.*,
	       pa.name AS patient_name,
	       p.code AS patient_code,
	       da.name AS doctor_name
	FROM medical_notes mn
	JOIN patients p ON p.id = mn.patient_id
	JOIN accounts pa ON pa.id = p.account_id
	JOIN doctors d ON d.id = mn.doctor_id
	JOIN accounts da ON da.id = d.account_id`

func (r *medicalNoteRepository) Create(ctx context.Context, note *model.MedicalNote) error {
	query := `
		INSERT INTO medical_notes (code, patient_id, doctor_id, type, preview, detail, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)
		RETURNING id`
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now

	err := r.db.QueryRowxContext(ctx, query,
		note.Code,
		note.PatientID,
		note.DoctorID,
		note.Type,
		note.Preview,
		note.Detail,
		note.CreatedAt,
		note.UpdatedAt,
	).Scan(&note.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("note code already allocated")
		}
		return fmt.Errorf("failed to create medical note: %w", err)
	}
	return nil
}

func (r *medicalNoteRepository) GetByID(ctx context.Context, id int64) (*model.MedicalNote, error) {
	var note model.MedicalNote
	if err := r.db.GetContext(ctx, &note, medicalNoteSelect+` WHERE mn.id = $1`, id); err != nil {
		return nil, notFound(err, "medical note", "get medical note")
	}
	return &note, nil
}

func (r *medicalNoteRepository) GetByCode(ctx context.Context, code string) (*model.MedicalNote, error) {
	var note model.MedicalNote
	if err := r.db.GetContext(ctx, &note, medicalNoteSelect+` WHERE mn.code = $1`, code); err != nil {
		return nil, notFound(err, "medical note", "get medical note by code")
	}
	return &note, nil
}

func (r *medicalNoteRepository) List(ctx context.Context, filter *model.MedicalNoteFilter) ([]*model.MedicalNote, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.DoctorID != nil {
		args = append(args, *filter.DoctorID)
		where = append(where, fmt.Sprintf("mn.doctor_id = $%d", len(args)))
	}
	if filter.PatientID != nil {
		args = append(args, *filter.PatientID)
		where = append(where, fmt.Sprintf("mn.patient_id = $%d", len(args)))
	}
	if filter.Type != "" {
		args = append(args, filter.Type)
		where = append(where, fmt.Sprintf("mn.type = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(mn.code ILIKE $%d OR mn.preview ILIKE $%d OR pa.name ILIKE $%d)", n, n, n))
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM medical_notes mn
		JOIN patients p ON p.id = mn.patient_id
		JOIN accounts pa ON pa.id = p.account_id
		WHERE ` + cond
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count medical notes: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY mn.created_at DESC
		LIMIT $%d OFFSET $%d`, medicalNoteSelect, cond, len(args)-1, len(args))

	notes := []*model.MedicalNote{}
	if err := r.db.SelectContext(ctx, &notes, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list medical notes: %w", err)
	}
	return notes, total, nil
}

func (r *medicalNoteRepository) Update(ctx context.Context, note *model.MedicalNote) error {
	query := `
		UPDATE medical_notes
		SET type = $1, preview = $2, detail = $3, updated_at = $4
		WHERE id = $5`
	note.UpdatedAt = time.Now()

	res, err := r.db.ExecContext(ctx, query,
		note.Type,
		note.Preview,
		note.Detail,
		note.UpdatedAt,
		note.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update medical note: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("medical note")
	}
	return nil
}
