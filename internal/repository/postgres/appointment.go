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

type appointmentRepository struct {
	db *sqlx.DB
}

func NewAppointmentRepository(db *sqlx.DB) repository.AppointmentRepository {
	return &appointmentRepository{db: db}
}

const appointmentSelect = `
	SELECT ap.*,
	       pa.name AS patient_name,
	       p.code AS patient_code,
	       p.phone AS patient_phone,
	       da.name AS doctor_name,
	       d.code AS doctor_code,
	       d.department AS department
	FROM appointments ap
	JOIN patients p ON p.id = ap.patient_id
	JOIN accounts pa ON pa.id = p.account_id
	JOIN doctors d ON d.id = ap.doctor_id
	JOIN accounts da ON da.id = d.account_id`

func (r *appointmentRepository) Create(ctx context.Context, appointment *model.Appointment) error {
	query := `
		INSERT INTO appointments (code, patient_id, doctor_id, date, time, status, type, reason, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
		RETURNING id`
	now := time.Now()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now

	err := r.db.QueryRowxContext(ctx, query,
		appointment.Code,
		appointment.PatientID,
		appointment.DoctorID,
		appointment.Date,
		appointment.Time,
		appointment.Status,
		appointment.Type,
		appointment.Reason,
		appointment.CreatedAt,
		appointment.UpdatedAt,
	).Scan(&appointment.ID)
	if err != nil {
		if isUniqueViolation(err) {
			return apperror.Conflict("appointment code already allocated")
		}
		return fmt.Errorf("failed to create appointment: %w", err)
	}
	return nil
}

func (r *appointmentRepository) GetByID(ctx context.Context, id int64) (*model.Appointment, error) {
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, appointmentSelect+` WHERE ap.id = $1`, id); err != nil {
		return nil, notFound(err, "appointment", "get appointment")
	}
	return &appointment, nil
}

func (r *appointmentRepository) GetByCode(ctx context.Context, code string) (*model.Appointment, error) {
	var appointment model.Appointment
	if err := r.db.GetContext(ctx, &appointment, appointmentSelect+` WHERE ap.code = $1`, code); err != nil {
		return nil, notFound(err, "appointment", "get appointment by code")
	}
	return &appointment, nil
}

func (r *appointmentRepository) List(ctx context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, int, error) {
	where := []string{"1=1"}
	args := []interface{}{}

	if filter.DoctorID != nil {
		args = append(args, *filter.DoctorID)
		where = append(where, fmt.Sprintf("ap.doctor_id = $%d", len(args)))
	}
	if filter.PatientID != nil {
		args = append(args, *filter.PatientID)
		where = append(where, fmt.Sprintf("ap.patient_id = $%d", len(args)))
	}
	if filter.Status != "" {
		args = append(args, filter.Status)
		where = append(where, fmt.Sprintf("ap.status = $%d", len(args)))
	}
	if filter.Date != nil {
		args = append(args, *filter.Date)
		where = append(where, fmt.Sprintf("ap.date = $%d", len(args)))
	}
	if filter.Search != "" {
		args = append(args, "%"+filter.Search+"%")
		n := len(args)
		where = append(where, fmt.Sprintf("(ap.code ILIKE $%d OR pa.name ILIKE $%d OR da.name ILIKE $%d)", n, n, n))
	}
	cond := strings.Join(where, " AND ")

	var total int
	countQuery := `
		SELECT COUNT(*)
		FROM appointments ap
		JOIN patients p ON p.id = ap.patient_id
		JOIN accounts pa ON pa.id = p.account_id
		JOIN doctors d ON d.id = ap.doctor_id
		JOIN accounts da ON da.id = d.account_id
		WHERE ` + cond
	if err := r.db.GetContext(ctx, &total, countQuery, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to count appointments: %w", err)
	}

	args = append(args, filter.Limit, filter.Offset())
	query := fmt.Sprintf(`%s
		WHERE %s
		ORDER BY ap.date DESC, ap.time ASC
		LIMIT $%d OFFSET $%d`, appointmentSelect, cond, len(args)-1, len(args))

	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, args...); err != nil {
		return nil, 0, fmt.Errorf("failed to list appointments: %w", err)
	}
	return appointments, total, nil
}

func (r *appointmentRepository) ListRecentByPatient(ctx context.Context, patientID int64, limit int) ([]*model.Appointment, error) {
	query := appointmentSelect + `
		WHERE ap.patient_id = $1
		ORDER BY ap.date DESC, ap.time ASC
		LIMIT $2`
	appointments := []*model.Appointment{}
	if err := r.db.SelectContext(ctx, &appointments, query, patientID, limit); err != nil {
		return nil, fmt.Errorf("failed to list recent appointments: %w", err)
	}
	return appointments, nil
}

func (r *appointmentRepository) BookedSlots(ctx context.Context, doctorID int64, date time.Time) ([]model.BookedSlot, error) {
	query := `
		SELECT time, status
		FROM appointments
		WHERE doctor_id = $1 AND date = $2 AND status <> $3
		ORDER BY time ASC`
	slots := []model.BookedSlot{}
	err := r.db.SelectContext(ctx, &slots, query, doctorID, date, model.AppointmentStatusCancelled)
	if err != nil {
		return nil, fmt.Errorf("failed to list booked slots: %w", err)
	}
	return slots, nil
}

func (r *appointmentRepository) Update(ctx context.Context, appointment *model.Appointment) error {
	query := `
		UPDATE appointments
		SET date = $1, time = $2, status = $3, type = $4, reason = $5, updated_at = $6
		WHERE id = $7`
	appointment.UpdatedAt = time.Now()

	res, err := r.db.ExecContext(ctx, query,
		appointment.Date,
		appointment.Time,
		appointment.Status,
		appointment.Type,
		appointment.Reason,
		appointment.UpdatedAt,
		appointment.ID,
	)
	if err != nil {
		return fmt.Errorf("failed to update appointment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("appointment")
	}
	return nil
}

func (r *appointmentRepository) Delete(ctx context.Context, id int64) error {
	res, err := r.db.ExecContext(ctx, `DELETE FROM appointments WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("failed to delete appointment: %w", err)
	}
	if n, _ := res.RowsAffected(); n == 0 {
		return apperror.NotFound("appointment")
	}
	return nil
}
