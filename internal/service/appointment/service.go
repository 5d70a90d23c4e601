// Package appointment implements the scheduling workflow: booking against a
// patient and doctor, listing with row scoping, and the per-doctor schedule.
package appointment

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

const dateLayout = "2006-01-02"

type Service struct {
	appointments repository.AppointmentRepository
	patients     repository.PatientRepository
	doctors      repository.DoctorRepository
	allocator    *sequence.Allocator
	authorizer   *authz.Authorizer
}

func NewService(appointments repository.AppointmentRepository, patients repository.PatientRepository,
	doctors repository.DoctorRepository, allocator *sequence.Allocator,
	authorizer *authz.Authorizer) *Service {
	return &Service{
		appointments: appointments,
		patients:     patients,
		doctors:      doctors,
		allocator:    allocator,
		authorizer:   authorizer,
	}
}

// List returns the appointments visible to the caller. Doctors see their own,
// patients see theirs, staff roles see all.
func (s *Service) List(ctx context.Context, caller model.Caller, filter *model.AppointmentFilter) ([]*model.Appointment, model.Pagination, error) {
	filter.Normalize()

	scope, err := s.authorizer.Scope(ctx, caller, authz.ResourceAppointment)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	switch scope.Kind {
	case authz.ScopeNone:
		return []*model.Appointment{}, model.NewPagination(filter.Page, filter.Limit, 0), nil
	case authz.ScopeDoctorOwned:
		filter.DoctorID = &scope.ProfileID
	case authz.ScopePatientOwned:
		filter.PatientID = &scope.ProfileID
	}

	appointments, total, err := s.appointments.List(ctx, filter)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return appointments, model.NewPagination(filter.Page, filter.Limit, total), nil
}

// Get fetches one appointment by id or code, after an ownership check.
func (s *Service) Get(ctx context.Context, caller model.Caller, identifier string) (*model.Appointment, error) {
	appointment, err := service.Resolve(ctx, identifier, s.appointments.GetByID, s.appointments.GetByCode)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, caller, appointment); err != nil {
		return nil, err
	}
	return appointment, nil
}

// Create books an appointment. Patient and doctor are given by internal id or
// human-readable code. Booking marks the patient's last visit.
func (s *Service) Create(ctx context.Context, req *model.CreateAppointmentRequest) (*model.Appointment, error) {
	patient, err := service.Resolve(ctx, req.PatientID, s.patients.GetByID, s.patients.GetByCode)
	if err != nil {
		return nil, err
	}
	doctor, err := service.Resolve(ctx, req.DoctorID, s.doctors.GetByID, s.doctors.GetByCode)
	if err != nil {
		return nil, err
	}

	date, err := time.Parse(dateLayout, req.Date)
	if err != nil {
		return nil, apperror.Validation("invalid date, expected YYYY-MM-DD")
	}

	code, err := s.allocator.Next(ctx, sequence.PrefixAppointment)
	if err != nil {
		return nil, err
	}

	appointmentType := model.AppointmentTypeOffline
	if req.Type != "" {
		appointmentType = model.AppointmentType(req.Type)
	}
	appointment := &model.Appointment{
		Code:      code,
		PatientID: patient.ID,
		DoctorID:  doctor.ID,
		Date:      date,
		Time:      req.Time,
		Status:    model.AppointmentStatusScheduled,
		Type:      appointmentType,
		Reason:    req.Reason,
	}
	if err := s.appointments.Create(ctx, appointment); err != nil {
		return nil, err
	}
	if err := s.patients.TouchLastVisit(ctx, patient.ID, date); err != nil {
		return nil, err
	}

	return s.appointments.GetByID(ctx, appointment.ID)
}

// Update applies a partial update. Doctors may only touch their own
// appointments; the record's existence is confirmed before ownership.
func (s *Service) Update(ctx context.Context, caller model.Caller, identifier string, req *model.UpdateAppointmentRequest) (*model.Appointment, error) {
	appointment, err := service.Resolve(ctx, identifier, s.appointments.GetByID, s.appointments.GetByCode)
	if err != nil {
		return nil, err
	}
	if err := s.checkOwner(ctx, caller, appointment); err != nil {
		return nil, err
	}

	if req.Date != nil {
		date, err := time.Parse(dateLayout, *req.Date)
		if err != nil {
			return nil, apperror.Validation("invalid date, expected YYYY-MM-DD")
		}
		appointment.Date = date
	}
	if req.Time != nil {
		appointment.Time = *req.Time
	}
	if req.Status != nil {
		appointment.Status = model.AppointmentStatus(*req.Status)
	}
	if req.Type != nil {
		appointment.Type = model.AppointmentType(*req.Type)
	}
	if req.Reason != nil {
		appointment.Reason = *req.Reason
	}

	if err := s.appointments.Update(ctx, appointment); err != nil {
		return nil, err
	}
	return s.appointments.GetByID(ctx, appointment.ID)
}

// Delete removes an appointment by id or code.
func (s *Service) Delete(ctx context.Context, identifier string) error {
	appointment, err := service.Resolve(ctx, identifier, s.appointments.GetByID, s.appointments.GetByCode)
	if err != nil {
		return err
	}
	return s.appointments.Delete(ctx, appointment.ID)
}

// Schedule returns a doctor's booked slots on one date, for the booking UI.
func (s *Service) Schedule(ctx context.Context, doctorIdentifier, dateStr string) (*model.DoctorSchedule, error) {
	doctor, err := service.Resolve(ctx, doctorIdentifier, s.doctors.GetByID, s.doctors.GetByCode)
	if err != nil {
		return nil, err
	}
	date, err := time.Parse(dateLayout, dateStr)
	if err != nil {
		return nil, apperror.Validation("invalid date, expected YYYY-MM-DD")
	}

	slots, err := s.appointments.BookedSlots(ctx, doctor.ID, date)
	if err != nil {
		return nil, err
	}
	return &model.DoctorSchedule{
		Doctor:       doctor.Name,
		DoctorCode:   doctor.Code,
		Department:   doctor.Department,
		Availability: doctor.Availability,
		BookedSlots:  slots,
	}, nil
}

func (s *Service) checkOwner(ctx context.Context, caller model.Caller, appointment *model.Appointment) error {
	scope, err := s.authorizer.Scope(ctx, caller, authz.ResourceAppointment)
	if err != nil {
		return err
	}
	if !scope.AllowsOwner(appointment.DoctorID, appointment.PatientID) {
		return apperror.Forbidden("you do not have access to this appointment", apperror.ReasonNotOwner)
	}
	return nil
}
