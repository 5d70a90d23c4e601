package memory

import (
	"context"
	"time"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type appointmentRepository struct {
	store *Store
}

func NewAppointmentRepository(store *Store) repository.AppointmentRepository {
	return &appointmentRepository{store: store}
}

func (s *Store) joinAppointmentLocked(a *model.Appointment) *model.Appointment {
	cp := *a
	if patient, ok := s.patients[a.PatientID]; ok {
		cp.PatientCode = patient.Code
		cp.PatientPhone = patient.Phone
		if account, ok := s.accounts[patient.AccountID]; ok {
			cp.PatientName = account.Name
		}
	}
	if doctor, ok := s.doctors[a.DoctorID]; ok {
		cp.DoctorCode = doctor.Code
		cp.Department = doctor.Department
		if account, ok := s.accounts[doctor.AccountID]; ok {
			cp.DoctorName = account.Name
		}
	}
	return &cp
}

// appointmentBefore orders date descending, then time ascending.
func appointmentBefore(a, b *model.Appointment) bool {
	if !a.Date.Equal(b.Date) {
		return a.Date.After(b.Date)
	}
	return a.Time < b.Time
}

func (r *appointmentRepository) Create(_ context.Context, appointment *model.Appointment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	appointment.ID = r.store.nextIDLocked()
	now := time.Now()
	appointment.CreatedAt = now
	appointment.UpdatedAt = now
	cp := *appointment
	r.store.appointments[appointment.ID] = &cp
	return nil
}

func (r *appointmentRepository) GetByID(_ context.Context, id int64) (*model.Appointment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	appointment, ok := r.store.appointments[id]
	if !ok {
		return nil, apperror.NotFound("appointment")
	}
	return r.store.joinAppointmentLocked(appointment), nil
}

func (r *appointmentRepository) GetByCode(_ context.Context, code string) (*model.Appointment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, appointment := range r.store.appointments {
		if appointment.Code == code {
			return r.store.joinAppointmentLocked(appointment), nil
		}
	}
	return nil, apperror.NotFound("appointment")
}

func (r *appointmentRepository) List(_ context.Context, filter *model.AppointmentFilter) ([]*model.Appointment, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := []*model.Appointment{}
	for _, appointment := range r.store.appointments {
		if filter.DoctorID != nil && appointment.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.PatientID != nil && appointment.PatientID != *filter.PatientID {
			continue
		}
		if filter.Status != "" && string(appointment.Status) != filter.Status {
			continue
		}
		if filter.Date != nil && !sameDay(appointment.Date, *filter.Date) {
			continue
		}
		joined := r.store.joinAppointmentLocked(appointment)
		if !matches(filter.Search, joined.Code, joined.PatientName, joined.DoctorName) {
			continue
		}
		matched = append(matched, joined)
	}

	page, total := paginate(matched, filter.ListOptions, appointmentBefore)
	return page, total, nil
}

func (r *appointmentRepository) ListRecentByPatient(_ context.Context, patientID int64, limit int) ([]*model.Appointment, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := []*model.Appointment{}
	for _, appointment := range r.store.appointments {
		if appointment.PatientID == patientID {
			matched = append(matched, r.store.joinAppointmentLocked(appointment))
		}
	}
	page, _ := paginate(matched, model.ListOptions{Page: 1, Limit: limit}, appointmentBefore)
	return page, nil
}

func (r *appointmentRepository) BookedSlots(_ context.Context, doctorID int64, date time.Time) ([]model.BookedSlot, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	slots := []model.BookedSlot{}
	for _, appointment := range r.store.appointments {
		if appointment.DoctorID != doctorID || !sameDay(appointment.Date, date) {
			continue
		}
		if appointment.Status == model.AppointmentStatusCancelled {
			continue
		}
		slots = append(slots, model.BookedSlot{Time: appointment.Time, Status: string(appointment.Status)})
	}
	page, _ := paginate(slots, model.ListOptions{Page: 1, Limit: len(slots) + 1}, func(a, b model.BookedSlot) bool {
		return a.Time < b.Time
	})
	return page, nil
}

func (r *appointmentRepository) Update(_ context.Context, appointment *model.Appointment) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.appointments[appointment.ID]
	if !ok {
		return apperror.NotFound("appointment")
	}
	appointment.CreatedAt = stored.CreatedAt
	appointment.UpdatedAt = time.Now()
	cp := *appointment
	r.store.appointments[appointment.ID] = &cp
	return nil
}

func (r *appointmentRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.appointments[id]; !ok {
		return apperror.NotFound("appointment")
	}
	delete(r.store.appointments, id)
	return nil
}

func sameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}
