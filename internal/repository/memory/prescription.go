package memory

import (
	"context"
	"time"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type prescriptionRepository struct {
	store *Store
}

func NewPrescriptionRepository(store *Store) repository.PrescriptionRepository {
	return &prescriptionRepository{store: store}
}

func (s *Store) joinPrescriptionLocked(p *model.Prescription) *model.Prescription {
	cp := *p
	if patient, ok := s.patients[p.PatientID]; ok {
		cp.PatientCode = patient.Code
		if account, ok := s.accounts[patient.AccountID]; ok {
			cp.PatientName = account.Name
		}
	}
	if doctor, ok := s.doctors[p.DoctorID]; ok {
		cp.DoctorCode = doctor.Code
		if account, ok := s.accounts[doctor.AccountID]; ok {
			cp.DoctorName = account.Name
		}
	}
	return &cp
}

func (r *prescriptionRepository) Create(_ context.Context, prescription *model.Prescription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	prescription.ID = r.store.nextIDLocked()
	now := time.Now()
	prescription.CreatedAt = now
	prescription.UpdatedAt = now
	cp := *prescription
	r.store.prescriptions[prescription.ID] = &cp
	return nil
}

func (r *prescriptionRepository) GetByID(_ context.Context, id int64) (*model.Prescription, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	prescription, ok := r.store.prescriptions[id]
	if !ok {
		return nil, apperror.NotFound("prescription")
	}
	return r.store.joinPrescriptionLocked(prescription), nil
}

func (r *prescriptionRepository) GetByCode(_ context.Context, code string) (*model.Prescription, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, prescription := range r.store.prescriptions {
		if prescription.Code == code {
			return r.store.joinPrescriptionLocked(prescription), nil
		}
	}
	return nil, apperror.NotFound("prescription")
}

func (r *prescriptionRepository) List(_ context.Context, filter *model.PrescriptionFilter) ([]*model.Prescription, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := []*model.Prescription{}
	for _, prescription := range r.store.prescriptions {
		if filter.DoctorID != nil && prescription.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.PatientID != nil && prescription.PatientID != *filter.PatientID {
			continue
		}
		if filter.Status != "" && string(prescription.Status) != filter.Status {
			continue
		}
		joined := r.store.joinPrescriptionLocked(prescription)
		if !matches(filter.Search, joined.Code, joined.Medications, joined.PatientName) {
			continue
		}
		matched = append(matched, joined)
	}

	page, total := paginate(matched, filter.ListOptions, func(a, b *model.Prescription) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	return page, total, nil
}

func (r *prescriptionRepository) Update(_ context.Context, prescription *model.Prescription) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.prescriptions[prescription.ID]
	if !ok {
		return apperror.NotFound("prescription")
	}
	prescription.CreatedAt = stored.CreatedAt
	prescription.UpdatedAt = time.Now()
	cp := *prescription
	r.store.prescriptions[prescription.ID] = &cp
	return nil
}

func (r *prescriptionRepository) Delete(_ context.Context, id int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.prescriptions[id]; !ok {
		return apperror.NotFound("prescription")
	}
	delete(r.store.prescriptions, id)
	return nil
}
