package memory

import (
	"context"
	"strings"
	"time"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type patientRepository struct {
	store *Store
}

func NewPatientRepository(store *Store) repository.PatientRepository {
	return &patientRepository{store: store}
}

func (s *Store) joinPatientLocked(p *model.Patient) *model.Patient {
	cp := *p
	if account, ok := s.accounts[p.AccountID]; ok {
		cp.Name = account.Name
		cp.IsActive = account.IsActive
	}
	if p.AssignedDoctorID != nil {
		if doctor, ok := s.doctors[*p.AssignedDoctorID]; ok {
			if account, ok := s.accounts[doctor.AccountID]; ok {
				name := account.Name
				cp.AssignedDoctorName = &name
			}
		}
	}
	return &cp
}

func (r *patientRepository) Create(_ context.Context, account *model.Account, patient *model.Patient) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.insertAccountLocked(account); err != nil {
		return err
	}
	patient.ID = r.store.nextIDLocked()
	patient.AccountID = account.ID
	patient.Email = strings.ToLower(patient.Email)
	now := time.Now()
	patient.CreatedAt = now
	patient.UpdatedAt = now
	cp := *patient
	r.store.patients[patient.ID] = &cp
	return nil
}

func (r *patientRepository) GetByID(_ context.Context, id int64) (*model.Patient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	patient, ok := r.store.patients[id]
	if !ok {
		return nil, apperror.NotFound("patient")
	}
	return r.store.joinPatientLocked(patient), nil
}

func (r *patientRepository) GetByCode(_ context.Context, code string) (*model.Patient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, patient := range r.store.patients {
		if patient.Code == code {
			return r.store.joinPatientLocked(patient), nil
		}
	}
	return nil, apperror.NotFound("patient")
}

func (r *patientRepository) GetByAccount(_ context.Context, accountID int64) (*model.Patient, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, patient := range r.store.patients {
		if patient.AccountID == accountID {
			return r.store.joinPatientLocked(patient), nil
		}
	}
	return nil, apperror.NotFound("patient")
}

func (r *patientRepository) IDByAccount(_ context.Context, accountID int64) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, patient := range r.store.patients {
		if patient.AccountID == accountID {
			return patient.ID, nil
		}
	}
	return 0, apperror.NotFound("patient")
}

func (r *patientRepository) List(_ context.Context, filter *model.PatientFilter) ([]*model.Patient, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := []*model.Patient{}
	for _, patient := range r.store.patients {
		if filter.AssignedDoctorID != nil {
			if patient.AssignedDoctorID == nil || *patient.AssignedDoctorID != *filter.AssignedDoctorID {
				continue
			}
		}
		if filter.SelfID != nil && patient.ID != *filter.SelfID {
			continue
		}
		joined := r.store.joinPatientLocked(patient)
		if !matches(filter.Search, joined.Code, joined.Name, joined.Phone) {
			continue
		}
		matched = append(matched, joined)
	}

	page, total := paginate(matched, filter.ListOptions, func(a, b *model.Patient) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	return page, total, nil
}

func (r *patientRepository) Update(_ context.Context, account *model.Account, patient *model.Patient) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if account != nil {
		if err := r.store.updateAccountLocked(account); err != nil {
			return err
		}
	}
	stored, ok := r.store.patients[patient.ID]
	if !ok {
		return apperror.NotFound("patient")
	}
	patient.CreatedAt = stored.CreatedAt
	patient.UpdatedAt = time.Now()
	cp := *patient
	r.store.patients[patient.ID] = &cp
	return nil
}

func (r *patientRepository) Delete(_ context.Context, accountID int64) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if _, ok := r.store.accounts[accountID]; !ok {
		return apperror.NotFound("patient")
	}
	r.store.deleteAccountLocked(accountID)
	return nil
}

func (r *patientRepository) TouchLastVisit(_ context.Context, patientID int64, visitedAt time.Time) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	patient, ok := r.store.patients[patientID]
	if !ok {
		return apperror.NotFound("patient")
	}
	patient.LastVisit = &visitedAt
	patient.UpdatedAt = time.Now()
	return nil
}
