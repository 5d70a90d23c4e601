package memory

import (
	"context"
	"time"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type doctorRepository struct {
	store *Store
}

func NewDoctorRepository(store *Store) repository.DoctorRepository {
	return &doctorRepository{store: store}
}

func (s *Store) joinDoctorLocked(d *model.Doctor) *model.Doctor {
	cp := *d
	if account, ok := s.accounts[d.AccountID]; ok {
		cp.Name = account.Name
		cp.Email = account.Email
		cp.IsActive = account.IsActive
	}
	return &cp
}

func (r *doctorRepository) Create(_ context.Context, account *model.Account, doctor *model.Doctor) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if err := r.store.insertAccountLocked(account); err != nil {
		return err
	}
	doctor.ID = r.store.nextIDLocked()
	doctor.AccountID = account.ID
	now := time.Now()
	doctor.CreatedAt = now
	doctor.UpdatedAt = now
	cp := *doctor
	r.store.doctors[doctor.ID] = &cp
	return nil
}

func (r *doctorRepository) GetByID(_ context.Context, id int64) (*model.Doctor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	doctor, ok := r.store.doctors[id]
	if !ok {
		return nil, apperror.NotFound("doctor")
	}
	return r.store.joinDoctorLocked(doctor), nil
}

func (r *doctorRepository) GetByCode(_ context.Context, code string) (*model.Doctor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, doctor := range r.store.doctors {
		if doctor.Code == code {
			return r.store.joinDoctorLocked(doctor), nil
		}
	}
	return nil, apperror.NotFound("doctor")
}

func (r *doctorRepository) GetByAccount(_ context.Context, accountID int64) (*model.Doctor, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, doctor := range r.store.doctors {
		if doctor.AccountID == accountID {
			return r.store.joinDoctorLocked(doctor), nil
		}
	}
	return nil, apperror.NotFound("doctor")
}

func (r *doctorRepository) IDByAccount(_ context.Context, accountID int64) (int64, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, doctor := range r.store.doctors {
		if doctor.AccountID == accountID {
			return doctor.ID, nil
		}
	}
	return 0, apperror.NotFound("doctor")
}

func (r *doctorRepository) Update(_ context.Context, account *model.Account, doctor *model.Doctor) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	if account != nil {
		if err := r.store.updateAccountLocked(account); err != nil {
			return err
		}
	}
	stored, ok := r.store.doctors[doctor.ID]
	if !ok {
		return apperror.NotFound("doctor")
	}
	doctor.CreatedAt = stored.CreatedAt
	doctor.UpdatedAt = time.Now()
	cp := *doctor
	r.store.doctors[doctor.ID] = &cp
	return nil
}
