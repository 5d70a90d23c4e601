package memory

import (
	"context"
	"time"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type labResultRepository struct {
	store *Store
}

func NewLabResultRepository(store *Store) repository.LabResultRepository {
	return &labResultRepository{store: store}
}

func (s *Store) joinLabResultLocked(lr *model.LabResult) *model.LabResult {
	cp := *lr
	if patient, ok := s.patients[lr.PatientID]; ok {
		cp.PatientCode = patient.Code
		if account, ok := s.accounts[patient.AccountID]; ok {
			cp.PatientName = account.Name
		}
	}
	if doctor, ok := s.doctors[lr.DoctorID]; ok {
		if account, ok := s.accounts[doctor.AccountID]; ok {
			cp.DoctorName = account.Name
		}
	}
	return &cp
}

func (r *labResultRepository) Create(_ context.Context, result *model.LabResult) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	result.ID = r.store.nextIDLocked()
	now := time.Now()
	result.CreatedAt = now
	result.UpdatedAt = now
	cp := *result
	r.store.labResults[result.ID] = &cp
	return nil
}

func (r *labResultRepository) GetByID(_ context.Context, id int64) (*model.LabResult, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	result, ok := r.store.labResults[id]
	if !ok {
		return nil, apperror.NotFound("lab result")
	}
	return r.store.joinLabResultLocked(result), nil
}

func (r *labResultRepository) GetByCode(_ context.Context, code string) (*model.LabResult, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, result := range r.store.labResults {
		if result.Code == code {
			return r.store.joinLabResultLocked(result), nil
		}
	}
	return nil, apperror.NotFound("lab result")
}

func (r *labResultRepository) List(_ context.Context, filter *model.LabResultFilter) ([]*model.LabResult, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := []*model.LabResult{}
	for _, result := range r.store.labResults {
		if filter.DoctorID != nil && result.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.PatientID != nil && result.PatientID != *filter.PatientID {
			continue
		}
		if filter.Status != "" && string(result.Status) != filter.Status {
			continue
		}
		joined := r.store.joinLabResultLocked(result)
		if !matches(filter.Search, joined.Code, joined.TestName, joined.PatientName) {
			continue
		}
		matched = append(matched, joined)
	}

	page, total := paginate(matched, filter.ListOptions, func(a, b *model.LabResult) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	return page, total, nil
}

func (r *labResultRepository) Update(_ context.Context, result *model.LabResult) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.labResults[result.ID]
	if !ok {
		return apperror.NotFound("lab result")
	}
	result.CreatedAt = stored.CreatedAt
	result.UpdatedAt = time.Now()
	cp := *result
	r.store.labResults[result.ID] = &cp
	return nil
}
