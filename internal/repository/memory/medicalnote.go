package memory

import (
	"context"
	"time"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type medicalNoteRepository struct {
	store *Store
}

func NewMedicalNoteRepository(store *Store) repository.MedicalNoteRepository {
	return &medicalNoteRepository{store: store}
}

func (s *Store) joinMedicalNoteLocked(n *model.MedicalNote) *model.MedicalNote {
	cp := *n
	if patient, ok := s.patients[n.PatientID]; ok {
		cp.PatientCode = patient.Code
		if account, ok := s.accounts[patient.AccountID]; ok {
			cp.PatientName = account.Name
		}
	}
	if doctor, ok := s.doctors[n.DoctorID]; ok {
		if account, ok := s.accounts[doctor.AccountID]; ok {
			cp.AuthorName = account.Name
		}
	}
	return &cp
}

func (r *medicalNoteRepository) Create(_ context.Context, note *model.MedicalNote) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	note.ID = r.store.nextIDLocked()
	now := time.Now()
	note.CreatedAt = now
	note.UpdatedAt = now
	cp := *note
	r.store.notes[note.ID] = &cp
	return nil
}

func (r *medicalNoteRepository) GetByID(_ context.Context, id int64) (*model.MedicalNote, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	note, ok := r.store.notes[id]
	if !ok {
		return nil, apperror.NotFound("medical note")
	}
	return r.store.joinMedicalNoteLocked(note), nil
}

func (r *medicalNoteRepository) GetByCode(_ context.Context, code string) (*model.MedicalNote, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()
	for _, note := range r.store.notes {
		if note.Code == code {
			return r.store.joinMedicalNoteLocked(note), nil
		}
	}
	return nil, apperror.NotFound("medical note")
}

func (r *medicalNoteRepository) List(_ context.Context, filter *model.MedicalNoteFilter) ([]*model.MedicalNote, int, error) {
	r.store.mu.RLock()
	defer r.store.mu.RUnlock()

	matched := []*model.MedicalNote{}
	for _, note := range r.store.notes {
		if filter.DoctorID != nil && note.DoctorID != *filter.DoctorID {
			continue
		}
		if filter.PatientID != nil && note.PatientID != *filter.PatientID {
			continue
		}
		if filter.Type != "" && note.Type != filter.Type {
			continue
		}
		joined := r.store.joinMedicalNoteLocked(note)
		if !matches(filter.Search, joined.Code, joined.Preview, joined.PatientName) {
			continue
		}
		matched = append(matched, joined)
	}

	page, total := paginate(matched, filter.ListOptions, func(a, b *model.MedicalNote) bool {
		return a.CreatedAt.After(b.CreatedAt)
	})
	return page, total, nil
}

func (r *medicalNoteRepository) Update(_ context.Context, note *model.MedicalNote) error {
	r.store.mu.Lock()
	defer r.store.mu.Unlock()
	stored, ok := r.store.notes[note.ID]
	if !ok {
		return apperror.NotFound("medical note")
	}
	note.CreatedAt = stored.CreatedAt
	note.UpdatedAt = time.Now()
	cp := *note
	r.store.notes[note.ID] = &cp
	return nil
}
