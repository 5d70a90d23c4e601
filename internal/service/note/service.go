// Package note implements doctor-authored medical notes. A note carries a
// short preview derived from the detail text when not supplied.
package note

import (
	"context"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/internal/sequence"
	"github.com/medicore/clinic-api/internal/service"
	"github.com/medicore/clinic-api/pkg/apperror"
)

const previewLen = 100

type Service struct {
	notes      repository.MedicalNoteRepository
	patients   repository.PatientRepository
	allocator  *sequence.Allocator
	authorizer *authz.Authorizer
}

func NewService(notes repository.MedicalNoteRepository, patients repository.PatientRepository,
	allocator *sequence.Allocator, authorizer *authz.Authorizer) *Service {
	return &Service{
		notes:      notes,
		patients:   patients,
		allocator:  allocator,
		authorizer: authorizer,
	}
}

func (s *Service) List(ctx context.Context, caller model.Caller, filter *model.MedicalNoteFilter) ([]*model.MedicalNote, model.Pagination, error) {
	filter.Normalize()

	scope, err := s.authorizer.Scope(ctx, caller, authz.ResourceMedicalNote)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	switch scope.Kind {
	case authz.ScopeNone:
		return []*model.MedicalNote{}, model.NewPagination(filter.Page, filter.Limit, 0), nil
	case authz.ScopeDoctorOwned:
		filter.DoctorID = &scope.ProfileID
	case authz.ScopePatientOwned:
		filter.PatientID = &scope.ProfileID
	}

	notes, total, err := s.notes.List(ctx, filter)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return notes, model.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *Service) Get(ctx context.Context, caller model.Caller, identifier string) (*model.MedicalNote, error) {
	note, err := service.Resolve(ctx, identifier, s.notes.GetByID, s.notes.GetByCode)
	if err != nil {
		return nil, err
	}

	scope, err := s.authorizer.Scope(ctx, caller, authz.ResourceMedicalNote)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsOwner(note.DoctorID, note.PatientID) {
		return nil, apperror.Forbidden("you do not have access to this note", apperror.ReasonNotOwner)
	}
	return note, nil
}

// Create writes a note authored by the calling doctor.
func (s *Service) Create(ctx context.Context, caller model.Caller, req *model.CreateMedicalNoteRequest) (*model.MedicalNote, error) {
	doctorID, ok, err := s.authorizer.DoctorID(ctx, caller.AccountID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, apperror.Forbidden("no doctor profile for this account", apperror.ReasonNotOwner)
	}

	patient, err := service.Resolve(ctx, req.PatientID, s.patients.GetByID, s.patients.GetByCode)
	if err != nil {
		return nil, err
	}

	code, err := s.allocator.Next(ctx, sequence.PrefixMedicalNote)
	if err != nil {
		return nil, err
	}

	preview := req.Preview
	if preview == "" {
		preview = makePreview(req.Detail)
	}
	note := &model.MedicalNote{
		Code:      code,
		PatientID: patient.ID,
		DoctorID:  doctorID,
		Type:      req.Type,
		Preview:   preview,
		Detail:    req.Detail,
	}
	if err := s.notes.Create(ctx, note); err != nil {
		return nil, err
	}
	return s.notes.GetByID(ctx, note.ID)
}

// Update applies a partial update, allowed only to the authoring doctor.
// Changing the detail without an explicit preview re-derives the preview.
func (s *Service) Update(ctx context.Context, caller model.Caller, identifier string, req *model.UpdateMedicalNoteRequest) (*model.MedicalNote, error) {
	note, err := service.Resolve(ctx, identifier, s.notes.GetByID, s.notes.GetByCode)
	if err != nil {
		return nil, err
	}

	doctorID, ok, err := s.authorizer.DoctorID(ctx, caller.AccountID)
	if err != nil {
		return nil, err
	}
	if !ok || note.DoctorID != doctorID {
		return nil, apperror.Forbidden("only the authoring doctor may update this note", apperror.ReasonNotOwner)
	}

	if req.Type != nil {
		note.Type = *req.Type
	}
	if req.Detail != nil {
		note.Detail = *req.Detail
		if req.Preview == nil {
			note.Preview = makePreview(*req.Detail)
		}
	}
	if req.Preview != nil {
		note.Preview = *req.Preview
	}

	if err := s.notes.Update(ctx, note); err != nil {
		return nil, err
	}
	return s.notes.GetByID(ctx, note.ID)
}

func makePreview(detail string) string {
	if len(detail) > previewLen {
		return detail[:previewLen] + "..."
	}
	return detail
}
