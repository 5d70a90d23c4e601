// Package lab implements lab result records. Only doctors author them; the
// acting doctor is resolved from the caller's account, and updates are
// limited to the ordering doctor.
package lab

import (
	"context"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/internal/sequence"
	"github.com/medicore/clinic-api/internal/service"
	"github.com/medicore/clinic-api/pkg/apperror"
)

type Service struct {
	results    repository.LabResultRepository
	patients   repository.PatientRepository
	allocator  *sequence.Allocator
	authorizer *authz.Authorizer
}

func NewService(results repository.LabResultRepository, patients repository.PatientRepository,
	allocator *sequence.Allocator, authorizer *authz.Authorizer) *Service {
	return &Service{
		results:    results,
		patients:   patients,
		allocator:  allocator,
		authorizer: authorizer,
	}
}

func (s *Service) List(ctx context.Context, caller model.Caller, filter *model.LabResultFilter) ([]*model.LabResult, model.Pagination, error) {
	filter.Normalize()

	scope, err := s.authorizer.Scope(ctx, caller, authz.ResourceLabResult)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	switch scope.Kind {
	case authz.ScopeNone:
		return []*model.LabResult{}, model.NewPagination(filter.Page, filter.Limit, 0), nil
	case authz.ScopeDoctorOwned:
		filter.DoctorID = &scope.ProfileID
	case authz.ScopePatientOwned:
		filter.PatientID = &scope.ProfileID
	}

	results, total, err := s.results.List(ctx, filter)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return results, model.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *Service) Get(ctx context.Context, caller model.Caller, identifier string) (*model.LabResult, error) {
	result, err := service.Resolve(ctx, identifier, s.results.GetByID, s.results.GetByCode)
	if err != nil {
		return nil, err
	}

	scope, err := s.authorizer.Scope(ctx, caller, authz.ResourceLabResult)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsOwner(result.DoctorID, result.PatientID) {
		return nil, apperror.Forbidden("you do not have access to this lab result", apperror.ReasonNotOwner)
	}
	return result, nil
}

// Create records a lab test ordered by the calling doctor. An account with
// the doctor role but no profile row cannot author records.
func (s *Service) Create(ctx context.Context, caller model.Caller, req *model.CreateLabResultRequest) (*model.LabResult, error) {
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

	code, err := s.allocator.Next(ctx, sequence.PrefixLabResult)
	if err != nil {
		return nil, err
	}

	status := model.LabStatusPending
	if req.Status != "" {
		status = model.LabStatus(req.Status)
	}
	result := &model.LabResult{
		Code:       code,
		PatientID:  patient.ID,
		DoctorID:   doctorID,
		TestName:   req.TestName,
		Findings:   req.Findings,
		Results:    req.Results,
		Technician: req.Technician,
		Status:     status,
	}
	if err := s.results.Create(ctx, result); err != nil {
		return nil, err
	}
	return s.results.GetByID(ctx, result.ID)
}

// Update applies a partial update, allowed only to the ordering doctor.
func (s *Service) Update(ctx context.Context, caller model.Caller, identifier string, req *model.UpdateLabResultRequest) (*model.LabResult, error) {
	result, err := service.Resolve(ctx, identifier, s.results.GetByID, s.results.GetByCode)
	if err != nil {
		return nil, err
	}

	doctorID, ok, err := s.authorizer.DoctorID(ctx, caller.AccountID)
	if err != nil {
		return nil, err
	}
	if !ok || result.DoctorID != doctorID {
		return nil, apperror.Forbidden("only the ordering doctor may update this lab result", apperror.ReasonNotOwner)
	}

	if req.TestName != nil {
		result.TestName = *req.TestName
	}
	if req.Findings != nil {
		result.Findings = *req.Findings
	}
	if req.Results != nil {
		result.Results = *req.Results
	}
	if req.Technician != nil {
		result.Technician = *req.Technician
	}
	if req.Status != nil {
		result.Status = model.LabStatus(*req.Status)
	}

	if err := s.results.Update(ctx, result); err != nil {
		return nil, err
	}
	return s.results.GetByID(ctx, result.ID)
}
