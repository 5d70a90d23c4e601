// Package prescription implements the central prescription bank. Writes are
// restricted to the administrator role by the route gates; doctors and
// patients read their own slices.
package prescription

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
	prescriptions repository.PrescriptionRepository
	patients      repository.PatientRepository
	doctors       repository.DoctorRepository
	allocator     *sequence.Allocator
	authorizer    *authz.Authorizer
}

func NewService(prescriptions repository.PrescriptionRepository, patients repository.PatientRepository,
	doctors repository.DoctorRepository, allocator *sequence.Allocator,
	authorizer *authz.Authorizer) *Service {
	return &Service{
		prescriptions: prescriptions,
		patients:      patients,
		doctors:       doctors,
		allocator:     allocator,
		authorizer:    authorizer,
	}
}

func (s *Service) List(ctx context.Context, caller model.Caller, filter *model.PrescriptionFilter) ([]*model.Prescription, model.Pagination, error) {
	filter.Normalize()

	scope, err := s.authorizer.Scope(ctx, caller, authz.ResourcePrescription)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	switch scope.Kind {
	case authz.ScopeNone:
		return []*model.Prescription{}, model.NewPagination(filter.Page, filter.Limit, 0), nil
	case authz.ScopeDoctorOwned:
		filter.DoctorID = &scope.ProfileID
	case authz.ScopePatientOwned:
		filter.PatientID = &scope.ProfileID
	}

	prescriptions, total, err := s.prescriptions.List(ctx, filter)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return prescriptions, model.NewPagination(filter.Page, filter.Limit, total), nil
}

func (s *Service) Get(ctx context.Context, caller model.Caller, identifier string) (*model.Prescription, error) {
	prescription, err := service.Resolve(ctx, identifier, s.prescriptions.GetByID, s.prescriptions.GetByCode)
	if err != nil {
		return nil, err
	}

	scope, err := s.authorizer.Scope(ctx, caller, authz.ResourcePrescription)
	if err != nil {
		return nil, err
	}
	if !scope.AllowsOwner(prescription.DoctorID, prescription.PatientID) {
		return nil, apperror.Forbidden("you do not have access to this prescription", apperror.ReasonNotOwner)
	}
	return prescription, nil
}

// Create records a prescription against a patient and prescribing doctor,
// both given by internal id or code. New prescriptions start Active.
func (s *Service) Create(ctx context.Context, req *model.CreatePrescriptionRequest) (*model.Prescription, error) {
	patient, err := service.Resolve(ctx, req.PatientID, s.patients.GetByID, s.patients.GetByCode)
	if err != nil {
		return nil, err
	}
	doctor, err := service.Resolve(ctx, req.DoctorID, s.doctors.GetByID, s.doctors.GetByCode)
	if err != nil {
		return nil, err
	}

	code, err := s.allocator.Next(ctx, sequence.PrefixPrescription)
	if err != nil {
		return nil, err
	}

	prescription := &model.Prescription{
		Code:         code,
		PatientID:    patient.ID,
		DoctorID:     doctor.ID,
		Medications:  req.Medications,
		Dosage:       req.Dosage,
		Duration:     req.Duration,
		Instructions: req.Instructions,
		Status:       model.PrescriptionStatusActive,
	}
	if err := s.prescriptions.Create(ctx, prescription); err != nil {
		return nil, err
	}
	return s.prescriptions.GetByID(ctx, prescription.ID)
}

func (s *Service) Update(ctx context.Context, identifier string, req *model.UpdatePrescriptionRequest) (*model.Prescription, error) {
	prescription, err := service.Resolve(ctx, identifier, s.prescriptions.GetByID, s.prescriptions.GetByCode)
	if err != nil {
		return nil, err
	}

	if req.Medications != nil {
		prescription.Medications = *req.Medications
	}
	if req.Dosage != nil {
		prescription.Dosage = *req.Dosage
	}
	if req.Duration != nil {
		prescription.Duration = *req.Duration
	}
	if req.Instructions != nil {
		prescription.Instructions = *req.Instructions
	}
	if req.Status != nil {
		prescription.Status = model.PrescriptionStatus(*req.Status)
	}

	if err := s.prescriptions.Update(ctx, prescription); err != nil {
		return nil, err
	}
	return s.prescriptions.GetByID(ctx, prescription.ID)
}

func (s *Service) Delete(ctx context.Context, identifier string) error {
	prescription, err := service.Resolve(ctx, identifier, s.prescriptions.GetByID, s.prescriptions.GetByCode)
	if err != nil {
		return err
	}
	return s.prescriptions.Delete(ctx, prescription.ID)
}
