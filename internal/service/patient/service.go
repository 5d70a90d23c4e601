// Package patient implements the patient directory: registration, lookups,
// partial updates and removal, with row scoping for own-only roles.
package patient

import (
	"context"
	"fmt"
	"strings"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/internal/sequence"
	"github.com/medicore/clinic-api/internal/service"
	"github.com/medicore/clinic-api/pkg/apperror"
	"github.com/medicore/clinic-api/pkg/security"
)

const recentAppointments = 5

type Service struct {
	accounts     repository.AccountRepository
	patients     repository.PatientRepository
	doctors      repository.DoctorRepository
	appointments repository.AppointmentRepository
	allocator    *sequence.Allocator
	hasher       security.PasswordHasher
	authorizer   *authz.Authorizer
}

func NewService(accounts repository.AccountRepository, patients repository.PatientRepository,
	doctors repository.DoctorRepository, appointments repository.AppointmentRepository,
	allocator *sequence.Allocator, hasher security.PasswordHasher,
	authorizer *authz.Authorizer) *Service {
	return &Service{
		accounts:     accounts,
		patients:     patients,
		doctors:      doctors,
		appointments: appointments,
		allocator:    allocator,
		hasher:       hasher,
		authorizer:   authorizer,
	}
}

// List returns the patients visible to the caller. Doctors see their assigned
// patients, patients see themselves, staff roles see everyone.
func (s *Service) List(ctx context.Context, caller model.Caller, filter *model.PatientFilter) ([]*model.Patient, model.Pagination, error) {
	filter.Normalize()

	scope, err := s.authorizer.Scope(ctx, caller, authz.ResourcePatient)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	switch scope.Kind {
	case authz.ScopeNone:
		return []*model.Patient{}, model.NewPagination(filter.Page, filter.Limit, 0), nil
	case authz.ScopeDoctorAssigned:
		filter.AssignedDoctorID = &scope.ProfileID
	case authz.ScopePatientSelf:
		filter.SelfID = &scope.ProfileID
	}

	patients, total, err := s.patients.List(ctx, filter)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return patients, model.NewPagination(filter.Page, filter.Limit, total), nil
}

// Get fetches one patient by id or code, with their recent appointments.
// Absence is reported before ownership, so callers cannot probe ids.
func (s *Service) Get(ctx context.Context, caller model.Caller, identifier string) (*model.PatientDetail, error) {
	patient, err := service.Resolve(ctx, identifier, s.patients.GetByID, s.patients.GetByCode)
	if err != nil {
		return nil, err
	}

	scope, err := s.authorizer.Scope(ctx, caller, authz.ResourcePatient)
	if err != nil {
		return nil, err
	}
	var assignedDoctorID int64
	if patient.AssignedDoctorID != nil {
		assignedDoctorID = *patient.AssignedDoctorID
	}
	if !scope.AllowsOwner(assignedDoctorID, patient.ID) {
		return nil, apperror.Forbidden("you do not have access to this patient", apperror.ReasonNotOwner)
	}

	recent, err := s.appointments.ListRecentByPatient(ctx, patient.ID, recentAppointments)
	if err != nil {
		return nil, err
	}
	return &model.PatientDetail{Patient: *patient, RecentAppointments: recent}, nil
}

// Create registers a patient: an account and a profile row in one
// transaction, with a freshly allocated patient code.
func (s *Service) Create(ctx context.Context, req *model.CreatePatientRequest) (*model.Patient, error) {
	email := strings.ToLower(req.Email)
	exists, err := s.accounts.EmailExists(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("email already registered")
	}

	if req.AssignedDoctorID != nil {
		if _, err := s.doctors.GetByID(ctx, *req.AssignedDoctorID); err != nil {
			if apperror.IsKind(err, apperror.KindNotFound) {
				return nil, apperror.Validation("assigned doctor does not exist")
			}
			return nil, err
		}
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	code, err := s.allocator.Next(ctx, sequence.PrefixPatient)
	if err != nil {
		return nil, err
	}

	account := &model.Account{
		Email:        email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         model.RolePatient,
		IsActive:     true,
	}
	patient := &model.Patient{
		Code:             code,
		Email:            email,
		Age:              req.Age,
		Gender:           req.Gender,
		Phone:            req.Phone,
		Address:          req.Address,
		BloodGroup:       req.BloodGroup,
		History:          req.History,
		AssignedDoctorID: req.AssignedDoctorID,
	}
	if err := s.patients.Create(ctx, account, patient); err != nil {
		return nil, err
	}

	return s.patients.GetByID(ctx, patient.ID)
}

// Update applies a partial update. A name change touches the account row in
// the same transaction as the profile.
func (s *Service) Update(ctx context.Context, identifier string, req *model.UpdatePatientRequest) (*model.Patient, error) {
	patient, err := service.Resolve(ctx, identifier, s.patients.GetByID, s.patients.GetByCode)
	if err != nil {
		return nil, err
	}

	if req.AssignedDoctorID != nil {
		if _, err := s.doctors.GetByID(ctx, *req.AssignedDoctorID); err != nil {
			if apperror.IsKind(err, apperror.KindNotFound) {
				return nil, apperror.Validation("assigned doctor does not exist")
			}
			return nil, err
		}
		patient.AssignedDoctorID = req.AssignedDoctorID
	}
	if req.Age != nil {
		patient.Age = *req.Age
	}
	if req.Gender != nil {
		patient.Gender = *req.Gender
	}
	if req.Phone != nil {
		patient.Phone = *req.Phone
	}
	if req.Address != nil {
		patient.Address = *req.Address
	}
	if req.BloodGroup != nil {
		patient.BloodGroup = *req.BloodGroup
	}
	if req.History != nil {
		patient.History = *req.History
	}

	var account *model.Account
	if req.Name != nil {
		account, err = s.accounts.GetByID(ctx, patient.AccountID)
		if err != nil {
			return nil, fmt.Errorf("failed to load patient account: %w", err)
		}
		account.Name = *req.Name
	}

	if err := s.patients.Update(ctx, account, patient); err != nil {
		return nil, err
	}
	return s.patients.GetByID(ctx, patient.ID)
}

// Delete removes the patient's account, which cascades to the profile and
// all clinical records.
func (s *Service) Delete(ctx context.Context, identifier string) error {
	patient, err := service.Resolve(ctx, identifier, s.patients.GetByID, s.patients.GetByCode)
	if err != nil {
		return err
	}
	if err := s.patients.Delete(ctx, patient.AccountID); err != nil {
		return err
	}
	s.authorizer.Invalidate(patient.AccountID)
	return nil
}
