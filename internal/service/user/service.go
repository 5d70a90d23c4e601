package user

import (
	"context"
	"fmt"
	"strings"

	"github.com/medicore/clinic-api/internal/authz"
	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/internal/repository"
	"github.com/medicore/clinic-api/internal/sequence"
	"github.com/medicore/clinic-api/pkg/apperror"
	"github.com/medicore/clinic-api/pkg/security"
)

// Profile defaults applied when the admin omits fields at account creation.
const (
	defaultDepartment   = "General"
	defaultAvailability = "Mon-Fri"
	defaultShift        = "Day (09-06)"
	defaultGender       = "Not specified"
)

type Service struct {
	accounts   repository.AccountRepository
	doctors    repository.DoctorRepository
	patients   repository.PatientRepository
	staff      repository.StaffRepository
	allocator  *sequence.Allocator
	hasher     security.PasswordHasher
	authorizer *authz.Authorizer
}

func NewService(accounts repository.AccountRepository, doctors repository.DoctorRepository,
	patients repository.PatientRepository, staff repository.StaffRepository,
	allocator *sequence.Allocator, hasher security.PasswordHasher,
	authorizer *authz.Authorizer) *Service {
	return &Service{
		accounts:   accounts,
		doctors:    doctors,
		patients:   patients,
		staff:      staff,
		allocator:  allocator,
		hasher:     hasher,
		authorizer: authorizer,
	}
}

func (s *Service) List(ctx context.Context, filter *model.AccountFilter) ([]*model.Account, model.Pagination, error) {
	filter.Normalize()
	accounts, total, err := s.accounts.List(ctx, filter)
	if err != nil {
		return nil, model.Pagination{}, err
	}
	return accounts, model.NewPagination(filter.Page, filter.Limit, total), nil
}

// Get returns the account with its owned profile block, if any.
func (s *Service) Get(ctx context.Context, id int64) (*model.AccountDetail, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	return s.detail(ctx, account)
}

// Me is Get for the authenticated caller.
func (s *Service) Me(ctx context.Context, caller model.Caller) (*model.AccountDetail, error) {
	return s.Get(ctx, caller.AccountID)
}

func (s *Service) detail(ctx context.Context, account *model.Account) (*model.AccountDetail, error) {
	detail := &model.AccountDetail{Account: *account}
	var err error
	switch account.Role {
	case model.RoleDoctor:
		detail.Doctor, err = s.doctors.GetByAccount(ctx, account.ID)
	case model.RolePatient:
		detail.Patient, err = s.patients.GetByAccount(ctx, account.ID)
	case model.RoleReceptionist, model.RoleBillingStaff:
		detail.Staff, err = s.staff.GetByAccount(ctx, account.ID)
	}
	if err != nil && !apperror.IsKind(err, apperror.KindNotFound) {
		return nil, err
	}
	return detail, nil
}

// Create makes an account plus its role profile in one transaction.
// super_admin accounts are seeded out of band and cannot be created here.
func (s *Service) Create(ctx context.Context, req *model.CreateAccountRequest) (*model.AccountDetail, error) {
	role := req.Role
	valid := false
	for _, r := range model.CreatableRoles {
		if r == role {
			valid = true
			break
		}
	}
	if !valid {
		return nil, apperror.Validation(fmt.Sprintf("invalid role: %s", role))
	}

	email := strings.ToLower(req.Email)
	exists, err := s.accounts.EmailExists(ctx, email, 0)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, apperror.Conflict("email already registered")
	}

	hash, err := s.hasher.Hash(req.Password)
	if err != nil {
		return nil, apperror.Validation(err.Error())
	}

	account := &model.Account{
		Email:        email,
		PasswordHash: hash,
		Name:         req.Name,
		Role:         role,
		IsActive:     true,
	}
	p := req.ProfileData
	if p == nil {
		p = &model.ProfileData{}
	}

	switch role {
	case model.RoleDoctor:
		code, err := s.allocator.Next(ctx, sequence.PrefixDoctor)
		if err != nil {
			return nil, err
		}
		doctor := &model.Doctor{
			Code:           code,
			Department:     stringOr(p.Department, defaultDepartment),
			Specialization: stringOr(p.Specialization, ""),
			Qualifications: stringOr(p.Qualifications, ""),
			Experience:     stringOr(p.Experience, ""),
			Phone:          stringOr(p.Phone, ""),
			Availability:   stringOr(p.Availability, defaultAvailability),
		}
		if err := s.doctors.Create(ctx, account, doctor); err != nil {
			return nil, err
		}

	case model.RolePatient:
		code, err := s.allocator.Next(ctx, sequence.PrefixPatient)
		if err != nil {
			return nil, err
		}
		patient := &model.Patient{
			Code:       code,
			Email:      email,
			Age:        intOr(p.Age, 0),
			Gender:     stringOr(p.Gender, defaultGender),
			Phone:      stringOr(p.Phone, ""),
			Address:    stringOr(p.Address, ""),
			BloodGroup: stringOr(p.BloodGroup, ""),
			History:    stringOr(p.History, ""),
		}
		if err := s.patients.Create(ctx, account, patient); err != nil {
			return nil, err
		}

	case model.RoleReceptionist, model.RoleBillingStaff:
		code, err := s.allocator.Next(ctx, sequence.PrefixStaff)
		if err != nil {
			return nil, err
		}
		jobRole := "Receptionist"
		if role == model.RoleBillingStaff {
			jobRole = "Billing Manager"
		}
		staff := &model.Staff{
			Code:    code,
			JobRole: jobRole,
			Shift:   stringOr(p.Shift, defaultShift),
			Phone:   stringOr(p.Phone, ""),
		}
		if err := s.staff.Create(ctx, account, staff); err != nil {
			return nil, err
		}
	}

	return s.detail(ctx, account)
}

// Update applies a partial update to the account and, when profile fields
// are supplied, to its profile in the same transaction.
func (s *Service) Update(ctx context.Context, id int64, req *model.UpdateAccountRequest) (*model.AccountDetail, error) {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		account.Name = *req.Name
	}
	if req.Email != nil {
		email := strings.ToLower(*req.Email)
		exists, err := s.accounts.EmailExists(ctx, email, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, apperror.Conflict("email already registered")
		}
		account.Email = email
	}
	if req.IsActive != nil {
		account.IsActive = *req.IsActive
	}
	if req.Password != nil {
		hash, err := s.hasher.Hash(*req.Password)
		if err != nil {
			return nil, apperror.Validation(err.Error())
		}
		account.PasswordHash = hash
	}

	if req.ProfileData == nil {
		if err := s.accounts.Update(ctx, account); err != nil {
			return nil, err
		}
		return s.detail(ctx, account)
	}

	p := req.ProfileData
	switch account.Role {
	case model.RoleDoctor:
		doctor, err := s.doctors.GetByAccount(ctx, id)
		if err != nil {
			return nil, err
		}
		applyString(p.Department, &doctor.Department)
		applyString(p.Specialization, &doctor.Specialization)
		applyString(p.Qualifications, &doctor.Qualifications)
		applyString(p.Experience, &doctor.Experience)
		applyString(p.Phone, &doctor.Phone)
		applyString(p.Availability, &doctor.Availability)
		if err := s.doctors.Update(ctx, account, doctor); err != nil {
			return nil, err
		}

	case model.RolePatient:
		patient, err := s.patients.GetByAccount(ctx, id)
		if err != nil {
			return nil, err
		}
		if p.Age != nil {
			patient.Age = *p.Age
		}
		applyString(p.Gender, &patient.Gender)
		applyString(p.Phone, &patient.Phone)
		applyString(p.Address, &patient.Address)
		applyString(p.BloodGroup, &patient.BloodGroup)
		applyString(p.History, &patient.History)
		if err := s.patients.Update(ctx, account, patient); err != nil {
			return nil, err
		}

	case model.RoleReceptionist, model.RoleBillingStaff:
		staff, err := s.staff.GetByAccount(ctx, id)
		if err != nil {
			return nil, err
		}
		applyString(p.Shift, &staff.Shift)
		applyString(p.Phone, &staff.Phone)
		if err := s.staff.Update(ctx, account, staff); err != nil {
			return nil, err
		}

	default:
		if err := s.accounts.Update(ctx, account); err != nil {
			return nil, err
		}
	}

	return s.detail(ctx, account)
}

// Delete removes an account and its profile. super_admin accounts cannot be
// deleted, and nobody may delete themselves.
func (s *Service) Delete(ctx context.Context, caller model.Caller, id int64) error {
	account, err := s.accounts.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if account.Role == model.RoleSuperAdmin {
		return apperror.Forbidden("super admin accounts cannot be deleted", apperror.ReasonRoleDenied)
	}
	if account.ID == caller.AccountID {
		return apperror.Forbidden("you cannot delete your own account", apperror.ReasonRoleDenied)
	}
	if err := s.accounts.Delete(ctx, id); err != nil {
		return err
	}
	s.authorizer.Invalidate(id)
	return nil
}

func stringOr(v *string, fallback string) string {
	if v != nil {
		return *v
	}
	return fallback
}

func intOr(v *int, fallback int) int {
	if v != nil {
		return *v
	}
	return fallback
}

func applyString(src *string, dst *string) {
	if src != nil {
		*dst = *src
	}
}
