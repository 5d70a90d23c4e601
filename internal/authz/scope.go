package authz

import (
	"context"
	"fmt"
	"time"

	"github.com/patrickmn/go-cache"

	"github.com/medicore/clinic-api/internal/model"
	"github.com/medicore/clinic-api/pkg/apperror"
)

// ScopeKind says which rows of a resource the caller may see.
type ScopeKind int

const (
	// ScopeAll places no row restriction.
	ScopeAll ScopeKind = iota
	// ScopeNone is the fail-safe-empty scope: an own-only role whose profile
	// row is missing. Lists return empty, single-record access is denied.
	ScopeNone
	// ScopeDoctorOwned restricts to rows whose doctor_id is the caller's.
	ScopeDoctorOwned
	// ScopeDoctorAssigned restricts patients to those assigned to the caller.
	ScopeDoctorAssigned
	// ScopePatientOwned restricts to rows whose patient_id is the caller's.
	ScopePatientOwned
	// ScopePatientSelf restricts the patient resource to the caller's own row.
	ScopePatientSelf
)

// Scope pairs a kind with the caller's resolved profile row id.
type Scope struct {
	Kind      ScopeKind
	ProfileID int64
}

// AllowsOwner checks a fetched record's owning ids against the scope. Callers
// fetch first and check after, so absence surfaces as 404 rather than 403.
func (s Scope) AllowsOwner(doctorID, patientID int64) bool {
	switch s.Kind {
	case ScopeAll:
		return true
	case ScopeDoctorOwned, ScopeDoctorAssigned:
		return doctorID == s.ProfileID
	case ScopePatientOwned, ScopePatientSelf:
		return patientID == s.ProfileID
	default:
		return false
	}
}

// ProfileLookup resolves the profile row owned by an account. Implementations
// return a NotFound error when the account has no such profile.
type ProfileLookup interface {
	DoctorIDByAccount(ctx context.Context, accountID int64) (int64, error)
	PatientIDByAccount(ctx context.Context, accountID int64) (int64, error)
}

// ProfileRepos adapts the doctor and patient repositories to ProfileLookup.
type ProfileRepos struct {
	Doctors interface {
		IDByAccount(ctx context.Context, accountID int64) (int64, error)
	}
	Patients interface {
		IDByAccount(ctx context.Context, accountID int64) (int64, error)
	}
}

func (r ProfileRepos) DoctorIDByAccount(ctx context.Context, accountID int64) (int64, error) {
	return r.Doctors.IDByAccount(ctx, accountID)
}

func (r ProfileRepos) PatientIDByAccount(ctx context.Context, accountID int64) (int64, error) {
	return r.Patients.IDByAccount(ctx, accountID)
}

const (
	profileCacheTTL     = time.Minute
	profileCacheCleanup = 5 * time.Minute
)

// Authorizer derives row scopes from the caller's role and profile. Profile
// lookups are cached briefly since every scoped request repeats them.
type Authorizer struct {
	profiles ProfileLookup
	cache    *cache.Cache
}

func NewAuthorizer(profiles ProfileLookup) *Authorizer {
	return &Authorizer{
		profiles: profiles,
		cache:    cache.New(profileCacheTTL, profileCacheCleanup),
	}
}

// Scope resolves the row filter for caller on resource. The role gate must
// have passed already; an unknown combination scopes to nothing.
func (a *Authorizer) Scope(ctx context.Context, caller model.Caller, resource Resource) (Scope, error) {
	switch caller.Role {
	case model.RoleSuperAdmin, model.RoleReceptionist, model.RoleBillingStaff:
		return Scope{Kind: ScopeAll}, nil

	case model.RoleDoctor:
		doctorID, ok, err := a.doctorID(ctx, caller.AccountID)
		if err != nil {
			return Scope{}, err
		}
		if !ok {
			return Scope{Kind: ScopeNone}, nil
		}
		if resource == ResourcePatient {
			return Scope{Kind: ScopeDoctorAssigned, ProfileID: doctorID}, nil
		}
		return Scope{Kind: ScopeDoctorOwned, ProfileID: doctorID}, nil

	case model.RolePatient:
		patientID, ok, err := a.patientID(ctx, caller.AccountID)
		if err != nil {
			return Scope{}, err
		}
		if !ok {
			return Scope{Kind: ScopeNone}, nil
		}
		if resource == ResourcePatient {
			return Scope{Kind: ScopePatientSelf, ProfileID: patientID}, nil
		}
		return Scope{Kind: ScopePatientOwned, ProfileID: patientID}, nil
	}

	return Scope{Kind: ScopeNone}, nil
}

// DoctorID resolves the caller's doctor profile row, for operations that
// require an acting doctor. Returns false when the account has none.
func (a *Authorizer) DoctorID(ctx context.Context, accountID int64) (int64, bool, error) {
	return a.doctorID(ctx, accountID)
}

func (a *Authorizer) doctorID(ctx context.Context, accountID int64) (int64, bool, error) {
	key := fmt.Sprintf("doctor:%d", accountID)
	if v, found := a.cache.Get(key); found {
		return v.(int64), true, nil
	}
	id, err := a.profiles.DoctorIDByAccount(ctx, accountID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to resolve doctor profile: %w", err)
	}
	a.cache.Set(key, id, cache.DefaultExpiration)
	return id, true, nil
}

func (a *Authorizer) patientID(ctx context.Context, accountID int64) (int64, bool, error) {
	key := fmt.Sprintf("patient:%d", accountID)
	if v, found := a.cache.Get(key); found {
		return v.(int64), true, nil
	}
	id, err := a.profiles.PatientIDByAccount(ctx, accountID)
	if err != nil {
		if apperror.IsKind(err, apperror.KindNotFound) {
			return 0, false, nil
		}
		return 0, false, fmt.Errorf("failed to resolve patient profile: %w", err)
	}
	a.cache.Set(key, id, cache.DefaultExpiration)
	return id, true, nil
}

// Invalidate drops cached profile resolutions for an account, after its
// profile is created or deleted.
func (a *Authorizer) Invalidate(accountID int64) {
	a.cache.Delete(fmt.Sprintf("doctor:%d", accountID))
	a.cache.Delete(fmt.Sprintf("patient:%d", accountID))
}
