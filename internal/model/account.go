package model

import "time"

// Role is the single role attached to an account. Roles are mutually
// exclusive; an account has exactly one.
type Role string

const (
	RoleSuperAdmin   Role = "super_admin"
	RoleDoctor       Role = "doctor"
	RoleReceptionist Role = "receptionist"
	RoleBillingStaff Role = "billing_staff"
	RolePatient      Role = "patient"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleSuperAdmin, RoleDoctor, RoleReceptionist, RoleBillingStaff, RolePatient:
		return true
	}
	return false
}

// CreatableRoles are the roles an admin may assign when creating an
// account. super_admin accounts are seeded, never created through the API.
var CreatableRoles = []Role{RoleDoctor, RoleReceptionist, RoleBillingStaff, RolePatient}

// Account is the identity row every profile hangs off. The password hash
// never leaves the server.
type Account struct {
	ID           int64     `db:"id" json:"id"`
	Email        string    `db:"email" json:"email"`
	PasswordHash string    `db:"password_hash" json:"-"`
	Name         string    `db:"name" json:"name"`
	Role         Role      `db:"role" json:"role"`
	IsActive     bool      `db:"is_active" json:"isActive"`
	CreatedAt    time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time `db:"updated_at" json:"updatedAt"`
}

// Caller identifies the authenticated account on a request.
type Caller struct {
	AccountID int64
	Email     string
	Name      string
	Role      Role
}

// AccountFilter narrows account listings.
type AccountFilter struct {
	Role   Role
	Search string
	ListOptions
}

// ProfileData carries the role-specific profile fields accepted on account
// create/update. Only the fields matching the account's role are used.
type ProfileData struct {
	// patient
	Age        *int    `json:"age"`
	Gender     *string `json:"gender"`
	Address    *string `json:"address"`
	BloodGroup *string `json:"bloodGroup"`
	History    *string `json:"history"`
	// doctor
	Department     *string `json:"department"`
	Specialization *string `json:"specialization"`
	Qualifications *string `json:"qualifications"`
	Experience     *string `json:"experience"`
	Availability   *string `json:"availability"`
	// staff
	Shift *string `json:"shift"`
	// shared
	Phone *string `json:"phone"`
}

type CreateAccountRequest struct {
	Email       string       `json:"email" binding:"required,email"`
	Password    string       `json:"password" binding:"required,min=6"`
	Name        string       `json:"name" binding:"required"`
	Role        Role         `json:"role" binding:"required"`
	ProfileData *ProfileData `json:"profileData"`
}

type UpdateAccountRequest struct {
	Name        *string      `json:"name"`
	Email       *string      `json:"email"`
	IsActive    *bool        `json:"isActive"`
	Password    *string      `json:"password"`
	ProfileData *ProfileData `json:"profileData"`
}

// AccountDetail is an account joined with whichever profile it owns.
type AccountDetail struct {
	Account
	Doctor  *Doctor  `json:"doctor,omitempty"`
	Patient *Patient `json:"patient,omitempty"`
	Staff   *Staff   `json:"staff,omitempty"`
}
