package model

import "time"

// Patient is the subject profile linked 1:1 to an account with role=patient.
// AssignedDoctorID is a lookup reference only; any doctor may author records
// for the patient regardless of assignment.
type Patient struct {
	ID               int64      `db:"id" json:"id"`
	Code             string     `db:"code" json:"patientId"`
	AccountID        int64      `db:"account_id" json:"-"`
	Age              int        `db:"age" json:"age"`
	Gender           string     `db:"gender" json:"gender"`
	Phone            string     `db:"phone" json:"phone"`
	Email            string     `db:"email" json:"email"`
	Address          string     `db:"address" json:"address"`
	BloodGroup       string     `db:"blood_group" json:"bloodGroup"`
	History          string     `db:"history" json:"history"`
	LastVisit        *time.Time `db:"last_visit" json:"lastVisit"`
	AssignedDoctorID *int64     `db:"assigned_doctor_id" json:"-"`
	CreatedAt        time.Time  `db:"created_at" json:"createdAt"`
	UpdatedAt        time.Time  `db:"updated_at" json:"updatedAt"`

	// Joined on reads.
	Name               string  `db:"account_name" json:"name,omitempty"`
	IsActive           bool    `db:"account_active" json:"isActive"`
	AssignedDoctorName *string `db:"assigned_doctor_name" json:"assignedDoctor"`
}

// PatientDetail adds the recent-appointment block returned by single reads.
type PatientDetail struct {
	Patient
	RecentAppointments []*Appointment `json:"recentAppointments"`
}

// PatientFilter narrows patient listings. AssignedDoctorID and SelfID are
// set by the access-control scope, never by the caller.
type PatientFilter struct {
	Search           string
	AssignedDoctorID *int64
	SelfID           *int64
	ListOptions
}

type CreatePatientRequest struct {
	Name             string `json:"name" binding:"required"`
	Email            string `json:"email" binding:"required,email"`
	Password         string `json:"password" binding:"required,min=6"`
	Age              int    `json:"age" binding:"required"`
	Gender           string `json:"gender" binding:"required"`
	Phone            string `json:"phone" binding:"required"`
	Address          string `json:"address"`
	BloodGroup       string `json:"bloodGroup"`
	History          string `json:"history"`
	AssignedDoctorID *int64 `json:"assignedDoctorId"`
}

// UpdatePatientRequest is a partial update: nil means untouched, a pointer
// to the zero value means cleared.
type UpdatePatientRequest struct {
	Name             *string `json:"name"`
	Age              *int    `json:"age"`
	Gender           *string `json:"gender"`
	Phone            *string `json:"phone"`
	Address          *string `json:"address"`
	BloodGroup       *string `json:"bloodGroup"`
	History          *string `json:"history"`
	AssignedDoctorID *int64  `json:"assignedDoctorId"`
}

// PatientSummary is the shaped write response echoed to the UI.
type PatientSummary struct {
	ID     int64  `json:"id"`
	Code   string `json:"patientId"`
	Name   string `json:"name"`
	Email  string `json:"email"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
	Phone  string `json:"phone"`
}
