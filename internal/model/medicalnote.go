package model

import "time"

// MedicalNote is free-form clinical documentation authored by a doctor.
// Preview is derived from Detail when not supplied explicitly.
type MedicalNote struct {
	ID        int64     `db:"id" json:"id"`
	Code      string    `db:"code" json:"noteId"`
	PatientID int64     `db:"patient_id" json:"-"`
	DoctorID  int64     `db:"doctor_id" json:"-"`
	Type      string    `db:"type" json:"type"`
	Preview   string    `db:"preview" json:"preview"`
	Detail    string    `db:"detail" json:"detail"`
	CreatedAt time.Time `db:"created_at" json:"date"`
	UpdatedAt time.Time `db:"updated_at" json:"-"`

	PatientName string `db:"patient_name" json:"patient,omitempty"`
	PatientCode string `db:"patient_code" json:"patientId,omitempty"`
	AuthorName  string `db:"doctor_name" json:"author,omitempty"`
}

type MedicalNoteFilter struct {
	Search    string
	Type      string
	DoctorID  *int64
	PatientID *int64
	ListOptions
}

type CreateMedicalNoteRequest struct {
	PatientID string `json:"patientId" binding:"required"`
	Type      string `json:"type" binding:"required"`
	Preview   string `json:"preview"`
	Detail    string `json:"detail" binding:"required"`
}

type UpdateMedicalNoteRequest struct {
	Type    *string `json:"type"`
	Preview *string `json:"preview"`
	Detail  *string `json:"detail"`
}

type MedicalNoteSummary struct {
	ID      int64  `json:"id"`
	Code    string `json:"noteId"`
	Patient string `json:"patient"`
	Author  string `json:"author"`
	Type    string `json:"type"`
	Preview string `json:"preview"`
}
