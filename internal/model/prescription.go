package model

import "time"

type PrescriptionStatus string

const (
	PrescriptionStatusActive    PrescriptionStatus = "Active"
	PrescriptionStatusCompleted PrescriptionStatus = "Completed"
)

// Prescription records medication orders. Writes go through the central
// prescription bank: only super_admin may create, update or delete, while
// doctors read the prescriptions they authored.
type Prescription struct {
	ID           int64              `db:"id" json:"id"`
	Code         string             `db:"code" json:"prescriptionId"`
	PatientID    int64              `db:"patient_id" json:"-"`
	DoctorID     int64              `db:"doctor_id" json:"-"`
	Medications  string             `db:"medications" json:"medications"`
	Dosage       string             `db:"dosage" json:"dosage"`
	Duration     string             `db:"duration" json:"duration"`
	Instructions string             `db:"instructions" json:"instructions"`
	Status       PrescriptionStatus `db:"status" json:"status"`
	CreatedAt    time.Time          `db:"created_at" json:"createdAt"`
	UpdatedAt    time.Time          `db:"updated_at" json:"updatedAt"`

	PatientName string `db:"patient_name" json:"patient,omitempty"`
	PatientCode string `db:"patient_code" json:"patientId,omitempty"`
	DoctorName  string `db:"doctor_name" json:"doctor,omitempty"`
	DoctorCode  string `db:"doctor_code" json:"doctorId,omitempty"`
}

type PrescriptionFilter struct {
	Search    string
	Status    string
	DoctorID  *int64
	PatientID *int64
	ListOptions
}

type CreatePrescriptionRequest struct {
	PatientID    string `json:"patientId" binding:"required"`
	DoctorID     string `json:"doctorId" binding:"required"`
	Medications  string `json:"medications" binding:"required"`
	Dosage       string `json:"dosage"`
	Duration     string `json:"duration"`
	Instructions string `json:"instructions"`
}

type UpdatePrescriptionRequest struct {
	Medications  *string `json:"medications"`
	Dosage       *string `json:"dosage"`
	Duration     *string `json:"duration"`
	Instructions *string `json:"instructions"`
	Status       *string `json:"status"`
}

type PrescriptionSummary struct {
	ID          int64              `json:"id"`
	Code        string             `json:"prescriptionId"`
	Patient     string             `json:"patient"`
	Doctor      string             `json:"doctor"`
	Medications string             `json:"medications"`
	Status      PrescriptionStatus `json:"status"`
}
