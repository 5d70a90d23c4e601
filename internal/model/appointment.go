package model

import "time"

type AppointmentStatus string

const (
	AppointmentStatusScheduled AppointmentStatus = "Scheduled"
	AppointmentStatusCompleted AppointmentStatus = "Completed"
	AppointmentStatusCancelled AppointmentStatus = "Cancelled"
	AppointmentStatusNoShow    AppointmentStatus = "No Show"
)

type AppointmentType string

const (
	AppointmentTypeOffline AppointmentType = "Offline"
	AppointmentTypeOnline  AppointmentType = "Online"
)

// Appointment links one patient and one doctor at a date and time slot.
// No transition graph is enforced on Status; any authorized caller may set
// any value, matching the scheduling desk workflow this system models.
type Appointment struct {
	ID        int64             `db:"id" json:"id"`
	Code      string            `db:"code" json:"appointmentId"`
	PatientID int64             `db:"patient_id" json:"-"`
	DoctorID  int64             `db:"doctor_id" json:"-"`
	Date      time.Time         `db:"date" json:"date"`
	Time      string            `db:"time" json:"time"`
	Status    AppointmentStatus `db:"status" json:"status"`
	Type      AppointmentType   `db:"type" json:"type"`
	Reason    string            `db:"reason" json:"reason"`
	CreatedAt time.Time         `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time         `db:"updated_at" json:"updatedAt"`

	// Joined on reads.
	PatientName  string `db:"patient_name" json:"patient,omitempty"`
	PatientCode  string `db:"patient_code" json:"patientId,omitempty"`
	PatientPhone string `db:"patient_phone" json:"patientPhone,omitempty"`
	DoctorName   string `db:"doctor_name" json:"doctor,omitempty"`
	DoctorCode   string `db:"doctor_code" json:"doctorId,omitempty"`
	Department   string `db:"department" json:"department,omitempty"`
}

// AppointmentFilter narrows appointment listings. DoctorID and PatientID
// are injected by the access-control scope.
type AppointmentFilter struct {
	Search    string
	Status    string
	Date      *time.Time
	DoctorID  *int64
	PatientID *int64
	ListOptions
}

type CreateAppointmentRequest struct {
	PatientID string `json:"patientId" binding:"required"`
	DoctorID  string `json:"doctorId" binding:"required"`
	Date      string `json:"date" binding:"required"`
	Time      string `json:"time" binding:"required"`
	Type      string `json:"type"`
	Reason    string `json:"reason"`
}

type UpdateAppointmentRequest struct {
	Date   *string `json:"date"`
	Time   *string `json:"time"`
	Status *string `json:"status"`
	Type   *string `json:"type"`
	Reason *string `json:"reason"`
}

type AppointmentSummary struct {
	ID      int64             `json:"id"`
	Code    string            `json:"appointmentId"`
	Patient string            `json:"patient"`
	Doctor  string            `json:"doctor"`
	Date    time.Time         `json:"date"`
	Time    string            `json:"time"`
	Status  AppointmentStatus `json:"status"`
	Type    AppointmentType   `json:"type"`
}
