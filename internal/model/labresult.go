package model

import (
	"database/sql/driver"
	"encoding/json"
	"fmt"
	"time"
)

type LabStatus string

const (
	LabStatusPending LabStatus = "Pending"
	LabStatusFinal   LabStatus = "Final"
	LabStatusDraft   LabStatus = "Draft"
)

// ResultSet is the sparse measurement map of a lab test, stored as JSONB.
// It stays nil while the test is pending.
type ResultSet map[string]float64

func (r ResultSet) Value() (driver.Value, error) {
	if r == nil {
		return nil, nil
	}
	return json.Marshal(r)
}

func (r *ResultSet) Scan(src interface{}) error {
	if src == nil {
		*r = nil
		return nil
	}
	b, ok := src.([]byte)
	if !ok {
		return fmt.Errorf("unsupported scan type %T for ResultSet", src)
	}
	return json.Unmarshal(b, r)
}

// LabResult links a patient with the doctor who ordered the test.
type LabResult struct {
	ID         int64     `db:"id" json:"id"`
	Code       string    `db:"code" json:"labId"`
	PatientID  int64     `db:"patient_id" json:"-"`
	DoctorID   int64     `db:"doctor_id" json:"-"`
	TestName   string    `db:"test_name" json:"testName"`
	Findings   string    `db:"findings" json:"findings"`
	Results    ResultSet `db:"results" json:"results"`
	Technician string    `db:"technician" json:"technician"`
	Status     LabStatus `db:"status" json:"status"`
	CreatedAt  time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt  time.Time `db:"updated_at" json:"updatedAt"`

	PatientName string `db:"patient_name" json:"patient,omitempty"`
	PatientCode string `db:"patient_code" json:"patientId,omitempty"`
	DoctorName  string `db:"doctor_name" json:"doctor,omitempty"`
}

type LabResultFilter struct {
	Search    string
	Status    string
	DoctorID  *int64
	PatientID *int64
	ListOptions
}

type CreateLabResultRequest struct {
	PatientID  string    `json:"patientId" binding:"required"`
	TestName   string    `json:"testName" binding:"required"`
	Findings   string    `json:"findings"`
	Results    ResultSet `json:"results"`
	Technician string    `json:"technician"`
	Status     string    `json:"status"`
}

type UpdateLabResultRequest struct {
	TestName   *string    `json:"testName"`
	Findings   *string    `json:"findings"`
	Results    *ResultSet `json:"results"`
	Technician *string    `json:"technician"`
	Status     *string    `json:"status"`
}

type LabResultSummary struct {
	ID       int64     `json:"id"`
	Code     string    `json:"labId"`
	Patient  string    `json:"patient"`
	Doctor   string    `json:"doctor"`
	TestName string    `json:"testName"`
	Status   LabStatus `json:"status"`
}
