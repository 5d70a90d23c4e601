package model

import "time"

// Doctor is the clinical profile linked 1:1 to an account with role=doctor.
type Doctor struct {
	ID             int64     `db:"id" json:"id"`
	Code           string    `db:"code" json:"doctorId"`
	AccountID      int64     `db:"account_id" json:"-"`
	Department     string    `db:"department" json:"department"`
	Specialization string    `db:"specialization" json:"specialization"`
	Qualifications string    `db:"qualifications" json:"qualifications"`
	Experience     string    `db:"experience" json:"experience"`
	Phone          string    `db:"phone" json:"phone"`
	Availability   string    `db:"availability" json:"availability"`
	CreatedAt      time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt      time.Time `db:"updated_at" json:"updatedAt"`

	// Joined from the accounts table on reads.
	Name     string `db:"account_name" json:"name,omitempty"`
	Email    string `db:"account_email" json:"email,omitempty"`
	IsActive bool   `db:"account_active" json:"isActive"`
}

// Staff is the administrative profile for receptionists and billing staff.
type Staff struct {
	ID        int64     `db:"id" json:"id"`
	Code      string    `db:"code" json:"staffId"`
	AccountID int64     `db:"account_id" json:"-"`
	JobRole   string    `db:"job_role" json:"jobRole"`
	Shift     string    `db:"shift" json:"shift"`
	Phone     string    `db:"phone" json:"phone"`
	JoinedAt  time.Time `db:"joined_at" json:"joinedAt"`
	CreatedAt time.Time `db:"created_at" json:"createdAt"`
	UpdatedAt time.Time `db:"updated_at" json:"updatedAt"`

	Name  string `db:"account_name" json:"name,omitempty"`
	Email string `db:"account_email" json:"email,omitempty"`
}

// DoctorSchedule is the booked-slot view for one doctor on a date.
type DoctorSchedule struct {
	Doctor       string       `json:"doctor"`
	DoctorCode   string       `json:"doctorId"`
	Department   string       `json:"department"`
	Availability string       `json:"availability"`
	BookedSlots  []BookedSlot `json:"bookedSlots"`
}

type BookedSlot struct {
	Time   string `db:"time" json:"time"`
	Status string `db:"status" json:"status"`
}
