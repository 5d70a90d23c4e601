package model

// Overview is the dashboard headline block. Financial is present only for
// super_admin and billing_staff callers.
type Overview struct {
	Patients     OverviewCount       `json:"patients"`
	Doctors      OverviewCount       `json:"doctors"`
	Appointments AppointmentOverview `json:"appointments"`
	Financial    *FinancialOverview  `json:"financial,omitempty"`
}

type OverviewCount struct {
	Total int    `json:"total"`
	Label string `json:"label"`
}

type AppointmentOverview struct {
	Total     int    `json:"total"`
	Today     int    `json:"today"`
	Monthly   int    `json:"monthly"`
	Pending   int    `json:"pending"`
	Completed int    `json:"completed"`
	Label     string `json:"label"`
}

type FinancialOverview struct {
	TotalRevenue        float64 `json:"totalRevenue"`
	PendingPayments     float64 `json:"pendingPayments"`
	PendingCount        int     `json:"pendingCount"`
	MonthlyPaidInvoices int     `json:"monthlyPaidInvoices"`
}

// PatientStats is the /reports/patients response.
type PatientStats struct {
	Total        int                `json:"total"`
	NewThisMonth int                `json:"newThisMonth"`
	ByGender     GenderBreakdown    `json:"byGender"`
	ByBloodGroup []BloodGroupBucket `json:"byBloodGroup"`
}

type GenderBreakdown struct {
	Male   int `json:"male"`
	Female int `json:"female"`
}

type BloodGroupBucket struct {
	BloodGroup string `db:"blood_group" json:"bloodGroup"`
	Count      int    `db:"count" json:"count"`
}

// AppointmentStats is the /reports/appointments response. Doctors receive
// the same shape pre-filtered to their own appointments.
type AppointmentStats struct {
	Total    int                     `json:"total"`
	ByStatus AppointmentStatusCounts `json:"byStatus"`
	ByPeriod AppointmentPeriodCounts `json:"byPeriod"`
	ByType   []AppointmentTypeBucket `json:"byType"`
}

type AppointmentStatusCounts struct {
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
	Cancelled int `json:"cancelled"`
}

type AppointmentPeriodCounts struct {
	Today   int `json:"today"`
	Weekly  int `json:"weekly"`
	Monthly int `json:"monthly"`
}

type AppointmentTypeBucket struct {
	Type  string `db:"type" json:"type"`
	Count int    `db:"count" json:"count"`
}

// RevenueStats is the /reports/revenue response.
type RevenueStats struct {
	Revenue  RevenueTotals         `json:"revenue"`
	Pending  StatusBucket          `json:"pending"`
	Overdue  StatusBucket          `json:"overdue"`
	ByStatus []InvoiceStatusBucket `json:"byStatus"`
	ByMethod []InvoiceMethodBucket `json:"byMethod"`
}

type RevenueTotals struct {
	Total   float64 `json:"total"`
	Monthly float64 `json:"monthly"`
	Yearly  float64 `json:"yearly"`
}

type InvoiceStatusBucket struct {
	Status string  `db:"status" json:"status"`
	Count  int     `db:"count" json:"count"`
	Amount float64 `db:"amount" json:"amount"`
}

type InvoiceMethodBucket struct {
	Method string  `db:"method" json:"method"`
	Count  int     `db:"count" json:"count"`
	Amount float64 `db:"amount" json:"amount"`
}

// Metric is one row of the /reports/metrics response; Trend is derived
// from fixed thresholds on Total.
type Metric struct {
	ID       string `json:"id"`
	Category string `json:"category"`
	Total    int    `json:"total"`
	Trend    string `json:"trend"`
	Details  string `json:"details"`
}
