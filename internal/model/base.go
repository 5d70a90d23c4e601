package model

// Pagination describes the slice of a list result returned to the client.
type Pagination struct {
	Page       int `json:"page"`
	Limit      int `json:"limit"`
	Total      int `json:"total"`
	TotalPages int `json:"totalPages"`
}

// NewPagination computes the page envelope for a list response.
func NewPagination(page, limit, total int) Pagination {
	totalPages := 0
	if limit > 0 {
		totalPages = (total + limit - 1) / limit
	}
	return Pagination{
		Page:       page,
		Limit:      limit,
		Total:      total,
		TotalPages: totalPages,
	}
}

// ListOptions carries pagination parameters common to all list queries.
type ListOptions struct {
	Page  int `form:"page"`
	Limit int `form:"limit"`
}

const (
	defaultPage  = 1
	defaultLimit = 20
	maxLimit     = 100
)

// Normalize clamps pagination parameters to sane defaults.
func (o *ListOptions) Normalize() {
	if o.Page < 1 {
		o.Page = defaultPage
	}
	if o.Limit < 1 {
		o.Limit = defaultLimit
	}
	if o.Limit > maxLimit {
		o.Limit = maxLimit
	}
}

// Offset returns the row offset for the current page.
func (o ListOptions) Offset() int {
	return (o.Page - 1) * o.Limit
}
