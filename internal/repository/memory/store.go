// Package memory implements the repository interfaces over in-process maps.
// It backs service tests and mirrors the postgres semantics: case-folded
// emails, atomic account+profile writes, fetch-then-filter list behavior.
package memory

import (
	"sort"
	"strings"
	"sync"

	"github.com/medicore/clinic-api/internal/model"
)

type Store struct {
	mu sync.RWMutex

	nextID int64

	accounts      map[int64]*model.Account
	doctors       map[int64]*model.Doctor
	patients      map[int64]*model.Patient
	staff         map[int64]*model.Staff
	appointments  map[int64]*model.Appointment
	prescriptions map[int64]*model.Prescription
	labResults    map[int64]*model.LabResult
	notes         map[int64]*model.MedicalNote
	invoices      map[int64]*model.Invoice
	sequences     map[string]int64
}

func NewStore() *Store {
	return &Store{
		accounts:      make(map[int64]*model.Account),
		doctors:       make(map[int64]*model.Doctor),
		patients:      make(map[int64]*model.Patient),
		staff:         make(map[int64]*model.Staff),
		appointments:  make(map[int64]*model.Appointment),
		prescriptions: make(map[int64]*model.Prescription),
		labResults:    make(map[int64]*model.LabResult),
		notes:         make(map[int64]*model.MedicalNote),
		invoices:      make(map[int64]*model.Invoice),
		sequences:     make(map[string]int64),
	}
}

func (s *Store) nextIDLocked() int64 {
	s.nextID++
	return s.nextID
}

func matches(search string, fields ...string) bool {
	if search == "" {
		return true
	}
	needle := strings.ToLower(search)
	for _, f := range fields {
		if strings.Contains(strings.ToLower(f), needle) {
			return true
		}
	}
	return false
}

// paginate sorts with less, then slices out the requested page.
func paginate[T any](items []T, opts model.ListOptions, less func(a, b T) bool) ([]T, int) {
	sort.SliceStable(items, func(i, j int) bool { return less(items[i], items[j]) })
	total := len(items)
	start := opts.Offset()
	if start >= total {
		return []T{}, total
	}
	end := start + opts.Limit
	if end > total {
		end = total
	}
	return items[start:end], total
}
