package sequence

import (
	"context"
	"fmt"
	"regexp"
	"time"
)

// Prefixes for the human-readable record codes.
const (
	PrefixPatient      = "PAT"
	PrefixDoctor       = "DOC"
	PrefixStaff        = "STF"
	PrefixAppointment  = "APT"
	PrefixPrescription = "PRE"
	PrefixLabResult    = "LAB"
	PrefixMedicalNote  = "NOTE"
	PrefixInvoice      = "INV"
)

var codePattern = regexp.MustCompile(`^[A-Z]+-\d{4}-\d{3,}$`)

// IsCode reports whether s looks like an allocated record code.
func IsCode(s string) bool {
	return codePattern.MatchString(s)
}

// Format renders a code like PAT-2026-007. The counter widens past 999.
func Format(prefix string, year int, n int64) string {
	return fmt.Sprintf("%s-%d-%03d", prefix, year, n)
}

// Store hands out the next counter value for a key. Implementations must be
// atomic under concurrent callers.
type Store interface {
	Next(ctx context.Context, key string) (int64, error)
}

// Allocator issues record codes scoped per prefix and calendar year.
type Allocator struct {
	store Store
	now   func() time.Time
}

func NewAllocator(store Store) *Allocator {
	return &Allocator{store: store, now: time.Now}
}

// Next allocates the next code for prefix in the current year.
func (a *Allocator) Next(ctx context.Context, prefix string) (string, error) {
	year := a.now().Year()
	key := fmt.Sprintf("%s-%d", prefix, year)
	n, err := a.store.Next(ctx, key)
	if err != nil {
		return "", fmt.Errorf("failed to allocate %s code: %w", prefix, err)
	}
	return Format(prefix, year, n), nil
}
