package sequence

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubStore struct {
	counters map[string]int64
}

func (s *stubStore) Next(_ context.Context, key string) (int64, error) {
	if s.counters == nil {
		s.counters = make(map[string]int64)
	}
	s.counters[key]++
	return s.counters[key], nil
}

func fixedAllocator(store Store, year int) *Allocator {
	a := NewAllocator(store)
	a.now = func() time.Time {
		return time.Date(year, time.March, 15, 0, 0, 0, 0, time.UTC)
	}
	return a
}

func TestNextSequentialPerPrefix(t *testing.T) {
	a := fixedAllocator(&stubStore{}, 2026)
	ctx := context.Background()

	first, err := a.Next(ctx, PrefixPatient)
	require.NoError(t, err)
	assert.Equal(t, "PAT-2026-001", first)

	second, err := a.Next(ctx, PrefixPatient)
	require.NoError(t, err)
	assert.Equal(t, "PAT-2026-002", second)

	doc, err := a.Next(ctx, PrefixDoctor)
	require.NoError(t, err)
	assert.Equal(t, "DOC-2026-001", doc)
}

func TestNextResetsAcrossYears(t *testing.T) {
	store := &stubStore{}
	ctx := context.Background()

	a := fixedAllocator(store, 2026)
	_, err := a.Next(ctx, PrefixInvoice)
	require.NoError(t, err)

	b := fixedAllocator(store, 2027)
	code, err := b.Next(ctx, PrefixInvoice)
	require.NoError(t, err)
	assert.Equal(t, "INV-2027-001", code)
}

func TestFormatWidensPastThreeDigits(t *testing.T) {
	assert.Equal(t, "APT-2026-007", Format(PrefixAppointment, 2026, 7))
	assert.Equal(t, "APT-2026-099", Format(PrefixAppointment, 2026, 99))
	assert.Equal(t, "APT-2026-1234", Format(PrefixAppointment, 2026, 1234))
}

func TestIsCode(t *testing.T) {
	assert.True(t, IsCode("PAT-2026-001"))
	assert.True(t, IsCode("NOTE-2025-1000"))
	assert.False(t, IsCode("123"))
	assert.False(t, IsCode("pat-2026-001"))
	assert.False(t, IsCode("PAT-26-001"))
	assert.False(t, IsCode(""))
}
