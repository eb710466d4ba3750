package daterange

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestNewRejectsInvertedRange(t *testing.T) {
	_, err := New(date(2023, 6, 4), date(2023, 6, 1))
	require.ErrorIs(t, err, ErrInvalidRange)

	_, err = New(date(2023, 6, 1), date(2023, 6, 1))
	require.ErrorIs(t, err, ErrInvalidRange)
}

func TestNights(t *testing.T) {
	dr, err := New(date(2023, 6, 1), date(2023, 6, 4))
	require.NoError(t, err)
	assert.Equal(t, 3, dr.Nights())

	// Partial days round up.
	dr, err = New(date(2023, 6, 1), date(2023, 6, 2).Add(6*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 2, dr.Nights())

	// Sub-day ranges still bill one night.
	dr, err = New(date(2023, 6, 1), date(2023, 6, 1).Add(2*time.Hour))
	require.NoError(t, err)
	assert.Equal(t, 1, dr.Nights())
}

func TestOverlapsHalfOpen(t *testing.T) {
	a, err := New(date(2023, 6, 1), date(2023, 6, 5))
	require.NoError(t, err)

	cases := []struct {
		name     string
		checkIn  time.Time
		checkOut time.Time
		want     bool
	}{
		{"inside", date(2023, 6, 2), date(2023, 6, 3), true},
		{"covering", date(2023, 5, 30), date(2023, 6, 10), true},
		{"leading edge", date(2023, 5, 30), date(2023, 6, 2), true},
		{"trailing edge", date(2023, 6, 4), date(2023, 6, 8), true},
		{"back-to-back after", date(2023, 6, 5), date(2023, 6, 8), false},
		{"back-to-back before", date(2023, 5, 28), date(2023, 6, 1), false},
		{"disjoint", date(2023, 7, 1), date(2023, 7, 3), false},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			b, err := New(tc.checkIn, tc.checkOut)
			require.NoError(t, err)
			assert.Equal(t, tc.want, a.Overlaps(b))
			assert.Equal(t, tc.want, b.Overlaps(a), "overlap must be symmetric")
		})
	}
}

func TestDays(t *testing.T) {
	dr, err := New(date(2023, 6, 1), date(2023, 6, 4))
	require.NoError(t, err)

	days := dr.Days()
	require.Len(t, days, 3)
	assert.Equal(t, date(2023, 6, 1), days[0])
	assert.Equal(t, date(2023, 6, 3), days[2])
}

func TestContainsDate(t *testing.T) {
	dr, err := New(date(2023, 6, 1), date(2023, 6, 4))
	require.NoError(t, err)

	assert.True(t, dr.ContainsDate(date(2023, 6, 1)))
	assert.True(t, dr.ContainsDate(date(2023, 6, 3)))
	assert.False(t, dr.ContainsDate(date(2023, 6, 4)), "check-out day is outside the half-open range")
}
