package booking

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeClock(t *testing.T) {
	tests := []struct {
		in      string
		want    string
		wantErr bool
	}{
		{in: "09:30", want: "09:30"},
		{in: "9:30", want: "09:30"},
		{in: "00:00", want: "00:00"},
		{in: "23:59", want: "23:59"},
		{in: " 10:00 ", want: "10:00"},
		{in: "24:00", wantErr: true},
		{in: "10:60", wantErr: true},
		{in: "10", wantErr: true},
		{in: "10:0a", wantErr: true},
		{in: "", wantErr: true},
		{in: "10:00:00", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := NormalizeClock(tt.in)
			if tt.wantErr {
				assert.ErrorIs(t, err, ErrInvalidTimeFormat)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestNewInterval(t *testing.T) {
	date := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)

	t.Run("valid interval normalizes times", func(t *testing.T) {
		iv, err := NewInterval(date, "9:00", "10:30")
		require.NoError(t, err)
		assert.Equal(t, "09:00", iv.Start)
		assert.Equal(t, "10:30", iv.End)
		assert.Equal(t, date, iv.Date)
	})

	t.Run("date is truncated to midnight UTC", func(t *testing.T) {
		noisy := time.Date(2026, 3, 14, 17, 45, 12, 0, time.UTC)
		iv, err := NewInterval(noisy, "09:00", "10:00")
		require.NoError(t, err)
		assert.Equal(t, date, iv.Date)
	})

	t.Run("start must precede end", func(t *testing.T) {
		_, err := NewInterval(date, "10:00", "10:00")
		assert.ErrorIs(t, err, ErrInvalidTimeRange)

		_, err = NewInterval(date, "11:00", "10:00")
		assert.ErrorIs(t, err, ErrInvalidTimeRange)
	})

	t.Run("bad clock format rejected", func(t *testing.T) {
		_, err := NewInterval(date, "nine", "10:00")
		assert.ErrorIs(t, err, ErrInvalidTimeFormat)
	})
}

func TestOverlaps(t *testing.T) {
	tests := []struct {
		name           string
		s1, e1, s2, e2 string
		want           bool
	}{
		{name: "identical", s1: "10:00", e1: "11:00", s2: "10:00", e2: "11:00", want: true},
		{name: "nested", s1: "09:00", e1: "12:00", s2: "10:00", e2: "11:00", want: true},
		{name: "partial left", s1: "09:00", e1: "10:30", s2: "10:00", e2: "11:00", want: true},
		{name: "partial right", s1: "10:30", e1: "12:00", s2: "10:00", e2: "11:00", want: true},
		{name: "touching boundary is free", s1: "09:00", e1: "10:00", s2: "10:00", e2: "11:00", want: false},
		{name: "touching boundary reversed", s1: "11:00", e1: "12:00", s2: "10:00", e2: "11:00", want: false},
		{name: "disjoint", s1: "08:00", e1: "09:00", s2: "10:00", e2: "11:00", want: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, Overlaps(tt.s1, tt.e1, tt.s2, tt.e2))
			// Overlap is symmetric.
			assert.Equal(t, tt.want, Overlaps(tt.s2, tt.e2, tt.s1, tt.e1))
		})
	}
}

func TestIntervalOverlaps(t *testing.T) {
	d1 := time.Date(2026, 3, 14, 0, 0, 0, 0, time.UTC)
	d2 := time.Date(2026, 3, 15, 0, 0, 0, 0, time.UTC)

	a, err := NewInterval(d1, "10:00", "11:00")
	require.NoError(t, err)
	b, err := NewInterval(d1, "10:30", "11:30")
	require.NoError(t, err)
	c, err := NewInterval(d2, "10:00", "11:00")
	require.NoError(t, err)

	assert.True(t, a.Overlaps(b))
	assert.False(t, a.Overlaps(c), "different dates never overlap")
}
