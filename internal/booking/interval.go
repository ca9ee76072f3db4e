package booking

import (
	"fmt"
	"strconv"
	"strings"
	"time"
)

// Interval is a booked time range on a calendar date. Start and End are
// canonical zero-padded 24h "HH:MM" strings; because both are zero-padded,
// lexicographic comparison is equivalent to chronological comparison.
type Interval struct {
	Date  time.Time
	Start string
	End   string
}

// NewInterval validates and normalizes a (date, start, end) triple.
// The time-of-day component of date is discarded.
func NewInterval(date time.Time, start, end string) (Interval, error) {
	s, err := NormalizeClock(start)
	if err != nil {
		return Interval{}, err
	}
	e, err := NormalizeClock(end)
	if err != nil {
		return Interval{}, err
	}
	if s >= e {
		return Interval{}, ErrInvalidTimeRange
	}
	return Interval{Date: DateOnly(date), Start: s, End: e}, nil
}

// Overlaps reports whether two intervals on the same date overlap.
// Intervals are half-open: [s1,e1) and [s2,e2) overlap iff s1 < e2 && e1 > s2,
// so a booking ending at 11:00 never collides with one starting at 11:00.
func (iv Interval) Overlaps(other Interval) bool {
	if !iv.Date.Equal(other.Date) {
		return false
	}
	return Overlaps(iv.Start, iv.End, other.Start, other.End)
}

// Overlaps is the bare half-open overlap predicate over normalized "HH:MM"
// strings. It is commutative.
func Overlaps(s1, e1, s2, e2 string) bool {
	return s1 < e2 && e1 > s2
}

// NormalizeClock parses a time-of-day string and returns it zero-padded
// ("9:30" becomes "09:30"). Seconds are not accepted.
func NormalizeClock(v string) (string, error) {
	parts := strings.Split(strings.TrimSpace(v), ":")
	if len(parts) != 2 {
		return "", ErrInvalidTimeFormat
	}
	hour, err := strconv.Atoi(parts[0])
	if err != nil || hour < 0 || hour > 23 {
		return "", ErrInvalidTimeFormat
	}
	minute, err := strconv.Atoi(parts[1])
	if err != nil || minute < 0 || minute > 59 {
		return "", ErrInvalidTimeFormat
	}
	return fmt.Sprintf("%02d:%02d", hour, minute), nil
}

// DateOnly truncates a timestamp to its calendar date in UTC.
func DateOnly(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
