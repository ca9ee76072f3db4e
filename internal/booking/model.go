package booking

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "booking not found")
	ErrCourtNotFound     = apperror.New(http.StatusNotFound, "court not found")
	ErrTimeConflict      = apperror.New(http.StatusConflict, "time slot already booked")
	ErrInvalidTimeFormat = apperror.New(http.StatusBadRequest, "time must be in HH:MM format")
	ErrInvalidTimeRange  = apperror.New(http.StatusBadRequest, "start time must be before end time")
	ErrInvalidStatus     = apperror.New(http.StatusBadRequest, "invalid booking status")
	ErrPermissionDenied  = apperror.New(http.StatusForbidden, "permission denied")
)

type Status string

const (
	StatusActive    Status = "active"
	StatusCompleted Status = "completed"
	StatusCancelled Status = "cancelled"
)

// ValidStatus reports whether s is a known booking status.
func ValidStatus(s Status) bool {
	return s == StatusActive || s == StatusCompleted || s == StatusCancelled
}

type Booking struct {
	ID           string
	CourtID      string
	CourtName    string
	UserID       string
	UserName     string
	VenueID      string
	VenueName    string
	Date         time.Time // calendar date; time-of-day is always midnight UTC
	StartTime    string    // "HH:MM"
	EndTime      string    // "HH:MM"
	Status       Status
	CustomerName string // optional label for walk-in customers booked by the owner
	CreatedAt    time.Time
	UpdatedAt    time.Time
}

// Alternative is a sibling court offered when the requested slot is taken.
type Alternative struct {
	ID        string `json:"id"`
	Name      string `json:"name"`
	VenueName string `json:"venue_name"`
}

// ConflictError is returned when a requested interval overlaps an active
// booking. For create requests it carries alternative courts in the same
// venue that are free for the interval; for updates Suggestions is empty.
type ConflictError struct {
	CourtID     string
	Interval    Interval
	Suggestions []Alternative
}

func (e *ConflictError) Error() string {
	return ErrTimeConflict.Error()
}

// Unwrap lets errors.Is(err, ErrTimeConflict) keep working for callers that
// only care about the conflict itself.
func (e *ConflictError) Unwrap() error {
	return ErrTimeConflict
}

// Filter defines parameters for listing a user's bookings.
type Filter struct {
	UserID   string
	CourtID  string
	Status   string
	DateFrom *time.Time
	DateTo   *time.Time
	Page     int
	PageSize int
}

// OwnerFilter restricts an owner-scoped listing. Date bounds are inclusive;
// EndDate extends to the end of its day.
type OwnerFilter struct {
	StartDate *time.Time
	EndDate   *time.Time
	VenueID   string
	CourtID   string
	Status    string
}

// Summary holds rolling-window booking counts for a venue owner.
type Summary struct {
	Total      int `json:"total_bookings"`
	Active     int `json:"active_bookings"`
	Completed  int `json:"completed_bookings"`
	Cancelled  int `json:"cancelled_bookings"`
	PeriodDays int `json:"period_days"`
}
