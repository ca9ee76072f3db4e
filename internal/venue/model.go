package venue

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound          = apperror.New(http.StatusNotFound, "venue not found")
	ErrNameRequired      = apperror.New(http.StatusBadRequest, "name is required")
	ErrAddressRequired   = apperror.New(http.StatusBadRequest, "address is required")
	ErrPhoneRequired     = apperror.New(http.StatusBadRequest, "contact phone is required")
	ErrInvalidQuantity   = apperror.New(http.StatusBadRequest, "court quantity must be at least 1")
	ErrInvalidHours      = apperror.New(http.StatusBadRequest, "opening time must be before closing time")
	ErrInvalidSlotPrice  = apperror.New(http.StatusBadRequest, "invalid slot price entry")
	ErrCourtsStillBooked = apperror.New(http.StatusConflict, "cannot reduce quantity: remaining courts hold bookings")
)

// SlotPrice is one entry of a venue's price-by-time table. Prices are kept
// as display strings; the engine never computes with them.
type SlotPrice struct {
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	Price     string `json:"price"`
}

// Venue is a court complex owned by a single user. Its courts are generated
// from CourtQuantity, one per unit.
type Venue struct {
	ID            string
	OwnerID       string
	Name          string
	Address       string
	District      string
	City          string
	Description   string
	CourtQuantity int
	OpeningTime   string // "HH:MM"
	ClosingTime   string // "HH:MM"
	Facilities    []string
	SlotPrices    []SlotPrice
	ContactPhone  string
	ContactEmail  string
	IsActive      bool
	CreatedAt     time.Time
	UpdatedAt     time.Time
}

// Filter defines parameters for listing venues.
type Filter struct {
	OwnerID  string
	Keyword  string // matches name or address
	City     string
	District string
	Page     int
	PageSize int
}
