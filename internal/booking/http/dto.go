package http

import (
	"time"

	"github.com/nekogravitycat/venue-booking-backend/internal/booking"
	courtHttp "github.com/nekogravitycat/venue-booking-backend/internal/court/http"
	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/request"
	userHttp "github.com/nekogravitycat/venue-booking-backend/internal/user/http"
	venueHttp "github.com/nekogravitycat/venue-booking-backend/internal/venue/http"
)

const dateLayout = "2006-01-02"

// ListBookingsRequest defines query parameters for listing bookings.
type ListBookingsRequest struct {
	request.ListParams
	CourtID  string `form:"court_id" binding:"omitempty,uuid"`
	Status   string `form:"status" binding:"omitempty,oneof=active completed cancelled"`
	UserID   string `form:"user_id" binding:"omitempty,uuid"`
	DateFrom string `form:"date_from" binding:"omitempty,datetime=2006-01-02"`
	DateTo   string `form:"date_to" binding:"omitempty,datetime=2006-01-02"`
}

type BookingResponse struct {
	ID           string             `json:"id"`
	Court        courtHttp.CourtTag `json:"court"`
	User         userHttp.UserTag   `json:"user"`
	Venue        venueHttp.VenueTag `json:"venue"`
	Date         string             `json:"date"`
	StartTime    string             `json:"start_time"`
	EndTime      string             `json:"end_time"`
	Status       string             `json:"status"`
	CustomerName string             `json:"customer_name,omitempty"`
	CreatedAt    time.Time          `json:"created_at"`
	UpdatedAt    time.Time          `json:"updated_at"`
}

func NewBookingResponse(b *booking.Booking) BookingResponse {
	return BookingResponse{
		ID:           b.ID,
		Court:        courtHttp.CourtTag{ID: b.CourtID, Name: b.CourtName},
		User:         userHttp.UserTag{ID: b.UserID, Name: b.UserName},
		Venue:        venueHttp.VenueTag{ID: b.VenueID, Name: b.VenueName},
		Date:         b.Date.Format(dateLayout),
		StartTime:    b.StartTime,
		EndTime:      b.EndTime,
		Status:       string(b.Status),
		CustomerName: b.CustomerName,
		CreatedAt:    b.CreatedAt,
		UpdatedAt:    b.UpdatedAt,
	}
}

type CreateBookingRequest struct {
	CourtID      string `json:"court_id" binding:"required,uuid"`
	Date         string `json:"date" binding:"required,datetime=2006-01-02"`
	StartTime    string `json:"start_time" binding:"required"`
	EndTime      string `json:"end_time" binding:"required"`
	CustomerName string `json:"customer_name" binding:"omitempty,max=100"`
}

type UpdateBookingRequest struct {
	Date         *string `json:"date" binding:"omitempty,datetime=2006-01-02"`
	StartTime    *string `json:"start_time"`
	EndTime      *string `json:"end_time"`
	Status       *string `json:"status" binding:"omitempty,oneof=active completed cancelled"`
	CustomerName *string `json:"customer_name" binding:"omitempty,max=100"`
}

// AvailabilityRequest asks which of a venue's courts are free for a slot.
type AvailabilityRequest struct {
	VenueID        string `form:"venue_id" binding:"required,uuid"`
	Date           string `form:"date" binding:"required,datetime=2006-01-02"`
	StartTime      string `form:"start_time" binding:"required"`
	EndTime        string `form:"end_time" binding:"required"`
	ExcludeCourtID string `form:"exclude_court_id" binding:"omitempty,uuid"`
}

// ConflictCheckRequest probes a single court for an overlap.
type ConflictCheckRequest struct {
	CourtID          string `form:"court_id" binding:"required,uuid"`
	Date             string `form:"date" binding:"required,datetime=2006-01-02"`
	StartTime        string `form:"start_time" binding:"required"`
	EndTime          string `form:"end_time" binding:"required"`
	ExcludeBookingID string `form:"exclude_booking_id" binding:"omitempty,uuid"`
}

// OwnerBookingsRequest defines query parameters for the owner's listing.
type OwnerBookingsRequest struct {
	StartDate string `form:"start_date" binding:"omitempty,datetime=2006-01-02"`
	EndDate   string `form:"end_date" binding:"omitempty,datetime=2006-01-02"`
	VenueID   string `form:"venue_id" binding:"omitempty,uuid"`
	CourtID   string `form:"court_id" binding:"omitempty,uuid"`
	Status    string `form:"status" binding:"omitempty,oneof=active completed cancelled"`
}
