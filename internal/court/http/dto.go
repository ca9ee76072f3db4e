package http

import (
	"time"

	"github.com/nekogravitycat/venue-booking-backend/internal/court"
)

// CourtTag is the compact embed used by other modules' responses.
type CourtTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type CourtResponse struct {
	ID        string    `json:"id"`
	VenueID   string    `json:"venue_id"`
	VenueName string    `json:"venue_name"`
	Name      string    `json:"name"`
	IsActive  bool      `json:"is_active"`
	CreatedAt time.Time `json:"created_at"`
}

func NewResponse(c *court.Court) CourtResponse {
	return CourtResponse{
		ID:        c.ID,
		VenueID:   c.VenueID,
		VenueName: c.VenueName,
		Name:      c.Name,
		IsActive:  c.IsActive,
		CreatedAt: c.CreatedAt,
	}
}

type ListCourtsRequest struct {
	VenueID    string `form:"venue_id" binding:"required,uuid"`
	ActiveOnly bool   `form:"active_only"`
}

type UpdateCourtRequest struct {
	Name     *string `json:"name" binding:"omitempty,max=100"`
	IsActive *bool   `json:"is_active"`
}
