package http

import (
	"time"

	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/request"
	"github.com/nekogravitycat/venue-booking-backend/internal/venue"
)

// VenueTag is the compact embed used by other modules' responses.
type VenueTag struct {
	ID   string `json:"id"`
	Name string `json:"name"`
}

type VenueResponse struct {
	ID            string            `json:"id"`
	OwnerID       string            `json:"owner_id"`
	Name          string            `json:"name"`
	Address       string            `json:"address"`
	District      string            `json:"district"`
	City          string            `json:"city"`
	Description   string            `json:"description,omitempty"`
	CourtQuantity int               `json:"court_quantity"`
	OpeningTime   string            `json:"opening_time"`
	ClosingTime   string            `json:"closing_time"`
	Facilities    []string          `json:"facilities"`
	SlotPrices    []venue.SlotPrice `json:"slot_prices"`
	ContactPhone  string            `json:"contact_phone,omitempty"`
	ContactEmail  string            `json:"contact_email,omitempty"`
	IsActive      bool              `json:"is_active"`
	CreatedAt     time.Time         `json:"created_at"`
	UpdatedAt     time.Time         `json:"updated_at"`
}

func NewResponse(v *venue.Venue) VenueResponse {
	facilities := v.Facilities
	if facilities == nil {
		facilities = []string{}
	}
	slotPrices := v.SlotPrices
	if slotPrices == nil {
		slotPrices = []venue.SlotPrice{}
	}
	return VenueResponse{
		ID:            v.ID,
		OwnerID:       v.OwnerID,
		Name:          v.Name,
		Address:       v.Address,
		District:      v.District,
		City:          v.City,
		Description:   v.Description,
		CourtQuantity: v.CourtQuantity,
		OpeningTime:   v.OpeningTime,
		ClosingTime:   v.ClosingTime,
		Facilities:    facilities,
		SlotPrices:    slotPrices,
		ContactPhone:  v.ContactPhone,
		ContactEmail:  v.ContactEmail,
		IsActive:      v.IsActive,
		CreatedAt:     v.CreatedAt,
		UpdatedAt:     v.UpdatedAt,
	}
}

type ListVenuesRequest struct {
	request.ListParams
	Keyword  string `form:"keyword" binding:"omitempty,max=100"`
	City     string `form:"city" binding:"omitempty,max=50"`
	District string `form:"district" binding:"omitempty,max=50"`
	Mine     bool   `form:"mine"`
}

type SlotPriceBody struct {
	StartTime string `json:"start_time" binding:"required"`
	EndTime   string `json:"end_time" binding:"required"`
	Price     string `json:"price" binding:"required"`
}

type CreateVenueRequest struct {
	Name          string          `json:"name" binding:"required,max=100"`
	Address       string          `json:"address" binding:"required,max=200"`
	District      string          `json:"district" binding:"omitempty,max=50"`
	City          string          `json:"city" binding:"required,max=50"`
	Description   string          `json:"description" binding:"omitempty,max=1000"`
	CourtQuantity int             `json:"court_quantity" binding:"required,min=1,max=100"`
	OpeningTime   string          `json:"opening_time" binding:"required"`
	ClosingTime   string          `json:"closing_time" binding:"required"`
	Facilities    []string        `json:"facilities"`
	SlotPrices    []SlotPriceBody `json:"slot_prices"`
	ContactPhone  string          `json:"contact_phone" binding:"required,max=30"`
	ContactEmail  string          `json:"contact_email" binding:"omitempty,email"`
}

type UpdateVenueRequest struct {
	Name          *string         `json:"name" binding:"omitempty,max=100"`
	Address       *string         `json:"address" binding:"omitempty,max=200"`
	District      *string         `json:"district" binding:"omitempty,max=50"`
	City          *string         `json:"city" binding:"omitempty,max=50"`
	Description   *string         `json:"description" binding:"omitempty,max=1000"`
	CourtQuantity *int            `json:"court_quantity" binding:"omitempty,min=1,max=100"`
	OpeningTime   *string         `json:"opening_time"`
	ClosingTime   *string         `json:"closing_time"`
	Facilities    []string        `json:"facilities"`
	SlotPrices    []SlotPriceBody `json:"slot_prices"`
	ContactPhone  *string         `json:"contact_phone" binding:"omitempty,max=30"`
	ContactEmail  *string         `json:"contact_email" binding:"omitempty,email"`
	IsActive      *bool           `json:"is_active"`
}

func toSlotPrices(body []SlotPriceBody) []venue.SlotPrice {
	if body == nil {
		return nil
	}
	out := make([]venue.SlotPrice, len(body))
	for i, sp := range body {
		out[i] = venue.SlotPrice{StartTime: sp.StartTime, EndTime: sp.EndTime, Price: sp.Price}
	}
	return out
}
