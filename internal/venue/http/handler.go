package http

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nekogravitycat/venue-booking-backend/internal/auth"
	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/venue-booking-backend/internal/user"
	"github.com/nekogravitycat/venue-booking-backend/internal/venue"
)

type Handler struct {
	service     venue.Service
	userService user.Service
}

func NewHandler(service venue.Service, userService user.Service) *Handler {
	return &Handler{
		service:     service,
		userService: userService,
	}
}

// checkIsSysAdmin helper checks if the current user is a system admin
func (h *Handler) checkIsSysAdmin(c *gin.Context, userID string) bool {
	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		return false
	}
	return u.IsSystemAdmin
}

func (h *Handler) List(c *gin.Context) {
	var query ListVenuesRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	query.Normalize()

	filter := venue.Filter{
		Keyword:  query.Keyword,
		City:     query.City,
		District: query.District,
		Page:     query.Page,
		PageSize: query.PageSize,
	}
	if query.Mine {
		userID := auth.GetUserID(c)
		if userID == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
			return
		}
		filter.OwnerID = userID
	}

	venues, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list venues"})
		return
	}

	items := make([]VenueResponse, len(venues))
	for i, v := range venues {
		items[i] = NewResponse(v)
	}
	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	v, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, venue.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get venue"})
		return
	}

	c.JSON(http.StatusOK, NewResponse(v))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateVenueRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	u, err := h.userService.GetByID(c.Request.Context(), userID)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}
	if !u.IsOwner && !u.IsSystemAdmin {
		c.JSON(http.StatusForbidden, gin.H{"error": "owner account required"})
		return
	}

	req := venue.CreateRequest{
		OwnerID:       userID,
		Name:          body.Name,
		Address:       body.Address,
		District:      body.District,
		City:          body.City,
		Description:   body.Description,
		CourtQuantity: body.CourtQuantity,
		OpeningTime:   body.OpeningTime,
		ClosingTime:   body.ClosingTime,
		Facilities:    body.Facilities,
		SlotPrices:    toSlotPrices(body.SlotPrices),
		ContactPhone:  body.ContactPhone,
		ContactEmail:  body.ContactEmail,
	}

	v, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, venue.ErrNameRequired),
			errors.Is(err, venue.ErrAddressRequired),
			errors.Is(err, venue.ErrPhoneRequired),
			errors.Is(err, venue.ErrInvalidQuantity),
			errors.Is(err, venue.ErrInvalidHours),
			errors.Is(err, venue.ErrInvalidSlotPrice):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create venue"})
		}
		return
	}

	c.JSON(http.StatusCreated, NewResponse(v))
}

// ownsOrAdmin loads the venue and checks the caller may mutate it.
func (h *Handler) ownsOrAdmin(c *gin.Context, venueID string) (*venue.Venue, bool) {
	v, err := h.service.GetByID(c.Request.Context(), venueID)
	if err != nil {
		if errors.Is(err, venue.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
			return nil, false
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get venue"})
		return nil, false
	}

	userID := auth.GetUserID(c)
	if v.OwnerID != userID && !h.checkIsSysAdmin(c, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return nil, false
	}
	return v, true
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateVenueRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	if _, ok := h.ownsOrAdmin(c, id); !ok {
		return
	}

	req := venue.UpdateRequest{
		Name:          body.Name,
		Address:       body.Address,
		District:      body.District,
		City:          body.City,
		Description:   body.Description,
		CourtQuantity: body.CourtQuantity,
		OpeningTime:   body.OpeningTime,
		ClosingTime:   body.ClosingTime,
		Facilities:    body.Facilities,
		SlotPrices:    toSlotPrices(body.SlotPrices),
		ContactPhone:  body.ContactPhone,
		ContactEmail:  body.ContactEmail,
		IsActive:      body.IsActive,
	}

	v, err := h.service.Update(c.Request.Context(), id, req)
	if err != nil {
		switch {
		case errors.Is(err, venue.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
		case errors.Is(err, venue.ErrNameRequired),
			errors.Is(err, venue.ErrPhoneRequired),
			errors.Is(err, venue.ErrInvalidQuantity),
			errors.Is(err, venue.ErrInvalidHours),
			errors.Is(err, venue.ErrInvalidSlotPrice):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, venue.ErrCourtsStillBooked):
			c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update venue"})
		}
		return
	}

	c.JSON(http.StatusOK, NewResponse(v))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	if _, ok := h.ownsOrAdmin(c, id); !ok {
		return
	}

	if err := h.service.Delete(c.Request.Context(), id); err != nil {
		if errors.Is(err, venue.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "venue not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete venue"})
		return
	}

	c.Status(http.StatusNoContent)
}
