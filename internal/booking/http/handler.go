package http

import (
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/nekogravitycat/venue-booking-backend/internal/auth"
	"github.com/nekogravitycat/venue-booking-backend/internal/booking"
	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/response"
	"github.com/nekogravitycat/venue-booking-backend/internal/user"
)

type Handler struct {
	service     booking.Service
	userService user.Service
}

func NewHandler(service booking.Service, userService user.Service) *Handler {
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

func mustParseDate(v string) time.Time {
	// Binding already validated the layout.
	t, _ := time.Parse(dateLayout, v)
	return t
}

// writeConflict renders a 409 with sibling-court suggestions when available.
func writeConflict(c *gin.Context, err error) {
	var conflictErr *booking.ConflictError
	if errors.As(err, &conflictErr) {
		suggestions := conflictErr.Suggestions
		if suggestions == nil {
			suggestions = []booking.Alternative{}
		}
		c.JSON(http.StatusConflict, gin.H{
			"error":       "time slot already booked",
			"suggestions": suggestions,
		})
		return
	}
	c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
}

func (h *Handler) List(c *gin.Context) {
	var query ListBookingsRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}
	query.Normalize()

	var dateFrom, dateTo *time.Time
	if query.DateFrom != "" {
		t := mustParseDate(query.DateFrom)
		dateFrom = &t
	}
	if query.DateTo != "" {
		t := mustParseDate(query.DateTo)
		dateTo = &t
	}

	// Regular users only see their own bookings; admins may see all or
	// filter by a specific user.
	currentUserID := auth.GetUserID(c)
	filterUserID := currentUserID
	if h.checkIsSysAdmin(c, currentUserID) {
		filterUserID = query.UserID
	}

	filter := booking.Filter{
		UserID:   filterUserID,
		CourtID:  query.CourtID,
		Status:   query.Status,
		DateFrom: dateFrom,
		DateTo:   dateTo,
		Page:     query.Page,
		PageSize: query.PageSize,
	}

	bookings, total, err := h.service.List(c.Request.Context(), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list bookings"})
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}

	c.JSON(http.StatusOK, response.NewPageResponse(items, filter.Page, filter.PageSize, total))
}

func (h *Handler) Create(c *gin.Context) {
	var body CreateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	if userID == "" {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	req := booking.CreateRequest{
		UserID:       userID,
		CourtID:      body.CourtID,
		Date:         mustParseDate(body.Date),
		StartTime:    body.StartTime,
		EndTime:      body.EndTime,
		CustomerName: body.CustomerName,
	}

	b, err := h.service.Create(c.Request.Context(), req)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrCourtNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
		case errors.Is(err, booking.ErrInvalidTimeFormat), errors.Is(err, booking.ErrInvalidTimeRange):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, booking.ErrTimeConflict):
			writeConflict(c, err)
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to create booking"})
		}
		return
	}

	c.JSON(http.StatusCreated, NewBookingResponse(b))
}

func (h *Handler) Get(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	b, err := h.service.GetByID(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to get booking"})
		return
	}

	userID := auth.GetUserID(c)
	if userID != b.UserID && !h.checkIsSysAdmin(c, userID) {
		c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Update(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	var body UpdateBookingRequest
	if err := c.ShouldBindJSON(&body); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body", "details": err.Error()})
		return
	}

	userID := auth.GetUserID(c)
	isSysAdmin := h.checkIsSysAdmin(c, userID)

	req := booking.UpdateRequest{
		StartTime:    body.StartTime,
		EndTime:      body.EndTime,
		Status:       body.Status,
		CustomerName: body.CustomerName,
	}
	if body.Date != nil {
		t := mustParseDate(*body.Date)
		req.Date = &t
	}

	b, err := h.service.Update(c.Request.Context(), id, req, userID, isSysAdmin)
	if err != nil {
		switch {
		case errors.Is(err, booking.ErrNotFound):
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
		case errors.Is(err, booking.ErrPermissionDenied):
			c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
		case errors.Is(err, booking.ErrInvalidTimeFormat),
			errors.Is(err, booking.ErrInvalidTimeRange),
			errors.Is(err, booking.ErrInvalidStatus):
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		case errors.Is(err, booking.ErrTimeConflict):
			writeConflict(c, err)
		default:
			c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to update booking"})
		}
		return
	}

	c.JSON(http.StatusOK, NewBookingResponse(b))
}

func (h *Handler) Delete(c *gin.Context) {
	id := c.Param("id")
	if _, err := uuid.Parse(id); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid UUID"})
		return
	}

	userID := auth.GetUserID(c)
	isSysAdmin := h.checkIsSysAdmin(c, userID)

	err := h.service.Delete(c.Request.Context(), id, userID, isSysAdmin)
	if err != nil {
		if errors.Is(err, booking.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "booking not found"})
			return
		}
		if errors.Is(err, booking.ErrPermissionDenied) {
			c.JSON(http.StatusForbidden, gin.H{"error": "permission denied"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to delete booking"})
		return
	}

	c.Status(http.StatusNoContent)
}

func (h *Handler) Availability(c *gin.Context) {
	var query AvailabilityRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	courts, err := h.service.FindAvailable(
		c.Request.Context(),
		query.VenueID,
		mustParseDate(query.Date),
		query.StartTime,
		query.EndTime,
		query.ExcludeCourtID,
	)
	if err != nil {
		if errors.Is(err, booking.ErrInvalidTimeFormat) || errors.Is(err, booking.ErrInvalidTimeRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check availability"})
		return
	}

	items := make([]booking.Alternative, 0, len(courts))
	for _, crt := range courts {
		items = append(items, booking.Alternative{ID: crt.ID, Name: crt.Name, VenueName: crt.VenueName})
	}
	c.JSON(http.StatusOK, gin.H{"available_courts": items})
}

func (h *Handler) ConflictCheck(c *gin.Context) {
	var query ConflictCheckRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	conflict, err := h.service.HasConflict(
		c.Request.Context(),
		query.CourtID,
		mustParseDate(query.Date),
		query.StartTime,
		query.EndTime,
		query.ExcludeBookingID,
	)
	if err != nil {
		if errors.Is(err, booking.ErrInvalidTimeFormat) || errors.Is(err, booking.ErrInvalidTimeRange) {
			c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to check conflict"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"conflict": conflict})
}

func (h *Handler) ListForOwner(c *gin.Context) {
	var query OwnerBookingsRequest
	if err := c.ShouldBindQuery(&query); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid query parameters", "details": err.Error()})
		return
	}

	filter := booking.OwnerFilter{
		VenueID: query.VenueID,
		CourtID: query.CourtID,
		Status:  query.Status,
	}
	if query.StartDate != "" {
		t := mustParseDate(query.StartDate)
		filter.StartDate = &t
	}
	if query.EndDate != "" {
		t := mustParseDate(query.EndDate)
		filter.EndDate = &t
	}

	bookings, err := h.service.ListForOwner(c.Request.Context(), auth.GetUserID(c), filter)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to list owner bookings"})
		return
	}

	items := make([]BookingResponse, len(bookings))
	for i, b := range bookings {
		items[i] = NewBookingResponse(b)
	}
	c.JSON(http.StatusOK, gin.H{"bookings": items})
}

func (h *Handler) OwnerSummary(c *gin.Context) {
	summary, err := h.service.OwnerSummary(c.Request.Context(), auth.GetUserID(c))
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to build summary"})
		return
	}
	c.JSON(http.StatusOK, summary)
}
