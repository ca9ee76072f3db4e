package court

import (
	"net/http"
	"time"

	"github.com/nekogravitycat/venue-booking-backend/internal/pkg/apperror"
)

var (
	ErrNotFound    = apperror.New(http.StatusNotFound, "court not found")
	ErrEmptyName   = apperror.New(http.StatusBadRequest, "name cannot be empty")
	ErrHasBookings = apperror.New(http.StatusConflict, "court still has bookings")
)

// Court is a single bookable unit inside a venue (e.g. "Court 3").
// Courts are created in batches by the venue module, one per unit of
// capacity; they are never created individually.
type Court struct {
	ID        string
	VenueID   string
	VenueName string
	Name      string
	IsActive  bool
	CreatedAt time.Time
}
