package api

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/nekogravitycat/venue-booking-backend/internal/auth"
	"github.com/nekogravitycat/venue-booking-backend/internal/booking"
	bookingHttp "github.com/nekogravitycat/venue-booking-backend/internal/booking/http"
	"github.com/nekogravitycat/venue-booking-backend/internal/court"
	courtHttp "github.com/nekogravitycat/venue-booking-backend/internal/court/http"
	"github.com/nekogravitycat/venue-booking-backend/internal/notification"
	notificationHttp "github.com/nekogravitycat/venue-booking-backend/internal/notification/http"
	"github.com/nekogravitycat/venue-booking-backend/internal/photo"
	photoHttp "github.com/nekogravitycat/venue-booking-backend/internal/photo/http"
	"github.com/nekogravitycat/venue-booking-backend/internal/user"
	userHttp "github.com/nekogravitycat/venue-booking-backend/internal/user/http"
	"github.com/nekogravitycat/venue-booking-backend/internal/venue"
	venueHttp "github.com/nekogravitycat/venue-booking-backend/internal/venue/http"
)

// RouterDeps bundles the services the router wires into handlers.
type RouterDeps struct {
	UserService         user.Service
	VenueService        venue.Service
	CourtService        court.Service
	BookingService      booking.Service
	NotificationService notification.Service
	PhotoService        photo.Service
	JWTManager          *auth.JWTManager
	AllowOrigins        []string
}

// NewRouter initializes the HTTP router engine.
// It is responsible for assembling middleware (CORS, Logger, Auth) and registering routes for various modules.
func NewRouter(deps RouterDeps) *gin.Engine {
	r := gin.New()

	// Global Middleware:
	// - Logger: Logs request information to the console.
	// - Recovery: Captures panics to prevent server crashes and returns a 500 error.
	r.Use(gin.Logger(), gin.Recovery())

	// Configure CORS (Cross-Origin Resource Sharing).
	config := cors.DefaultConfig()
	config.AllowOrigins = deps.AllowOrigins
	if len(config.AllowOrigins) == 0 {
		config.AllowOrigins = []string{"http://localhost:8081"}
	}
	config.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	config.AllowHeaders = []string{"Origin", "Content-Type", "Authorization"}
	r.Use(cors.New(config))

	// authMiddleware: Validates if the request contains a valid JWT.
	authMiddleware := auth.AuthRequired(deps.JWTManager)
	// sysAdminMiddleware: Further checks if the authenticated user has System Admin privileges.
	sysAdminMiddleware := RequireSystemAdmin(deps.UserService)

	// Initialize HTTP Handlers for each module (injecting Service dependencies).
	userHandler := userHttp.NewHandler(deps.UserService, deps.JWTManager)
	venueHandler := venueHttp.NewHandler(deps.VenueService, deps.UserService)
	courtHandler := courtHttp.NewHandler(deps.CourtService, deps.VenueService, deps.UserService)
	bookingHandler := bookingHttp.NewHandler(deps.BookingService, deps.UserService)
	notificationHandler := notificationHttp.NewHandler(deps.NotificationService)
	photoHandler := photoHttp.NewHandler(deps.PhotoService, deps.VenueService, deps.UserService)

	// Register API routes under /v1
	v1 := r.Group("/v1")
	{
		userHttp.RegisterRoutes(v1, userHandler, authMiddleware, sysAdminMiddleware)
		venueHttp.RegisterRoutes(v1, venueHandler, authMiddleware)
		courtHttp.RegisterRoutes(v1, courtHandler, authMiddleware)
		bookingHttp.RegisterRoutes(v1, bookingHandler, authMiddleware)
		notificationHttp.RegisterRoutes(v1, notificationHandler, authMiddleware)
		photoHttp.RegisterRoutes(v1, photoHandler, authMiddleware)
	}

	return r
}
