package http

import (
	"github.com/gin-gonic/gin"
)

// RegisterRoutes registers photo-related routes.
func RegisterRoutes(g *gin.RouterGroup, h *Handler, authMiddleware gin.HandlerFunc) {
	group := g.Group("/photos")

	// === Public Routes ===
	group.GET("", h.ListByVenue)
	group.GET("/:id", h.ServePhoto)
	group.GET("/:id/thumbnail", h.ServeThumbnail)

	// === Authenticated Routes ===
	authed := group.Group("")
	authed.Use(authMiddleware)
	{
		authed.POST("", h.Upload)
		authed.DELETE("/:id", h.Delete)
	}
}
