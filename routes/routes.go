package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up the public, auth, user
// and admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB) {
	// Public catalog + health (no middleware)
	SetupPublicRoutes(r, db)

	// Auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// User routes (JWT-protected)
	SetupUserRoutes(r, db)

	// Admin routes (API-key-protected)
	SetupAdminRoutes(r, db)
}
