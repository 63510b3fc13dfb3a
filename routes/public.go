package routes

import (
	"net/http"

	"github.com/gin-gonic/gin"
	catalogControllers "github.com/vishal444/ecomm-api/controllers/catalog"
	"gorm.io/gorm"
)

// SetupPublicRoutes registers the unauthenticated endpoints.
func SetupPublicRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/healthCheck", func(c *gin.Context) {
		sqlDB, err := db.DB()
		if err == nil {
			err = sqlDB.Ping()
		}
		if err != nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{"status": "db unreachable"})
			return
		}
		c.String(http.StatusOK, "health check passed")
	})

	r.GET("/productsList", catalogControllers.GetProductsHandler(db))
	r.GET("/products/:id", catalogControllers.GetProductByIDHandler(db))
	r.GET("/categories", catalogControllers.GetAllCategoriesHandler(db))
}
