package routes

import (
	"github.com/gin-gonic/gin"
	catalogControllers "github.com/vishal444/ecomm-api/controllers/catalog"
	orderControllers "github.com/vishal444/ecomm-api/controllers/order"
	userControllers "github.com/vishal444/ecomm-api/controllers/user"
	"github.com/vishal444/ecomm-api/middleware"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Requires API-Key middleware.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateAPIKey)
	{
		// ─────────── User Management ───────────
		adminGroup.GET("/users", userControllers.GetAllUsersHandler(db))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.POST("", catalogControllers.CreateProductHandler(db))
			productAdmin.PUT("/:id", catalogControllers.UpdateProductHandler(db))
			productAdmin.DELETE("/:id", catalogControllers.DeleteProductHandler(db))
			productAdmin.GET("/export-excel", catalogControllers.ExportProductsToExcelHandler(db))
		}

		// ─────────── Category Management ───────────
		adminGroup.POST("/categories", catalogControllers.CreateCategoryHandler(db))

		// ─────────── Order Management ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(db))
			orderAdmin.GET("/ws", orderControllers.OrderWebSocketHandler)
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))
			orderAdmin.PUT("/:orderID/payment-status", orderControllers.UpdatePaymentStatusHandler(db))
		}
	}
}
