package routes

import (
	"github.com/gin-gonic/gin"
	addressControllers "github.com/vishal444/ecomm-api/controllers/address"
	cartControllers "github.com/vishal444/ecomm-api/controllers/cart"
	checkoutControllers "github.com/vishal444/ecomm-api/controllers/checkout"
	orderControllers "github.com/vishal444/ecomm-api/controllers/order"
	userControllers "github.com/vishal444/ecomm-api/controllers/user"
	"github.com/vishal444/ecomm-api/middleware"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		// ──────────────── User Profile ────────────────
		userGroup.GET("/profile", userControllers.GetUserHandler(db))
		userGroup.PUT("/profile", userControllers.UpdateUserHandler(db))

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetCartHandler(db))
			cartGroup.POST("/", cartControllers.AddItemHandler(db))
			cartGroup.PUT("/", cartControllers.UpdateQuantityHandler(db))
			cartGroup.DELETE("/:product_id", cartControllers.RemoveItemHandler(db))
		}

		// ──────────────── Checkout ────────────────
		userGroup.POST("/checkout", checkoutControllers.CheckoutHandler(db))

		// ──────────────── Orders ────────────────
		userGroup.GET("/orders", orderControllers.GetUserOrdersHandler(db))
		userGroup.GET("/orders/:orderID", orderControllers.GetOrderByIDHandler(db))

		// ──────────────── Addresses ────────────────
		userGroup.GET("/addresses", addressControllers.GetAddressesHandler(db))
		userGroup.POST("/addresses", addressControllers.CreateAddressHandler(db))
	}
}
