package checkoutControllers

import (
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/vishal444/ecomm-api/apperrors"
	orderControllers "github.com/vishal444/ecomm-api/controllers/order"
	"github.com/vishal444/ecomm-api/models"
	"gorm.io/gorm"
)

type CheckoutRequest struct {
	UserEmail string `json:"user_email" binding:"required,email"`
	AddressID uint   `json:"address_id" binding:"required"`
}

// checkoutLine is the stock snapshot: quantity from the cart joined with the
// product's price and stock as read at the start of the transaction.
type checkoutLine struct {
	ProductID     uint
	Quantity      int
	Price         float64
	StockQuantity int
}

func newOrderRef() string {
	return time.Now().Format("20060102150405") + "-" + uuid.NewString()
}

// Checkout converts the user's cart into an order in a single transaction:
// validate stock, compute the total from the snapshot prices, insert the
// order and its item snapshots, decrement stock, clear the cart. Any failure
// rolls the whole thing back.
func Checkout(db *gorm.DB, userEmail string, addressID uint) (uint, error) {
	email := strings.ToLower(userEmail)
	var orderID uint

	err := db.Transaction(func(tx *gorm.DB) error {
		var user models.User
		if err := tx.Where("email = ?", email).First(&user).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("user")
			}
			return err
		}

		var cart models.Cart
		if err := tx.Where("user_id = ?", user.ID).First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("cart")
			}
			return err
		}

		var address models.Address
		if err := tx.Where("id = ? AND user_id = ?", addressID, user.ID).First(&address).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return apperrors.NotFound("address")
			}
			return err
		}

		var lines []checkoutLine
		err := tx.Table("cart_items").
			Select("cart_items.product_id, cart_items.quantity, products.price, products.stock_quantity").
			Joins("JOIN products ON products.id = cart_items.product_id").
			Where("cart_items.cart_id = ?", cart.CartID).
			Order("cart_items.id").
			Scan(&lines).Error
		if err != nil {
			return err
		}
		if len(lines) == 0 {
			return apperrors.BusinessRule("cart is empty")
		}

		var total float64
		for _, line := range lines {
			if line.Quantity > line.StockQuantity {
				return &apperrors.InsufficientStockError{ProductID: line.ProductID}
			}
			total += line.Price * float64(line.Quantity)
		}

		order := models.Order{
			OrderRef:      newOrderRef(),
			UserID:        user.ID,
			AddressID:     addressID,
			TotalAmount:   total,
			Status:        models.OrderStatusPending,
			PaymentStatus: models.PaymentStatusPending,
			CreatedAt:     time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, line := range lines {
			item := models.OrderItem{
				OrderID:   order.ID,
				ProductID: line.ProductID,
				Quantity:  line.Quantity,
				Price:     line.Price,
			}
			if err := tx.Create(&item).Error; err != nil {
				return err
			}

			// Guarded decrement: the stock condition re-checks inside the
			// write, so stock can never go negative even if another
			// transaction got there first.
			result := tx.Model(&models.Product{}).
				Where("id = ? AND stock_quantity >= ?", line.ProductID, line.Quantity).
				Update("stock_quantity", gorm.Expr("stock_quantity - ?", line.Quantity))
			if result.Error != nil {
				return result.Error
			}
			if result.RowsAffected == 0 {
				return &apperrors.InsufficientStockError{ProductID: line.ProductID}
			}
		}

		// Empty the cart but keep the cart row for reuse.
		if err := tx.Where("cart_id = ?", cart.CartID).Delete(&models.CartItem{}).Error; err != nil {
			return err
		}

		orderID = order.ID
		return nil
	})
	if err != nil {
		return 0, err
	}
	return orderID, nil
}

// POST /user/checkout
func CheckoutHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CheckoutRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		orderID, err := Checkout(db, req.UserEmail, req.AddressID)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		var order models.Order
		if err := db.Preload("Items").First(&order, orderID).Error; err == nil {
			orderControllers.BroadcastNewOrder(order)
		}

		c.JSON(http.StatusOK, gin.H{"message": "Checkout successful", "order_id": orderID})
	}
}
