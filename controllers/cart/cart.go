package cartControllers

import (
	"errors"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/vishal444/ecomm-api/apperrors"
	"github.com/vishal444/ecomm-api/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type AddItemRequest struct {
	UserEmail string `json:"user_email" binding:"required,email"`
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

type UpdateQuantityRequest struct {
	UserEmail string `json:"user_email" binding:"required,email"`
	ProductID uint   `json:"product_id" binding:"required"`
	Quantity  int    `json:"quantity" binding:"required,min=1"`
}

// CartLine is a cart item joined with the live product fields used for
// display.
type CartLine struct {
	ProductID uint    `json:"product_id"`
	Name      string  `json:"name"`
	Price     float64 `json:"price"`
	Images    string  `json:"images"`
	Quantity  int     `json:"quantity"`
}

func findUserByEmail(db *gorm.DB, email string) (models.User, error) {
	var user models.User
	err := db.Where("email = ?", strings.ToLower(email)).First(&user).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.User{}, apperrors.NotFound("user")
		}
		return models.User{}, err
	}
	return user, nil
}

func findCartByUser(db *gorm.DB, userID uint) (models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ?", userID).First(&cart).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Cart{}, apperrors.NotFound("cart")
		}
		return models.Cart{}, err
	}
	return cart, nil
}

// getOrCreateCart relies on the unique index on carts.user_id: concurrent
// first-adds race on the insert but only one row can exist.
func getOrCreateCart(db *gorm.DB, userID uint) (models.Cart, error) {
	cart := models.Cart{UserID: userID}
	err := db.Clauses(clause.OnConflict{
		Columns:   []clause.Column{{Name: "user_id"}},
		DoNothing: true,
	}).Create(&cart).Error
	if err != nil {
		return models.Cart{}, err
	}
	if cart.CartID != 0 {
		return cart, nil
	}
	// Insert conflicted, another request created the cart first.
	return findCartByUser(db, userID)
}

// AddItem upserts a cart line: a repeated add for the same product increments
// the existing quantity instead of inserting a second row.
func AddItem(db *gorm.DB, userEmail string, productID uint, quantity int) (models.CartItem, error) {
	if quantity < 1 {
		return models.CartItem{}, apperrors.Validation("quantity must be at least 1")
	}

	user, err := findUserByEmail(db, userEmail)
	if err != nil {
		return models.CartItem{}, err
	}

	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.CartItem{}, apperrors.NotFound("product")
		}
		return models.CartItem{}, err
	}

	cart, err := getOrCreateCart(db, user.ID)
	if err != nil {
		return models.CartItem{}, err
	}

	now := time.Now()
	item := models.CartItem{
		CartID:    cart.CartID,
		ProductID: productID,
		Quantity:  quantity,
		AddedAt:   now,
	}
	err = db.Clauses(clause.OnConflict{
		Columns: []clause.Column{{Name: "cart_id"}, {Name: "product_id"}},
		DoUpdates: clause.Assignments(map[string]interface{}{
			"quantity": gorm.Expr("quantity + ?", quantity),
			"added_at": now,
		}),
	}).Create(&item).Error
	if err != nil {
		return models.CartItem{}, err
	}

	// Re-read so the caller sees the merged quantity.
	if err := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error; err != nil {
		return models.CartItem{}, err
	}
	return item, nil
}

// UpdateQuantity sets the absolute quantity of an existing cart line.
func UpdateQuantity(db *gorm.DB, userEmail string, productID uint, quantity int) (models.CartItem, error) {
	if quantity < 1 {
		return models.CartItem{}, apperrors.Validation("quantity must be at least 1")
	}

	user, err := findUserByEmail(db, userEmail)
	if err != nil {
		return models.CartItem{}, err
	}
	cart, err := findCartByUser(db, user.ID)
	if err != nil {
		return models.CartItem{}, err
	}

	result := db.Model(&models.CartItem{}).
		Where("cart_id = ? AND product_id = ?", cart.CartID, productID).
		Update("quantity", quantity)
	if result.Error != nil {
		return models.CartItem{}, result.Error
	}
	if result.RowsAffected == 0 {
		return models.CartItem{}, apperrors.NotFound("cart item")
	}

	var item models.CartItem
	if err := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).First(&item).Error; err != nil {
		return models.CartItem{}, err
	}
	return item, nil
}

// GetCart returns the cart lines joined with product name, price and images.
// An existing cart with zero lines returns an empty slice, not an error.
func GetCart(db *gorm.DB, userEmail string) ([]CartLine, error) {
	user, err := findUserByEmail(db, userEmail)
	if err != nil {
		return nil, err
	}
	cart, err := findCartByUser(db, user.ID)
	if err != nil {
		return nil, err
	}

	lines := []CartLine{}
	err = db.Table("cart_items").
		Select("cart_items.product_id, cart_items.quantity, products.name, products.price, products.images").
		Joins("JOIN products ON products.id = cart_items.product_id").
		Where("cart_items.cart_id = ?", cart.CartID).
		Order("cart_items.id").
		Scan(&lines).Error
	if err != nil {
		return nil, err
	}
	return lines, nil
}

// RemoveItem deletes a single cart line.
func RemoveItem(db *gorm.DB, userEmail string, productID uint) error {
	user, err := findUserByEmail(db, userEmail)
	if err != nil {
		return err
	}
	cart, err := findCartByUser(db, user.ID)
	if err != nil {
		return err
	}

	result := db.Where("cart_id = ? AND product_id = ?", cart.CartID, productID).Delete(&models.CartItem{})
	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return apperrors.NotFound("cart item")
	}
	return nil
}

// POST /user/cart
func AddItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req AddItemRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := AddItem(db, req.UserEmail, req.ProductID, req.Quantity)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Product added to cart successfully", "item": item})
	}
}

// PUT /user/cart
func UpdateQuantityHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req UpdateQuantityRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		item, err := UpdateQuantity(db, req.UserEmail, req.ProductID, req.Quantity)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item quantity updated successfully", "item": item})
	}
}

// GET /user/cart?user_email=...
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("user_email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_email is required"})
			return
		}

		lines, err := GetCart(db, email)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"cart_items": lines})
	}
}

// DELETE /user/cart/:product_id?user_email=...
func RemoveItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("user_email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_email is required"})
			return
		}
		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		if err := RemoveItem(db, email, uint(productID)); err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"message": "Cart item deleted"})
	}
}
