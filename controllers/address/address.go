package addressControllers

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/vishal444/ecomm-api/apperrors"
	"github.com/vishal444/ecomm-api/models"
	"gorm.io/gorm"
)

type CreateAddressRequest struct {
	UserEmail  string `json:"user_email" binding:"required,email"`
	Country    string `json:"country" binding:"required"`
	State      string `json:"state"`
	City       string `json:"city" binding:"required"`
	Street     string `json:"street" binding:"required"`
	PostalCode string `json:"postal_code" binding:"required"`
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

// GET /user/addresses?user_email=...
func GetAddressesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		email := c.Query("user_email")
		if email == "" {
			c.JSON(http.StatusBadRequest, gin.H{"error": "user_email is required"})
			return
		}

		user, err := findUserByEmail(db, email)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		var addresses []models.Address
		if err := db.Where("user_id = ?", user.ID).Find(&addresses).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		if len(addresses) == 0 {
			c.JSON(http.StatusNotFound, gin.H{"message": "No addresses found for the specified user"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"addresses": addresses})
	}
}

// POST /user/addresses
func CreateAddressHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var req CreateAddressRequest
		if err := c.ShouldBindJSON(&req); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid input: " + err.Error()})
			return
		}

		user, err := findUserByEmail(db, req.UserEmail)
		if err != nil {
			apperrors.Respond(c, err)
			return
		}

		address := models.Address{
			UserID:     user.ID,
			Country:    req.Country,
			State:      req.State,
			City:       req.City,
			Street:     req.Street,
			PostalCode: req.PostalCode,
		}
		if err := db.Create(&address).Error; err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusCreated, address)
	}
}
