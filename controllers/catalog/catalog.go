package catalogControllers

import (
	"errors"
	"math"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/vishal444/ecomm-api/apperrors"
	"github.com/vishal444/ecomm-api/models"
	"gorm.io/gorm"
)

const defaultPageSize = 20

// ProductPage is one page of the catalog listing.
type ProductPage struct {
	Products      []models.Product `json:"products"`
	CurrentPage   int              `json:"currentPage"`
	TotalPages    int              `json:"totalPages"`
	TotalProducts int64            `json:"totalProducts"`
}

// ListProducts returns a 1-indexed page of products, optionally filtered by
// category name. Out-of-range pages return an empty list, not an error.
func ListProducts(db *gorm.DB, page, limit int, category string) (ProductPage, error) {
	if page < 1 {
		page = 1
	}
	if limit < 1 {
		limit = defaultPageSize
	}

	listQuery := db.Model(&models.Product{})
	countQuery := db.Model(&models.Product{})

	if category != "" {
		var cat models.Category
		if err := db.Where("name = ?", category).First(&cat).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return ProductPage{}, apperrors.NotFound("category")
			}
			return ProductPage{}, err
		}
		listQuery = listQuery.Where("category_id = ?", cat.ID)
		countQuery = countQuery.Where("category_id = ?", cat.ID)
	}

	var total int64
	if err := countQuery.Count(&total).Error; err != nil {
		return ProductPage{}, err
	}

	products := []models.Product{}
	err := listQuery.Order("id").
		Limit(limit).
		Offset((page - 1) * limit).
		Find(&products).Error
	if err != nil {
		return ProductPage{}, err
	}

	return ProductPage{
		Products:      products,
		CurrentPage:   page,
		TotalPages:    int(math.Ceil(float64(total) / float64(limit))),
		TotalProducts: total,
	}, nil
}

// GetProduct looks up a single product. A missing ID is a NotFound like every
// other lookup here.
func GetProduct(db *gorm.DB, id uint) (models.Product, error) {
	var product models.Product
	if err := db.Preload("Category").First(&product, id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.Product{}, apperrors.NotFound("product")
		}
		return models.Product{}, err
	}
	return product, nil
}

// GET /products?page=1&limit=20&category=...
func GetProductsHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		page, err := strconv.Atoi(c.DefaultQuery("page", "1"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid page"})
			return
		}
		limit, err := strconv.Atoi(c.DefaultQuery("limit", "20"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid limit"})
			return
		}

		result, err := ListProducts(db, page, limit, c.Query("category"))
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, result)
	}
}

// GET /products/:id
func GetProductByIDHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.ParseUint(c.Param("id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Invalid product ID"})
			return
		}

		product, err := GetProduct(db, uint(id))
		if err != nil {
			apperrors.Respond(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"product": product})
	}
}

// GET /categories
func GetAllCategoriesHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var categories []models.Category
		if err := db.Order("name").Find(&categories).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Failed to fetch categories"})
			return
		}
		c.JSON(http.StatusOK, categories)
	}
}
