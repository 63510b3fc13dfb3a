package testutil

import (
	"testing"
	"time"

	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/require"
	"github.com/vishal444/ecomm-api/models"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// OpenDB returns an in-memory database with the full schema migrated.
// MaxOpenConns is pinned to 1 so every caller sees the same memory database.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)

	require.NoError(t, db.AutoMigrate(
		&models.User{},
		&models.Address{},
		&models.Category{},
		&models.Product{},
		&models.Cart{},
		&models.CartItem{},
		&models.Order{},
		&models.OrderItem{},
	))
	return db
}

// SeedUser inserts a user with the given (already lowercased) email. The
// password for every seeded user is "secret-password".
func SeedUser(t *testing.T, db *gorm.DB, email string) models.User {
	t.Helper()

	hash, err := bcrypt.GenerateFromPassword([]byte("secret-password"), bcrypt.MinCost)
	require.NoError(t, err)

	user := models.User{
		Name:         "Test User",
		Email:        email,
		PasswordHash: string(hash),
		CreatedAt:    time.Now(),
	}
	require.NoError(t, db.Create(&user).Error)
	return user
}

func SeedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()

	product := models.Product{
		Name:          name,
		Price:         price,
		StockQuantity: stock,
	}
	require.NoError(t, db.Create(&product).Error)
	return product
}

func SeedAddress(t *testing.T, db *gorm.DB, userID uint) models.Address {
	t.Helper()

	address := models.Address{
		UserID:     userID,
		Country:    "IN",
		City:       "Bengaluru",
		Street:     "12 MG Road",
		PostalCode: "560001",
	}
	require.NoError(t, db.Create(&address).Error)
	return address
}
