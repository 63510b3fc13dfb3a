package cartControllers_test

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishal444/ecomm-api/apperrors"
	cartControllers "github.com/vishal444/ecomm-api/controllers/cart"
	"github.com/vishal444/ecomm-api/models"
	"github.com/vishal444/ecomm-api/testutil"
	"golang.org/x/sync/errgroup"
)

func TestAddItemMergesDuplicateAdds(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "shopper@example.com")
	product := testutil.SeedProduct(t, db, "Keyboard", 49.90, 10)

	_, err := cartControllers.AddItem(db, user.Email, product.ID, 2)
	require.NoError(t, err)
	item, err := cartControllers.AddItem(db, user.Email, product.ID, 3)
	require.NoError(t, err)

	assert.Equal(t, 5, item.Quantity)

	var count int64
	require.NoError(t, db.Model(&models.CartItem{}).
		Where("product_id = ?", product.ID).Count(&count).Error)
	assert.EqualValues(t, 1, count, "duplicate adds must not create a second row")
}

func TestAddItemLookupIsCaseInsensitive(t *testing.T) {
	db := testutil.OpenDB(t)
	testutil.SeedUser(t, db, "shopper@example.com")
	product := testutil.SeedProduct(t, db, "Mouse", 19.90, 5)

	item, err := cartControllers.AddItem(db, "SHOPPER@Example.COM", product.ID, 1)
	require.NoError(t, err)
	assert.Equal(t, 1, item.Quantity)
}

func TestAddItemUnknownUser(t *testing.T) {
	db := testutil.OpenDB(t)
	product := testutil.SeedProduct(t, db, "Mouse", 19.90, 5)

	_, err := cartControllers.AddItem(db, "nobody@example.com", product.ID, 1)
	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "user", nf.Resource)
}

func TestAddItemUnknownProduct(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "shopper@example.com")

	_, err := cartControllers.AddItem(db, user.Email, 9999, 1)
	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "product", nf.Resource)
}

func TestConcurrentFirstAddsCreateOneCart(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "shopper@example.com")
	product := testutil.SeedProduct(t, db, "Keyboard", 49.90, 100)

	var g errgroup.Group
	for i := 0; i < 10; i++ {
		g.Go(func() error {
			_, err := cartControllers.AddItem(db, user.Email, product.ID, 1)
			return err
		})
	}
	require.NoError(t, g.Wait())

	var carts int64
	require.NoError(t, db.Model(&models.Cart{}).
		Where("user_id = ?", user.ID).Count(&carts).Error)
	assert.EqualValues(t, 1, carts)

	var item models.CartItem
	require.NoError(t, db.Where("product_id = ?", product.ID).First(&item).Error)
	assert.Equal(t, 10, item.Quantity)
}

func TestUpdateQuantitySetsAbsoluteValue(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "shopper@example.com")
	product := testutil.SeedProduct(t, db, "Keyboard", 49.90, 10)

	_, err := cartControllers.AddItem(db, user.Email, product.ID, 2)
	require.NoError(t, err)

	item, err := cartControllers.UpdateQuantity(db, user.Email, product.ID, 7)
	require.NoError(t, err)
	assert.Equal(t, 7, item.Quantity, "update is an absolute set, not a delta")
}

func TestUpdateQuantityMissingItemLeavesCartUntouched(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "shopper@example.com")
	keyboard := testutil.SeedProduct(t, db, "Keyboard", 49.90, 10)
	mouse := testutil.SeedProduct(t, db, "Mouse", 19.90, 5)

	_, err := cartControllers.AddItem(db, user.Email, keyboard.ID, 2)
	require.NoError(t, err)

	_, err = cartControllers.UpdateQuantity(db, user.Email, mouse.ID, 3)
	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "cart item", nf.Resource)

	var item models.CartItem
	require.NoError(t, db.Where("product_id = ?", keyboard.ID).First(&item).Error)
	assert.Equal(t, 2, item.Quantity, "existing line must be unmodified")
}

func TestUpdateQuantityNoCart(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "shopper@example.com")
	product := testutil.SeedProduct(t, db, "Keyboard", 49.90, 10)

	_, err := cartControllers.UpdateQuantity(db, user.Email, product.ID, 3)
	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "cart", nf.Resource)
}

func TestGetCartJoinsProductFields(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "shopper@example.com")
	product := testutil.SeedProduct(t, db, "Keyboard", 49.90, 10)

	_, err := cartControllers.AddItem(db, user.Email, product.ID, 2)
	require.NoError(t, err)

	lines, err := cartControllers.GetCart(db, user.Email)
	require.NoError(t, err)
	require.Len(t, lines, 1)
	assert.Equal(t, product.ID, lines[0].ProductID)
	assert.Equal(t, "Keyboard", lines[0].Name)
	assert.Equal(t, 49.90, lines[0].Price)
	assert.Equal(t, 2, lines[0].Quantity)
}

func TestGetCartNoCart(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "shopper@example.com")

	_, err := cartControllers.GetCart(db, user.Email)
	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
	assert.Equal(t, "cart", nf.Resource)
}

func TestRemoveItem(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "shopper@example.com")
	product := testutil.SeedProduct(t, db, "Keyboard", 49.90, 10)

	_, err := cartControllers.AddItem(db, user.Email, product.ID, 2)
	require.NoError(t, err)
	require.NoError(t, cartControllers.RemoveItem(db, user.Email, product.ID))

	lines, err := cartControllers.GetCart(db, user.Email)
	require.NoError(t, err)
	assert.Empty(t, lines)

	err = cartControllers.RemoveItem(db, user.Email, product.ID)
	var nf *apperrors.NotFoundError
	require.ErrorAs(t, err, &nf)
}
