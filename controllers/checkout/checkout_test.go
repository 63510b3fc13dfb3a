package checkoutControllers_test

import (
	"reflect"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/vishal444/ecomm-api/apperrors"
	cartControllers "github.com/vishal444/ecomm-api/controllers/cart"
	checkoutControllers "github.com/vishal444/ecomm-api/controllers/checkout"
	"github.com/vishal444/ecomm-api/models"
	"github.com/vishal444/ecomm-api/testutil"
	"gorm.io/gorm"
)

func countRows(t *testing.T, db *gorm.DB, model interface{}) int64 {
	t.Helper()
	var n int64
	require.NoError(t, db.Model(model).Count(&n).Error)
	return n
}

func TestCheckoutSuccess(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "buyer@example.com")
	address := testutil.SeedAddress(t, db, user.ID)
	keyboard := testutil.SeedProduct(t, db, "Keyboard", 49.90, 10)
	mouse := testutil.SeedProduct(t, db, "Mouse", 19.90, 5)

	_, err := cartControllers.AddItem(db, user.Email, keyboard.ID, 2)
	require.NoError(t, err)
	_, err = cartControllers.AddItem(db, user.Email, mouse.ID, 3)
	require.NoError(t, err)

	orderID, err := checkoutControllers.Checkout(db, user.Email, address.ID)
	require.NoError(t, err)
	require.NotZero(t, orderID)

	var order models.Order
	require.NoError(t, db.Preload("Items").First(&order, orderID).Error)

	assert.Equal(t, models.OrderStatusPending, order.Status)
	assert.Equal(t, user.ID, order.UserID)
	assert.Equal(t, address.ID, order.AddressID)
	assert.NotEmpty(t, order.OrderRef)
	require.Len(t, order.Items, 2)

	// Total equals the sum of the item snapshots.
	var itemSum float64
	for _, item := range order.Items {
		itemSum += item.Price * float64(item.Quantity)
	}
	assert.InDelta(t, itemSum, order.TotalAmount, 1e-9)
	assert.InDelta(t, 49.90*2+19.90*3, order.TotalAmount, 1e-9)

	// Stock decremented by exactly the ordered quantities.
	var p models.Product
	require.NoError(t, db.First(&p, keyboard.ID).Error)
	assert.Equal(t, 8, p.StockQuantity)
	p = models.Product{}
	require.NoError(t, db.First(&p, mouse.ID).Error)
	assert.Equal(t, 2, p.StockQuantity)

	// Cart emptied but the cart row survives.
	assert.EqualValues(t, 0, countRows(t, db, &models.CartItem{}))
	assert.EqualValues(t, 1, countRows(t, db, &models.Cart{}))
}

func TestCheckoutExactStockSucceeds(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "buyer@example.com")
	address := testutil.SeedAddress(t, db, user.ID)
	keyboard := testutil.SeedProduct(t, db, "Keyboard", 49.90, 5)

	// Quantity equal to stock is allowed; only quantity > stock is a
	// shortfall.
	_, err := cartControllers.AddItem(db, user.Email, keyboard.ID, 5)
	require.NoError(t, err)

	orderID, err := checkoutControllers.Checkout(db, user.Email, address.ID)
	require.NoError(t, err)
	require.NotZero(t, orderID)

	var p models.Product
	require.NoError(t, db.First(&p, keyboard.ID).Error)
	assert.Equal(t, 0, p.StockQuantity)
}

func TestCheckoutLateShortfallHitsDecrementGuard(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "buyer@example.com")
	address := testutil.SeedAddress(t, db, user.ID)
	keyboard := testutil.SeedProduct(t, db, "Keyboard", 49.90, 5)

	_, err := cartControllers.AddItem(db, user.Email, keyboard.ID, 2)
	require.NoError(t, err)

	// Drain the stock after the snapshot read has already validated it. The
	// order-item insert runs between the validation and the guarded
	// decrement, so hooking it mutates stock exactly inside that window.
	drained := false
	err = db.Callback().Create().Before("gorm:create").Register("drain_stock", func(tx *gorm.DB) {
		if drained || tx.Statement.Schema == nil ||
			tx.Statement.Schema.ModelType != reflect.TypeOf(models.OrderItem{}) {
			return
		}
		drained = true
		tx.Session(&gorm.Session{NewDB: true}).
			Model(&models.Product{}).
			Where("id = ?", keyboard.ID).
			Update("stock_quantity", 1)
	})
	require.NoError(t, err)
	t.Cleanup(func() { _ = db.Callback().Create().Remove("drain_stock") })

	_, err = checkoutControllers.Checkout(db, user.Email, address.ID)
	var ise *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, keyboard.ID, ise.ProductID)
	assert.True(t, drained, "the drain must have fired inside the transaction")

	// The rollback covers the drain too: no order, no items, stock intact,
	// cart untouched.
	assert.EqualValues(t, 0, countRows(t, db, &models.Order{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.OrderItem{}))

	var p models.Product
	require.NoError(t, db.First(&p, keyboard.ID).Error)
	assert.Equal(t, 5, p.StockQuantity)
	assert.EqualValues(t, 1, countRows(t, db, &models.CartItem{}))
}

func TestCheckoutOrderRefsAreUnique(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "buyer@example.com")
	address := testutil.SeedAddress(t, db, user.ID)
	keyboard := testutil.SeedProduct(t, db, "Keyboard", 49.90, 10)

	refs := make(map[string]struct{})
	for i := 0; i < 3; i++ {
		_, err := cartControllers.AddItem(db, user.Email, keyboard.ID, 1)
		require.NoError(t, err)

		orderID, err := checkoutControllers.Checkout(db, user.Email, address.ID)
		require.NoError(t, err)

		var order models.Order
		require.NoError(t, db.First(&order, orderID).Error)
		require.NotEmpty(t, order.OrderRef)
		refs[order.OrderRef] = struct{}{}
	}
	assert.Len(t, refs, 3, "every order gets its own ref")
}

func TestCheckoutInsufficientStockRollsBackEverything(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "buyer@example.com")
	address := testutil.SeedAddress(t, db, user.ID)
	keyboard := testutil.SeedProduct(t, db, "Keyboard", 49.90, 10)
	mouse := testutil.SeedProduct(t, db, "Mouse", 19.90, 2)

	_, err := cartControllers.AddItem(db, user.Email, keyboard.ID, 2)
	require.NoError(t, err)
	_, err = cartControllers.AddItem(db, user.Email, mouse.ID, 3) // exceeds stock
	require.NoError(t, err)

	_, err = checkoutControllers.Checkout(db, user.Email, address.ID)
	var ise *apperrors.InsufficientStockError
	require.ErrorAs(t, err, &ise)
	assert.Equal(t, mouse.ID, ise.ProductID)

	// Nothing changed: no order, no order items, stock intact, cart intact.
	assert.EqualValues(t, 0, countRows(t, db, &models.Order{}))
	assert.EqualValues(t, 0, countRows(t, db, &models.OrderItem{}))

	var p models.Product
	require.NoError(t, db.First(&p, keyboard.ID).Error)
	assert.Equal(t, 10, p.StockQuantity)
	p = models.Product{}
	require.NoError(t, db.First(&p, mouse.ID).Error)
	assert.Equal(t, 2, p.StockQuantity)

	assert.EqualValues(t, 2, countRows(t, db, &models.CartItem{}))
}

func TestCheckoutPriceSnapshotSurvivesPriceChange(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "buyer@example.com")
	address := testutil.SeedAddress(t, db, user.ID)
	keyboard := testutil.SeedProduct(t, db, "Keyboard", 49.90, 10)

	_, err := cartControllers.AddItem(db, user.Email, keyboard.ID, 1)
	require.NoError(t, err)

	orderID, err := checkoutControllers.Checkout(db, user.Email, address.ID)
	require.NoError(t, err)

	// Raise the live price after checkout.
	require.NoError(t, db.Model(&models.Product{}).
		Where("id = ?", keyboard.ID).Update("price", 99.90).Error)

	var item models.OrderItem
	require.NoError(t, db.Where("order_id = ?", orderID).First(&item).Error)
	assert.InDelta(t, 49.90, item.Price, 1e-9, "order item keeps the price at purchase time")
}

func TestCheckoutNotFoundCases(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "buyer@example.com")
	address := testutil.SeedAddress(t, db, user.ID)

	t.Run("unknown user", func(t *testing.T) {
		_, err := checkoutControllers.Checkout(db, "nobody@example.com", address.ID)
		var nf *apperrors.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "user", nf.Resource)
	})

	t.Run("no cart", func(t *testing.T) {
		_, err := checkoutControllers.Checkout(db, user.Email, address.ID)
		var nf *apperrors.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "cart", nf.Resource)
	})

	t.Run("address of another user", func(t *testing.T) {
		other := testutil.SeedUser(t, db, "other@example.com")
		otherAddress := testutil.SeedAddress(t, db, other.ID)
		product := testutil.SeedProduct(t, db, "Keyboard", 49.90, 10)
		_, err := cartControllers.AddItem(db, user.Email, product.ID, 1)
		require.NoError(t, err)

		_, err = checkoutControllers.Checkout(db, user.Email, otherAddress.ID)
		var nf *apperrors.NotFoundError
		require.ErrorAs(t, err, &nf)
		assert.Equal(t, "address", nf.Resource)
	})
}

func TestCheckoutEmptyCart(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "buyer@example.com")
	address := testutil.SeedAddress(t, db, user.ID)
	product := testutil.SeedProduct(t, db, "Keyboard", 49.90, 10)

	// Create a cart, then empty it: checkout must refuse.
	_, err := cartControllers.AddItem(db, user.Email, product.ID, 1)
	require.NoError(t, err)
	require.NoError(t, cartControllers.RemoveItem(db, user.Email, product.ID))

	_, err = checkoutControllers.Checkout(db, user.Email, address.ID)
	var bre *apperrors.BusinessRuleError
	require.ErrorAs(t, err, &bre)
}

func TestCheckoutTwiceNeedsNewCartItems(t *testing.T) {
	db := testutil.OpenDB(t)
	user := testutil.SeedUser(t, db, "buyer@example.com")
	address := testutil.SeedAddress(t, db, user.ID)
	product := testutil.SeedProduct(t, db, "Keyboard", 49.90, 10)

	_, err := cartControllers.AddItem(db, user.Email, product.ID, 1)
	require.NoError(t, err)
	_, err = checkoutControllers.Checkout(db, user.Email, address.ID)
	require.NoError(t, err)

	// The cart is empty now; a blind retry is rejected instead of creating a
	// duplicate order.
	_, err = checkoutControllers.Checkout(db, user.Email, address.ID)
	var bre *apperrors.BusinessRuleError
	require.ErrorAs(t, err, &bre)
	assert.EqualValues(t, 1, countRows(t, db, &models.Order{}))
}
