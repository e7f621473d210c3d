package repository

import (
	"testing"

	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupOrderTest(t *testing.T) (*gorm.DB, OrderRepository, *model.Customer, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)

	repo := NewOrderRepository(testDB)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)

	customer := &model.Customer{UserID: user.ID}
	testDB.Create(customer)

	collection := &model.Collection{Title: "Test Collection"}
	testDB.Create(collection)

	product := &model.Product{
		Title:        "Test Product",
		UnitPrice:    25,
		Inventory:    10,
		CollectionID: collection.ID,
	}
	testDB.Create(product)

	return testDB, repo, customer, product
}

func TestOrderRepository_Create(t *testing.T) {
	testDB, repo, customer, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := &model.Order{
		CustomerID: customer.ID,
		TotalPrice: 50,
		Items: []model.OrderItem{
			{ProductID: product.ID, Quantity: 2, UnitPrice: 25},
		},
	}

	err := repo.Create(order)
	assert.NoError(t, err)
	assert.NotZero(t, order.ID)

	created, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusPending, created.PaymentStatus)
}

func TestOrderRepository_CreateFromCart(t *testing.T) {
	testDB, repo, customer, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{}
	testDB.Create(cart)
	testDB.Create(&model.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 2})

	order := &model.Order{
		CustomerID: customer.ID,
		TotalPrice: 50,
		Items: []model.OrderItem{
			{ProductID: product.ID, Quantity: 2, UnitPrice: 25},
		},
	}

	err := repo.CreateFromCart(order, cart.ID)
	require.NoError(t, err)
	assert.NotZero(t, order.ID)

	// Cart and its items are gone after checkout
	var cartCount, itemCount int64
	testDB.Model(&model.Cart{}).Where("id = ?", cart.ID).Count(&cartCount)
	testDB.Model(&model.CartItem{}).Where("cart_id = ?", cart.ID).Count(&itemCount)
	assert.Zero(t, cartCount)
	assert.Zero(t, itemCount)

	// Inventory was decremented in the same transaction
	var sold model.Product
	require.NoError(t, testDB.First(&sold, product.ID).Error)
	assert.Equal(t, 8, sold.Inventory)
}

func TestOrderRepository_CreateFromCart_EmptyCart(t *testing.T) {
	testDB, repo, customer, _ := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{}
	testDB.Create(cart)

	order := &model.Order{CustomerID: customer.ID}

	err := repo.CreateFromCart(order, cart.ID)
	assert.ErrorIs(t, err, gorm.ErrRecordNotFound)

	// No order row leaks out of the failed transaction
	var count int64
	testDB.Model(&model.Order{}).Count(&count)
	assert.Zero(t, count)
}

func TestOrderRepository_CreateFromCart_InsufficientInventoryRollsBack(t *testing.T) {
	testDB, repo, customer, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	cart := &model.Cart{}
	testDB.Create(cart)
	testDB.Create(&model.CartItem{CartID: cart.ID, ProductID: product.ID, Quantity: 2})

	order := &model.Order{
		CustomerID: customer.ID,
		TotalPrice: 25 * 11,
		Items: []model.OrderItem{
			{ProductID: product.ID, Quantity: 11, UnitPrice: 25},
		},
	}

	err := repo.CreateFromCart(order, cart.ID)
	assert.ErrorIs(t, err, ErrInsufficientInventory)

	// Order, cart and inventory are all untouched
	var orderCount, itemCount int64
	testDB.Model(&model.Order{}).Count(&orderCount)
	testDB.Model(&model.CartItem{}).Where("cart_id = ?", cart.ID).Count(&itemCount)
	assert.Zero(t, orderCount)
	assert.Equal(t, int64(1), itemCount)

	var unsold model.Product
	require.NoError(t, testDB.First(&unsold, product.ID).Error)
	assert.Equal(t, 10, unsold.Inventory)
}

func TestOrderRepository_FindByID(t *testing.T) {
	testDB, repo, customer, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := &model.Order{
		CustomerID: customer.ID,
		TotalPrice: 25,
		Items: []model.OrderItem{
			{ProductID: product.ID, Quantity: 1, UnitPrice: 25},
		},
	}
	repo.Create(order)

	found, err := repo.FindByID(order.ID)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
	require.Len(t, found.Items, 1)
	assert.Equal(t, product.ID, found.Items[0].Product.ID)
}

func TestOrderRepository_FindByCustomerID(t *testing.T) {
	testDB, repo, customer, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	repo.Create(&model.Order{
		CustomerID: customer.ID,
		TotalPrice: 25,
		Items:      []model.OrderItem{{ProductID: product.ID, Quantity: 1, UnitPrice: 25}},
	})
	repo.Create(&model.Order{
		CustomerID: customer.ID,
		TotalPrice: 50,
		Items:      []model.OrderItem{{ProductID: product.ID, Quantity: 2, UnitPrice: 25}},
	})

	orders, err := repo.FindByCustomerID(customer.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}

func TestOrderRepository_UpdatePaymentStatus(t *testing.T) {
	testDB, repo, customer, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := &model.Order{
		CustomerID: customer.ID,
		TotalPrice: 25,
		Items:      []model.OrderItem{{ProductID: product.ID, Quantity: 1, UnitPrice: 25}},
	}
	repo.Create(order)

	err := repo.UpdatePaymentStatus(order.ID, model.PaymentStatusComplete)
	assert.NoError(t, err)

	updated, _ := repo.FindByID(order.ID)
	assert.Equal(t, model.PaymentStatusComplete, updated.PaymentStatus)
}

func TestOrderRepository_Delete(t *testing.T) {
	testDB, repo, customer, product := setupOrderTest(t)
	defer db.CleanupTestDB(testDB)

	order := &model.Order{
		CustomerID: customer.ID,
		TotalPrice: 25,
		Items:      []model.OrderItem{{ProductID: product.ID, Quantity: 1, UnitPrice: 25}},
	}
	repo.Create(order)

	err := repo.Delete(order.ID)
	assert.NoError(t, err)

	_, err = repo.FindByID(order.ID)
	assert.Error(t, err)
}
