package service

import (
	"testing"

	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/internal/app/repository"
	"github.com/storefront-labs/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type recordingNotifier struct {
	placed   []*model.Order
	payments []*model.Order
}

func (n *recordingNotifier) NotifyOrderPlaced(order *model.Order)   { n.placed = append(n.placed, order) }
func (n *recordingNotifier) NotifyPaymentStatus(order *model.Order) { n.payments = append(n.payments, order) }

type orderServiceFixture struct {
	orderService OrderService
	cartService  CartService
	notifier     *recordingNotifier
	user         *model.User
	product      *model.Product
	db           *gorm.DB
}

func setupOrderServiceTest(t *testing.T) *orderServiceFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	customerRepo := repository.NewCustomerRepository(testDB)

	notifier := &recordingNotifier{}
	orderService := NewOrderService(orderRepo, cartRepo, customerRepo, notifier)
	cartService := NewCartService(cartRepo, productRepo)

	user := &model.User{
		Email:        "test@example.com",
		PasswordHash: "hash",
		Name:         "Test User",
		Role:         model.RoleUser,
	}
	testDB.Create(user)
	testDB.Create(&model.Customer{UserID: user.ID})

	collection := &model.Collection{Title: "Test Collection"}
	testDB.Create(collection)

	product := &model.Product{
		Title:        "Test Product",
		UnitPrice:    20,
		Inventory:    10,
		CollectionID: collection.ID,
	}
	testDB.Create(product)

	return &orderServiceFixture{
		orderService: orderService,
		cartService:  cartService,
		notifier:     notifier,
		user:         user,
		product:      product,
		db:           testDB,
	}
}

func TestOrderService_Checkout(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart, _ := f.cartService.CreateCart()
	_, err := f.cartService.AddItem(cart.ID, f.product.ID, 3)
	require.NoError(t, err)

	order, err := f.orderService.Checkout(f.user.ID, cart.ID)
	require.NoError(t, err)
	assert.NotZero(t, order.ID)
	assert.Equal(t, 60.0, order.TotalPrice)
	assert.Equal(t, model.PaymentStatusPending, order.PaymentStatus)
	require.Len(t, order.Items, 1)
	assert.Equal(t, 20.0, order.Items[0].UnitPrice)

	// Cart is consumed
	_, _, err = f.cartService.GetCart(cart.ID)
	assert.ErrorIs(t, err, ErrCartNotFound)

	// Inventory is drawn down
	var product model.Product
	f.db.First(&product, f.product.ID)
	assert.Equal(t, 7, product.Inventory)

	// Admin feed gets the event
	require.Len(t, f.notifier.placed, 1)
	assert.Equal(t, order.ID, f.notifier.placed[0].ID)
}

func TestOrderService_Checkout_CartNotFound(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.orderService.Checkout(f.user.ID, "00000000-0000-0000-0000-000000000000")
	assert.ErrorIs(t, err, ErrCartNotFound)
}

func TestOrderService_Checkout_EmptyCart(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart, _ := f.cartService.CreateCart()

	_, err := f.orderService.Checkout(f.user.ID, cart.ID)
	assert.ErrorIs(t, err, ErrCartEmpty)
}

func TestOrderService_Checkout_NoCustomerProfile(t *testing.T) {
	f := setupOrderServiceTest(t)

	stray := &model.User{Email: "stray@example.com", PasswordHash: "hash", Name: "Stray"}
	f.db.Create(stray)

	cart, _ := f.cartService.CreateCart()
	f.cartService.AddItem(cart.ID, f.product.ID, 1)

	_, err := f.orderService.Checkout(stray.ID, cart.ID)
	assert.ErrorIs(t, err, ErrCustomerNotFound)
}

func TestOrderService_GetOrder_OwnershipEnforced(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart, _ := f.cartService.CreateCart()
	f.cartService.AddItem(cart.ID, f.product.ID, 1)
	order, err := f.orderService.Checkout(f.user.ID, cart.ID)
	require.NoError(t, err)

	// Owner sees it
	found, err := f.orderService.GetOrder(f.user.ID, order.ID, false)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)

	// Another customer gets a not-found, not a forbidden, so order ids
	// cannot be enumerated
	other := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other"}
	f.db.Create(other)
	f.db.Create(&model.Customer{UserID: other.ID})

	_, err = f.orderService.GetOrder(other.ID, order.ID, false)
	assert.ErrorIs(t, err, ErrOrderNotFound)

	// Admin bypasses the ownership check
	found, err = f.orderService.GetOrder(other.ID, order.ID, true)
	require.NoError(t, err)
	assert.Equal(t, order.ID, found.ID)
}

func TestOrderService_UpdatePaymentStatus(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart, _ := f.cartService.CreateCart()
	f.cartService.AddItem(cart.ID, f.product.ID, 1)
	order, _ := f.orderService.Checkout(f.user.ID, cart.ID)

	updated, err := f.orderService.UpdatePaymentStatus(order.ID, model.PaymentStatusComplete)
	require.NoError(t, err)
	assert.Equal(t, model.PaymentStatusComplete, updated.PaymentStatus)

	require.Len(t, f.notifier.payments, 1)
	assert.Equal(t, order.ID, f.notifier.payments[0].ID)
}

func TestOrderService_UpdatePaymentStatus_Invalid(t *testing.T) {
	f := setupOrderServiceTest(t)

	_, err := f.orderService.UpdatePaymentStatus(1, model.PaymentStatus("X"))
	assert.ErrorIs(t, err, ErrInvalidOrderStatus)
}

func TestOrderService_GetUserOrders(t *testing.T) {
	f := setupOrderServiceTest(t)

	cart, _ := f.cartService.CreateCart()
	f.cartService.AddItem(cart.ID, f.product.ID, 1)
	f.orderService.Checkout(f.user.ID, cart.ID)

	cart2, _ := f.cartService.CreateCart()
	f.cartService.AddItem(cart2.ID, f.product.ID, 2)
	f.orderService.Checkout(f.user.ID, cart2.ID)

	orders, err := f.orderService.GetUserOrders(f.user.ID)
	require.NoError(t, err)
	assert.Len(t, orders, 2)
}
