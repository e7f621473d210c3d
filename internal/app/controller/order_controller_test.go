package controller

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/internal/app/repository"
	"github.com/storefront-labs/storefront-backend/internal/app/service"
	"github.com/storefront-labs/storefront-backend/internal/db"
	"github.com/storefront-labs/storefront-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

type noopNotifier struct{}

func (noopNotifier) NotifyOrderPlaced(*model.Order)   {}
func (noopNotifier) NotifyPaymentStatus(*model.Order) {}

type orderControllerFixture struct {
	controller *OrderController
	router     *gin.Engine
	db         *gorm.DB
	user       *model.User
	customer   *model.Customer
	product    *model.Product
}

func setupOrderControllerTest(t *testing.T) *orderControllerFixture {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	orderRepo := repository.NewOrderRepository(testDB)
	cartRepo := repository.NewCartRepository(testDB)
	customerRepo := repository.NewCustomerRepository(testDB)
	orderService := service.NewOrderService(orderRepo, cartRepo, customerRepo, noopNotifier{})
	orderController := NewOrderController(orderService)

	user := &model.User{Email: "shopper@example.com", PasswordHash: "hash", Name: "Shopper"}
	testDB.Create(user)
	customer := &model.Customer{UserID: user.ID}
	testDB.Create(customer)

	collection := &model.Collection{Title: "Snacks"}
	testDB.Create(collection)
	product := &model.Product{
		Title:        "Trail Mix",
		UnitPrice:    8.0,
		Inventory:    10,
		CollectionID: collection.ID,
	}
	testDB.Create(product)

	gin.SetMode(gin.TestMode)
	router := gin.New()

	asUser := func(userID uint, role model.UserRole) gin.HandlerFunc {
		return func(c *gin.Context) {
			c.Set(middleware.UserIDKey, userID)
			c.Set(middleware.UserRoleKey, role)
			c.Next()
		}
	}

	router.POST("/orders", asUser(user.ID, model.RoleUser), orderController.Checkout)
	router.GET("/orders", asUser(user.ID, model.RoleUser), orderController.GetMyOrders)
	router.GET("/orders/:id", asUser(user.ID, model.RoleUser), orderController.GetOrder)
	router.PATCH("/admin/orders/:id", asUser(user.ID, model.RoleAdmin), orderController.UpdatePaymentStatus)
	router.GET("/admin/orders", asUser(user.ID, model.RoleAdmin), orderController.GetAllOrders)

	return &orderControllerFixture{
		controller: orderController,
		router:     router,
		db:         testDB,
		user:       user,
		customer:   customer,
		product:    product,
	}
}

func (f *orderControllerFixture) createCartWithItem(t *testing.T, quantity int) string {
	cart := &model.Cart{}
	require.NoError(t, f.db.Create(cart).Error)
	require.NoError(t, f.db.Create(&model.CartItem{
		CartID:    cart.ID,
		ProductID: f.product.ID,
		Quantity:  quantity,
	}).Error)
	return cart.ID
}

func TestOrderController_Checkout_Success(t *testing.T) {
	f := setupOrderControllerTest(t)
	cartID := f.createCartWithItem(t, 3)

	body, _ := json.Marshal(CheckoutRequest{CartID: cartID})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	order := response["order"].(map[string]interface{})
	assert.Equal(t, "P", order["payment_status"])

	// Cart is consumed by checkout
	var cartCount int64
	f.db.Model(&model.Cart{}).Where("id = ?", cartID).Count(&cartCount)
	assert.Equal(t, int64(0), cartCount)

	// Inventory drawn down
	var product model.Product
	f.db.First(&product, f.product.ID)
	assert.Equal(t, 7, product.Inventory)
}

func TestOrderController_Checkout_EmptyCart(t *testing.T) {
	f := setupOrderControllerTest(t)

	cart := &model.Cart{}
	require.NoError(t, f.db.Create(cart).Error)

	body, _ := json.Marshal(CheckoutRequest{CartID: cart.ID})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderController_Checkout_CartNotFound(t *testing.T) {
	f := setupOrderControllerTest(t)

	body, _ := json.Marshal(CheckoutRequest{CartID: "9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d"})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderController_GetOrder_OtherCustomerHidden(t *testing.T) {
	f := setupOrderControllerTest(t)

	otherUser := &model.User{Email: "other@example.com", PasswordHash: "hash", Name: "Other"}
	f.db.Create(otherUser)
	otherCustomer := &model.Customer{UserID: otherUser.ID}
	f.db.Create(otherCustomer)

	order := &model.Order{
		CustomerID: otherCustomer.ID,
		Items: []model.OrderItem{
			{ProductID: f.product.ID, Quantity: 1, UnitPrice: 8},
		},
	}
	f.db.Create(order)

	req := httptest.NewRequest(http.MethodGet, fmt.Sprintf("/orders/%d", order.ID), nil)
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	// Someone else's order reads as missing, not forbidden
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestOrderController_UpdatePaymentStatus(t *testing.T) {
	f := setupOrderControllerTest(t)

	order := &model.Order{
		CustomerID: f.customer.ID,
		Items: []model.OrderItem{
			{ProductID: f.product.ID, Quantity: 1, UnitPrice: 8},
		},
	}
	f.db.Create(order)

	body, _ := json.Marshal(UpdatePaymentStatusRequest{PaymentStatus: "C"})
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/admin/orders/%d", order.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "C", response["order"].(map[string]interface{})["payment_status"])
}

func TestOrderController_UpdatePaymentStatus_InvalidStatus(t *testing.T) {
	f := setupOrderControllerTest(t)

	order := &model.Order{
		CustomerID: f.customer.ID,
		Items: []model.OrderItem{
			{ProductID: f.product.ID, Quantity: 1, UnitPrice: 8},
		},
	}
	f.db.Create(order)

	body, _ := json.Marshal(UpdatePaymentStatusRequest{PaymentStatus: "X"})
	req := httptest.NewRequest(http.MethodPatch, fmt.Sprintf("/admin/orders/%d", order.ID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestOrderController_GetMyOrders(t *testing.T) {
	f := setupOrderControllerTest(t)
	cartID := f.createCartWithItem(t, 1)

	body, _ := json.Marshal(CheckoutRequest{CartID: cartID})
	req := httptest.NewRequest(http.MethodPost, "/orders", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	f.router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/orders", nil)
	w = httptest.NewRecorder()
	f.router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(1), response["count"])
}
