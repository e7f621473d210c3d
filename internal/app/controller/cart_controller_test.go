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
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupCartControllerTest(t *testing.T) (*CartController, *gin.Engine, *gorm.DB, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	cartRepo := repository.NewCartRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	cartService := service.NewCartService(cartRepo, productRepo)
	cartController := NewCartController(cartService)

	collection := &model.Collection{Title: "Beverages"}
	testDB.Create(collection)

	product := &model.Product{
		Title:        "Sparkling Water",
		UnitPrice:    2.5,
		Inventory:    10,
		CollectionID: collection.ID,
	}
	testDB.Create(product)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/carts", cartController.CreateCart)
	router.GET("/carts/:id", cartController.GetCart)
	router.DELETE("/carts/:id", cartController.DeleteCart)
	router.POST("/carts/:id/items", cartController.AddItem)
	router.PATCH("/carts/:id/items/:item_id", cartController.UpdateItem)
	router.DELETE("/carts/:id/items/:item_id", cartController.RemoveItem)

	return cartController, router, testDB, product
}

func createTestCart(t *testing.T, router *gin.Engine) string {
	req := httptest.NewRequest(http.MethodPost, "/carts", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	require.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	cart := response["cart"].(map[string]interface{})
	return cart["id"].(string)
}

func TestCartController_CreateCart(t *testing.T) {
	_, router, _, _ := setupCartControllerTest(t)

	cartID := createTestCart(t, router)
	assert.NotEmpty(t, cartID)
}

func TestCartController_AddItem_Success(t *testing.T) {
	_, router, _, product := setupCartControllerTest(t)
	cartID := createTestCart(t, router)

	body, _ := json.Marshal(AddCartItemRequest{ProductID: product.ID, Quantity: 3})
	req := httptest.NewRequest(http.MethodPost, "/carts/"+cartID+"/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	item := response["item"].(map[string]interface{})
	assert.Equal(t, float64(3), item["quantity"])
}

func TestCartController_AddItem_MergesExistingLine(t *testing.T) {
	_, router, _, product := setupCartControllerTest(t)
	cartID := createTestCart(t, router)

	body, _ := json.Marshal(AddCartItemRequest{ProductID: product.ID, Quantity: 2})
	for i := 0; i < 2; i++ {
		req := httptest.NewRequest(http.MethodPost, "/carts/"+cartID+"/items", bytes.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		require.Equal(t, http.StatusCreated, w.Code)
		body, _ = json.Marshal(AddCartItemRequest{ProductID: product.ID, Quantity: 2})
	}

	req := httptest.NewRequest(http.MethodGet, "/carts/"+cartID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	cart := response["cart"].(map[string]interface{})
	items := cart["items"].([]interface{})
	require.Len(t, items, 1)
	assert.Equal(t, float64(4), items[0].(map[string]interface{})["quantity"])
	assert.Equal(t, float64(10), response["total_price"]) // 2.5 * 4
}

func TestCartController_AddItem_InsufficientStock(t *testing.T) {
	_, router, _, product := setupCartControllerTest(t)
	cartID := createTestCart(t, router)

	body, _ := json.Marshal(AddCartItemRequest{ProductID: product.ID, Quantity: 11})
	req := httptest.NewRequest(http.MethodPost, "/carts/"+cartID+"/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestCartController_AddItem_CartNotFound(t *testing.T) {
	_, router, _, product := setupCartControllerTest(t)

	body, _ := json.Marshal(AddCartItemRequest{ProductID: product.ID, Quantity: 1})
	req := httptest.NewRequest(http.MethodPost, "/carts/9b1deb4d-3b7d-4bad-9bdd-2b0d7b3dcb6d/items", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_UpdateItem_Success(t *testing.T) {
	_, router, testDB, product := setupCartControllerTest(t)
	cartID := createTestCart(t, router)

	item := &model.CartItem{CartID: cartID, ProductID: product.ID, Quantity: 1}
	testDB.Create(item)

	body, _ := json.Marshal(UpdateCartItemRequest{Quantity: 5})
	url := fmt.Sprintf("/carts/%s/items/%d", cartID, item.ID)
	req := httptest.NewRequest(http.MethodPatch, url, bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, float64(5), response["item"].(map[string]interface{})["quantity"])
}

func TestCartController_RemoveItem_WrongCart(t *testing.T) {
	_, router, testDB, product := setupCartControllerTest(t)
	cartID := createTestCart(t, router)
	otherCartID := createTestCart(t, router)

	item := &model.CartItem{CartID: cartID, ProductID: product.ID, Quantity: 1}
	testDB.Create(item)

	url := fmt.Sprintf("/carts/%s/items/%d", otherCartID, item.ID)
	req := httptest.NewRequest(http.MethodDelete, url, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestCartController_DeleteCart(t *testing.T) {
	_, router, _, _ := setupCartControllerTest(t)
	cartID := createTestCart(t, router)

	req := httptest.NewRequest(http.MethodDelete, "/carts/"+cartID, nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/carts/"+cartID, nil)
	w = httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

// blindCartRepo never sees an existing (cart, product) line, so every
// add goes down the insert path and the second one hits the unique
// index with no line to merge into.
type blindCartRepo struct {
	repository.CartRepository
}

func (r blindCartRepo) FindItemByCartAndProduct(string, uint) (*model.CartItem, error) {
	return nil, gorm.ErrRecordNotFound
}

func TestCartController_AddItem_UnresolvableConflictIsConflictNotServerError(t *testing.T) {
	_, router, testDB, product := setupCartControllerTest(t)
	cartID := createTestCart(t, router)

	blindService := service.NewCartService(
		blindCartRepo{repository.NewCartRepository(testDB)},
		repository.NewProductRepository(testDB),
	)
	blindController := NewCartController(blindService)

	blindRouter := gin.New()
	blindRouter.POST("/carts/:id/items", blindController.AddItem)

	body, _ := json.Marshal(AddCartItemRequest{ProductID: product.ID, Quantity: 2})
	req := httptest.NewRequest(http.MethodPost, fmt.Sprintf("/carts/%s/items", cartID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	blindRouter.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)

	req = httptest.NewRequest(http.MethodPost, fmt.Sprintf("/carts/%s/items", cartID), bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w = httptest.NewRecorder()
	blindRouter.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "RESOURCE_CONFLICT", response["error"])
}
