package controller

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/storefront-labs/storefront-backend/internal/app/repository"
	"github.com/storefront-labs/storefront-backend/internal/app/service"
	"github.com/storefront-labs/storefront-backend/internal/db"
	"github.com/storefront-labs/storefront-backend/internal/middleware"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// stubBlacklist never revokes anything; the rotation paths are covered
// at the service level
type stubBlacklist struct{}

func (stubBlacklist) Add(context.Context, string, time.Duration) error { return nil }

func (stubBlacklist) Contains(context.Context, string) (bool, error) { return false, nil }

func setupAuthControllerTest(t *testing.T) (*AuthController, *gin.Engine) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	customerRepo := repository.NewCustomerRepository(testDB)
	authService := service.NewAuthService(userRepo, customerRepo, stubBlacklist{}, "test-secret", 15*time.Minute, 7*24*time.Hour)
	authController := NewAuthController(authService)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/register", authController.Register)
	router.POST("/auth/login", authController.Login)

	return authController, router
}

func registerTestUser(t *testing.T, router *gin.Engine, email string) {
	body, _ := json.Marshal(RegisterRequest{
		Email:    email,
		Password: "password123",
		Name:     "Test User",
		Phone:    "555-0100",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	require.Equal(t, http.StatusCreated, w.Code)
}

func TestAuthController_Register_Success(t *testing.T) {
	_, router := setupAuthControllerTest(t)

	body, _ := json.Marshal(RegisterRequest{
		Email:    "new@example.com",
		Password: "password123",
		Name:     "New User",
		Phone:    "555-0101",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusCreated, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	tokens := response["tokens"].(map[string]interface{})
	assert.NotEmpty(t, tokens["access_token"])
	assert.NotEmpty(t, tokens["refresh_token"])

	user := response["user"].(map[string]interface{})
	assert.Equal(t, "new@example.com", user["email"])

	customer := user["customer"].(map[string]interface{})
	assert.Equal(t, "B", customer["membership"])
	assert.Equal(t, "555-0101", customer["phone"])
}

func TestAuthController_Register_DuplicateEmail(t *testing.T) {
	_, router := setupAuthControllerTest(t)
	registerTestUser(t, router, "dup@example.com")

	body, _ := json.Marshal(RegisterRequest{
		Email:    "dup@example.com",
		Password: "password456",
		Name:     "Other User",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusConflict, w.Code)
}

func TestAuthController_Register_ShortPassword(t *testing.T) {
	_, router := setupAuthControllerTest(t)

	body, _ := json.Marshal(RegisterRequest{
		Email:    "short@example.com",
		Password: "abc",
		Name:     "Short",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/register", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAuthController_Login_Success(t *testing.T) {
	_, router := setupAuthControllerTest(t)
	registerTestUser(t, router, "login@example.com")

	body, _ := json.Marshal(LoginRequest{
		Email:    "login@example.com",
		Password: "password123",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	tokens := response["tokens"].(map[string]interface{})
	assert.NotEmpty(t, tokens["access_token"])
}

func TestAuthController_Login_WrongPassword(t *testing.T) {
	_, router := setupAuthControllerTest(t)
	registerTestUser(t, router, "wrongpw@example.com")

	body, _ := json.Marshal(LoginRequest{
		Email:    "wrongpw@example.com",
		Password: "not-the-password",
	})
	req := httptest.NewRequest(http.MethodPost, "/auth/login", bytes.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusUnauthorized, w.Code)
}

func TestAuthController_GetMe(t *testing.T) {
	controller, _ := setupAuthControllerTest(t)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.POST("/auth/register", controller.Register)
	registerTestUser(t, router, "me@example.com")

	router.GET("/auth/me", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uint(1))
		controller.GetMe(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Equal(t, "me@example.com", response["user"].(map[string]interface{})["email"])
}

func TestAuthController_GetMe_UnknownUser(t *testing.T) {
	controller, _ := setupAuthControllerTest(t)

	gin.SetMode(gin.TestMode)
	router := gin.New()
	router.GET("/auth/me", func(c *gin.Context) {
		c.Set(middleware.UserIDKey, uint(42))
		controller.GetMe(c)
	})

	req := httptest.NewRequest(http.MethodGet, "/auth/me", nil)
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusNotFound, w.Code)
}
