package service

import (
	"context"
	"testing"
	"time"

	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/internal/app/repository"
	"github.com/storefront-labs/storefront-backend/internal/db"
	"github.com/storefront-labs/storefront-backend/pkg/util"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

// memoryBlacklist stands in for the redis revocation store
type memoryBlacklist struct {
	revoked map[string]bool
}

func newMemoryBlacklist() *memoryBlacklist {
	return &memoryBlacklist{revoked: make(map[string]bool)}
}

func (m *memoryBlacklist) Add(_ context.Context, token string, _ time.Duration) error {
	m.revoked[token] = true
	return nil
}

func (m *memoryBlacklist) Contains(_ context.Context, token string) (bool, error) {
	return m.revoked[token], nil
}

func setupAuthServiceTest(t *testing.T) (AuthService, *gorm.DB) {
	svc, _, testDB := setupAuthServiceTestWithBlacklist(t)
	return svc, testDB
}

func setupAuthServiceTestWithBlacklist(t *testing.T) (AuthService, *memoryBlacklist, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	userRepo := repository.NewUserRepository(testDB)
	customerRepo := repository.NewCustomerRepository(testDB)
	blacklist := newMemoryBlacklist()
	authService := NewAuthService(userRepo, customerRepo, blacklist, "test-secret", 15*time.Minute, 7*24*time.Hour)

	return authService, blacklist, testDB
}

func TestAuthService_Register(t *testing.T) {
	authService, testDB := setupAuthServiceTest(t)

	user, tokens, err := authService.Register("new@example.com", "password123", "New User", "010-1234")
	require.NoError(t, err)
	assert.NotZero(t, user.ID)
	assert.Equal(t, model.RoleUser, user.Role)
	assert.NotEmpty(t, tokens.AccessToken)
	assert.NotEmpty(t, tokens.RefreshToken)

	// Password is stored hashed
	assert.NotEqual(t, "password123", user.PasswordHash)
	assert.True(t, util.VerifyPassword(user.PasswordHash, "password123"))

	// A customer profile comes with registration
	var customer model.Customer
	err = testDB.Where("user_id = ?", user.ID).First(&customer).Error
	require.NoError(t, err)
	assert.Equal(t, "010-1234", customer.Phone)
	assert.Equal(t, model.MembershipBronze, customer.Membership)
}

func TestAuthService_Register_DuplicateEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Register("dup@example.com", "password123", "First", "")
	require.NoError(t, err)

	_, _, err = authService.Register("dup@example.com", "password456", "Second", "")
	assert.ErrorIs(t, err, ErrEmailAlreadyExists)
}

func TestAuthService_Login(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	authService.Register("login@example.com", "password123", "Login User", "")

	user, tokens, err := authService.Login("login@example.com", "password123")
	require.NoError(t, err)
	assert.Equal(t, "login@example.com", user.Email)
	assert.NotEmpty(t, tokens.AccessToken)

	claims, err := util.ValidateToken(tokens.AccessToken, "test-secret")
	require.NoError(t, err)
	assert.Equal(t, user.ID, claims.UserID)
}

func TestAuthService_Login_WrongPassword(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	authService.Register("login@example.com", "password123", "Login User", "")

	_, _, err := authService.Login("login@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_Login_UnknownEmail(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	_, _, err := authService.Login("nobody@example.com", "password123")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestAuthService_GetUserByID(t *testing.T) {
	authService, _ := setupAuthServiceTest(t)

	user, _, _ := authService.Register("me@example.com", "password123", "Me", "")

	found, err := authService.GetUserByID(user.ID)
	require.NoError(t, err)
	assert.Equal(t, user.Email, found.Email)

	_, err = authService.GetUserByID(9999)
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestAuthService_RefreshTokens_RotatesPair(t *testing.T) {
	authService, blacklist, _ := setupAuthServiceTestWithBlacklist(t)
	ctx := context.Background()

	_, tokens, err := authService.Register("rotate@example.com", "password123", "Rotate", "")
	require.NoError(t, err)

	rotated, err := authService.RefreshTokens(ctx, tokens.RefreshToken)
	require.NoError(t, err)
	assert.NotEmpty(t, rotated.AccessToken)
	assert.NotEmpty(t, rotated.RefreshToken)
	assert.True(t, blacklist.revoked[tokens.RefreshToken])
}

func TestAuthService_RefreshTokens_RejectsReusedToken(t *testing.T) {
	authService, _, _ := setupAuthServiceTestWithBlacklist(t)
	ctx := context.Background()

	_, tokens, err := authService.Register("reuse@example.com", "password123", "Reuse", "")
	require.NoError(t, err)

	_, err = authService.RefreshTokens(ctx, tokens.RefreshToken)
	require.NoError(t, err)

	// The rotated-out token is burned
	_, err = authService.RefreshTokens(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAuthService_RefreshTokens_RejectsRevokedToken(t *testing.T) {
	authService, _, _ := setupAuthServiceTestWithBlacklist(t)
	ctx := context.Background()

	_, tokens, err := authService.Register("revoke@example.com", "password123", "Revoke", "")
	require.NoError(t, err)

	require.NoError(t, authService.RevokeToken(ctx, tokens.RefreshToken))

	_, err = authService.RefreshTokens(ctx, tokens.RefreshToken)
	assert.ErrorIs(t, err, ErrTokenRevoked)
}

func TestAuthService_RefreshTokens_RejectsAccessToken(t *testing.T) {
	authService, blacklist, _ := setupAuthServiceTestWithBlacklist(t)
	ctx := context.Background()

	_, tokens, err := authService.Register("subject@example.com", "password123", "Subject", "")
	require.NoError(t, err)

	_, err = authService.RefreshTokens(ctx, tokens.AccessToken)
	assert.ErrorIs(t, err, ErrInvalidToken)

	// Revoking an access token is refused too, so the blacklist only
	// ever holds refresh tokens
	assert.ErrorIs(t, authService.RevokeToken(ctx, tokens.AccessToken), ErrInvalidToken)
	assert.Empty(t, blacklist.revoked)
}

func TestAuthService_RefreshTokens_RejectsGarbage(t *testing.T) {
	authService, _, _ := setupAuthServiceTestWithBlacklist(t)

	_, err := authService.RefreshTokens(context.Background(), "not.a.token")
	assert.ErrorIs(t, err, ErrInvalidToken)
}
