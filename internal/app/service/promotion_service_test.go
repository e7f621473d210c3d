package service

import (
	"testing"
	"time"

	"github.com/storefront-labs/storefront-backend/internal/app/model"
	"github.com/storefront-labs/storefront-backend/internal/app/repository"
	"github.com/storefront-labs/storefront-backend/internal/db"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
)

func setupPromotionServiceTest(t *testing.T) (PromotionService, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	promotionRepo := repository.NewPromotionRepository(testDB)
	return NewPromotionService(promotionRepo), testDB
}

func TestPromotionService_CreatePromotion_InvalidDiscount(t *testing.T) {
	svc, _ := setupPromotionServiceTest(t)

	for _, discount := range []float64{0, 1, 1.5, -0.2} {
		err := svc.CreatePromotion(&model.Promotion{
			Description: "Bad discount",
			Discount:    discount,
		})
		assert.ErrorIs(t, err, ErrInvalidDiscount)
	}
}

func TestPromotionService_GetPromotions_ActiveOnly(t *testing.T) {
	svc, _ := setupPromotionServiceTest(t)

	now := time.Now()
	require.NoError(t, svc.CreatePromotion(&model.Promotion{
		Description: "Running",
		Discount:    0.2,
		StartsAt:    now.Add(-time.Hour),
		EndsAt:      now.Add(time.Hour),
		Active:      true,
	}))
	require.NoError(t, svc.CreatePromotion(&model.Promotion{
		Description: "Retired",
		Discount:    0.1,
		StartsAt:    now.Add(-48 * time.Hour),
		EndsAt:      now.Add(-24 * time.Hour),
		Active:      false,
	}))

	active, err := svc.GetPromotions(true)
	require.NoError(t, err)
	require.Len(t, active, 1)
	assert.Equal(t, "Running", active[0].Description)

	all, err := svc.GetPromotions(false)
	require.NoError(t, err)
	assert.Len(t, all, 2)
}

func TestPromotionService_DeactivateExpired(t *testing.T) {
	svc, testDB := setupPromotionServiceTest(t)

	now := time.Now()
	expired := &model.Promotion{
		Description: "Summer sale",
		Discount:    0.3,
		StartsAt:    now.Add(-72 * time.Hour),
		EndsAt:      now.Add(-time.Hour),
		Active:      true,
	}
	current := &model.Promotion{
		Description: "Autumn sale",
		Discount:    0.15,
		StartsAt:    now.Add(-time.Hour),
		EndsAt:      now.Add(72 * time.Hour),
		Active:      true,
	}
	require.NoError(t, svc.CreatePromotion(expired))
	require.NoError(t, svc.CreatePromotion(current))

	count, err := svc.DeactivateExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(1), count)

	var reloaded model.Promotion
	require.NoError(t, testDB.First(&reloaded, expired.ID).Error)
	assert.False(t, reloaded.Active)

	require.NoError(t, testDB.First(&reloaded, current.ID).Error)
	assert.True(t, reloaded.Active)

	// Second sweep finds nothing left to do
	count, err = svc.DeactivateExpired()
	require.NoError(t, err)
	assert.Equal(t, int64(0), count)
}

func TestPromotionService_DeletePromotion_NotFound(t *testing.T) {
	svc, _ := setupPromotionServiceTest(t)
	assert.ErrorIs(t, svc.DeletePromotion(404), ErrPromotionNotFound)
}
