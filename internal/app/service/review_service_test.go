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

func setupReviewServiceTest(t *testing.T) (ReviewService, *gorm.DB, *model.Product) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	reviewRepo := repository.NewReviewRepository(testDB)
	productRepo := repository.NewProductRepository(testDB)
	svc := NewReviewService(reviewRepo, productRepo)

	collection := &model.Collection{Title: "Dairy"}
	testDB.Create(collection)
	product := &model.Product{
		Title:        "Aged Cheddar",
		UnitPrice:    12.0,
		CollectionID: collection.ID,
	}
	testDB.Create(product)

	return svc, testDB, product
}

func TestReviewService_CreateReview(t *testing.T) {
	svc, _, product := setupReviewServiceTest(t)

	review, err := svc.CreateReview(product.ID, "Alice", "Sharp and crumbly.")
	require.NoError(t, err)
	assert.NotZero(t, review.ID)
	assert.Equal(t, product.ID, review.ProductID)
}

func TestReviewService_CreateReview_ProductMissing(t *testing.T) {
	svc, _, _ := setupReviewServiceTest(t)

	_, err := svc.CreateReview(9999, "Bob", "Ghost product.")
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestReviewService_GetReviews_Paginated(t *testing.T) {
	svc, _, product := setupReviewServiceTest(t)

	for i := 0; i < 5; i++ {
		_, err := svc.CreateReview(product.ID, "Reviewer", "Fine.")
		require.NoError(t, err)
	}

	reviews, total, err := svc.GetReviews(product.ID, 0, 3)
	require.NoError(t, err)
	assert.Len(t, reviews, 3)
	assert.Equal(t, int64(5), total)
}

func TestReviewService_GetReview_WrongProduct(t *testing.T) {
	svc, testDB, product := setupReviewServiceTest(t)

	other := &model.Product{
		Title:        "Brie",
		UnitPrice:    9.0,
		CollectionID: product.CollectionID,
	}
	testDB.Create(other)

	review, err := svc.CreateReview(product.ID, "Carol", "Creamy.")
	require.NoError(t, err)

	// A review is only reachable under its own product
	_, err = svc.GetReview(other.ID, review.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)
}

func TestReviewService_UpdateReview(t *testing.T) {
	svc, _, product := setupReviewServiceTest(t)

	review, err := svc.CreateReview(product.ID, "Dan", "Ok.")
	require.NoError(t, err)

	updated, err := svc.UpdateReview(product.ID, review.ID, "Dan", "Better on second taste.")
	require.NoError(t, err)
	assert.Equal(t, "Better on second taste.", updated.Description)
}

func TestReviewService_DeleteReview(t *testing.T) {
	svc, _, product := setupReviewServiceTest(t)

	review, err := svc.CreateReview(product.ID, "Eve", "Gone soon.")
	require.NoError(t, err)

	require.NoError(t, svc.DeleteReview(product.ID, review.ID))

	_, err = svc.GetReview(product.ID, review.ID)
	assert.ErrorIs(t, err, ErrReviewNotFound)

	assert.ErrorIs(t, svc.DeleteReview(product.ID, review.ID), ErrReviewNotFound)
}
