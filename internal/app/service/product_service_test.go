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

func setupProductServiceTest(t *testing.T) (ProductService, *model.Collection, *gorm.DB) {
	testDB, err := db.SetupTestDB()
	require.NoError(t, err)
	t.Cleanup(func() {
		db.CleanupTestDB(testDB)
	})

	productRepo := repository.NewProductRepository(testDB)
	collectionRepo := repository.NewCollectionRepository(testDB)
	promotionRepo := repository.NewPromotionRepository(testDB)
	productService := NewProductService(productRepo, collectionRepo, promotionRepo)

	collection := &model.Collection{Title: "Test Collection"}
	testDB.Create(collection)

	return productService, collection, testDB
}

func TestProductService_CreateProduct(t *testing.T) {
	productService, collection, _ := setupProductServiceTest(t)

	product := &model.Product{
		Title:        "New Product",
		UnitPrice:    15,
		Inventory:    5,
		CollectionID: collection.ID,
	}

	err := productService.CreateProduct(product)
	assert.NoError(t, err)
	assert.NotZero(t, product.ID)
}

func TestProductService_CreateProduct_CollectionNotFound(t *testing.T) {
	productService, _, _ := setupProductServiceTest(t)

	product := &model.Product{
		Title:        "Orphan",
		UnitPrice:    15,
		CollectionID: 9999,
	}

	err := productService.CreateProduct(product)
	assert.ErrorIs(t, err, ErrCollectionNotFound)
}

func TestProductService_GetProduct_NotFound(t *testing.T) {
	productService, _, _ := setupProductServiceTest(t)

	_, err := productService.GetProduct(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_GetProducts_Filter(t *testing.T) {
	productService, collection, _ := setupProductServiceTest(t)

	productService.CreateProduct(&model.Product{Title: "A", UnitPrice: 5, CollectionID: collection.ID})
	productService.CreateProduct(&model.Product{Title: "B", UnitPrice: 50, CollectionID: collection.ID})

	gt := 10.0
	products, total, err := productService.GetProducts(repository.ProductFilter{UnitPriceGt: &gt})
	require.NoError(t, err)
	assert.EqualValues(t, 1, total)
	require.Len(t, products, 1)
	assert.Equal(t, "B", products[0].Title)
}

func TestProductService_DeleteProduct(t *testing.T) {
	productService, collection, _ := setupProductServiceTest(t)

	product := &model.Product{Title: "Deletable", UnitPrice: 5, CollectionID: collection.ID}
	productService.CreateProduct(product)

	err := productService.DeleteProduct(product.ID)
	assert.NoError(t, err)

	_, err = productService.GetProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_DeleteProduct_ReferencedByOrder(t *testing.T) {
	productService, collection, testDB := setupProductServiceTest(t)

	product := &model.Product{Title: "Ordered", UnitPrice: 5, CollectionID: collection.ID}
	productService.CreateProduct(product)

	user := &model.User{Email: "buyer@example.com", PasswordHash: "hash", Name: "Buyer"}
	testDB.Create(user)
	customer := &model.Customer{UserID: user.ID}
	testDB.Create(customer)
	order := &model.Order{
		CustomerID: customer.ID,
		TotalPrice: 5,
		Items:      []model.OrderItem{{ProductID: product.ID, Quantity: 1, UnitPrice: 5}},
	}
	testDB.Create(order)

	err := productService.DeleteProduct(product.ID)
	assert.ErrorIs(t, err, ErrProductReferenced)

	// Product survives
	_, err = productService.GetProduct(product.ID)
	assert.NoError(t, err)
}

func TestProductService_DeleteProduct_NotFound(t *testing.T) {
	productService, _, _ := setupProductServiceTest(t)

	err := productService.DeleteProduct(9999)
	assert.ErrorIs(t, err, ErrProductNotFound)
}

func TestProductService_AttachPromotion(t *testing.T) {
	productService, collection, testDB := setupProductServiceTest(t)

	product := &model.Product{Title: "Promoted", UnitPrice: 5, CollectionID: collection.ID}
	productService.CreateProduct(product)

	promotion := &model.Promotion{Description: "Sale", Discount: 0.1}
	testDB.Create(promotion)

	err := productService.AttachPromotion(product.ID, promotion.ID)
	require.NoError(t, err)

	found, _ := productService.GetProduct(product.ID)
	assert.Len(t, found.Promotions, 1)
}

func TestProductService_AttachPromotion_PromotionNotFound(t *testing.T) {
	productService, collection, _ := setupProductServiceTest(t)

	product := &model.Product{Title: "Lonely", UnitPrice: 5, CollectionID: collection.ID}
	productService.CreateProduct(product)

	err := productService.AttachPromotion(product.ID, 9999)
	assert.ErrorIs(t, err, ErrPromotionNotFound)
}
