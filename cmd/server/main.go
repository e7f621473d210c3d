package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/storefront-labs/storefront-backend/config"
	"github.com/storefront-labs/storefront-backend/internal/app/controller"
	"github.com/storefront-labs/storefront-backend/internal/app/repository"
	"github.com/storefront-labs/storefront-backend/internal/app/service"
	"github.com/storefront-labs/storefront-backend/internal/db"
	"github.com/storefront-labs/storefront-backend/internal/middleware"
	"github.com/storefront-labs/storefront-backend/internal/router"
	"github.com/storefront-labs/storefront-backend/internal/scheduler"
	"github.com/storefront-labs/storefront-backend/internal/storage"
	"github.com/storefront-labs/storefront-backend/internal/websocket"
	"github.com/storefront-labs/storefront-backend/pkg/logger"
	"github.com/storefront-labs/storefront-backend/pkg/redis"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		logger.Fatal("Failed to load configuration", err)
	}

	logLevel := "info"
	if cfg.Server.Environment == "development" {
		logLevel = "debug"
	}
	logger.Initialize(logger.Config{
		Level:       logLevel,
		Format:      "console", // Use "json" for production
		EnableColor: true,
	})

	logger.Info("Starting Storefront Backend Server", map[string]interface{}{
		"environment": cfg.Server.Environment,
		"port":        cfg.Server.Port,
		"log_level":   logLevel,
	})

	if err := db.Initialize(&cfg.Database); err != nil {
		logger.Fatal("Failed to initialize database", err)
	}
	defer func() {
		if err := db.Close(); err != nil {
			logger.Error("Failed to close database connection", err)
		}
	}()

	if err := db.Migrate(); err != nil {
		logger.Fatal("Failed to run migrations", err)
	}

	// Redis backs the refresh token blacklist
	if err := redis.Init(&cfg.Redis); err != nil {
		logger.Fatal("Failed to initialize Redis", err)
	}
	defer func() {
		if err := redis.Close(); err != nil {
			logger.Error("Failed to close Redis connection", err)
		}
	}()

	// Repositories
	userRepo := repository.NewUserRepository(db.GetDB())
	customerRepo := repository.NewCustomerRepository(db.GetDB())
	collectionRepo := repository.NewCollectionRepository(db.GetDB())
	productRepo := repository.NewProductRepository(db.GetDB())
	promotionRepo := repository.NewPromotionRepository(db.GetDB())
	cartRepo := repository.NewCartRepository(db.GetDB())
	orderRepo := repository.NewOrderRepository(db.GetDB())
	reviewRepo := repository.NewReviewRepository(db.GetDB())
	tagRepo := repository.NewTagRepository(db.GetDB())

	// Order events fan out to admin dashboards over websocket
	hub := websocket.NewHub()
	go hub.Run()

	// Services
	authService := service.NewAuthService(
		userRepo,
		customerRepo,
		redis.NewBlacklist(),
		cfg.JWT.Secret,
		cfg.JWT.AccessTokenExpiry,
		cfg.JWT.RefreshTokenExpiry,
	)
	collectionService := service.NewCollectionService(collectionRepo)
	productService := service.NewProductService(productRepo, collectionRepo, promotionRepo)
	promotionService := service.NewPromotionService(promotionRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	orderService := service.NewOrderService(orderRepo, cartRepo, customerRepo, hub)
	customerService := service.NewCustomerService(customerRepo)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	tagService := service.NewTagService(tagRepo, productRepo, collectionRepo, customerRepo)
	exportService := service.NewExportService(productRepo, collectionRepo)

	s3Storage := storage.NewS3Storage(
		cfg.S3.Region,
		cfg.S3.Bucket,
		cfg.S3.AccessKeyID,
		cfg.S3.SecretAccessKey,
		cfg.S3.BaseURL,
	)

	// Controllers
	authController := controller.NewAuthController(authService)
	collectionController := controller.NewCollectionController(collectionService)
	productController := controller.NewProductController(productService, exportService)
	promotionController := controller.NewPromotionController(promotionService)
	cartController := controller.NewCartController(cartService)
	orderController := controller.NewOrderController(orderService)
	customerController := controller.NewCustomerController(customerService)
	reviewController := controller.NewReviewController(reviewService)
	tagController := controller.NewTagController(tagService)
	uploadController := controller.NewUploadController(s3Storage)
	orderFeedController := controller.NewOrderFeedController(hub)

	authMiddleware := middleware.NewAuthMiddleware(cfg.JWT.Secret)

	r := router.NewRouter(
		authController,
		productController,
		collectionController,
		cartController,
		orderController,
		customerController,
		promotionController,
		reviewController,
		tagController,
		uploadController,
		orderFeedController,
		authMiddleware,
		cfg,
	)
	engine := r.Setup()

	promotionScheduler := scheduler.NewPromotionScheduler(promotionService)
	if err := promotionScheduler.Start(); err != nil {
		logger.Fatal("Failed to start promotion scheduler", err)
	}
	defer promotionScheduler.Stop()

	go func() {
		addr := fmt.Sprintf(":%s", cfg.Server.Port)
		logger.Info("Server started successfully", map[string]interface{}{
			"address": addr,
			"pid":     os.Getpid(),
		})
		if err := engine.Run(addr); err != nil {
			logger.Fatal("Failed to start server", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("Shutting down server gracefully...")
	logger.Info("Server stopped successfully")
}
