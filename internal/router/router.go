package router

import (
	"github.com/gin-gonic/gin"
	"github.com/storefront-labs/storefront-backend/config"
	"github.com/storefront-labs/storefront-backend/internal/app/controller"
	"github.com/storefront-labs/storefront-backend/internal/middleware"
)

type Router struct {
	authController       *controller.AuthController
	productController    *controller.ProductController
	collectionController *controller.CollectionController
	cartController       *controller.CartController
	orderController      *controller.OrderController
	customerController   *controller.CustomerController
	promotionController  *controller.PromotionController
	reviewController     *controller.ReviewController
	tagController        *controller.TagController
	uploadController     *controller.UploadController
	orderFeedController  *controller.OrderFeedController
	authMiddleware       *middleware.AuthMiddleware
	config               *config.Config
}

func NewRouter(
	authController *controller.AuthController,
	productController *controller.ProductController,
	collectionController *controller.CollectionController,
	cartController *controller.CartController,
	orderController *controller.OrderController,
	customerController *controller.CustomerController,
	promotionController *controller.PromotionController,
	reviewController *controller.ReviewController,
	tagController *controller.TagController,
	uploadController *controller.UploadController,
	orderFeedController *controller.OrderFeedController,
	authMiddleware *middleware.AuthMiddleware,
	cfg *config.Config,
) *Router {
	return &Router{
		authController:       authController,
		productController:    productController,
		collectionController: collectionController,
		cartController:       cartController,
		orderController:      orderController,
		customerController:   customerController,
		promotionController:  promotionController,
		reviewController:     reviewController,
		tagController:        tagController,
		uploadController:     uploadController,
		orderFeedController:  orderFeedController,
		authMiddleware:       authMiddleware,
		config:               cfg,
	}
}

func (r *Router) Setup() *gin.Engine {
	gin.SetMode(r.config.Server.GinMode)

	router := gin.New()

	router.Use(gin.Recovery())
	router.Use(middleware.LoggingMiddleware())
	router.Use(corsMiddleware(r.config.CORS.AllowedOrigins))

	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status":  "healthy",
			"message": "Storefront API is running",
		})
	})

	v1 := router.Group("/api/v1")
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/register", r.authController.Register)
			auth.POST("/login", r.authController.Login)
			auth.POST("/refresh", r.authController.RefreshToken)
			auth.POST("/logout", r.authController.Logout)
			auth.GET("/me", r.authMiddleware.Authenticate(), r.authController.GetMe)
		}

		collections := v1.Group("/collections")
		{
			collections.GET("", r.collectionController.GetCollections)
			collections.GET("/:id", r.collectionController.GetCollection)

			collections.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.collectionController.CreateCollection,
			)
			collections.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.collectionController.UpdateCollection,
			)
			collections.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.collectionController.DeleteCollection,
			)
		}

		products := v1.Group("/products")
		{
			products.GET("", r.productController.GetProducts)
			products.GET("/export",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.ExportCatalog,
			)
			products.GET("/:id", r.productController.GetProduct)

			products.POST("",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.CreateProduct,
			)
			products.PUT("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.UpdateProduct,
			)
			products.DELETE("/:id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.DeleteProduct,
			)
			products.POST("/:id/promotions/:promotion_id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.AttachPromotion,
			)
			products.DELETE("/:id/promotions/:promotion_id",
				r.authMiddleware.Authenticate(),
				r.authMiddleware.RequireRole("admin"),
				r.productController.DetachPromotion,
			)

			products.GET("/:id/tags", r.tagController.GetProductTags)

			reviews := products.Group("/:id/reviews")
			{
				reviews.GET("", r.reviewController.GetReviews)
				reviews.GET("/:review_id", r.reviewController.GetReview)
				reviews.POST("", r.reviewController.CreateReview)
				reviews.PUT("/:review_id", r.reviewController.UpdateReview)
				reviews.DELETE("/:review_id", r.reviewController.DeleteReview)
			}
		}

		promotions := v1.Group("/promotions")
		{
			promotions.GET("", r.promotionController.GetPromotions)
			promotions.GET("/:id", r.promotionController.GetPromotion)
		}

		tags := v1.Group("/tags")
		{
			tags.GET("", r.tagController.GetTags)
			tags.GET("/items", r.tagController.GetObjectTags)
			tags.GET("/:id", r.tagController.GetTag)
			tags.GET("/:id/items", r.tagController.GetTagItems)
		}

		// Carts are anonymous: the UUID is the only credential
		carts := v1.Group("/carts")
		{
			carts.POST("", r.cartController.CreateCart)
			carts.GET("/:id", r.cartController.GetCart)
			carts.DELETE("/:id", r.cartController.DeleteCart)
			carts.POST("/:id/items", r.cartController.AddItem)
			carts.PATCH("/:id/items/:item_id", r.cartController.UpdateItem)
			carts.DELETE("/:id/items/:item_id", r.cartController.RemoveItem)
		}

		orders := v1.Group("/orders")
		orders.Use(r.authMiddleware.Authenticate())
		{
			orders.GET("", r.orderController.GetMyOrders)
			orders.GET("/:id", r.orderController.GetOrder)
			orders.POST("", r.orderController.Checkout)
		}

		customers := v1.Group("/customers")
		customers.Use(r.authMiddleware.Authenticate())
		{
			customers.GET("/me", r.customerController.GetMyProfile)
			customers.PATCH("/me", r.customerController.UpdateMyProfile)
			customers.PUT("/me/address", r.customerController.UpdateMyAddress)
		}

		admin := v1.Group("/admin")
		admin.Use(r.authMiddleware.Authenticate(), r.authMiddleware.RequireRole("admin"))
		{
			admin.GET("/orders", r.orderController.GetAllOrders)
			admin.GET("/orders/feed", r.orderFeedController.Subscribe)
			admin.PATCH("/orders/:id", r.orderController.UpdatePaymentStatus)
			admin.DELETE("/orders/:id", r.orderController.DeleteOrder)

			admin.GET("/customers", r.customerController.GetCustomers)
			admin.GET("/customers/:id", r.customerController.GetCustomer)
			admin.PATCH("/customers/:id", r.customerController.UpdateCustomer)

			admin.POST("/promotions", r.promotionController.CreatePromotion)
			admin.PUT("/promotions/:id", r.promotionController.UpdatePromotion)
			admin.DELETE("/promotions/:id", r.promotionController.DeletePromotion)

			admin.POST("/tags", r.tagController.CreateTag)
			admin.PUT("/tags/:id", r.tagController.UpdateTag)
			admin.DELETE("/tags/:id", r.tagController.DeleteTag)
			admin.POST("/tags/:id/items", r.tagController.TagObject)
			admin.DELETE("/tags/:id/items", r.tagController.UntagObject)

			admin.POST("/uploads/presigned-url", r.uploadController.GeneratePresignedURL)
		}
	}

	return router
}

func corsMiddleware(allowedOrigins []string) gin.HandlerFunc {
	return func(c *gin.Context) {
		origin := c.GetHeader("Origin")

		allowed := false
		for _, allowedOrigin := range allowedOrigins {
			if origin == allowedOrigin || allowedOrigin == "*" {
				allowed = true
				break
			}
		}

		if allowed {
			c.Writer.Header().Set("Access-Control-Allow-Origin", origin)
		}

		c.Writer.Header().Set("Access-Control-Allow-Credentials", "true")
		c.Writer.Header().Set("Access-Control-Allow-Headers", "Content-Type, Content-Length, Accept-Encoding, X-CSRF-Token, Authorization, accept, origin, Cache-Control, X-Requested-With")
		c.Writer.Header().Set("Access-Control-Allow-Methods", "POST, OPTIONS, GET, PUT, DELETE, PATCH")

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(204)
			return
		}

		c.Next()
	}
}
