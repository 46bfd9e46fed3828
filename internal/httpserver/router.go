package httpserver

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/jackc/pgx/v5/pgxpool"

	"grocery-backend/internal/domain"
)

// buildRouter wires routes for the API.
func buildRouter(logger *log.Logger, db *pgxpool.Pool, deps Deps) (*gin.Engine, error) {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.LoggerWithWriter(logger.Writer()), gin.Recovery())
	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		MaxAge:           12 * time.Hour,
		AllowCredentials: false,
	}))

	router.GET("/healthz", healthHandler)
	router.GET("/readyz", readyHandler(db))

	auth := router.Group("/auth")
	{
		auth.POST("/register", registerHandler(deps.AuthSvc))
		auth.POST("/login", loginHandler(deps.AuthSvc))
		auth.GET("/me", authRequired(deps.AuthSvc), meHandler())
	}

	catalog := router.Group("/", authOptional(deps.AuthSvc))
	{
		catalog.GET("/products", listProductsHandler(deps.ProductSvc))
		catalog.GET("/products/:productID", getProductHandler(deps.ProductSvc))
		catalog.GET("/categories", listCategoriesHandler(deps.CategorySvc))
		catalog.GET("/categories/:categoryID", getCategoryHandler(deps.CategorySvc))
	}

	adminCatalog := router.Group("/", authRequired(deps.AuthSvc), requireRole(domain.RoleAdmin))
	{
		adminCatalog.POST("/products", createProductHandler(deps.ProductSvc))
		adminCatalog.PUT("/products/:productID", updateProductHandler(deps.ProductSvc))
		adminCatalog.DELETE("/products/:productID", deleteProductHandler(deps.ProductSvc))
		adminCatalog.POST("/categories", createCategoryHandler(deps.CategorySvc))
		adminCatalog.PUT("/categories/:categoryID", renameCategoryHandler(deps.CategorySvc))
		adminCatalog.DELETE("/categories/:categoryID", deleteCategoryHandler(deps.CategorySvc))
	}

	cart := router.Group("/cart", authRequired(deps.AuthSvc))
	{
		cart.GET("", getCartHandler(deps.CartSvc))
		cart.POST("/items", addCartItemHandler(deps.CartSvc))
		cart.PUT("/items/:itemID", updateCartItemHandler(deps.CartSvc))
		cart.DELETE("/items/:itemID", removeCartItemHandler(deps.CartSvc))
	}

	orders := router.Group("/orders", authRequired(deps.AuthSvc))
	{
		orders.POST("/checkout", checkoutHandler(deps.CheckoutSvc))
		orders.GET("", listOrdersHandler(deps.OrderSvc))
		orders.GET("/:orderID", getOrderHandler(deps.OrderSvc))
		orders.POST("/:orderID/cancel", cancelOrderHandler(deps.OrderSvc))
		orders.PUT("/:orderID", requireRole(domain.RoleAdmin), adminUpdateOrderHandler(deps.OrderSvc))
	}

	payments := router.Group("/payments", authRequired(deps.AuthSvc))
	{
		payments.POST("/orders/:orderID", createPaymentHandler(deps.PaymentSvc))
		payments.GET("/:paymentID", getPaymentHandler(deps.PaymentSvc))
		payments.GET("", requireRole(domain.RoleAdmin), listPaymentsHandler(deps.PaymentSvc))
		payments.PUT("/:paymentID", requireRole(domain.RoleAdmin), updatePaymentHandler(deps.PaymentSvc))
		payments.POST("/:paymentID/refund", requireRole(domain.RoleAdmin), refundPaymentHandler(deps.PaymentSvc))
	}

	delivery := router.Group("/delivery", authRequired(deps.AuthSvc), requireRole(domain.RoleDelivery))
	{
		delivery.GET("/orders", listDeliveryOrdersHandler(deps.DeliverySvc))
		delivery.PUT("/orders/:orderID/status", updateDeliveryStatusHandler(deps.DeliverySvc))
	}

	return router, nil
}
