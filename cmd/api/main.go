package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"grocery-backend/internal/config"
	"grocery-backend/internal/db"
	"grocery-backend/internal/httpserver"
	cartrepo "grocery-backend/internal/repository/cart"
	categoryrepo "grocery-backend/internal/repository/category"
	orderrepo "grocery-backend/internal/repository/order"
	paymentrepo "grocery-backend/internal/repository/payment"
	productrepo "grocery-backend/internal/repository/product"
	userrepo "grocery-backend/internal/repository/user"
	authsvc "grocery-backend/internal/service/auth"
	cartsvc "grocery-backend/internal/service/cart"
	categorysvc "grocery-backend/internal/service/category"
	checkoutsvc "grocery-backend/internal/service/checkout"
	deliverysvc "grocery-backend/internal/service/delivery"
	ordersvc "grocery-backend/internal/service/order"
	paymentsvc "grocery-backend/internal/service/payment"
	productsvc "grocery-backend/internal/service/product"
)

func main() {
	cfg := config.FromEnv()
	logger := log.New(os.Stdout, "[api] ", log.LstdFlags|log.LUTC|log.Lshortfile)

	ctx := context.Background()
	dbpool, err := db.Connect(ctx, cfg.DBConnString)
	if err != nil {
		logger.Fatalf("connect to db: %v", err)
	}
	defer dbpool.Close()

	users := userrepo.NewPostgres(dbpool)
	categories := categoryrepo.NewPostgres(dbpool)
	products := productrepo.NewPostgres(dbpool)
	carts := cartrepo.NewPostgres(dbpool)
	orders := orderrepo.NewPostgres(dbpool)
	payments := paymentrepo.NewPostgres(dbpool)

	authService := authsvc.New(users, cfg.JWTSecret, cfg.AccessTokenTTL)
	cartService := cartsvc.New(carts, products)
	checkoutService := checkoutsvc.New(carts, products, orders, cfg.DefaultCurrency)
	orderService := ordersvc.New(orders)
	paymentService := paymentsvc.New(payments, orders)
	deliveryService := deliverysvc.New(orders)
	productService := productsvc.New(products, cfg.DefaultCurrency)
	categoryService := categorysvc.New(categories)

	srv, err := httpserver.New(cfg.HTTPAddr, logger, dbpool, httpserver.Deps{
		AuthSvc:     authService,
		CartSvc:     cartService,
		CheckoutSvc: checkoutService,
		OrderSvc:    orderService,
		PaymentSvc:  paymentService,
		DeliverySvc: deliveryService,
		ProductSvc:  productService,
		CategorySvc: categoryService,
	})
	if err != nil {
		logger.Fatalf("init server: %v", err)
	}

	serverErr := make(chan error, 1)
	go func() {
		logger.Printf("starting http server on %s", cfg.HTTPAddr)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serverErr <- err
		}
	}()

	stopCh := make(chan os.Signal, 1)
	signal.Notify(stopCh, syscall.SIGINT, syscall.SIGTERM)

	select {
	case sig := <-stopCh:
		logger.Printf("received signal %s, shutting down", sig)
	case err := <-serverErr:
		logger.Printf("server error: %v", err)
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		logger.Printf("graceful shutdown failed: %v", err)
	} else {
		logger.Printf("server stopped")
	}
}
