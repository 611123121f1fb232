package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"storefront-be/internal/auth"
	"storefront-be/internal/config"
	"storefront-be/internal/db"
	"storefront-be/internal/httpapi"
	"storefront-be/internal/logger"
	"storefront-be/internal/metrics"
	"storefront-be/internal/order"
	"storefront-be/internal/product"
	"storefront-be/internal/user"
)

func main() {
	cfg := config.LoadConfig()

	logger.Init(cfg.AppEnv)
	defer logger.Sync()

	database := db.InitDB(cfg)
	defer database.Close()

	hasher := auth.NewBcryptHasher(cfg.BcryptCost)
	tokens, err := auth.NewJWTManager(cfg.JWTSecret, 24*time.Hour)
	if err != nil {
		log.Fatalf("Failed to initialize token manager: %v", err)
	}

	stats := metrics.New()

	userRepo := user.NewRepository(database)
	userSvc := user.NewService(userRepo, hasher)

	productRepo := product.NewRepository(database)
	productSvc := product.NewService(productRepo)

	orderRepo := order.NewRepository(database)
	orderSvc := order.NewService(orderRepo, productSvc, stats)

	router := httpapi.NewRouter(httpapi.Deps{
		Users:    userSvc,
		Products: productSvc,
		Orders:   orderSvc,
		Tokens:   tokens,
		Stats:    stats,
	})

	srv := &http.Server{
		Addr:         ":" + cfg.AppPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("🚀 Server running at http://localhost:%s/", cfg.AppPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}
}
