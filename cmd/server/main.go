package main

import (
	"context"
	"database/sql"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	_ "github.com/go-sql-driver/mysql"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"

	"github.com/shopyard/gocart/internal/adapter/email"
	"github.com/shopyard/gocart/internal/adapter/handler"
	"github.com/shopyard/gocart/internal/adapter/payment"
	"github.com/shopyard/gocart/internal/adapter/storage"
	"github.com/shopyard/gocart/internal/config"
	"github.com/shopyard/gocart/internal/core/service"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("failed to load config: %v", err)
	}

	logger, err := newLogger(cfg)
	if err != nil {
		log.Fatalf("failed to build logger: %v", err)
	}
	defer logger.Sync()

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	// MySQL
	db, err := sql.Open("mysql", cfg.MySQLDSN)
	if err != nil {
		logger.Fatal("failed to open mysql", zap.Error(err))
	}
	db.SetMaxOpenConns(50)
	db.SetMaxIdleConns(25)
	db.SetConnMaxLifetime(5 * time.Minute)
	if err := db.PingContext(ctx); err != nil {
		logger.Fatal("failed to ping mysql", zap.Error(err))
	}
	logger.Info("connected to mysql")

	// Redis
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.RedisAddr,
		PoolSize: 100,
	})
	if err := rdb.Ping(ctx).Err(); err != nil {
		logger.Fatal("failed to connect redis", zap.Error(err))
	}
	logger.Info("connected to redis")

	// Adapters
	cache := storage.NewRedisCache(rdb)
	catalogRepo := storage.NewMySQLCatalog(db)
	orderRepo := storage.NewMySQLOrders(db)
	cartRepo := storage.NewMySQLCarts(db)
	reviewRepo := storage.NewMySQLReviews(db)
	distributorRepo := storage.NewMySQLDistributors(db)

	gateway := payment.NewClient(cfg.CheckoutBaseURL, cfg.CheckoutAPIKey, logger)
	verifier := payment.NewWebhookVerifier(cfg.CheckoutWebhookSecret)

	mailer := email.NewDispatcher(
		email.NewHTTPMailer(cfg.MailBaseURL, cfg.MailAPIKey, cfg.MailFrom),
		cfg.MailWorkers, cfg.MailQueueSize, logger,
	)

	// Services
	catalogSvc := service.NewCatalogService(catalogRepo, cache, logger)
	cartSvc := service.NewCartService(cartRepo, catalogRepo)
	orderSvc := service.NewOrderService(orderRepo, cartRepo, cache, gateway, mailer,
		service.CheckoutURLs{Success: cfg.CheckoutSuccessURL, Cancel: cfg.CheckoutCancelURL}, logger)
	reviewSvc := service.NewReviewService(reviewRepo, catalogRepo, cache, logger)
	distributorSvc := service.NewDistributorService(distributorRepo, mailer, logger)

	router := handler.NewRouter(catalogSvc, cartSvc, orderSvc, reviewSvc, distributorSvc,
		verifier, cfg.JWTSecret, cfg.AllowedOrigins, logger)

	httpServer := &http.Server{
		Addr:    cfg.ServerAddress,
		Handler: router.Setup(),
	}

	go func() {
		logger.Info("http server listening", zap.String("addr", cfg.ServerAddress))
		if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
			logger.Error("http server error", zap.Error(err))
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	logger.Info("shutting down")

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer shutdownCancel()
	httpServer.Shutdown(shutdownCtx)
	logger.Info("http server stopped")

	// Drain queued mail before dropping connections.
	mailer.Close()
	logger.Info("mail dispatcher stopped")

	rdb.Close()
	db.Close()
	logger.Info("connections closed")
}

func newLogger(cfg *config.Config) (*zap.Logger, error) {
	if cfg.IsDevelopment() {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
