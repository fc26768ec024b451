package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"strconv"
	"strings"
	"syscall"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/GohLiangHong/SupermarketApp/internal/correlation"
	"github.com/GohLiangHong/SupermarketApp/internal/events"
	h "github.com/GohLiangHong/SupermarketApp/internal/http"
	"github.com/GohLiangHong/SupermarketApp/internal/payment/card"
	"github.com/GohLiangHong/SupermarketApp/internal/payment/netsqr"
	"github.com/GohLiangHong/SupermarketApp/internal/repository"
	"github.com/GohLiangHong/SupermarketApp/internal/service"
)

type Config struct {
	HTTPPort        string
	JWTSecret       string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	DBHost        string
	DBPort        int
	DBUser        string
	DBPassword    string
	DBName        string
	MigrationsDir string

	RedisAddr    string
	KafkaBrokers string

	CardBaseURL      string
	CardClientID     string
	CardClientSecret string

	NetsBaseURL   string
	NetsAPIKey    string
	NetsProjectID string
}

func loadConfig() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		JWTSecret:       getEnv("JWT_SECRET", "dev-secret-change-me"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,

		DBHost:        getEnv("DB_HOST", "localhost"),
		DBPort:        getEnvInt("DB_PORT", 5432),
		DBUser:        getEnv("DB_USER", "postgres"),
		DBPassword:    getEnv("DB_PASSWORD", "postgres"),
		DBName:        getEnv("DB_NAME", "storefront"),
		MigrationsDir: getEnv("MIGRATIONS_DIR", "migrations"),

		RedisAddr:    getEnv("REDIS_ADDR", "localhost:6379"),
		KafkaBrokers: getEnv("KAFKA_BROKERS", ""),

		CardBaseURL:      getEnv("CARD_API_BASE_URL", "https://api-m.sandbox.paypal.com"),
		CardClientID:     getEnv("CARD_CLIENT_ID", ""),
		CardClientSecret: getEnv("CARD_CLIENT_SECRET", ""),

		NetsBaseURL:   getEnv("NETS_API_BASE_URL", "https://sandbox.nets.openapipaas.com/api/v1/common/payments/nets-qr"),
		NetsAPIKey:    getEnv("NETS_API_KEY", ""),
		NetsProjectID: getEnv("NETS_PROJECT_ID", ""),
	}
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if n, err := strconv.Atoi(value); err == nil {
			return n
		}
	}
	return defaultValue
}

func main() {
	cfg := loadConfig()

	cred := &repository.Credentials{
		Host:              cfg.DBHost,
		Port:              cfg.DBPort,
		User:              cfg.DBUser,
		Password:          cfg.DBPassword,
		DBName:            cfg.DBName,
		MigrationsDirPath: cfg.MigrationsDir,
	}
	repo, err := repository.NewRepository(cred)
	if err != nil {
		log.Fatalf("failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(cred); err != nil {
		log.Fatalf("failed to run migrations: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()
	corrStore := correlation.NewRedisStore(redisClient)

	var publisher events.Publisher = events.NopPublisher{}
	if cfg.KafkaBrokers != "" {
		kafkaPublisher := events.NewKafkaPublisher(strings.Split(cfg.KafkaBrokers, ",")...)
		defer kafkaPublisher.Close()
		publisher = kafkaPublisher
	}

	cardClient := card.NewClient(card.Config{
		BaseURL:      cfg.CardBaseURL,
		ClientID:     cfg.CardClientID,
		ClientSecret: cfg.CardClientSecret,
	})
	qrClient := netsqr.NewClient(netsqr.Config{
		BaseURL:   cfg.NetsBaseURL,
		APIKey:    cfg.NetsAPIKey,
		ProjectID: cfg.NetsProjectID,
	})

	productRepo := repository.NewProductRepository(repo)
	cartRepo := repository.NewCartRepository(repo)
	orderRepo := repository.NewOrderRepository(repo)
	voucherRepo := repository.NewVoucherRepository(repo)
	walletRepo := repository.NewWalletRepository(repo)
	feedbackRepo := repository.NewFeedbackRepository(repo)

	productService := service.NewProductService(productRepo)
	cartService := service.NewCartService(cartRepo, productRepo)
	voucherService := service.NewVoucherService(voucherRepo)
	checkoutService := service.NewCheckoutService(cartRepo, orderRepo, voucherService)
	orderService := service.NewOrderService(orderRepo)
	settlementService := service.NewSettlementService(orderRepo, voucherRepo, cartRepo, publisher)
	paymentService := service.NewPaymentService(orderService, settlementService, cardClient, qrClient, corrStore)
	walletService := service.NewWalletService(walletRepo, orderService, settlementService, cardClient, qrClient, corrStore, publisher)
	feedbackService := service.NewFeedbackService(feedbackRepo, orderService)

	router := h.NewRouter(
		h.RouterConfig{
			JWTSecret:      []byte(cfg.JWTSecret),
			RequestTimeout: cfg.RequestTimeout,
		},
		h.Handlers{
			Products: h.NewProductHandler(productService),
			Cart:     h.NewCartHandler(cartService),
			Checkout: h.NewCheckoutHandler(checkoutService),
			Orders:   h.NewOrderHandler(orderService, settlementService),
			Payments: h.NewPaymentHandler(paymentService),
			QrStream: h.NewQrStreamHandler(qrClient, paymentService, walletService, corrStore),
			Wallet:   h.NewWalletHandler(walletService),
			Vouchers: h.NewVoucherHandler(voucherService),
			Feedback: h.NewFeedbackHandler(feedbackService),
		},
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 0, // SSE streams write for minutes
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront server starting on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	// Graceful shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("shutting down server...")
	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
