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

	"github.com/dvbwitso/kire-studio/internal/booking"
	"github.com/dvbwitso/kire-studio/internal/cart"
	"github.com/dvbwitso/kire-studio/internal/catalog"
	"github.com/dvbwitso/kire-studio/internal/checkout"
	"github.com/dvbwitso/kire-studio/internal/cms"
	"github.com/dvbwitso/kire-studio/internal/httpapi"
	"github.com/dvbwitso/kire-studio/internal/inventory"
	"github.com/dvbwitso/kire-studio/internal/outbox"
)

type Config struct {
	HTTPPort        string
	RequestTimeout  time.Duration
	ShutdownTimeout time.Duration

	RedisAddr string
	CartStore string // "redis" or "memory"

	MongoURI string
	MongoDB  string

	KafkaBrokers string

	CMS cms.Config

	Outbox outbox.Credentials
}

func loadConfig() (*Config, error) {
	dbPort, err := strconv.Atoi(getEnv("DB_PORT", "5432"))
	if err != nil {
		return nil, err
	}

	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		RequestTimeout:  30 * time.Second,
		ShutdownTimeout: 10 * time.Second,
		RedisAddr:       getEnv("REDIS_ADDR", "localhost:6379"),
		CartStore:       getEnv("CART_STORE", "redis"),
		MongoURI:        getEnv("MONGO_URI", "mongodb://localhost:27017"),
		MongoDB:         getEnv("MONGO_DB", "kirestudio"),
		KafkaBrokers:    getEnv("KAFKA_BROKERS", "localhost:9092"),
		CMS: cms.Config{
			BaseURL:    getEnv("CMS_BASE_URL", "https://3klw8jzl.api.sanity.io"),
			Dataset:    getEnv("CMS_DATASET", "production"),
			APIVersion: getEnv("CMS_API_VERSION", "2024-01-01"),
			Token:      os.Getenv("CMS_TOKEN"),
		},
		Outbox: outbox.Credentials{
			Host:              getEnv("DB_HOST", "localhost"),
			Port:              dbPort,
			User:              getEnv("DB_USER", "postgres"),
			Password:          getEnv("DB_PASSWORD", "postgres"),
			DBName:            getEnv("DB_NAME", "kirestudio"),
			MigrationsDirPath: getEnv("MIGRATIONS_PATH", "./migrations"),
		},
	}, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func main() {
	log.Println("storefront server starting...")

	cfg, err := loadConfig()
	if err != nil {
		log.Fatalf("invalid configuration: %v", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// Outbox database
	repo, err := outbox.NewRepository(&cfg.Outbox)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	defer repo.Close()

	if err := repo.RunMigrations(&cfg.Outbox); err != nil {
		log.Fatalf("Failed to run migrations: %v", err)
	}
	log.Println("Database migrations completed")

	// Bookings database
	mongoDB, err := booking.ConnectMongoDB(ctx, cfg.MongoURI, cfg.MongoDB)
	if err != nil {
		log.Fatalf("Failed to connect to MongoDB: %v", err)
	}
	bookingRepo := booking.NewMongoRepository(mongoDB)
	if err := bookingRepo.CreateIndexes(ctx); err != nil {
		log.Fatalf("Failed to create booking indexes: %v", err)
	}

	redisClient := redis.NewClient(&redis.Options{Addr: cfg.RedisAddr})
	defer redisClient.Close()

	// Wiring
	cmsClient := cms.NewClient(cfg.CMS)
	ledger := inventory.NewLedger()
	catalogService := catalog.NewService(cmsClient, catalog.NewRedisCache(redisClient), ledger)

	var cartStore cart.Store
	if cfg.CartStore == "memory" {
		cartStore = cart.NewMemoryStore()
	} else {
		cartStore = cart.NewRedisStore(redisClient)
	}
	cartService := cart.NewService(cartStore, ledger, catalogService)

	sequencer := checkout.NewSequencer(cartService, ledger, catalogService, cmsClient, repo)
	bookingService := booking.NewService(catalogService, bookingRepo, cmsClient, repo)

	// Outbox poller
	poller := outbox.NewPoller(repo, strings.Split(cfg.KafkaBrokers, ",")...)
	defer poller.Close()
	go poller.Run(ctx)

	router := httpapi.NewRouter(
		httpapi.NewCatalogHandler(catalogService),
		httpapi.NewCartHandler(cartService),
		httpapi.NewCheckoutHandler(sequencer),
		httpapi.NewBookingHandler(bookingService),
		cfg.RequestTimeout,
	)

	srv := &http.Server{
		Addr:         ":" + cfg.HTTPPort,
		Handler:      router,
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 10 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	go func() {
		log.Printf("storefront API listening on :%s", cfg.HTTPPort)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("server error: %v", err)
		}
	}()

	<-ctx.Done()

	log.Println("shutting down server...")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("server forced to shutdown: %v", err)
	}

	log.Println("server exited")
}
