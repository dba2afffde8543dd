package main

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/kelseyhightower/envconfig"
	"github.com/redis/go-redis/v9"
	"github.com/sirupsen/logrus"

	"github.com/amritgyawali/lenskart/internal/cart"
	"github.com/amritgyawali/lenskart/internal/catalog"
	"github.com/amritgyawali/lenskart/internal/httpapi"
	"github.com/amritgyawali/lenskart/internal/persist"
	"github.com/amritgyawali/lenskart/internal/pricing"
	"github.com/amritgyawali/lenskart/internal/revalidate"
	"github.com/amritgyawali/lenskart/internal/storage"
)

type Config struct {
	HTTPPort           string        `envconfig:"HTTP_PORT" default:"8080"`
	RedisAddr          string        `envconfig:"REDIS_ADDR" default:""`
	RedisPassword      string        `envconfig:"REDIS_PASSWORD" default:""`
	CatalogDBPath      string        `envconfig:"CATALOG_DB_PATH" default:"catalog.db"`
	MigrationsPath     string        `envconfig:"MIGRATIONS_PATH" default:"migrations"`
	SessionID          string        `envconfig:"CART_SESSION_ID" default:""`
	RevalidateInterval time.Duration `envconfig:"REVALIDATE_INTERVAL" default:"60s"`
	RequestTimeout     time.Duration `envconfig:"REQUEST_TIMEOUT" default:"10s"`
	ShutdownTimeout    time.Duration `envconfig:"SHUTDOWN_TIMEOUT" default:"10s"`
}

func main() {
	log := logrus.New()
	log.SetFormatter(&logrus.TextFormatter{FullTimestamp: true})

	var cfg Config
	if err := envconfig.Process("cart", &cfg); err != nil {
		log.WithError(err).Fatal("failed to load configuration")
	}

	// Catalog: sqlite plus migrations, wrapped in the read-through cache.
	repo, err := catalog.NewRepository(cfg.CatalogDBPath)
	if err != nil {
		log.WithError(err).Fatal("failed to open catalog database")
	}
	if err := repo.RunMigrations(cfg.MigrationsPath); err != nil {
		log.WithError(err).Fatal("failed to run catalog migrations")
	}
	cat := catalog.NewCachedRepository(repo)
	defer cat.Close()
	log.WithField("db", cfg.CatalogDBPath).Info("catalog ready")

	// Cart blob store: redis when configured, in-process otherwise.
	var store storage.Store
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(context.Background()).Err(); err != nil {
			log.WithError(err).Fatal("redis connection failed")
		}
		store = storage.NewRedisStore(redisClient)
		log.WithField("addr", cfg.RedisAddr).Info("cart storage on redis")
	} else {
		store = storage.NewMemoryStore()
		log.Info("cart storage in memory")
	}

	sessionID := cfg.SessionID
	if sessionID == "" {
		sessionID = uuid.New().String()
	}
	log.WithField("session", sessionID).Info("cart session")

	syncer := persist.New(store, sessionID, log)
	manager := cart.NewManager(syncer, pricing.DefaultPolicy(), log)
	manager.Start(context.Background())

	scheduler := revalidate.NewScheduler(cfg.RevalidateInterval, func() {
		if !manager.ValidateCart() {
			log.Warn("revalidation dropped unavailable cart items")
		}
	}, log)
	scheduler.Start()

	cartHandler := httpapi.NewCartHandler(manager, cat, cfg.RequestTimeout, log)
	productHandler := httpapi.NewProductHandler(cat, cfg.RequestTimeout, log)

	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.RequestID)
	r.Use(middleware.Timeout(cfg.RequestTimeout))

	r.Get("/health", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})

	r.Route("/cart", func(r chi.Router) {
		r.Get("/", cartHandler.GetCart)
		r.Delete("/", cartHandler.ClearCart)
		r.Post("/items", cartHandler.AddItem)
		r.Patch("/items/{product_id}", cartHandler.UpdateQuantity)
		r.Delete("/items/{product_id}", cartHandler.RemoveItem)
		r.Post("/validate", cartHandler.ValidateCart)
	})
	r.Route("/products", func(r chi.Router) {
		r.Get("/", productHandler.List)
		r.Get("/{product_id}", productHandler.Get)
	})

	server := &http.Server{
		Addr:    fmt.Sprintf(":%s", cfg.HTTPPort),
		Handler: r,
	}

	go func() {
		log.WithField("port", cfg.HTTPPort).Info("storefront listening")
		if err := server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.WithError(err).Fatal("http server failed")
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Info("shutting down")
	scheduler.Stop()

	ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := server.Shutdown(ctx); err != nil {
		log.WithError(err).Error("http shutdown failed")
	}

	// In-flight cart writes are awaited, not cancelled.
	syncer.Wait()
	log.Info("stopped")
}
