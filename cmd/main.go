package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/dgraph-io/badger/v4"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"

	c "github.com/fjod/go_cart/storefront/internal/cache"
	"github.com/fjod/go_cart/storefront/internal/chat"
	"github.com/fjod/go_cart/storefront/internal/config"
	h "github.com/fjod/go_cart/storefront/internal/http"
	"github.com/fjod/go_cart/storefront/internal/logger"
	"github.com/fjod/go_cart/storefront/internal/publisher"
	"github.com/fjod/go_cart/storefront/internal/repository"
	s "github.com/fjod/go_cart/storefront/internal/service"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "fatal error: %v\n", err)
		os.Exit(1)
	}
}

type repositories struct {
	products repository.ProductRepository
	carts    repository.CartRepository
	messages repository.MessageRepository
	close    func()
}

func run() error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	log := logger.New(cfg.LogLevel)
	slog.SetDefault(log)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	repos, err := openRepositories(ctx, cfg, log)
	if err != nil {
		return err
	}
	defer repos.close()

	cartCache := c.CartCache(c.NopCache{})
	var relay *chat.RedisRelay
	if cfg.RedisAddr != "" {
		redisClient := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
			DB:       0,
		})
		defer redisClient.Close()
		if err := redisClient.Ping(ctx).Err(); err != nil {
			return fmt.Errorf("redis connection failed: %w", err)
		}
		log.Info("redis ping succeeded", "addr", cfg.RedisAddr)

		cartCache = c.NewRedisCache(redisClient, c.Options{TTL: cfg.CartCacheTTL, TTLJitter: cfg.CartCacheTTLJitter})
		relay = chat.NewRedisRelay(redisClient, chat.DefaultRelayChannel, log)
	}

	pub := publisher.Publisher(publisher.NopPublisher{})
	if brokers := cfg.Brokers(); len(brokers) > 0 {
		pub = publisher.NewKafkaPublisher(cfg.KafkaTopic, brokers...)
		log.Info("publishing events to kafka", "brokers", brokers, "topic", cfg.KafkaTopic)
	}
	defer func() {
		if err := pub.Close(); err != nil {
			log.Warn("publisher close failed", "error", err)
		}
	}()

	productService := s.NewProductService(repos.products, pub, log)
	cartService := s.NewCartService(repos.carts, repos.products, cartCache, pub, log)
	messageService := s.NewMessageService(repos.messages, pub, log)
	// runs before the publisher is closed
	defer func() {
		productService.WaitForEvents()
		cartService.WaitForEvents()
		messageService.WaitForEvents()
	}()

	hub := chat.NewHub(messageService, log)
	if relay != nil {
		if err := relay.Start(ctx, hub.Deliver); err != nil {
			return fmt.Errorf("chat relay subscribe failed: %w", err)
		}
		defer relay.Close()
		hub.UseRelay(relay)
	}

	router := h.NewRouter(h.RouterConfig{
		RequestTimeout:     cfg.RequestTimeout,
		MaxRequestBodySize: cfg.MaxRequestBodySize,
	}, h.Handlers{
		Products: h.NewProductHandler(productService, cfg.RequestTimeout),
		Carts:    h.NewCartHandler(cartService, cfg.RequestTimeout),
		Messages: h.NewMessageHandler(messageService, cfg.RequestTimeout),
		Chat:     chat.NewHandler(hub, log),
	})

	srv := &http.Server{
		Addr:        ":" + cfg.HTTPPort,
		Handler:     otelhttp.NewHandler(router, "storefront"),
		ReadTimeout: 10 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		log.Info("storefront starting", "port", cfg.HTTPPort, "backend", cfg.StorageBackend)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- fmt.Errorf("server error: %w", err)
		}
	}()

	select {
	case <-ctx.Done():
		log.Info("shutting down server...")
	case err := <-errChan:
		return err
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server forced to shutdown: %w", err)
	}

	log.Info("server exited")
	return nil
}

func openRepositories(ctx context.Context, cfg *config.Config, log *slog.Logger) (*repositories, error) {
	switch cfg.StorageBackend {
	case config.BackendFile:
		if err := os.MkdirAll(cfg.DataDir, 0o755); err != nil {
			return nil, fmt.Errorf("create data dir: %w", err)
		}
		db, err := badger.Open(badger.DefaultOptions(filepath.Join(cfg.DataDir, "messages")).
			WithLoggingLevel(badger.WARNING))
		if err != nil {
			return nil, fmt.Errorf("message log opening failed: %w", err)
		}
		log.Info("using file storage", "dir", cfg.DataDir)
		return &repositories{
			products: repository.NewFileProductRepository(cfg.DataDir),
			carts:    repository.NewFileCartRepository(cfg.DataDir),
			messages: repository.NewBadgerMessageRepository(db),
			close: func() {
				log.Info("closing message log...")
				_ = db.Close()
			},
		}, nil
	default:
		if err := repository.RunMigrations(cfg.MongoURI, cfg.MongoDBName); err != nil {
			return nil, fmt.Errorf("migrations failed: %w", err)
		}
		mongoDB, err := repository.ConnectMongoDB(ctx, repository.MongoConfig{
			URI:                    cfg.MongoURI,
			Database:               cfg.MongoDBName,
			MaxPoolSize:            uint64(cfg.MongoMaxPoolSize),
			MinPoolSize:            uint64(cfg.MongoMinPoolSize),
			ConnectTimeout:         cfg.MongoConnectTimeout,
			ServerSelectionTimeout: cfg.MongoServerSelectionTimeout,
		})
		if err != nil {
			return nil, fmt.Errorf("failed to connect to MongoDB: %w", err)
		}
		log.Info("connected to MongoDB", "db", cfg.MongoDBName)
		return &repositories{
			products: repository.NewMongoProductRepository(mongoDB),
			carts:    repository.NewMongoCartRepository(mongoDB),
			messages: repository.NewMongoMessageRepository(mongoDB),
			close: func() {
				_ = mongoDB.Client().Disconnect(context.Background())
			},
		}, nil
	}
}
