package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/Netflix/go-env"
	"github.com/joho/godotenv"
)

const (
	BackendMongo = "mongo"
	BackendFile  = "file"
)

type Config struct {
	HTTPPort                    string        `env:"HTTP_PORT,default=8080"`
	StorageBackend              string        `env:"STORAGE_BACKEND,default=mongo"`
	MongoURI                    string        `env:"MONGO_URI,default=mongodb://localhost:27017"`
	MongoDBName                 string        `env:"MONGO_DB_NAME,default=storefront"`
	MongoMaxPoolSize            int           `env:"MONGO_MAX_POOL_SIZE,default=100"`
	MongoMinPoolSize            int           `env:"MONGO_MIN_POOL_SIZE,default=10"`
	MongoConnectTimeout         time.Duration `env:"MONGO_CONNECT_TIMEOUT,default=10s"`
	MongoServerSelectionTimeout time.Duration `env:"MONGO_SERVER_SELECTION_TIMEOUT,default=5s"`
	DataDir                     string        `env:"DATA_DIR,default=./data"`
	RedisAddr                   string        `env:"REDIS_ADDR"`
	RedisPassword               string        `env:"REDIS_PASSWORD"`
	CartCacheTTL                time.Duration `env:"CART_CACHE_TTL,default=15m"`
	CartCacheTTLJitter          time.Duration `env:"CART_CACHE_TTL_JITTER,default=5m"`
	KafkaBrokers                string        `env:"KAFKA_BROKERS"`
	KafkaTopic                  string        `env:"KAFKA_TOPIC,default=storefront.events"`
	LogLevel                    string        `env:"LOG_LEVEL,default=info"`
	RequestTimeout              time.Duration `env:"REQUEST_TIMEOUT,default=30s"`
	ShutdownTimeout             time.Duration `env:"SHUTDOWN_TIMEOUT,default=10s"`
	MaxRequestBodySize          int64         `env:"MAX_REQUEST_BODY_SIZE,default=1048576"`
}

// Load reads an optional .env file and then the process environment.
func Load() (*Config, error) {
	_ = godotenv.Load()

	var cfg Config
	if _, err := env.UnmarshalFromEnviron(&cfg); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	switch c.StorageBackend {
	case BackendMongo, BackendFile:
	default:
		return fmt.Errorf("config error: STORAGE_BACKEND must be %q or %q, got %q", BackendMongo, BackendFile, c.StorageBackend)
	}
	if c.RequestTimeout <= 0 || c.ShutdownTimeout <= 0 {
		return fmt.Errorf("config error: timeouts must be positive")
	}
	if c.MongoConnectTimeout <= 0 || c.MongoServerSelectionTimeout <= 0 || c.CartCacheTTL <= 0 {
		return fmt.Errorf("config error: mongo timeouts and CART_CACHE_TTL must be positive")
	}
	if c.MongoMinPoolSize < 0 || c.MongoMaxPoolSize <= 0 {
		return fmt.Errorf("config error: mongo pool sizes must be positive")
	}
	if c.MongoMinPoolSize > c.MongoMaxPoolSize {
		return fmt.Errorf("config error: MONGO_MIN_POOL_SIZE exceeds MONGO_MAX_POOL_SIZE")
	}
	if c.MaxRequestBodySize <= 0 {
		return fmt.Errorf("config error: MAX_REQUEST_BODY_SIZE must be positive")
	}
	return nil
}

// Brokers splits KAFKA_BROKERS on commas. Empty means events are not published.
func (c *Config) Brokers() []string {
	var brokers []string
	for _, b := range strings.Split(c.KafkaBrokers, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
