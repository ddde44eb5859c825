package config

import (
	"fmt"
	"log"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

// Favorites persistence backends
const (
	BackendMemory   = "memory"
	BackendFile     = "file"
	BackendRedis    = "redis"
	BackendPostgres = "postgres"
)

// Config is the service configuration
type Config struct {
	Port                string
	AppEnv              string
	LogLevel            string
	LogEncoding         string
	ListingsURL         string
	FetchTimeout        time.Duration
	PageSize            int
	RecommendationLimit int
	Favorites           FavoritesConfig
	FilterCache         FilterCacheConfig
	DatabaseURL         string
	DatabaseConfig      DatabaseConfig
	RedisConfig         RedisConfig
	CloudinaryConfig    CloudinaryConfig
	NATSConfig          NATSConfig
}

// FavoritesConfig selects where favorites are persisted
type FavoritesConfig struct {
	Backend     string
	Key         string
	File        string
	MaxSessions int64
	SessionTTL  time.Duration
}

// FilterCacheConfig sizes the in-process cache of filtered pages
type FilterCacheConfig struct {
	MaxSize int64
	TTL     time.Duration
}

// DatabaseConfig holds the Postgres connection parameters
type DatabaseConfig struct {
	Host     string
	Port     string
	User     string
	Password string
	Name     string
	SSLMode  string
}

// RedisConfig holds the Redis connection parameters
type RedisConfig struct {
	Address  string
	Password string
	DB       int
}

// CloudinaryConfig enables card thumbnails when CloudName is set
type CloudinaryConfig struct {
	CloudName      string
	APIKey         string
	APISecret      string
	Transformation string
}

// NATSConfig enables favorite events when URL is set
type NATSConfig struct {
	URL     string
	Subject string
}

// LoadConfig reads .env (if present) and the environment
func LoadConfig() (*Config, error) {
	if err := godotenv.Load(); err != nil {
		log.Println(".env file not found, using environment variables")
	}

	dbConfig := DatabaseConfig{
		Host:     getEnv("PGHOST", "localhost"),
		Port:     getEnv("PGPORT", "5432"),
		User:     getEnv("PGUSER", "iv_user"),
		Password: getEnv("PGPASSWORD", "iv_pass"),
		Name:     getEnv("PGDATABASE", "iv_catalog"),
		SSLMode:  getEnv("PGSSLMODE", "disable"),
	}

	dbURL := fmt.Sprintf("postgres://%s:%s@%s:%s/%s?sslmode=%s",
		dbConfig.User, dbConfig.Password, dbConfig.Host, dbConfig.Port, dbConfig.Name, dbConfig.SSLMode)

	fetchTimeout, err := getDuration("FETCH_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}
	pageSize, err := getInt("PAGE_SIZE", 12)
	if err != nil {
		return nil, err
	}
	recommendationLimit, err := getInt("RECOMMENDATION_LIMIT", 2)
	if err != nil {
		return nil, err
	}
	redisDB, err := getInt("REDIS_DB", 0)
	if err != nil {
		return nil, err
	}
	cacheSize, err := getInt("FILTER_CACHE_SIZE", 1000)
	if err != nil {
		return nil, err
	}
	cacheTTL, err := getDuration("FILTER_CACHE_TTL", 5*time.Minute)
	if err != nil {
		return nil, err
	}
	maxSessions, err := getInt("FAVORITES_MAX_SESSIONS", 10000)
	if err != nil {
		return nil, err
	}
	sessionTTL, err := getDuration("FAVORITES_SESSION_TTL", 30*time.Minute)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		Port:                getEnv("PORT", "8080"),
		AppEnv:              getEnv("APP_ENV", "production"),
		LogLevel:            getEnv("LOG_LEVEL", "info"),
		LogEncoding:         getEnv("LOG_ENCODING", "json"),
		ListingsURL:         getEnv("LISTINGS_URL", "http://localhost:3000/data/properties_mock_100_clean.json"),
		FetchTimeout:        fetchTimeout,
		PageSize:            pageSize,
		RecommendationLimit: recommendationLimit,
		Favorites: FavoritesConfig{
			Backend:     getEnv("FAVORITES_BACKEND", BackendMemory),
			Key:         getEnv("FAVORITES_KEY", "favoritos"),
			File:        getEnv("FAVORITES_FILE", "data/favorites.json"),
			MaxSessions: int64(maxSessions),
			SessionTTL:  sessionTTL,
		},
		FilterCache: FilterCacheConfig{
			MaxSize: int64(cacheSize),
			TTL:     cacheTTL,
		},
		DatabaseURL:    dbURL,
		DatabaseConfig: dbConfig,
		RedisConfig: RedisConfig{
			Address:  getEnv("REDIS_ADDRESS", "localhost:6379"),
			Password: getEnv("REDIS_PASSWORD", ""),
			DB:       redisDB,
		},
		CloudinaryConfig: CloudinaryConfig{
			CloudName:      getEnv("CLOUDINARY_CLOUD_NAME", ""),
			APIKey:         getEnv("CLOUDINARY_API_KEY", ""),
			APISecret:      getEnv("CLOUDINARY_API_SECRET", ""),
			Transformation: getEnv("CLOUDINARY_TRANSFORMATION", "c_fill,w_640,h_420,q_auto,f_auto"),
		},
		NATSConfig: NATSConfig{
			URL:     getEnv("NATS_URL", ""),
			Subject: getEnv("NATS_SUBJECT", "catalog.favorites.toggled"),
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Favorites.Backend {
	case BackendMemory, BackendFile, BackendRedis, BackendPostgres:
	default:
		return fmt.Errorf("unknown FAVORITES_BACKEND %q", c.Favorites.Backend)
	}
	if c.ListingsURL == "" {
		return fmt.Errorf("LISTINGS_URL must not be empty")
	}
	if c.PageSize < 1 {
		return fmt.Errorf("PAGE_SIZE must be positive, got %d", c.PageSize)
	}
	if c.RecommendationLimit < 0 {
		return fmt.Errorf("RECOMMENDATION_LIMIT must not be negative, got %d", c.RecommendationLimit)
	}
	if c.Favorites.MaxSessions < 1 {
		return fmt.Errorf("FAVORITES_MAX_SESSIONS must be positive, got %d", c.Favorites.MaxSessions)
	}
	if c.FilterCache.MaxSize < 1 {
		return fmt.Errorf("FILTER_CACHE_SIZE must be positive, got %d", c.FilterCache.MaxSize)
	}
	if c.Favorites.Key == "" {
		return fmt.Errorf("FAVORITES_KEY must not be empty")
	}
	return nil
}

// IsDevelopment reports whether the service runs with APP_ENV=development
func (c *Config) IsDevelopment() bool {
	return c.AppEnv == "development"
}

// getEnv returns the variable value or defaultValue when it is not set
func getEnv(key, defaultValue string) string {
	if value, exists := os.LookupEnv(key); exists {
		return value
	}
	return defaultValue
}

func getInt(key string, defaultValue int) (int, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	v, err := strconv.Atoi(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return v, nil
}

func getDuration(key string, defaultValue time.Duration) (time.Duration, error) {
	raw, exists := os.LookupEnv(key)
	if !exists || raw == "" {
		return defaultValue, nil
	}
	v, err := time.ParseDuration(raw)
	if err != nil {
		return 0, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return v, nil
}
