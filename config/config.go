package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Log       LogConfig
	Embedding EmbeddingConfig
	Cache     CacheConfig
	Catalog   CatalogConfig
	Search    SearchConfig
	Dupe      DupeConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Host           string   `mapstructure:"host"`
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// LogConfig holds logging configuration
type LogConfig struct {
	Level  string `mapstructure:"level"`
	Pretty bool   `mapstructure:"pretty"`
}

// EmbeddingConfig holds embedding provider configuration
type EmbeddingConfig struct {
	Provider          string        `mapstructure:"provider"` // "http" or "mock"
	BaseURL           string        `mapstructure:"base_url"`
	APIKey            string        `mapstructure:"api_key"`
	Model             string        `mapstructure:"model"`
	Dimension         int           `mapstructure:"dimension"`
	BatchSize         int           `mapstructure:"batch_size"`
	Timeout           time.Duration `mapstructure:"timeout"`
	RequestsPerSecond float64       `mapstructure:"requests_per_second"`
}

// CacheConfig holds embedding-cache configuration
type CacheConfig struct {
	Type     string        `mapstructure:"type"` // "memory", "redis" or "none"
	Addr     string        `mapstructure:"addr"`
	Password string        `mapstructure:"password"`
	DB       int           `mapstructure:"db"`
	TTL      time.Duration `mapstructure:"ttl"`
}

// CatalogConfig holds catalog and snapshot paths
type CatalogConfig struct {
	CSVPath      string `mapstructure:"csv_path"`
	SnapshotPath string `mapstructure:"snapshot_path"`
}

// SearchConfig holds similarity search tuning
type SearchConfig struct {
	TopN          int     `mapstructure:"top_n"`
	PriceHeadroom float64 `mapstructure:"price_headroom"`
}

// DupeConfig holds dupe qualification thresholds
type DupeConfig struct {
	SimilarityFloor float64 `mapstructure:"similarity_floor"`
	PriceRatio      float64 `mapstructure:"price_ratio"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	// Load .env first so viper sees its variables
	if err := loadEnvFile(); err != nil {
		return nil, fmt.Errorf("error loading .env file: %w", err)
	}

	v := viper.New()

	// Set config name and paths
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/dupefinder/")

	// Environment variable settings
	v.SetEnvPrefix("DUPEFINDER")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	// Set default values
	setDefaults(v)

	// Read config file (optional - will use env vars if file doesn't exist)
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
		// Config file not found; using environment variables and defaults
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	// Validate configuration
	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// loadEnvFile loads a .env file from the working directory if one exists.
// Existing environment variables are never overridden.
func loadEnvFile() error {
	if _, err := os.Stat(".env"); os.IsNotExist(err) {
		return nil
	}
	return godotenv.Load()
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.host", "0.0.0.0")
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"*"})

	// Logging defaults
	v.SetDefault("log.level", "info")
	v.SetDefault("log.pretty", false)

	// Embedding defaults. Keys with zero defaults are still registered
	// here, otherwise Unmarshal never sees their env-only values.
	v.SetDefault("embedding.provider", "http")
	v.SetDefault("embedding.base_url", "http://localhost:8081")
	v.SetDefault("embedding.api_key", "")
	v.SetDefault("embedding.model", "all-MiniLM-L6-v2")
	v.SetDefault("embedding.dimension", 384)
	v.SetDefault("embedding.batch_size", 32)
	v.SetDefault("embedding.timeout", "30s")
	v.SetDefault("embedding.requests_per_second", 5)

	// Cache defaults
	v.SetDefault("cache.type", "memory")
	v.SetDefault("cache.addr", "")
	v.SetDefault("cache.password", "")
	v.SetDefault("cache.db", 0)
	v.SetDefault("cache.ttl", "720h") // 30 days

	// Catalog defaults
	v.SetDefault("catalog.csv_path", "data/cosmetics.csv")
	v.SetDefault("catalog.snapshot_path", "data/index.db")

	// Search defaults
	v.SetDefault("search.top_n", 20)
	v.SetDefault("search.price_headroom", 1.5)

	// Dupe defaults
	v.SetDefault("dupe.similarity_floor", 0.70)
	v.SetDefault("dupe.price_ratio", 0.85)
}

// validate validates the configuration
func validate(config *Config) error {
	switch config.Embedding.Provider {
	case "http":
		if config.Embedding.BaseURL == "" {
			return fmt.Errorf("embedding base URL is required (set DUPEFINDER_EMBEDDING_BASE_URL)")
		}
	case "mock":
		// Runs offline, nothing to check
	default:
		return fmt.Errorf("embedding provider must be 'http' or 'mock', got: %s", config.Embedding.Provider)
	}

	if config.Cache.Type != "memory" && config.Cache.Type != "redis" && config.Cache.Type != "none" {
		return fmt.Errorf("cache type must be 'memory', 'redis' or 'none', got: %s", config.Cache.Type)
	}

	if config.Cache.Type == "redis" && config.Cache.Addr == "" {
		return fmt.Errorf("Redis address is required when cache type is 'redis'")
	}

	if config.Dupe.SimilarityFloor < 0 || config.Dupe.SimilarityFloor > 1 {
		return fmt.Errorf("dupe similarity floor must be between 0 and 1, got: %v", config.Dupe.SimilarityFloor)
	}

	return nil
}
