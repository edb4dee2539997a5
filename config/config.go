package config

import (
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds all configuration for the application
type Config struct {
	Server    ServerConfig
	Embedding EmbeddingConfig
	Sources   SourcesConfig
	Matching  MatchingConfig
	Cache     CacheConfig
	RateLimit RateLimitConfig
}

// ServerConfig holds server-related configuration
type ServerConfig struct {
	Port           string   `mapstructure:"port"`
	Environment    string   `mapstructure:"environment"`
	AllowedOrigins []string `mapstructure:"allowed_origins"`
}

// EmbeddingConfig holds embedding-service configuration
type EmbeddingConfig struct {
	BaseURL string        `mapstructure:"base_url"`
	Timeout time.Duration `mapstructure:"timeout"`
}

// SourcesConfig holds the scraper-service endpoints per marketplace
type SourcesConfig struct {
	AmazonBaseURL   string `mapstructure:"amazon_base_url"`
	FlipkartBaseURL string `mapstructure:"flipkart_base_url"`
}

// MatchingConfig holds relevance-filter and matching-engine configuration
type MatchingConfig struct {
	SimilarityThreshold     float64 `mapstructure:"similarity_threshold"`
	NameSimilarityThreshold float64 `mapstructure:"name_similarity_threshold"`
	MaxResults              int     `mapstructure:"max_results"`
	ExcludeNonProduct       bool    `mapstructure:"exclude_non_product"`
	FallbackUnfiltered      bool    `mapstructure:"fallback_unfiltered"`
	EnableDebugLogging      bool    `mapstructure:"enable_debug_logging"`
}

// CacheConfig holds cache-related configuration
type CacheConfig struct {
	TTL time.Duration `mapstructure:"ttl"`
}

// RateLimitConfig holds outbound requests-per-second limits
type RateLimitConfig struct {
	Embedding int `mapstructure:"embedding"`
	Sources   int `mapstructure:"sources"`
}

// Load loads configuration from environment variables and config files
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")
	v.AddConfigPath("/etc/dealscout/")

	v.SetEnvPrefix("DEALSCOUT")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	setDefaults(v)

	// Config file is optional; env vars and defaults cover everything
	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			return nil, fmt.Errorf("error reading config file: %w", err)
		}
	}

	var config Config
	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	if err := validate(&config); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &config, nil
}

// setDefaults sets default configuration values
func setDefaults(v *viper.Viper) {
	// Server defaults
	v.SetDefault("server.port", "8080")
	v.SetDefault("server.environment", "development")
	v.SetDefault("server.allowed_origins", []string{"http://localhost:3000"})

	// Embedding defaults
	v.SetDefault("embedding.base_url", "http://localhost:8090")
	v.SetDefault("embedding.timeout", "30s")

	// Matching defaults
	v.SetDefault("matching.similarity_threshold", 0.80)
	v.SetDefault("matching.name_similarity_threshold", 0.70)
	v.SetDefault("matching.max_results", 10)
	v.SetDefault("matching.exclude_non_product", true)
	v.SetDefault("matching.fallback_unfiltered", false)
	v.SetDefault("matching.enable_debug_logging", false)

	// Source endpoints have no defaults; register the keys so that
	// Unmarshal picks up their env var values
	v.SetDefault("sources.amazon_base_url", "")
	v.SetDefault("sources.flipkart_base_url", "")

	// Cache defaults
	v.SetDefault("cache.ttl", "1h")

	// Rate limit defaults (requests per second)
	v.SetDefault("ratelimit.embedding", 10)
	v.SetDefault("ratelimit.sources", 5)
}

// validate validates the configuration
func validate(config *Config) error {
	if config.Embedding.BaseURL == "" {
		return fmt.Errorf("embedding base URL is required (set DEALSCOUT_EMBEDDING_BASE_URL)")
	}

	if config.Sources.AmazonBaseURL == "" {
		return fmt.Errorf("amazon source base URL is required (set DEALSCOUT_SOURCES_AMAZON_BASE_URL)")
	}
	if config.Sources.FlipkartBaseURL == "" {
		return fmt.Errorf("flipkart source base URL is required (set DEALSCOUT_SOURCES_FLIPKART_BASE_URL)")
	}

	if t := config.Matching.SimilarityThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("matching similarity threshold must be in (0,1], got: %v", t)
	}
	if t := config.Matching.NameSimilarityThreshold; t <= 0 || t > 1 {
		return fmt.Errorf("name similarity threshold must be in (0,1], got: %v", t)
	}

	return nil
}
