// Package config loads process configuration from the environment.
// Configuration is read once at startup and passed explicitly to
// constructors; nothing reads it ambiently afterwards.
package config

import (
	"errors"
	"fmt"

	"github.com/caarlos0/env/v11"
)

// ErrCacheEndpointMissing is returned when caching is enabled but no
// Memcached endpoint was configured.
var ErrCacheEndpointMissing = errors.New("config: USE_CACHE is true but MEMCACHED_CONFIGURATION_ENDPOINT is empty")

// Config holds the service configuration. The environment variable names
// match the original deployment so existing task definitions keep working.
type Config struct {
	// TableName is the DynamoDB table holding restaurant records.
	TableName string `env:"TABLE_NAME,required,notEmpty"`

	// AWSRegion overrides the SDK's default region resolution when set.
	AWSRegion string `env:"AWS_REGION"`

	// MemcachedEndpoint is the cache server address (for ElastiCache,
	// the cluster configuration endpoint).
	MemcachedEndpoint string `env:"MEMCACHED_CONFIGURATION_ENDPOINT"`

	// UseCache toggles the cache path. When false the cache adapter is
	// never constructed and every operation is a store pass-through.
	UseCache bool `env:"USE_CACHE" envDefault:"false"`

	// CuisineIndex is the rating-sorted secondary index on Cuisine.
	CuisineIndex string `env:"CUISINE_INDEX_NAME" envDefault:"CuisineIndex"`

	// RegionIndex is the secondary index on GeoRegion. Leave empty to
	// fall back to a filtered scan for region queries; the scan path
	// reads the whole table and gives no rating ordering.
	RegionIndex string `env:"REGION_INDEX_NAME"`

	// DynamoEndpoint points the SDK at a custom endpoint, e.g. DynamoDB
	// Local during development.
	DynamoEndpoint string `env:"DYNAMODB_ENDPOINT"`

	// ListenAddr is the HTTP listen address.
	ListenAddr string `env:"LISTEN_ADDR" envDefault:":8080"`

	// RateMaxRetries bounds the retry loop for conflicted rating updates.
	RateMaxRetries int `env:"RATE_MAX_RETRIES" envDefault:"3"`
}

// Load reads the configuration from the environment.
func Load() (Config, error) {
	var cfg Config
	if err := env.Parse(&cfg); err != nil {
		return Config{}, fmt.Errorf("parsing environment: %w", err)
	}
	if cfg.UseCache && cfg.MemcachedEndpoint == "" {
		return Config{}, ErrCacheEndpointMissing
	}
	return cfg, nil
}
