package config

import (
	"errors"
	"testing"
)

func TestLoad(t *testing.T) {
	t.Setenv("TABLE_NAME", "Restaurants")
	t.Setenv("AWS_REGION", "us-east-1")
	t.Setenv("USE_CACHE", "true")
	t.Setenv("MEMCACHED_CONFIGURATION_ENDPOINT", "cache.example.com:11211")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if cfg.TableName != "Restaurants" {
		t.Errorf("TableName = %q, want Restaurants", cfg.TableName)
	}
	if !cfg.UseCache {
		t.Error("UseCache = false, want true")
	}
	if cfg.CuisineIndex != "CuisineIndex" {
		t.Errorf("CuisineIndex = %q, want default CuisineIndex", cfg.CuisineIndex)
	}
	if cfg.ListenAddr != ":8080" {
		t.Errorf("ListenAddr = %q, want default :8080", cfg.ListenAddr)
	}
	if cfg.RateMaxRetries != 3 {
		t.Errorf("RateMaxRetries = %d, want default 3", cfg.RateMaxRetries)
	}
}

func TestLoad_RequiresTableName(t *testing.T) {
	t.Setenv("TABLE_NAME", "")

	if _, err := Load(); err == nil {
		t.Error("Load() error = nil, want missing TABLE_NAME error")
	}
}

func TestLoad_CacheRequiresEndpoint(t *testing.T) {
	t.Setenv("TABLE_NAME", "Restaurants")
	t.Setenv("USE_CACHE", "true")
	t.Setenv("MEMCACHED_CONFIGURATION_ENDPOINT", "")

	_, err := Load()
	if !errors.Is(err, ErrCacheEndpointMissing) {
		t.Errorf("Load() error = %v, want ErrCacheEndpointMissing", err)
	}
}
