// Package dynamodirectoryfx provides an fx module for a directory service
// backed by DynamoDB, with an optional Memcached cache, wired from the
// process configuration.
package dynamodirectoryfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tablerank/tablerank"
	"github.com/tablerank/tablerank/internal/cache/memcached"
	"github.com/tablerank/tablerank/internal/config"
	"github.com/tablerank/tablerank/internal/stats"
	statsprom "github.com/tablerank/tablerank/internal/stats/prometheus"
	"github.com/tablerank/tablerank/internal/store/dynamostore"
)

// Module provides a production directory service.
// Requires a *zap.Logger and a config.Config to be provided.
var Module = fx.Module("dynamodirectory",
	fx.Provide(
		newStatsCollector,
		newStore,
		newService,
	),
)

func newStatsCollector() stats.Collector {
	return statsprom.New(nil)
}

func newStore(cfg config.Config) (*dynamostore.Store, error) {
	opts := []dynamostore.Option{
		dynamostore.WithCuisineIndex(cfg.CuisineIndex),
	}
	if cfg.AWSRegion != "" {
		opts = append(opts, dynamostore.WithRegion(cfg.AWSRegion))
	}
	if cfg.RegionIndex != "" {
		opts = append(opts, dynamostore.WithRegionIndex(cfg.RegionIndex))
	}
	if cfg.DynamoEndpoint != "" {
		opts = append(opts, dynamostore.WithEndpoint(cfg.DynamoEndpoint))
	}
	return dynamostore.New(context.Background(), cfg.TableName, opts...)
}

// Params holds dependencies for creating the service.
type Params struct {
	fx.In

	Config    config.Config
	Logger    *zap.Logger
	Collector stats.Collector
	Store     *dynamostore.Store
	Lifecycle fx.Lifecycle
}

func newService(p Params) (*tablerank.Service, error) {
	opts := []tablerank.Option{
		tablerank.WithStore(p.Store),
		tablerank.WithStats(p.Collector),
		tablerank.WithLogger(p.Logger.Named("tablerank")),
		tablerank.WithMaxRateRetries(p.Config.RateMaxRetries),
	}
	if p.Config.UseCache {
		opts = append(opts, tablerank.WithCache(
			memcached.New(p.Config.MemcachedEndpoint, p.Logger.Named("cache")),
		))
	}

	svc, err := tablerank.New(opts...)
	if err != nil {
		return nil, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return svc.Close()
		},
	})

	return svc, nil
}
