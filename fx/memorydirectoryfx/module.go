// Package memorydirectoryfx provides an fx module for an in-memory
// directory service. Useful for testing.
package memorydirectoryfx

import (
	"context"

	"go.uber.org/fx"
	"go.uber.org/zap"

	"github.com/tablerank/tablerank"
	"github.com/tablerank/tablerank/internal/stats"
	"github.com/tablerank/tablerank/internal/stats/logger"
	"github.com/tablerank/tablerank/internal/store/memstore"
)

// Module provides an in-memory directory service for testing.
// Requires a *zap.Logger to be provided.
var Module = fx.Module("memorydirectory",
	fx.Provide(
		newStatsCollector,
		newService,
	),
)

func newStatsCollector(log *zap.Logger) stats.Collector {
	return logger.New(log.Named("tablerank.stats"))
}

// Params holds dependencies for creating the service.
type Params struct {
	fx.In

	Logger    *zap.Logger
	Collector stats.Collector
	Lifecycle fx.Lifecycle
}

// Result holds the provided service and store. The store is built here so
// the graph has a single provider for it.
type Result struct {
	fx.Out

	Service *tablerank.Service
	Store   *memstore.Store // Exposed for test setup
}

func newService(p Params) (Result, error) {
	st := memstore.New()

	svc, err := tablerank.New(
		tablerank.WithStore(st),
		tablerank.WithStats(p.Collector),
		tablerank.WithLogger(p.Logger.Named("tablerank")),
	)
	if err != nil {
		return Result{}, err
	}

	p.Lifecycle.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return svc.Close()
		},
	})

	return Result{
		Service: svc,
		Store:   st,
	}, nil
}
