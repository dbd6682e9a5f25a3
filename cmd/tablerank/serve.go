package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tablerank/tablerank"
	"github.com/tablerank/tablerank/internal/cache/memcached"
	"github.com/tablerank/tablerank/internal/config"
	"github.com/tablerank/tablerank/internal/httpapi"
	statsprom "github.com/tablerank/tablerank/internal/stats/prometheus"
	"github.com/tablerank/tablerank/internal/store/dynamostore"
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Run the directory HTTP server",
	Long: `Run the restaurant directory HTTP server.

The server exposes the directory routes under /restaurants, a config echo
at /, and Prometheus metrics at /metrics. It shuts down gracefully on
SIGINT or SIGTERM.`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)
}

func runServe(cmd *cobra.Command, args []string) error {
	logger, err := newLogger()
	if err != nil {
		return fmt.Errorf("creating logger: %w", err)
	}
	defer logger.Sync()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	st, err := newStore(ctx, cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}

	collector := statsprom.New(nil)

	opts := []tablerank.Option{
		tablerank.WithStore(st),
		tablerank.WithStats(collector),
		tablerank.WithLogger(logger.Named("tablerank")),
		tablerank.WithMaxRateRetries(cfg.RateMaxRetries),
	}
	if cfg.UseCache {
		opts = append(opts, tablerank.WithCache(
			memcached.New(cfg.MemcachedEndpoint, logger.Named("cache")),
		))
	}

	svc, err := tablerank.New(opts...)
	if err != nil {
		return fmt.Errorf("creating service: %w", err)
	}
	defer svc.Close()

	api := httpapi.New(svc, cfg, logger.Named("http"), collector)
	server := &http.Server{
		Addr:              cfg.ListenAddr,
		Handler:           api.Router(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		logger.Info("server listening",
			zap.String("addr", cfg.ListenAddr),
			zap.String("table", cfg.TableName),
			zap.Bool("cacheEnabled", cfg.UseCache),
		)
		errCh <- server.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server failed: %w", err)
		}
	case <-ctx.Done():
		logger.Info("shutting down")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		if err := server.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("shutting down: %w", err)
		}
	}

	return nil
}

func newStore(ctx context.Context, cfg config.Config) (*dynamostore.Store, error) {
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
	return dynamostore.New(ctx, cfg.TableName, opts...)
}
