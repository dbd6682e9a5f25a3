package main

import (
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

var (
	// Global flags.
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "tablerank",
	Short: "Restaurant directory service over DynamoDB and Memcached",
	Long: `Tablerank serves a directory of restaurants (name, region, cuisine,
rating) over HTTP, backed by DynamoDB with an optional Memcached
look-aside cache.

Configuration is read from the environment: TABLE_NAME (required),
AWS_REGION, MEMCACHED_CONFIGURATION_ENDPOINT, USE_CACHE, LISTEN_ADDR.

Examples:
  # Run the HTTP server
  TABLE_NAME=Restaurants tablerank serve

  # Look up a single restaurant directly in the store
  TABLE_NAME=Restaurants tablerank get "Luigi's"`,
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable verbose output")
}

// newLogger builds the process logger, debug-leveled when --verbose is set.
func newLogger() (*zap.Logger, error) {
	if verbose {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}
