package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/tablerank/tablerank"
	"github.com/tablerank/tablerank/internal/config"
)

var getCmd = &cobra.Command{
	Use:   "get [name]",
	Short: "Look up a restaurant directly in the durable store",
	Long: `Look up a single restaurant by name, bypassing the cache.

Examples:
  TABLE_NAME=Restaurants tablerank get "Luigi's"
  TABLE_NAME=Restaurants tablerank get "Luigi's" --json`,
	Args: cobra.ExactArgs(1),
	RunE: runGet,
}

var outputJSON bool

func init() {
	getCmd.Flags().BoolVar(&outputJSON, "json", false, "output result as JSON")
	rootCmd.AddCommand(getCmd)
}

func runGet(cmd *cobra.Command, args []string) error {
	name := args[0]

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	st, err := newStore(cmd.Context(), cfg)
	if err != nil {
		return fmt.Errorf("creating store: %w", err)
	}

	svc, err := tablerank.New(tablerank.WithStore(st))
	if err != nil {
		return fmt.Errorf("creating service: %w", err)
	}
	defer svc.Close()

	restaurant, err := svc.Get(cmd.Context(), name)
	if err != nil {
		if errors.Is(err, tablerank.ErrNotFound) {
			return fmt.Errorf("restaurant %q not found", name)
		}
		return fmt.Errorf("lookup failed: %w", err)
	}

	if outputJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(restaurant)
	}

	fmt.Printf("Name:    %s\n", restaurant.Name)
	fmt.Printf("Region:  %s\n", restaurant.Region)
	fmt.Printf("Cuisine: %s\n", restaurant.Cuisine)
	fmt.Printf("Rating:  %.2f\n", restaurant.Rating)
	return nil
}
