// Package main provides the tablerank CLI for running and querying the
// restaurant directory service.
package main

import (
	"os"
)

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
