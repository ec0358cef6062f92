// ABOUTME: Main entry point for the TechPulse ingestion CLI
// ABOUTME: Dispatches serve, refresh and source management commands

package main

import (
	"fmt"
	"os"
)

var (
	Version   = "0.1.0"
	BuildTime = "dev"
)

func main() {
	if err := rootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
