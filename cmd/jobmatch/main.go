// Package main provides the entry point for the jobmatch HTTP API server.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   "jobmatch",
	Short: "Semantic job compatibility service",
	Long:  "jobmatch embeds candidate profiles and job postings, scores their compatibility, and serves ranked matches over a REST API.",
}

func main() {
	// Load .env file if it exists
	_ = godotenv.Load()

	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}
