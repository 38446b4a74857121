// Package main provides the refcheck CLI entry point.
package main

import (
	"fmt"
	"os"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// Version is set at build time via ldflags
var Version = "dev"

// humanOutput controls whether to use human-readable output
var humanOutput bool

func main() {
	if err := rootCmd.Execute(); err != nil {
		// Print the error since we have SilenceErrors: true
		fmt.Fprintf(os.Stderr, "Error: %s\n", err)
		os.Exit(ExitError)
	}
}

var rootCmd = &cobra.Command{
	Use:   "refcheck",
	Short: "Citation and bibliography checker for academic documents",
	Long: `refcheck analyzes segmented academic documents for citation integrity.

Core features:
  - Locates bracketed citation markers and their sentence context
  - Detects the bibliography section and extracts structured fields
  - Binds markers to entries by ordinal position and reports gaps
  - Enriches entries from a local source library, then external
    providers (Crossref, Open Library, arXiv, Google Books)
  - Verifies citations against stored source full texts

Input is a JSONL stream of text fragments from an upstream segmenter.
All commands output JSON by default for machine integration.`,
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	// Load .env file if present (for GOOGLE_BOOKS_API_KEY)
	_ = godotenv.Load()

	rootCmd.PersistentFlags().BoolVar(&humanOutput, "human", false, "Use human-readable output instead of JSON")
	rootCmd.Version = Version
}
