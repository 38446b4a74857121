package main

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/refcheck/refcheck/internal/config"
	"github.com/refcheck/refcheck/internal/document"
	"github.com/refcheck/refcheck/internal/library"
	"github.com/refcheck/refcheck/internal/pipeline"
	"github.com/refcheck/refcheck/internal/search"
	"github.com/refcheck/refcheck/internal/verify"
)

var (
	analyzeOnline  bool
	analyzeVerify  bool
	analyzeLibrary string
	analyzeTimeout time.Duration
)

var analyzeCmd = &cobra.Command{
	Use:   "analyze <fragments.jsonl>",
	Short: "Run the full citation analysis over a segmented document",
	Long: `Analyze locates citation markers, detects the bibliography section,
binds markers to entries, extracts fields, and enriches entries from
the local library. With --online, unmatched entries are resolved
through external providers; with --verify, citations matched to
library records with stored full text are semantically verified.`,
	Args: cobra.ExactArgs(1),
	RunE: runAnalyze,
}

func init() {
	analyzeCmd.Flags().BoolVar(&analyzeOnline, "online", false, "Resolve unmatched entries via external providers")
	analyzeCmd.Flags().BoolVar(&analyzeVerify, "verify", false, "Verify citations against stored source texts")
	analyzeCmd.Flags().StringVar(&analyzeLibrary, "library", "", "Library directory (default from config)")
	analyzeCmd.Flags().DurationVar(&analyzeTimeout, "timeout", 2*time.Minute, "Overall analysis timeout")

	rootCmd.AddCommand(analyzeCmd)
}

func runAnalyze(cmd *cobra.Command, args []string) error {
	frags, err := document.ReadFragmentsFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading fragments: %v", err)
	}

	store := mustOpenLibrary(analyzeLibrary)
	defer store.Close()

	var searcher *search.Searcher
	if analyzeOnline {
		client := search.NewClient(search.WithGoogleBooksKey(config.GetGoogleBooksAPIKey()))
		searcher = search.NewSearcher(client)
	}

	p := pipeline.New(store, searcher)
	p.Matcher = library.NewMatcher(config.GetScoring())
	p.Verifier = verify.NewVerifier(config.GetVerify())

	ctx, cancel := context.WithTimeout(context.Background(), analyzeTimeout)
	defer cancel()

	report, err := p.Run(ctx, frags, pipeline.Options{
		Online: analyzeOnline,
		Verify: analyzeVerify,
	})
	if err != nil {
		if errors.Is(err, pipeline.ErrNoFragments) {
			exitWithError(ExitDataError, "%v", err)
		}
		exitWithError(ExitError, "analysis failed: %v", err)
	}

	if humanOutput {
		printReportHuman(report)
		return nil
	}
	return outputJSON(report)
}

// mustOpenLibrary opens the library store at path, or the configured
// default, exiting on failure.
func mustOpenLibrary(path string) *library.Store {
	if path == "" {
		path = config.GetLibraryPath()
	}
	store, err := library.Open(path)
	if err != nil {
		exitWithError(ExitConfigError, "opening library at %s: %v", path, err)
	}
	return store
}

func printReportHuman(report *pipeline.Report) {
	fmt.Printf("Citations: %d found, %d missing, %d entries unused (completeness %.0f%%)\n\n",
		report.Summary.TotalMarkers, report.Summary.MissingCount,
		report.Summary.UnusedCount, report.Summary.Completeness*100)

	if len(report.Missing) > 0 {
		fmt.Printf("Missing references: %v\n\n", report.Missing)
	}

	for _, e := range report.Entries {
		fmt.Printf("%d. %s\n", e.Ordinal, truncateString(e.RawText, ReportTitleMaxLen))
		if len(e.MatchedMarkers) > 0 {
			fmt.Printf("   markers: %v\n", e.MatchedMarkers)
		}
		if e.Enrichment != nil {
			fmt.Printf("   source: %s (confidence %.2f)\n", e.Enrichment.Source, e.Enrichment.Confidence)
		}
		if e.Verification != nil {
			fmt.Printf("   verified: %t (%s, %.0f)\n",
				e.Verification.Verified, e.Verification.Level, e.Verification.Confidence)
		}
	}
}
