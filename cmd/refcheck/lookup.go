package main

import (
	"context"
	"time"

	"github.com/spf13/cobra"

	"github.com/refcheck/refcheck/internal/bibliography"
	"github.com/refcheck/refcheck/internal/config"
	"github.com/refcheck/refcheck/internal/library"
	"github.com/refcheck/refcheck/internal/search"
)

var (
	lookupOnline  bool
	lookupLibrary string
	lookupTimeout time.Duration
)

var lookupCmd = &cobra.Command{
	Use:   "lookup <entry text>",
	Short: "Resolve a single bibliography entry through the match chain",
	Long: `Lookup extracts fields from one raw bibliography entry and runs it
through the resolution chain: local library scoring first, then the
external providers with --online. Useful for checking why an entry
did or did not match.`,
	Args: cobra.ExactArgs(1),
	RunE: runLookup,
}

func init() {
	lookupCmd.Flags().BoolVar(&lookupOnline, "online", false, "Fall through to external providers")
	lookupCmd.Flags().StringVar(&lookupLibrary, "library", "", "Library directory (default from config)")
	lookupCmd.Flags().DurationVar(&lookupTimeout, "timeout", 30*time.Second, "Lookup timeout")

	rootCmd.AddCommand(lookupCmd)
}

// LookupResponse is the output of the lookup command.
type LookupResponse struct {
	Fields   bibliography.Fields `json:"fields"`
	Metadata *search.Metadata    `json:"metadata,omitempty"`
}

func runLookup(cmd *cobra.Command, args []string) error {
	raw := args[0]
	fields := bibliography.ExtractFields(raw)
	params := search.Params{
		RawText: raw,
		Authors: fields.Authors,
		Title:   fields.Title,
		Year:    fields.Year,
	}

	resp := LookupResponse{Fields: fields}

	store := mustOpenLibrary(lookupLibrary)
	defer store.Close()

	records, err := store.All()
	if err != nil {
		exitWithError(ExitError, "scanning library: %v", err)
	}
	matcher := library.NewMatcher(config.GetScoring())
	if rec, score, ok := matcher.Best(records, params); ok {
		meta := library.ToMetadata(rec, score)
		resp.Metadata = &meta
	} else if lookupOnline {
		client := search.NewClient(search.WithGoogleBooksKey(config.GetGoogleBooksAPIKey()))
		searcher := search.NewSearcher(client)

		ctx, cancel := context.WithTimeout(context.Background(), lookupTimeout)
		defer cancel()
		resp.Metadata = searcher.Resolve(ctx, params)
	}

	if humanOutput {
		if resp.Metadata == nil {
			exitWithError(ExitNotFound, "no match for entry")
		}
		printLookupHuman(resp)
		return nil
	}
	return outputJSON(resp)
}

func printLookupHuman(resp LookupResponse) {
	outputHuman("Title: %s\n", resp.Fields.Title)
	if len(resp.Fields.Authors) > 0 {
		outputHuman("Authors: %s\n", formatAuthors(resp.Fields.Authors, 3))
	}
	if resp.Fields.Year != "" {
		outputHuman("Year: %s\n", resp.Fields.Year)
	}
	m := resp.Metadata
	outputHuman("Matched: %s (confidence %.2f)\n", m.Source, m.Confidence)
	if m.URL != "" {
		outputHuman("URL: %s\n", m.URL)
	}
}
