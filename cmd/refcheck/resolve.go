package main

import (
	"github.com/spf13/cobra"

	"github.com/refcheck/refcheck/internal/bibliography"
	"github.com/refcheck/refcheck/internal/citation"
	"github.com/refcheck/refcheck/internal/document"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve <fragments.jsonl>",
	Short: "Check citation-to-bibliography binding without enrichment",
	Long: `Resolve runs only the offline stages: locate markers, detect the
bibliography, and bind markers to entries by ordinal position. Useful
for a quick completeness check without touching the library or the
network.`,
	Args: cobra.ExactArgs(1),
	RunE: runResolve,
}

func init() {
	rootCmd.AddCommand(resolveCmd)
}

// ResolveResponse is the output of the resolve command.
type ResolveResponse struct {
	TotalMarkers int                  `json:"total_citation_markers"`
	TotalEntries int                  `json:"total_entries"`
	Valid        []string             `json:"valid_references"`
	Missing      []string             `json:"missing_references"`
	Unused       []int                `json:"unused_entries"`
	Entries      []bibliography.Entry `json:"entries"`
}

func runResolve(cmd *cobra.Command, args []string) error {
	frags, err := document.ReadFragmentsFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "reading fragments: %v", err)
	}

	markers := citation.Locate(frags, citation.DefaultConfig())
	entries := bibliography.FindSection(frags)
	for i := range entries {
		entries[i].Fields = bibliography.ExtractFields(entries[i].RawText)
	}
	res := bibliography.NewOrdinalResolver().Resolve(markers, entries)

	resp := ResolveResponse{
		TotalMarkers: len(markers),
		TotalEntries: len(entries),
		Valid:        res.Valid,
		Missing:      res.Missing,
		Unused:       res.Unused,
		Entries:      entries,
	}

	if humanOutput {
		printResolveHuman(resp)
		return nil
	}
	return outputJSON(resp)
}

func printResolveHuman(resp ResolveResponse) {
	outputHuman("Markers: %d, entries: %d\n", resp.TotalMarkers, resp.TotalEntries)
	outputHuman("Valid: %v\n", resp.Valid)
	if len(resp.Missing) > 0 {
		outputHuman("Missing: %v\n", resp.Missing)
	}
	if len(resp.Unused) > 0 {
		outputHuman("Unused entries: %v\n", resp.Unused)
	}
}
