package main

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/refcheck/refcheck/internal/library"
	"github.com/refcheck/refcheck/internal/pdftext"
	"github.com/refcheck/refcheck/internal/search"
)

var libraryPath string

var libraryCmd = &cobra.Command{
	Use:   "library",
	Short: "Manage the local source library",
}

func init() {
	libraryCmd.PersistentFlags().StringVar(&libraryPath, "library", "", "Library directory (default from config)")

	libraryCmd.AddCommand(libraryAddCmd)
	libraryCmd.AddCommand(libraryListCmd)
	libraryCmd.AddCommand(librarySearchCmd)
	libraryCmd.AddCommand(libraryDeleteCmd)
	libraryCmd.AddCommand(libraryImportCmd)
	rootCmd.AddCommand(libraryCmd)
}

var (
	addTitle     string
	addAuthors   []string
	addYear      int
	addType      string
	addJournal   string
	addPublisher string
	addURL       string
	addDOI       string
	addISBN      string
	addTags      []string
)

var libraryAddCmd = &cobra.Command{
	Use:   "add",
	Short: "Add a source record to the library",
	RunE:  runLibraryAdd,
}

func init() {
	libraryAddCmd.Flags().StringVar(&addTitle, "title", "", "Source title (required)")
	libraryAddCmd.Flags().StringSliceVar(&addAuthors, "author", nil, "Author, repeatable")
	libraryAddCmd.Flags().IntVar(&addYear, "year", 0, "Publication year")
	libraryAddCmd.Flags().StringVar(&addType, "type", "article", "Source type (article, book, thesis, conference, report)")
	libraryAddCmd.Flags().StringVar(&addJournal, "journal", "", "Journal name")
	libraryAddCmd.Flags().StringVar(&addPublisher, "publisher", "", "Publisher")
	libraryAddCmd.Flags().StringVar(&addURL, "url", "", "Source URL")
	libraryAddCmd.Flags().StringVar(&addDOI, "doi", "", "DOI")
	libraryAddCmd.Flags().StringVar(&addISBN, "isbn", "", "ISBN")
	libraryAddCmd.Flags().StringSliceVar(&addTags, "tag", nil, "Tag, repeatable")
	libraryAddCmd.MarkFlagRequired("title")
}

func runLibraryAdd(cmd *cobra.Command, args []string) error {
	store := mustOpenLibrary(libraryPath)
	defer store.Close()

	rec, err := store.Add(library.Record{
		Title:      addTitle,
		Authors:    addAuthors,
		Year:       addYear,
		SourceType: addType,
		Journal:    addJournal,
		Publisher:  addPublisher,
		URL:        addURL,
		DOI:        addDOI,
		ISBN:       addISBN,
		Tags:       addTags,
	})
	if err != nil {
		exitWithError(ExitError, "adding record: %v", err)
	}

	if humanOutput {
		outputHuman("Added %s: %s\n", rec.ID, rec.Title)
		return nil
	}
	return outputJSON(StatusResponse{Status: "added", ID: rec.ID})
}

var (
	listPage  int
	listLimit int
)

var libraryListCmd = &cobra.Command{
	Use:   "list",
	Short: "List library records, most recently used first",
	RunE:  runLibraryList,
}

func init() {
	libraryListCmd.Flags().IntVar(&listPage, "page", 1, "Page number")
	libraryListCmd.Flags().IntVar(&listLimit, "limit", library.DefaultPageSize, "Records per page")
}

func runLibraryList(cmd *cobra.Command, args []string) error {
	store := mustOpenLibrary(libraryPath)
	defer store.Close()

	recs, err := store.List(listPage, listLimit)
	if err != nil {
		exitWithError(ExitError, "listing records: %v", err)
	}

	if humanOutput {
		printRecordsHuman(recs)
		return nil
	}
	return outputJSON(recs)
}

var librarySearchCmd = &cobra.Command{
	Use:   "search <query>",
	Short: "Score library records against a free-text reference",
	Long: `Search scores every library record against the given reference text
using the same match engine the analysis pipeline uses, and prints
the candidates in descending score order.`,
	Args: cobra.ExactArgs(1),
	RunE: runLibrarySearch,
}

// SearchResult pairs a record with its match score.
type SearchResult struct {
	Record library.Record `json:"record"`
	Score  int            `json:"score"`
	Fields []string       `json:"matched_fields"`
}

func runLibrarySearch(cmd *cobra.Command, args []string) error {
	store := mustOpenLibrary(libraryPath)
	defer store.Close()

	recs, err := store.All()
	if err != nil {
		exitWithError(ExitError, "scanning library: %v", err)
	}

	matcher := library.NewMatcher(library.DefaultScoring())
	params := search.Params{RawText: args[0], Title: args[0]}

	var results []SearchResult
	for _, rec := range recs {
		score := matcher.Score(rec, params)
		if score.Value == 0 {
			continue
		}
		results = append(results, SearchResult{Record: rec, Score: score.Value, Fields: score.MatchedFields})
	}
	for i := 1; i < len(results); i++ {
		for j := i; j > 0 && results[j].Score > results[j-1].Score; j-- {
			results[j], results[j-1] = results[j-1], results[j]
		}
	}

	if humanOutput {
		for _, r := range results {
			outputHuman("[%d] %s (%s)\n", r.Score, truncateString(r.Record.Title, ListTitleMaxLen),
				strings.Join(r.Fields, ", "))
		}
		return nil
	}
	return outputJSON(results)
}

var libraryDeleteCmd = &cobra.Command{
	Use:   "delete <id>",
	Short: "Delete a library record",
	Args:  cobra.ExactArgs(1),
	RunE:  runLibraryDelete,
}

func runLibraryDelete(cmd *cobra.Command, args []string) error {
	store := mustOpenLibrary(libraryPath)
	defer store.Close()

	if err := store.Delete(args[0]); err != nil {
		if errors.Is(err, library.ErrNotFound) {
			exitWithError(ExitNotFound, "record %s not found", args[0])
		}
		exitWithError(ExitError, "deleting record: %v", err)
	}

	if humanOutput {
		outputHuman("Deleted %s\n", args[0])
		return nil
	}
	return outputJSON(StatusResponse{Status: "deleted", ID: args[0]})
}

var libraryImportCmd = &cobra.Command{
	Use:   "import <file.pdf|file.txt>",
	Short: "Import a source file: extract text, derive metadata, store both",
	Long: `Import extracts the full text of a PDF or plain-text file, derives
best-effort metadata (title, authors, year, source type) from its
leading pages, and stores the record with its full text attached so
analyze --verify can check citations against it.`,
	Args: cobra.ExactArgs(1),
	RunE: runLibraryImport,
}

func runLibraryImport(cmd *cobra.Command, args []string) error {
	store := mustOpenLibrary(libraryPath)
	defer store.Close()

	text, err := pdftext.ExtractFile(args[0])
	if err != nil {
		exitWithError(ExitDataError, "extracting text: %v", err)
	}
	if strings.TrimSpace(text) == "" {
		exitWithError(ExitDataError, "no text extracted from %s", args[0])
	}

	meta := pdftext.DeriveMetadata(text, filepath.Base(args[0]))
	rec, err := store.Add(library.Record{
		Title:      meta.Title,
		Authors:    meta.Authors,
		Year:       meta.Year,
		SourceType: meta.SourceType,
		FullText:   true,
	})
	if err != nil {
		exitWithError(ExitError, "adding record: %v", err)
	}
	if err := store.AttachFullText(rec.ID, text); err != nil {
		exitWithError(ExitError, "storing full text: %v", err)
	}

	if humanOutput {
		outputHuman("Imported %s: %s (%d chars)\n", rec.ID, rec.Title, len(text))
		return nil
	}
	return outputJSON(StatusResponse{Status: "imported", ID: rec.ID})
}

func printRecordsHuman(recs []library.Record) {
	for _, rec := range recs {
		fmt.Printf("%s  %s\n", rec.ID, truncateString(rec.Title, ListTitleMaxLen))
		if len(rec.Authors) > 0 || rec.Year != 0 {
			fmt.Printf("   %s (%d)\n", formatAuthors(rec.Authors, 3), rec.Year)
		}
		if rec.FullText {
			fmt.Printf("   full text available\n")
		}
	}
}
