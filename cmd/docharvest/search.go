// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docharvest/internal/source"
)

var searchCmd = &cobra.Command{
	Use:   "search",
	Short: "Search document sources for candidates",
	Long: `Search queries the enabled sources (arXiv, PubMed, optionally a scraped
web search) for documents matching a free-text query. Results are
deduplicated across sources, optionally filtered by publication date, and
ranked by relevance.`,
	RunE: runSearch,
}

func init() {
	searchCmd.Flags().String("query", "", "free-text search query")
	searchCmd.Flags().String("from", "", "publication date range start (YYYY-MM-DD)")
	searchCmd.Flags().String("to", "", "publication date range end (YYYY-MM-DD)")
	searchCmd.Flags().Int("max-results", 0, "maximum number of results to return")
	searchCmd.Flags().Bool("json", false, "output results as JSON")

	rootCmd.AddCommand(searchCmd)
}

func runSearch(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	query, err := buildQuery(cmd, cfg.Search.MaxResults)
	if err != nil {
		return err
	}

	client := newHTTPClient(cfg.Search.HTTPConfig)
	strategies := buildStrategies(cfg.Search, client)

	out, err := source.Aggregate(cmd.Context(), query, strategies, cfg.Search, os.Stderr)
	if err != nil {
		return err
	}

	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		return source.FormatJSON(out, os.Stdout)
	}
	source.FormatTable(out, os.Stdout)
	return nil
}

// buildQuery assembles the search query from flags. Both date bounds must
// be given together.
func buildQuery(cmd *cobra.Command, defaultMax int) (source.Query, error) {
	text, _ := cmd.Flags().GetString("query")
	maxResults, _ := cmd.Flags().GetInt("max-results")
	if maxResults <= 0 {
		maxResults = defaultMax
	}

	query := source.Query{Text: text, MaxResults: maxResults}

	from, _ := cmd.Flags().GetString("from")
	to, _ := cmd.Flags().GetString("to")
	if (from == "") != (to == "") {
		return source.Query{}, fmt.Errorf("date filtering needs both --from and --to")
	}
	if from != "" {
		fromDate, err := time.Parse("2006-01-02", from)
		if err != nil {
			return source.Query{}, fmt.Errorf("parsing --from: %w", err)
		}
		toDate, err := time.Parse("2006-01-02", to)
		if err != nil {
			return source.Query{}, fmt.Errorf("parsing --to: %w", err)
		}
		if toDate.Before(fromDate) {
			return source.Query{}, fmt.Errorf("--to is before --from")
		}
		query.Dates = &source.DateRange{From: fromDate, To: toDate}
	}
	return query, nil
}
