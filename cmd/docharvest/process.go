// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docharvest/internal/pipeline"
	"github.com/pdiddy/docharvest/internal/source"
	"github.com/pdiddy/docharvest/internal/store"
	"github.com/pdiddy/docharvest/pkg/types"
)

var processCmd = &cobra.Command{
	Use:   "process [urls-or-ids...]",
	Short: "Run the full pipeline over documents",
	Long: `Process runs the complete pipeline for each identifier: download, text
extraction, quality gate, OCR fallback, merge, structure analysis, and
persistence to the result store. With --query, candidates come from a
source search instead of the argument list.

A document that fails is reported and skipped; the batch continues.`,
	RunE: runProcess,
}

func init() {
	processCmd.Flags().String("query", "", "search sources and process the results")
	processCmd.Flags().Int("max-results", 0, "maximum search results to process (with --query)")
	processCmd.Flags().Bool("force-ocr", false, "run OCR regardless of extraction quality")
	processCmd.Flags().Bool("skip-ocr", false, "never run OCR, keep extracted text as-is")
	processCmd.Flags().Bool("fast", false, "fast mode: shorter OCR timeouts, capped pages")
	processCmd.Flags().String("engine", "", "primary OCR engine (default: auto)")

	rootCmd.AddCommand(processCmd)
}

func runProcess(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	applyProcessFlags(cmd, &cfg)

	queryText, _ := cmd.Flags().GetString("query")
	if queryText == "" && len(args) == 0 {
		return fmt.Errorf("provide document identifiers or --query")
	}

	client := newHTTPClient(cfg.Acquisition.HTTPConfig)

	candidates := make([]types.Candidate, 0, len(args))
	for _, arg := range args {
		candidates = append(candidates, candidateFromIdentifier(arg))
	}
	if queryText != "" {
		query := source.Query{Text: queryText, MaxResults: cfg.Search.MaxResults}
		out, err := source.Aggregate(cmd.Context(), query, buildStrategies(cfg.Search, client), cfg.Search, os.Stderr)
		if err != nil {
			return err
		}
		candidates = append(candidates, out.Candidates...)
	}

	st, err := store.Open(cfg.Store.StoreDir)
	if err != nil {
		return err
	}
	defer st.Close()

	manager := buildOCRManager(cfg.OCR, client, os.Stdout)
	var runner pipeline.OCRRunner = manager
	if cfg.Quality.Bypass {
		runner = nil
	}

	p := pipeline.New(client, cfg, runner, st, os.Stdout)
	result := p.Run(cmd.Context(), candidates)

	fmt.Printf("processed %d/%d document(s)\n", len(result.Processed), result.Total())
	if result.HasFailures() {
		return fmt.Errorf("%d document(s) failed processing", len(result.Failed))
	}
	return nil
}

func applyProcessFlags(cmd *cobra.Command, cfg *types.PipelineConfig) {
	if force, _ := cmd.Flags().GetBool("force-ocr"); force {
		cfg.Quality.ForceOCR = true
	}
	if skip, _ := cmd.Flags().GetBool("skip-ocr"); skip {
		cfg.Quality.Bypass = true
	}
	if fast, _ := cmd.Flags().GetBool("fast"); fast {
		cfg.OCR.FastMode = true
	}
	if engine, _ := cmd.Flags().GetString("engine"); engine != "" {
		cfg.OCR.PrimaryEngine = engine
	}
	if maxResults, _ := cmd.Flags().GetInt("max-results"); maxResults > 0 {
		cfg.Search.MaxResults = maxResults
	}
}
