// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docharvest/internal/fetch"
	"github.com/pdiddy/docharvest/pkg/types"
)

var fetchCmd = &cobra.Command{
	Use:   "fetch [urls-or-ids...]",
	Short: "Download documents without processing them",
	Long: `Fetch downloads PDFs for the given identifiers (arXiv IDs or direct
URLs), validates them, and writes metadata sidecars. Already-downloaded
documents are skipped. Processing happens separately with the process
command.`,
	RunE: runFetch,
}

func init() {
	fetchCmd.Flags().String("docs-dir", "", "base directory for documents")
	fetchCmd.Flags().Duration("delay", 0, "delay between consecutive downloads")

	rootCmd.AddCommand(fetchCmd)
}

func runFetch(cmd *cobra.Command, args []string) error {
	if len(args) == 0 {
		return fmt.Errorf("provide one or more document identifiers (arXiv IDs or URLs)")
	}

	cfg := loadConfig()
	if dir, _ := cmd.Flags().GetString("docs-dir"); dir != "" {
		cfg.Acquisition.DocsDir = dir
	}
	if delay, _ := cmd.Flags().GetDuration("delay"); delay > 0 {
		cfg.Acquisition.DownloadDelay = delay
	}

	client := newHTTPClient(cfg.Acquisition.HTTPConfig)

	var failed int
	for i, arg := range args {
		cand := candidateFromIdentifier(arg)
		_, cached, err := fetch.Fetch(cmd.Context(), client, cand, cfg.Acquisition, os.Stdout)
		if err != nil {
			fmt.Fprintf(os.Stderr, "failed: %s: %v\n", arg, err)
			failed++
			continue
		}
		if !cached && i < len(args)-1 && cfg.Acquisition.DownloadDelay > 0 {
			time.Sleep(cfg.Acquisition.DownloadDelay)
		}
	}

	if failed > 0 {
		return fmt.Errorf("%d document(s) failed to download", failed)
	}
	return nil
}

// candidateFromIdentifier builds a minimal candidate from a CLI argument:
// a URL becomes a web candidate, anything else is treated as an arXiv ID.
func candidateFromIdentifier(arg string) types.Candidate {
	if isURL(arg) {
		return types.Candidate{ID: arg, URL: arg, Source: "web", DownloadURL: arg}
	}
	return types.Candidate{
		ID:          arg,
		Source:      "arxiv",
		URL:         "https://arxiv.org/abs/" + arg,
		DownloadURL: "https://arxiv.org/pdf/" + arg,
	}
}

func isURL(s string) bool {
	return len(s) > 8 && (s[:7] == "http://" || s[:8] == "https://")
}
