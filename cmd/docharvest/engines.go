// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

var enginesCmd = &cobra.Command{
	Use:   "engines",
	Short: "Show OCR engine availability",
	Long: `Engines lists the registered OCR engines with their kind, key
requirements, and whether each one can run right now.`,
	RunE: runEngines,
}

func init() {
	rootCmd.AddCommand(enginesCmd)
}

func runEngines(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()
	client := newHTTPClient(cfg.Search.HTTPConfig)
	manager := buildOCRManager(cfg.OCR, client, os.Stdout)

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "NAME\tKIND\tAVAILABLE\tNEEDS KEY\tDESCRIPTION")
	for _, info := range manager.Engines() {
		avail := "no"
		if info.Available {
			avail = "yes"
		}
		key := info.RequiresKey
		if key == "" {
			key = "-"
		}
		fmt.Fprintf(w, "%s\t%s\t%s\t%s\t%s\n", info.Name, info.Kind, avail, key, info.Description)
	}
	return w.Flush()
}
