// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package main

import (
	"encoding/json"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/pdiddy/docharvest/internal/store"
)

var showCmd = &cobra.Command{
	Use:   "show [document-id]",
	Short: "Inspect the result store",
	Long: `Show lists stored documents, or prints one document in full when given
its ID. Full output includes the derived structure and processing
provenance; --text prints only the document text.`,
	RunE: runShow,
}

func init() {
	showCmd.Flags().Bool("text", false, "print only the document text")
	showCmd.Flags().Bool("json", false, "output as JSON")

	rootCmd.AddCommand(showCmd)
}

func runShow(cmd *cobra.Command, args []string) error {
	cfg := loadConfig()

	st, err := store.Open(cfg.Store.StoreDir)
	if err != nil {
		return err
	}
	defer st.Close()

	if len(args) == 0 {
		return listDocuments(st)
	}
	return showDocument(cmd, st, args[0])
}

func listDocuments(st *store.Store) error {
	entries, err := st.List()
	if err != nil {
		return err
	}
	if len(entries) == 0 {
		fmt.Println("no documents stored")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ID\tSOURCE\tMETHOD\tPAGES\tTITLE")
	for _, e := range entries {
		fmt.Fprintf(w, "%s\t%s\t%s\t%d\t%s\n", e.ID, e.Source, e.Method, e.PageCount, e.Title)
	}
	return w.Flush()
}

func showDocument(cmd *cobra.Command, st *store.Store, id string) error {
	doc, err := st.Read(id)
	if err != nil {
		return err
	}
	if doc == nil {
		return fmt.Errorf("document %s not found", id)
	}

	if textOnly, _ := cmd.Flags().GetBool("text"); textOnly {
		fmt.Println(doc.Content.Text)
		return nil
	}
	if asJSON, _ := cmd.Flags().GetBool("json"); asJSON {
		enc := json.NewEncoder(os.Stdout)
		enc.SetIndent("", "  ")
		return enc.Encode(doc)
	}

	fmt.Printf("ID:         %s\n", doc.ID)
	fmt.Printf("Title:      %s\n", doc.Title)
	fmt.Printf("Source:     %s (%s)\n", doc.Source, doc.URL)
	fmt.Printf("Pages:      %d\n", doc.Content.PageCount)
	fmt.Printf("Method:     %s\n", doc.Processing.Method)
	if doc.Processing.OCREngine != "" {
		fmt.Printf("OCR:        %s (confidence %.2f)\n", doc.Processing.OCREngine, doc.Processing.OCRConfidence)
	}
	fmt.Printf("Processed:  %s (%d ms)\n", doc.Content.ExtractedAt.Format("2006-01-02 15:04:05"), doc.Processing.ProcessingMS)
	if doc.Structure.Abstract != "" {
		fmt.Printf("\nAbstract:\n%s\n", doc.Structure.Abstract)
	}
	if len(doc.Structure.Sections) > 0 {
		fmt.Println("\nSections:")
		for _, s := range doc.Structure.Sections {
			fmt.Printf("  %s\n", s)
		}
	}
	if len(doc.Structure.References) > 0 {
		fmt.Printf("\nReferences (%d):\n", len(doc.Structure.References))
		for _, r := range doc.Structure.References {
			fmt.Printf("  %s\n", r)
		}
	}
	return nil
}
