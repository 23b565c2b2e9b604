package cli

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/velocitatem/concordia/internal/pipeline"
)

var (
	extractOut     string
	extractMD      string
	extractKind    string
	extractTimeout time.Duration
)

// extractCmd represents the extract command
var extractCmd = &cobra.Command{
	Use:   "extract <pages.json|text-file>",
	Short: "Extract a structured record from document text",
	Long: `Extract chunks the document text, runs each chunk through the configured
LLM backend concurrently, and merges the partial results into one
consensus record ready for reconciliation.

A .json input holds an array of {"page": n, "text": "..."} objects; any
other file is treated as a single page of plain text.

Example:
  concordia extract deed-pages.json --kind deed --out deed.json
  CONCORDIA_LLM_PROVIDER=ollama concordia extract form.txt --kind modelo600`,
	Args: cobra.ExactArgs(1),
	RunE: runExtract,
}

func init() {
	rootCmd.AddCommand(extractCmd)

	extractCmd.Flags().StringVar(&extractOut, "out", "", "output record path (default: input name with .record.json)")
	extractCmd.Flags().StringVar(&extractMD, "md", "", "output Markdown summary path (optional)")
	extractCmd.Flags().StringVar(&extractKind, "kind", "", "document kind: deed or modelo600 (default: detect from text)")
	extractCmd.Flags().DurationVar(&extractTimeout, "timeout", 10*time.Minute, "overall extraction timeout")
}

func runExtract(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	if cfg.LLM.Provider == "" {
		return fmt.Errorf("no LLM provider configured (set llm.provider or CONCORDIA_LLM_PROVIDER)")
	}
	if err := resolveAPIKey(cfg); err != nil {
		return err
	}

	logger := newLogger()
	loader := pipeline.NewLoader()

	pages, err := loader.LoadPages(args[0])
	if err != nil {
		return err
	}

	docID := strings.TrimSuffix(filepath.Base(args[0]), filepath.Ext(args[0]))
	out := extractOut
	if out == "" {
		out = docID + ".record.json"
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	ctx, cancel := context.WithTimeout(context.Background(), extractTimeout)
	defer cancel()

	record, err := p.ProcessDocument(ctx, docID, extractKind, pages)
	if err != nil {
		return fmt.Errorf("extract: %w", err)
	}

	data, err := json.MarshalIndent(record, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := os.WriteFile(out, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", out, err)
	}

	fmt.Printf("✓ Wrote record: %s\n", out)

	if extractMD != "" {
		if err := p.RenderRecord(record, extractMD); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote summary: %s\n", extractMD)
	}
	return nil
}
