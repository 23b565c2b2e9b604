package cli

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/velocitatem/concordia/internal/model"
	"github.com/velocitatem/concordia/internal/pipeline"
)

var (
	mergeOut string
	mergeMD  string
)

// mergeCmd represents the merge command
var mergeCmd = &cobra.Command{
	Use:   "merge <chunk.json> [chunk.json...]",
	Short: "Merge partial extractions into one consensus record",
	Long: `Merge combines N partial extractions of the same document into a single
consensus record: scalar fields are decided by plurality vote, person and
property lists are deduplicated by identity.

Useful for re-merging saved chunk extractions with different settings
without paying for extraction again.

Example:
  concordia merge chunks/*.json --out deed.json --md deed.md`,
	Args: cobra.MinimumNArgs(1),
	RunE: runMerge,
}

func init() {
	rootCmd.AddCommand(mergeCmd)

	mergeCmd.Flags().StringVar(&mergeOut, "out", "merged.json", "output record path")
	mergeCmd.Flags().StringVar(&mergeMD, "md", "", "output Markdown summary path (optional)")
}

func runMerge(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}

	logger := newLogger()
	loader := pipeline.NewLoader()

	chunks := make([]model.ChunkExtraction, 0, len(args))
	for _, path := range args {
		rec, err := loader.LoadRecord(path)
		if err != nil {
			return fmt.Errorf("load chunk: %w", err)
		}
		chunks = append(chunks, *rec)
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	merged, err := p.MergeExtractions(chunks)
	if err != nil {
		return fmt.Errorf("merge: %w", err)
	}

	data, err := json.MarshalIndent(merged, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal record: %w", err)
	}
	if err := os.WriteFile(mergeOut, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", mergeOut, err)
	}
	fmt.Printf("✓ Wrote record: %s\n", mergeOut)

	if mergeMD != "" {
		if err := p.RenderRecord(merged, mergeMD); err != nil {
			return err
		}
		fmt.Printf("✓ Wrote summary: %s\n", mergeMD)
	}
	return nil
}
