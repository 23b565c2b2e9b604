package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/sync/errgroup"

	"github.com/velocitatem/concordia/internal/model"
	"github.com/velocitatem/concordia/internal/pipeline"
)

var (
	reconcileJSON   string
	reconcileMD     string
	reconcilePretty bool
)

// reconcileCmd represents the reconcile command
var reconcileCmd = &cobra.Command{
	Use:   "reconcile <deed.json> <form.json|dir> [form.json|dir...]",
	Short: "Compare a deed against its Modelo 600 tax forms",
	Long: `Reconcile matches each property in a deed to the tax forms that declare
it, compares the declared facts field by field, and reports every
discrepancy as a typed, severity-ranked issue.

Inputs are pre-extracted JSON records. Directories expand to their *.json
entries.

Example:
  concordia reconcile deed.json forms/
  concordia reconcile deed.json form1.json form2.json --json report.json --md report.md`,
	Args: cobra.MinimumNArgs(2),
	RunE: runReconcile,
}

func init() {
	rootCmd.AddCommand(reconcileCmd)

	reconcileCmd.Flags().StringVar(&reconcileJSON, "json", "report.json", "output JSON path")
	reconcileCmd.Flags().StringVar(&reconcileMD, "md", "", "output Markdown path (optional)")
	reconcileCmd.Flags().BoolVar(&reconcilePretty, "pretty", false, "indent JSON output")
}

func runReconcile(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig()
	if err != nil {
		return err
	}
	cfg.Output.Pretty = cfg.Output.Pretty || reconcilePretty

	logger := newLogger()
	loader := pipeline.NewLoader()

	// Deed and forms load concurrently; form sets can span many files
	var deed *model.SourceRecord
	var forms []*model.SourceRecord

	var g errgroup.Group
	g.Go(func() error {
		var err error
		deed, err = loader.LoadRecord(args[0])
		return err
	})
	g.Go(func() error {
		var err error
		forms, err = loader.LoadRecords(args[1:])
		return err
	})
	if err := g.Wait(); err != nil {
		return fmt.Errorf("load inputs: %w", err)
	}

	if len(forms) == 0 {
		return fmt.Errorf("no tax forms found in %v", args[1:])
	}

	if cfg.Output.Verbose {
		fmt.Fprintf(os.Stderr, "Deed: %s (%d properties)\n", deed.DocumentID, len(deed.Properties))
		fmt.Fprintf(os.Stderr, "Forms: %d\n\n", len(forms))
	}

	p, err := pipeline.NewPipeline(cfg, logger)
	if err != nil {
		return err
	}

	reports, err := p.Reconcile(deed, forms)
	if err != nil {
		return fmt.Errorf("reconcile: %w", err)
	}

	return p.RenderReports(reports, reconcileJSON, reconcileMD)
}
