package pipeline

import (
	"encoding/json"
	"fmt"
	"os"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/velocitatem/concordia/internal/model"
)

// Renderer writes comparison reports as JSON for machines and Markdown for
// reviewers.
type Renderer struct {
	pretty bool
	dmp    *diffmatchpatch.DiffMatchPatch
}

// NewRenderer creates a new renderer
func NewRenderer(pretty bool) *Renderer {
	return &Renderer{
		pretty: pretty,
		dmp:    diffmatchpatch.New(),
	}
}

// RenderJSON writes the reports to a JSON file
func (r *Renderer) RenderJSON(reports []model.ComparisonReport, path string) error {
	var data []byte
	var err error
	if r.pretty {
		data, err = json.MarshalIndent(reports, "", "  ")
	} else {
		data, err = json.Marshal(reports)
	}
	if err != nil {
		return fmt.Errorf("marshal reports: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderMarkdown writes a reviewer-oriented Markdown report. Mismatched
// values get a character-level diff so the discrepancy is visible at a
// glance instead of requiring a side-by-side read.
func (r *Renderer) RenderMarkdown(reports []model.ComparisonReport, path string) error {
	var b strings.Builder

	b.WriteString("# Reconciliation Report\n\n")
	b.WriteString(fmt.Sprintf("Properties compared: %d\n\n", len(reports)))

	for _, report := range reports {
		b.WriteString(fmt.Sprintf("## %s %s\n\n", statusIcon(report.Status), report.PropertyID))
		if report.CadastralRef != "" {
			b.WriteString(fmt.Sprintf("Cadastral reference: `%s`\n\n", report.CadastralRef))
		}
		if len(report.MatchedForms) > 0 {
			b.WriteString(fmt.Sprintf("Matched forms: %s\n\n", strings.Join(report.MatchedForms, ", ")))
		}

		if len(report.Issues) == 0 {
			b.WriteString("No issues found.\n\n")
			continue
		}

		for _, issue := range report.Issues {
			b.WriteString(fmt.Sprintf("- **%s** (%s): %s\n", issue.Code, issue.Severity, issue.Message))
			if issue.DeedValue != "" && issue.FormValue != "" && issue.DeedValue != issue.FormValue {
				b.WriteString(fmt.Sprintf("  - deed: `%s`\n", issue.DeedValue))
				b.WriteString(fmt.Sprintf("  - form: `%s`\n", issue.FormValue))
				b.WriteString(fmt.Sprintf("  - diff: %s\n", r.markdownDiff(issue.DeedValue, issue.FormValue)))
			}
		}
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderRecordMarkdown writes a merged record as a human-readable summary,
// for spot-checking an extraction before reconciliation.
func (r *Renderer) RenderRecordMarkdown(rec *model.MergedRecord, path string) error {
	var b strings.Builder

	b.WriteString(fmt.Sprintf("# %s\n\n", rec.DocumentID))
	if rec.SaleDate != nil {
		b.WriteString(fmt.Sprintf("Sale date: %s\n\n", *rec.SaleDate))
	}
	if rec.Notary != nil && rec.Notary.Name != "" {
		b.WriteString(fmt.Sprintf("Notary: %s", rec.Notary.Name))
		if rec.Notary.Protocol != nil {
			b.WriteString(fmt.Sprintf(" (protocol %s)", *rec.Notary.Protocol))
		}
		b.WriteString("\n\n")
	}

	writeParties := func(title string, persons []model.PersonClaim) {
		if len(persons) == 0 {
			return
		}
		b.WriteString(fmt.Sprintf("## %s\n\n", title))
		for _, p := range persons {
			b.WriteString(fmt.Sprintf("- %s", p.Name))
			if p.TaxID != "" {
				b.WriteString(fmt.Sprintf(" (`%s`)", p.TaxID))
			}
			if p.SharePercent != nil {
				b.WriteString(fmt.Sprintf(", share %s%%", p.SharePercent.String()))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}
	writeParties("Sellers", rec.Sellers)
	writeParties("Buyers", rec.Buyers)

	if len(rec.Properties) > 0 {
		b.WriteString("## Properties\n\n")
		for _, p := range rec.Properties {
			ref := p.CadastralRef
			if ref == "" {
				ref = p.Address
			}
			b.WriteString(fmt.Sprintf("- `%s`", ref))
			if p.DeclaredValue != nil {
				b.WriteString(fmt.Sprintf(", declared value %s", p.DeclaredValue.String()))
			}
			if p.SurfaceConstructed != nil {
				b.WriteString(fmt.Sprintf(", %s m² constructed", p.SurfaceConstructed.String()))
			}
			b.WriteString("\n")
		}
		b.WriteString("\n")
	}

	if liq := rec.Liquidation; liq != nil {
		b.WriteString("## Liquidation\n\n")
		if liq.TaxableBase != nil {
			b.WriteString(fmt.Sprintf("- taxable base: %s\n", liq.TaxableBase.String()))
		}
		if liq.Rate != nil {
			b.WriteString(fmt.Sprintf("- rate: %s%%\n", liq.Rate.String()))
		}
		if liq.Quota != nil {
			b.WriteString(fmt.Sprintf("- quota: %s\n", liq.Quota.String()))
		}
		b.WriteString("\n")
	}

	if err := os.WriteFile(path, []byte(b.String()), 0644); err != nil {
		return fmt.Errorf("write %s: %w", path, err)
	}
	return nil
}

// RenderSummary prints severity counts to stdout
func (r *Renderer) RenderSummary(reports []model.ComparisonReport) {
	var okCount, warnCount, errCount int
	issues := 0
	for _, report := range reports {
		issues += len(report.Issues)
		switch report.Status {
		case model.SeverityError:
			errCount++
		case model.SeverityWarning:
			warnCount++
		default:
			okCount++
		}
	}

	fmt.Printf("\nReconciliation summary: %d properties, %d issues\n", len(reports), issues)
	fmt.Printf("  ok: %d  warning: %d  error: %d\n", okCount, warnCount, errCount)
}

// markdownDiff renders a character diff with deletions struck through and
// insertions bold.
func (r *Renderer) markdownDiff(deed, form string) string {
	diffs := r.dmp.DiffMain(deed, form, false)
	diffs = r.dmp.DiffCleanupSemantic(diffs)

	var b strings.Builder
	for _, d := range diffs {
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			b.WriteString("~~" + d.Text + "~~")
		case diffmatchpatch.DiffInsert:
			b.WriteString("**" + d.Text + "**")
		default:
			b.WriteString(d.Text)
		}
	}
	return b.String()
}

func statusIcon(s model.Severity) string {
	switch s {
	case model.SeverityError:
		return "✗"
	case model.SeverityWarning:
		return "⚠"
	default:
		return "✓"
	}
}
