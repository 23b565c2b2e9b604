// Package reconcile orchestrates matching and field comparison between a
// notarial deed and the tax forms filed against it, producing one report per
// deed property plus a warning report for every orphan tax form.
package reconcile

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/velocitatem/concordia/internal/compare"
	"github.com/velocitatem/concordia/internal/match"
	"github.com/velocitatem/concordia/internal/model"
)

// Engine is a pure, deterministic transformation: identical inputs yield
// identical reports; malformed business data becomes issues, never errors.
type Engine struct {
	matcher    *match.Matcher
	comparator *compare.Comparator
	logger     zerolog.Logger
}

// NewEngine creates an Engine with the given thresholds.
func NewEngine(cfg *model.Config, logger zerolog.Logger) *Engine {
	return &Engine{
		matcher:    match.NewMatcher(cfg.Matching, logger),
		comparator: compare.NewComparator(cfg.Matching, cfg.Tolerance),
		logger:     logger,
	}
}

// Run reconciles one deed against a set of tax forms. The only error this
// returns is a caller contract violation (nil deed); every data-quality
// problem surfaces inside the reports.
func (e *Engine) Run(deed *model.SourceRecord, forms []*model.SourceRecord) ([]model.ComparisonReport, error) {
	if deed == nil {
		return nil, model.NewContractError("deed")
	}
	ensureIdentifiers(deed, forms)

	matches, orphans := e.matcher.Match(deed.Properties, forms)

	reports := make([]model.ComparisonReport, 0, len(matches)+len(orphans))
	for _, m := range matches {
		report := model.NewComparisonReport(m.DeedProperty.ID, m.DeedProperty.CadastralRef)

		if len(m.Forms) == 0 {
			report.AddIssue(model.Issue{
				Code:      model.CodeMissingTaxForm,
				Severity:  model.SeverityError,
				Field:     "tax_forms",
				DeedValue: m.DeedProperty.CadastralRef,
				Message:   fmt.Sprintf("no tax forms found for property %s", m.Key),
			})
			reports = append(reports, *report)
			continue
		}

		for _, fp := range m.Forms {
			report.MatchedForms = append(report.MatchedForms, fp.Form.DocumentID)
		}
		e.comparator.Compare(deed, m, report)
		reports = append(reports, *report)
	}

	// An orphan is suspicious but not necessarily fraudulent: batch sales
	// sometimes omit a property from the deed. Warning, not error.
	for _, orphan := range orphans {
		report := model.NewComparisonReport("orphan:"+orphan.Form.DocumentID, orphan.Property.CadastralRef)
		report.MatchedForms = append(report.MatchedForms, orphan.Form.DocumentID)
		report.AddIssue(model.Issue{
			Code:      model.CodeOrphanTaxForm,
			Severity:  model.SeverityWarning,
			Field:     "cadastral_ref",
			FormValue: orphan.Property.CadastralRef,
			Message:   fmt.Sprintf("tax form %s references property %s not found in the deed", orphan.Form.DocumentID, orphan.Property.CadastralRef),
			FormID:    orphan.Form.DocumentID,
		})
		reports = append(reports, *report)
	}

	return reports, nil
}

// ensureIdentifiers synthesizes document and property IDs so every report has
// a stable key even for partially-identified input. Synthesis is positional,
// never random: the engine must stay deterministic.
func ensureIdentifiers(deed *model.SourceRecord, forms []*model.SourceRecord) {
	if deed.DocumentID == "" {
		deed.DocumentID = "deed"
	}
	for i := range deed.Properties {
		if deed.Properties[i].ID == "" {
			deed.Properties[i].ID = fmt.Sprintf("%s:%d", deed.DocumentID, i)
		}
	}
	for n, form := range forms {
		if form == nil {
			continue
		}
		if form.DocumentID == "" {
			form.DocumentID = fmt.Sprintf("form_%d", n)
		}
		for i := range form.Properties {
			if form.Properties[i].ID == "" {
				form.Properties[i].ID = fmt.Sprintf("%s:%d", form.DocumentID, i)
			}
		}
	}
}
