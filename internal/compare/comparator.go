// Package compare applies the per-field reconciliation rules to a matched
// deed property and its tax forms, producing typed issues. Rules are pure:
// they never mutate the claims and each adds at most one issue per evaluation.
package compare

import (
	"fmt"
	"sort"
	"strings"

	"github.com/shopspring/decimal"

	"github.com/velocitatem/concordia/internal/match"
	"github.com/velocitatem/concordia/internal/model"
	"github.com/velocitatem/concordia/internal/normalize"
	"github.com/velocitatem/concordia/internal/similarity"
)

// Comparator evaluates the field rule set for one match group.
type Comparator struct {
	scorer   *similarity.Scorer
	matching model.MatchingConfig
	tol      model.ToleranceConfig
}

// NewComparator creates a Comparator with the given thresholds.
func NewComparator(matching model.MatchingConfig, tol model.ToleranceConfig) *Comparator {
	return &Comparator{
		scorer:   similarity.NewScorer(),
		matching: matching,
		tol:      tol,
	}
}

// Compare runs every rule for the match group and records issues on the
// report. Per-form rules run once per matched tax form; the declared-value
// and sale-breakdown rules see the whole group because one deed property may
// be split across several forms.
func (c *Comparator) Compare(deed *model.SourceRecord, m match.Match, report *model.ComparisonReport) {
	for _, fp := range m.Forms {
		c.compareTransaction(deed, fp, report)
		c.compareIdentity(m.DeedProperty, fp, report)
		c.compareSurface(m.DeedProperty, fp, report)
		c.compareParties(deed, fp, report)
		c.compareOwnership(m.DeedProperty, fp, report)
		c.compareLiquidation(fp, report)
	}
	c.compareDeclaredValue(m, report)
	c.compareSaleBreakdown(deed, m, report)
}

// compareTransaction checks record-level fields: sale date, notary name and
// document/protocol number.
func (c *Comparator) compareTransaction(deed *model.SourceRecord, fp match.FormProperty, report *model.ComparisonReport) {
	formID := fp.Form.DocumentID

	if deed.SaleDate != nil && fp.Form.SaleDate != nil {
		if !datesEqual(*deed.SaleDate, *fp.Form.SaleDate) {
			report.AddIssue(model.Issue{
				Code:      model.CodeDateMismatch,
				Severity:  model.SeverityError,
				Field:     "sale_date",
				DeedValue: *deed.SaleDate,
				FormValue: *fp.Form.SaleDate,
				Message:   "sale date does not match accrual date",
				FormID:    formID,
			})
		}
	}

	deedNotary := notaryName(deed)
	formNotary := notaryName(fp.Form)
	if deedNotary != "" && formNotary != "" {
		if normalize.Text(deedNotary) != normalize.Text(formNotary) {
			report.AddIssue(model.Issue{
				Code:      model.CodeNotaryMismatch,
				Severity:  model.SeverityWarning,
				Field:     "notary.name",
				DeedValue: deedNotary,
				FormValue: formNotary,
				Message:   "notary name differs",
				FormID:    formID,
			})
		}
	}

	if deed.DocumentNumber != nil && fp.Form.DocumentNumber != nil {
		if normalize.Text(*deed.DocumentNumber) != normalize.Text(*fp.Form.DocumentNumber) {
			report.AddIssue(model.Issue{
				Code:      model.CodeDocNumberMismatch,
				Severity:  model.SeverityWarning,
				Field:     "document_number",
				DeedValue: *deed.DocumentNumber,
				FormValue: *fp.Form.DocumentNumber,
				Message:   "document/protocol number differs",
				FormID:    formID,
			})
		}
	}
}

// compareIdentity checks address and property type. Addresses that differ
// only in formatting (sequence ratio at or above the threshold) are accepted
// silently.
func (c *Comparator) compareIdentity(deedProp *model.PropertyClaim, fp match.FormProperty, report *model.ComparisonReport) {
	formID := fp.Form.DocumentID
	formProp := fp.Property

	if deedProp.Address != "" && formProp.Address != "" &&
		normalize.Text(deedProp.Address) != normalize.Text(formProp.Address) {
		if c.scorer.TextRatio(deedProp.Address, formProp.Address) < c.matching.AddressThreshold {
			report.AddIssue(model.Issue{
				Code:      model.CodeAddressMismatch,
				Severity:  model.SeverityWarning,
				Field:     "address",
				DeedValue: deedProp.Address,
				FormValue: formProp.Address,
				Message:   "address differs beyond formatting noise",
				FormID:    formID,
			})
		}
	}

	if deedProp.Type != "" && formProp.Type != "" &&
		normalize.Text(deedProp.Type) != normalize.Text(formProp.Type) {
		report.AddIssue(model.Issue{
			Code:      model.CodeTypeMismatch,
			Severity:  model.SeverityWarning,
			Field:     "type",
			DeedValue: deedProp.Type,
			FormValue: formProp.Type,
			Message:   "property type descriptor differs",
			FormID:    formID,
		})
	}

	// The categorical code drives legal classification and must not differ
	// at all, so no normalization beyond what extraction already did.
	if deedProp.TypeCode != "" && formProp.TypeCode != "" && deedProp.TypeCode != formProp.TypeCode {
		report.AddIssue(model.Issue{
			Code:      model.CodeTypeCodeMismatch,
			Severity:  model.SeverityError,
			Field:     "type_code",
			DeedValue: deedProp.TypeCode,
			FormValue: formProp.TypeCode,
			Message:   "categorical property type code differs",
			FormID:    formID,
		})
	}
}

// surfaceField names one schema variant of the surface area.
type surfaceField struct {
	name string
	get  func(*model.PropertyClaim) *model.Amount
}

// surfaceFields is the fixed priority order; the first variant present on
// both sides wins and the rest are not re-checked.
var surfaceFields = []surfaceField{
	{"surface_constructed", func(p *model.PropertyClaim) *model.Amount { return p.SurfaceConstructed }},
	{"surface_usable", func(p *model.PropertyClaim) *model.Amount { return p.SurfaceUsable }},
	{"surface", func(p *model.PropertyClaim) *model.Amount { return p.Surface }},
}

func (c *Comparator) compareSurface(deedProp *model.PropertyClaim, fp match.FormProperty, report *model.ComparisonReport) {
	for _, sf := range surfaceFields {
		dv := sf.get(deedProp)
		fv := sf.get(fp.Property)
		if dv == nil || fv == nil {
			continue
		}
		dd, dok := normalize.ParseDecimal(dv.String())
		fd, fok := normalize.ParseDecimal(fv.String())
		if dok && fok && dd.Sub(fd).Abs().GreaterThan(decimal.NewFromFloat(c.tol.Surface)) {
			report.AddIssue(model.Issue{
				Code:      model.CodeSurfaceMismatch,
				Severity:  model.SeverityWarning,
				Field:     sf.name,
				DeedValue: dv.String(),
				FormValue: fv.String(),
				Message:   fmt.Sprintf("surface area differs by more than %v", c.tol.Surface),
				FormID:    fp.Form.DocumentID,
			})
		}
		return // first present pair decides, parseable or not
	}
}

// compareParties checks the seller set, the form taxpayer and the transmitter
// coefficient sum.
func (c *Comparator) compareParties(deed *model.SourceRecord, fp match.FormProperty, report *model.ComparisonReport) {
	formID := fp.Form.DocumentID

	deedSellers := taxIDSet(deed.Sellers)
	formSellers := taxIDSet(fp.Form.Sellers)
	if missing := setDifference(deedSellers, formSellers); len(missing) > 0 {
		report.AddIssue(model.Issue{
			Code:      model.CodeMissingSeller,
			Severity:  model.SeverityError,
			Field:     "sellers",
			DeedValue: strings.Join(sortedKeys(deedSellers), ", "),
			FormValue: strings.Join(sortedKeys(formSellers), ", "),
			Message:   fmt.Sprintf("sellers missing in tax form: %s", strings.Join(missing, ", ")),
			FormID:    formID,
		})
	}

	// Each Modelo 600 names its own taxpayer; that taxpayer must be one of
	// the deed buyers. The reverse containment does not hold when several
	// buyers file separate forms.
	deedBuyers := taxIDSet(deed.Buyers)
	formBuyers := taxIDSet(fp.Form.Buyers)
	if len(deedBuyers) > 0 {
		if unknown := setDifference(formBuyers, deedBuyers); len(unknown) > 0 {
			report.AddIssue(model.Issue{
				Code:      model.CodeMissingBuyer,
				Severity:  model.SeverityError,
				Field:     "buyers",
				DeedValue: strings.Join(sortedKeys(deedBuyers), ", "),
				FormValue: strings.Join(sortedKeys(formBuyers), ", "),
				Message:   fmt.Sprintf("tax-form taxpayer not found among deed buyers: %s", strings.Join(unknown, ", ")),
				FormID:    formID,
			})
		}
	}

	c.compareTransmitterSum(fp, report)
}

// compareTransmitterSum verifies the per-form transmitter coefficients add up
// to 100%. Skipped unless every transmitter carries a coefficient.
func (c *Comparator) compareTransmitterSum(fp match.FormProperty, report *model.ComparisonReport) {
	if len(fp.Form.Sellers) == 0 {
		return
	}
	sum := decimal.Zero
	raw := make([]string, 0, len(fp.Form.Sellers))
	for _, seller := range fp.Form.Sellers {
		if seller.SharePercent == nil {
			return
		}
		d, ok := normalize.ParseDecimal(seller.SharePercent.String())
		if !ok {
			return
		}
		sum = sum.Add(d)
		raw = append(raw, seller.SharePercent.String())
	}
	hundred := decimal.NewFromInt(100)
	if sum.Sub(hundred).Abs().GreaterThan(decimal.NewFromFloat(c.tol.Percent)) {
		report.AddIssue(model.Issue{
			Code:      model.CodeTransmitterSum,
			Severity:  model.SeverityError,
			Field:     "sellers.share_percent",
			DeedValue: "100",
			FormValue: strings.Join(raw, " + "),
			Message:   fmt.Sprintf("transmitter coefficients sum to %s%%, expected 100%%", sum.String()),
			FormID:    fp.Form.DocumentID,
		})
	}
}

// compareOwnership compares co-owner percentages for tax IDs present on both
// sides. The form side falls back to the transmitters' coefficients when the
// property claim carries no explicit map.
func (c *Comparator) compareOwnership(deedProp *model.PropertyClaim, fp match.FormProperty, report *model.ComparisonReport) {
	deedShares := normalizeShares(deedProp.OwnershipShares)
	formShares := normalizeShares(fp.Property.OwnershipShares)
	if len(formShares) == 0 {
		formShares = sharesFromSellers(fp.Form.Sellers)
	}
	if len(deedShares) == 0 || len(formShares) == 0 {
		return
	}

	ids := make([]string, 0, len(deedShares))
	for id := range deedShares {
		if _, ok := formShares[id]; ok {
			ids = append(ids, id)
		}
	}
	sort.Strings(ids)

	tolerance := decimal.NewFromFloat(c.tol.Percent)
	for _, id := range ids {
		dd, dok := normalize.ParseDecimal(deedShares[id])
		fd, fok := normalize.ParseDecimal(formShares[id])
		if !dok || !fok {
			continue
		}
		if dd.Sub(fd).Abs().GreaterThan(tolerance) {
			report.AddIssue(model.Issue{
				Code:      model.CodeOwnershipMismatch,
				Severity:  model.SeverityError,
				Field:     "ownership_shares." + id,
				DeedValue: deedShares[id],
				FormValue: formShares[id],
				Message:   fmt.Sprintf("ownership share for %s differs", id),
				FormID:    fp.Form.DocumentID,
			})
		}
	}
}

// compareLiquidation checks the self-assessment arithmetic: quota must equal
// taxable base times rate.
func (c *Comparator) compareLiquidation(fp match.FormProperty, report *model.ComparisonReport) {
	liq := fp.Form.Liquidation
	if liq == nil {
		return
	}
	base, bok := parseAmount(liq.TaxableBase)
	rate, rok := parseAmount(liq.Rate)
	quota, qok := parseAmount(liq.Quota)
	if !bok || !rok || !qok {
		return
	}
	expected := base.Mul(rate).Div(decimal.NewFromInt(100))
	if quota.Sub(expected).Abs().GreaterThan(decimal.NewFromFloat(c.tol.Value)) {
		report.AddIssue(model.Issue{
			Code:      model.CodeTaxCalculation,
			Severity:  model.SeverityError,
			Field:     "liquidation.quota",
			DeedValue: expected.StringFixed(2),
			FormValue: liq.Quota.String(),
			Message:   fmt.Sprintf("quota %s does not match base %s at rate %s%%", quota.String(), base.String(), rate.String()),
			FormID:    fp.Form.DocumentID,
		})
	}
}

// compareDeclaredValue compares money at group level. A single matched form
// is checked against the deed value prorated by percent transferred; several
// forms are checked as a sum. A missing or exactly-zero value on either side
// skips the rule, since an extracted zero usually means "not stated".
func (c *Comparator) compareDeclaredValue(m match.Match, report *model.ComparisonReport) {
	if len(m.Forms) == 0 {
		return
	}
	deedVal, ok := parseAmount(m.DeedProperty.DeclaredValue)
	if !ok || deedVal.IsZero() {
		return
	}

	type formValue struct {
		fp  match.FormProperty
		val decimal.Decimal
		raw string
	}
	values := make([]formValue, 0, len(m.Forms))
	for _, fp := range m.Forms {
		amt := declaredValueOf(fp)
		val, ok := parseAmount(amt)
		if !ok || val.IsZero() {
			return // a form without a stated value makes the group total meaningless
		}
		values = append(values, formValue{fp: fp, val: val, raw: amt.String()})
	}

	tolerance := decimal.NewFromFloat(c.tol.Value)
	if len(values) == 1 {
		fv := values[0]
		expected := deedVal
		if pct, ok := parseAmount(fv.fp.Property.PercentTransferred); ok && !pct.IsZero() {
			expected = deedVal.Mul(pct).Div(decimal.NewFromInt(100))
		}
		if fv.val.Sub(expected).Abs().GreaterThan(tolerance) {
			report.AddIssue(model.Issue{
				Code:      model.CodeValueMismatch,
				Severity:  model.SeverityError,
				Field:     "declared_value",
				DeedValue: m.DeedProperty.DeclaredValue.String(),
				FormValue: fv.raw,
				Message:   fmt.Sprintf("declared value %s does not match expected %s", fv.val.String(), expected.StringFixed(2)),
				FormID:    fv.fp.Form.DocumentID,
			})
		}
		return
	}

	total := decimal.Zero
	raws := make([]string, 0, len(values))
	for _, fv := range values {
		total = total.Add(fv.val)
		raws = append(raws, fv.raw)
	}
	if total.Sub(deedVal).Abs().GreaterThan(tolerance) {
		report.AddIssue(model.Issue{
			Code:      model.CodeValueMismatch,
			Severity:  model.SeverityError,
			Field:     "declared_value",
			DeedValue: m.DeedProperty.DeclaredValue.String(),
			FormValue: strings.Join(raws, " + "),
			Message:   fmt.Sprintf("sum of declared values %s does not match deed value %s", total.String(), deedVal.String()),
		})
	}
}

// compareSaleBreakdown joins per-seller breakdown entries by (property,
// seller tax ID) and compares percentages where both sides state one.
func (c *Comparator) compareSaleBreakdown(deed *model.SourceRecord, m match.Match, report *model.ComparisonReport) {
	deedEntries := breakdownFor(deed.SaleBreakdown, m.Key)
	if len(deedEntries) == 0 {
		return
	}

	sellers := sortedKeys(deedEntries)

	tolerance := decimal.NewFromFloat(c.tol.Percent)
	for _, fp := range m.Forms {
		formEntries := breakdownFor(fp.Form.SaleBreakdown, m.Key)
		for _, seller := range sellers {
			deedEntry := deedEntries[seller]
			formEntry, ok := formEntries[seller]
			if !ok {
				continue
			}
			dd, dok := parseAmount(deedEntry.Percentage)
			fd, fok := parseAmount(formEntry.Percentage)
			if !dok || !fok {
				continue
			}
			if dd.Sub(fd).Abs().GreaterThan(tolerance) {
				report.AddIssue(model.Issue{
					Code:      model.CodeSellerPctMismatch,
					Severity:  model.SeverityError,
					Field:     "sale_breakdown." + seller,
					DeedValue: deedEntry.Percentage.String(),
					FormValue: formEntry.Percentage.String(),
					Message:   fmt.Sprintf("sale percentage for seller %s differs", seller),
					FormID:    fp.Form.DocumentID,
				})
			}
		}
	}
}
