package compare

import (
	"sort"
	"time"

	"github.com/shopspring/decimal"

	"github.com/velocitatem/concordia/internal/match"
	"github.com/velocitatem/concordia/internal/model"
	"github.com/velocitatem/concordia/internal/normalize"
)

// datesEqual compares canonical dates when both sides parse, otherwise falls
// back to normalized-text equality of the raw values.
func datesEqual(a, b string) bool {
	ca := normalize.ParseDate(a)
	cb := normalize.ParseDate(b)
	if isCanonicalDate(ca) && isCanonicalDate(cb) {
		return ca == cb
	}
	return normalize.Text(a) == normalize.Text(b)
}

func isCanonicalDate(s string) bool {
	_, err := time.Parse("2006-01-02", s)
	return err == nil
}

func notaryName(r *model.SourceRecord) string {
	if r == nil || r.Notary == nil {
		return ""
	}
	return r.Notary.Name
}

// taxIDSet collects the normalized, non-empty tax IDs of a party list.
func taxIDSet(persons []model.PersonClaim) map[string]bool {
	set := make(map[string]bool)
	for _, p := range persons {
		if id := normalize.ID(p.TaxID); id != "" {
			set[id] = true
		}
	}
	return set
}

// setDifference returns the members of a not present in b, sorted.
func setDifference(a, b map[string]bool) []string {
	var out []string
	for id := range a {
		if !b[id] {
			out = append(out, id)
		}
	}
	sort.Strings(out)
	return out
}

func sortedKeys[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}

// normalizeShares re-keys an ownership map by normalized tax ID, keeping raw
// percentage strings for reporting.
func normalizeShares(shares map[string]model.Amount) map[string]string {
	if len(shares) == 0 {
		return nil
	}
	out := make(map[string]string, len(shares))
	for id, pct := range shares {
		if key := normalize.ID(id); key != "" {
			out[key] = pct.String()
		}
	}
	return out
}

// sharesFromSellers derives an ownership map from transmitter coefficients.
func sharesFromSellers(sellers []model.PersonClaim) map[string]string {
	out := make(map[string]string)
	for _, s := range sellers {
		if s.SharePercent == nil {
			continue
		}
		if key := normalize.ID(s.TaxID); key != "" {
			out[key] = s.SharePercent.String()
		}
	}
	return out
}

func parseAmount(a *model.Amount) (decimal.Decimal, bool) {
	if a == nil {
		return decimal.Zero, false
	}
	return normalize.ParseDecimal(a.String())
}

// declaredValueOf prefers the liquidation's declared value over the property
// claim's, mirroring where Modelo 600 states the money.
func declaredValueOf(fp match.FormProperty) *model.Amount {
	if fp.Form.Liquidation != nil && fp.Form.Liquidation.DeclaredValue != nil {
		return fp.Form.Liquidation.DeclaredValue
	}
	return fp.Property.DeclaredValue
}

// breakdownFor indexes breakdown entries for one property by normalized
// seller tax ID.
func breakdownFor(entries []model.SaleBreakdownEntry, propertyKey string) map[string]model.SaleBreakdownEntry {
	out := make(map[string]model.SaleBreakdownEntry)
	for _, e := range entries {
		if normalize.CadastralRef(e.PropertyRef) != propertyKey {
			continue
		}
		seller := normalize.ID(e.SellerTaxID)
		if seller == "" {
			continue
		}
		if _, exists := out[seller]; !exists {
			out[seller] = e
		}
	}
	return out
}
