// Package merge combines N partial extractions of one document into a single
// consensus record: plurality voting for scalar fields, identity-based
// deduplication for person and property lists.
package merge

import (
	"github.com/rs/zerolog"

	"github.com/velocitatem/concordia/internal/model"
	"github.com/velocitatem/concordia/internal/validate"
)

// Engine merges chunk extractions. The validator, when present, gates the
// output; a failed validation is logged and the best-effort merge is still
// returned so a reviewer always receives something to correct.
type Engine struct {
	cfg       model.MergeConfig
	validator *validate.Validator
	logger    zerolog.Logger
}

// NewEngine creates a merge Engine. validator may be nil to skip the gate.
func NewEngine(cfg model.MergeConfig, validator *validate.Validator, logger zerolog.Logger) *Engine {
	return &Engine{cfg: cfg, validator: validator, logger: logger}
}

// Merge builds the consensus record. An empty chunk list is a caller
// contract violation: voting needs at least one observation.
func (e *Engine) Merge(chunks []model.ChunkExtraction) (*model.MergedRecord, error) {
	if len(chunks) == 0 {
		return nil, model.NewContractError("chunks")
	}

	merged := &model.MergedRecord{}
	merged.DocumentID = voteString(collectStrings(chunks, func(c *model.ChunkExtraction) string { return c.DocumentID }))
	merged.DocumentNumber = votePtr(collectPtrs(chunks, func(c *model.ChunkExtraction) *string { return c.DocumentNumber }))
	merged.SaleDate = votePtr(collectPtrs(chunks, func(c *model.ChunkExtraction) *string { return c.SaleDate }))
	merged.Notary = mergeNotary(chunks)
	merged.Liquidation = mergeLiquidation(chunks)

	merged.Sellers = mergePersons(chunks, model.RoleSeller, func(c *model.ChunkExtraction) []model.PersonClaim { return c.Sellers })
	merged.Buyers = mergePersons(chunks, model.RoleBuyer, func(c *model.ChunkExtraction) []model.PersonClaim { return c.Buyers })
	merged.Properties = e.mergeProperties(chunks)
	merged.SaleBreakdown = mergeBreakdown(chunks)

	if e.validator != nil {
		if err := e.validator.ValidateRecord(merged); err != nil {
			e.logger.Warn().
				Err(err).
				Str("document_id", merged.DocumentID).
				Msg("merged record failed validation, returning best-effort merge")
		}
	}

	return merged, nil
}

func mergeNotary(chunks []model.ChunkExtraction) *model.NotaryInfo {
	var names, ids []string
	var protocols []*string
	for i := range chunks {
		n := chunks[i].Notary
		if n == nil {
			continue
		}
		if n.Name != "" {
			names = append(names, n.Name)
		}
		if n.TaxID != "" {
			ids = append(ids, n.TaxID)
		}
		if n.Protocol != nil {
			protocols = append(protocols, n.Protocol)
		}
	}
	if len(names) == 0 && len(ids) == 0 && len(protocols) == 0 {
		return nil
	}
	return &model.NotaryInfo{
		Name:     voteString(names),
		TaxID:    voteString(ids),
		Protocol: votePtr(protocols),
	}
}

func mergeLiquidation(chunks []model.ChunkExtraction) *model.LiquidationData {
	var declared, base, rate, quota []*model.Amount
	for i := range chunks {
		liq := chunks[i].Liquidation
		if liq == nil {
			continue
		}
		declared = appendAmount(declared, liq.DeclaredValue)
		base = appendAmount(base, liq.TaxableBase)
		rate = appendAmount(rate, liq.Rate)
		quota = appendAmount(quota, liq.Quota)
	}
	if len(declared) == 0 && len(base) == 0 && len(rate) == 0 && len(quota) == 0 {
		return nil
	}
	return &model.LiquidationData{
		DeclaredValue: voteAmount(declared),
		TaxableBase:   voteAmount(base),
		Rate:          voteAmount(rate),
		Quota:         voteAmount(quota),
	}
}

// mergeBreakdown deduplicates breakdown entries by (property, seller, buyer),
// merging amounts field-by-field with a preference for stated values.
func mergeBreakdown(chunks []model.ChunkExtraction) []model.SaleBreakdownEntry {
	type key struct{ prop, seller, buyer string }
	var order []key
	groups := make(map[key]*model.SaleBreakdownEntry)

	for i := range chunks {
		for _, entry := range chunks[i].SaleBreakdown {
			k := key{
				prop:   normalizeRef(entry.PropertyRef),
				seller: normalizeID(entry.SellerTaxID),
				buyer:  normalizeID(entry.BuyerTaxID),
			}
			existing, ok := groups[k]
			if !ok {
				e := entry
				groups[k] = &e
				order = append(order, k)
				continue
			}
			if existing.Percentage == nil {
				existing.Percentage = entry.Percentage
			}
			if existing.Amount == nil {
				existing.Amount = entry.Amount
			}
		}
	}

	out := make([]model.SaleBreakdownEntry, 0, len(order))
	for _, k := range order {
		out = append(out, *groups[k])
	}
	return out
}
