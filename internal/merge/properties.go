package merge

import (
	"strconv"

	"github.com/velocitatem/concordia/internal/model"
	"github.com/velocitatem/concordia/internal/normalize"
)

// mergeProperties deduplicates parcels across chunks. The cadastral
// reference is the identity when stated, the normalized address otherwise.
// Entries with neither key are kept only when they carry enough substance
// to be a real parcel rather than extraction noise, and each stands alone.
func (e *Engine) mergeProperties(chunks []model.ChunkExtraction) []model.PropertyClaim {
	var order []string
	groups := make(map[string]*model.PropertyClaim)
	anon := 0

	for i := range chunks {
		for _, p := range chunks[i].Properties {
			k := propertyKey(p)
			if k == "" {
				if countPropertyFields(p) < e.cfg.MinPropertyFields {
					continue
				}
				k = "anon:" + strconv.Itoa(anon)
				anon++
			}
			existing, ok := groups[k]
			if !ok {
				c := p
				groups[k] = &c
				order = append(order, k)
				continue
			}
			mergePropertyInto(existing, p)
		}
	}

	out := make([]model.PropertyClaim, 0, len(order))
	for _, k := range order {
		out = append(out, *groups[k])
	}
	return out
}

func propertyKey(p model.PropertyClaim) string {
	if ref := normalize.CadastralRef(p.CadastralRef); ref != "" {
		return "ref:" + ref
	}
	if addr := normalize.Text(p.Address); addr != "" {
		return "addr:" + addr
	}
	return ""
}

func countPropertyFields(p model.PropertyClaim) int {
	n := 0
	for _, s := range []string{p.ID, p.Address, p.Type, p.TypeCode} {
		if s != "" {
			n++
		}
	}
	for _, a := range []*model.Amount{p.DeclaredValue, p.SurfaceConstructed, p.SurfaceUsable, p.Surface, p.PercentTransferred} {
		if a != nil {
			n++
		}
	}
	if len(p.OwnershipShares) > 0 {
		n++
	}
	return n
}

// mergePropertyInto fills gaps in dst from src. Magnitudes take the larger
// observation: a chunk boundary truncates numbers, it never inflates them.
func mergePropertyInto(dst *model.PropertyClaim, src model.PropertyClaim) {
	if dst.ID == "" {
		dst.ID = src.ID
	}
	if dst.CadastralRef == "" {
		dst.CadastralRef = src.CadastralRef
	}
	if dst.Address == "" {
		dst.Address = src.Address
	}
	if dst.Type == "" {
		dst.Type = src.Type
	}
	if dst.TypeCode == "" {
		dst.TypeCode = src.TypeCode
	}
	dst.DeclaredValue = largerAmount(dst.DeclaredValue, src.DeclaredValue)
	dst.SurfaceConstructed = largerAmount(dst.SurfaceConstructed, src.SurfaceConstructed)
	dst.SurfaceUsable = largerAmount(dst.SurfaceUsable, src.SurfaceUsable)
	dst.Surface = largerAmount(dst.Surface, src.Surface)
	if dst.PercentTransferred == nil {
		dst.PercentTransferred = src.PercentTransferred
	}
	if len(src.OwnershipShares) > 0 {
		if dst.OwnershipShares == nil {
			dst.OwnershipShares = make(map[string]model.Amount, len(src.OwnershipShares))
		}
		for id, share := range src.OwnershipShares {
			if _, ok := dst.OwnershipShares[id]; !ok {
				dst.OwnershipShares[id] = share
			}
		}
	}
}

func largerAmount(a, b *model.Amount) *model.Amount {
	if a == nil {
		return b
	}
	if b == nil {
		return a
	}
	da, aok := normalize.ParseDecimal(a.String())
	db, bok := normalize.ParseDecimal(b.String())
	if aok && bok && db.GreaterThan(da) {
		return b
	}
	return a
}
