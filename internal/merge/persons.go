package merge

import (
	"unicode"

	"github.com/velocitatem/concordia/internal/model"
	"github.com/velocitatem/concordia/internal/normalize"
)

// mergePersons deduplicates one party list across chunks. Tax ID is the
// identity when stated; otherwise the honorific-stripped normalized name.
// Group order follows first appearance.
func mergePersons(chunks []model.ChunkExtraction, role model.PersonRole, get func(*model.ChunkExtraction) []model.PersonClaim) []model.PersonClaim {
	var order []string
	groups := make(map[string]*model.PersonClaim)

	for i := range chunks {
		for _, p := range get(&chunks[i]) {
			k := personKey(p)
			if k == "" {
				continue
			}
			existing, ok := groups[k]
			if !ok {
				c := p
				c.Role = role
				groups[k] = &c
				order = append(order, k)
				continue
			}
			mergePersonInto(existing, p)
		}
	}

	out := make([]model.PersonClaim, 0, len(order))
	for _, k := range order {
		out = append(out, *groups[k])
	}
	return out
}

func personKey(p model.PersonClaim) string {
	if id := normalize.ID(p.TaxID); id != "" {
		return "id:" + id
	}
	if name := normalize.PersonKey(p.Name); name != "" {
		return "name:" + name
	}
	return ""
}

// mergePersonInto fills gaps in dst from src. For the display name the
// mixed-case rendering wins over an all-uppercase one, deeds shout names
// while forms usually keep the registered casing.
func mergePersonInto(dst *model.PersonClaim, src model.PersonClaim) {
	if betterName(src.Name, dst.Name) {
		dst.Name = src.Name
	}
	if dst.TaxID == "" {
		dst.TaxID = src.TaxID
	}
	if dst.MaritalStatus == nil {
		dst.MaritalStatus = src.MaritalStatus
	}
	if dst.SpouseTaxID == nil {
		dst.SpouseTaxID = src.SpouseTaxID
	}
	if dst.SharePercent == nil {
		dst.SharePercent = src.SharePercent
	}
}

func betterName(candidate, current string) bool {
	if candidate == "" {
		return false
	}
	if current == "" {
		return true
	}
	return hasLower(candidate) && !hasLower(current)
}

func hasLower(s string) bool {
	for _, r := range s {
		if unicode.IsLower(r) {
			return true
		}
	}
	return false
}
