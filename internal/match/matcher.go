// Package match groups deed properties with the tax forms that reference
// them, keyed by cadastral reference with a fuzzy fallback for OCR noise.
package match

import (
	"github.com/rs/zerolog"

	"github.com/velocitatem/concordia/internal/model"
	"github.com/velocitatem/concordia/internal/normalize"
	"github.com/velocitatem/concordia/internal/similarity"
)

// FormProperty pairs a tax-form property claim with its parent record, so
// record-level fields (date, notary, liquidation) stay reachable during
// comparison.
type FormProperty struct {
	Form     *model.SourceRecord
	Property *model.PropertyClaim
}

// Match is one deed property together with every tax-form claim that
// references it. Fuzzy is set when the group was formed by similarity rather
// than exact key equality.
type Match struct {
	DeedProperty *model.PropertyClaim
	Forms        []FormProperty
	Key          string
	Fuzzy        bool
}

// Matcher builds match groups between a deed and a set of tax forms.
type Matcher struct {
	scorer *similarity.Scorer
	cfg    model.MatchingConfig
	logger zerolog.Logger
}

// NewMatcher creates a Matcher.
func NewMatcher(cfg model.MatchingConfig, logger zerolog.Logger) *Matcher {
	return &Matcher{
		scorer: similarity.NewScorer(),
		cfg:    cfg,
		logger: logger,
	}
}

// index maps normalized cadastral reference to the tax-form claims carrying
// it. Keys keeps first-seen insertion order: iteration must be stable so
// fuzzy first-match behavior is deterministic.
type index struct {
	groups map[string][]FormProperty
	keys   []string
}

func buildIndex(forms []*model.SourceRecord) *index {
	idx := &index{groups: make(map[string][]FormProperty)}
	for _, form := range forms {
		if form == nil {
			continue
		}
		for i := range form.Properties {
			prop := &form.Properties[i]
			key := normalize.CadastralRef(prop.CadastralRef)
			if _, seen := idx.groups[key]; !seen {
				idx.keys = append(idx.keys, key)
			}
			idx.groups[key] = append(idx.groups[key], FormProperty{Form: form, Property: prop})
		}
	}
	return idx
}

// Match groups each deed property with its tax-form claims. Returns the match
// list (one entry per deed property; Forms empty when nothing matched, which
// the engine reports as a missing tax form) and the orphan claims no deed
// property referenced.
func (m *Matcher) Match(deedProps []model.PropertyClaim, forms []*model.SourceRecord) ([]Match, []FormProperty) {
	idx := buildIndex(forms)
	matchedKeys := make(map[string]bool)

	matches := make([]Match, 0, len(deedProps))
	for i := range deedProps {
		prop := &deedProps[i]
		ref := normalize.CadastralRef(prop.CadastralRef)

		key, fuzzy, found := m.lookup(idx, ref)
		if !found {
			matches = append(matches, Match{DeedProperty: prop, Key: ref})
			continue
		}
		if fuzzy {
			m.logger.Info().
				Str("deed_ref", prop.CadastralRef).
				Str("matched_key", key).
				Msg("fuzzy cadastral fallback fired")
		}
		matchedKeys[key] = true
		matches = append(matches, Match{
			DeedProperty: prop,
			Forms:        idx.groups[key],
			Key:          key,
			Fuzzy:        fuzzy,
		})
	}

	var orphans []FormProperty
	for _, key := range idx.keys {
		if !matchedKeys[key] {
			orphans = append(orphans, idx.groups[key]...)
		}
	}

	return matches, orphans
}

// lookup tries an exact index hit, then scans keys in insertion order and
// accepts the first fuzzy hit. First-match, not best-match: ties carry no
// semantic weight here, only stability does.
func (m *Matcher) lookup(idx *index, ref string) (key string, fuzzy, found bool) {
	if ref != "" {
		if _, ok := idx.groups[ref]; ok {
			return ref, false, true
		}
	}
	for _, k := range idx.keys {
		if k == "" {
			continue
		}
		if m.scorer.IdentifierMatch(ref, k, m.cfg.IdentifierThreshold, m.cfg.IdentifierPrefixLen) {
			return k, true, true
		}
	}
	return "", false, false
}
