// Package similarity provides the string comparison primitives used for
// property and person matching: an edit-distance sequence ratio and an
// order-insensitive token measure for Spanish names, whose surname order
// routinely differs between deeds and tax forms.
package similarity

import (
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"

	"github.com/velocitatem/concordia/internal/normalize"
)

// Scorer computes similarity ratios over normalized text. The zero value is
// ready to use; NewScorer exists for symmetry with the other engines.
type Scorer struct{}

// NewScorer creates a Scorer.
func NewScorer() *Scorer {
	return &Scorer{}
}

// TextRatio returns a sequence similarity in [0,1] over normalized text:
// identical strings score 1.0 and the measure is symmetric.
func (s *Scorer) TextRatio(a, b string) float64 {
	na := normalize.Text(a)
	nb := normalize.Text(b)
	if na == nb {
		return 1.0
	}
	maxLen := utf8.RuneCountInString(na)
	if n := utf8.RuneCountInString(nb); n > maxLen {
		maxLen = n
	}
	if maxLen == 0 {
		return 1.0
	}
	return 1.0 - float64(levenshtein(na, nb))/float64(maxLen)
}

// TokenJaccard splits both names on whitespace after normalization and
// returns intersection over union of the token sets. Returns 0 when either
// side has no tokens.
func (s *Scorer) TokenJaccard(a, b string) float64 {
	ta := tokenSet(a)
	tb := tokenSet(b)
	if len(ta) == 0 || len(tb) == 0 {
		return 0.0
	}
	intersection := 0
	for tok := range ta {
		if tb[tok] {
			intersection++
		}
	}
	union := len(ta) + len(tb) - intersection
	return float64(intersection) / float64(union)
}

// NameSimilarity returns max(token Jaccard, sequence ratio), so reordered
// surnames ("Ana Pérez Rodríguez" vs "Rodríguez Pérez Ana") still match.
// Returns 0 if either input is empty.
func (s *Scorer) NameSimilarity(a, b string) float64 {
	if strings.TrimSpace(a) == "" || strings.TrimSpace(b) == "" {
		return 0.0
	}
	jaccard := s.TokenJaccard(a, b)
	ratio := s.TextRatio(a, b)
	if jaccard > ratio {
		return jaccard
	}
	return ratio
}

// IdentifierMatch decides whether two cadastral references denote the same
// parcel. Three tiers: exact match after normalization; sequence ratio at or
// above threshold; exact equality of the first prefixLen characters when both
// normalized strings are at least that long. The prefix tier exists because
// the trailing control characters are the most OCR-corrupted part of the
// reference.
func (s *Scorer) IdentifierMatch(a, b string, threshold float64, prefixLen int) bool {
	na := normalize.CadastralRef(a)
	nb := normalize.CadastralRef(b)
	if na == "" || nb == "" {
		return false
	}
	if na == nb {
		return true
	}
	if s.TextRatio(na, nb) >= threshold {
		return true
	}
	if prefixLen > 0 && len(na) >= prefixLen && len(nb) >= prefixLen {
		return na[:prefixLen] == nb[:prefixLen]
	}
	return false
}

func tokenSet(s string) map[string]bool {
	set := make(map[string]bool)
	for _, tok := range strings.Fields(normalize.Text(s)) {
		set[tok] = true
	}
	return set
}

var dmp = diffmatchpatch.New()

// levenshtein computes the edit distance over a character diff.
func levenshtein(a, b string) int {
	if a == b {
		return 0
	}
	diffs := dmp.DiffMain(a, b, false)
	return dmp.DiffLevenshtein(diffs)
}
