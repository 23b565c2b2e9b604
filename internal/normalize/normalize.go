// Package normalize canonicalizes the heterogeneous textual renderings found
// in OCR'd Spanish property documents: free text, tax IDs, cadastral
// references, locale-ambiguous decimals and dates. Every function is total;
// unparseable input falls back to a missing-value result, never an error.
package normalize

import (
	"strings"
	"time"
	"unicode"

	"github.com/shopspring/decimal"
	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var diacriticStripper = transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)), norm.NFC)

// stripDiacritics removes combining accents while keeping ñ/Ñ, which carry
// meaning in Spanish and must not collapse into n/N.
func stripDiacritics(s string) string {
	s = strings.ReplaceAll(s, "ñ", "\x00")
	s = strings.ReplaceAll(s, "Ñ", "\x01")
	out, _, err := transform.String(diacriticStripper, s)
	if err != nil {
		out = s
	}
	out = strings.ReplaceAll(out, "\x00", "ñ")
	return strings.ReplaceAll(out, "\x01", "Ñ")
}

// Text canonicalizes free text: strip diacritics (preserving ñ), uppercase,
// collapse runs of whitespace. Empty input yields empty output.
func Text(s string) string {
	s = stripDiacritics(s)
	s = strings.ToUpper(s)
	return strings.Join(strings.Fields(s), " ")
}

// ID canonicalizes a national tax ID (NIF/NIE/CIF): uppercase with internal
// spaces and dashes removed. Check letters are not verified here; that is the
// validator's job.
func ID(s string) string {
	var b strings.Builder
	for _, r := range strings.ToUpper(strings.TrimSpace(s)) {
		if r == ' ' || r == '-' || unicode.IsSpace(r) {
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

// CadastralRef canonicalizes a cadastral reference the same way as ID but
// leaves the character set untouched: O/0 and I/1 confusions are left for the
// fuzzy matcher, which tolerates them better than a guessing auto-correct.
func CadastralRef(ref string) string {
	return ID(ref)
}

// honorifics are stripped from person names before identity grouping.
var honorifics = []string{"DON", "DOÑA", "DONA", "SR.", "SRA.", "SR", "SRA", "D.", "Dª", "DÑA.", "DÑA"}

// PersonKey normalizes a display name into a grouping key: honorifics
// removed, diacritics folded, uppercased, whitespace collapsed.
func PersonKey(name string) string {
	tokens := strings.Fields(Text(name))
	out := tokens[:0]
	for _, tok := range tokens {
		drop := false
		for _, h := range honorifics {
			if tok == Text(h) {
				drop = true
				break
			}
		}
		if !drop {
			out = append(out, tok)
		}
	}
	return strings.Join(out, " ")
}

// ParseDecimal parses a decimal that may use Spanish formatting (dot as
// thousands separator, comma as decimal separator) or plain formatting. When
// both separators appear, the last one in text order is the decimal
// separator; a lone comma is always a decimal separator. Returns ok=false on
// unparseable input; callers must skip the comparison, never assume zero.
func ParseDecimal(v string) (decimal.Decimal, bool) {
	s := strings.TrimSpace(v)
	s = strings.TrimSuffix(s, "%")
	s = strings.TrimSuffix(s, "€")
	s = strings.TrimSpace(s)
	if s == "" {
		return decimal.Zero, false
	}

	lastDot := strings.LastIndex(s, ".")
	lastComma := strings.LastIndex(s, ",")
	switch {
	case lastDot >= 0 && lastComma >= 0:
		if lastComma > lastDot {
			// Spanish: 1.234.567,89
			s = strings.ReplaceAll(s, ".", "")
			s = strings.Replace(s, ",", ".", 1)
		} else {
			// Plain with thousands commas: 1,234,567.89
			s = strings.ReplaceAll(s, ",", "")
		}
	case lastComma >= 0:
		s = strings.Replace(s, ",", ".", 1)
	}

	d, err := decimal.NewFromString(s)
	if err != nil {
		return decimal.Zero, false
	}
	return d, true
}

var dateLayouts = []string{"02-01-2006", "2006-01-02", "02/01/2006", "02.01.2006"}

// ParseDate canonicalizes a date to YYYY-MM-DD. Input that matches none of
// the known layouts is returned unchanged so callers can fall back to
// normalized-text comparison.
func ParseDate(v string) string {
	s := strings.TrimSpace(v)
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t.Format("2006-01-02")
		}
	}
	return v
}
