package validate

import (
	"regexp"
	"strings"
)

// checkLetters is the official DNI/NIE control table indexed by number mod 23.
const checkLetters = "TRWAGMYFPDXBNJZSQVHLCKE"

// cifLetters is the CIF control table indexed by the control digit.
const cifLetters = "JABCDEFGHI"

var (
	dniPattern       = regexp.MustCompile(`^\d{8}[A-Z]$`)
	niePattern       = regexp.MustCompile(`^[XYZ]\d{7}[A-Z]$`)
	cifPattern       = regexp.MustCompile(`^[A-Z]\d{7}[A-Z0-9]$`)
	cadastralPattern = regexp.MustCompile(`^[0-9A-Z]{20}$`)
)

// ValidDNI reports whether s is a DNI with a correct check letter.
func ValidDNI(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !dniPattern.MatchString(s) {
		return false
	}
	return checkLetters[digitsMod23(s[:8])] == s[8]
}

// ValidNIE reports whether s is a NIE with a correct check letter. The
// leading X/Y/Z maps to 0/1/2 before the mod-23 check.
func ValidNIE(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !niePattern.MatchString(s) {
		return false
	}
	digits := string('0'+s[0]-'X') + s[1:8]
	return checkLetters[digitsMod23(digits)] == s[8]
}

// ValidCIF reports whether s is a CIF with a correct control character.
// Organization letters N, P, Q, R, S and W require a letter control,
// A through J plus U and V require a digit, the rest accept either.
func ValidCIF(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	if !cifPattern.MatchString(s) {
		return false
	}

	sum := 0
	for i := 1; i < 8; i++ {
		d := int(s[i] - '0')
		if i%2 == 0 { // even positions within the digit block
			sum += d
		} else {
			d *= 2
			sum += d/10 + d%10
		}
	}
	controlDigit := (10 - sum%10) % 10
	check := s[8]

	switch {
	case strings.ContainsRune("NPQRSW", rune(s[0])):
		return check == cifLetters[controlDigit]
	case strings.ContainsRune("ABCDEFGHJUV", rune(s[0])):
		return check == byte('0'+controlDigit)
	default:
		return check == byte('0'+controlDigit) || check == cifLetters[controlDigit]
	}
}

// ValidTaxID dispatches on shape: DNI, NIE or CIF.
func ValidTaxID(s string) bool {
	up := strings.ToUpper(strings.TrimSpace(s))
	switch {
	case dniPattern.MatchString(up):
		return ValidDNI(up)
	case niePattern.MatchString(up):
		return ValidNIE(up)
	case cifPattern.MatchString(up):
		return ValidCIF(up)
	}
	return false
}

// ValidCadastralRef checks the 20-character catastro reference format.
// Separators the registry sometimes inserts are ignored.
func ValidCadastralRef(s string) bool {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.NewReplacer(" ", "", "-", "").Replace(s)
	return cadastralPattern.MatchString(s)
}

func digitsMod23(digits string) int {
	n := 0
	for i := 0; i < len(digits); i++ {
		n = (n*10 + int(digits[i]-'0')) % 23
	}
	return n
}
