// Package validate holds the pure field checks applied to invoice input:
// Ukrainian IBAN, business registration code (8 digits), individual tax
// number (10 digits), document number and date formatting.
//
// Every check reports failure as a boolean; callers decide the message.
package validate

import (
	"regexp"
	"strconv"
	"strings"
	"unicode"
)

var ibanPattern = regexp.MustCompile(`^UA\d{27}$`)

// mod97ChunkDigits is the longest prefix reduced at once
const mod97ChunkDigits = 9

// NormalizeIBAN strips all whitespace and upper-cases the input
func NormalizeIBAN(s string) string {
	return strings.ToUpper(strings.Map(func(r rune) rune {
		if unicode.IsSpace(r) {
			return -1
		}
		return r
	}, s))
}

// IBAN reports whether s is a Ukrainian IBAN with a valid mod-97 checksum
func IBAN(s string) bool {
	iban := NormalizeIBAN(s)
	if !ibanPattern.MatchString(iban) {
		return false
	}

	// Move country code and check digits to the end, then letters -> numbers
	rearranged := iban[4:] + iban[:4]
	var numeral strings.Builder
	for _, r := range rearranged {
		if r >= 'A' && r <= 'Z' {
			numeral.WriteString(strconv.Itoa(int(r) - 55))
			continue
		}
		numeral.WriteRune(r)
	}

	return mod97(numeral.String()) == 1
}

// mod97 reduces an arbitrarily long digit string modulo 97 without big integers
func mod97(digits string) int {
	remainder := digits
	for len(remainder) > 2 {
		n := mod97ChunkDigits
		if len(remainder) < n {
			n = len(remainder)
		}
		chunk, _ := strconv.Atoi(remainder[:n])
		remainder = strconv.Itoa(chunk%97) + remainder[n:]
	}
	r, _ := strconv.Atoi(remainder)
	return r % 97
}
