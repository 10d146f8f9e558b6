package validate

import (
	"regexp"

	"github.com/rezonia/invoice-generator/internal/model"
)

var (
	businessCodePattern = regexp.MustCompile(`^\d{8}$`)
	individualIDPattern = regexp.MustCompile(`^\d{10}$`)
)

var (
	businessWeights         = []int{1, 2, 3, 4, 5, 6, 7}
	businessFallbackWeights = []int{3, 4, 5, 6, 7, 8, 9}
	individualWeights       = []int{-1, 5, 7, 9, 4, 6, 10, 5, 7}
)

// BusinessCode reports whether s is an 8-digit registration code with a valid control digit
func BusinessCode(s string) bool {
	if !businessCodePattern.MatchString(s) {
		return false
	}
	digits := toDigits(s)

	control := weightedSum(digits, businessWeights) % 11
	if control == 10 {
		control = weightedSum(digits, businessFallbackWeights) % 11
		if control == 10 {
			control = 0
		}
	}

	return control == digits[7]
}

// IndividualTaxID reports whether s is a 10-digit personal tax number with a valid control digit
func IndividualTaxID(s string) bool {
	if !individualIDPattern.MatchString(s) {
		return false
	}
	digits := toDigits(s)

	// The first weight is -1, so IDs starting with 9 and few other non-zero
	// digits (9000000002) have a negative sum. Go's % keeps the sign, and the
	// result is shifted into 0..10. A JavaScript form using plain % disagrees
	// on these inputs.
	control := weightedSum(digits, individualWeights) % 11
	if control < 0 {
		control += 11
	}
	control %= 10

	return control == digits[9]
}

// TaxID classifies s by the checksum scheme it satisfies.
// Lengths differ, so at most one scheme can match.
func TaxID(s string) model.TaxIDKind {
	switch {
	case BusinessCode(s):
		return model.TaxIDBusiness
	case IndividualTaxID(s):
		return model.TaxIDIndividual
	default:
		return model.TaxIDNone
	}
}

func toDigits(s string) []int {
	digits := make([]int, len(s))
	for i := 0; i < len(s); i++ {
		digits[i] = int(s[i] - '0')
	}
	return digits
}

func weightedSum(digits, weights []int) int {
	sum := 0
	for i, w := range weights {
		sum += digits[i] * w
	}
	return sum
}
