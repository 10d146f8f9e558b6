package validate

import (
	"fmt"
	"regexp"

	"github.com/go-playground/validator/v10"

	"github.com/rezonia/invoice-generator/internal/model"
)

var documentNumberPattern = regexp.MustCompile(`^\d{1,4}/\d{2}$`)

// one instance is safe for concurrent use and caches tag parsing
var fieldValidator = validator.New()

// DocumentNumber reports whether s is 1-4 digits, a slash and 2 digits (e.g. "12/24")
func DocumentNumber(s string) bool {
	return documentNumberPattern.MatchString(s)
}

// Email reports whether s is a well-formed e-mail address
func Email(s string) bool {
	return fieldValidator.Var(s, "required,email") == nil
}

// FormatLocalDate renders d as DD.MM.YYYY. The value is built from the date
// components, so no time zone conversion can shift the day.
func FormatLocalDate(d model.Date) string {
	if d.IsZero() {
		return ""
	}
	return fmt.Sprintf("%02d.%02d.%04d", d.Day, int(d.Month), d.Year)
}

// FormatISODate formats an ISO "YYYY-MM-DD" string as DD.MM.YYYY.
// Input that does not parse is returned unchanged.
func FormatISODate(s string) string {
	if s == "" {
		return ""
	}
	d, err := model.ParseDate(s)
	if err != nil {
		return s
	}
	return FormatLocalDate(d)
}
