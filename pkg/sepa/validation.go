package sepa

import (
	"math/big"
	"regexp"
	"strings"
	"unicode/utf8"

	"github.com/shopspring/decimal"
)

// ValidationResult is the structured outcome of validating an account or a
// transaction: valid/invalid plus the ordered list of field-scoped failures.
type ValidationResult struct {
	errors []FieldError
}

// Valid reports whether no failures were recorded.
func (r ValidationResult) Valid() bool {
	return len(r.errors) == 0
}

// Errors returns the recorded failures in detection order.
func (r ValidationResult) Errors() []FieldError {
	return r.errors
}

func (r *ValidationResult) add(field, message string) {
	r.errors = append(r.errors, FieldError{Field: field, Message: message})
}

func (r *ValidationResult) merge(prefix string, other ValidationResult) {
	for _, fe := range other.errors {
		r.errors = append(r.errors, FieldError{Field: prefix + fe.Field, Message: fe.Message})
	}
}

func (r ValidationResult) err() error {
	if r.Valid() {
		return nil
	}
	return &ValidationError{Errors: r.errors}
}

var (
	ibanPattern = regexp.MustCompile(`^[A-Z]{2}[0-9]{2}[A-Z0-9]{1,30}$`)
	bicPattern  = regexp.MustCompile(`^[A-Z]{6}[A-Z0-9]{2}([A-Z0-9]{3})?$`)
	ciPattern   = regexp.MustCompile(`^[A-Za-z]{2}[0-9]{2}[A-Za-z0-9]{3}[A-Za-z0-9+?/\-:().,']{1,28}$`)
)

var mod97 = big.NewInt(97)

// validIBAN checks the format and the ISO 7064 mod-97-10 check digits.
func validIBAN(iban string) bool {
	if !ibanPattern.MatchString(iban) {
		return false
	}

	rearranged := iban[4:] + iban[:4]
	var sb strings.Builder
	for _, r := range rearranged {
		switch {
		case r >= '0' && r <= '9':
			sb.WriteRune(r)
		case r >= 'A' && r <= 'Z':
			sb.WriteString(big.NewInt(int64(r-'A') + 10).String())
		default:
			return false
		}
	}

	n, ok := new(big.Int).SetString(sb.String(), 10)
	if !ok {
		return false
	}
	return new(big.Int).Mod(n, mod97).Int64() == 1
}

func validBIC(bic string) bool {
	return bicPattern.MatchString(bic)
}

// validCreditorIdentifier checks the SEPA creditor identifier format:
// country code, check digits, business code, national identifier.
func validCreditorIdentifier(ci string) bool {
	return ciPattern.MatchString(ci)
}

var (
	linebreaks   = regexp.MustCompile(`\n+`)
	invalidChars = regexp.MustCompile(`[^a-zA-Z0-9ÄÖÜäöüß&*$%':?,\-(+.)/ ]`)
)

// sanitizeText normalizes free-text fields to the SEPA character set,
// following the EPC "best practices" substitutions.
func sanitizeText(value string) string {
	s := strings.NewReplacer("€", "E", "@", "(at)", "_", "-").Replace(value)
	s = linebreaks.ReplaceAllString(s, " ")
	s = invalidChars.ReplaceAllString(s, "")
	return strings.TrimSpace(s)
}

// roundAmount normalizes a monetary amount to two decimal places. Non-positive
// amounts are left untouched so validation can report them.
func roundAmount(d decimal.Decimal) decimal.Decimal {
	if d.IsPositive() {
		return d.Round(2)
	}
	return d
}

func lengthBetween(value string, min, max int) bool {
	n := utf8.RuneCountInString(value)
	return n >= min && n <= max
}
