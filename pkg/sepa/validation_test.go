package sepa

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
)

func TestSanitizeText_Substitutions(t *testing.T) {
	assert.Equal(t, "50E", sanitizeText("50€"))
	assert.Equal(t, "me(at)example", sanitizeText("me@example"))
	assert.Equal(t, "max-muster", sanitizeText("max_muster"))
	assert.Equal(t, "one two", sanitizeText("one\n\ntwo"))
	assert.Equal(t, "Gläubiger GmbH", sanitizeText("  Gläubiger GmbH  "))
	assert.Equal(t, "abc", sanitizeText("a\"b#c"))
}

func TestRoundAmount(t *testing.T) {
	assert.True(t, decimal.RequireFromString("19.99").Equal(roundAmount(decimal.RequireFromString("19.985"))))
	assert.True(t, decimal.RequireFromString("100").Equal(roundAmount(decimal.RequireFromString("100.001"))))

	// Non-positive amounts pass through for validation to report.
	neg := decimal.RequireFromString("-1.005")
	assert.True(t, neg.Equal(roundAmount(neg)))
}

func TestValidIBAN(t *testing.T) {
	assert.True(t, validIBAN("DE87200500001234567890"))
	assert.True(t, validIBAN("DE89370400440532013000"))
	assert.True(t, validIBAN("CH9300762011623852957"))

	assert.False(t, validIBAN(""))
	assert.False(t, validIBAN("DE88200500001234567890")) // wrong check digits
	assert.False(t, validIBAN("de87200500001234567890"))
	assert.False(t, validIBAN("DE87 2005 0000 1234 5678 90"))
}

func TestValidBIC(t *testing.T) {
	assert.True(t, validBIC("BANKDEFF"))
	assert.True(t, validBIC("BANKDEFFXXX"))
	assert.True(t, validBIC("SPUEDE2UXXX"))

	assert.False(t, validBIC(""))
	assert.False(t, validBIC("BANKDEFFXX"))
	assert.False(t, validBIC("bankdeffxxx"))
}

func TestValidCreditorIdentifier(t *testing.T) {
	assert.True(t, validCreditorIdentifier("DE98ZZZ09999999999"))
	assert.True(t, validCreditorIdentifier("FR12ZZZ123456"))

	assert.False(t, validCreditorIdentifier(""))
	assert.False(t, validCreditorIdentifier("DE98ZZ"))
	assert.False(t, validCreditorIdentifier("98DEZZZ09999999999"))
}

func TestValidationResult_Order(t *testing.T) {
	var r ValidationResult
	assert.True(t, r.Valid())

	r.add("name", "is required")
	r.add("iban", "is invalid")

	assert.False(t, r.Valid())
	assert.Equal(t, []FieldError{
		{Field: "name", Message: "is required"},
		{Field: "iban", Message: "is invalid"},
	}, r.Errors())
}
