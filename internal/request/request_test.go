package request_test

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoniacou/sepa-king/internal/request"
)

func tomorrow() string {
	return time.Now().AddDate(0, 0, 1).Format("2006-01-02")
}

func creditTransferJSON() []byte {
	return []byte(fmt.Sprintf(`{
		"type": "credit_transfer",
		"message_identification": "MSG-REQ-1",
		"account": {
			"name": "Schuldner GmbH",
			"iban": "DE87200500001234567890",
			"bic": "BANKDEFFXXX",
			"country_code": "DE",
			"currency": "EUR"
		},
		"transactions": [{
			"name": "Telekomiker AG",
			"iban": "DE89370400440532013000",
			"bic": "PBNKDEFF370",
			"amount": "100.00",
			"currency": "EUR",
			"reference": "REF1",
			"requested_date": %q
		}]
	}`, tomorrow()))
}

func TestBuild_CreditTransfer(t *testing.T) {
	var doc request.Document
	require.NoError(t, json.Unmarshal(creditTransferJSON(), &doc))

	msg, schema, err := request.Build(doc)
	require.NoError(t, err)
	assert.Equal(t, "MSG-REQ-1", msg.MessageIdentification())
	assert.Empty(t, schema)

	out, err := msg.ToXML(schema)
	require.NoError(t, err)
	assert.Contains(t, string(out), "urn:iso:std:iso:20022:tech:xsd:pain.001.001.03")
	assert.Contains(t, string(out), "<EndToEndId>REF1</EndToEndId>")
}

func TestBuild_DirectDebit(t *testing.T) {
	doc := request.Document{
		Type: "direct_debit",
		Account: request.Account{
			Name:               "Cred GmbH",
			IBAN:               "DE87200500001234567890",
			BIC:                "BANKDEFFXXX",
			CountryCode:        "DE",
			Currency:           "EUR",
			CreditorIdentifier: "DE98ZZZ09999999999",
		},
		Transactions: []request.Transaction{{
			Name:                   "Zahlemann & Söhne GbR",
			IBAN:                   "DE89370400440532013000",
			BIC:                    "PBNKDEFF370",
			Amount:                 "39.99",
			Currency:               "EUR",
			Reference:              "DD-1",
			RequestedDate:          time.Now().AddDate(0, 0, 2).Format("2006-01-02"),
			MandateID:              "K-1",
			MandateDateOfSignature: "2026-01-15",
		}},
	}

	msg, _, err := request.Build(doc)
	require.NoError(t, err)

	out, err := msg.ToXML("")
	require.NoError(t, err)
	assert.Contains(t, string(out), "<CstmrDrctDbtInitn>")
	assert.Contains(t, string(out), "<MndtId>K-1</MndtId>")
}

func TestBuild_UnknownType(t *testing.T) {
	_, _, err := request.Build(request.Document{Type: "cheque"})

	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown message type")
}

func TestBuild_BadAmount(t *testing.T) {
	var doc request.Document
	require.NoError(t, json.Unmarshal(creditTransferJSON(), &doc))
	doc.Transactions[0].Amount = "one hundred"

	_, _, err := request.Build(doc)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid amount")
}

func TestBuild_InvalidTransactionReported(t *testing.T) {
	var doc request.Document
	require.NoError(t, json.Unmarshal(creditTransferJSON(), &doc))
	doc.Transactions[0].Amount = "-5.00"

	_, _, err := request.Build(doc)

	require.Error(t, err)
	assert.Contains(t, err.Error(), "amount")
}
