package sepa_test

import (
	"encoding/xml"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/amoniacou/sepa-king/pkg/sepa"
)

func directDebitTx(reference, amount string) sepa.DirectDebitConfig {
	return sepa.DirectDebitConfig{
		Name:                   "Zahlemann & Söhne GbR",
		IBAN:                   "DE89370400440532013000",
		BIC:                    "PBNKDEFF370",
		Amount:                 decimal.RequireFromString(amount),
		Currency:               "EUR",
		Reference:              reference,
		RequestedDate:          testClock().AddDate(0, 0, 2),
		MandateID:              "K-02-2026-42123",
		MandateDateOfSignature: testClock().AddDate(0, -1, 0),
	}
}

func TestDirectDebit_Defaults(t *testing.T) {
	m := sepa.NewDirectDebit(creditorAccount(), fixedOptions()...)
	require.NoError(t, m.AddTransaction(directDebitTx("DD-1", "39.99")))

	tx := m.Transactions()[0].(*sepa.DirectDebitTransaction)
	assert.Equal(t, "CORE", tx.LocalInstrument())
	assert.Equal(t, "OOFF", tx.SequenceType())
	assert.True(t, tx.BatchBooking())
}

func TestDirectDebit_RequiresMandate(t *testing.T) {
	m := sepa.NewDirectDebit(creditorAccount(), fixedOptions()...)
	cfg := directDebitTx("DD-1", "39.99")
	cfg.MandateID = ""
	cfg.MandateDateOfSignature = time.Time{}

	err := m.AddTransaction(cfg)

	var validationErr *sepa.ValidationError
	require.ErrorAs(t, err, &validationErr)
	fields := []string{validationErr.Errors[0].Field, validationErr.Errors[1].Field}
	assert.Equal(t, []string{"mandate_id", "mandate_date_of_signature"}, fields)
	assert.Empty(t, m.Transactions())
}

func TestDirectDebit_RejectsFutureMandateSignature(t *testing.T) {
	m := sepa.NewDirectDebit(creditorAccount(), fixedOptions()...)
	cfg := directDebitTx("DD-1", "39.99")
	cfg.MandateDateOfSignature = testClock().AddDate(0, 0, 1)

	err := m.AddTransaction(cfg)

	var validationErr *sepa.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "mandate_date_of_signature", validationErr.Errors[0].Field)
}

func TestDirectDebit_CollectionNeedsLeadTime(t *testing.T) {
	m := sepa.NewDirectDebit(creditorAccount(), fixedOptions()...)
	cfg := directDebitTx("DD-1", "39.99")
	cfg.RequestedDate = testClock() // same day is too early for a collection

	err := m.AddTransaction(cfg)

	var validationErr *sepa.ValidationError
	require.ErrorAs(t, err, &validationErr)
	assert.Equal(t, "requested_date", validationErr.Errors[0].Field)
}

func TestDirectDebit_SchemaCompatibility(t *testing.T) {
	tests := []struct {
		name       string
		instrument string
		currency   string
		schema     sepa.Schema
		compatible bool
	}{
		{"CORE EUR against 008.001.02", "CORE", "EUR", sepa.Pain00800102, true},
		{"CORE EUR against 008.002.02", "CORE", "EUR", sepa.Pain00800202, true},
		{"COR1 EUR against 008.002.02", "COR1", "EUR", sepa.Pain00800202, false},
		{"COR1 EUR against 008.003.02", "COR1", "EUR", sepa.Pain00800302, true},
		{"CHF against 008.001.02", "CORE", "CHF", sepa.Pain00800102, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := sepa.NewDirectDebit(creditorAccount(), fixedOptions()...)
			cfg := directDebitTx("DD-1", "39.99")
			cfg.LocalInstrument = tt.instrument
			cfg.Currency = tt.currency
			require.NoError(t, m.AddTransaction(cfg))

			ok, err := m.SchemaCompatible(tt.schema)
			require.NoError(t, err)
			assert.Equal(t, tt.compatible, ok)
		})
	}
}

func TestDirectDebit_AccountWithoutBICIncompatibleWith00800202(t *testing.T) {
	account := creditorAccount()
	account.BIC = ""
	m := sepa.NewDirectDebit(account, fixedOptions()...)
	require.NoError(t, m.AddTransaction(directDebitTx("DD-1", "39.99")))

	ok, err := m.SchemaCompatible(sepa.Pain00800202)
	require.NoError(t, err)
	assert.False(t, ok)

	ok, err = m.SchemaCompatible(sepa.Pain00800102)
	require.NoError(t, err)
	assert.True(t, ok)
}

func TestDirectDebit_RenderEndToEnd(t *testing.T) {
	m := sepa.NewDirectDebit(creditorAccount(), fixedOptions()...)
	require.NoError(t, m.AddTransaction(directDebitTx("DD-1", "39.99")))

	out, err := m.ToXML(sepa.Pain00800102)
	require.NoError(t, err)

	var doc struct {
		NbOfTxs string `xml:"CstmrDrctDbtInitn>GrpHdr>NbOfTxs"`
		CtrlSum string `xml:"CstmrDrctDbtInitn>GrpHdr>CtrlSum"`
		InitgID string `xml:"CstmrDrctDbtInitn>GrpHdr>InitgPty>Id>OrgId>Othr>Id"`
		PmtInf  []struct {
			PmtMtd    string `xml:"PmtMtd"`
			LclInstrm string `xml:"PmtTpInf>LclInstrm>Cd"`
			SeqTp     string `xml:"PmtTpInf>SeqTp"`
			SchemeID  string `xml:"CdtrSchmeId>Id>PrvtId>Othr>Id"`
			MandateID string `xml:"DrctDbtTxInf>DrctDbtTx>MndtRltdInf>MndtId"`
		} `xml:"CstmrDrctDbtInitn>PmtInf"`
	}
	require.NoError(t, xml.Unmarshal(out, &doc))

	assert.Equal(t, "1", doc.NbOfTxs)
	assert.Equal(t, "39.99", doc.CtrlSum)
	assert.Equal(t, "DE98ZZZ09999999999", doc.InitgID)
	require.Len(t, doc.PmtInf, 1)
	assert.Equal(t, "DD", doc.PmtInf[0].PmtMtd)
	assert.Equal(t, "CORE", doc.PmtInf[0].LclInstrm)
	assert.Equal(t, "OOFF", doc.PmtInf[0].SeqTp)
	assert.Equal(t, "DE98ZZZ09999999999", doc.PmtInf[0].SchemeID)
	assert.Equal(t, "K-02-2026-42123", doc.PmtInf[0].MandateID)
}

func TestDirectDebit_MandateAmendmentRendered(t *testing.T) {
	m := sepa.NewDirectDebit(creditorAccount(), fixedOptions()...)
	cfg := directDebitTx("DD-1", "39.99")
	cfg.OriginalDebtorAccount = "DE87200500001234567890"
	require.NoError(t, m.AddTransaction(cfg))

	out, err := m.ToXML(sepa.Pain00800102)
	require.NoError(t, err)

	var doc struct {
		AmdmntInd string `xml:"CstmrDrctDbtInitn>PmtInf>DrctDbtTxInf>DrctDbtTx>MndtRltdInf>AmdmntInd"`
		Original  string `xml:"CstmrDrctDbtInitn>PmtInf>DrctDbtTxInf>DrctDbtTx>MndtRltdInf>AmdmntInfDtls>OrgnlDbtrAcct>Id>IBAN"`
	}
	require.NoError(t, xml.Unmarshal(out, &doc))
	assert.Equal(t, "true", doc.AmdmntInd)
	assert.Equal(t, "DE87200500001234567890", doc.Original)
}
