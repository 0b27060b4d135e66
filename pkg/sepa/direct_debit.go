package sepa

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

var (
	allowedLocalInstruments = map[string]bool{"CORE": true, "COR1": true, "B2B": true}
	allowedSequenceTypes    = map[string]bool{"FRST": true, "OOFF": true, "RCUR": true, "FNAL": true}
)

// DirectDebitConfig carries the caller-supplied fields for one direct debit
// instruction. Name/IBAN/BIC describe the debtor being charged.
type DirectDebitConfig struct {
	Name                  string
	IBAN                  string
	BIC                   string
	Amount                decimal.Decimal
	Currency              string
	Instruction           string
	Reference             string
	RemittanceInformation string
	RequestedDate         time.Time
	BatchBooking          *bool

	// Mandate data
	MandateID              string
	MandateDateOfSignature time.Time
	LocalInstrument        string // CORE, COR1 or B2B; defaults to CORE
	SequenceType           string // FRST, OOFF, RCUR or FNAL; defaults to OOFF

	// Mandate amendment details
	OriginalDebtorAccount     string
	SameMandateNewDebtorAgent bool
}

// DirectDebitTransaction is a single direct debit instruction with its
// mandate data.
type DirectDebitTransaction struct {
	instructionFields
	mandateID                 string
	mandateDateOfSignature    time.Time
	localInstrument           string
	sequenceType              string
	originalDebtorAccount     string
	sameMandateNewDebtorAgent bool
}

func newDirectDebitTransaction(cfg DirectDebitConfig, createdAt time.Time) *DirectDebitTransaction {
	localInstrument := cfg.LocalInstrument
	if localInstrument == "" {
		localInstrument = "CORE"
	}
	sequenceType := cfg.SequenceType
	if sequenceType == "" {
		sequenceType = "OOFF"
	}
	return &DirectDebitTransaction{
		instructionFields: newInstructionFields(
			cfg.Name, cfg.IBAN, cfg.BIC,
			cfg.Amount,
			cfg.Currency, cfg.Instruction, cfg.Reference, cfg.RemittanceInformation,
			cfg.RequestedDate,
			cfg.BatchBooking,
			createdAt,
		),
		mandateID:                 sanitizeText(cfg.MandateID),
		mandateDateOfSignature:    cfg.MandateDateOfSignature,
		localInstrument:           localInstrument,
		sequenceType:              sequenceType,
		originalDebtorAccount:     cfg.OriginalDebtorAccount,
		sameMandateNewDebtorAgent: cfg.SameMandateNewDebtorAgent,
	}
}

func (t *DirectDebitTransaction) MandateID() string                 { return t.mandateID }
func (t *DirectDebitTransaction) MandateDateOfSignature() time.Time { return t.mandateDateOfSignature }
func (t *DirectDebitTransaction) LocalInstrument() string           { return t.localInstrument }
func (t *DirectDebitTransaction) SequenceType() string              { return t.sequenceType }
func (t *DirectDebitTransaction) OriginalDebtorAccount() string     { return t.originalDebtorAccount }
func (t *DirectDebitTransaction) SameMandateNewDebtorAgent() bool {
	return t.sameMandateNewDebtorAgent
}

func (t *DirectDebitTransaction) Validate() ValidationResult {
	var r ValidationResult
	t.validateCommon(&r)
	if !lengthBetween(t.mandateID, 1, 35) {
		r.add("mandate_id", "must be 1 to 35 characters long")
	}
	if t.mandateDateOfSignature.IsZero() {
		r.add("mandate_date_of_signature", "is required")
	} else if truncateToDay(t.mandateDateOfSignature).After(truncateToDay(t.createdAt)) {
		r.add("mandate_date_of_signature", "must not be in the future")
	}
	if !allowedLocalInstruments[t.localInstrument] {
		r.add("local_instrument", "must be one of CORE, COR1, B2B")
	}
	if !allowedSequenceTypes[t.sequenceType] {
		r.add("sequence_type", "must be one of FRST, OOFF, RCUR, FNAL")
	}
	if t.originalDebtorAccount != "" && !validIBAN(t.originalDebtorAccount) {
		r.add("original_debtor_account", "is invalid")
	}
	// Collections need at least one day of lead time.
	t.validateRequestedDateAfter(t.createdAt.AddDate(0, 0, 1), &r)
	return r
}

func (t *DirectDebitTransaction) SchemaCompatible(schema Schema) bool {
	switch schema {
	case Pain00800102:
		return t.currency == "EUR"
	case Pain00800202:
		return t.localInstrument != "COR1" && t.currency == "EUR"
	case Pain00800302:
		return t.currency == "EUR"
	}
	return false
}

func (t *DirectDebitTransaction) attributeKey() string {
	return fmt.Sprintf("%s|%s|%s|%t",
		t.requestedDate.Format(dateFormat), t.localInstrument, t.sequenceType, t.batchBooking)
}

// DirectDebit assembles a customer direct debit initiation message (pain.008
// family). The creditor account is the originator and must carry a creditor
// identifier.
type DirectDebit struct {
	message
}

// NewDirectDebit creates an empty direct debit message owned by the given
// creditor account.
func NewDirectDebit(creditor AccountConfig, opts ...Option) *DirectDebit {
	m := &DirectDebit{}
	m.message = newMessage(newAccount(creditorRole, creditor), directDebitFamily, opts...)
	return m
}

// AddTransaction validates the instruction and, on success, appends it to the
// appropriate group. On failure the message is left unchanged and the
// returned error is a *ValidationError.
func (m *DirectDebit) AddTransaction(cfg DirectDebitConfig) error {
	return m.add(newDirectDebitTransaction(cfg, m.now()))
}

var directDebitFamily = &messageFamily{
	schemas:       []Schema{Pain00800102, Pain00800202, Pain00800302},
	buildDocument: buildDirectDebitDocument,
}
