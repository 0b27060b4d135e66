package sepa

import (
	"time"

	"github.com/shopspring/decimal"
)

// earliestExecutionDate is the conventional sentinel banks read as "execute as
// soon as possible". Transactions without an explicit requested date carry it
// and are exempt from the past-date check.
var earliestExecutionDate = time.Date(1999, time.January, 1, 0, 0, 0, 0, time.UTC)

// Transaction is the contract shared by all payment instruction kinds. The
// unexported method keeps the variant set closed to this package.
type Transaction interface {
	// Reference is the end-to-end identifier, unique within a message.
	Reference() string
	Amount() decimal.Decimal
	Currency() string
	RequestedDate() time.Time
	BatchBooking() bool

	// Validate checks the instruction fields and returns every failure found.
	Validate() ValidationResult

	// SchemaCompatible reports whether this instruction is allowed under the
	// given schema revision.
	SchemaCompatible(schema Schema) bool

	// attributeKey is the grouping key used by GroupByAttributes.
	attributeKey() string
}

// instructionFields holds the attributes common to every transaction kind:
// the counterparty account, the instructed amount and the execution window.
type instructionFields struct {
	name                  string
	iban                  string
	bic                   string
	amount                decimal.Decimal
	currency              string
	instruction           string
	reference             string
	remittanceInformation string
	requestedDate         time.Time
	batchBooking          bool
	createdAt             time.Time
}

func newInstructionFields(
	name, iban, bic string,
	amount decimal.Decimal,
	currency, instruction, reference, remittanceInformation string,
	requestedDate time.Time,
	batchBooking *bool,
	createdAt time.Time,
) instructionFields {
	if requestedDate.IsZero() {
		requestedDate = earliestExecutionDate
	}
	booking := true
	if batchBooking != nil {
		booking = *batchBooking
	}
	return instructionFields{
		name:                  sanitizeText(name),
		iban:                  iban,
		bic:                   bic,
		amount:                roundAmount(amount),
		currency:              currency,
		instruction:           sanitizeText(instruction),
		reference:             sanitizeText(reference),
		remittanceInformation: sanitizeText(remittanceInformation),
		requestedDate:         requestedDate,
		batchBooking:          booking,
		createdAt:             createdAt,
	}
}

func (f instructionFields) Name() string                  { return f.name }
func (f instructionFields) IBAN() string                  { return f.iban }
func (f instructionFields) BIC() string                   { return f.bic }
func (f instructionFields) Amount() decimal.Decimal       { return f.amount }
func (f instructionFields) Currency() string              { return f.currency }
func (f instructionFields) Instruction() string           { return f.instruction }
func (f instructionFields) Reference() string             { return f.reference }
func (f instructionFields) RemittanceInformation() string { return f.remittanceInformation }
func (f instructionFields) RequestedDate() time.Time      { return f.requestedDate }
func (f instructionFields) BatchBooking() bool            { return f.batchBooking }

// endToEndID is the value rendered as EndToEndId.
func (f instructionFields) endToEndID() string {
	if f.reference == "" {
		return "NOTPROVIDED"
	}
	return f.reference
}

func (f instructionFields) validateCommon(r *ValidationResult) {
	if !lengthBetween(f.name, 1, 70) {
		r.add("name", "must be 1 to 70 characters long")
	}
	if !validIBAN(f.iban) {
		r.add("iban", "is invalid")
	}
	if f.bic != "" && !validBIC(f.bic) {
		r.add("bic", "is invalid")
	}
	if !f.amount.IsPositive() {
		r.add("amount", "must be greater than 0")
	}
	if len(f.currency) != 3 {
		r.add("currency", "must be 3 characters long")
	}
	if f.instruction != "" && !lengthBetween(f.instruction, 1, 35) {
		r.add("instruction", "must be at most 35 characters long")
	}
	if f.reference != "" && !lengthBetween(f.reference, 1, 35) {
		r.add("reference", "must be at most 35 characters long")
	}
	if f.remittanceInformation != "" && !lengthBetween(f.remittanceInformation, 1, 140) {
		r.add("remittance_information", "must be at most 140 characters long")
	}
	if f.requestedDate.IsZero() {
		r.add("requested_date", "is required")
	}
}

// validateRequestedDateAfter checks the execution window lower bound. The
// sentinel date is exempt.
func (f instructionFields) validateRequestedDateAfter(min time.Time, r *ValidationResult) {
	if f.requestedDate.Equal(earliestExecutionDate) {
		return
	}
	if truncateToDay(f.requestedDate).Before(truncateToDay(min)) {
		r.add("requested_date", "must not be in the past")
	}
}

func truncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}
