package sepa

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"
)

// Service level codes allowed on a credit transfer.
var allowedServiceLevels = map[string]bool{
	"SEPA": true,
	"URGP": true,
}

// CreditTransferConfig carries the caller-supplied fields for one credit
// transfer instruction. Name/IBAN/BIC describe the creditor receiving the
// funds.
type CreditTransferConfig struct {
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
	ServiceLevel          string
	CategoryPurpose       string
}

// CreditTransferTransaction is a single credit transfer instruction.
type CreditTransferTransaction struct {
	instructionFields
	serviceLevel    string
	categoryPurpose string
}

func newCreditTransferTransaction(cfg CreditTransferConfig, createdAt time.Time) *CreditTransferTransaction {
	serviceLevel := cfg.ServiceLevel
	if serviceLevel == "" && cfg.Currency == "EUR" {
		serviceLevel = "SEPA"
	}
	return &CreditTransferTransaction{
		instructionFields: newInstructionFields(
			cfg.Name, cfg.IBAN, cfg.BIC,
			cfg.Amount,
			cfg.Currency, cfg.Instruction, cfg.Reference, cfg.RemittanceInformation,
			cfg.RequestedDate,
			cfg.BatchBooking,
			createdAt,
		),
		serviceLevel:    serviceLevel,
		categoryPurpose: cfg.CategoryPurpose,
	}
}

func (t *CreditTransferTransaction) ServiceLevel() string    { return t.serviceLevel }
func (t *CreditTransferTransaction) CategoryPurpose() string { return t.categoryPurpose }

func (t *CreditTransferTransaction) Validate() ValidationResult {
	var r ValidationResult
	t.validateCommon(&r)
	if t.serviceLevel != "" && !allowedServiceLevels[t.serviceLevel] {
		r.add("service_level", "must be one of SEPA, URGP")
	}
	if t.categoryPurpose != "" && !lengthBetween(t.categoryPurpose, 1, 4) {
		r.add("category_purpose", "must be 1 to 4 characters long")
	}
	t.validateRequestedDateAfter(t.createdAt, &r)
	return r
}

func (t *CreditTransferTransaction) SchemaCompatible(schema Schema) bool {
	switch schema {
	case Pain00100103:
		return t.serviceLevel == "" || (t.serviceLevel == "SEPA" && t.currency == "EUR")
	case Pain00100203:
		return t.bic != "" && t.serviceLevel == "SEPA" && t.currency == "EUR"
	case Pain00100303:
		return t.currency == "EUR"
	case Pain00100103CH02:
		return t.currency == "CHF"
	}
	return false
}

func (t *CreditTransferTransaction) attributeKey() string {
	return fmt.Sprintf("%s|%t|%s|%s",
		t.requestedDate.Format(dateFormat), t.batchBooking, t.serviceLevel, t.categoryPurpose)
}

// CreditTransfer assembles a customer credit transfer initiation message
// (pain.001 family). The debtor account is the originator.
type CreditTransfer struct {
	message
}

// NewCreditTransfer creates an empty credit transfer message owned by the
// given debtor account.
func NewCreditTransfer(debtor AccountConfig, opts ...Option) *CreditTransfer {
	m := &CreditTransfer{}
	m.message = newMessage(newAccount(debtorRole, debtor), creditTransferFamily, opts...)
	return m
}

// AddTransaction validates the instruction and, on success, appends it to the
// appropriate group. On failure the message is left unchanged and the
// returned error is a *ValidationError.
func (m *CreditTransfer) AddTransaction(cfg CreditTransferConfig) error {
	return m.add(newCreditTransferTransaction(cfg, m.now()))
}

var creditTransferFamily = &messageFamily{
	schemas:       []Schema{Pain00100103, Pain00100203, Pain00100303, Pain00100103CH02},
	buildDocument: buildCreditTransferDocument,
}
