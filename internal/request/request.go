// Package request maps JSON payment payloads onto sepa messages. It is the
// shared input layer of the CLI and the HTTP daemon.
package request

import (
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/amoniacou/sepa-king/pkg/sepa"
)

const dateFormat = "2006-01-02"

// Document is a complete payment message request.
type Document struct {
	Type                  string        `json:"type"` // "credit_transfer" or "direct_debit"
	Schema                string        `json:"schema,omitempty"`
	MessageIdentification string        `json:"message_identification,omitempty"`
	CreationDateTime      string        `json:"creation_date_time,omitempty"`
	GroupByAttributes     bool          `json:"group_by_attributes,omitempty"`
	Account               Account       `json:"account"`
	Transactions          []Transaction `json:"transactions"`
}

// Account is the originating account of the message.
type Account struct {
	Name               string `json:"name"`
	IBAN               string `json:"iban"`
	BIC                string `json:"bic,omitempty"`
	CountryCode        string `json:"country_code"`
	Currency           string `json:"currency"`
	ChargeBearer       string `json:"charge_bearer,omitempty"`
	CreditorIdentifier string `json:"creditor_identifier,omitempty"`
}

// Transaction is one payment instruction. Variant-specific fields are ignored
// for the other message type.
type Transaction struct {
	Name                  string `json:"name"`
	IBAN                  string `json:"iban"`
	BIC                   string `json:"bic,omitempty"`
	Amount                string `json:"amount"`
	Currency              string `json:"currency"`
	Instruction           string `json:"instruction,omitempty"`
	Reference             string `json:"reference,omitempty"`
	RemittanceInformation string `json:"remittance_information,omitempty"`
	RequestedDate         string `json:"requested_date,omitempty"`
	BatchBooking          *bool  `json:"batch_booking,omitempty"`

	// Credit transfer fields
	ServiceLevel    string `json:"service_level,omitempty"`
	CategoryPurpose string `json:"category_purpose,omitempty"`

	// Direct debit fields
	MandateID                 string `json:"mandate_id,omitempty"`
	MandateDateOfSignature    string `json:"mandate_date_of_signature,omitempty"`
	LocalInstrument           string `json:"local_instrument,omitempty"`
	SequenceType              string `json:"sequence_type,omitempty"`
	OriginalDebtorAccount     string `json:"original_debtor_account,omitempty"`
	SameMandateNewDebtorAgent bool   `json:"same_mandate_new_debtor_agent,omitempty"`
}

// Message is the part of the assembled message the callers need.
type Message interface {
	ToXML(schema sepa.Schema) ([]byte, error)
	MessageIdentification() string
	Batches() []string
}

// Build assembles a sepa message from the document. The returned schema is
// the requested one ("" means the family default).
func Build(d Document, opts ...sepa.Option) (Message, sepa.Schema, error) {
	if d.GroupByAttributes {
		opts = append(opts, sepa.WithGrouping(sepa.GroupByAttributes))
	}

	var msg Message
	switch d.Type {
	case "credit_transfer":
		m := sepa.NewCreditTransfer(accountConfig(d.Account), opts...)
		if err := applyHeader(m, d); err != nil {
			return nil, "", err
		}
		for i, tx := range d.Transactions {
			cfg, err := creditTransferConfig(tx)
			if err != nil {
				return nil, "", fmt.Errorf("transaction %d: %w", i, err)
			}
			if err := m.AddTransaction(cfg); err != nil {
				return nil, "", fmt.Errorf("transaction %d: %w", i, err)
			}
		}
		msg = m
	case "direct_debit":
		m := sepa.NewDirectDebit(accountConfig(d.Account), opts...)
		if err := applyHeader(m, d); err != nil {
			return nil, "", err
		}
		for i, tx := range d.Transactions {
			cfg, err := directDebitConfig(tx)
			if err != nil {
				return nil, "", fmt.Errorf("transaction %d: %w", i, err)
			}
			if err := m.AddTransaction(cfg); err != nil {
				return nil, "", fmt.Errorf("transaction %d: %w", i, err)
			}
		}
		msg = m
	default:
		return nil, "", fmt.Errorf("unknown message type %q", d.Type)
	}

	return msg, sepa.Schema(d.Schema), nil
}

func accountConfig(a Account) sepa.AccountConfig {
	return sepa.AccountConfig{
		Name:               a.Name,
		IBAN:               a.IBAN,
		BIC:                a.BIC,
		CountryCode:        a.CountryCode,
		Currency:           a.Currency,
		ChargeBearer:       a.ChargeBearer,
		CreditorIdentifier: a.CreditorIdentifier,
	}
}

func creditTransferConfig(t Transaction) (sepa.CreditTransferConfig, error) {
	amount, requestedDate, err := parseCommon(t)
	if err != nil {
		return sepa.CreditTransferConfig{}, err
	}
	return sepa.CreditTransferConfig{
		Name:                  t.Name,
		IBAN:                  t.IBAN,
		BIC:                   t.BIC,
		Amount:                amount,
		Currency:              t.Currency,
		Instruction:           t.Instruction,
		Reference:             t.Reference,
		RemittanceInformation: t.RemittanceInformation,
		RequestedDate:         requestedDate,
		BatchBooking:          t.BatchBooking,
		ServiceLevel:          t.ServiceLevel,
		CategoryPurpose:       t.CategoryPurpose,
	}, nil
}

func directDebitConfig(t Transaction) (sepa.DirectDebitConfig, error) {
	amount, requestedDate, err := parseCommon(t)
	if err != nil {
		return sepa.DirectDebitConfig{}, err
	}
	var signature time.Time
	if t.MandateDateOfSignature != "" {
		signature, err = time.Parse(dateFormat, t.MandateDateOfSignature)
		if err != nil {
			return sepa.DirectDebitConfig{}, fmt.Errorf("invalid mandate_date_of_signature: %w", err)
		}
	}
	return sepa.DirectDebitConfig{
		Name:                      t.Name,
		IBAN:                      t.IBAN,
		BIC:                       t.BIC,
		Amount:                    amount,
		Currency:                  t.Currency,
		Instruction:               t.Instruction,
		Reference:                 t.Reference,
		RemittanceInformation:     t.RemittanceInformation,
		RequestedDate:             requestedDate,
		BatchBooking:              t.BatchBooking,
		MandateID:                 t.MandateID,
		MandateDateOfSignature:    signature,
		LocalInstrument:           t.LocalInstrument,
		SequenceType:              t.SequenceType,
		OriginalDebtorAccount:     t.OriginalDebtorAccount,
		SameMandateNewDebtorAgent: t.SameMandateNewDebtorAgent,
	}, nil
}

func parseCommon(t Transaction) (decimal.Decimal, time.Time, error) {
	amount, err := decimal.NewFromString(t.Amount)
	if err != nil {
		return decimal.Decimal{}, time.Time{}, fmt.Errorf("invalid amount %q: %w", t.Amount, err)
	}
	var requestedDate time.Time
	if t.RequestedDate != "" {
		requestedDate, err = time.Parse(dateFormat, t.RequestedDate)
		if err != nil {
			return decimal.Decimal{}, time.Time{}, fmt.Errorf("invalid requested_date: %w", err)
		}
	}
	return amount, requestedDate, nil
}

func applyHeader(m headerSetter, d Document) error {
	if d.MessageIdentification != "" {
		if err := m.SetMessageIdentification(d.MessageIdentification); err != nil {
			return err
		}
	}
	if d.CreationDateTime != "" {
		if err := m.SetCreationDateTime(d.CreationDateTime); err != nil {
			return err
		}
	}
	return nil
}

type headerSetter interface {
	SetMessageIdentification(string) error
	SetCreationDateTime(string) error
}
