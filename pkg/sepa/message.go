package sepa

import (
	"encoding/xml"
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

const dateFormat = "2006-01-02"

var (
	messageIDPattern        = regexp.MustCompile(`^[A-Za-z0-9+?/\-:().,' ]{1,35}$`)
	creationDateTimePattern = regexp.MustCompile(`[0-9]{4}-[0-9]{2}-[0-9]{2}[T ][0-9]{2}:[0-9]{2}:[0-9]{2}`)
)

// SchemaValidator checks a serialized document against the formal definition
// of a schema and returns every violation message.
type SchemaValidator interface {
	Validate(schema Schema, document []byte) (violations []string, err error)
}

// SchemaValidatorFunc adapts a function to the SchemaValidator interface.
type SchemaValidatorFunc func(schema Schema, document []byte) ([]string, error)

func (f SchemaValidatorFunc) Validate(schema Schema, document []byte) ([]string, error) {
	return f(schema, document)
}

// messageFamily is the per-kind configuration of the assembler: the schema
// revisions the family can target (first entry is the default) and the
// document tree builder.
type messageFamily struct {
	schemas       []Schema
	buildDocument func(m *message, schema Schema) any
}

func (f *messageFamily) knows(schema Schema) bool {
	for _, s := range f.schemas {
		if s == schema {
			return true
		}
	}
	return false
}

// Option configures a message at construction time.
type Option func(*message)

// WithIDGenerator injects the generator used for the message identification
// default. Useful for deterministic output under test.
func WithIDGenerator(gen func() string) Option {
	return func(m *message) { m.idGen = gen }
}

// WithClock injects the time source used for creation date-time and
// requested-date validation.
func WithClock(now func() time.Time) Option {
	return func(m *message) { m.nowFn = now }
}

// WithSchemaValidator injects the validator run against the serialized
// document. Without one, rendering skips external schema validation.
func WithSchemaValidator(v SchemaValidator) Option {
	return func(m *message) { m.schemaValidator = v }
}

// WithGrouping overrides the batching policy. The default gives every
// transaction its own payment information block.
func WithGrouping(g Grouping) Option {
	return func(m *message) { m.grouping = g }
}

// message is the assembler core shared by all message families. A message
// owns its account and its transactions; it is not safe for concurrent use.
type message struct {
	account Account
	family  *messageFamily

	groups     []*txGroup
	groupIndex map[string]int
	txCount    int
	references map[string]bool

	messageIdentification string
	creationDateTime      string

	grouping        Grouping
	idGen           func() string
	nowFn           func() time.Time
	schemaValidator SchemaValidator
}

func newMessage(account Account, family *messageFamily, opts ...Option) message {
	m := message{
		account:    account,
		family:     family,
		groupIndex: make(map[string]int),
		references: make(map[string]bool),
		idGen:      defaultMessageID,
		nowFn:      time.Now,
	}
	for _, opt := range opts {
		opt(&m)
	}
	return m
}

// defaultMessageID generates a unique identifier within the 35-character
// budget of MsgId.
func defaultMessageID() string {
	return "SEPA-KING/" + strings.ReplaceAll(uuid.NewString(), "-", "")[:22]
}

// Account returns the message originator.
func (m *message) Account() Account { return m.account }

func (m *message) now() time.Time { return m.nowFn() }

// SetMessageIdentification sets the unique message identifier. It must be
// 1 to 35 characters from the SEPA identifier character set.
func (m *message) SetMessageIdentification(id string) error {
	if !messageIDPattern.MatchString(id) {
		return fmt.Errorf("message identification %q does not match %s", id, messageIDPattern)
	}
	m.messageIdentification = id
	return nil
}

// MessageIdentification returns the message identifier, generating and fixing
// a default on first access.
func (m *message) MessageIdentification() string {
	if m.messageIdentification == "" {
		m.messageIdentification = m.idGen()
	}
	return m.messageIdentification
}

// SetCreationDateTime sets the creation timestamp. It must match
// YYYY-MM-DD[T ]HH:MM:SS; some banks accept nothing looser.
func (m *message) SetCreationDateTime(value string) error {
	if !creationDateTimePattern.MatchString(value) {
		return fmt.Errorf("creation date time %q does not match %s", value, creationDateTimePattern)
	}
	m.creationDateTime = value
	return nil
}

// CreationDateTime returns the creation timestamp, fixing the current time in
// ISO-8601 representation on first access.
func (m *message) CreationDateTime() string {
	if m.creationDateTime == "" {
		m.creationDateTime = m.now().Format(time.RFC3339)
	}
	return m.creationDateTime
}

// add validates the transaction and appends it to its group. Rejected
// transactions leave the message unchanged.
func (m *message) add(tx Transaction) error {
	r := tx.Validate()
	if ref := tx.Reference(); ref != "" && m.references[ref] {
		r.add("reference", "must be unique within the message")
	}
	if err := r.err(); err != nil {
		return err
	}

	key := "#" + strconv.Itoa(m.txCount)
	if m.grouping != nil {
		key = m.grouping(tx)
	}
	idx, ok := m.groupIndex[key]
	if !ok {
		idx = len(m.groups)
		m.groups = append(m.groups, &txGroup{key: key})
		m.groupIndex[key] = idx
	}
	m.groups[idx].transactions = append(m.groups[idx].transactions, tx)
	m.txCount++
	if ref := tx.Reference(); ref != "" {
		m.references[ref] = true
	}
	return nil
}

// Transactions returns every accepted transaction in group discovery order,
// insertion order within each group.
func (m *message) Transactions() []Transaction {
	out := make([]Transaction, 0, m.txCount)
	for _, g := range m.groups {
		out = append(out, g.transactions...)
	}
	return out
}

// AmountTotal sums the given transactions with exact decimal arithmetic.
// Without arguments it sums every transaction in the message.
func (m *message) AmountTotal(subset ...Transaction) decimal.Decimal {
	if len(subset) == 0 {
		subset = m.Transactions()
	}
	return amountTotal(subset)
}

func amountTotal(txs []Transaction) decimal.Decimal {
	sum := decimal.Zero
	for _, tx := range txs {
		sum = sum.Add(tx.Amount())
	}
	return sum
}

// Batches returns the batch identifiers in group discovery order.
func (m *message) Batches() []string {
	ids := make([]string, len(m.groups))
	for i := range m.groups {
		ids[i] = m.batchIdentifier(i)
	}
	return ids
}

// BatchID returns the identifier of the batch containing the transaction with
// the given reference. The second return value is false when no transaction
// has that reference.
func (m *message) BatchID(reference string) (string, bool) {
	for i, g := range m.groups {
		for _, tx := range g.transactions {
			if tx.Reference() == reference {
				return m.batchIdentifier(i), true
			}
		}
	}
	return "", false
}

// batchIdentifier is the unique, consecutive identifier of the i-th group,
// used for the PmtInfId elements.
func (m *message) batchIdentifier(i int) string {
	return m.MessageIdentification() + "/" + strconv.Itoa(i+1)
}

// validate checks that the message is renderable: a valid account and at
// least one transaction.
func (m *message) validate() error {
	var r ValidationResult
	if m.txCount == 0 {
		r.add("transactions", "must contain at least one transaction")
	}
	r.merge("account.", m.account.Validate())
	return r.err()
}

// SchemaCompatible reports whether the message data is allowed under the
// given schema revision. Unknown identifiers are an error, not false.
func (m *message) SchemaCompatible(schema Schema) (bool, error) {
	reason, err := m.incompatibility(schema)
	if err != nil {
		return false, err
	}
	return reason == "", nil
}

// incompatibility returns the first failed requirement, or "" when the
// message is compatible with the schema.
func (m *message) incompatibility(schema Schema) (string, error) {
	if !schema.Known() || !m.family.knows(schema) {
		return "", &UnknownSchemaError{Schema: schema}
	}
	if schema.requiresBIC() && m.account.BIC() == "" {
		return "account requires a BIC", nil
	}
	for _, tx := range m.Transactions() {
		if !tx.SchemaCompatible(schema) {
			return fmt.Sprintf("transaction %q is not allowed", tx.Reference()), nil
		}
	}
	return "", nil
}

// DefaultSchema returns the schema used when ToXML is called with an empty
// identifier.
func (m *message) DefaultSchema() Schema {
	return m.family.schemas[0]
}

// ToXML validates the message, checks schema compatibility, builds the
// document tree and serializes it. When a schema validator is configured the
// output is checked against the formal schema definition before it is
// returned. Rendering is repeatable: the same message renders to identical
// bytes as long as it is not mutated in between.
func (m *message) ToXML(schema Schema) ([]byte, error) {
	if schema == "" {
		schema = m.DefaultSchema()
	}
	if err := m.validate(); err != nil {
		return nil, err
	}
	reason, err := m.incompatibility(schema)
	if err != nil {
		return nil, err
	}
	if reason != "" {
		return nil, &SchemaIncompatibleError{Schema: schema, Reason: reason}
	}

	doc := m.family.buildDocument(m, schema)
	body, err := xml.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal document: %w", err)
	}
	out := append([]byte(xml.Header), body...)
	out = append(out, '\n')

	if m.schemaValidator != nil {
		violations, err := m.schemaValidator.Validate(schema, out)
		if err != nil {
			return nil, fmt.Errorf("schema validation: %w", err)
		}
		if len(violations) > 0 {
			return nil, &SchemaViolationError{Schema: schema, Violations: violations}
		}
	}
	return out, nil
}
