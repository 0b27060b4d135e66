package sepa

// Charge bearer codes allowed on an originating account.
var allowedChargeBearers = map[string]bool{
	"DEBT": true,
	"SHAR": true,
	"SLEV": true,
}

// AccountConfig carries the caller-supplied fields for the originating
// account of a message. CreditorIdentifier is only meaningful for accounts
// in the creditor role (direct debits).
type AccountConfig struct {
	Name               string
	IBAN               string
	BIC                string
	CountryCode        string
	Currency           string
	ChargeBearer       string
	CreditorIdentifier string
}

type accountRole int

const (
	debtorRole accountRole = iota
	creditorRole
)

// Account is the immutable originator of a message. It is constructed by the
// message that owns it and never mutated afterwards.
type Account struct {
	role               accountRole
	name               string
	iban               string
	bic                string
	countryCode        string
	currency           string
	chargeBearer       string
	creditorIdentifier string
}

func newAccount(role accountRole, cfg AccountConfig) Account {
	return Account{
		role:               role,
		name:               sanitizeText(cfg.Name),
		iban:               cfg.IBAN,
		bic:                cfg.BIC,
		countryCode:        cfg.CountryCode,
		currency:           cfg.Currency,
		chargeBearer:       cfg.ChargeBearer,
		creditorIdentifier: cfg.CreditorIdentifier,
	}
}

func (a Account) Name() string        { return a.name }
func (a Account) IBAN() string        { return a.iban }
func (a Account) BIC() string         { return a.bic }
func (a Account) CountryCode() string { return a.countryCode }
func (a Account) Currency() string    { return a.currency }

// ChargeBearer returns the charge bearer code, or the empty string when the
// schema default applies.
func (a Account) ChargeBearer() string { return a.chargeBearer }

// CreditorIdentifier returns the SEPA creditor identifier. Debtor-role
// accounts never expose one.
func (a Account) CreditorIdentifier() string {
	if a.role != creditorRole {
		return ""
	}
	return a.creditorIdentifier
}

// Validate checks the account fields and returns every failure found.
func (a Account) Validate() ValidationResult {
	var r ValidationResult

	if !lengthBetween(a.name, 1, 70) {
		r.add("name", "must be 1 to 70 characters long")
	}
	if !validIBAN(a.iban) {
		r.add("iban", "is invalid")
	}
	if a.bic != "" && !validBIC(a.bic) {
		r.add("bic", "is invalid")
	}
	if a.countryCode == "" {
		r.add("country_code", "is required")
	}
	if a.currency == "" {
		r.add("currency", "is required")
	}
	if a.chargeBearer != "" && !allowedChargeBearers[a.chargeBearer] {
		r.add("charge_bearer", "must be one of DEBT, SHAR, SLEV")
	}
	if a.role == creditorRole {
		if a.creditorIdentifier == "" {
			r.add("creditor_identifier", "is required")
		} else if !validCreditorIdentifier(a.creditorIdentifier) {
			r.add("creditor_identifier", "is invalid")
		}
	}

	return r
}
