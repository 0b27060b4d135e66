package sepa

// Schema identifies an ISO 20022 payment initiation schema revision.
type Schema string

const (
	// Direct debit initiation (pain.008)
	Pain00800102 Schema = "pain.008.001.02"
	Pain00800202 Schema = "pain.008.002.02"
	Pain00800302 Schema = "pain.008.003.02"

	// Credit transfer initiation (pain.001)
	Pain00100103 Schema = "pain.001.001.03"
	Pain00100203 Schema = "pain.001.002.03"
	Pain00100303 Schema = "pain.001.003.03"

	// Swiss national variant of pain.001.001.03
	Pain00100103CH02 Schema = "pain.001.001.03.ch.02"
)

// KnownSchemas lists every schema identifier this package can render.
var KnownSchemas = []Schema{
	Pain00800102,
	Pain00800202,
	Pain00800302,
	Pain00100103,
	Pain00100203,
	Pain00100303,
	Pain00100103CH02,
}

const (
	isoNamespacePrefix = "urn:iso:std:iso:20022:tech:xsd:"
	sixNamespace       = "http://www.six-interbank-clearing.com/de/pain.001.001.03.ch.02.xsd"
)

// schemaInfo is one row of the static compatibility table. requiresBIC marks
// schema revisions that demand a BIC on the originating account.
type schemaInfo struct {
	requiresBIC    bool
	namespace      string
	schemaLocation string
}

var schemaTable = map[Schema]schemaInfo{
	Pain00800102: {requiresBIC: false},
	Pain00800202: {requiresBIC: true},
	Pain00800302: {requiresBIC: false},
	Pain00100103: {requiresBIC: true},
	Pain00100203: {requiresBIC: true},
	Pain00100303: {requiresBIC: false},
	Pain00100103CH02: {
		requiresBIC: true,
		// The Swiss variant does not derive its namespace from the identifier.
		namespace:      sixNamespace,
		schemaLocation: sixNamespace + "  pain.001.001.03.ch.02.xsd",
	},
}

// Known reports whether s is one of the enumerated schema identifiers.
func (s Schema) Known() bool {
	_, ok := schemaTable[s]
	return ok
}

func (s Schema) String() string { return string(s) }

// Namespace returns the default XML namespace for documents of this schema.
func (s Schema) Namespace() string {
	if info, ok := schemaTable[s]; ok && info.namespace != "" {
		return info.namespace
	}
	return isoNamespacePrefix + string(s)
}

// SchemaLocation returns the xsi:schemaLocation attribute value for this schema.
func (s Schema) SchemaLocation() string {
	if info, ok := schemaTable[s]; ok && info.schemaLocation != "" {
		return info.schemaLocation
	}
	return s.Namespace() + " " + string(s) + ".xsd"
}

func (s Schema) requiresBIC() bool {
	return schemaTable[s].requiresBIC
}
