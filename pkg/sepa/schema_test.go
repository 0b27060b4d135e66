package sepa_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/amoniacou/sepa-king/pkg/sepa"
)

func TestSchema_KnownCoversAllIdentifiers(t *testing.T) {
	expected := []sepa.Schema{
		"pain.008.001.02",
		"pain.008.002.02",
		"pain.008.003.02",
		"pain.001.001.03",
		"pain.001.002.03",
		"pain.001.003.03",
		"pain.001.001.03.ch.02",
	}

	assert.ElementsMatch(t, expected, sepa.KnownSchemas)
	for _, s := range expected {
		assert.True(t, s.Known(), "schema %s should be known", s)
	}
	assert.False(t, sepa.Schema("pain.001.001.09").Known())
}

func TestSchema_NamespaceDerivedFromIdentifier(t *testing.T) {
	assert.Equal(t,
		"urn:iso:std:iso:20022:tech:xsd:pain.001.001.03",
		sepa.Pain00100103.Namespace())
	assert.Equal(t,
		"urn:iso:std:iso:20022:tech:xsd:pain.001.001.03 pain.001.001.03.xsd",
		sepa.Pain00100103.SchemaLocation())
}

func TestSchema_SwissVariantUsesFixedNamespace(t *testing.T) {
	assert.Equal(t,
		"http://www.six-interbank-clearing.com/de/pain.001.001.03.ch.02.xsd",
		sepa.Pain00100103CH02.Namespace())
	assert.Equal(t,
		"http://www.six-interbank-clearing.com/de/pain.001.001.03.ch.02.xsd  pain.001.001.03.ch.02.xsd",
		sepa.Pain00100103CH02.SchemaLocation())
}
