// Package sepa assembles SEPA credit transfer (pain.001) and direct debit
// (pain.008) initiation messages as ISO 20022 XML documents.
//
// A message owns one originating account and any number of validated payment
// instructions. Instructions are partitioned into payment information blocks
// by a configurable grouping policy, and rendering enforces the compatibility
// matrix between schema revisions, account attributes and per-transaction
// attributes before the document is serialized and, optionally, checked
// against its XSD definition.
//
// Messages are not safe for concurrent use; independent messages may be built
// and rendered in parallel.
package sepa
