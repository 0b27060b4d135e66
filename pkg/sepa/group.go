package sepa

// Grouping derives the batch key for an accepted transaction. Transactions
// with equal keys share one payment information block. The function must be
// pure so batch identifiers stay stable across calls.
type Grouping func(tx Transaction) string

// GroupByAttributes batches transactions that share the execution-relevant
// attributes of their kind: requested date, batch booking and service level
// for credit transfers; requested date, local instrument, sequence type and
// batch booking for direct debits.
func GroupByAttributes(tx Transaction) string {
	return tx.attributeKey()
}

// txGroup is one discovered batch. Transactions keep insertion order; groups
// keep first-seen order in message.groups.
type txGroup struct {
	key          string
	transactions []Transaction
}
