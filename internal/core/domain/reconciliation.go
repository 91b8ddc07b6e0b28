package domain

// ReconciliationFailure records why a single transaction of a batch could
// not be turned into an invoice.
type ReconciliationFailure struct {
	TransactionID string
	Reason        string
}

// ReconciliationSummary aggregates the outcome of a batch reconciliation
// run. Failures are isolated per transaction; one failure never aborts the
// rest of the batch.
type ReconciliationSummary struct {
	Succeeded int
	Failures  []ReconciliationFailure
}
