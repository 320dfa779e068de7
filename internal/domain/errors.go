package domain

import "errors"

// Error taxonomy for the financial engine. Callers match with errors.Is.
var (
	// ErrNotFound: the order or customer is missing, or the order/customer
	// pair is mismatched. Not retryable.
	ErrNotFound = errors.New("not found")

	// ErrSchemaUnavailable: a required (non-optional) column or table is
	// absent. A configuration error, distinct from data errors.
	ErrSchemaUnavailable = errors.New("schema object unavailable")

	// ErrValidation: malformed amount, status, or identifier. Rejected before
	// any transaction opens.
	ErrValidation = errors.New("validation failed")

	// ErrTxFailure: the unit of work rolled back atomically. Retryable by the
	// caller; the engine never retries on its own.
	ErrTxFailure = errors.New("transaction failed")
)
