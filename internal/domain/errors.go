package domain

import "errors"

// Failure classes surfaced to the presentation layer. Every error returned by
// the builders wraps exactly one of these.
var (
	// ErrValidation is returned for malformed or incomplete requests and
	// missing configuration. Nothing has been uploaded or submitted.
	ErrValidation = errors.New("validation failed")

	// ErrUpload is returned when the metadata upload collaborator fails.
	ErrUpload = errors.New("metadata upload failed")

	// ErrSigning is returned when the wallet declines or the signing prompt
	// is dismissed. It is a cancellation, not a system fault.
	ErrSigning = errors.New("signing cancelled")

	// ErrLedger is returned when the ledger rejects or fails to confirm a
	// transaction.
	ErrLedger = errors.New("ledger rejected transaction")
)
