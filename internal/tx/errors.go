package tx

import (
	"context"
	"errors"
	"strings"

	"solana-token-forge/internal/domain"
)

// ErrorKind classes a builder error for metrics and presentation.
type ErrorKind string

const (
	ErrorNone       ErrorKind = ""
	ErrorValidation ErrorKind = "validation"
	ErrorUpload     ErrorKind = "upload"
	ErrorSigning    ErrorKind = "signing"
	ErrorLedger     ErrorKind = "ledger"
	ErrorCancelled  ErrorKind = "cancelled"
	ErrorInternal   ErrorKind = "internal"
)

// Classify returns the error class of err.
func Classify(err error) ErrorKind {
	switch {
	case err == nil:
		return ErrorNone
	case errors.Is(err, domain.ErrValidation):
		return ErrorValidation
	case errors.Is(err, domain.ErrUpload):
		return ErrorUpload
	case errors.Is(err, domain.ErrSigning):
		return ErrorSigning
	case errors.Is(err, domain.ErrLedger):
		return ErrorLedger
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return ErrorCancelled
	default:
		return ErrorInternal
	}
}

// Message renders err for an end user. Signing cancellations read as a
// cancellation rather than a failure.
func Message(err error) string {
	switch Classify(err) {
	case ErrorNone:
		return ""
	case ErrorSigning:
		return "Transaction was cancelled in the wallet."
	case ErrorValidation:
		return detail(err, domain.ErrValidation)
	case ErrorUpload:
		return "Metadata upload failed: " + detail(err, domain.ErrUpload)
	case ErrorLedger:
		return "Transaction failed: " + detail(err, domain.ErrLedger)
	case ErrorCancelled:
		return "Request was cancelled."
	default:
		return "Unexpected error: " + err.Error()
	}
}

// detail strips the sentinel prefix added by %w wrapping.
func detail(err, sentinel error) string {
	msg := err.Error()
	if rest, ok := strings.CutPrefix(msg, sentinel.Error()+": "); ok {
		return rest
	}
	return msg
}
