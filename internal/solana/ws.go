package solana

import "context"

// SignatureSubscriber pushes a single notification when a signature reaches
// the requested commitment.
type SignatureSubscriber interface {
	// SubscribeSignature returns a channel that receives at most one
	// notification and is then closed. Cancelling ctx drops the subscription.
	SubscribeSignature(ctx context.Context, signature, commitment string) (<-chan SignatureNotification, error)

	// Close closes the WebSocket connection.
	Close() error
}

// SignatureNotification represents a signatureNotification message.
type SignatureNotification struct {
	Signature string
	Slot      int64
	Err       interface{}
}
