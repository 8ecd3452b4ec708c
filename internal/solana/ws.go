package solana

import "context"

// PubSub defines the WebSocket subscription interface used to await
// transaction inclusion after SendTransaction.
type PubSub interface {
	// SubscribeSignature delivers one notification when the signature
	// reaches the given commitment, then closes the channel.
	SubscribeSignature(ctx context.Context, signature string, commitment string) (<-chan SignatureResult, error)

	// Close closes the WebSocket connection.
	Close() error
}

// SignatureResult is a signatureSubscribe notification. Err carries the
// on-chain failure when the transaction landed but did not succeed.
type SignatureResult struct {
	Slot int64
	Err  any
}
