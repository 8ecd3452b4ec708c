// Package wallet bridges an external signer (a host-injected wallet
// object) into a tick-polled application loop.
package wallet

import (
	"context"
	"errors"

	"solana-wallet-client/internal/solana"
)

// ErrProviderUnavailable is returned when the host wallet object or its
// expected methods are missing. Reported, never retried.
var ErrProviderUnavailable = errors.New("wallet provider unavailable")

// Provider is the narrow capability the bridge needs from a host
// wallet. Concrete adapters exist per host environment; the bridge
// depends only on this interface.
type Provider interface {
	// Available reports whether the host wallet object is present.
	Available() bool

	// Connect asks the wallet for the user's address.
	Connect(ctx context.Context) (solana.Address, error)
}
