//go:build js && wasm

package wallet

import (
	"context"
	"errors"
	"fmt"
	"syscall/js"

	"solana-wallet-client/internal/solana"
)

// PhantomProvider adapts the window.solana object injected by the
// Phantom browser extension to the Provider interface.
type PhantomProvider struct{}

var _ Provider = PhantomProvider{}

// Available reports whether window.solana is present and is Phantom.
func (PhantomProvider) Available() bool {
	sol := js.Global().Get("solana")
	return sol.Type() == js.TypeObject && sol.Get("isPhantom").Truthy()
}

// Connect calls window.solana.connect() and reads the public key off
// the response via its toString method.
func (PhantomProvider) Connect(ctx context.Context) (solana.Address, error) {
	sol := js.Global().Get("solana")
	if sol.Type() != js.TypeObject || !sol.Get("isPhantom").Truthy() {
		return solana.Address{}, ErrProviderUnavailable
	}

	connect := sol.Get("connect")
	if connect.Type() != js.TypeFunction {
		return solana.Address{}, ErrProviderUnavailable
	}

	resp, err := awaitJS(ctx, connect.Invoke())
	if err != nil {
		return solana.Address{}, fmt.Errorf("wallet connect: %w", err)
	}

	pubkey := resp.Get("publicKey")
	if pubkey.Type() != js.TypeObject {
		return solana.Address{}, fmt.Errorf("wallet connect: response has no publicKey")
	}

	return solana.ParseAddress(pubkey.Call("toString").String())
}

// awaitJS blocks until the promise settles or the context is done.
func awaitJS(ctx context.Context, promise js.Value) (js.Value, error) {
	done := make(chan struct{})
	var settled js.Value
	var rejected bool

	onResolve := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			settled = args[0]
		}
		close(done)
		return nil
	})
	defer onResolve.Release()

	onReject := js.FuncOf(func(this js.Value, args []js.Value) any {
		if len(args) > 0 {
			settled = args[0]
		}
		rejected = true
		close(done)
		return nil
	})
	defer onReject.Release()

	promise.Call("then", onResolve, onReject)

	select {
	case <-ctx.Done():
		return js.Value{}, ctx.Err()
	case <-done:
	}

	if rejected {
		return js.Value{}, errors.New(js.Global().Get("String").Invoke(settled).String())
	}
	return settled, nil
}
