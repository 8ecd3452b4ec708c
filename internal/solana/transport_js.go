//go:build js && wasm

package solana

import (
	"context"
	"errors"
	"syscall/js"
)

// FetchTransport performs JSON-RPC through the browser fetch API. It is
// the in-page counterpart of HTTPTransport for binaries compiled to
// WebAssembly; the operation logic in Client is identical for both.
type FetchTransport struct{}

// NewFetchTransport creates a fetch-backed transport.
func NewFetchTransport() *FetchTransport {
	return &FetchTransport{}
}

// Send posts the request body via fetch and returns the response text.
func (t *FetchTransport) Send(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	fetch := js.Global().Get("fetch")
	if fetch.IsUndefined() {
		return nil, &TransportError{Op: "fetch", Err: errors.New("fetch API unavailable")}
	}

	headers := js.Global().Get("Object").New()
	headers.Set("Content-Type", "application/json")

	opts := js.Global().Get("Object").New()
	opts.Set("method", "POST")
	opts.Set("headers", headers)
	opts.Set("body", string(body))

	resp, err := awaitPromise(ctx, fetch.Invoke(endpoint, opts))
	if err != nil {
		return nil, &TransportError{Op: "fetch", Err: err}
	}

	text, err := awaitPromise(ctx, resp.Call("text"))
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}

	return []byte(text.String()), nil
}

// awaitPromise blocks until the promise settles or the context is done.
// Must be called from a goroutine other than the JS event loop's.
func awaitPromise(ctx context.Context, promise js.Value) (js.Value, error) {
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
