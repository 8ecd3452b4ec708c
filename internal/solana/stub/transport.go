// Package stub provides a canned-response Transport for testing code
// against the RPC client without a node.
package stub

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"solana-wallet-client/internal/solana"
)

// Request is one recorded call through the stub.
type Request struct {
	Method string
	Params json.RawMessage
	Body   []byte
}

// Transport implements solana.Transport with canned responses keyed by
// method name.
type Transport struct {
	mu        sync.Mutex
	responses map[string][]byte
	failures  map[string]error
	requests  []Request
}

var _ solana.Transport = (*Transport)(nil)

// NewTransport creates an empty stub transport.
func NewTransport() *Transport {
	return &Transport{
		responses: make(map[string][]byte),
		failures:  make(map[string]error),
	}
}

// AddResult registers a successful envelope whose result field is the
// JSON encoding of result.
func (t *Transport) AddResult(method string, result any) {
	raw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"result":  result,
	})
	if err != nil {
		panic(err)
	}
	t.AddRawResponse(method, raw)
}

// AddRPCError registers an error envelope for a method.
func (t *Transport) AddRPCError(method string, code int, message string) {
	raw, err := json.Marshal(map[string]any{
		"jsonrpc": "2.0",
		"id":      1,
		"error":   map[string]any{"code": code, "message": message},
	})
	if err != nil {
		panic(err)
	}
	t.AddRawResponse(method, raw)
}

// AddRawResponse registers a verbatim response body for a method.
func (t *Transport) AddRawResponse(method string, body []byte) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.responses[method] = body
}

// FailWith makes calls to a method fail at the transport level.
func (t *Transport) FailWith(method string, err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.failures[method] = err
}

// Requests returns every recorded request in call order.
func (t *Transport) Requests() []Request {
	t.mu.Lock()
	defer t.mu.Unlock()
	out := make([]Request, len(t.requests))
	copy(out, t.requests)
	return out
}

// Send records the request and returns the canned response for its
// method.
func (t *Transport) Send(_ context.Context, _ string, body []byte) ([]byte, error) {
	var req struct {
		Method string          `json:"method"`
		Params json.RawMessage `json:"params"`
	}
	if err := json.Unmarshal(body, &req); err != nil {
		return nil, &solana.TransportError{Op: "stub decode request", Err: err}
	}

	t.mu.Lock()
	t.requests = append(t.requests, Request{Method: req.Method, Params: req.Params, Body: body})
	failure := t.failures[req.Method]
	resp, ok := t.responses[req.Method]
	t.mu.Unlock()

	if failure != nil {
		return nil, &solana.TransportError{Op: "stub send", Err: failure}
	}
	if !ok {
		return nil, &solana.TransportError{
			Op:  "stub send",
			Err: fmt.Errorf("no canned response for method %q", req.Method),
		}
	}
	return resp, nil
}
