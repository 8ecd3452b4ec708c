package solana

import (
	"context"
	"encoding/json"
	"errors"
	"sync/atomic"
	"time"

	"github.com/mr-tron/base58"
)

// Well-known RPC endpoints.
const (
	DevnetEndpoint = "https://api.devnet.solana.com"
	LocalEndpoint  = "http://127.0.0.1:8899"
)

// Signer produces a 64-byte ed25519 signature over exact message bytes.
type Signer interface {
	Public() Address
	Sign(message []byte) []byte
}

// SignableTransaction is the capability the client needs from a
// transaction implementation: bind a recent blockhash and sign, and
// serialize to the node's binary wire form.
type SignableTransaction interface {
	Sign(signer Signer, recent Blockhash) error
	Serialize() ([]byte, error)
}

// Observer receives timing for each RPC call. Optional.
type Observer interface {
	ObserveRPC(method string, elapsed time.Duration, err error)
}

// Client is the operation façade over one RPC endpoint. Operations build
// a method name and parameters, push them through the injected Transport,
// and decode the result into typed values. The client keeps no mutable
// state beyond the request counter, so calls may be issued concurrently;
// it never retries, deduplicates, or times out on its own.
type Client struct {
	endpoint  string
	transport Transport
	observer  Observer
	requestID atomic.Uint64
}

// ClientOption configures a Client.
type ClientOption func(*Client)

// WithTransport swaps the transport implementation. This is the seam
// that lets the same operation logic run over native HTTP, browser
// fetch, or a canned test transport.
func WithTransport(t Transport) ClientOption {
	return func(c *Client) {
		c.transport = t
	}
}

// WithObserver attaches an RPC call observer.
func WithObserver(o Observer) ClientOption {
	return func(c *Client) {
		c.observer = o
	}
}

// NewClient creates a client for the given endpoint. The default
// transport is HTTP.
func NewClient(endpoint string, opts ...ClientOption) *Client {
	c := &Client{
		endpoint:  endpoint,
		transport: NewHTTPTransport(nil),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Endpoint returns the endpoint the client posts to.
func (c *Client) Endpoint() string {
	return c.endpoint
}

// call performs one JSON-RPC round trip and returns the raw result.
func (c *Client) call(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	body, err := buildRequest(method, c.requestID.Add(1), params)
	if err != nil {
		return nil, err
	}

	start := time.Now()
	respBody, err := c.transport.Send(ctx, c.endpoint, body)
	var raw json.RawMessage
	if err == nil {
		raw, err = parseResponse(respBody)
	}
	if c.observer != nil {
		c.observer.ObserveRPC(method, time.Since(start), err)
	}
	return raw, err
}

// callValue performs a round trip for methods whose result nests the
// payload in a {value: T} wrapper.
func (c *Client) callValue(ctx context.Context, method string, params []any) (json.RawMessage, error) {
	raw, err := c.call(ctx, method, params)
	if err != nil {
		return nil, err
	}
	return unwrapValue(raw)
}

// GetBalance returns the lamport balance of an address.
func (c *Client) GetBalance(ctx context.Context, addr Address) (uint64, error) {
	value, err := c.callValue(ctx, "getBalance", []any{addr.String()})
	if err != nil {
		if errors.Is(err, errNullValue) {
			return 0, &DecodeError{Field: "balance", Err: errNullValue}
		}
		return 0, err
	}

	var lamports uint64
	if err := json.Unmarshal(value, &lamports); err != nil {
		return 0, &DecodeError{Field: "balance", Err: err}
	}
	return lamports, nil
}

// GetAccount fetches an account with base64-encoded data. An explicit
// null value from the node becomes ErrAccountNotFound, which is an
// expected outcome distinct from transport, protocol, and decode
// failures.
func (c *Client) GetAccount(ctx context.Context, addr Address) (*Account, error) {
	params := []any{addr.String(), map[string]string{"encoding": "base64"}}
	value, err := c.callValue(ctx, "getAccountInfo", params)
	if err != nil {
		if errors.Is(err, errNullValue) {
			return nil, ErrAccountNotFound
		}
		return nil, err
	}

	var wire accountInfoWire
	if err := json.Unmarshal(value, &wire); err != nil {
		return nil, &DecodeError{Field: "account", Err: err}
	}

	acct, err := wire.decode()
	if err != nil {
		return nil, err
	}
	return &acct, nil
}

// GetLatestBlockhash fetches a blockhash at finalized commitment.
// Finalized is deliberate: a weaker commitment can be invalidated by a
// fork after signing, leaving the transaction silently unincluded.
func (c *Client) GetLatestBlockhash(ctx context.Context) (BlockhashInfo, error) {
	params := []any{map[string]string{"commitment": "finalized"}}
	value, err := c.callValue(ctx, "getLatestBlockhash", params)
	if err != nil {
		if errors.Is(err, errNullValue) {
			return BlockhashInfo{}, &DecodeError{Field: "blockhash", Err: errNullValue}
		}
		return BlockhashInfo{}, err
	}

	var wire blockhashWire
	if err := json.Unmarshal(value, &wire); err != nil {
		return BlockhashInfo{}, &DecodeError{Field: "blockhash", Err: err}
	}
	return wire.decode()
}

// SignTransaction fetches a fresh blockhash and signs the transaction
// against it. The round trip is intentional: the blockhash must be fresh
// relative to send time, so callers should send promptly after signing.
func (c *Client) SignTransaction(ctx context.Context, tx SignableTransaction, signer Signer) error {
	recent, err := c.GetLatestBlockhash(ctx)
	if err != nil {
		return err
	}
	return tx.Sign(signer, recent.Blockhash)
}

// SendTransaction serializes the signed transaction to base58 and
// submits it, returning the node's echoed transaction signature. It does
// not wait for confirmation; see PubSubClient.SubscribeSignature.
func (c *Client) SendTransaction(ctx context.Context, tx SignableTransaction) (string, error) {
	wire, err := tx.Serialize()
	if err != nil {
		return "", err
	}

	raw, err := c.call(ctx, "sendTransaction", []any{base58.Encode(wire)})
	if err != nil {
		return "", err
	}

	var signature string
	if err := json.Unmarshal(raw, &signature); err != nil {
		return "", &DecodeError{Field: "transaction signature", Err: err}
	}
	return signature, nil
}

// GetProgramAccounts returns every account owned by a program, with
// base64-encoded data. The node answers with the full set in one
// response; result size is bounded only by the node.
func (c *Client) GetProgramAccounts(ctx context.Context, program Address) ([]ProgramAccount, error) {
	params := []any{program.String(), map[string]string{"encoding": "base64"}}
	raw, err := c.call(ctx, "getProgramAccounts", params)
	if err != nil {
		return nil, err
	}
	return decodeProgramAccounts(raw)
}
