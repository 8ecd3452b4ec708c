package solana

import (
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
)

const jsonrpcVersion = "2.0"

// rpcRequest is a JSON-RPC 2.0 request envelope.
type rpcRequest struct {
	JSONRPC string `json:"jsonrpc"`
	ID      uint64 `json:"id"`
	Method  string `json:"method"`
	Params  []any  `json:"params,omitempty"`
}

// rpcResponse is a JSON-RPC 2.0 response envelope. Result stays raw until
// the caller picks a typed decode for the method.
type rpcResponse struct {
	JSONRPC string          `json:"jsonrpc"`
	ID      uint64          `json:"id"`
	Result  json.RawMessage `json:"result,omitempty"`
	Error   *RPCError       `json:"error,omitempty"`
}

// valueEnvelope is the {context, value} wrapper several methods nest
// their result in (getBalance, getAccountInfo, getLatestBlockhash).
// Which methods wrap and which don't is fixed upstream; both decode
// paths exist on purpose.
type valueEnvelope struct {
	Value json.RawMessage `json:"value"`
}

// errNullValue marks a {value: null} result. GetAccount maps it to
// ErrAccountNotFound; for every other method a null value is unexpected.
var errNullValue = errors.New("null value in rpc result")

// buildRequest serializes a request envelope.
func buildRequest(method string, id uint64, params []any) ([]byte, error) {
	body, err := json.Marshal(rpcRequest{
		JSONRPC: jsonrpcVersion,
		ID:      id,
		Method:  method,
		Params:  params,
	})
	if err != nil {
		return nil, fmt.Errorf("marshal request: %w", err)
	}
	return body, nil
}

// parseResponse unwraps a response envelope and returns the raw result.
// A non-null error field wins even when a result is also present; a
// response carrying neither is ErrMalformedEnvelope. A body that is not
// a JSON envelope at all is a transport-level failure.
func parseResponse(body []byte) (json.RawMessage, error) {
	var resp rpcResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return nil, &TransportError{Op: "parse response body", Err: err}
	}

	if resp.Error != nil {
		return nil, resp.Error
	}

	if isJSONNull(resp.Result) {
		return nil, ErrMalformedEnvelope
	}

	return resp.Result, nil
}

// unwrapValue peels the {value: T} layer off a wrapped result.
func unwrapValue(raw json.RawMessage) (json.RawMessage, error) {
	var env valueEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return nil, &DecodeError{Field: "result.value", Err: err}
	}
	if isJSONNull(env.Value) {
		return nil, errNullValue
	}
	return env.Value, nil
}

func isJSONNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
