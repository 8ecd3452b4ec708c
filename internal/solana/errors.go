package solana

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Sentinel errors returned by the client.
var (
	// ErrAccountNotFound is returned when the node explicitly reports a
	// null account. This is an expected outcome, not a decode failure.
	ErrAccountNotFound = errors.New("account not found")

	// ErrMalformedEnvelope is returned when a response carries neither a
	// result nor an error field. It signals a node incompatibility, not a
	// condition worth retrying.
	ErrMalformedEnvelope = errors.New("malformed rpc envelope: no result and no error")

	// ErrInvalidBlockhash is returned when a blockhash does not decode to
	// exactly 32 bytes.
	ErrInvalidBlockhash = errors.New("blockhash must decode to 32 bytes")
)

// TransportError wraps a failure below the JSON-RPC protocol layer: the
// network was unreachable, the body was unreadable, or the HTTP status
// was unexpected. Callers may choose to retry these; the client never does.
type TransportError struct {
	Op  string
	Err error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("transport: %s: %v", e.Op, e.Err)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// RPCError is a non-null error object in a JSON-RPC response envelope.
// The node rejected the call; retrying the same request will not help.
type RPCError struct {
	Code    int             `json:"code"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data,omitempty"`
}

func (e *RPCError) Error() string {
	return fmt.Sprintf("rpc error %d: %s", e.Code, e.Message)
}

// DecodeError is a typed decode rejection: bad base64, bad address text,
// wrong blockhash length. Always fatal for the call; never coerced to a
// zero value.
type DecodeError struct {
	Field string
	Err   error
}

func (e *DecodeError) Error() string {
	return fmt.Sprintf("decode %s: %v", e.Field, e.Err)
}

func (e *DecodeError) Unwrap() error {
	return e.Err
}
