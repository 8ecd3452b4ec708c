package solana

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"net/http"
)

// Transport sends one serialized JSON-RPC request to an endpoint and
// returns the raw response body. One attempt, no retries, no internal
// timeout: callers bound latency through the context, and retry policy
// belongs to whoever can tell a transient network fault from a node
// rejection.
//
// Implementations must be safe for concurrent use.
type Transport interface {
	Send(ctx context.Context, endpoint string, body []byte) ([]byte, error)
}

// HTTPTransport performs JSON-RPC over HTTP POST.
type HTTPTransport struct {
	client *http.Client
}

// NewHTTPTransport creates an HTTP transport. A nil client falls back to
// http.DefaultClient.
func NewHTTPTransport(client *http.Client) *HTTPTransport {
	if client == nil {
		client = http.DefaultClient
	}
	return &HTTPTransport{client: client}
}

// Send posts the request body with JSON content type and reads the full
// response body. Network and HTTP-level failures come back as
// *TransportError; the caller parses the body.
func (t *HTTPTransport) Send(ctx context.Context, endpoint string, body []byte) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bytes.NewReader(body))
	if err != nil {
		return nil, &TransportError{Op: "create request", Err: err}
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := t.client.Do(req)
	if err != nil {
		return nil, &TransportError{Op: "http post", Err: err}
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Op: "read response", Err: err}
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &TransportError{
			Op:  "http post",
			Err: fmt.Errorf("unexpected status %d: %s", resp.StatusCode, respBody),
		}
	}

	return respBody, nil
}
