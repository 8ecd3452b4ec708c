package solana

import (
	"encoding/json"
	"errors"
	"testing"
)

func TestBuildRequest_Shape(t *testing.T) {
	body, err := buildRequest("getBalance", 7, []any{"someaddress"})
	if err != nil {
		t.Fatalf("buildRequest: %v", err)
	}

	var req map[string]json.RawMessage
	if err := json.Unmarshal(body, &req); err != nil {
		t.Fatalf("unmarshal request: %v", err)
	}

	if string(req["jsonrpc"]) != `"2.0"` {
		t.Errorf("jsonrpc: got %s", req["jsonrpc"])
	}
	if string(req["method"]) != `"getBalance"` {
		t.Errorf("method: got %s", req["method"])
	}
	if string(req["id"]) != "7" {
		t.Errorf("id: got %s", req["id"])
	}
	if string(req["params"]) != `["someaddress"]` {
		t.Errorf("params: got %s", req["params"])
	}
}

func TestParseResponse_Result(t *testing.T) {
	raw, err := parseResponse([]byte(`{"jsonrpc":"2.0","result":42,"id":1}`))
	if err != nil {
		t.Fatalf("parseResponse: %v", err)
	}
	if string(raw) != "42" {
		t.Errorf("result: got %s", raw)
	}
}

func TestParseResponse_ErrorTakesPrecedence(t *testing.T) {
	// An error field wins even when a result is also present.
	body := []byte(`{"jsonrpc":"2.0","result":42,"error":{"code":-32000,"message":"node unhappy"},"id":1}`)

	_, err := parseResponse(body)
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var rpcErr *RPCError
	if !errors.As(err, &rpcErr) {
		t.Fatalf("expected *RPCError, got %T", err)
	}
	if rpcErr.Code != -32000 {
		t.Errorf("code: got %d", rpcErr.Code)
	}
	if rpcErr.Message != "node unhappy" {
		t.Errorf("message: got %q", rpcErr.Message)
	}
}

func TestParseResponse_MalformedEnvelope(t *testing.T) {
	cases := []string{
		`{"jsonrpc":"2.0","id":1}`,
		`{"jsonrpc":"2.0","result":null,"id":1}`,
		`{}`,
	}

	for _, body := range cases {
		_, err := parseResponse([]byte(body))
		if !errors.Is(err, ErrMalformedEnvelope) {
			t.Errorf("%s: expected ErrMalformedEnvelope, got %v", body, err)
		}
	}
}

func TestParseResponse_NonJSONBodyIsTransportFailure(t *testing.T) {
	_, err := parseResponse([]byte("<html>502 Bad Gateway</html>"))
	if err == nil {
		t.Fatal("expected error, got nil")
	}

	var transportErr *TransportError
	if !errors.As(err, &transportErr) {
		t.Fatalf("expected *TransportError, got %T", err)
	}
}

func TestUnwrapValue(t *testing.T) {
	value, err := unwrapValue([]byte(`{"context":{"slot":100},"value":1500000}`))
	if err != nil {
		t.Fatalf("unwrapValue: %v", err)
	}
	if string(value) != "1500000" {
		t.Errorf("value: got %s", value)
	}
}

func TestUnwrapValue_Null(t *testing.T) {
	for _, body := range []string{`{"value":null}`, `{"context":{"slot":1}}`} {
		_, err := unwrapValue([]byte(body))
		if !errors.Is(err, errNullValue) {
			t.Errorf("%s: expected errNullValue, got %v", body, err)
		}
	}
}
