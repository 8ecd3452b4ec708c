package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"sync/atomic"
	"time"

	"github.com/gorilla/websocket"
)

// PubSubConfig configures WebSocket client behavior.
type PubSubConfig struct {
	// HandshakeTimeout bounds the initial dial.
	HandshakeTimeout time.Duration
	// PingInterval is the interval for sending ping frames.
	PingInterval time.Duration
	// ReadTimeout is the timeout for reading messages.
	ReadTimeout time.Duration
	// WriteTimeout is the timeout for writing messages.
	WriteTimeout time.Duration
	// SubscribeTimeout bounds the wait for a subscription confirmation.
	SubscribeTimeout time.Duration
}

// DefaultPubSubConfig returns default WebSocket configuration.
func DefaultPubSubConfig() PubSubConfig {
	return PubSubConfig{
		HandshakeTimeout: 10 * time.Second,
		PingInterval:     30 * time.Second,
		ReadTimeout:      120 * time.Second,
		WriteTimeout:     10 * time.Second,
		SubscribeTimeout: 30 * time.Second,
	}
}

// PubSubClient implements PubSub using gorilla/websocket. Signature
// subscriptions are one-shot: the node fires a single notification and
// auto-cancels, so a dropped connection fails outstanding subscriptions
// by closing their channels instead of resubscribing.
type PubSubClient struct {
	endpoint string
	config   PubSubConfig

	conn      *websocket.Conn
	connMu    sync.Mutex
	closed    atomic.Bool
	requestID atomic.Uint64

	// subs maps subscription ID to result channel
	subs   map[int64]chan SignatureResult
	subsMu sync.Mutex

	// pendingSubs maps request ID to the subscription being confirmed
	pendingSubs   map[uint64]*pendingSub
	pendingSubsMu sync.Mutex

	done chan struct{}
	wg   sync.WaitGroup
}

var _ PubSub = (*PubSubClient)(nil)

// pendingSub carries a subscription through confirmation. The read loop
// registers the delivery channel in subs before signaling confirm, so a
// notification arriving right behind the confirmation frame always
// finds its channel.
type pendingSub struct {
	confirm chan subConfirm
	deliver chan SignatureResult
}

// subConfirm is the outcome of one subscribe request.
type subConfirm struct {
	subID int64
	err   error
}

// NewPubSubClient connects to a WebSocket endpoint and starts the read
// and ping loops.
func NewPubSubClient(ctx context.Context, endpoint string, config *PubSubConfig) (*PubSubClient, error) {
	cfg := DefaultPubSubConfig()
	if config != nil {
		cfg = *config
	}

	c := &PubSubClient{
		endpoint:    endpoint,
		config:      cfg,
		subs:        make(map[int64]chan SignatureResult),
		pendingSubs: make(map[uint64]*pendingSub),
		done:        make(chan struct{}),
	}

	dialer := websocket.Dialer{HandshakeTimeout: cfg.HandshakeTimeout}
	conn, _, err := dialer.DialContext(ctx, endpoint, nil)
	if err != nil {
		return nil, &TransportError{Op: "websocket dial", Err: err}
	}
	c.conn = conn

	c.wg.Add(1)
	go c.readLoop()

	c.wg.Add(1)
	go c.pingLoop()

	return c, nil
}

// SubscribeSignature subscribes to the inclusion of one transaction
// signature at the given commitment ("finalized" when empty).
func (c *PubSubClient) SubscribeSignature(ctx context.Context, signature string, commitment string) (<-chan SignatureResult, error) {
	if c.closed.Load() {
		return nil, fmt.Errorf("pubsub client closed")
	}
	if commitment == "" {
		commitment = "finalized"
	}

	reqID := c.requestID.Add(1)
	req := rpcRequest{
		JSONRPC: jsonrpcVersion,
		ID:      reqID,
		Method:  "signatureSubscribe",
		Params: []any{
			signature,
			map[string]string{"commitment": commitment},
		},
	}

	pending := &pendingSub{
		confirm: make(chan subConfirm, 1),
		deliver: make(chan SignatureResult, 1),
	}
	c.pendingSubsMu.Lock()
	c.pendingSubs[reqID] = pending
	c.pendingSubsMu.Unlock()

	removePending := func() {
		c.pendingSubsMu.Lock()
		delete(c.pendingSubs, reqID)
		c.pendingSubsMu.Unlock()

		// The read loop may have confirmed and registered the
		// subscription already; drop it so nothing delivers to a
		// channel nobody reads.
		select {
		case conf := <-pending.confirm:
			if conf.err == nil {
				c.subsMu.Lock()
				delete(c.subs, conf.subID)
				c.subsMu.Unlock()
			}
		default:
		}
	}

	c.connMu.Lock()
	c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
	err := c.conn.WriteJSON(req)
	c.connMu.Unlock()
	if err != nil {
		removePending()
		return nil, &TransportError{Op: "write subscribe", Err: err}
	}

	select {
	case conf, ok := <-pending.confirm:
		if !ok {
			return nil, fmt.Errorf("pubsub client closed")
		}
		if conf.err != nil {
			return nil, conf.err
		}
		return pending.deliver, nil
	case <-time.After(c.config.SubscribeTimeout):
		removePending()
		return nil, fmt.Errorf("subscription confirmation timeout")
	case <-c.done:
		return nil, fmt.Errorf("pubsub client closed")
	case <-ctx.Done():
		removePending()
		return nil, ctx.Err()
	}
}

// Close closes the connection and every subscription channel.
func (c *PubSubClient) Close() error {
	if c.closed.Swap(true) {
		return nil
	}

	close(c.done)

	c.connMu.Lock()
	c.conn.WriteMessage(websocket.CloseMessage,
		websocket.FormatCloseMessage(websocket.CloseNormalClosure, ""))
	c.conn.Close()
	c.connMu.Unlock()

	c.failAllSubscriptions()

	c.wg.Wait()
	return nil
}

// failAllSubscriptions closes subscription and pending channels so
// waiters observe the connection loss instead of hanging.
func (c *PubSubClient) failAllSubscriptions() {
	c.subsMu.Lock()
	for id, ch := range c.subs {
		close(ch)
		delete(c.subs, id)
	}
	c.subsMu.Unlock()

	c.pendingSubsMu.Lock()
	for id, pending := range c.pendingSubs {
		close(pending.confirm)
		delete(c.pendingSubs, id)
	}
	c.pendingSubsMu.Unlock()
}

// readLoop reads messages and dispatches them to subscribers.
func (c *PubSubClient) readLoop() {
	defer c.wg.Done()

	for !c.closed.Load() {
		c.connMu.Lock()
		conn := c.conn
		c.connMu.Unlock()

		conn.SetReadDeadline(time.Now().Add(c.config.ReadTimeout))
		_, message, err := conn.ReadMessage()
		if err != nil {
			if !c.closed.Load() {
				c.failAllSubscriptions()
			}
			return
		}

		c.handleMessage(message)
	}
}

// pingLoop keeps the connection alive across idle periods.
func (c *PubSubClient) pingLoop() {
	defer c.wg.Done()

	ticker := time.NewTicker(c.config.PingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-c.done:
			return
		case <-ticker.C:
			c.connMu.Lock()
			c.conn.SetWriteDeadline(time.Now().Add(c.config.WriteTimeout))
			c.conn.WriteMessage(websocket.PingMessage, nil)
			c.connMu.Unlock()
		}
	}
}

// wsMessage is either a subscription confirmation (ID + Result) or a
// notification (Method + Params).
type wsMessage struct {
	ID     uint64          `json:"id"`
	Result json.RawMessage `json:"result"`
	Error  *RPCError       `json:"error"`
	Method string          `json:"method"`
	Params *wsNotification `json:"params"`
}

type wsNotification struct {
	Subscription int64 `json:"subscription"`
	Result       struct {
		Context struct {
			Slot int64 `json:"slot"`
		} `json:"context"`
		Value struct {
			Err any `json:"err"`
		} `json:"value"`
	} `json:"result"`
}

func (c *PubSubClient) handleMessage(message []byte) {
	var msg wsMessage
	if err := json.Unmarshal(message, &msg); err != nil {
		return
	}

	// Subscription confirmation echoes the request ID.
	if msg.ID != 0 {
		c.pendingSubsMu.Lock()
		pending, ok := c.pendingSubs[msg.ID]
		if ok {
			delete(c.pendingSubs, msg.ID)
		}
		c.pendingSubsMu.Unlock()
		if !ok {
			return
		}

		if msg.Error != nil {
			pending.confirm <- subConfirm{err: msg.Error}
			return
		}

		var subID int64
		if err := json.Unmarshal(msg.Result, &subID); err != nil {
			pending.confirm <- subConfirm{
				err: fmt.Errorf("bad subscription confirmation: %w", err),
			}
			return
		}

		// Register before signaling the waiter: the read loop handles
		// frames in order, so a notification sent right after the
		// confirmation finds the channel in place.
		c.subsMu.Lock()
		c.subs[subID] = pending.deliver
		c.subsMu.Unlock()

		pending.confirm <- subConfirm{subID: subID}
		return
	}

	if msg.Method != "signatureNotification" || msg.Params == nil {
		return
	}

	// One-shot: the node auto-cancels after firing, so the channel is
	// closed and the subscription dropped after delivery.
	c.subsMu.Lock()
	ch, ok := c.subs[msg.Params.Subscription]
	if ok {
		delete(c.subs, msg.Params.Subscription)
	}
	c.subsMu.Unlock()

	if ok {
		ch <- SignatureResult{
			Slot: msg.Params.Result.Context.Slot,
			Err:  msg.Params.Result.Value.Err,
		}
		close(ch)
	}
}
