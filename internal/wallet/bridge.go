package wallet

import (
	"context"
	"errors"
	"sync"

	"solana-wallet-client/internal/solana"
)

// ErrConnectInProgress is returned when Connect is called while an
// attempt is already running. In-flight attempts cannot be canceled;
// each one always resolves to Connected or Failed.
var ErrConnectInProgress = errors.New("wallet connect already in progress")

// State is the bridge's connection state.
type State int

const (
	StateIdle State = iota
	StateConnecting
	StateConnected
	StateFailed
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateConnecting:
		return "connecting"
	case StateConnected:
		return "connected"
	case StateFailed:
		return "failed"
	default:
		return "unknown"
	}
}

// ConnectEvent is one completed connection attempt.
type ConnectEvent struct {
	Address solana.Address
	Err     error
}

// Queue hands completed attempts from the connect goroutine to the
// polling tick. Events are pushed once, drained once, in production
// order, under a single lock.
type Queue struct {
	mu     sync.Mutex
	events []ConnectEvent
}

// NewQueue creates an empty event queue.
func NewQueue() *Queue {
	return &Queue{}
}

func (q *Queue) push(ev ConnectEvent) {
	q.mu.Lock()
	q.events = append(q.events, ev)
	q.mu.Unlock()
}

func (q *Queue) drain() []ConnectEvent {
	q.mu.Lock()
	defer q.mu.Unlock()
	out := q.events
	q.events = nil
	return out
}

// Bridge runs wallet connection attempts without blocking the caller's
// loop. Connect launches the provider call on a goroutine and returns;
// Poll, run once per tick, drains completions from the injected queue
// and applies the Idle → Connecting → {Connected, Failed} transitions.
type Bridge struct {
	provider Provider
	queue    *Queue

	mu      sync.Mutex
	state   State
	address solana.Address
	lastErr error
}

// NewBridge creates a bridge over a provider. A nil queue gets a fresh
// private one; pass a shared queue when the host loop owns the handoff.
func NewBridge(provider Provider, queue *Queue) *Bridge {
	if queue == nil {
		queue = NewQueue()
	}
	return &Bridge{provider: provider, queue: queue}
}

// Connect starts a connection attempt. The result arrives through Poll,
// never through this call. A missing provider is reported immediately
// and leaves the state untouched.
func (b *Bridge) Connect(ctx context.Context) error {
	if !b.provider.Available() {
		return ErrProviderUnavailable
	}

	b.mu.Lock()
	if b.state == StateConnecting {
		b.mu.Unlock()
		return ErrConnectInProgress
	}
	b.state = StateConnecting
	b.mu.Unlock()

	go func() {
		addr, err := b.provider.Connect(ctx)
		b.queue.push(ConnectEvent{Address: addr, Err: err})
	}()

	return nil
}

// Poll drains completed attempts in order and applies their state
// transitions. A failed attempt keeps any previously connected address;
// it is observable through Err, not silence. A second Poll in the same
// tick with no new completions returns nothing.
func (b *Bridge) Poll() []ConnectEvent {
	events := b.queue.drain()

	b.mu.Lock()
	for _, ev := range events {
		if ev.Err != nil {
			b.state = StateFailed
			b.lastErr = ev.Err
			continue
		}
		b.state = StateConnected
		b.address = ev.Address
		b.lastErr = nil
	}
	b.mu.Unlock()

	return events
}

// Disconnect clears the connection and returns the bridge to idle.
func (b *Bridge) Disconnect() {
	b.mu.Lock()
	b.state = StateIdle
	b.address = solana.Address{}
	b.lastErr = nil
	b.mu.Unlock()
}

// State returns the current connection state.
func (b *Bridge) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Address returns the connected wallet address, if any.
func (b *Bridge) Address() (solana.Address, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.address, !b.address.IsZero()
}

// Err returns the failure from the most recent attempt, if it failed.
func (b *Bridge) Err() error {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.lastErr
}
