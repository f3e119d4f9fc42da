// Package node implements the Chord single-node state machine (§4.4):
// join/leave, stabilization, finger repair, request routing, local
// storage, and successor-based backup replication.
package node

import (
	"ChordDHT/internal/domain"
	"ChordDHT/internal/fingertable"
	"ChordDHT/internal/logger"
	"ChordDHT/internal/remote"
	"ChordDHT/internal/storage"
	"context"
	"fmt"
	"sync/atomic"
	"time"
)

// State is the coarse lifecycle stage a Node is observed to be in; it is
// derived, not stored, from has-left plus the current successor/
// predecessor (design note: state-machine clarity).
type State int

const (
	StateSolo State = iota
	StateJoined
	StateDeparted
)

func (s State) String() string {
	switch s {
	case StateSolo:
		return "solo"
	case StateJoined:
		return "joined"
	case StateDeparted:
		return "departed"
	default:
		return "unknown"
	}
}

// Node is one Chord ring participant.
type Node struct {
	lgr   logger.Logger
	space domain.Space
	self  domain.Node

	ft   *fingertable.FingerTable
	pool *remote.Pool
	store storage.LocalStore

	retries     int
	fixInterval time.Duration

	hasLeft       atomic.Bool
	maintainerDone chan struct{}
	cancelMaintainer context.CancelFunc
}

// Option configures a Node at construction time.
type Option func(*Node)

// WithLogger attaches a logger.
func WithLogger(l logger.Logger) Option {
	return func(n *Node) { n.lgr = l }
}

// WithRetries overrides the retry harness bound (default m+1).
func WithRetries(retries int) Option {
	return func(n *Node) { n.retries = retries }
}

// New constructs a Node. The finger table, connection pool and local
// store are supplied by the caller (cmd/node wires concrete
// implementations); the Node does not start single-node mode or join
// automatically — call Join.
func New(self domain.Node, space domain.Space, ft *fingertable.FingerTable, pool *remote.Pool, store storage.LocalStore, fixInterval time.Duration, opts ...Option) *Node {
	n := &Node{
		lgr:         logger.NopLogger{},
		space:       space,
		self:        self,
		ft:          ft,
		pool:        pool,
		store:       store,
		retries:     space.Bits + 1,
		fixInterval: fixInterval,
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

func (n *Node) Self() domain.Node          { return n.self }
func (n *Node) Space() domain.Space        { return n.space }
func (n *Node) HasLeft() bool              { return n.hasLeft.Load() }
func (n *Node) FingerTable() *fingertable.FingerTable { return n.ft }
func (n *Node) Store() storage.LocalStore  { return n.store }

// State reports the node's current coarse lifecycle stage.
func (n *Node) State() State {
	if n.hasLeft.Load() {
		return StateDeparted
	}
	succ := n.ft.FirstSuccessor()
	pred := n.ft.GetPredecessor()
	if (succ == nil || succ.ID.Equal(n.self.ID)) && pred == nil {
		return StateSolo
	}
	return StateJoined
}

// ErrDeparted is returned by any operation attempted after Leave.
var ErrDeparted = fmt.Errorf("node: has left the ring")

func (n *Node) checkDeparted() error {
	if n.hasLeft.Load() {
		return ErrDeparted
	}
	return nil
}

// handleFor builds a RemoteNodeHandle for peer, preferring an
// already-pooled (ref-counted) connection and falling back to an
// ephemeral dial for peers not yet tracked by any routing structure
// (e.g. a bootstrap target during join). The returned closer must
// always be called; it is a no-op for pooled connections.
func (n *Node) handleFor(peer domain.Node) (*remote.Handle, func(), error) {
	if peer.ID.Equal(n.self.ID) {
		return nil, func() {}, errSelf
	}
	if cli, err := n.pool.GetFromPool(peer.Addr); err == nil {
		return remote.NewHandle(peer, cli), func() {}, nil
	}
	cli, conn, err := n.pool.DialEphemeral(peer.Addr)
	if err != nil {
		return nil, func() {}, fmt.Errorf("node: dial %s: %w", peer.Addr, err)
	}
	return remote.NewHandle(peer, cli), func() { _ = conn.Close() }, nil
}

var errSelf = fmt.Errorf("node: peer is self")
