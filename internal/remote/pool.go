// Package remote turns domain.Node handles into live peers: a reference
// counted gRPC connection pool plus the RemoteNodeHandle that drives the
// Chord peer protocol (§4.3) over those connections.
package remote

import (
	"ChordDHT/internal/logger"
	"ChordDHT/internal/rpc"
	"context"
	"fmt"
	"sync"
	"time"

	"google.golang.org/grpc"
	"google.golang.org/grpc/credentials/insecure"
)

// poolEntry is one pooled connection plus its reference count. A peer is
// AddRef'd when it enters the successor list or becomes the predecessor,
// and Release'd when it leaves; the connection is only closed once the
// count drops to zero. Finger entries beyond the successor take no
// reference; calls to them go through an ephemeral dial.
type poolEntry struct {
	conn *grpc.ClientConn
	refs int
}

// Pool is a reference-counted gRPC connection pool keyed by peer
// address, plus the failure-detection timeout every blocking peer RPC
// in this module is bounded by.
type Pool struct {
	lgr           logger.Logger
	mu            sync.Mutex
	conns         map[string]*poolEntry
	dialOpts      []grpc.DialOption
	dialTimeout   time.Duration
	failureTimeout time.Duration
}

// Option configures a Pool at construction time.
type Option func(*Pool)

// WithLogger attaches a logger used for connection lifecycle tracing.
func WithLogger(l logger.Logger) Option {
	return func(p *Pool) { p.lgr = l }
}

// WithDialOptions overrides the default insecure dial options, e.g. to
// add TLS credentials or interceptors (tracing, retry).
func WithDialOptions(opts ...grpc.DialOption) Option {
	return func(p *Pool) { p.dialOpts = opts }
}

// New builds a Pool. dialTimeout bounds how long a fresh dial may take;
// failureTimeout is the deadline applied to the blocking RPCs
// (FindSuccessor, GetPredecessor, CheckPredecessor, Ping-equivalent)
// that drive failure detection during stabilization.
func New(dialTimeout, failureTimeout time.Duration, opts ...Option) *Pool {
	p := &Pool{
		lgr:            logger.NopLogger{},
		conns:          make(map[string]*poolEntry),
		dialTimeout:    dialTimeout,
		failureTimeout: failureTimeout,
	}
	for _, opt := range opts {
		opt(p)
	}
	if p.dialOpts == nil {
		p.dialOpts = []grpc.DialOption{grpc.WithTransportCredentials(insecure.NewCredentials())}
	}
	return p
}

// FailureTimeout returns the deadline new contexts for peer RPCs should
// carry.
func (p *Pool) FailureTimeout() time.Duration { return p.failureTimeout }

// AddRef increments the reference count for addr, dialing a fresh
// connection if none is pooled yet.
func (p *Pool) AddRef(addr string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	if e, ok := p.conns[addr]; ok {
		e.refs++
		return nil
	}
	conn, err := p.dial(addr)
	if err != nil {
		return fmt.Errorf("remote: addref dial %s: %w", addr, err)
	}
	p.conns[addr] = &poolEntry{conn: conn, refs: 1}
	p.lgr.Debug("pool: connection opened", logger.F("addr", addr))
	return nil
}

// Release decrements the reference count for addr, closing and evicting
// the connection once it reaches zero. Releasing an address with no
// outstanding references is a no-op.
func (p *Pool) Release(addr string) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	e, ok := p.conns[addr]
	if !ok {
		return nil
	}
	e.refs--
	if e.refs > 0 {
		return nil
	}
	delete(p.conns, addr)
	p.lgr.Debug("pool: connection closed", logger.F("addr", addr))
	return e.conn.Close()
}

// GetFromPool returns a ChordClient over an already-referenced
// connection for addr. It does not dial: callers that have not AddRef'd
// addr must fall back to DialEphemeral.
func (p *Pool) GetFromPool(addr string) (rpc.ChordClient, error) {
	p.mu.Lock()
	e, ok := p.conns[addr]
	p.mu.Unlock()
	if !ok {
		return nil, fmt.Errorf("remote: no pooled connection for %s", addr)
	}
	return rpc.NewChordClient(e.conn), nil
}

// DialEphemeral opens a short-lived connection to addr outside the
// ref-counted pool, for one-off contacts (e.g. the bootstrap join target
// before it is known to belong in any routing structure). The caller
// owns the returned connection and must Close it.
func (p *Pool) DialEphemeral(addr string) (rpc.ChordClient, *grpc.ClientConn, error) {
	conn, err := p.dial(addr)
	if err != nil {
		return nil, nil, fmt.Errorf("remote: ephemeral dial %s: %w", addr, err)
	}
	return rpc.NewChordClient(conn), conn, nil
}

func (p *Pool) dial(addr string) (*grpc.ClientConn, error) {
	ctx, cancel := context.WithTimeout(context.Background(), p.dialTimeout)
	defer cancel()
	return grpc.DialContext(ctx, addr, p.dialOpts...)
}

// CloseAll closes every pooled connection regardless of reference count,
// for process shutdown.
func (p *Pool) CloseAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for addr, e := range p.conns {
		_ = e.conn.Close()
		delete(p.conns, addr)
	}
}

// DebugLog emits a structured snapshot of pooled addresses and their
// reference counts.
func (p *Pool) DebugLog() {
	p.mu.Lock()
	snapshot := make(map[string]int, len(p.conns))
	for addr, e := range p.conns {
		snapshot[addr] = e.refs
	}
	p.mu.Unlock()
	p.lgr.Debug("pool snapshot", logger.F("connections", snapshot))
}
