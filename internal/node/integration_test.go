package node_test

import (
	"ChordDHT/internal/domain"
	"ChordDHT/internal/fingertable"
	"ChordDHT/internal/logger"
	"ChordDHT/internal/node"
	"ChordDHT/internal/remote"
	"ChordDHT/internal/server"
	"ChordDHT/internal/storage"
	"context"
	"net"
	"testing"
	"time"
)

// testPeer is one real Chord participant: a node.Node wired to an actual
// gRPC server listening on loopback, so join/routing/stabilization can be
// exercised the same way two real processes would talk to each other.
type testPeer struct {
	n   *node.Node
	srv *server.Server
}

func startTestPeer(t *testing.T, sp domain.Space, addrHint string) *testPeer {
	t.Helper()
	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	addr := lis.Addr().String()

	self := domain.Node{ID: sp.NewIdFromString(addr + addrHint), Addr: addr}
	ft := fingertable.New(&self, sp, sp.SuccListSize)
	pool := remote.New(200*time.Millisecond, 200*time.Millisecond)
	store := storage.NewMemoryStorage(logger.NopLogger{})
	n := node.New(self, sp, ft, pool, store, 20*time.Millisecond, node.WithRetries(3))

	srv := server.New(lis, n, nil)
	go func() { _ = srv.Start() }()

	p := &testPeer{n: n, srv: srv}
	t.Cleanup(func() {
		n.Leave()
		srv.Stop()
	})
	return p
}

func TestTwoNodeJoinAndRouting(t *testing.T) {
	sp, err := domain.NewSpace(16, 3)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}

	first := startTestPeer(t, sp, "#1")
	if err := first.n.Join(context.Background(), nil); err != nil {
		t.Fatalf("first.Join(nil): %v", err)
	}

	second := startTestPeer(t, sp, "#2")
	bootstrap := first.n.Self()
	if err := second.n.Join(context.Background(), &bootstrap); err != nil {
		t.Fatalf("second.Join(bootstrap): %v", err)
	}

	// Give stabilization a couple of ticks to converge the ring even
	// though Join alone already sets up enough routing to resolve any
	// key to one of the two nodes.
	ctx1, cancel1 := context.WithCancel(context.Background())
	ctx2, cancel2 := context.WithCancel(context.Background())
	first.n.StartMaintainer(ctx1)
	second.n.StartMaintainer(ctx2)
	t.Cleanup(func() {
		cancel1()
		cancel2()
		first.n.StopMaintainer()
		second.n.StopMaintainer()
	})
	time.Sleep(150 * time.Millisecond)

	ctx := context.Background()
	id := sp.NewIdFromString("routed-key")

	if err := first.n.Put(ctx, domain.Resource{Key: id, Value: "hop-value"}); err != nil {
		t.Fatalf("Put via first: %v", err)
	}

	got, err := second.n.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get via second: %v", err)
	}
	if got != "hop-value" {
		t.Errorf("Get via second = %q, want %q", got, "hop-value")
	}

	if err := second.n.Delete(ctx, id); err != nil {
		t.Fatalf("Delete via second: %v", err)
	}
	if _, err := first.n.Get(ctx, id); err == nil {
		t.Errorf("Get via first after delete = nil error, want ErrResourceNotFound (wrapped)")
	}
}
