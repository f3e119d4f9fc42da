package node

import (
	"ChordDHT/internal/domain"
	"ChordDHT/internal/fingertable"
	"ChordDHT/internal/logger"
	"ChordDHT/internal/remote"
	"ChordDHT/internal/rpc"
	"ChordDHT/internal/storage"
	"context"
	"errors"
	"net"
	"testing"
	"time"

	"google.golang.org/grpc"
)

func testSpace(t *testing.T) domain.Space {
	t.Helper()
	sp, err := domain.NewSpace(8, 3)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	return sp
}

// newSoloNode builds a node that has already initialized a one-node
// ring, ready for Put/Get/Delete without any network dependency.
func newSoloNode(t *testing.T, addr string) *Node {
	t.Helper()
	sp := testSpace(t)
	self := domain.Node{ID: sp.NewIdFromString(addr), Addr: addr}
	ft := fingertable.New(&self, sp, sp.SuccListSize)
	pool := remote.New(50*time.Millisecond, 50*time.Millisecond)
	store := storage.NewMemoryStorage(logger.NopLogger{})
	n := New(self, sp, ft, pool, store, 10*time.Millisecond, WithRetries(3))
	if err := n.Join(context.Background(), nil); err != nil {
		t.Fatalf("Join(nil): %v", err)
	}
	return n
}

func TestNode_SoloRingPutGetDelete(t *testing.T) {
	n := newSoloNode(t, "127.0.0.1:9001")
	ctx := context.Background()

	id := n.space.NewIdFromString("some-key")
	if err := n.Put(ctx, domain.Resource{Key: id, Value: "hello"}); err != nil {
		t.Fatalf("Put: %v", err)
	}

	got, err := n.Get(ctx, id)
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "hello" {
		t.Errorf("Get = %q, want %q", got, "hello")
	}

	if err := n.Delete(ctx, id); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := n.Get(ctx, id); !errors.Is(err, domain.ErrResourceNotFound) {
		t.Errorf("Get after delete = %v, want ErrResourceNotFound", err)
	}
}

func TestNode_ValidateID_RejectsWrongLength(t *testing.T) {
	n := newSoloNode(t, "127.0.0.1:9002")
	ctx := context.Background()

	badID := domain.ID([]byte{1, 2, 3}) // space is 1-byte (8 bits), this is 3 bytes
	if err := n.Put(ctx, domain.Resource{Key: badID, Value: "x"}); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Put with bad id = %v, want ErrInvalidArgument", err)
	}
	if _, err := n.Get(ctx, badID); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Get with bad id = %v, want ErrInvalidArgument", err)
	}
	if err := n.Delete(ctx, badID); !errors.Is(err, ErrInvalidArgument) {
		t.Errorf("Delete with bad id = %v, want ErrInvalidArgument", err)
	}
}

func TestNode_State(t *testing.T) {
	sp := testSpace(t)
	self := domain.Node{ID: sp.NewIdFromString("addr"), Addr: "127.0.0.1:9003"}
	ft := fingertable.New(&self, sp, sp.SuccListSize)
	pool := remote.New(50*time.Millisecond, 50*time.Millisecond)
	store := storage.NewMemoryStorage(logger.NopLogger{})
	n := New(self, sp, ft, pool, store, 10*time.Millisecond)

	if got := n.State(); got != StateSolo {
		t.Errorf("State before join = %v, want StateSolo", got)
	}

	if err := n.Join(context.Background(), nil); err != nil {
		t.Fatalf("Join: %v", err)
	}
	if got := n.State(); got != StateSolo {
		t.Errorf("State after solo join = %v, want StateSolo", got)
	}

	n.Leave()
	if got := n.State(); got != StateDeparted {
		t.Errorf("State after leave = %v, want StateDeparted", got)
	}
}

func TestNode_Leave_RejectsSubsequentOps(t *testing.T) {
	n := newSoloNode(t, "127.0.0.1:9004")
	n.Leave()

	ctx := context.Background()
	id := n.space.NewIdFromString("k")
	if err := n.Put(ctx, domain.Resource{Key: id, Value: "v"}); !errors.Is(err, ErrDeparted) {
		t.Errorf("Put after leave = %v, want ErrDeparted", err)
	}
	if _, err := n.Get(ctx, id); !errors.Is(err, ErrDeparted) {
		t.Errorf("Get after leave = %v, want ErrDeparted", err)
	}
	if err := n.Delete(ctx, id); !errors.Is(err, ErrDeparted) {
		t.Errorf("Delete after leave = %v, want ErrDeparted", err)
	}
}

func TestNode_CheckPredecessor_AdoptsWhenUnknown(t *testing.T) {
	n := newSoloNode(t, "127.0.0.1:9005")
	sp := n.space
	candidate := domain.Node{ID: sp.NewIdFromString("candidate"), Addr: "127.0.0.1:9006"}

	if err := n.CheckPredecessor(context.Background(), candidate); err != nil {
		t.Fatalf("CheckPredecessor: %v", err)
	}
	pred := n.ft.GetPredecessor()
	if pred == nil || !pred.ID.Equal(candidate.ID) {
		t.Errorf("predecessor = %v, want %v", pred, candidate)
	}
}

func TestNode_CheckPredecessor_IgnoresSelf(t *testing.T) {
	n := newSoloNode(t, "127.0.0.1:9007")
	if err := n.CheckPredecessor(context.Background(), n.self); err != nil {
		t.Fatalf("CheckPredecessor(self): %v", err)
	}
	if pred := n.ft.GetPredecessor(); pred != nil {
		t.Errorf("predecessor = %v, want nil (self must never become its own predecessor)", pred)
	}
}

func TestNode_CheckPredecessor_AdoptsWhenPredecessorUnreachable(t *testing.T) {
	n := newSoloNode(t, "127.0.0.1:9008")
	sp := n.space

	dead := domain.Node{ID: sp.NewIdFromString("dead"), Addr: "127.0.0.1:1"}
	if err := n.CheckPredecessor(context.Background(), dead); err != nil {
		t.Fatalf("CheckPredecessor(dead): %v", err)
	}

	candidate := domain.Node{ID: sp.NewIdFromString("candidate"), Addr: "127.0.0.1:9009"}
	ctx, cancel := context.WithTimeout(context.Background(), time.Second)
	defer cancel()
	if err := n.CheckPredecessor(ctx, candidate); err != nil {
		t.Fatalf("CheckPredecessor(candidate): %v", err)
	}
	pred := n.ft.GetPredecessor()
	if pred == nil || !pred.ID.Equal(candidate.ID) {
		t.Errorf("predecessor = %v, want %v (unreachable predecessor must be replaced)", pred, candidate)
	}
}

func TestWithRetry_SucceedsWithoutRetry(t *testing.T) {
	n := newSoloNode(t, "127.0.0.1:9010")
	calls := 0
	val, err := withRetry(context.Background(), n, func(ctx context.Context) (int, error) {
		calls++
		return 42, nil
	})
	if err != nil {
		t.Fatalf("withRetry: %v", err)
	}
	if val != 42 {
		t.Errorf("val = %d, want 42", val)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1", calls)
	}
}

func TestWithRetry_RetriesThenSucceeds(t *testing.T) {
	n := newSoloNode(t, "127.0.0.1:9011")
	n.retries = 3
	n.fixInterval = time.Millisecond

	calls := 0
	transient := errors.New("transient")
	val, err := withRetry(context.Background(), n, func(ctx context.Context) (int, error) {
		calls++
		if calls < 3 {
			return 0, transient
		}
		return 7, nil
	})
	if err != nil {
		t.Fatalf("withRetry: %v", err)
	}
	if val != 7 {
		t.Errorf("val = %d, want 7", val)
	}
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
}

func TestWithRetry_ExhaustsToNetworkHosed(t *testing.T) {
	n := newSoloNode(t, "127.0.0.1:9012")
	n.retries = 3
	n.fixInterval = time.Millisecond

	calls := 0
	cause := errors.New("always fails")
	_, err := withRetry(context.Background(), n, func(ctx context.Context) (int, error) {
		calls++
		return 0, cause
	})
	if calls != 3 {
		t.Errorf("calls = %d, want 3", calls)
	}
	var hosed *NetworkHosedError
	if !errors.As(err, &hosed) {
		t.Fatalf("err = %v, want *NetworkHosedError", err)
	}
	if hosed.Attempts != 3 {
		t.Errorf("Attempts = %d, want 3", hosed.Attempts)
	}
	if !errors.Is(err, cause) {
		t.Errorf("NetworkHosedError does not unwrap to cause %v: %v", cause, err)
	}
}

func TestWithRetry_ResourceNotFoundBypassesRetry(t *testing.T) {
	n := newSoloNode(t, "127.0.0.1:9013")
	n.retries = 3
	n.fixInterval = time.Millisecond

	calls := 0
	_, err := withRetry(context.Background(), n, func(ctx context.Context) (int, error) {
		calls++
		return 0, domain.ErrResourceNotFound
	})
	if !errors.Is(err, domain.ErrResourceNotFound) {
		t.Errorf("err = %v, want ErrResourceNotFound", err)
	}
	if calls != 1 {
		t.Errorf("calls = %d, want 1 (ErrResourceNotFound must not be retried)", calls)
	}
}

func TestWithRetry_RespectsContextCancellation(t *testing.T) {
	n := newSoloNode(t, "127.0.0.1:9014")
	n.retries = 5
	n.fixInterval = 50 * time.Millisecond

	ctx, cancel := context.WithCancel(context.Background())
	calls := 0
	go func() {
		time.Sleep(5 * time.Millisecond)
		cancel()
	}()
	_, err := withRetry(ctx, n, func(ctx context.Context) (int, error) {
		calls++
		return 0, errors.New("always fails")
	})
	if !errors.Is(err, context.Canceled) {
		t.Errorf("err = %v, want context.Canceled", err)
	}
}

func TestNode_ForwardValuesForBackup_SkipsWithoutNeighbors(t *testing.T) {
	n := newSoloNode(t, "127.0.0.1:9015")
	// Solo ring: predecessor is nil, so the pass must be a no-op and
	// must not panic despite there being no peers to contact.
	n.forwardValuesForBackup(context.Background())
}

func TestNode_PutBackupLocal_RemoveBackupLocal(t *testing.T) {
	n := newSoloNode(t, "127.0.0.1:9016")
	id := n.space.NewIdFromString("backup-key")
	res := domain.Resource{Key: id, Value: "v"}

	if err := n.PutBackupLocal(res); err != nil {
		t.Fatalf("PutBackupLocal: %v", err)
	}
	got, err := n.store.Get(id)
	if err != nil {
		t.Fatalf("Get after PutBackupLocal: %v", err)
	}
	if got.Value != "v" {
		t.Errorf("value = %q, want %q", got.Value, "v")
	}

	if err := n.RemoveBackupLocal(id); err != nil {
		t.Fatalf("RemoveBackupLocal: %v", err)
	}
	if _, err := n.store.Get(id); !errors.Is(err, domain.ErrResourceNotFound) {
		t.Errorf("Get after RemoveBackupLocal = %v, want ErrResourceNotFound", err)
	}
}

func TestNode_CheckResponsible_RejectsOutsidePredecessorWindow(t *testing.T) {
	n := newSoloNode(t, "127.0.0.1:9017")
	ctx := context.Background()

	selfByte := n.self.ID[0]
	pred := domain.Node{ID: domain.ID{selfByte - 1}, Addr: "127.0.0.1:9018"}
	n.ft.SetPredecessor(&pred)

	outOfRange := domain.ID{pred.ID[0]} // == pred.ID itself: not in (pred, self]
	if err := n.PutLocal(ctx, domain.Resource{Key: outOfRange, Value: "x"}); !errors.Is(err, domain.ErrNotResponsible) {
		t.Errorf("PutLocal(out of range) = %v, want ErrNotResponsible", err)
	}
	if err := n.DeleteLocal(ctx, outOfRange); !errors.Is(err, domain.ErrNotResponsible) {
		t.Errorf("DeleteLocal(out of range) = %v, want ErrNotResponsible", err)
	}

	inRange := domain.ID{selfByte}
	if err := n.PutLocal(ctx, domain.Resource{Key: inRange, Value: "y"}); err != nil {
		t.Errorf("PutLocal(in range) = %v, want nil", err)
	}
	if err := n.DeleteLocal(ctx, inRange); err != nil {
		t.Errorf("DeleteLocal(in range) = %v, want nil", err)
	}
}

func TestNode_CheckResponsible_NilPredecessorOwnsEverything(t *testing.T) {
	n := newSoloNode(t, "127.0.0.1:9019")
	ctx := context.Background()

	id := n.space.NewIdFromString("whatever")
	if err := n.PutLocal(ctx, domain.Resource{Key: id, Value: "v"}); err != nil {
		t.Errorf("PutLocal with no predecessor = %v, want nil", err)
	}
}

func TestNode_ResolveLiveSuccessor_PromotesAndReleasesDeadEntry(t *testing.T) {
	n := newSoloNode(t, "127.0.0.1:9020")
	sp := n.space

	dead := domain.Node{ID: sp.NewIdFromString("dead-succ"), Addr: "127.0.0.1:1"}
	if err := n.pool.AddRef(dead.Addr); err != nil {
		t.Fatalf("AddRef(dead): %v", err)
	}
	n.ft.SetSuccessor(0, &dead)
	// indices 1 and 2 stay self, from InitSingleNode during Join.

	got := n.resolveLiveSuccessor(context.Background())
	if !got.ID.Equal(n.self.ID) {
		t.Errorf("resolveLiveSuccessor = %v, want self (promoted through to the self-padded tail)", got)
	}
	if _, err := n.pool.GetFromPool(dead.Addr); err == nil {
		t.Errorf("pool still holds a ref for %s after promotion past it", dead.Addr)
	}
}

func TestNode_ResolveLiveSuccessor_FullExhaustionReleasesAll(t *testing.T) {
	n := newSoloNode(t, "127.0.0.1:9021")
	sp := n.space

	addrs := []string{"127.0.0.1:2", "127.0.0.1:3", "127.0.0.1:4"}
	list := make([]*domain.Node, len(addrs))
	for i, addr := range addrs {
		nd := domain.Node{ID: sp.NewIdFromString(addr), Addr: addr}
		if err := n.pool.AddRef(addr); err != nil {
			t.Fatalf("AddRef(%s): %v", addr, err)
		}
		list[i] = &nd
	}
	n.ft.SetSuccessorList(list)

	got := n.resolveLiveSuccessor(context.Background())
	if !got.ID.Equal(n.self.ID) {
		t.Errorf("resolveLiveSuccessor = %v, want self after full exhaustion", got)
	}
	for _, addr := range addrs {
		if _, err := n.pool.GetFromPool(addr); err == nil {
			t.Errorf("pool still holds a ref for %s after full exhaustion", addr)
		}
	}
}

// succListTestServer is a minimal ChordServer exposing only
// GetSuccessorList, backed directly by a FingerTable, so
// fixSuccessorList can be exercised against a real gRPC listener without
// importing internal/server (which would import this package back).
type succListTestServer struct {
	rpc.UnimplementedChordServer
	ft *fingertable.FingerTable
}

func (s *succListTestServer) GetSuccessorList(ctx context.Context, _ *rpc.Empty) (*rpc.NodeListReply, error) {
	list := s.ft.SuccessorList()
	nodes := make([]rpc.NodeMsg, len(list))
	for i, nd := range list {
		nodes[i] = rpc.NodeMsg{ID: []byte(nd.ID), Addr: nd.Addr}
	}
	return &rpc.NodeListReply{Nodes: nodes}, nil
}

func TestFixSuccessorList_SplicesRemoteListOneDeeper(t *testing.T) {
	sp := testSpace(t)

	lis, err := net.Listen("tcp", "127.0.0.1:0")
	if err != nil {
		t.Fatalf("listen: %v", err)
	}
	defer lis.Close()
	remoteAddr := lis.Addr().String()

	remoteSelf := domain.Node{ID: sp.NewIdFromString(remoteAddr), Addr: remoteAddr}
	remoteFT := fingertable.New(&remoteSelf, sp, sp.SuccListSize)
	remoteFT.InitSingleNode()
	tail := domain.Node{ID: sp.NewIdFromString("tail"), Addr: "127.0.0.1:9"}
	remoteFT.SetSuccessor(0, &tail)

	grpcSrv := grpc.NewServer()
	rpc.RegisterChordServer(grpcSrv, &succListTestServer{ft: remoteFT})
	go grpcSrv.Serve(lis)
	defer grpcSrv.Stop()

	n := newSoloNode(t, "127.0.0.1:9022")
	remotePeer := domain.Node{ID: sp.NewIdFromString(remoteAddr), Addr: remoteAddr}
	if err := n.pool.AddRef(remotePeer.Addr); err != nil {
		t.Fatalf("AddRef(remotePeer): %v", err)
	}
	n.ft.SetSuccessor(0, &remotePeer)

	n.fixSuccessorList(context.Background())

	got := n.ft.GetSuccessor(1)
	if got == nil || !got.ID.Equal(tail.ID) {
		t.Errorf("successor[1] = %v, want %v (spliced from the remote's own list)", got, tail)
	}
	if _, err := n.pool.GetFromPool(tail.Addr); err != nil {
		t.Errorf("GetFromPool(tail) after splice = %v, want a ref to have been added", err)
	}
}
