package fingertable

import (
	"ChordDHT/internal/domain"
	"testing"
)

func newTestTable(t *testing.T, key uint64) (*FingerTable, domain.Space) {
	t.Helper()
	sp, err := domain.NewSpace(8, 3)
	if err != nil {
		t.Fatalf("NewSpace: %v", err)
	}
	self := &domain.Node{ID: sp.FromUint64(key), Addr: "self:0"}
	return New(self, sp, sp.SuccListSize), sp
}

func TestFingerTable_InitSingleNode(t *testing.T) {
	ft, _ := newTestTable(t, 10)
	ft.InitSingleNode()

	if ft.GetPredecessor() != nil {
		t.Error("predecessor should be nil after InitSingleNode")
	}
	if got := ft.FirstSuccessor(); got == nil || !got.ID.Equal(ft.Self().ID) {
		t.Error("successor should be self after InitSingleNode")
	}
	if got := ft.GetFinger(0); got == nil || !got.ID.Equal(ft.Self().ID) {
		t.Error("finger[0] should be self after InitSingleNode")
	}
}

func TestFingerTable_SetSuccessorMirrorsFinger0(t *testing.T) {
	ft, sp := newTestTable(t, 10)
	ft.InitSingleNode()
	peer := &domain.Node{ID: sp.FromUint64(20), Addr: "peer:0"}
	ft.SetSuccessor(0, peer)
	if got := ft.GetFinger(0); !got.ID.Equal(peer.ID) {
		t.Error("SetSuccessor(0,...) should mirror into finger[0]")
	}
}

func TestFingerTable_PromoteCandidate(t *testing.T) {
	ft, sp := newTestTable(t, 10)
	a := &domain.Node{ID: sp.FromUint64(11), Addr: "a"}
	b := &domain.Node{ID: sp.FromUint64(12), Addr: "b"}
	c := &domain.Node{ID: sp.FromUint64(13), Addr: "c"}
	ft.SetSuccessorList([]*domain.Node{a, b, c})

	ft.PromoteCandidate(1)

	if got := ft.GetSuccessor(0); !got.ID.Equal(b.ID) {
		t.Errorf("after promoting index 1, successor(0) = %v, want b", got)
	}
	if got := ft.GetSuccessor(1); !got.ID.Equal(c.ID) {
		t.Errorf("after promoting index 1, successor(1) = %v, want c", got)
	}
	if got := ft.GetSuccessor(2); got != nil {
		t.Errorf("after promoting index 1, successor(2) should be nil, got %v", got)
	}
}

func TestFingerTable_FingerStart(t *testing.T) {
	ft, sp := newTestTable(t, 14) // m=8, key=14
	// finger 1 start = (14 + 2) mod 256 = 16
	got := ft.FingerStart(1)
	if got.ToBigInt().Uint64() != 16 {
		t.Errorf("FingerStart(1) = %v, want 16", got)
	}
	_ = sp
}

func TestFingerTable_ReverseFingersOrder(t *testing.T) {
	ft, _ := newTestTable(t, 1)
	rev := ft.ReverseFingers()
	fwd := ft.ForwardFingers()
	if len(rev) != len(fwd) {
		t.Fatal("forward/reverse finger index lists must be the same length")
	}
	for i := range rev {
		if rev[i] != fwd[len(fwd)-1-i] {
			t.Fatalf("ReverseFingers()[%d] = %d, want %d", i, rev[i], fwd[len(fwd)-1-i])
		}
	}
}
