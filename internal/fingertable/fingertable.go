package fingertable

import (
	"ChordDHT/internal/domain"
	"ChordDHT/internal/logger"
	"math/rand"
	"sync"
)

// entry is a single mutex-protected slot holding a remote node handle.
// Readers tolerate replacement without locking around their own use of
// the returned handle; staleness is absorbed by the caller's error path.
type entry struct {
	mu   sync.RWMutex
	node *domain.Node
}

func (e *entry) get() *domain.Node {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.node
}

func (e *entry) set(n *domain.Node) {
	e.mu.Lock()
	e.node = n
	e.mu.Unlock()
}

// FingerTable holds the m finger entries plus the successor list and
// predecessor of a single Chord node.
type FingerTable struct {
	logger logger.Logger
	space  domain.Space
	self   *domain.Node

	successorList []*entry
	succListSize  int

	predecessor *entry

	finger []*entry // size == space.Bits
}

// Option configures a FingerTable at construction time.
type Option func(*FingerTable)

// WithLogger attaches a logger used for DebugLog and mutation tracing.
func WithLogger(l logger.Logger) Option {
	return func(ft *FingerTable) { ft.logger = l }
}

// New builds an empty FingerTable for self. All slots start nil; call
// InitSingleNode to bootstrap a new one-node ring.
func New(self *domain.Node, space domain.Space, succListSize int, opts ...Option) *FingerTable {
	ft := &FingerTable{
		logger:        logger.NopLogger{},
		space:         space,
		self:          self,
		successorList: make([]*entry, succListSize),
		succListSize:  succListSize,
		predecessor:   &entry{},
		finger:        make([]*entry, space.Bits),
	}
	for i := range ft.successorList {
		ft.successorList[i] = &entry{}
	}
	for i := range ft.finger {
		ft.finger[i] = &entry{}
	}
	return ft
}

// InitSingleNode sets every successor slot and every finger to self and
// clears the predecessor (unknown), the state of a freshly-created ring
// of one.
func (ft *FingerTable) InitSingleNode() {
	for _, e := range ft.successorList {
		e.set(ft.self)
	}
	for _, e := range ft.finger {
		e.set(ft.self)
	}
	ft.predecessor.set(nil)
}

func (ft *FingerTable) Space() domain.Space { return ft.space }
func (ft *FingerTable) Self() *domain.Node  { return ft.self }
func (ft *FingerTable) SuccListSize() int   { return ft.succListSize }

// GetSuccessor returns the i-th entry of the successor list (0 is the
// immediate successor).
func (ft *FingerTable) GetSuccessor(i int) *domain.Node {
	return ft.successorList[i].get()
}

// FirstSuccessor returns the immediate successor, finger[0].
func (ft *FingerTable) FirstSuccessor() *domain.Node {
	return ft.successorList[0].get()
}

// SetSuccessor sets the i-th successor-list entry and mirrors index 0
// into finger[0], since the successor pointer doubles as the first
// finger entry.
func (ft *FingerTable) SetSuccessor(i int, node *domain.Node) {
	ft.successorList[i].set(node)
	if i == 0 {
		ft.finger[0].set(node)
	}
}

// SuccessorList returns the non-nil entries of the successor list, in
// order, compacted.
func (ft *FingerTable) SuccessorList() []*domain.Node {
	out := make([]*domain.Node, 0, len(ft.successorList))
	for _, e := range ft.successorList {
		if n := e.get(); n != nil {
			out = append(out, n)
		}
	}
	ft.logger.Debug("successor list snapshot", logger.F("count", len(out)))
	return out
}

// SetSuccessorList replaces the successor list wholesale; it must carry
// exactly succListSize entries (nil entries pad the tail).
func (ft *FingerTable) SetSuccessorList(nodes []*domain.Node) {
	if len(nodes) != ft.succListSize {
		ft.logger.Warn("SetSuccessorList: length mismatch", logger.F("got", len(nodes)), logger.F("want", ft.succListSize))
		return
	}
	for i, n := range nodes {
		ft.SetSuccessor(i, n)
	}
}

// PromoteCandidate restructures the successor list so that entry i
// becomes the new head: it and everything after it shift up, everything
// before it is discarded, and the tail is padded with nil. Used when the
// current successor is found dead and a later entry must take its place.
func (ft *FingerTable) PromoteCandidate(i int) {
	if i <= 0 || i >= len(ft.successorList) {
		return
	}
	old := make([]*domain.Node, len(ft.successorList))
	for j, e := range ft.successorList {
		old[j] = e.get()
	}
	next := make([]*domain.Node, len(old))
	copy(next, old[i:])
	ft.SetSuccessorList(next)
}

// GetPredecessor returns the current predecessor, or nil if unknown.
func (ft *FingerTable) GetPredecessor() *domain.Node {
	return ft.predecessor.get()
}

// SetPredecessor replaces the current predecessor.
func (ft *FingerTable) SetPredecessor(node *domain.Node) {
	ft.predecessor.set(node)
}

// GetFinger returns finger entry i (0 <= i < m).
func (ft *FingerTable) GetFinger(i int) *domain.Node {
	return ft.finger[i].get()
}

// SetFinger replaces finger entry i.
func (ft *FingerTable) SetFinger(i int, node *domain.Node) {
	ft.finger[i].set(node)
	if i == 0 {
		ft.successorList[0].set(node)
	}
}

// FingerStart returns the immutable start offset of finger i:
// (nodeKey + 2^i) mod 2^m.
func (ft *FingerTable) FingerStart(i int) domain.ID {
	return ft.space.AddPow2Mod(ft.self.ID, i)
}

// ForwardFingers returns finger indices 0..m-1 in order, for repair and
// inspection.
func (ft *FingerTable) ForwardFingers() []int {
	out := make([]int, len(ft.finger))
	for i := range out {
		out[i] = i
	}
	return out
}

// ReverseFingers returns finger indices m-1..0, the order
// closest-preceding-finger routing walks in.
func (ft *FingerTable) ReverseFingers() []int {
	out := make([]int, len(ft.finger))
	for i := range out {
		out[i] = len(ft.finger) - 1 - i
	}
	return out
}

// RandomFinger returns the index of one finger chosen uniformly, for the
// maintainer's per-tick fixFinger.
func (ft *FingerTable) RandomFinger() int {
	return rand.Intn(len(ft.finger))
}

// FingerList returns the non-nil finger entries, compacted, for
// diagnostics.
func (ft *FingerTable) FingerList() []*domain.Node {
	out := make([]*domain.Node, 0, len(ft.finger))
	for _, e := range ft.finger {
		if n := e.get(); n != nil {
			out = append(out, n)
		}
	}
	return out
}

// DebugLog emits one compact structured snapshot of self, predecessor,
// successor list, and finger table.
func (ft *FingerTable) DebugLog() {
	pred := ft.GetPredecessor()
	var predField any
	if pred != nil {
		predField = map[string]any{"id": pred.ID.String(), "addr": pred.Addr}
	}
	succSnap := make([]map[string]any, 0, len(ft.successorList))
	for _, e := range ft.successorList {
		if n := e.get(); n != nil {
			succSnap = append(succSnap, map[string]any{"id": n.ID.String(), "addr": n.Addr})
		} else {
			succSnap = append(succSnap, nil)
		}
	}
	fingerSnap := make([]map[string]any, len(ft.finger))
	for _, i := range ft.ForwardFingers() {
		if n := ft.GetFinger(i); n != nil {
			fingerSnap[i] = map[string]any{"id": n.ID.String(), "addr": n.Addr}
		}
	}
	ft.logger.Debug("fingertable snapshot",
		logger.F("self", ft.self.ID.String()),
		logger.F("predecessor", predField),
		logger.F("successorList", succSnap),
		logger.F("successorListPopulated", len(ft.SuccessorList())),
		logger.F("finger", fingerSnap),
		logger.F("fingerPopulated", len(ft.FingerList())),
	)
}
