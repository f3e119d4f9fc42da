package node

import (
	"ChordDHT/internal/domain"
	"ChordDHT/internal/logger"
	"context"
)

// stabilize reconciles this node's successor/predecessor view with its
// successor's actual predecessor (§4.4). It probes the successor first
// (promoting from the successor list or degrading to self on death),
// adopts the successor's predecessor if it is a closer fit, then
// notifies the (possibly new) successor that self may be its
// predecessor.
func (n *Node) stabilize(ctx context.Context) {
	succ := n.resolveLiveSuccessor(ctx)

	if !succ.ID.Equal(n.self.ID) {
		handle, closer, err := n.handleFor(succ)
		if err != nil {
			n.lgr.Warn("stabilize: failed to dial successor", logger.FNode("successor", &succ), logger.F("err", err))
			return
		}
		p, err := handle.GetPredecessor(ctx)
		closer()
		if err != nil {
			n.lgr.Warn("stabilize: getPredecessor on successor failed", logger.FNode("successor", &succ), logger.F("err", err))
		} else if p != nil && n.space.InRange(true, n.self.ID, p.ID, succ.ID, false) {
			if err := n.pool.AddRef(p.Addr); err != nil {
				n.lgr.Warn("stabilize: addref new successor failed", logger.FNode("new", p), logger.F("err", err))
			}
			n.ft.SetSuccessor(0, p)
			if err := n.pool.Release(succ.Addr); err != nil {
				n.lgr.Warn("stabilize: release old successor failed", logger.FNode("old", &succ), logger.F("err", err))
			}
			succ = *p
			n.lgr.Info("stabilize: adopted closer successor", logger.FNode("successor", p))
		}
	}

	if succ.ID.Equal(n.self.ID) {
		return
	}

	handle, closer, err := n.handleFor(succ)
	if err != nil {
		n.lgr.Warn("stabilize: failed to dial successor for notify", logger.FNode("successor", &succ), logger.F("err", err))
		n.revertSuccessorToSelf(succ)
		return
	}
	defer closer()
	if err := handle.CheckPredecessor(ctx, n.self); err != nil {
		n.lgr.Warn("stabilize: notify failed, reverting successor to self", logger.FNode("successor", &succ), logger.F("err", err))
		n.revertSuccessorToSelf(succ)
	}
}

// revertSuccessorToSelf degrades the immediate successor to self and
// releases the pool ref the dead peer held, so an unreachable successor
// never leaks its connection.
func (n *Node) revertSuccessorToSelf(dead domain.Node) {
	if err := n.pool.Release(dead.Addr); err != nil {
		n.lgr.Warn("revertSuccessorToSelf: release failed", logger.FNode("dead", &dead), logger.F("err", err))
	}
	n.ft.SetSuccessor(0, &n.self)
}

// fixFinger recomputes one finger table entry by looking up the
// successor of its immutable start offset.
func (n *Node) fixFinger(ctx context.Context, i int) {
	start := n.ft.FingerStart(i)
	result, err := n.FindSuccessor(ctx, start)
	if err != nil {
		n.lgr.Debug("fixFinger: lookup failed, clearing entry", logger.F("index", i), logger.F("err", err))
		n.ft.SetFinger(i, nil)
		return
	}
	n.ft.SetFinger(i, &result)
}
