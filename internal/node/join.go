package node

import (
	"ChordDHT/internal/domain"
	"ChordDHT/internal/logger"
	"context"
	"fmt"
)

// Join attaches this node to the ring. A nil bootstrap starts a new
// ring of one; otherwise bootstrap is asked to resolve this node's own
// successor, and that successor is asked to adopt self as a candidate
// predecessor. The predecessor is otherwise left unknown; stabilization
// fills it in.
func (n *Node) Join(ctx context.Context, bootstrap *domain.Node) error {
	if err := n.checkDeparted(); err != nil {
		return err
	}

	if bootstrap == nil {
		n.ft.InitSingleNode()
		n.lgr.Info("join: started new ring", logger.FNode("self", &n.self))
		return nil
	}

	handle, closer, err := n.handleFor(*bootstrap)
	if err != nil {
		return fmt.Errorf("node: join: dial bootstrap %s: %w", bootstrap.Addr, err)
	}
	defer closer()

	succ, err := handle.FindSuccessor(ctx, n.self.ID)
	if err != nil {
		return fmt.Errorf("node: join: bootstrap findSuccessor: %w", err)
	}
	if succ == nil {
		return fmt.Errorf("node: join: bootstrap returned no successor")
	}

	if err := n.pool.AddRef(succ.Addr); err != nil {
		return fmt.Errorf("node: join: addref successor %s: %w", succ.Addr, err)
	}
	n.ft.SetSuccessor(0, succ)
	n.lgr.Info("join: resolved successor", logger.FNode("successor", succ))

	if !succ.ID.Equal(n.self.ID) {
		succHandle, succCloser, err := n.handleFor(*succ)
		if err != nil {
			n.lgr.Warn("join: could not volunteer as predecessor", logger.F("err", err))
			return nil
		}
		defer succCloser()
		if err := succHandle.CheckPredecessor(ctx, n.self); err != nil {
			n.lgr.Warn("join: checkPredecessor on successor failed", logger.F("err", err))
		}
	}
	return nil
}

// Leave sets has-left, which causes all subsequent remote-facing
// operations to fail, cancels the background maintainer started by
// StartMaintainer (without waiting for it to exit; StopMaintainer does
// that), and closes every pooled connection. It does not notify peers:
// they discover the departure through RPC failure.
func (n *Node) Leave() {
	n.hasLeft.Store(true)
	if n.cancelMaintainer != nil {
		n.cancelMaintainer()
	}
	n.pool.CloseAll()
	n.lgr.Info("leave: node has left the ring", logger.FNode("self", &n.self))
}

// CheckPredecessor handles an inbound candidate-predecessor hint
// (§4.4). If candidate lies strictly in (predecessor, self) — or the
// current predecessor is unknown/unreachable — it is adopted. Adopting
// a predecessor does not by itself prune storage; forwardValuesForBackup
// handles redistribution on the next maintainer tick.
func (n *Node) CheckPredecessor(ctx context.Context, candidate domain.Node) error {
	if err := n.checkDeparted(); err != nil {
		return err
	}
	if candidate.ID.Equal(n.self.ID) {
		return nil
	}

	pred := n.ft.GetPredecessor()
	adopt := pred == nil
	if !adopt {
		adopt = !n.probe(ctx, *pred) || n.space.InRange(true, pred.ID, candidate.ID, n.self.ID, false)
	}
	if !adopt {
		return nil
	}

	if err := n.pool.AddRef(candidate.Addr); err != nil {
		n.lgr.Warn("checkPredecessor: addref failed", logger.FNode("candidate", &candidate), logger.F("err", err))
	}
	n.ft.SetPredecessor(&candidate)
	if pred != nil {
		if err := n.pool.Release(pred.Addr); err != nil {
			n.lgr.Warn("checkPredecessor: release old predecessor failed", logger.FNode("old", pred), logger.F("err", err))
		}
	}
	n.lgr.Info("checkPredecessor: adopted new predecessor", logger.FNode("predecessor", &candidate))
	return nil
}
