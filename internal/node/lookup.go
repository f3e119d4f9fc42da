package node

import (
	"ChordDHT/internal/domain"
	"ChordDHT/internal/logger"
	"context"
)

// FindSuccessor resolves the live node responsible for key (§4.4). It is
// recursive in the distributed sense: when this node is not the answer
// it delegates the whole call to the closest preceding finger it can
// still reach, rather than returning a hop for the caller to follow.
func (n *Node) FindSuccessor(ctx context.Context, key domain.ID) (domain.Node, error) {
	if err := n.checkDeparted(); err != nil {
		return domain.Node{}, err
	}

	succ := n.resolveLiveSuccessor(ctx)

	if key.Between(n.self.ID, succ.ID) {
		return succ, nil
	}

	for _, i := range n.ft.ReverseFingers() {
		f := n.ft.GetFinger(i)
		if f == nil {
			continue
		}
		if !n.space.InRange(true, n.self.ID, f.ID, key, false) {
			continue
		}

		result, ok := n.delegateFindSuccessor(ctx, *f, key)
		if ok {
			return result, nil
		}
		// Dead finger: clear it. If it doubled as the successor
		// pointer, reset the successor to self and release its ref.
		if i == 0 {
			n.revertSuccessorToSelf(*f)
		} else {
			n.ft.SetFinger(i, nil)
		}
		n.lgr.Debug("findSuccessor: cleared dead finger", logger.F("index", i), logger.FNode("node", f))
	}

	// No finger helped; this node is its own best approximation.
	return n.self, nil
}

func (n *Node) delegateFindSuccessor(ctx context.Context, peer domain.Node, key domain.ID) (domain.Node, bool) {
	handle, closer, err := n.handleFor(peer)
	if err != nil {
		return domain.Node{}, false
	}
	defer closer()
	result, err := handle.FindSuccessor(ctx, key)
	if err != nil || result == nil {
		return domain.Node{}, false
	}
	return *result, true
}

// resolveLiveSuccessor probes the current successor and, if it is dead,
// promotes the first reachable candidate from the successor list before
// degrading to self (the spec's documented fallback). A reachable
// candidate is one that answers GetNodeKey, the cheap liveness probe.
func (n *Node) resolveLiveSuccessor(ctx context.Context) domain.Node {
	succ := n.ft.FirstSuccessor()
	if succ == nil {
		n.ft.SetSuccessor(0, &n.self)
		return n.self
	}
	if succ.ID.Equal(n.self.ID) || n.probe(ctx, *succ) {
		return *succ
	}

	n.lgr.Warn("findSuccessor: successor unreachable, searching successor list", logger.FNode("dead", succ))
	for i := 1; i < n.ft.SuccListSize(); i++ {
		candidate := n.ft.GetSuccessor(i)
		if candidate == nil {
			continue
		}
		if candidate.ID.Equal(n.self.ID) || n.probe(ctx, *candidate) {
			n.releaseSuccessorRange(0, i)
			n.ft.PromoteCandidate(i)
			n.lgr.Info("findSuccessor: promoted successor list candidate", logger.FNode("new", candidate))
			return *candidate
		}
	}

	n.lgr.Warn("findSuccessor: no live successor candidates, reverting to self")
	n.releaseSuccessorRange(0, n.ft.SuccListSize())
	n.ft.SetSuccessor(0, &n.self)
	return n.self
}

// releaseSuccessorRange drops the pool ref for every non-self successor-
// list entry in [from, to): everything a promotion or a full revert is
// about to discard from the list.
func (n *Node) releaseSuccessorRange(from, to int) {
	for i := from; i < to; i++ {
		dead := n.ft.GetSuccessor(i)
		if dead == nil || dead.ID.Equal(n.self.ID) {
			continue
		}
		if err := n.pool.Release(dead.Addr); err != nil {
			n.lgr.Warn("resolveLiveSuccessor: release dead candidate failed", logger.FNode("node", dead), logger.F("err", err))
		}
	}
}

// probe is the cheap liveness check (§4.3 getNodeKey).
func (n *Node) probe(ctx context.Context, peer domain.Node) bool {
	handle, closer, err := n.handleFor(peer)
	if err != nil {
		return false
	}
	defer closer()
	_, err = handle.GetNodeKey(ctx)
	return err == nil
}
