package node

import (
	"ChordDHT/internal/domain"
	"ChordDHT/internal/logger"
	"context"
)

// fixSuccessorList refreshes the successor list beyond the immediate
// successor (§4.4's stabilize companion): it asks the successor for its
// own successor list and splices it in one position behind, so
// redundancy actually propagates around the ring instead of sitting
// permanently empty. Run once per maintainer tick.
func (n *Node) fixSuccessorList(ctx context.Context) {
	succ := n.ft.FirstSuccessor()
	if succ == nil || succ.ID.Equal(n.self.ID) {
		return
	}

	handle, closer, err := n.handleFor(*succ)
	if err != nil {
		n.lgr.Debug("fixSuccessorList: dial failed", logger.FNode("successor", succ), logger.F("err", err))
		return
	}
	remoteList, err := handle.GetSuccessorList(ctx)
	closer()
	if err != nil {
		n.lgr.Debug("fixSuccessorList: query failed", logger.FNode("successor", succ), logger.F("err", err))
		return
	}

	size := n.ft.SuccListSize()
	next := make([]*domain.Node, size)
	next[0] = succ
	for i := 1; i < size && i-1 < len(remoteList); i++ {
		candidate := remoteList[i-1]
		if candidate.ID.Equal(n.self.ID) {
			break
		}
		next[i] = &candidate
	}

	old := n.ft.SuccessorList()
	oldAddrs := make(map[string]bool, len(old))
	for _, o := range old {
		oldAddrs[o.Addr] = true
	}
	newAddrs := make(map[string]bool, size)
	for _, nd := range next {
		if nd != nil {
			newAddrs[nd.Addr] = true
		}
	}

	for addr := range newAddrs {
		if oldAddrs[addr] {
			continue
		}
		if err := n.pool.AddRef(addr); err != nil {
			n.lgr.Warn("fixSuccessorList: addref failed", logger.F("addr", addr), logger.F("err", err))
		}
	}
	for addr := range oldAddrs {
		if newAddrs[addr] {
			continue
		}
		if err := n.pool.Release(addr); err != nil {
			n.lgr.Warn("fixSuccessorList: release failed", logger.F("addr", addr), logger.F("err", err))
		}
	}

	n.ft.SetSuccessorList(next)
	n.lgr.Debug("fixSuccessorList: refreshed", logger.F("depth", len(newAddrs)))
}
