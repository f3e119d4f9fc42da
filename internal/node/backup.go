package node

import (
	"ChordDHT/internal/domain"
	"ChordDHT/internal/logger"
	"context"
	"errors"
)

// forwardValuesForBackup restores I2 after neighbor changes (§4.5). It
// runs as its own task off the maintainer tick so a slow pass never
// delays stabilization. Let P = predecessor, PP = predecessor-of-
// predecessor, S = successor, N = self; if either P or PP cannot be
// determined, the pass is skipped entirely rather than guessing.
func (n *Node) forwardValuesForBackup(ctx context.Context) {
	if n.hasLeft.Load() {
		return
	}
	pred := n.ft.GetPredecessor()
	succ := n.ft.FirstSuccessor()
	if pred == nil || succ == nil {
		return
	}

	pp, ok := n.predecessorOf(ctx, *pred)
	if !ok || pp == nil {
		n.lgr.Debug("forwardValuesForBackup: predecessor-of-predecessor unreachable, skipping pass")
		return
	}

	toPred, err := n.store.Between(pp.ID, pred.ID)
	if err != nil {
		n.lgr.Warn("forwardValuesForBackup: range query for predecessor window failed", logger.F("err", err))
	}
	for _, res := range toPred {
		n.shipBackup(ctx, *pred, res)
	}

	toSucc, err := n.store.Between(pred.ID, n.self.ID)
	if err != nil {
		n.lgr.Warn("forwardValuesForBackup: range query for successor window failed", logger.F("err", err))
	}
	for _, res := range toSucc {
		n.shipBackup(ctx, *succ, res)
	}

	for _, res := range n.store.All() {
		if !res.Key.Between(pp.ID, n.self.ID) {
			n.pruneLocal(res.Key)
		}
	}
}

func (n *Node) predecessorOf(ctx context.Context, peer domain.Node) (*domain.Node, bool) {
	if peer.ID.Equal(n.self.ID) {
		return n.ft.GetPredecessor(), true
	}
	handle, closer, err := n.handleFor(peer)
	if err != nil {
		return nil, false
	}
	defer closer()
	pp, err := handle.GetPredecessor(ctx)
	if err != nil {
		return nil, false
	}
	return pp, true
}

func (n *Node) shipBackup(ctx context.Context, target domain.Node, res domain.Resource) {
	if target.ID.Equal(n.self.ID) {
		return
	}
	handle, closer, err := n.handleFor(target)
	if err != nil {
		n.lgr.Warn("forwardValuesForBackup: dial failed", logger.FNode("target", &target), logger.F("err", err))
		return
	}
	defer closer()
	if err := handle.PutBackup(ctx, res); err != nil {
		n.lgr.Warn("forwardValuesForBackup: putBackup failed", logger.FNode("target", &target), logger.FResource("resource", res), logger.F("err", err))
	}
}

func (n *Node) pruneLocal(key domain.ID) {
	if err := n.store.Delete(key); err != nil && !errors.Is(err, domain.ErrResourceNotFound) {
		n.lgr.Warn("forwardValuesForBackup: prune failed", logger.F("key", key.String()), logger.F("err", err))
		return
	}
	n.lgr.Debug("forwardValuesForBackup: pruned out-of-window key", logger.F("key", key.String()))
}

// PutBackupLocal unconditionally stores a backup copy, subject only to
// has-left. No routing, no further forwarding.
func (n *Node) PutBackupLocal(res domain.Resource) error {
	if err := n.checkDeparted(); err != nil {
		return err
	}
	n.store.Put(res)
	return nil
}

// RemoveBackupLocal unconditionally removes a backup copy, subject only
// to has-left. Applying it to an already-absent key is a no-op outcome
// (the caller may still see ErrResourceNotFound, but state is identical
// to having never removed it).
func (n *Node) RemoveBackupLocal(id domain.ID) error {
	if err := n.checkDeparted(); err != nil {
		return err
	}
	return n.store.Delete(id)
}
