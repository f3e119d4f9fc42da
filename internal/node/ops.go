package node

import (
	"ChordDHT/internal/domain"
	"ChordDHT/internal/logger"
	"context"
	"fmt"
)

func (n *Node) validateID(id domain.ID) error {
	if err := n.space.IsValidID([]byte(id)); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidArgument, err)
	}
	return nil
}

// checkResponsible rejects a key outside (predecessor, self], the
// interval this node currently owns as primary. An unknown predecessor
// (solo ring, or not yet stabilized) is treated as "own everything"
// rather than guessed at.
func (n *Node) checkResponsible(key domain.ID) error {
	pred := n.ft.GetPredecessor()
	if pred == nil {
		return nil
	}
	if !key.Between(pred.ID, n.self.ID) {
		return domain.ErrNotResponsible
	}
	return nil
}

// Put stores res in the DHT, routing to its key's successor and
// mirroring to that successor's immediate successor as a backup
// (§4.4). Bounds errors bypass the retry harness; everything else is
// retried up to the harness bound before surfacing NetworkHosed.
func (n *Node) Put(ctx context.Context, res domain.Resource) error {
	if err := n.validateID(res.Key); err != nil {
		return err
	}
	_, err := withRetry(ctx, n, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, n.routePut(ctx, res)
	})
	return err
}

func (n *Node) routePut(ctx context.Context, res domain.Resource) error {
	target, err := n.FindSuccessor(ctx, res.Key)
	if err != nil {
		return err
	}
	if target.ID.Equal(n.self.ID) {
		return n.PutLocal(ctx, res)
	}
	handle, closer, err := n.handleFor(target)
	if err != nil {
		return err
	}
	defer closer()
	return handle.Put(ctx, res)
}

// PutLocal stores res on this node directly, with no further routing: it
// is what a peer's Put RPC handler calls once the caller's own routing
// has already determined this node owns res.Key. Mirrors to the
// immediate successor as a backup.
func (n *Node) PutLocal(ctx context.Context, res domain.Resource) error {
	if err := n.checkDeparted(); err != nil {
		return err
	}
	if err := n.checkResponsible(res.Key); err != nil {
		return err
	}
	n.store.Put(res)
	n.mirrorToSuccessor(ctx, res)
	return nil
}

// mirrorToSuccessor best-effort ships a freshly-written primary to the
// immediate successor as a backup. A failure is logged and not returned,
// so it never triggers a retry; the next forwardValuesForBackup pass
// ships the primary to the successor again.
func (n *Node) mirrorToSuccessor(ctx context.Context, res domain.Resource) {
	succ := n.ft.FirstSuccessor()
	if succ == nil || succ.ID.Equal(n.self.ID) {
		return
	}
	handle, closer, err := n.handleFor(*succ)
	if err != nil {
		n.lgr.Warn("put: failed to mirror backup to successor", logger.FNode("successor", succ), logger.F("err", err))
		return
	}
	defer closer()
	if err := handle.PutBackup(ctx, res); err != nil {
		n.lgr.Warn("put: backup mirror rejected by successor", logger.FNode("successor", succ), logger.F("err", err))
	}
}

// Get retrieves the value stored under id. A missing key surfaces
// domain.ErrResourceNotFound directly, distinct from NetworkHosed.
func (n *Node) Get(ctx context.Context, id domain.ID) (string, error) {
	if err := n.validateID(id); err != nil {
		return "", err
	}
	return withRetry(ctx, n, func(ctx context.Context) (string, error) {
		return n.routeGet(ctx, id)
	})
}

func (n *Node) routeGet(ctx context.Context, id domain.ID) (string, error) {
	target, err := n.FindSuccessor(ctx, id)
	if err != nil {
		return "", err
	}
	if target.ID.Equal(n.self.ID) {
		return n.GetLocal(id)
	}
	handle, closer, err := n.handleFor(target)
	if err != nil {
		return "", err
	}
	defer closer()
	return handle.Get(ctx, id)
}

// GetLocal reads id from this node's own store directly, with no
// further routing: what a peer's Get RPC handler calls once the
// caller's own routing has already determined this node owns id.
func (n *Node) GetLocal(id domain.ID) (string, error) {
	if err := n.checkDeparted(); err != nil {
		return "", err
	}
	res, err := n.store.Get(id)
	if err != nil {
		return "", err
	}
	return res.Value, nil
}

// Delete removes id from the DHT, routing to its key's successor and
// removing the mirrored backup at that successor's immediate successor.
func (n *Node) Delete(ctx context.Context, id domain.ID) error {
	if err := n.validateID(id); err != nil {
		return err
	}
	_, err := withRetry(ctx, n, func(ctx context.Context) (struct{}, error) {
		return struct{}{}, n.routeDelete(ctx, id)
	})
	return err
}

func (n *Node) routeDelete(ctx context.Context, id domain.ID) error {
	target, err := n.FindSuccessor(ctx, id)
	if err != nil {
		return err
	}
	if target.ID.Equal(n.self.ID) {
		return n.DeleteLocal(ctx, id)
	}
	handle, closer, err := n.handleFor(target)
	if err != nil {
		return err
	}
	defer closer()
	return handle.Delete(ctx, id)
}

// DeleteLocal removes id from this node's own store directly, with no
// further routing: what a peer's Delete RPC handler calls once the
// caller's own routing has already determined this node owns id.
func (n *Node) DeleteLocal(ctx context.Context, id domain.ID) error {
	if err := n.checkDeparted(); err != nil {
		return err
	}
	if err := n.checkResponsible(id); err != nil {
		return err
	}
	if err := n.store.Delete(id); err != nil {
		return err
	}
	n.unmirrorFromSuccessor(ctx, id)
	return nil
}

func (n *Node) unmirrorFromSuccessor(ctx context.Context, id domain.ID) {
	succ := n.ft.FirstSuccessor()
	if succ == nil || succ.ID.Equal(n.self.ID) {
		return
	}
	handle, closer, err := n.handleFor(*succ)
	if err != nil {
		n.lgr.Warn("delete: failed to clear backup at successor", logger.FNode("successor", succ), logger.F("err", err))
		return
	}
	defer closer()
	if err := handle.RemoveBackup(ctx, id); err != nil {
		n.lgr.Warn("delete: backup removal rejected by successor", logger.FNode("successor", succ), logger.F("err", err))
	}
}
