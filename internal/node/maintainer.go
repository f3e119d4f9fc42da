package node

import (
	"context"
	"time"
)

// StartMaintainer launches the single background maintainer task
// (§4.4): every fixInterval it runs stabilize() and one fixFinger pass
// in order, then spawns forwardValuesForBackup as an independent task so
// a slow backup pass cannot delay the next stabilization tick. The loop
// stops when ctx is cancelled, or when StopMaintainer or Leave cancels it.
func (n *Node) StartMaintainer(ctx context.Context) {
	ctx, cancel := context.WithCancel(ctx)
	n.cancelMaintainer = cancel
	n.maintainerDone = make(chan struct{})

	go func() {
		defer close(n.maintainerDone)
		ticker := time.NewTicker(n.fixInterval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				n.lgr.Info("maintainer: stopped")
				return
			case <-ticker.C:
				if n.hasLeft.Load() {
					return
				}
				tickCtx, tickCancel := context.WithTimeout(ctx, n.pool.FailureTimeout())
				n.stabilize(tickCtx)
				n.fixSuccessorList(tickCtx)
				n.fixFinger(tickCtx, n.ft.RandomFinger())
				tickCancel()

				n.ft.DebugLog()
				n.store.DebugLog()
				n.pool.DebugLog()
				go n.forwardValuesForBackup(ctx)
			}
		}
	}()
}

// StopMaintainer blocks until the maintainer goroutine has exited,
// for deterministic shutdown sequencing.
func (n *Node) StopMaintainer() {
	if n.cancelMaintainer != nil {
		n.cancelMaintainer()
	}
	if n.maintainerDone != nil {
		<-n.maintainerDone
	}
}
