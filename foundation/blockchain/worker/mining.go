package worker

import (
	"context"
	"errors"
)

// miningLoop mines a block each time mining is signaled until shutdown.
func (w *Worker) miningLoop() {
	w.evHandler("worker: miningLoop: started: beneficiary[%s]", w.beneficiary)
	defer w.evHandler("worker: miningLoop: completed")

	for {
		select {
		case <-w.start:
			if w.isShutdown() {
				return
			}
			w.mineBlock()

		case <-w.shut:
			return
		}
	}
}

// mineBlock mines the pending pool into one block. It is a no-op when
// nothing is pending. A cancel or shutdown signal aborts the search.
func (w *Worker) mineBlock() {
	pending := len(w.state.QueryPending())
	if pending == 0 {
		w.evHandler("worker: mineBlock: nothing pending")
		return
	}

	// A cancel left over from a previous block must not abort this one.
	select {
	case <-w.cancel:
	default:
	}

	ctx, cancel := context.WithCancel(context.Background())

	watching := make(chan struct{})
	go func() {
		defer close(watching)

		select {
		case <-w.cancel:
			w.evHandler("worker: mineBlock: cancel requested")
		case <-w.shut:
			w.evHandler("worker: mineBlock: shutdown requested")
		case <-ctx.Done():
			return
		}
		cancel()
	}()

	w.evHandler("worker: mineBlock: started: pending[%d]", pending)
	res, err := w.state.MinePendingTransactions(ctx, w.beneficiary)

	cancel()
	<-watching

	switch {
	case errors.Is(err, context.Canceled):
		w.evHandler("worker: mineBlock: cancelled: attempts[%d]: duration[%v]", res.Attempts, res.Duration)
		return

	case err != nil:
		w.evHandler("worker: mineBlock: ERROR: %s", err)
		return
	}

	w.evHandler("worker: mineBlock: mined: blk[%s]: trans[%d]: attempts[%d]: duration[%v]",
		res.Block.Hash, len(res.Block.Trans), res.Attempts, res.Duration)

	// Transactions submitted while this block was mined need a block too.
	if n := len(w.state.QueryPending()); n > 0 && !w.isShutdown() {
		w.SignalStartMining()
	}
}
