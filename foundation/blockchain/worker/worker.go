// Package worker mines the pending pool in the background so submitting a
// transaction is enough to get it into a block.
package worker

import (
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/database"
	"github.com/mikitasolo/borwwcoin/foundation/blockchain/state"
)

// Worker owns the goroutine mining blocks for a chain. Every block it mines
// credits the reward to the beneficiary.
type Worker struct {
	state       *state.State
	beneficiary database.AccountID
	evHandler   state.EventHandler

	start  chan struct{}
	cancel chan struct{}
	shut   chan struct{}
	done   chan struct{}
}

// Run registers a worker with the chain and starts the mining goroutine. It
// returns once the goroutine is running.
func Run(st *state.State, beneficiary database.AccountID, evHandler state.EventHandler) *Worker {
	if evHandler == nil {
		evHandler = func(v string, args ...any) {}
	}

	w := Worker{
		state:       st,
		beneficiary: beneficiary,
		evHandler:   evHandler,
		start:       make(chan struct{}, 1),
		cancel:      make(chan struct{}, 1),
		shut:        make(chan struct{}),
		done:        make(chan struct{}),
	}

	// AddTransaction signals the worker through the chain from here on.
	st.Worker = &w

	started := make(chan struct{})
	go func() {
		defer close(w.done)
		close(started)
		w.miningLoop()
	}()
	<-started

	return &w
}

// Shutdown cancels any block being mined and waits for the mining goroutine
// to return.
func (w *Worker) Shutdown() {
	w.evHandler("worker: Shutdown: started")
	defer w.evHandler("worker: Shutdown: completed")

	w.SignalCancelMining()
	close(w.shut)
	<-w.done
}

// SignalStartMining asks for the pending pool to be mined. Signals collapse,
// one pending signal is enough for the next run to pick up everything.
func (w *Worker) SignalStartMining() {
	select {
	case w.start <- struct{}{}:
		w.evHandler("worker: SignalStartMining: signaled")
	default:
	}
}

// SignalCancelMining stops the block currently being mined. Its transfers
// go back to the pending pool.
func (w *Worker) SignalCancelMining() {
	select {
	case w.cancel <- struct{}{}:
		w.evHandler("worker: SignalCancelMining: signaled")
	default:
	}
}

// isShutdown reports whether Shutdown has been called.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
