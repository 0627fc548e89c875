// Package worker implements the block clock and background settlement for
// the issuance allocator.
package worker

import (
	"sync"
	"time"

	"github.com/ardanlabs/issuance/foundation/allocator/state"
)

// Worker manages the background workflows for the allocator.
type Worker struct {
	state         *state.State
	wg            sync.WaitGroup
	shut          chan struct{}
	settling      chan bool
	blockInterval time.Duration
	evHandler     state.EventHandler
}

// Run creates a worker, registers the worker with the state package, and
// starts up all the background processes.
func Run(st *state.State, blockInterval time.Duration, evHandler state.EventHandler) {
	w := Worker{
		state:         st,
		shut:          make(chan struct{}),
		settling:      make(chan bool, 1),
		blockInterval: blockInterval,
		evHandler:     evHandler,
	}

	// Register this worker with the state package.
	st.Worker = &w

	// Load the set of operations we need to run.
	operations := []func(){
		w.clockOperations,
		w.settlementOperations,
	}

	// Set waitgroup to match the number of G's we need for the set
	// of operations we have.
	g := len(operations)
	w.wg.Add(g)

	// We don't want to return until we know all the G's are up and running.
	hasStarted := make(chan bool)

	// Start all the operational G's.
	for _, op := range operations {
		go func(op func()) {
			defer w.wg.Done()
			hasStarted <- true
			op()
		}(op)
	}

	// Wait for the G's to report they are running.
	for i := 0; i < g; i++ {
		<-hasStarted
	}
}

// =============================================================================
// These methods implement the state.Worker interface.

// Shutdown terminates the goroutines performing work.
func (w *Worker) Shutdown() {
	w.evHandler("worker: shutdown: started")
	defer w.evHandler("worker: shutdown: completed")

	w.evHandler("worker: shutdown: terminate goroutines")
	close(w.shut)
	w.wg.Wait()
}

// SignalSettlement signals a settlement operation. If there is already a
// signal pending in the channel, just return since a settlement will run.
func (w *Worker) SignalSettlement() {
	select {
	case w.settling <- true:
	default:
	}
	w.evHandler("worker: SignalSettlement: settlement signaled")
}

// =============================================================================

// isShutdown is used to test if a shutdown has been signaled.
func (w *Worker) isShutdown() bool {
	select {
	case <-w.shut:
		return true
	default:
		return false
	}
}
