package worker

import "time"

// CORE NOTE: The allocator does not mine blocks. The block clock stands in
// for the chain the allocator would be deployed on, advancing the block
// height on a fixed interval. Every advance signals the settlement G so
// accrued issuance keeps flowing without anyone having to poke the node.

// clockOperations advances the block clock on the configured interval.
func (w *Worker) clockOperations() {
	w.evHandler("worker: clockOperations: G started")
	defer w.evHandler("worker: clockOperations: G completed")

	ticker := time.NewTicker(w.blockInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			if !w.isShutdown() {
				block := w.state.AdvanceBlocks(1)
				w.evHandler("worker: clockOperations: block[%d]", block)
				w.SignalSettlement()
			}
		case <-w.shut:
			w.evHandler("worker: clockOperations: received shut signal")
			return
		}
	}
}
