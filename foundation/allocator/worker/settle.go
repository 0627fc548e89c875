package worker

// settlementOperations waits for a settlement signal and distributes the
// accrued issuance.
func (w *Worker) settlementOperations() {
	w.evHandler("worker: settlementOperations: G started")
	defer w.evHandler("worker: settlementOperations: G completed")

	for {
		select {
		case <-w.settling:
			if !w.isShutdown() {
				w.runSettlementOperation()
			}
		case <-w.shut:
			w.evHandler("worker: settlementOperations: received shut signal")
			return
		}
	}
}

// runSettlementOperation distributes the issuance accrued through the
// current block.
func (w *Worker) runSettlementOperation() {
	w.evHandler("worker: runSettlementOperation: started")
	defer w.evHandler("worker: runSettlementOperation: completed")

	settled, err := w.state.Distribute()
	if err != nil {
		w.evHandler("worker: runSettlementOperation: ERROR: %s", err)
		return
	}

	w.evHandler("worker: runSettlementOperation: settled[%d]", settled)
}
