package taskgraph

// Observer is an optional hook the driver invokes synchronously at state
// transitions, used by the live monitor integration (see internal/monitor;
// the completion webhook in internal/notify is not an Observer and is
// invoked by the caller after WaitAll returns). It runs on the driver goroutine at
// the same points the driver already mutates graph state — it must not
// block, and it must not call back into the Graph.
type Observer interface {
	// OnPending is called when a task id is added to the pending frontier.
	OnPending(id TaskId)
	// OnDispatch is called when a batch of pending ids is handed to the
	// controller for placement onto worker queues.
	OnDispatch(ids []TaskId)
	// OnComplete is called at most once per task id, when the driver takes
	// the worker's report that it finished. err is nil on success; non-nil
	// if the task's callable panicked (see worker.go's runNode), in which
	// case WaitAll returns this error once every in-flight batch has
	// drained. After a failure no further OnComplete calls are made, so
	// tasks not yet reported by then (including ones never dispatched) get
	// none.
	OnComplete(id TaskId, err error)
}
