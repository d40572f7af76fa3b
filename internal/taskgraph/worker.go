package taskgraph

import (
	"fmt"
	"log/slog"
)

// runWorker is the core processing loop for a single worker goroutine. It
// implements the Waiting -> Draining -> Waiting -> ... -> Terminated state
// machine from spec §4.4: it blocks in waitForWork (Waiting), drains
// batches via takeBatch (Draining) until one comes back empty, then returns
// to Waiting; it terminates when waitForWork reports shutdown.
//
// Workers never inspect graph edges or mutate shared graph state — they
// run a node's callable and hand its id back to the controller. All
// dependency bookkeeping is the driver's job.
func runWorker(id int, c *controller, logger *slog.Logger) {
	wlog := logger.With("worker", id)
	wlog.Debug("worker started")

	for {
		if c.waitForWork(id) {
			wlog.Debug("worker terminated")
			return
		}

		for {
			batch := c.takeBatch(id)
			if len(batch) == 0 {
				break
			}

			done := make([]completion, 0, len(batch))
			for _, taskID := range batch {
				node := c.lookup(taskID)
				done = append(done, completion{id: taskID, err: runNode(node)})
			}
			c.report(done)
		}
	}
}

// runNode invokes n's callable, recovering a panic into an error instead of
// letting it crash the process. Per spec, a callable fault is "permitted"
// to take down the whole process; recovering it here is what lets the
// monitor observer (internal/monitor) report the failure before WaitAll
// unwinds, and WaitAll return it as an error that the completion webhook
// (internal/notify) can then report, rather than losing it entirely.
func runNode(n Node) (err error) {
	defer func() {
		if r := recover(); r != nil {
			err = fmt.Errorf("taskgraph: task %d panicked: %v", n.ID(), r)
		}
	}()
	n.run()
	return nil
}
