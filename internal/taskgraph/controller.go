package taskgraph

import "sync"

// controller mediates the two producer/consumer channels between the
// driver and the worker pool: the "jobs" queues (driver -> workers, one
// deque per worker) and the "ready" list (workers -> driver). A
// mutex+condition variable pair guards each direction, plus a
// work-stealing scan under the jobs lock alone.
type controller struct {
	lookup func(TaskId) Node

	jobsMu   sync.Mutex
	jobsCond *sync.Cond
	jobs     [][]TaskId
	nextRR   int
	done     bool

	readyMu   sync.Mutex
	readyCond *sync.Cond
	ready     []completion
}

// completion is a worker's outcome for one task: err is nil on success,
// non-nil if the task's callable panicked (see runNode in worker.go).
type completion struct {
	id  TaskId
	err error
}

func newController(numWorkers int, lookup func(TaskId) Node) *controller {
	c := &controller{
		lookup: lookup,
		jobs:   make([][]TaskId, numWorkers),
	}
	c.jobsCond = sync.NewCond(&c.jobsMu)
	c.readyCond = sync.NewCond(&c.readyMu)
	return c
}

// enqueue applies the affinity placement policy to each id and appends it
// to the chosen worker's deque, then wakes every worker blocked in
// waitForWork.
func (c *controller) enqueue(ids []TaskId) {
	c.jobsMu.Lock()
	for _, id := range ids {
		w := c.placementFor(id)
		c.jobs[w] = append(c.jobs[w], id)
	}
	c.jobsMu.Unlock()
	c.jobsCond.Broadcast()
}

// placementFor decides which worker deque id lands in. Must be called with
// jobsMu held.
func (c *controller) placementFor(id TaskId) int {
	numWorkers := len(c.jobs)
	aff := c.lookup(id).Affinity()
	if !aff.HasAffinity() {
		w := c.nextRR
		c.nextRR = (c.nextRR + 1) % numWorkers
		return w
	}
	b, _ := aff.First()
	if b < numWorkers {
		return b
	}
	w := c.nextRR
	c.nextRR = (c.nextRR + 1) % numWorkers
	return w
}

// waitForWork blocks worker w until either its deque is non-empty or
// shutdown has been signalled, returning the shutdown flag.
func (c *controller) waitForWork(w int) bool {
	c.jobsMu.Lock()
	defer c.jobsMu.Unlock()
	for len(c.jobs[w]) == 0 && !c.done {
		c.jobsCond.Wait()
	}
	return c.done
}

// takeBatch takes the front half (at least one) of worker w's own deque, or
// if that deque is empty, attempts to steal from another worker. An empty
// returned slice means there is no work anywhere right now.
func (c *controller) takeBatch(w int) []TaskId {
	c.jobsMu.Lock()
	defer c.jobsMu.Unlock()

	if n := len(c.jobs[w]); n > 0 {
		half := (n + 1) / 2
		batch := append([]TaskId(nil), c.jobs[w][:half]...)
		c.jobs[w] = c.jobs[w][half:]
		return batch
	}
	return c.steal(w)
}

// steal scans the other workers' deques for one with more than one item and
// transfers its larger half to w, leaving the victim with the smaller
// (floor) share — matching RescheduleTaskJobs in the original scheduler,
// which computes itMiddle = begin + size/2 and moves [itMiddle, end) to the
// new queue. Affinity is ignored: it is a placement hint, not a hard
// binding. Must be called with jobsMu held; it never takes readyMu (no
// nested locking).
func (c *controller) steal(w int) []TaskId {
	for other := range c.jobs {
		if other == w {
			continue
		}
		n := len(c.jobs[other])
		if n <= 1 {
			continue
		}
		mid := n / 2
		stolen := append([]TaskId(nil), c.jobs[other][mid:]...)
		c.jobs[other] = c.jobs[other][:mid]
		return stolen
	}
	return nil
}

// report appends the batch's outcomes to the ready list and wakes the
// driver.
func (c *controller) report(results []completion) {
	c.readyMu.Lock()
	c.ready = append(c.ready, results...)
	c.readyMu.Unlock()
	c.readyCond.Signal()
}

// waitReady blocks until the ready list is non-empty, then atomically swaps
// it out and returns it.
func (c *controller) waitReady() []completion {
	c.readyMu.Lock()
	defer c.readyMu.Unlock()
	for len(c.ready) == 0 {
		c.readyCond.Wait()
	}
	results := c.ready
	c.ready = nil
	return results
}

// shutdown sets the done flag and wakes every worker blocked in
// waitForWork so they can observe it and exit.
func (c *controller) shutdown() {
	c.jobsMu.Lock()
	c.done = true
	c.jobsMu.Unlock()
	c.jobsCond.Broadcast()
}
