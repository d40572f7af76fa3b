package taskgraph

// Join runs a nullary callable once every node in its declared parent set
// has completed. Its readiness predicate is stateful and, per spec, is
// called only from the driver goroutine — it is not safe to call
// concurrently.
type Join[O any] struct {
	nodeBase
	pending map[TaskId]struct{}
	fn      func() O
	result  O
}

// NewJoin creates a Join node over the given parent nodes. A Join with an
// empty parent list is immediately ready; the caller is responsible for
// adding it to the graph as a root via AddTask in that case (ParallelReduce
// does this for n == 0).
func NewJoin[O any](parents []Node, fn func() O) *Join[O] {
	pending := make(map[TaskId]struct{}, len(parents))
	for _, p := range parents {
		pending[p.ID()] = struct{}{}
	}
	return &Join[O]{nodeBase: newNodeBase(), pending: pending, fn: fn}
}

func (j *Join[O]) ready(parentID TaskId) bool {
	delete(j.pending, parentID)
	return len(j.pending) == 0
}

func (j *Join[O]) run() { j.result = j.fn() }

// Result returns the stored value. Must only be called after run.
func (j *Join[O]) Result() O { return j.result }
