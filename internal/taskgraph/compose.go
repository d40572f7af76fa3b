package taskgraph

// AddTaskSequence creates a chain of Source nodes and links them
// parent-to-child in the order given: f1 -> f2 -> ... -> fn. It adds f1's
// node as a root of g and returns the last node in the chain so callers can
// read its result after WaitAll. AddTaskSequence panics if no callables are
// given.
func AddTaskSequence[O any](g *Graph, fns ...func() O) *Source[O] {
	if len(fns) == 0 {
		panic("taskgraph: AddTaskSequence requires at least one callable")
	}

	head := NewSource(fns[0])
	g.AddTask(head)

	prev := head
	for _, fn := range fns[1:] {
		next := NewSource(fn)
		g.AddTaskEdge(prev, next)
		prev = next
	}
	return prev
}

// ParallelFor creates n Chunk nodes with dense indices [0, n) running fn,
// added as roots of g. If affinity is non-empty, chunk tasks are
// distributed across its set bits round-robin (via AffinityMask.Next);
// otherwise each chunk gets no affinity and is placed by the controller's
// own round-robin. n == 0 adds no tasks.
func ParallelFor[O any](g *Graph, n uint32, fn func(uint32) O, affinity ...int) []*Chunk[O] {
	chunks := newChunks(n, fn, affinity...)
	for _, c := range chunks {
		g.AddTask(c)
	}
	return chunks
}

// newChunks builds n Chunk nodes without registering them with any graph,
// distributing affinity exactly as ParallelFor does.
func newChunks[O any](n uint32, fn func(uint32) O, affinity ...int) []*Chunk[O] {
	chunks := make([]*Chunk[O], 0, n)
	if len(affinity) == 0 {
		for k := uint32(0); k < n; k++ {
			chunks = append(chunks, NewChunk(k, fn))
		}
		return chunks
	}

	mask := NewAffinityMask(affinity...)
	cur, _ := mask.First()
	for k := uint32(0); k < n; k++ {
		c := NewChunk(k, fn)
		c.SetAffinity(cur)
		chunks = append(chunks, c)
		cur, _ = mask.Next(cur)
	}
	return chunks
}

// ParallelReduce creates n Chunk nodes and one Join reducer whose parent
// set is those n chunks, returning the reducer so callers can chain further
// or read its result after WaitAll. If parent is non-nil, each chunk task
// also gets an edge from parent — but as spec §9 documents, this is
// dispatch-order-only: Chunk's readiness predicate always returns true, so
// the dependency on parent is enforced by the driver never enqueueing a
// chunk before parent has completed, not by a readiness check on the chunk
// itself. n == 0 adds no chunk tasks and the reducer becomes an immediately
// runnable root.
func ParallelReduce[O, R any](g *Graph, parent Node, n uint32, fn func(uint32) O, reduce func() R, affinity ...int) *Join[R] {
	chunks := newChunks(n, fn, affinity...)

	parents := make([]Node, len(chunks))
	for i, c := range chunks {
		parents[i] = c
	}

	reducer := NewJoin(parents, reduce)

	for _, c := range chunks {
		if parent != nil {
			// Dispatch-order-only dependency (spec §9 open question): the
			// chunk is only ever added via this edge, never as its own
			// root, so it cannot be dispatched before parent completes -
			// even though Chunk.ready always reports true.
			g.AddTaskEdge(parent, c)
		} else {
			g.AddTask(c)
		}
	}

	if len(chunks) == 0 {
		g.AddTask(reducer)
	} else {
		g.AddTaskEdges(parents, reducer)
	}
	return reducer
}
