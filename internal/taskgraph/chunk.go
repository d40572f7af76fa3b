package taskgraph

// Chunk is a parameterised fan-out worker: it has no data parent, takes an
// integer chunk index k, and runs fn(k) to produce O. Chunk indices are
// dense [0, N) when created through the ParallelFor/ParallelReduce helpers,
// but nothing in Chunk itself enforces that.
type Chunk[O any] struct {
	nodeBase
	k      uint32
	fn     func(uint32) O
	result O
}

// NewChunk creates a Chunk node for index k.
func NewChunk[O any](k uint32, fn func(uint32) O) *Chunk[O] {
	return &Chunk[O]{nodeBase: newNodeBase(), k: k, fn: fn}
}

func (c *Chunk[O]) ready(TaskId) bool { return true }

func (c *Chunk[O]) run() { c.result = c.fn(c.k) }

// Result returns the stored value. Must only be called after run.
func (c *Chunk[O]) Result() O { return c.result }
