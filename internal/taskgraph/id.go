package taskgraph

import "sync/atomic"

// TaskId uniquely identifies a task node process-wide. The only supported
// operations on a TaskId are equality and use as a map key; callers must not
// assume anything about the magnitude of an id beyond "assigned later than
// any id already handed out".
type TaskId uint64

// idCounter is the process-wide monotonic source of TaskIds.
var idCounter atomic.Uint64

// nextTaskId returns a fresh, strictly-increasing TaskId.
func nextTaskId() TaskId {
	return TaskId(idCounter.Add(1))
}
