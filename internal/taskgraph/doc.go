// Package taskgraph is the execution core of the scheduler: a directed
// acyclic graph of typed task nodes, a worker pool, and the controller
// queues that connect them.
//
// A Graph is built by a single goroutine before WaitAll is called: add root
// tasks with AddTask, attach dependents with AddTaskEdge/AddTaskEdges, then
// call WaitAll to execute the whole graph across a fixed pool of workers.
// Workers never see graph edges; all dependency bookkeeping happens on the
// calling goroutine between the jobs and ready queues.
package taskgraph
