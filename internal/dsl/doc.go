// Package dsl compiles a declarative HCL document describing a task graph
// into a runnable *taskgraph.Graph. A document is a flat list of "task"
// blocks; each block names a node kind, a label, and a registered callable,
// plus the kind-specific wiring attributes (parent, parents, count,
// affinity). Callables are resolved from a Registry supplied by the host
// program, keyed by the name given in the block's "func" attribute.
//
// Task blocks must be declared after anything they reference by name: the
// builder makes a single pass over the document and resolves parent/parents
// attributes against nodes already built. This mirrors the graph itself,
// which is always built before it is run.
package dsl
