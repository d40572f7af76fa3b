package taskgraph

import (
	"context"
	"fmt"
	"io"
	"sync"

	"github.com/vk/taskgraph/internal/ctxlog"
)

// Graph owns the set of task nodes and their child-edge map, plus the
// pending frontier and the worker pool used by WaitAll. It must only be
// mutated by a single goroutine (the one building the graph and, later,
// calling WaitAll); workers only ever read the task table.
type Graph struct {
	numWorkers int

	tasks    map[TaskId]Node
	children map[TaskId][]TaskId
	pending  []TaskId
	observer Observer
}

// New creates an empty Graph with the given worker count. A worker count
// of 0 is coerced to 1.
func New(workerCount int) *Graph {
	if workerCount <= 0 {
		workerCount = 1
	}
	return &Graph{
		numWorkers: workerCount,
		tasks:      make(map[TaskId]Node),
		children:   make(map[TaskId][]TaskId),
	}
}

// SetObserver installs an optional observer of scheduling events. Must be
// called before WaitAll.
func (g *Graph) SetObserver(o Observer) { g.observer = o }

// AddTask registers a root task: a node with no parents, immediately
// eligible to run. Adding the same node twice is a programmer error and
// panics, matching spec §4.5/§7.1 (a fatal, synchronous construction
// error, detected before any worker starts).
func (g *Graph) AddTask(n Node) {
	if _, exists := g.tasks[n.ID()]; exists {
		panic(fmt.Sprintf("taskgraph: duplicate task id %d in AddTask", n.ID()))
	}
	g.tasks[n.ID()] = n
	g.pending = append(g.pending, n.ID())
}

// AddTaskEdge registers child as a dependent of parent. child is inserted
// into the task table if not already present, but is not added to the
// pending frontier — it becomes runnable only once its readiness predicate
// says so, driven by parent completions.
func (g *Graph) AddTaskEdge(parent, child Node) {
	g.ensureTask(child)
	g.children[parent.ID()] = append(g.children[parent.ID()], child.ID())
}

// AddTaskEdges registers child as a dependent of every node in parents.
// Typically paired with a Join child whose declared parent set matches.
func (g *Graph) AddTaskEdges(parents []Node, child Node) {
	g.ensureTask(child)
	for _, p := range parents {
		g.children[p.ID()] = append(g.children[p.ID()], child.ID())
	}
}

func (g *Graph) ensureTask(n Node) {
	if _, exists := g.tasks[n.ID()]; !exists {
		g.tasks[n.ID()] = n
	}
}

func (g *Graph) lookup(id TaskId) Node { return g.tasks[id] }

// DetectCycles is an optional, non-gating diagnostic: the core engine does
// not detect cycles at schedule time (a cyclic graph simply hangs, per spec
// §7.2), but callers that want an early check before WaitAll can call this.
func (g *Graph) DetectCycles() error {
	const (
		unvisited = 0
		visiting  = 1
		done      = 2
	)
	state := make(map[TaskId]int, len(g.tasks))

	var visit func(id TaskId) error
	visit = func(id TaskId) error {
		switch state[id] {
		case done:
			return nil
		case visiting:
			return fmt.Errorf("taskgraph: cycle detected involving task %d", id)
		}
		state[id] = visiting
		for _, childID := range g.children[id] {
			if err := visit(childID); err != nil {
				return err
			}
		}
		state[id] = done
		return nil
	}

	for id := range g.tasks {
		if state[id] == unvisited {
			if err := visit(id); err != nil {
				return err
			}
		}
	}
	return nil
}

// PrintTasksExecution writes a BFS traversal starting from the current
// pending frontier and following child edges, for diagnostic use before
// WaitAll is called (spec §6).
func (g *Graph) PrintTasksExecution(w io.Writer) {
	visited := make(map[TaskId]bool, len(g.tasks))
	queue := append([]TaskId(nil), g.pending...)
	for _, id := range queue {
		visited[id] = true
	}

	fmt.Fprintln(w, "tasks order:")
	for len(queue) > 0 {
		id := queue[0]
		queue = queue[1:]
		fmt.Fprintf(w, "  %d\n", id)
		for _, childID := range g.children[id] {
			if !visited[childID] {
				visited[childID] = true
				queue = append(queue, childID)
			}
		}
	}
}

// WaitAll runs the graph to completion: it spawns the worker pool, seeds
// the controller with the initial pending frontier, and then alternates
// between dispatching newly-pending tasks and draining completions until
// every task has run exactly once. It blocks the calling goroutine and
// returns once |completed| == |tasks|, or as soon as a task's callable
// panics — see runNode in worker.go. A callable fault means graph
// completion is not guaranteed (per spec), so WaitAll stops advancing the
// frontier and returns the first such error once every in-flight batch has
// drained, rather than hanging on descendants that will never become
// ready.
func (g *Graph) WaitAll(ctx context.Context) error {
	logger := ctxlog.FromContext(ctx)
	total := len(g.tasks)
	if total == 0 {
		return nil
	}

	ctrl := newController(g.numWorkers, g.lookup)

	var wg sync.WaitGroup
	wg.Add(g.numWorkers)
	for w := 0; w < g.numWorkers; w++ {
		go func(id int) {
			defer wg.Done()
			runWorker(id, ctrl, logger)
		}(w)
	}

	pending := g.pending
	g.pending = nil
	g.notifyPending(pending)

	completed := 0
	for completed < total {
		if len(pending) > 0 {
			ctrl.enqueue(pending)
			g.notifyDispatch(pending)
			pending = nil
			continue
		}

		results := ctrl.waitReady()
		for _, res := range results {
			completed++
			g.notifyComplete(res.id, res.err)
			if res.err != nil {
				ctrl.shutdown()
				wg.Wait()
				logger.Error("taskgraph: task failed, aborting WaitAll", "task", res.id, "error", res.err)
				return fmt.Errorf("taskgraph: task %d failed: %w", res.id, res.err)
			}
			for _, childID := range g.children[res.id] {
				child := g.tasks[childID]
				if child.ready(res.id) {
					pending = append(pending, childID)
					g.notifyPending([]TaskId{childID})
				}
			}
		}
	}

	ctrl.shutdown()
	wg.Wait()
	logger.Debug("taskgraph: WaitAll complete", "tasks", total)
	return nil
}

func (g *Graph) notifyPending(ids []TaskId) {
	if g.observer == nil {
		return
	}
	for _, id := range ids {
		g.observer.OnPending(id)
	}
}

func (g *Graph) notifyDispatch(ids []TaskId) {
	if g.observer == nil {
		return
	}
	g.observer.OnDispatch(ids)
}

func (g *Graph) notifyComplete(id TaskId, err error) {
	if g.observer == nil {
		return
	}
	g.observer.OnComplete(id, err)
}
