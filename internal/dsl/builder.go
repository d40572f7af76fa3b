package dsl

import (
	"fmt"

	"github.com/vk/taskgraph/internal/taskgraph"
	"github.com/zclconf/go-cty/cty"
)

// ResultNode is the value Build returns for every task label: a
// taskgraph.Node that also exposes its stored cty.Value result, once the
// graph has run. Every concrete node variant the builder constructs
// (Source, Unary, Chunk, Join, all instantiated with cty.Value) satisfies
// this.
type ResultNode interface {
	taskgraph.Node
	Result() cty.Value
}

// Build compiles doc into a runnable graph using reg to resolve each task's
// "func" attribute. It returns the graph and a label -> node index so the
// host program can read results after Graph.WaitAll returns. workerCount
// is passed straight through to taskgraph.New.
//
// A "parallel_chunk" label expands to a group of chunk nodes rather than a
// single one; it cannot be looked up directly in the returned map, only
// referenced from a later "multi_join" block's Parents list.
func Build(doc *Document, reg *Registry, workerCount int) (*taskgraph.Graph, map[string]ResultNode, error) {
	g := taskgraph.New(workerCount)
	nodes := make(map[string]ResultNode, len(doc.Tasks))
	groups := make(map[string][]taskgraph.Node, len(doc.Tasks))

	for _, def := range doc.Tasks {
		switch def.Kind {
		case "source":
			fn, err := reg.source(def.Func)
			if err != nil {
				return nil, nil, fmt.Errorf("task %q: %w", def.Name, err)
			}
			n := taskgraph.NewSource(fn)
			applyAffinity(n, def.Affinity)
			g.AddTask(n)
			nodes[def.Name] = n

		case "unary":
			parent, err := resolveNode(nodes, def.Parent)
			if err != nil {
				return nil, nil, fmt.Errorf("task %q: %w", def.Name, err)
			}
			fn, err := reg.unary(def.Func)
			if err != nil {
				return nil, nil, fmt.Errorf("task %q: %w", def.Name, err)
			}
			n := taskgraph.NewUnary[cty.Value, cty.Value](parent, fn)
			applyAffinity(n, def.Affinity)
			g.AddTaskEdge(parent, n)
			nodes[def.Name] = n

		case "parallel_chunk":
			fn, err := reg.chunk(def.Func)
			if err != nil {
				return nil, nil, fmt.Errorf("task %q: %w", def.Name, err)
			}
			chunks := taskgraph.ParallelFor(g, def.Count, fn, def.Affinity...)
			group := make([]taskgraph.Node, len(chunks))
			for i, c := range chunks {
				group[i] = c
			}
			groups[def.Name] = group

		case "multi_join":
			parents, err := resolveParents(nodes, groups, def.Parents)
			if err != nil {
				return nil, nil, fmt.Errorf("task %q: %w", def.Name, err)
			}
			fn, err := reg.join(def.Func)
			if err != nil {
				return nil, nil, fmt.Errorf("task %q: %w", def.Name, err)
			}
			n := taskgraph.NewJoin(parents, fn)
			applyAffinity(n, def.Affinity)
			if len(parents) == 0 {
				g.AddTask(n)
			} else {
				g.AddTaskEdges(parents, n)
			}
			nodes[def.Name] = n

		default:
			return nil, nil, fmt.Errorf("task %q: unknown kind %q", def.Name, def.Kind)
		}
	}

	return g, nodes, nil
}

func applyAffinity(n taskgraph.Node, affinity []int) {
	if len(affinity) > 0 {
		n.SetAffinity(affinity...)
	}
}

func resolveNode(nodes map[string]ResultNode, name string) (ResultNode, error) {
	if name == "" {
		return nil, fmt.Errorf("missing required attribute \"parent\"")
	}
	n, ok := nodes[name]
	if !ok {
		return nil, fmt.Errorf("unknown parent %q (it must be declared earlier in the document)", name)
	}
	return n, nil
}

func resolveParents(nodes map[string]ResultNode, groups map[string][]taskgraph.Node, names []string) ([]taskgraph.Node, error) {
	var parents []taskgraph.Node
	for _, name := range names {
		if group, ok := groups[name]; ok {
			parents = append(parents, group...)
			continue
		}
		n, ok := nodes[name]
		if !ok {
			return nil, fmt.Errorf("unknown parent %q (it must be declared earlier in the document)", name)
		}
		parents = append(parents, n)
	}
	return parents, nil
}
