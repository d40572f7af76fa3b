// Command demo runs a handful of task graphs built directly against the
// internal/taskgraph API, instead of via an HCL document, mirroring the
// scenarios the original scheduler's test program exercised: a linear
// task sequence, a nested subgraph run from within a unary task, and a
// parallel reduce over a fan-out of chunk tasks.
package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"sync"

	"github.com/vk/taskgraph/internal/ctxlog"
	"github.com/vk/taskgraph/internal/taskgraph"
)

func main() {
	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: slog.LevelWarn}))
	ctx := ctxlog.WithLogger(context.Background(), logger)

	fmt.Println("linear sequence:", runLinearSequence(ctx))
	fmt.Println("nested subgraph:", runNestedSubgraph(ctx))
	fmt.Println("parallel reduce:", runParallelReduce(ctx))
}

// runLinearSequence chains three sources: 100, doubled, then incremented,
// expecting 201.
func runLinearSequence(ctx context.Context) int {
	r := 0
	f0 := func() int { r = 100; return r }
	f1 := func() int { r *= 2; return r }
	f2 := func() int { r += 1; return r }

	g := taskgraph.New(4)
	taskgraph.AddTaskSequence(g, f0, f1, f2)

	if err := g.WaitAll(ctx); err != nil {
		panic(err)
	}
	return r
}

// runNestedSubgraph runs an inner graph to completion from within a unary
// task's callable, expecting 1000*40*1000 + (500+1) == 40_000_501.
func runNestedSubgraph(ctx context.Context) int {
	source := taskgraph.NewSource(func() int { return 1000 })
	g := taskgraph.New(2)
	g.AddTask(source)

	child := taskgraph.NewUnary(source, func(input int) int {
		inner := taskgraph.New(2)
		innerSource := taskgraph.NewSource(func() int { return 500 })
		inner.AddTask(innerSource)
		innerTail := taskgraph.NewUnary(innerSource, func(i int) int { return i + 1 })
		inner.AddTaskEdge(innerSource, innerTail)

		if err := inner.WaitAll(ctx); err != nil {
			panic(err)
		}
		return input*40*1000 + innerTail.Result()
	})
	g.AddTaskEdge(source, child)

	if err := g.WaitAll(ctx); err != nil {
		panic(err)
	}
	return child.Result()
}

// runParallelReduce fans out 10 chunk tasks, each contributing its index to
// a shared, mutex-protected sum the reducer reads once every chunk has
// completed.
func runParallelReduce(ctx context.Context) int {
	var mu sync.Mutex
	sum := 0

	g := taskgraph.New(4)
	reducer := taskgraph.ParallelReduce(g, nil, 10, func(k uint32) int {
		mu.Lock()
		defer mu.Unlock()
		sum += int(k)
		return int(k)
	}, func() int {
		mu.Lock()
		defer mu.Unlock()
		return sum
	})

	if err := g.WaitAll(ctx); err != nil {
		panic(err)
	}
	return reducer.Result()
}
