package taskgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func nodesByID(nodes ...Node) func(TaskId) Node {
	m := make(map[TaskId]Node, len(nodes))
	for _, n := range nodes {
		m[n.ID()] = n
	}
	return func(id TaskId) Node { return m[id] }
}

func TestController_PlacementRoundRobinWithoutAffinity(t *testing.T) {
	a := NewSource(func() int { return 0 })
	b := NewSource(func() int { return 0 })
	c := NewSource(func() int { return 0 })

	ctrl := newController(2, nodesByID(a, b, c))
	ctrl.enqueue([]TaskId{a.ID(), b.ID(), c.ID()})

	assert.Len(t, ctrl.jobs[0], 2) // a, c
	assert.Len(t, ctrl.jobs[1], 1) // b
}

func TestController_PlacementHonorsAffinity(t *testing.T) {
	a := NewSource(func() int { return 0 })
	a.SetAffinity(1)

	ctrl := newController(3, nodesByID(a))
	ctrl.enqueue([]TaskId{a.ID()})

	require.Len(t, ctrl.jobs[1], 1)
	assert.Equal(t, a.ID(), ctrl.jobs[1][0])
	assert.Empty(t, ctrl.jobs[0])
	assert.Empty(t, ctrl.jobs[2])
}

func TestController_AffinityOutOfRangeFallsBackToRoundRobin(t *testing.T) {
	a := NewSource(func() int { return 0 })
	a.SetAffinity(10) // only 2 workers exist

	ctrl := newController(2, nodesByID(a))
	ctrl.enqueue([]TaskId{a.ID()})

	total := len(ctrl.jobs[0]) + len(ctrl.jobs[1])
	assert.Equal(t, 1, total)
}

func TestController_TakeBatchStealsWhenOwnDequeEmpty(t *testing.T) {
	ids := make([]TaskId, 6)
	nodes := make([]Node, 6)
	for i := range ids {
		s := NewSource(func() int { return 0 })
		ids[i] = s.ID()
		nodes[i] = s
	}

	ctrl := newController(2, nodesByID(nodes...))
	// Force all 6 onto worker 0's deque directly, bypassing placement.
	ctrl.jobs[0] = append([]TaskId(nil), ids...)

	batch := ctrl.takeBatch(1)
	require.NotEmpty(t, batch, "idle worker must steal when its own deque is empty")
	assert.Less(t, len(ctrl.jobs[0]), 6)
}

func TestController_TakeBatchEmptyWhenNoWorkAnywhere(t *testing.T) {
	ctrl := newController(2, nodesByID())
	batch := ctrl.takeBatch(0)
	assert.Empty(t, batch)
}

func TestController_ReportAndWaitReady(t *testing.T) {
	ctrl := newController(1, nodesByID())
	ctrl.report([]completion{{id: 1}, {id: 2}, {id: 3}})
	results := ctrl.waitReady()
	assert.Equal(t, []completion{{id: 1}, {id: 2}, {id: 3}}, results)
}

func TestController_StealGivesVictimTheSmallerShare(t *testing.T) {
	ids := make([]TaskId, 5)
	nodes := make([]Node, 5)
	for i := range ids {
		s := NewSource(func() int { return 0 })
		ids[i] = s.ID()
		nodes[i] = s
	}

	ctrl := newController(2, nodesByID(nodes...))
	ctrl.jobs[0] = append([]TaskId(nil), ids...) // n=5, odd

	stolen := ctrl.steal(1)
	require.Len(t, stolen, 3, "stealer takes the larger (ceil) share")
	assert.Len(t, ctrl.jobs[0], 2, "victim keeps the smaller (floor) share")
}

func TestController_ShutdownWakesWaiters(t *testing.T) {
	ctrl := newController(1, nodesByID())
	done := make(chan bool, 1)
	go func() {
		done <- ctrl.waitForWork(0)
	}()
	ctrl.shutdown()
	assert.True(t, <-done)
}
