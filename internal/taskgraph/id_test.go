package taskgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNextTaskId_StrictlyIncreasing(t *testing.T) {
	first := nextTaskId()
	for i := 0; i < 100; i++ {
		next := nextTaskId()
		assert.Greater(t, next, first)
		first = next
	}
}
