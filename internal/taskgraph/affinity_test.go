package taskgraph

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestAffinityMask_Empty(t *testing.T) {
	var m AffinityMask
	assert.False(t, m.HasAffinity())
	_, ok := m.First()
	assert.False(t, ok)
}

func TestAffinityMask_SetAndTest(t *testing.T) {
	m := NewAffinityMask(2, 5)
	require.True(t, m.HasAffinity())
	assert.True(t, m.Test(2))
	assert.True(t, m.Test(5))
	assert.False(t, m.Test(0))
	assert.False(t, m.Test(31))
}

func TestAffinityMask_OutOfRangeIgnored(t *testing.T) {
	m := NewAffinityMask(2, 100)
	assert.True(t, m.Test(2))
	assert.False(t, m.Test(100))
}

func TestAffinityMask_FirstAndNext(t *testing.T) {
	m := NewAffinityMask(1, 3, 7)
	b, ok := m.First()
	require.True(t, ok)
	assert.Equal(t, 1, b)

	b, ok = m.Next(b)
	require.True(t, ok)
	assert.Equal(t, 3, b)

	b, ok = m.Next(b)
	require.True(t, ok)
	assert.Equal(t, 7, b)

	// Wraps back around to the first set bit.
	b, ok = m.Next(b)
	require.True(t, ok)
	assert.Equal(t, 1, b)
}
