package containers

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRingQueueFIFO(t *testing.T) {
	q := NewRingQueue[int](4)
	assert.True(t, q.IsEmpty())

	_, err := q.Dequeue()
	assert.ErrorIs(t, err, ErrQueueEmpty)

	q.Enqueue(1)
	q.Enqueue(2)
	v, err := q.Peek()
	require.NoError(t, err)
	assert.Equal(t, 1, v)

	v, err = q.Dequeue()
	require.NoError(t, err)
	assert.Equal(t, 1, v)
	assert.Equal(t, 1, q.Len())
}

func TestRingQueueGrowsWhileWrapped(t *testing.T) {
	q := NewRingQueue[int](minCapacity)

	// move the read index forward so the buffer wraps before growing
	for i := 0; i < 10; i++ {
		q.Enqueue(-1)
	}
	for i := 0; i < 10; i++ {
		_, _ = q.Dequeue()
	}

	const n = 1000
	for i := 0; i < n; i++ {
		q.Enqueue(i)
	}
	require.Equal(t, n, q.Len())

	got := q.Drain()
	require.Len(t, got, n)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
	assert.True(t, q.IsEmpty())
	assert.Nil(t, q.Drain())
}
