package concurrent

import (
	"errors"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConcurrentVisitsEveryItem(t *testing.T) {
	var sum atomic.Int64
	err := Concurrent([]int{1, 2, 3, 4}, 2, func(_ int, v int) error {
		sum.Add(int64(v))
		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, int64(10), sum.Load())
}

func TestConcurrentReturnsError(t *testing.T) {
	boom := errors.New("boom")
	err := Concurrent([]string{"a", "b"}, 0, func(i int, _ string) error {
		if i == 1 {
			return boom
		}
		return nil
	})
	assert.ErrorIs(t, err, boom)
}

func TestParallelMapKeepsOrder(t *testing.T) {
	out := ParallelMap([]int{1, 2, 3, 4, 5}, 3, func(v int) int { return v * v })
	assert.Equal(t, []int{1, 4, 9, 16, 25}, out)
}
