package testutil

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDeterministicClock_Sequence(t *testing.T) {
	clock := NewDeterministicClock()
	assert.Equal(t, int64(0), clock.Current())
	assert.Equal(t, int64(1), clock.Next())
	assert.Equal(t, int64(2), clock.Next())
	assert.Equal(t, int64(2), clock.Current())
}

func TestDeterministicClock_ResetReplaysSameValues(t *testing.T) {
	clock := NewDeterministicClock()
	first := []int64{clock.Next(), clock.Next(), clock.Next()}

	clock.Reset()
	assert.Equal(t, int64(0), clock.Current())
	second := []int64{clock.Next(), clock.Next(), clock.Next()}

	assert.Equal(t, first, second)
}

func TestDeterministicClock_ConcurrentUse(t *testing.T) {
	clock := NewDeterministicClock()
	const workers = 20

	var wg sync.WaitGroup
	out := make(chan int64, workers*10)
	for range workers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for range 10 {
				out <- clock.Next()
			}
		}()
	}
	wg.Wait()
	close(out)

	seen := map[int64]bool{}
	for v := range out {
		require.False(t, seen[v], "seq %d handed out twice", v)
		seen[v] = true
	}
	assert.Len(t, seen, workers*10)
}
