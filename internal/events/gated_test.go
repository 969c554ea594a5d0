package events

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestGated_SubscribeBeforeOpen(t *testing.T) {
	g := NewGated[struct{}]("ready", nil)

	calls := 0
	g.On(func(struct{}) { calls++ })
	assert.Equal(t, 0, calls)

	assert.True(t, g.Open(struct{}{}))
	assert.Equal(t, 1, calls)
}

func TestGated_SubscribeAfterOpen(t *testing.T) {
	g := NewGated[string]("ready", nil)
	g.Open("done")

	var got []string
	g.On(func(v string) { got = append(got, v) })

	assert.Equal(t, []string{"done"}, got)
}

func TestGated_OpenIsIdempotent(t *testing.T) {
	g := NewGated[int]("ready", nil)

	calls := 0
	g.On(func(int) { calls++ })

	assert.True(t, g.Open(1))
	assert.False(t, g.Open(2))
	assert.True(t, g.IsOpen())

	assert.Equal(t, 1, calls)

	var late int
	g.On(func(v int) { late = v })
	assert.Equal(t, 1, late, "late subscribers see the first value")
}

func TestGated_FireAfterOpenReachesLateSubscribers(t *testing.T) {
	g := NewGated[int]("ready", nil)
	g.Open(1)

	var got []int
	g.On(func(v int) { got = append(got, v) })
	g.Fire(7)

	assert.Equal(t, []int{1, 7}, got)
}

func TestGated_ExactlyOnceUnderConcurrentSubscribe(t *testing.T) {
	g := NewGated[struct{}]("ready", nil)

	const n = 64
	var mu sync.Mutex
	counts := make([]int, n)

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			g.On(func(struct{}) {
				mu.Lock()
				counts[i]++
				mu.Unlock()
			})
		}(i)
		if i == n/2 {
			g.Open(struct{}{})
		}
	}
	wg.Wait()
	g.Open(struct{}{})

	for i, c := range counts {
		assert.Equal(t, 1, c, "subscriber %d", i)
	}
}
