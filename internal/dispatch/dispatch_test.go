package dispatch

import (
	"bytes"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestQueue(t *testing.T) *Queue {
	t.Helper()
	q := NewQueue(zerolog.Nop())
	t.Cleanup(q.Close)
	return q
}

func TestQueueRunsInOrder(t *testing.T) {
	q := newTestQueue(t)

	var got []int
	for i := 0; i < 100; i++ {
		i := i
		q.Dispatch(func() { got = append(got, i) })
	}
	q.Drain()

	require.Len(t, got, 100)
	for i, v := range got {
		assert.Equal(t, i, v)
	}
}

func TestQueueRunsSerially(t *testing.T) {
	q := newTestQueue(t)

	var mu sync.Mutex
	running, maxRunning := 0, 0
	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			q.Dispatch(func() {
				mu.Lock()
				running++
				if running > maxRunning {
					maxRunning = running
				}
				mu.Unlock()
				time.Sleep(time.Millisecond)
				mu.Lock()
				running--
				mu.Unlock()
			})
		}()
	}
	wg.Wait()
	q.Drain()

	assert.Equal(t, 1, maxRunning)
}

func TestDispatchDoesNotBlock(t *testing.T) {
	q := newTestQueue(t)
	release := make(chan struct{})
	q.Dispatch(func() { <-release })

	finished := make(chan struct{})
	go func() {
		for i := 0; i < 1000; i++ {
			q.Dispatch(func() {})
		}
		close(finished)
	}()

	select {
	case <-finished:
	case <-time.After(2 * time.Second):
		t.Fatal("Dispatch blocked behind a busy consumer")
	}
	close(release)
	q.Drain()
}

func TestPanicDoesNotKillQueue(t *testing.T) {
	var buf bytes.Buffer
	q := NewQueue(zerolog.New(&buf))
	defer q.Close()

	ran := false
	q.Dispatch(func() { panic("boom") })
	q.Dispatch(func() { ran = true })
	q.Drain()

	assert.True(t, ran)
	assert.Contains(t, buf.String(), "Dispatched work panicked")
}

func TestCloseRunsPendingThenDrops(t *testing.T) {
	q := NewQueue(zerolog.Nop())

	count := 0
	for i := 0; i < 10; i++ {
		q.Dispatch(func() { count++ })
	}
	q.Close()
	assert.Equal(t, 10, count)

	q.Dispatch(func() { count++ })
	q.Drain()
	assert.Equal(t, 10, count)
}

func TestDispatchNil(t *testing.T) {
	q := newTestQueue(t)
	q.Dispatch(nil)
	q.Drain()
}
