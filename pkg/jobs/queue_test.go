package jobs

import (
	"context"
	"errors"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestQueueProcessesJobs(t *testing.T) {
	done := make(chan string, 2)
	q := NewQueue("test", func(_ context.Context, job Job[string]) error {
		done <- job.Payload
		return nil
	}, QueueConfig{Workers: 1})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job[string]{ID: "1", Payload: "grades"}))
	require.NoError(t, q.Enqueue(Job[string]{ID: "2", Payload: "events"}))

	for _, want := range []string{"grades", "events"} {
		select {
		case got := <-done:
			assert.Equal(t, want, got)
		case <-time.After(2 * time.Second):
			t.Fatal("job not processed")
		}
	}
}

func TestQueueRetriesFailedJobs(t *testing.T) {
	var calls int32
	done := make(chan int, 1)
	q := NewQueue("retry", func(_ context.Context, job Job[int]) error {
		if atomic.AddInt32(&calls, 1) < 3 {
			return errors.New("boom")
		}
		done <- job.Attempt
		return nil
	}, QueueConfig{MaxRetries: 2, RetryDelay: 10 * time.Millisecond})
	q.Start(context.Background())
	defer q.Stop()

	require.NoError(t, q.Enqueue(Job[int]{ID: "r"}))
	select {
	case attempt := <-done:
		assert.Equal(t, 2, attempt)
	case <-time.After(2 * time.Second):
		t.Fatal("job not retried")
	}
}

func TestQueueWithoutRetries(t *testing.T) {
	var calls int32
	q := NewQueue("once", func(context.Context, Job[int]) error {
		atomic.AddInt32(&calls, 1)
		return errors.New("boom")
	}, QueueConfig{RetryDelay: time.Millisecond})
	q.Start(context.Background())

	require.NoError(t, q.Enqueue(Job[int]{ID: "x"}))
	time.Sleep(50 * time.Millisecond)
	q.Stop()
	assert.Equal(t, int32(1), atomic.LoadInt32(&calls))
}

func TestQueueEnqueueBeforeStart(t *testing.T) {
	q := NewQueue("idle", func(context.Context, Job[int]) error { return nil }, QueueConfig{})
	assert.Error(t, q.Enqueue(Job[int]{ID: "x"}))
	assert.Error(t, q.TryEnqueue(Job[int]{ID: "x"}))
}

func TestQueueTryEnqueueFull(t *testing.T) {
	block := make(chan struct{})
	started := make(chan struct{}, 1)
	q := NewQueue("full", func(context.Context, Job[int]) error {
		started <- struct{}{}
		<-block
		return nil
	}, QueueConfig{Workers: 1, BufferSize: 1})
	q.Start(context.Background())
	defer q.Stop()
	defer close(block)

	require.NoError(t, q.TryEnqueue(Job[int]{ID: "1"}))
	<-started
	require.NoError(t, q.TryEnqueue(Job[int]{ID: "2"}))
	assert.ErrorIs(t, q.TryEnqueue(Job[int]{ID: "3"}), ErrQueueFull)
	assert.Equal(t, 1, q.Pending())
}
