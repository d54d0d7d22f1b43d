package memory

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type notification struct {
	Generation int
	Handle     int
}

func TestQueue(t *testing.T) {
	queue := NewQueue[notification](DefaultConfig())
	ctx := context.Background()

	require.NoError(t, queue.Publish(ctx, &notification{Generation: 1}))
	require.NoError(t, queue.Publish(ctx, &notification{Handle: 42}))
	assert.Equal(t, 2, queue.Size())

	message, err := queue.Consume(ctx)
	require.NoError(t, err)
	assert.Equal(t, 1, message.T().Generation)
	assert.NoError(t, message.Ack())
	assert.Error(t, message.Ack())

	message, err = queue.Poll(ctx)
	require.NoError(t, err)
	require.NotNil(t, message)
	assert.Equal(t, 42, message.T().Handle)

	message, err = queue.Poll(ctx)
	assert.NoError(t, err)
	assert.Nil(t, message)
}

func TestQueue_Nack(t *testing.T) {
	config := DefaultConfig()
	config.MaxRetries = 1
	queue := NewQueue[notification](config)
	ctx := context.Background()
	require.NoError(t, queue.Publish(ctx, &notification{Handle: 1}))

	message, err := queue.Poll(ctx)
	require.NoError(t, err)
	require.NoError(t, message.Nack(errors.New("retry")))
	assert.Equal(t, 1, queue.Size())

	message, err = queue.Poll(ctx)
	require.NoError(t, err)
	require.NoError(t, message.Nack(errors.New("retry")))
	assert.Equal(t, 0, queue.Size(), "retries exhausted")
}

func TestQueue_Cancellation(t *testing.T) {
	queue := NewQueue[notification](DefaultConfig())
	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err := queue.Consume(ctx)
	assert.ErrorIs(t, err, context.DeadlineExceeded)

	_, err = queue.Poll(ctx)
	assert.Error(t, err)
	assert.Error(t, queue.Publish(ctx, &notification{}))
}

func TestQueue_Concurrency(t *testing.T) {
	queue := NewQueue[notification](DefaultConfig())
	ctx := context.Background()
	const producers, perProducer = 4, 50

	var wg sync.WaitGroup
	for p := 0; p < producers; p++ {
		wg.Add(1)
		go func(p int) {
			defer wg.Done()
			for i := 0; i < perProducer; i++ {
				_ = queue.Publish(ctx, &notification{Handle: p*perProducer + i})
			}
		}(p)
	}
	wg.Wait()

	seen := map[int]bool{}
	for {
		message, err := queue.Poll(ctx)
		require.NoError(t, err)
		if message == nil {
			break
		}
		seen[message.T().Handle] = true
		_ = message.Ack()
	}
	assert.Len(t, seen, producers*perProducer)
}
