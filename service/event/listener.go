package event

import (
	"context"
	"errors"
	"log"
	"sync"
)

// Listener hands every consumed event to a handler on its own goroutine
type Listener[T any] struct {
	publisher *Publisher[T]
	handler   func(*Event[T])
	ctx       context.Context
	cancel    context.CancelFunc
	done      chan struct{}
	startOnce sync.Once
}

func NewListener[T any](publisher *Publisher[T], handler func(*Event[T])) *Listener[T] {
	ctx, cancel := context.WithCancel(context.Background())
	return &Listener[T]{
		publisher: publisher,
		handler:   handler,
		ctx:       ctx,
		cancel:    cancel,
		done:      make(chan struct{}),
	}
}

// Stop cancels consumption and waits for the listener goroutine to return
func (l *Listener[T]) Stop() {
	l.cancel()
	l.startOnce.Do(func() { close(l.done) })
	<-l.done
}

func (l *Listener[T]) Start() {
	l.startOnce.Do(func() {
		go func() {
			defer close(l.done)
			for {
				event, err := l.publisher.Consume(l.ctx)
				if err != nil {
					if errors.Is(err, context.Canceled) {
						return
					}
					log.Printf("error consuming event: %v", err)
					continue
				}
				if event != nil {
					l.handler(event)
				}
			}
		}()
	})
}
