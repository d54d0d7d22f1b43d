package event

import (
	"context"

	"github.com/viant/rotor/internal/clock"
	"github.com/viant/rotor/service/messaging"
)

type Publisher[T any] struct {
	queue    messaging.Queue[Event[T]]
	anyQueue messaging.Queue[Event[any]]
	mirror   func() bool
	runID    string
}

func NewPublisher[T any](queue messaging.Queue[Event[T]]) *Publisher[T] {
	return &Publisher[T]{
		queue: queue,
	}
}

func (p *Publisher[T]) Publish(ctx context.Context, event *Event[T]) error {
	event.CreatedAt = clock.Now()
	if event.Context == nil {
		event.Context = &Context{}
	}
	if event.Context.RunID == "" {
		event.Context.RunID = p.runID
	}
	if p.anyQueue != nil && p.mirror != nil && p.mirror() {
		if err := p.anyQueue.Publish(ctx, &Event[any]{
			Context:   event.Context,
			CreatedAt: event.CreatedAt,
			Metadata:  event.Metadata,
			Data:      event.Data,
		}); err != nil {
			return err
		}
	}
	return p.queue.Publish(ctx, event)
}

// Consume blocks for the next event
func (p *Publisher[T]) Consume(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Consume(ctx)
	return p.settle(msg, err)
}

// Poll returns the next event or nil when none is queued
func (p *Publisher[T]) Poll(ctx context.Context) (*Event[T], error) {
	msg, err := p.queue.Poll(ctx)
	return p.settle(msg, err)
}

func (p *Publisher[T]) settle(msg messaging.Message[Event[T]], err error) (*Event[T], error) {
	if err != nil || msg == nil {
		return nil, err
	}
	if err = msg.Ack(); err != nil {
		return nil, err
	}
	return msg.T(), nil
}
