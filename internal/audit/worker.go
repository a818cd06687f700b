package audit

import (
	"context"
)

// Sink receives the events the worker drains from its inbox. Stores satisfy
// it directly; synchronous publishers are adapted via SinkFromPublisher so
// broker round-trips never run on the domain request path.
type Sink interface {
	Append(ctx context.Context, event Event) error
}

// Worker consumes audit events from a channel and hands them to a sink. It
// keeps background processing testable without wiring queue implementations.
type Worker struct {
	sink  Sink
	inbox <-chan Event
}

func NewWorker(sink Sink, inbox <-chan Event) *Worker {
	return &Worker{sink: sink, inbox: inbox}
}

func (w *Worker) Run(ctx context.Context) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event := <-w.inbox:
			if err := w.sink.Append(ctx, event); err != nil {
				return err
			}
		}
	}
}

// SinkFromPublisher adapts a publisher into a worker sink so blocking
// publishers (such as the Kafka one) run behind the inbox instead of inside
// request handling.
func SinkFromPublisher(p Publisher) Sink {
	return publisherSink{publisher: p}
}

type publisherSink struct {
	publisher Publisher
}

func (s publisherSink) Append(ctx context.Context, event Event) error {
	return s.publisher.Emit(ctx, event)
}
