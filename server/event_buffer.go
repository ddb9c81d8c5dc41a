package server

import (
	"github.com/journeyworks/reagent"
	"github.com/journeyworks/reagent/internal/buffer"
)

// eventBuffer adapts the unbounded buffer to the engine's EventSink so the
// research loop never blocks on a slow SSE consumer.
type eventBuffer struct {
	buf *buffer.Unbounded[reagent.Event]
}

var _ reagent.EventSink = (*eventBuffer)(nil)

func newEventBuffer() *eventBuffer {
	return &eventBuffer{buf: buffer.NewUnbounded[reagent.Event]()}
}

func (b *eventBuffer) Send(ev reagent.Event) { b.buf.Push(ev) }

func (b *eventBuffer) Push(ev reagent.Event) { b.buf.Push(ev) }

func (b *eventBuffer) Out() <-chan reagent.Event { return b.buf.Out() }

func (b *eventBuffer) Close() { b.buf.Close() }

// discard drains remaining events in the background so the buffer's drain
// goroutine can exit once the producer closes it. Called when the consumer
// goes away before the run finishes.
func (b *eventBuffer) discard() {
	go func() {
		for range b.buf.Out() {
		}
	}()
}
