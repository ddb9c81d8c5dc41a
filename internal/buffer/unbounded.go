// Package buffer provides an unbounded FIFO used to decouple event
// producers from slow or absent consumers.
package buffer

import "sync"

// Unbounded is a FIFO whose Push never blocks. A background goroutine
// drains queued items into the channel returned by Out, so a stalled
// consumer backs up memory, never the producer. Intended for streaming
// event fan-out where the producing loop must keep running even when the
// client stops reading.
type Unbounded[T any] struct {
	mu     sync.Mutex
	cond   *sync.Cond
	queue  []T
	closed bool
	out    chan T
}

// NewUnbounded creates a ready-to-use buffer and starts its drain
// goroutine. Call Close to release it.
func NewUnbounded[T any]() *Unbounded[T] {
	b := &Unbounded[T]{out: make(chan T)}
	b.cond = sync.NewCond(&b.mu)
	go b.drain()
	return b
}

// Push enqueues an item without blocking. Pushes after Close are dropped.
func (b *Unbounded[T]) Push(item T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.queue = append(b.queue, item)
	b.cond.Signal()
}

// Out returns the consumer channel. It is closed once Close has been
// called and every queued item has been delivered.
func (b *Unbounded[T]) Out() <-chan T {
	return b.out
}

// Close stops accepting new items. Already-queued items are still
// delivered. Safe to call more than once.
func (b *Unbounded[T]) Close() {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.closed {
		return
	}
	b.closed = true
	b.cond.Signal()
}

// Len reports the number of undelivered items.
func (b *Unbounded[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.queue)
}

func (b *Unbounded[T]) drain() {
	for {
		item, ok := b.next()
		if !ok {
			close(b.out)
			return
		}
		b.out <- item
	}
}

// next blocks until an item is available or the buffer is closed and
// empty.
func (b *Unbounded[T]) next() (T, bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	for len(b.queue) == 0 && !b.closed {
		b.cond.Wait()
	}
	if len(b.queue) == 0 {
		var zero T
		return zero, false
	}
	item := b.queue[0]
	b.queue = b.queue[1:]
	return item, true
}
