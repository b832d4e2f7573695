// Package queue implements the fixed-capacity FIFO that sits between the
// producers reading input files and the resolver workers.
//
// A single mutex guards the ring buffer, the size and the closed flag. Two
// condition variables on that mutex let blocked callers sleep instead of
// polling: notFull wakes pushers after a pop, notEmpty wakes poppers after a
// push. Close is the completion signal: it is set once, after every producer
// has returned, and from then on Pop reports ErrDrained as soon as the buffer
// is empty.
package queue

import (
	"context"
	"errors"
	"fmt"
	"sync"
)

var (
	// ErrFull is returned by TryPush when the queue holds Cap items.
	ErrFull = errors.New("queue is full")
	// ErrClosed is returned when pushing after Close.
	ErrClosed = errors.New("queue is closed")
	// ErrDrained is returned by Pop once the queue is closed and empty.
	ErrDrained = errors.New("queue is closed and drained")
)

// Queue is a bounded FIFO of hostnames safe for concurrent use.
type Queue struct {
	mu       sync.Mutex
	notEmpty *sync.Cond
	notFull  *sync.Cond

	items  []string
	head   int
	size   int
	closed bool
	peak   int
}

// New creates a queue holding at most capacity items.
func New(capacity int) (*Queue, error) {
	if capacity < 1 {
		return nil, fmt.Errorf("queue capacity must be at least 1, got %d", capacity)
	}
	q := &Queue{items: make([]string, capacity)}
	q.notEmpty = sync.NewCond(&q.mu)
	q.notFull = sync.NewCond(&q.mu)
	return q, nil
}

// TryPush appends item if there is room. It never blocks, drops or overwrites.
func (q *Queue) TryPush(item string) error {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return ErrClosed
	}
	if q.size == len(q.items) {
		return ErrFull
	}
	q.put(item)
	return nil
}

// TryPop removes and returns the oldest item. ok is false when the queue is empty.
func (q *Queue) TryPop() (item string, ok bool) {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.size == 0 {
		return "", false
	}
	return q.take(), true
}

// Push appends item, waiting for room while the queue is full.
// It returns ctx.Err() if ctx ends first, or ErrClosed after Close.
func (q *Queue) Push(ctx context.Context, item string) error {
	stop := q.wakeOnDone(ctx)
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for q.size == len(q.items) && !q.closed && ctx.Err() == nil {
		q.notFull.Wait()
	}
	if q.closed {
		return ErrClosed
	}
	if err := ctx.Err(); err != nil {
		// pass on a wakeup this caller may have consumed
		if q.size < len(q.items) {
			q.notFull.Signal()
		}
		return err
	}
	q.put(item)
	return nil
}

// Pop removes and returns the oldest item, waiting while the queue is empty
// and not yet closed. Once closed, remaining items are still handed out and
// ErrDrained is returned only when none are left.
func (q *Queue) Pop(ctx context.Context) (string, error) {
	stop := q.wakeOnDone(ctx)
	defer stop()

	q.mu.Lock()
	defer q.mu.Unlock()
	for q.size == 0 && !q.closed && ctx.Err() == nil {
		q.notEmpty.Wait()
	}
	if q.size > 0 {
		return q.take(), nil
	}
	if q.closed {
		return "", ErrDrained
	}
	return "", ctx.Err()
}

// Close marks that no further items will be pushed and wakes every waiter.
// Only the first call has any effect.
func (q *Queue) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.notEmpty.Broadcast()
	q.notFull.Broadcast()
}

// Closed reports whether Close has been called.
func (q *Queue) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.closed
}

// IsFull reports whether the queue holds Cap items.
func (q *Queue) IsFull() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size == len(q.items)
}

// IsEmpty reports whether the queue holds no items.
func (q *Queue) IsEmpty() bool {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size == 0
}

// Len returns the number of queued items.
func (q *Queue) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.size
}

// Cap returns the fixed capacity.
func (q *Queue) Cap() int {
	return len(q.items)
}

// Peak returns the largest size observed since creation.
func (q *Queue) Peak() int {
	q.mu.Lock()
	defer q.mu.Unlock()
	return q.peak
}

// put and take require q.mu.
func (q *Queue) put(item string) {
	tail := (q.head + q.size) % len(q.items)
	q.items[tail] = item
	q.size++
	if q.size > q.peak {
		q.peak = q.size
	}
	q.notEmpty.Signal()
}

func (q *Queue) take() string {
	item := q.items[q.head]
	q.items[q.head] = ""
	q.head = (q.head + 1) % len(q.items)
	q.size--
	q.notFull.Signal()
	return item
}

// wakeOnDone broadcasts to all waiters when ctx ends so that they can
// observe ctx.Err(). The lock is taken so the broadcast cannot slip in
// between a waiter's condition check and its Wait.
func (q *Queue) wakeOnDone(ctx context.Context) func() bool {
	if ctx.Done() == nil {
		return func() bool { return true }
	}
	return context.AfterFunc(ctx, func() {
		q.mu.Lock()
		q.notEmpty.Broadcast()
		q.notFull.Broadcast()
		q.mu.Unlock()
	})
}
