// SPDX-License-Identifier: MIT

// Package fifo implements a bounded, blocking, multi-producer/multi-consumer
// first-in-first-out queue with an optional integer index attached to every
// element.
//
// Concurrency model:
//   - pushMu serializes producers among themselves (tail side).
//   - popMu serializes consumers among themselves (head side).
//   - mu guards the element count and the closed flag; the three condition
//     variables (notFull, notEmpty, empty) are bound to it.
//
// Slot contents are written and read outside mu. The count update that
// follows a slot write (and precedes a slot read) is the synchronization
// point, so a producer and a consumer never touch the same slot at once.
//
// Complexity: Push/Pop O(1) amortized; memory O(capacity).
package fifo

import (
	"errors"
	"runtime"
	"sync"
)

// NoIndex is the index reported for elements pushed without one.
const NoIndex = -1

// WaitMode selects between blocking and fail-fast behavior.
type WaitMode int

const (
	// Wait blocks until the operation can proceed or the queue is closed.
	Wait WaitMode = iota
	// NoWait fails immediately with ErrFull/ErrEmpty.
	NoWait
)

// String implements fmt.Stringer.
func (m WaitMode) String() string {
	if m == NoWait {
		return "nowait"
	}

	return "wait"
}

var (
	// ErrCapacity is returned by New for a non-positive capacity.
	ErrCapacity = errors.New("fifo: capacity must be > 0")

	// ErrFull is returned by a NoWait push on a full queue.
	ErrFull = errors.New("fifo: queue is full")

	// ErrEmpty is returned by a NoWait pop on an empty queue.
	ErrEmpty = errors.New("fifo: queue is empty")

	// ErrClosed is returned by pushes after Close and by pops once a closed
	// queue has been drained.
	ErrClosed = errors.New("fifo: queue is closed")
)

type slot[T any] struct {
	value T
	index int
}

// Queue is a bounded FIFO of T. The zero value is not usable; call New.
type Queue[T any] struct {
	buf  []slot[T]
	head int // next slot to read; owned by the consumer holding popMu
	tail int // next slot to write; owned by the producer holding pushMu

	pushMu sync.Mutex
	popMu  sync.Mutex

	mu       sync.Mutex
	count    int
	closed   bool
	notFull  sync.Cond
	notEmpty sync.Cond
	empty    sync.Cond
}

// New allocates a queue holding at most capacity elements.
func New[T any](capacity int) (*Queue[T], error) {
	if capacity <= 0 {
		return nil, ErrCapacity
	}
	q := &Queue[T]{buf: make([]slot[T], capacity)}
	q.notFull.L = &q.mu
	q.notEmpty.L = &q.mu
	q.empty.L = &q.mu

	return q, nil
}

// Cap returns the fixed capacity.
func (q *Queue[T]) Cap() int { return len(q.buf) }

// Len returns the number of pending elements at the time of the call.
func (q *Queue[T]) Len() int {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.count
}

// Closed reports whether Close has been called.
func (q *Queue[T]) Closed() bool {
	q.mu.Lock()
	defer q.mu.Unlock()

	return q.closed
}

// Push appends v without an index.
func (q *Queue[T]) Push(v T, mode WaitMode) error {
	return q.PushIndexed(v, NoIndex, mode)
}

// PushIndexed appends v together with index.
// Under Wait it blocks while the queue is full; under NoWait it returns
// ErrFull instead. Pushing into a closed queue returns ErrClosed.
func (q *Queue[T]) PushIndexed(v T, index int, mode WaitMode) error {
	if err := q.lockPush(mode); err != nil {
		return err
	}
	defer q.pushMu.Unlock()

	q.mu.Lock()
	for !q.closed && q.count == len(q.buf) {
		if mode == NoWait {
			q.mu.Unlock()
			return ErrFull
		}
		q.notFull.Wait()
	}
	if q.closed {
		q.mu.Unlock()
		return ErrClosed
	}
	q.mu.Unlock()

	q.buf[q.tail] = slot[T]{value: v, index: index}
	q.tail = (q.tail + 1) % len(q.buf)

	q.mu.Lock()
	q.count++
	q.notEmpty.Signal()
	q.mu.Unlock()

	return nil
}

// Pop removes the oldest element.
func (q *Queue[T]) Pop(mode WaitMode) (T, error) {
	v, _, err := q.PopClaim(mode, nil)

	return v, err
}

// PopIndexed removes the oldest element and returns its index
// (NoIndex when it was pushed without one).
func (q *Queue[T]) PopIndexed(mode WaitMode) (T, int, error) {
	return q.PopClaim(mode, nil)
}

// PopClaim removes the oldest element and hands it to claim before the
// slot is released and the pending count drops. Anything claim publishes
// is therefore visible to a goroutine woken by WaitEmpty.
//
// Under Wait it blocks while the queue is empty; under NoWait it returns
// ErrEmpty. Once the queue is closed, remaining elements are still
// delivered and ErrClosed is returned only when none are left.
func (q *Queue[T]) PopClaim(mode WaitMode, claim func(v T, index int)) (T, int, error) {
	var zero T

	if err := q.lockPop(mode); err != nil {
		return zero, NoIndex, err
	}
	defer q.popMu.Unlock()

	q.mu.Lock()
	for q.count == 0 {
		if q.closed {
			q.mu.Unlock()
			return zero, NoIndex, ErrClosed
		}
		if mode == NoWait {
			q.mu.Unlock()
			return zero, NoIndex, ErrEmpty
		}
		q.notEmpty.Wait()
	}
	q.mu.Unlock()

	s := q.buf[q.head]
	q.buf[q.head] = slot[T]{} // drop the reference for the GC
	q.head = (q.head + 1) % len(q.buf)

	if claim != nil {
		claim(s.value, s.index)
	}

	q.mu.Lock()
	q.count--
	q.notFull.Signal()
	if q.count == 0 {
		q.empty.Broadcast()
	}
	q.mu.Unlock()

	return s.value, s.index, nil
}

// lockPush takes pushMu. A producer only parks while holding pushMu when
// the queue is full, so under NoWait a held lock over a full queue is
// reported as ErrFull instead of waiting behind it.
func (q *Queue[T]) lockPush(mode WaitMode) error {
	if mode == Wait {
		q.pushMu.Lock()
		return nil
	}
	for !q.pushMu.TryLock() {
		q.mu.Lock()
		full, closed := q.count == len(q.buf), q.closed
		q.mu.Unlock()
		if closed {
			return ErrClosed
		}
		if full {
			return ErrFull
		}
		runtime.Gosched()
	}

	return nil
}

// lockPop is lockPush for consumers: a consumer parks holding popMu only
// on an empty queue.
func (q *Queue[T]) lockPop(mode WaitMode) error {
	if mode == Wait {
		q.popMu.Lock()
		return nil
	}
	for !q.popMu.TryLock() {
		q.mu.Lock()
		n, closed := q.count, q.closed
		q.mu.Unlock()
		if n == 0 {
			if closed {
				return ErrClosed
			}
			return ErrEmpty
		}
		runtime.Gosched()
	}

	return nil
}

// WaitEmpty blocks until the pending count reaches zero.
// It returns ErrClosed if the queue is closed while elements remain.
func (q *Queue[T]) WaitEmpty() error {
	q.mu.Lock()
	defer q.mu.Unlock()
	for q.count != 0 {
		if q.closed {
			return ErrClosed
		}
		q.empty.Wait()
	}

	return nil
}

// Drain removes every pending element without blocking and returns them
// in FIFO order.
func (q *Queue[T]) Drain() []T {
	var out []T
	for {
		v, _, err := q.PopClaim(NoWait, nil)
		if err != nil {
			return out
		}
		out = append(out, v)
	}
}

// Close marks the queue closed and wakes every blocked producer, consumer
// and WaitEmpty caller. Pending elements stay poppable. Close is idempotent.
func (q *Queue[T]) Close() {
	q.mu.Lock()
	defer q.mu.Unlock()
	if q.closed {
		return
	}
	q.closed = true
	q.notFull.Broadcast()
	q.notEmpty.Broadcast()
	q.empty.Broadcast()
}
