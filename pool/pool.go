// SPDX-License-Identifier: MIT

// Package pool runs caller-supplied work on a fixed set of worker
// goroutines fed from a bounded fifo.Queue.
//
// Work comes in two flavours: plain closures (Queue) and index-addressed
// closures (QueueIndexed) that receive the integer they were queued with.
// The index form lets a kernel split one output into disjoint blocks and
// hand each block start to a worker without allocating per-block state.
//
// Wait blocks until the queue is drained and no worker is executing. Close
// stops every worker, joins them and releases the queue.
package pool

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"sync"
	"sync/atomic"

	"github.com/katalvlaran/linalg/fifo"
	"github.com/sirupsen/logrus"
)

var (
	// ErrShutdown is returned when work is submitted to a closed pool.
	ErrShutdown = errors.New("pool: shut down")

	// ErrStartup is returned by NewContext when the context ends before
	// every worker reported ready.
	ErrStartup = errors.New("pool: worker startup aborted")

	// ErrNilWork is returned for a nil work function.
	ErrNilWork = errors.New("pool: nil work function")
)

type kind uint8

const (
	kindStop kind = iota
	kindPlain
	kindIndexed
)

type work struct {
	kind    kind
	plain   func()
	indexed func(int)
}

var stopWork = &work{kind: kindStop}

// Pool is a fixed-size set of workers sharing one work queue.
// All methods are safe for concurrent use.
type Pool struct {
	queue   *fifo.Queue[*work]
	workers []*worker
	wg      sync.WaitGroup
	log     logrus.FieldLogger

	closing   atomic.Bool
	closeOnce sync.Once
}

// New starts n workers (runtime.NumCPU() when n <= 0).
func New(n int, opts ...Option) (*Pool, error) {
	return NewContext(context.Background(), n, opts...)
}

// NewContext starts n workers and blocks until each has reported ready.
// If ctx ends first, the workers already running are stopped and joined,
// and the error wraps both ErrStartup and ctx.Err().
func NewContext(ctx context.Context, n int, opts ...Option) (*Pool, error) {
	if n <= 0 {
		n = runtime.NumCPU()
	}
	o := gatherOptions(n, opts...)

	q, err := fifo.New[*work](o.queueCapacity)
	if err != nil {
		return nil, fmt.Errorf("pool: queue: %w", err)
	}

	p := &Pool{
		queue:   q,
		workers: make([]*worker, n),
		log:     o.logger,
	}

	ready := make(chan int, n)
	for i := range p.workers {
		w := newWorker(i)
		p.workers[i] = w
		p.wg.Add(1)
		go p.run(w, ready)
	}

	for started := 0; started < n; started++ {
		if ctx.Err() == nil {
			select {
			case <-ready:
				continue
			case <-ctx.Done():
			}
		}
		p.stop()
		return nil, fmt.Errorf("%w: %w", ErrStartup, ctx.Err())
	}

	return p, nil
}

// NumWorkers returns the fixed worker count.
func (p *Pool) NumWorkers() int { return len(p.workers) }

// Pending returns the number of queued, not yet claimed work items.
func (p *Pool) Pending() int { return p.queue.Len() }

// States returns a snapshot of every worker's lifecycle state.
func (p *Pool) States() []State {
	out := make([]State, len(p.workers))
	for i, w := range p.workers {
		out[i] = w.current()
	}

	return out
}

// Queue schedules fn. It blocks while the work queue is full.
func (p *Pool) Queue(fn func()) error {
	if fn == nil {
		return ErrNilWork
	}

	return p.submit(&work{kind: kindPlain, plain: fn}, fifo.NoIndex)
}

// QueueIndexed schedules fn(index). Several items may share one fn value;
// each receives the index it was queued with.
func (p *Pool) QueueIndexed(fn func(index int), index int) error {
	if fn == nil {
		return ErrNilWork
	}

	return p.submit(&work{kind: kindIndexed, indexed: fn}, index)
}

func (p *Pool) submit(w *work, index int) error {
	if p.closing.Load() {
		return ErrShutdown
	}
	if err := p.queue.PushIndexed(w, index, fifo.Wait); err != nil {
		if errors.Is(err, fifo.ErrClosed) {
			return ErrShutdown
		}
		return fmt.Errorf("pool: submit: %w", err)
	}

	return nil
}

// ParallelFor covers [0, n) with blocks of size block and runs
// fn(start, end) once per block. The calling goroutine takes blocks as
// well and only waits for blocks a worker has already started, so work
// running on the pool may itself call ParallelFor on the same pool.
// A non-positive block is treated as one block per worker.
//
// A panic in fn is logged when it happens on a worker and propagates
// when it happens on the caller.
func (p *Pool) ParallelFor(n, block int, fn func(start, end int)) error {
	if fn == nil {
		return ErrNilWork
	}
	if n <= 0 {
		return nil
	}
	if p.closing.Load() {
		return ErrShutdown
	}
	if block <= 0 {
		block = (n + len(p.workers) - 1) / len(p.workers)
	}
	blocks := (n + block - 1) / block

	var (
		mu      sync.Mutex
		done    = sync.NewCond(&mu)
		next    int
		running int
	)
	claim := func() (int, bool) {
		mu.Lock()
		defer mu.Unlock()
		if next == blocks {
			return 0, false
		}
		b := next
		next++
		running++

		return b, true
	}
	finish := func() {
		mu.Lock()
		running--
		if running == 0 {
			done.Broadcast()
		}
		mu.Unlock()
	}
	take := func() {
		for {
			b, ok := claim()
			if !ok {
				return
			}
			func() {
				defer finish()
				start := b * block
				fn(start, min(start+block, n))
			}()
		}
	}

	// Helpers that cannot be queued right away are skipped; the caller
	// covers their share.
	var err error
	for h := 0; h < min(len(p.workers), blocks-1); h++ {
		queued, qerr := p.tryQueue(take)
		if qerr != nil {
			err = qerr
			break
		}
		if !queued {
			break
		}
	}

	take()
	mu.Lock()
	for running > 0 {
		done.Wait()
	}
	mu.Unlock()

	return err
}

// tryQueue schedules fn without waiting for queue space.
func (p *Pool) tryQueue(fn func()) (bool, error) {
	if p.closing.Load() {
		return false, ErrShutdown
	}
	err := p.queue.Push(&work{kind: kindPlain, plain: fn}, fifo.NoWait)
	switch {
	case err == nil:
		return true, nil
	case errors.Is(err, fifo.ErrFull):
		return false, nil
	case errors.Is(err, fifo.ErrClosed):
		return false, ErrShutdown
	default:
		return false, fmt.Errorf("pool: submit: %w", err)
	}
}

// Wait blocks until the queue is empty and every worker is idle.
// Work submitted concurrently with Wait from other goroutines may or may
// not be covered. Calling Wait from work running on the pool never
// returns, since that worker stays Busy; use ParallelFor there.
func (p *Pool) Wait() error {
	if err := p.queue.WaitEmpty(); err != nil {
		if errors.Is(err, fifo.ErrClosed) {
			return ErrShutdown
		}
		return err
	}
	for _, w := range p.workers {
		w.waitIdle()
	}

	return nil
}

// Close stops all workers and joins them. Work still queued when the
// workers exit is discarded with a warning. Close is idempotent.
func (p *Pool) Close() {
	p.closeOnce.Do(p.stop)
}

func (p *Pool) stop() {
	p.closing.Store(true)
	for range p.workers {
		// The queue is still open here; a stop can only fail if it was
		// closed underneath us, in which case the workers exit anyway.
		_ = p.queue.Push(stopWork, fifo.Wait)
	}
	p.wg.Wait()

	if left := p.queue.Drain(); len(left) > 0 {
		p.log.WithField("discarded", len(left)).Warn("pool: discarding queued work on close")
	}
	p.queue.Close()
}
