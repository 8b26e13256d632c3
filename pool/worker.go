// SPDX-License-Identifier: MIT

package pool

import (
	"fmt"
	"runtime/debug"
	"sync"

	"github.com/katalvlaran/linalg/fifo"
	"github.com/sirupsen/logrus"
)

// State is a worker lifecycle state.
type State int32

const (
	Starting State = iota
	Ready
	Busy
	Stopped
)

var stateNames = [...]string{"starting", "ready", "busy", "stopped"}

// String implements fmt.Stringer.
func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return fmt.Sprintf("State(%d)", int32(s))
	}

	return stateNames[s]
}

// worker state is guarded by its own mutex; every transition broadcasts
// on cond so Wait can block on a single worker.
type worker struct {
	id    int
	mu    sync.Mutex
	cond  sync.Cond
	state State
}

func newWorker(id int) *worker {
	w := &worker{id: id, state: Starting}
	w.cond.L = &w.mu

	return w
}

func (w *worker) set(s State) {
	w.mu.Lock()
	w.state = s
	w.cond.Broadcast()
	w.mu.Unlock()
}

func (w *worker) current() State {
	w.mu.Lock()
	defer w.mu.Unlock()

	return w.state
}

func (w *worker) waitIdle() {
	w.mu.Lock()
	for w.state == Busy {
		w.cond.Wait()
	}
	w.mu.Unlock()
}

// run is the worker loop. The Busy transition happens inside the queue's
// claim callback, before the pending count drops, so Wait never observes
// an empty queue while a claimed item has not yet been marked.
func (p *Pool) run(w *worker, ready chan<- int) {
	defer p.wg.Done()
	defer w.set(Stopped)

	w.set(Ready)
	ready <- w.id

	markBusy := func(*work, int) { w.set(Busy) }
	for {
		it, index, err := p.queue.PopClaim(fifo.Wait, markBusy)
		if err != nil {
			return
		}
		if it.kind == kindStop {
			return
		}
		p.execute(w, it, index)
		w.set(Ready)
	}
}

func (p *Pool) execute(w *worker, it *work, index int) {
	defer func() {
		if r := recover(); r != nil {
			p.log.WithFields(logrus.Fields{
				"worker": w.id,
				"index":  index,
				"panic":  r,
			}).Errorf("pool: work panicked\n%s", debug.Stack())
		}
	}()

	switch it.kind {
	case kindPlain:
		it.plain()
	case kindIndexed:
		it.indexed(index)
	}
}
