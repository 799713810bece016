package tasks

import (
	"errors"
	"fmt"
	"sync"
	"sync/atomic"
)

// ErrPoolClosed is returned by Submit after the pool has been shut down.
var ErrPoolClosed = errors.New("tasks: pool closed")

// Pool runs background tasks on behalf of a single owner, typically one
// transport instance. Each task gets a unique name derived from a counter
// scoped to the pool, not to the process. Closing the pool stops new
// submissions; tasks already running are left to finish on their own.
type Pool struct {
	prefix  string
	counter atomic.Int64
	active  atomic.Int64

	mu     sync.Mutex
	closed bool
	wg     sync.WaitGroup
}

// NewPool creates a pool whose task names start with the given prefix.
func NewPool(prefix string) *Pool {
	return &Pool{prefix: prefix}
}

// Submit schedules fn on its own goroutine and returns the task name.
// It fails with ErrPoolClosed once Close has been called.
func (p *Pool) Submit(fn func()) (string, error) {
	p.mu.Lock()
	if p.closed {
		p.mu.Unlock()
		return "", ErrPoolClosed
	}
	p.wg.Add(1)
	p.mu.Unlock()

	name := fmt.Sprintf("%s-%d", p.prefix, p.counter.Add(1)-1)
	p.active.Add(1)
	go func() {
		defer func() {
			p.active.Add(-1)
			p.wg.Done()
		}()
		fn()
	}()
	return name, nil
}

// Active returns the number of tasks currently running.
func (p *Pool) Active() int {
	return int(p.active.Load())
}

// Close stops accepting new tasks. It does not interrupt running tasks.
// Safe to call more than once.
func (p *Pool) Close() {
	p.mu.Lock()
	p.closed = true
	p.mu.Unlock()
}

// Wait blocks until every submitted task has finished. Intended for tests
// and orderly teardown; it does not imply Close.
func (p *Pool) Wait() {
	p.wg.Wait()
}
