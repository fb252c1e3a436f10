// Package tasks runs background work on a bounded worker pool. Submitting
// through the pool instead of spawning goroutines directly keeps the number
// of concurrent storage deletes and log writes under control.
package tasks

import (
	"fmt"
	"sync"

	"github.com/sirupsen/logrus"
)

type job struct {
	name string
	fn   func() error
	done chan error
}

type Pool struct {
	jobs    chan job
	logger  *logrus.Logger
	workers int

	mu      sync.Mutex
	stopped bool
	wg      sync.WaitGroup
}

func NewPool(workers, queueSize int, logger *logrus.Logger) *Pool {
	if workers < 1 {
		workers = 1
	}
	if queueSize < 1 {
		queueSize = workers
	}
	return &Pool{
		jobs:    make(chan job, queueSize),
		logger:  logger,
		workers: workers,
	}
}

func (p *Pool) Start() {
	for i := 0; i < p.workers; i++ {
		p.wg.Add(1)
		go p.worker()
	}
}

func (p *Pool) worker() {
	defer p.wg.Done()
	for j := range p.jobs {
		err := j.fn()
		if err != nil {
			p.logger.WithError(err).WithField("task", j.name).Warn("background task failed")
		}
		j.done <- err
		close(j.done)
	}
}

// Submit enqueues a task and returns a channel delivering its result. It
// fails when the pool is stopped or the queue is full rather than blocking
// the caller.
func (p *Pool) Submit(name string, fn func() error) (<-chan error, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.stopped {
		return nil, fmt.Errorf("pool is stopped")
	}

	j := job{name: name, fn: fn, done: make(chan error, 1)}
	select {
	case p.jobs <- j:
		return j.done, nil
	default:
		return nil, fmt.Errorf("task queue is full")
	}
}

// Stop drains the queue and waits for in-flight tasks to finish.
func (p *Pool) Stop() {
	p.mu.Lock()
	if p.stopped {
		p.mu.Unlock()
		return
	}
	p.stopped = true
	close(p.jobs)
	p.mu.Unlock()

	p.wg.Wait()
}
