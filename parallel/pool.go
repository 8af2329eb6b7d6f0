// Package parallel runs independent jobs on a bounded set of goroutines.
package parallel

import (
	"runtime"
	"sync"
)

// Pool is a fixed set of workers fed through a queue. A pool of one worker
// runs jobs inline on the caller's goroutine, in submission order.
type Pool struct {
	workers int
	jobs    chan func()
	wg      sync.WaitGroup
	stop    func()
}

// Start launches a pool. workers < 1 uses GOMAXPROCS.
func Start(workers int) *Pool {
	if workers < 1 {
		workers = runtime.GOMAXPROCS(0)
	}

	p := &Pool{workers: workers, stop: func() {}}
	if workers == 1 {
		return p
	}

	p.jobs = make(chan func(), workers)
	for range workers {
		p.wg.Go(func() {
			for f := range p.jobs {
				f()
			}
		})
	}
	p.stop = sync.OnceFunc(func() { close(p.jobs) })
	return p
}

// Workers returns the number of workers.
func (p *Pool) Workers() int { return p.workers }

// Do queues f, blocking while every worker is busy and the queue is full.
// Do must not be called after Wait.
func (p *Pool) Do(f func()) {
	if p.jobs == nil {
		f()
		return
	}
	p.jobs <- f
}

// Wait stops accepting jobs and returns once all queued jobs finished.
// It is safe to call more than once.
func (p *Pool) Wait() {
	p.stop()
	p.wg.Wait()
}
